package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/cobra"

	"goodreads-insights/config"
	"goodreads-insights/dataset"
	"goodreads-insights/models"
	"goodreads-insights/render"
	"goodreads-insights/services"
	"goodreads-insights/storage"
	"goodreads-insights/utils"
)

const bannerTimeout = 5 * time.Second

// AnalyzeOptions holds the flags of the analyze command. Empty paths fall
// back to the matching environment setting.
type AnalyzeOptions struct {
	ExportDir      string
	HTMLPath       string
	ScreenshotPath string
	Persist        bool
	FromDB         bool
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [export.csv...]",
		Short: "Compute reading insights from Goodreads exports",
		Long: `Compute reading insights from one or more Goodreads library exports.

With no file argument GOODREADS_CSV is used; when that is unset or the file
does not exist the bundled sample export is analysed instead. Several exports
are analysed concurrently and reported in argument order.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, rootOpts, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.ExportDir, "export-dir", "", "write aggregate CSV files to this directory")
	cmd.Flags().StringVar(&opts.HTMLPath, "html", "", "write an HTML report to this path")
	cmd.Flags().StringVar(&opts.ScreenshotPath, "screenshot", "", "write a PNG capture of the HTML report to this path")
	cmd.Flags().BoolVar(&opts.Persist, "persist", false, "store the ingested table in the configured store")
	cmd.Flags().BoolVar(&opts.FromDB, "from-db", false, "analyse the table in the configured store instead of a CSV")

	return cmd
}

// analysis is the outcome of one source.
type analysis struct {
	source string
	result *services.Result
	err    error
}

func runAnalyze(cmd *cobra.Command, rootOpts *RootOptions, opts *AnalyzeOptions, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}
	opts.applyConfig(cfg)

	if opts.Persist && opts.FromDB {
		return errors.New("--persist and --from-db cannot be combined")
	}
	if opts.FromDB && len(args) > 0 {
		return errors.New("--from-db takes no export arguments")
	}

	logger := utils.NewLoggerTo(cmd.ErrOrStderr(), cmd.ErrOrStderr())
	logger.SetLevel(cfg.LogLevel)
	if rootOpts.Verbose {
		logger.SetLevel("debug")
	}

	insights := services.NewInsightService(logger)
	insights.SetPubYearWindow(cfg.PubYearMin, cfg.PubYearMax)
	pipeline := services.NewPipeline(logger, insights)

	var analyses []*analysis
	if opts.FromDB {
		analyses = []*analysis{analyzeStore(ctx, cfg, pipeline)}
	} else {
		paths := uniquePaths(args, cfg.InputCSV)
		if opts.Persist && len(paths) > 1 {
			return errors.New("--persist takes a single export")
		}
		analyses = analyzeFiles(pipeline, paths, cfg, logger)
	}

	var done []*analysis
	for _, a := range analyses {
		if a.err != nil {
			logger.Error("[analyze] %s: %v", a.source, a.err)
			continue
		}
		done = append(done, a)
	}

	if err := printReports(cmd.OutOrStdout(), rootOpts.Format, insights, done); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	var outErrs []error
	if opts.Persist && len(done) == 1 {
		if err := persist(ctx, cfg, done[0].result.Table, logger); err != nil {
			outErrs = append(outErrs, err)
		}
	}
	outErrs = append(outErrs, present(ctx, cfg, opts, done, logger)...)
	for _, err := range outErrs {
		logger.Error("[analyze] %v", err)
	}

	if failed := len(analyses) - len(done); failed > 0 {
		return fmt.Errorf("%d of %d sources could not be analysed", failed, len(analyses))
	}
	return errors.Join(outErrs...)
}

func (o *AnalyzeOptions) applyConfig(cfg *config.Config) {
	if o.ExportDir == "" {
		o.ExportDir = cfg.ExportDir
	}
	if o.HTMLPath == "" {
		o.HTMLPath = cfg.HTMLOutputPath
	}
	if o.ScreenshotPath == "" {
		o.ScreenshotPath = cfg.ScreenshotPath
	}
	// A screenshot needs a page to capture.
	if o.ScreenshotPath != "" && o.HTMLPath == "" {
		o.HTMLPath = strings.TrimSuffix(o.ScreenshotPath, filepath.Ext(o.ScreenshotPath)) + ".html"
	}
}

// uniquePaths drops repeated arguments, keeping first-seen order. With no
// arguments the configured default path (possibly empty) is used.
func uniquePaths(args []string, fallback string) []string {
	if len(args) == 0 {
		return []string{fallback}
	}
	seen := utils.NewStringSet()
	paths := make([]string, 0, len(args))
	for _, a := range args {
		if seen.Add(filepath.Clean(a)) {
			paths = append(paths, a)
		}
	}
	return paths
}

// analyzeFiles runs one independent pipeline per path on the worker pool.
// Results keep the order of paths.
func analyzeFiles(p *services.Pipeline, paths []string, cfg *config.Config, logger *utils.Logger) []*analysis {
	out := make([]*analysis, len(paths))
	pool := utils.NewWorkerPool(cfg.MaxConcurrency, cfg.RateLimitMs)
	for i, path := range paths {
		i, path := i, path
		pool.Submit(func() {
			out[i] = analyzeFile(p, path, logger)
		})
	}
	pool.Wait()
	return out
}

func analyzeFile(p *services.Pipeline, path string, logger *utils.Logger) *analysis {
	name, rc, fellBack, err := dataset.Resolve(path)
	if err != nil {
		return &analysis{source: path, err: &services.IngestionError{Source: path, Err: err}}
	}
	defer rc.Close()

	if fellBack && path != "" {
		logger.Warn("[analyze] %s does not exist, using the %s", path, dataset.DefaultName)
	}

	res, err := p.Run(name, rc)
	return &analysis{source: name, result: res, err: err}
}

func analyzeStore(ctx context.Context, cfg *config.Config, p *services.Pipeline) *analysis {
	source := "store:" + cfg.StoreKind

	store, err := openStore(ctx, cfg)
	if err != nil {
		return &analysis{source: source, err: &services.IngestionError{Source: source, Err: err}}
	}
	defer store.Close()

	table, err := store.FetchAll(ctx)
	if err != nil {
		return &analysis{source: source, err: &services.IngestionError{Source: source, Err: err}}
	}
	return &analysis{source: source, result: p.RunTable(source, table, nil)}
}

func persist(ctx context.Context, cfg *config.Config, table []*models.Book, logger *utils.Logger) error {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	defer store.Close()

	if err := store.Write(ctx, table); err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	logger.Info("[analyze] Stored %d records (%s)", len(table), cfg.StoreKind)
	return nil
}

func printReports(w io.Writer, format string, insights *services.InsightService, done []*analysis) error {
	if format == FormatText {
		for _, a := range done {
			insights.Print(w, a.result.Report)
		}
		return nil
	}

	if len(done) == 1 {
		return writeStructured(w, format, done[0].result.Report)
	}
	reports := make([]*models.InsightReport, 0, len(done))
	for _, a := range done {
		reports = append(reports, a.result.Report)
	}
	return writeStructured(w, format, reports)
}

// present writes the optional CSV, HTML and PNG outputs. Failures here never
// affect the computed reports; they are returned for logging.
func present(ctx context.Context, cfg *config.Config, opts *AnalyzeOptions, done []*analysis, logger *utils.Logger) []error {
	if len(done) == 0 {
		return nil
	}
	many := len(done) > 1
	var errs []error

	if opts.ExportDir != "" {
		for _, a := range done {
			dir := opts.ExportDir
			if many {
				dir = filepath.Join(dir, slug(a.source))
			}
			exp, err := storage.NewCSVExporter(dir)
			if err == nil {
				err = exp.Export(a.result.Report)
			}
			if err != nil {
				errs = append(errs, err)
				continue
			}
			logger.Info("[analyze] CSV files for %s written to %s", a.source, dir)
		}
	}

	if opts.HTMLPath == "" {
		return errs
	}

	banner := render.NewBannerFetcher(logger, bannerTimeout, cfg.MaxRetries).Fetch(ctx, cfg.BannerURL)
	html := render.NewHTMLRenderer(logger, cfg.PubYearMin, cfg.PubYearMax)
	var shots *render.Snapshotter
	if opts.ScreenshotPath != "" {
		shots = render.NewSnapshotter(cfg.ChromeBin, logger, cfg.MaxRetries)
	}

	for _, a := range done {
		htmlPath := perSource(opts.HTMLPath, a.source, many)
		if err := html.RenderFile(htmlPath, a.result.Report, banner); err != nil {
			errs = append(errs, err)
			continue
		}
		if shots == nil {
			continue
		}
		if err := shots.Capture(ctx, htmlPath, perSource(opts.ScreenshotPath, a.source, many)); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// perSource suffixes path with the source name when several sources share
// one output setting.
func perSource(path, source string, many bool) string {
	if !many {
		return path
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-" + slug(source) + ext
}

// slug reduces a source name to a file-name-safe token.
func slug(source string) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' {
			return r
		}
		return '-'
	}, base)
}
