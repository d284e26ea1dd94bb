package render

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"

	"goodreads-insights/models"
	"goodreads-insights/services"
	"goodreads-insights/utils"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

var reportTemplate = template.Must(template.ParseFS(templateFS, "templates/report.html.tmpl"))

// histogramBins is the bin count of the continuous distributions.
const histogramBins = 10

// HTMLRenderer renders an InsightReport as a standalone HTML page.
type HTMLRenderer struct {
	logger     *utils.Logger
	pubYearMin int
	pubYearMax int
}

func NewHTMLRenderer(logger *utils.Logger, pubYearMin, pubYearMax int) *HTMLRenderer {
	return &HTMLRenderer{logger: logger, pubYearMin: pubYearMin, pubYearMax: pubYearMax}
}

type statRow struct {
	Name  string
	Value string
}

type reportPage struct {
	Report *models.InsightReport
	Banner json.RawMessage

	Stats []statRow

	FinishYears  []Bar
	CommonYear   string
	DaysToFinish []Bar
	MeanDays     string
	Pages        []Bar
	MeanPages    string

	PubYearMin    int
	PubYearMax    int
	PubYears      []Bar
	HiddenPubYear int

	MyRatings      []Bar
	AvgRatings     []Bar
	RatingSentence string
}

// Render writes the page for report to w. banner may be nil, in which case
// the page is rendered without the animation.
func (h *HTMLRenderer) Render(w io.Writer, report *models.InsightReport, banner json.RawMessage) error {
	clipped := services.ClipYears(report.BooksPerPubYear, h.pubYearMin, h.pubYearMax)

	page := reportPage{
		Report:        report,
		Banner:        banner,
		Stats:         statRows(report),
		FinishYears:   YearBars(report.BooksPerFinishYear),
		DaysToFinish:  Histogram(Ints(report.DaysToFinish), histogramBins),
		Pages:         Histogram(Ints(report.Pages), histogramBins),
		PubYearMin:    h.pubYearMin,
		PubYearMax:    h.pubYearMax,
		PubYears:      YearBars(clipped),
		HiddenPubYear: len(report.BooksPerPubYear) - len(clipped),
		MyRatings:     ratingBars(report.MyRatings),
		AvgRatings:    Histogram(report.AvgRatings, histogramBins),
	}
	if report.MostCommonFinishYear.Defined {
		page.CommonYear = fmt.Sprint(report.MostCommonFinishYear.Value)
	}
	if report.MeanDaysToFinish.Defined {
		page.MeanDays = fmt.Sprint(int(report.MeanDaysToFinish.Value))
	}
	if report.MeanPages.Defined {
		page.MeanPages = fmt.Sprint(int(report.MeanPages.Value))
	}
	if report.RatingDelta.Defined {
		page.RatingSentence = fmt.Sprintf("You rate books %s the Goodreads average by %.2f points.",
			report.RatingLabel, math.Abs(report.RatingDelta.Value))
	}

	if err := reportTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("html: render: %w", err)
	}
	return nil
}

// RenderFile writes the page to path, creating parent directories.
func (h *HTMLRenderer) RenderFile(path string, report *models.InsightReport, banner json.RawMessage) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("html: create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("html: create file %q: %w", path, err)
	}
	if err := h.Render(f, report, banner); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("html: close %q: %w", path, err)
	}
	h.logger.Info("[render] HTML report written to %s", path)
	return nil
}

// ratingBars counts personal ratings per distinct value; they are whole
// numbers, so equal-width binning would blur them. Every value present gets
// a bar, including ones outside the usual 1-5 stars.
func ratingBars(ratings []int) []Bar {
	if len(ratings) == 0 {
		return nil
	}
	counts := make(map[int]int)
	for _, r := range ratings {
		counts[r]++
	}
	pairs := make([]models.YearCount, 0, len(counts))
	for v, n := range counts {
		pairs = append(pairs, models.YearCount{Year: v, Count: n})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Year < pairs[j].Year })
	return YearBars(pairs)
}

func statRows(r *models.InsightReport) []statRow {
	intStat := func(s models.Stat[int]) string {
		if !s.Defined {
			return "n/a"
		}
		return fmt.Sprint(s.Value)
	}
	floatStat := func(s models.Stat[float64]) string {
		if !s.Defined {
			return "n/a"
		}
		return fmt.Sprintf("%.2f", s.Value)
	}
	author := "n/a"
	if r.MostFrequentAuthor.Defined {
		author = r.MostFrequentAuthor.Value
	}

	return []statRow{
		{"Books in export", fmt.Sprint(r.TotalBooks)},
		{"Books finished", intStat(r.UniqueBooksFinished)},
		{"Unique authors", intStat(r.UniqueAuthorsFinished)},
		{"Most-read author", author},
		{"Mean pages", floatStat(r.MeanPages)},
		{"Mean days to finish", floatStat(r.MeanDaysToFinish)},
		{"Mean personal rating", floatStat(r.MeanMyRating)},
		{"Mean Goodreads rating", floatStat(r.MeanAvgRating)},
		{"Rating delta", floatStat(r.RatingDelta)},
		{"Most common finish year", intStat(r.MostCommonFinishYear)},
	}
}
