package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"goodreads-insights/models"
)

// Export file names, one per aggregate or column of a report.
const (
	FileFinishYears = "books_per_finish_year.csv"
	FilePubYears    = "books_per_publication_year.csv"
	FileDays        = "days_to_finish.csv"
	FilePages       = "pages.csv"
	FileRatings     = "ratings.csv"
	FileSummary     = "summary.csv"
)

// CSVExporter writes the aggregates, columns and summary statistics of a
// report as CSV files under one directory. It is safe for concurrent use.
type CSVExporter struct {
	mu  sync.Mutex
	dir string
}

// NewCSVExporter creates dir (and parents) and returns an exporter into it.
func NewCSVExporter(dir string) (*CSVExporter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}
	return &CSVExporter{dir: dir}, nil
}

// Dir returns the directory the exporter writes into.
func (c *CSVExporter) Dir() string { return c.dir }

// Export writes every file for report, truncating previous output.
func (c *CSVExporter) Export(report *models.InsightReport) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	files := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{FileFinishYears, []string{"finish_year", "count"}, yearRows(report.BooksPerFinishYear)},
		{FilePubYears, []string{"publication_year", "count"}, yearRows(report.BooksPerPubYear)},
		{FileDays, []string{"days_to_finish"}, intRows(report.DaysToFinish)},
		{FilePages, []string{"pages"}, intRows(report.Pages)},
		{FileRatings, []string{"my_rating", "average_rating"}, ratingRows(report.MyRatings, report.AvgRatings)},
		{FileSummary, []string{"statistic", "value", "defined"}, summaryRows(report)},
	}

	for _, f := range files {
		if err := c.writeFile(f.name, f.header, f.rows); err != nil {
			return err
		}
	}
	return nil
}

func (c *CSVExporter) writeFile(name string, header []string, rows [][]string) error {
	path := filepath.Join(c.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("csv: write header %q: %w", name, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("csv: write rows %q: %w", name, err)
	}
	return f.Close()
}

func yearRows(pairs []models.YearCount) [][]string {
	rows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, []string{strconv.Itoa(p.Year), strconv.Itoa(p.Count)})
	}
	return rows
}

func intRows(col []int) [][]string {
	rows := make([][]string, 0, len(col))
	for _, v := range col {
		rows = append(rows, []string{strconv.Itoa(v)})
	}
	return rows
}

// ratingRows pairs the two rating columns; both come from the rated view and
// so have the same length.
func ratingRows(mine []int, avg []float64) [][]string {
	rows := make([][]string, 0, len(mine))
	for i := range mine {
		a := ""
		if i < len(avg) {
			a = formatFloat(avg[i])
		}
		rows = append(rows, []string{strconv.Itoa(mine[i]), a})
	}
	return rows
}

func summaryRows(r *models.InsightReport) [][]string {
	intStat := func(name string, s models.Stat[int]) []string {
		return statRow(name, strconv.Itoa(s.Value), s.Defined)
	}
	floatStat := func(name string, s models.Stat[float64]) []string {
		return statRow(name, formatFloat(s.Value), s.Defined)
	}

	return [][]string{
		{"total_books", strconv.Itoa(r.TotalBooks), "true"},
		intStat("unique_books_finished", r.UniqueBooksFinished),
		intStat("unique_authors_finished", r.UniqueAuthorsFinished),
		statRow("most_frequent_author", r.MostFrequentAuthor.Value, r.MostFrequentAuthor.Defined),
		floatStat("mean_pages", r.MeanPages),
		floatStat("mean_days_to_finish", r.MeanDaysToFinish),
		floatStat("mean_personal_rating", r.MeanMyRating),
		floatStat("mean_peer_rating", r.MeanAvgRating),
		floatStat("rating_delta", r.RatingDelta),
		statRow("rating_label", r.RatingLabel, r.RatingDelta.Defined),
		intStat("most_common_finish_year", r.MostCommonFinishYear),
	}
}

// statRow leaves the value cell empty for an undefined statistic so a zero
// is never mistaken for a result.
func statRow(name, value string, defined bool) []string {
	if !defined {
		value = ""
	}
	return []string{name, value, strconv.FormatBool(defined)}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
