package services

import (
	"fmt"
	"io"
	"math"
	"strings"

	"goodreads-insights/models"
	"goodreads-insights/utils"
)

// Default publication-year window used when printing the age-of-books chart.
const (
	DefaultPubYearMin = 1850
	DefaultPubYearMax = 2021
)

type InsightService struct {
	logger     *utils.Logger
	pubYearMin int
	pubYearMax int
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{
		logger:     logger,
		pubYearMin: DefaultPubYearMin,
		pubYearMax: DefaultPubYearMax,
	}
}

// SetPubYearWindow changes the publication-year range shown by Print. The
// report's aggregate is never clipped.
func (s *InsightService) SetPubYearWindow(minYear, maxYear int) {
	s.pubYearMin, s.pubYearMax = minYear, maxYear
}

// Generate computes every aggregate and summary statistic of a derived
// table. Statistics whose view is empty stay undefined and are listed in
// Unavailable.
func (s *InsightService) Generate(table []*models.Book) *models.InsightReport {
	completed := CompletedView(table)
	finished := FinishedDurationView(table)
	rated := RatedView(table)

	report := &models.InsightReport{
		TotalBooks:         len(table),
		BooksPerFinishYear: BooksPerFinishYear(table),
		BooksPerPubYear:    BooksPerPublicationYear(table),
		DaysToFinish:       DurationColumn(finished),
		Pages:              PageColumn(table),
		MyRatings:          MyRatingColumn(rated),
		AvgRatings:         AvgRatingColumn(rated),
	}

	unavailable := func(err error) {
		s.logger.Debug("[insights] %v", err)
		report.Unavailable = append(report.Unavailable, err.Error())
	}

	if n, err := UniqueBooks(completed); err != nil {
		unavailable(err)
	} else {
		report.UniqueBooksFinished = models.Defined(n)
	}
	if n, err := UniqueAuthors(completed); err != nil {
		unavailable(err)
	} else {
		report.UniqueAuthorsFinished = models.Defined(n)
	}
	if a, err := MostFrequentAuthor(completed); err != nil {
		unavailable(err)
	} else {
		report.MostFrequentAuthor = models.Defined(a)
	}
	if m, err := MeanPages(table); err != nil {
		unavailable(err)
	} else {
		report.MeanPages = models.Defined(m)
	}
	if m, err := MeanDaysToFinish(finished); err != nil {
		unavailable(err)
	} else {
		report.MeanDaysToFinish = models.Defined(m)
	}
	if m, err := MeanMyRating(rated); err != nil {
		unavailable(err)
	} else {
		report.MeanMyRating = models.Defined(m)
	}
	if m, err := MeanAvgRating(rated); err != nil {
		unavailable(err)
	} else {
		report.MeanAvgRating = models.Defined(m)
	}
	if d, label, err := RatingDelta(rated); err != nil {
		unavailable(err)
	} else {
		report.RatingDelta = models.Defined(d)
		report.RatingLabel = label
	}
	if y, err := MostCommonFinishYear(table); err != nil {
		unavailable(err)
	} else {
		report.MostCommonFinishYear = models.Defined(y)
	}

	s.logger.Info("[insights] %d books: %d completed, %d with a valid duration, %d rated",
		len(table), len(completed), len(finished), len(rated))
	return report
}

// Print writes a human-readable report to w.
func (s *InsightService) Print(w io.Writer, r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	section := func(title string) {
		fmt.Fprintf(w, "\033[1;33m  %s\033[0m\n", title)
		fmt.Fprintf(w, "  %s\n", thin)
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  📚 READING INSIGHTS\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	section("Overview")
	if r.Source != "" {
		fmt.Fprintf(w, "  Source               : %s\n", r.Source)
	}
	fmt.Fprintf(w, "  Books in export      : \033[1m%d\033[0m\n", r.TotalBooks)
	fmt.Fprintf(w, "  Books finished       : \033[1m%s\033[0m\n", intStat(r.UniqueBooksFinished))
	fmt.Fprintf(w, "  Unique authors       : \033[1m%s\033[0m\n", intStat(r.UniqueAuthorsFinished))
	if r.MostFrequentAuthor.Defined {
		fmt.Fprintf(w, "  Most-read author     : \033[1m%s\033[0m\n", r.MostFrequentAuthor.Value)
	} else {
		fmt.Fprintf(w, "  Most-read author     : n/a\n")
	}
	fmt.Fprintln(w)

	// 1. How many books per year?
	section("Books Finished per Year")
	printYearBars(w, r.BooksPerFinishYear)
	if r.MostCommonFinishYear.Defined {
		fmt.Fprintf(w, "  You finished most of your books in \033[1;32m%d\033[0m. Nice work!\n",
			r.MostCommonFinishYear.Value)
	}
	fmt.Fprintln(w)

	// 2. How long does it take to finish a book?
	section("Time to Finish")
	if r.MeanDaysToFinish.Defined {
		fmt.Fprintf(w, "  Average days from adding to finishing : \033[1;32m%d\033[0m (%d books)\n",
			int(r.MeanDaysToFinish.Value), len(r.DaysToFinish))
		fmt.Fprintf(w, "  Not a perfect measure: a book may sit on the to-read shelf for a while.\n")
	} else {
		fmt.Fprintf(w, "  No finished books with valid dates\n")
	}
	fmt.Fprintln(w)

	// 3. How long are the books?
	section("Book Length")
	if r.MeanPages.Defined {
		fmt.Fprintf(w, "  Average page count : \033[1;32m%d\033[0m (%d books with a page count)\n",
			int(r.MeanPages.Value), len(r.Pages))
	} else {
		fmt.Fprintf(w, "  No page counts available\n")
	}
	fmt.Fprintln(w)

	// 4. How old are the books?
	section(fmt.Sprintf("Publication Year (%d–%d)", s.pubYearMin, s.pubYearMax))
	clipped := ClipYears(r.BooksPerPubYear, s.pubYearMin, s.pubYearMax)
	printYearBars(w, clipped)
	if hidden := len(r.BooksPerPubYear) - len(clipped); hidden > 0 {
		fmt.Fprintf(w, "  %d more publication years fall outside this window; see the JSON output for all of them.\n", hidden)
	}
	fmt.Fprintln(w)

	// 5. How do the ratings compare?
	section("Ratings vs. Goodreads Average")
	if r.RatingDelta.Defined {
		fmt.Fprintf(w, "  Your average rating      : \033[1m%.2f\033[0m (%d rated books)\n",
			r.MeanMyRating.Value, len(r.MyRatings))
		fmt.Fprintf(w, "  Goodreads average rating : \033[1m%.2f\033[0m\n", r.MeanAvgRating.Value)
		fmt.Fprintf(w, "  You rate books \033[1;32m%s\033[0m the Goodreads average by %.2f points.\n",
			r.RatingLabel, math.Abs(r.RatingDelta.Value))
	} else {
		fmt.Fprintf(w, "  No rated books found\n")
	}

	if len(r.Unavailable) > 0 {
		fmt.Fprintln(w)
		section("Not Available")
		for _, u := range r.Unavailable {
			fmt.Fprintf(w, "  %s\n", u)
		}
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func printYearBars(w io.Writer, pairs []models.YearCount) {
	if len(pairs) == 0 {
		fmt.Fprintf(w, "  No data\n")
		return
	}
	peak := 0
	for _, p := range pairs {
		if p.Count > peak {
			peak = p.Count
		}
	}
	const width = 40
	for _, p := range pairs {
		n := p.Count
		if peak > width {
			n = int(math.Ceil(float64(p.Count) * width / float64(peak)))
		}
		fmt.Fprintf(w, "  %6d %s (%d)\n", p.Year, strings.Repeat("█", n), p.Count)
	}
}

func intStat(s models.Stat[int]) string {
	if !s.Defined {
		return "n/a"
	}
	return fmt.Sprintf("%d", s.Value)
}
