package services

import (
	"math"

	"goodreads-insights/models"
)

// Statistic names, as reported in EmptyViewError and the report.
const (
	StatUniqueBooks      = "unique_books_finished"
	StatUniqueAuthors    = "unique_authors_finished"
	StatTopAuthor        = "most_frequent_author"
	StatMeanPages        = "mean_pages"
	StatMeanDays         = "mean_days_to_finish"
	StatMeanMyRating     = "mean_personal_rating"
	StatMeanAvgRating    = "mean_peer_rating"
	StatRatingDelta      = "rating_delta"
	StatCommonFinishYear = "most_common_finish_year"
)

// UniqueBooks counts distinct identifiers in the completed view.
func UniqueBooks(completed []*models.Book) (int, error) {
	if len(completed) == 0 {
		return 0, &EmptyViewError{Stat: StatUniqueBooks, View: ViewCompleted}
	}
	seen := make(map[string]struct{}, len(completed))
	for _, b := range completed {
		seen[b.ID] = struct{}{}
	}
	return len(seen), nil
}

// UniqueAuthors counts distinct author strings in the completed view.
// Authors match exactly, case included.
func UniqueAuthors(completed []*models.Book) (int, error) {
	if len(completed) == 0 {
		return 0, &EmptyViewError{Stat: StatUniqueAuthors, View: ViewCompleted}
	}
	seen := make(map[string]struct{}, len(completed))
	for _, b := range completed {
		seen[b.Author] = struct{}{}
	}
	return len(seen), nil
}

// MostFrequentAuthor returns the author occurring most often in the
// completed view. Ties go to the author encountered first.
func MostFrequentAuthor(completed []*models.Book) (string, error) {
	if len(completed) == 0 {
		return "", &EmptyViewError{Stat: StatTopAuthor, View: ViewCompleted}
	}
	counts := make(map[string]int)
	var order []string
	for _, b := range completed {
		if counts[b.Author] == 0 {
			order = append(order, b.Author)
		}
		counts[b.Author]++
	}

	best, bestCount := "", 0
	for _, a := range order {
		if counts[a] > bestCount {
			best, bestCount = a, counts[a]
		}
	}
	return best, nil
}

// MeanPages averages page counts over the full table. Records without a
// page count are left out of both sum and denominator.
func MeanPages(table []*models.Book) (float64, error) {
	m, ok := mean(PageColumn(table))
	if !ok {
		return 0, &EmptyViewError{Stat: StatMeanPages, View: ViewTable}
	}
	return m, nil
}

// MeanDaysToFinish averages DaysToFinish over the finished-duration view.
func MeanDaysToFinish(finished []*models.Book) (float64, error) {
	m, ok := mean(DurationColumn(finished))
	if !ok {
		return 0, &EmptyViewError{Stat: StatMeanDays, View: ViewFinishedDuration}
	}
	return m, nil
}

// MeanMyRating averages personal ratings over the rated view.
func MeanMyRating(rated []*models.Book) (float64, error) {
	m, ok := mean(MyRatingColumn(rated))
	if !ok {
		return 0, &EmptyViewError{Stat: StatMeanMyRating, View: ViewRated}
	}
	return m, nil
}

// MeanAvgRating averages peer ratings over the rated view.
func MeanAvgRating(rated []*models.Book) (float64, error) {
	m, ok := mean(AvgRatingColumn(rated))
	if !ok {
		return 0, &EmptyViewError{Stat: StatMeanAvgRating, View: ViewRated}
	}
	return m, nil
}

// RatingDelta is the personal mean minus the peer mean over the rated view,
// rounded to two decimals, with its label: "below" when negative, "above"
// otherwise (zero included).
func RatingDelta(rated []*models.Book) (float64, string, error) {
	my, err := MeanMyRating(rated)
	if err != nil {
		return 0, "", &EmptyViewError{Stat: StatRatingDelta, View: ViewRated}
	}
	avg, _ := MeanAvgRating(rated)

	delta := round2(my - avg)
	if delta == 0 {
		delta = 0 // drop negative zero
	}
	if delta < 0 {
		return delta, models.LabelBelow, nil
	}
	return delta, models.LabelAbove, nil
}

// MostCommonFinishYear is the mode of FinishYear over the unfiltered table,
// earliest year first on ties.
func MostCommonFinishYear(table []*models.Book) (int, error) {
	y, ok := MostCommonYear(BooksPerFinishYear(table))
	if !ok {
		return 0, &EmptyViewError{Stat: StatCommonFinishYear, View: ViewTable}
	}
	return y, nil
}

func mean[T int | float64](xs []T) (float64, bool) {
	if len(xs) == 0 {
		return 0, false
	}
	var total float64
	for _, x := range xs {
		total += float64(x)
	}
	return total / float64(len(xs)), true
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
