package services

import (
	"sort"

	"goodreads-insights/models"
)

// BooksPerFinishYear counts records per FinishYear over the unfiltered
// table. Records without a finish year are left out rather than bucketed.
func BooksPerFinishYear(table []*models.Book) []models.YearCount {
	return countByYear(table, func(b *models.Book) *int { return b.FinishYear })
}

// BooksPerPublicationYear counts records per original publication year.
func BooksPerPublicationYear(table []*models.Book) []models.YearCount {
	return countByYear(table, func(b *models.Book) *int { return b.PubYear })
}

func countByYear(table []*models.Book, key func(*models.Book) *int) []models.YearCount {
	counts := make(map[int]int)
	for _, b := range table {
		if y := key(b); y != nil {
			counts[*y]++
		}
	}

	out := make([]models.YearCount, 0, len(counts))
	for y, c := range counts {
		out = append(out, models.YearCount{Year: y, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// ClipYears returns the pairs whose year lies in [minYear, maxYear]. It is a
// display-time zoom; the aggregate passed in is left as is.
func ClipYears(pairs []models.YearCount, minYear, maxYear int) []models.YearCount {
	out := make([]models.YearCount, 0, len(pairs))
	for _, p := range pairs {
		if p.Year >= minYear && p.Year <= maxYear {
			out = append(out, p)
		}
	}
	return out
}

// MostCommonYear returns the year with the highest count. Pairs must be in
// ascending year order, so on a tie the earliest year wins. ok is false for
// an empty aggregate.
func MostCommonYear(pairs []models.YearCount) (year int, ok bool) {
	best := 0
	for _, p := range pairs {
		if !ok || p.Count > best {
			year, best, ok = p.Year, p.Count, true
		}
	}
	return year, ok
}

// DurationColumn returns DaysToFinish for every record of view that has it.
// Callers pass the finished-duration view.
func DurationColumn(view []*models.Book) []int {
	out := make([]int, 0, len(view))
	for _, b := range view {
		if b.DaysToFinish != nil {
			out = append(out, *b.DaysToFinish)
		}
	}
	return out
}

// PageColumn returns the page counts present in table.
func PageColumn(table []*models.Book) []int {
	out := make([]int, 0, len(table))
	for _, b := range table {
		if b.Pages != nil {
			out = append(out, *b.Pages)
		}
	}
	return out
}

// MyRatingColumn returns the personal ratings of view.
func MyRatingColumn(view []*models.Book) []int {
	out := make([]int, len(view))
	for i, b := range view {
		out[i] = b.MyRating
	}
	return out
}

// AvgRatingColumn returns the peer-average ratings of view.
func AvgRatingColumn(view []*models.Book) []float64 {
	out := make([]float64, len(view))
	for i, b := range view {
		out[i] = b.AvgRating
	}
	return out
}
