package services

import (
	"time"

	"goodreads-insights/models"
)

// Derive returns a new table in which every record carries FinishYear and
// DaysToFinish computed from its two dates. The input table is not touched.
func Derive(table []*models.Book) []*models.Book {
	out := make([]*models.Book, len(table))
	for i, b := range table {
		d := b.Clone()
		d.FinishYear, d.DaysToFinish = nil, nil

		if b.DateRead != nil {
			y := b.DateRead.Year()
			d.FinishYear = &y
		}
		if b.DateRead != nil && b.DateAdded != nil {
			n := daysBetween(*b.DateAdded, *b.DateRead)
			d.DaysToFinish = &n
		}
		out[i] = d
	}
	return out
}

// daysBetween counts whole calendar days from one date to another. The
// result is negative when to precedes from.
func daysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f) / (24 * time.Hour))
}
