package services

import (
	"time"

	"goodreads-insights/models"
)

func date(y, m, d int) *time.Time {
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return &t
}

func intp(n int) *int { return &n }

// scenarioTable is the three-record table used throughout the tests: two
// finished and rated books plus one unrated to-read entry.
func scenarioTable() []*models.Book {
	return []*models.Book{
		{ID: "1", Title: "Dune", Author: "Frank Herbert", Shelf: "read",
			DateAdded: date(2020, 1, 1), DateRead: date(2020, 1, 11),
			Pages: intp(100), PubYear: intp(2000), MyRating: 4, AvgRating: 3.5},
		{ID: "2", Title: "Emma", Author: "Jane Austen", Shelf: "read",
			DateAdded: date(2019, 6, 1), DateRead: date(2019, 6, 1),
			Pages: intp(300), PubYear: intp(1990), MyRating: 5, AvgRating: 4.0},
		{ID: "3", Title: "Ulysses", Author: "James Joyce", Shelf: "to-read",
			DateAdded: date(2021, 1, 1),
			Pages: intp(200), PubYear: intp(2010), MyRating: 0, AvgRating: 0},
	}
}
