package storage

import (
	"database/sql"
	"time"

	"goodreads-insights/models"
)

// bookColumns is the column order shared by the SQL stores. Derived fields
// are not stored; they are recomputed from the dates on every run.
const bookColumns = "position, book_id, title, author, shelf, date_added, date_read, pages, pub_year, my_rating, avg_rating"

const bookColumnCount = 11

// bookArgs returns the insert arguments for b in bookColumns order. date
// converts a present date into the driver's representation.
func bookArgs(position int, b *models.Book, date func(time.Time) any) []any {
	return []any{
		position, b.ID, b.Title, b.Author, b.Shelf,
		optionalDate(b.DateAdded, date), optionalDate(b.DateRead, date),
		optionalInt(b.Pages), optionalInt(b.PubYear),
		b.MyRating, b.AvgRating,
	}
}

func optionalDate(t *time.Time, conv func(time.Time) any) any {
	if t == nil {
		return nil
	}
	return conv(*t)
}

func optionalInt(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

// calendarDate drops time-of-day and zone, leaving a UTC midnight.
func calendarDate(t time.Time) *time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}
