package services

import "goodreads-insights/models"

// View names used in EmptyViewError and logs.
const (
	ViewTable            = "table"
	ViewCompleted        = "completed"
	ViewFinishedDuration = "finished-duration"
	ViewRated            = "rated"
)

// Predicate selects records for a view.
type Predicate func(*models.Book) bool

// IsCompleted holds for records on the read shelf.
func IsCompleted(b *models.Book) bool { return b.Shelf == models.ShelfRead }

// HasValidDuration holds when DaysToFinish is defined and not negative.
func HasValidDuration(b *models.Book) bool {
	return b.DaysToFinish != nil && *b.DaysToFinish >= 0
}

// IsRated holds when the reader gave the book a rating.
func IsRated(b *models.Book) bool { return b.MyRating != 0 }

// All combines predicates with logical AND. With no predicates it selects
// everything.
func All(preds ...Predicate) Predicate {
	return func(b *models.Book) bool {
		for _, p := range preds {
			if !p(b) {
				return false
			}
		}
		return true
	}
}

// Filter returns the records of table matching pred, in table order. The
// result is a new slice; records are shared, never copied or modified.
func Filter(table []*models.Book, pred Predicate) []*models.Book {
	view := make([]*models.Book, 0, len(table))
	for _, b := range table {
		if pred(b) {
			view = append(view, b)
		}
	}
	return view
}

// CompletedView holds the records on the read shelf.
func CompletedView(table []*models.Book) []*models.Book {
	return Filter(table, IsCompleted)
}

// FinishedDurationView holds completed records with a non-negative
// DaysToFinish; it is the only view time-to-finish figures may use.
func FinishedDurationView(table []*models.Book) []*models.Book {
	return Filter(table, All(IsCompleted, HasValidDuration))
}

// RatedView holds the records the reader rated.
func RatedView(table []*models.Book) []*models.Book {
	return Filter(table, IsRated)
}
