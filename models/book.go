package models

import "time"

// ShelfRead is the only exclusive-shelf value the pipeline gives meaning to.
// Every other shelf (to-read, currently-reading, custom shelves) is opaque.
const ShelfRead = "read"

// Book is one typed row of a reading-history export. Pointer fields are nil
// when the source cell was empty or could not be parsed.
type Book struct {
	ID        string     `json:"book_id" yaml:"book_id"`
	Title     string     `json:"title" yaml:"title"`
	Author    string     `json:"author" yaml:"author"`
	Shelf     string     `json:"exclusive_shelf" yaml:"exclusive_shelf"`
	DateAdded *time.Time `json:"date_added,omitempty" yaml:"date_added,omitempty"`
	DateRead  *time.Time `json:"date_read,omitempty" yaml:"date_read,omitempty"`
	Pages     *int       `json:"pages,omitempty" yaml:"pages,omitempty"`
	PubYear   *int       `json:"original_publication_year,omitempty" yaml:"original_publication_year,omitempty"`
	MyRating  int        `json:"my_rating" yaml:"my_rating"`
	AvgRating float64    `json:"average_rating" yaml:"average_rating"`

	// FinishYear and DaysToFinish are filled by services.Derive and are a
	// pure function of DateAdded and DateRead.
	FinishYear   *int `json:"finish_year,omitempty" yaml:"finish_year,omitempty"`
	DaysToFinish *int `json:"days_to_finish,omitempty" yaml:"days_to_finish,omitempty"`
}

// Clone returns a shallow copy of b. The pointed-to values are never
// mutated by the pipeline, so sharing them between copies is safe.
func (b *Book) Clone() *Book {
	c := *b
	return &c
}
