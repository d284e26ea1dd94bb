package services

import "fmt"

// IngestionError reports that a source could not be read as a table at all.
// No partial table accompanies it.
type IngestionError struct {
	Source string
	Err    error
}

func (e *IngestionError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("ingest: %v", e.Err)
	}
	return fmt.Sprintf("ingest %s: %v", e.Source, e.Err)
}

func (e *IngestionError) Unwrap() error { return e.Err }

// FieldParseWarning reports a single cell that could not be typed. The cell
// is treated as absent and the rest of the record is kept.
type FieldParseWarning struct {
	Row    int // 1-based data row, header excluded
	BookID string
	Column string
	Value  string
	Err    error
}

func (w FieldParseWarning) Error() string {
	return fmt.Sprintf("row %d (book %q): %s %q: %v", w.Row, w.BookID, w.Column, w.Value, w.Err)
}

func (w FieldParseWarning) Unwrap() error { return w.Err }

// EmptyViewError reports that a statistic has no underlying data. The
// statistic is left undefined; other statistics are unaffected.
type EmptyViewError struct {
	Stat string
	View string
}

func (e *EmptyViewError) Error() string {
	return fmt.Sprintf("%s: %s view is empty", e.Stat, e.View)
}
