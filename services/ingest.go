package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"goodreads-insights/models"
)

// Column names of a Goodreads library export.
const (
	ColBookID    = "Book Id"
	ColTitle     = "Title"
	ColAuthor    = "Author"
	ColShelf     = "Exclusive Shelf"
	ColDateAdded = "Date Added"
	ColDateRead  = "Date Read"
	ColPages     = "Number of Pages"
	ColPubYear   = "Original Publication Year"
	ColMyRating  = "My Rating"
	ColAvgRating = "Average Rating"
)

// SchemaColumns lists the columns every source must carry. Extra columns
// are ignored.
var SchemaColumns = []string{
	ColBookID, ColTitle, ColAuthor, ColShelf, ColDateAdded,
	ColDateRead, ColPages, ColPubYear, ColMyRating, ColAvgRating,
}

// dateLayouts are tried in order. Goodreads writes 2006/01/02; the single
// digit month/day verbs also accept zero-padded values.
var dateLayouts = []string{
	"2006/1/2",
	"2006-1-2",
	"1/2/2006",
	"2006/1/2 15:04:05",
	"2006-1-2 15:04:05",
	time.RFC3339,
}

const utf8BOM = "\uFEFF"

// Ingest reads a CSV export and returns its typed table together with the
// field-level warnings raised while typing it.
func Ingest(r io.Reader) ([]*models.Book, []FieldParseWarning, error) {
	rows, err := ReadRows(r)
	if err != nil {
		return nil, nil, err
	}
	table, warnings := Normalize(rows)
	return table, warnings, nil
}

// ReadRows parses r as CSV with a header row and returns one column→value
// mapping per data row. Any structural problem (unbalanced quotes, ragged
// rows, missing or repeated schema columns, no header) fails the whole read
// with an *IngestionError.
func ReadRows(r io.Reader) ([]map[string]string, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &IngestionError{Err: errors.New("empty input: no header row")}
	}
	if err != nil {
		return nil, &IngestionError{Err: fmt.Errorf("read header: %w", err)}
	}
	header = normalizeHeader(header)

	if missing := missingColumns(header); len(missing) > 0 {
		return nil, &IngestionError{Err: fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))}
	}
	if dup := duplicateColumns(header); len(dup) > 0 {
		return nil, &IngestionError{Err: fmt.Errorf("duplicate columns: %s", strings.Join(dup, ", "))}
	}

	var rows []map[string]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &IngestionError{Err: fmt.Errorf("read row: %w", err)}
		}

		row := make(map[string]string, len(header))
		for i, col := range header {
			row[col] = rec[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Normalize types raw rows into Book records. Cells that fail to parse are
// left absent and reported as warnings; they never drop the record.
func Normalize(rows []map[string]string) ([]*models.Book, []FieldParseWarning) {
	table := make([]*models.Book, 0, len(rows))
	var warnings []FieldParseWarning

	for i, row := range rows {
		b := &models.Book{
			ID:     strings.TrimSpace(row[ColBookID]),
			Title:  row[ColTitle],
			Author: row[ColAuthor],
			Shelf:  strings.TrimSpace(row[ColShelf]),
		}

		warn := func(col string, err error) {
			warnings = append(warnings, FieldParseWarning{
				Row: i + 1, BookID: b.ID, Column: col, Value: row[col], Err: err,
			})
		}

		var err error
		if b.DateAdded, err = parseDate(row[ColDateAdded]); err != nil {
			warn(ColDateAdded, err)
		}
		if b.DateRead, err = parseDate(row[ColDateRead]); err != nil {
			warn(ColDateRead, err)
		}
		if b.Pages, err = parseOptionalInt(row[ColPages]); err != nil {
			warn(ColPages, err)
		}
		if b.PubYear, err = parseOptionalInt(row[ColPubYear]); err != nil {
			warn(ColPubYear, err)
		}
		if v, err := parseOptionalInt(row[ColMyRating]); err != nil {
			warn(ColMyRating, err)
		} else if v != nil {
			b.MyRating = *v
		}
		if v, err := parseOptionalFloat(row[ColAvgRating]); err != nil {
			warn(ColAvgRating, err)
		} else if v != nil {
			b.AvgRating = *v
		}

		table = append(table, b)
	}
	return table, warnings
}

// parseDate returns nil for an empty cell and a date at UTC midnight
// otherwise. Time-of-day components are discarded.
func parseDate(raw string) (*time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d, nil
		}
	}
	return nil, errors.New("unrecognised date")
}

// parseOptionalInt accepts plain integers and integral decimals such as
// "1999.0", which spreadsheet round-trips tend to produce. Decimals outside
// the int range are rejected rather than wrapped.
func parseOptionalInt(raw string) (*int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return &n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) || f >= 1<<63 || f < -(1<<63) {
		return nil, errors.New("not an integer")
	}
	n := int(f)
	return &n, nil
}

func parseOptionalFloat(raw string) (*float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, errors.New("not a number")
	}
	return &f, nil
}

// normalizeHeader strips a UTF-8 BOM from the first header cell, trims
// every cell and puts every name in NFC so composed and decomposed spellings match.
func normalizeHeader(h []string) []string {
	out := make([]string, len(h))
	for i, col := range h {
		if i == 0 {
			col = strings.TrimPrefix(col, utf8BOM)
		}
		out[i] = norm.NFC.String(strings.TrimSpace(col))
	}
	return out
}

func missingColumns(header []string) []string {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[h] = struct{}{}
	}
	var missing []string
	for _, col := range SchemaColumns {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

// duplicateColumns lists schema columns named more than once. Repeated
// columns outside the schema are ignored like any other extra column.
func duplicateColumns(header []string) []string {
	seen := make(map[string]int, len(header))
	for _, h := range header {
		seen[h]++
	}
	var dup []string
	for _, col := range SchemaColumns {
		if seen[col] > 1 {
			dup = append(dup, col)
		}
	}
	return dup
}
