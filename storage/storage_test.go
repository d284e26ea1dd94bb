package storage

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goodreads-insights/models"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func ip(n int) *int { return &n }

func sampleTable() []*models.Book {
	return []*models.Book{
		{
			ID: "1", Title: "Dune", Author: "Frank Herbert", Shelf: models.ShelfRead,
			DateAdded: day(2020, time.January, 1), DateRead: day(2020, time.January, 31),
			Pages: ip(412), PubYear: ip(1965), MyRating: 5, AvgRating: 4.25,
		},
		{
			ID: "2", Title: "The Iliad", Author: "Homer", Shelf: "to-read",
			DateAdded: day(2021, time.March, 3),
			PubYear:   ip(-700),
		},
		{
			ID: "1", Title: "Dune", Author: "Frank Herbert", Shelf: models.ShelfRead,
			DateRead: day(2022, time.June, 9), MyRating: 4, AvgRating: 4.25,
		},
		{
			// Ratings are not range-checked on ingest; stores keep them exactly.
			ID: "3", Title: "Odd Ratings", Author: "Anon", Shelf: models.ShelfRead,
			MyRating: 40000, AvgRating: 123.456789,
		},
	}
}

func TestSQLiteStore_WriteFetchAll(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLiteStore(ctx, filepath.Join(t.TempDir(), "books.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	want := sampleTable()
	require.NoError(t, store.Write(ctx, want))

	got, err := store.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, len(want))

	for i := range want {
		assert.Equal(t, want[i], got[i], "row %d", i)
	}
	assert.Nil(t, got[1].DateRead)
	assert.Nil(t, got[1].Pages)
	assert.Equal(t, -700, *got[1].PubYear)
}

func TestSQLiteStore_WriteReplacesPreviousTable(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLiteStore(ctx, filepath.Join(t.TempDir(), "books.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Write(ctx, sampleTable()))
	require.NoError(t, store.Write(ctx, sampleTable()[:1]))

	got, err := store.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Dune", got[0].Title)
}

func TestSQLiteStore_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStore(context.Background(), "  ")
	assert.Error(t, err)
}

func TestPostgresStore_WriteFetchAll(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	store, err := NewPostgresStore(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	want := sampleTable()
	require.NoError(t, store.Write(ctx, want))

	got, err := store.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i], got[i], "row %d", i)
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCSVExporter_Export(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	exp, err := NewCSVExporter(dir)
	require.NoError(t, err)

	report := &models.InsightReport{
		TotalBooks:         3,
		BooksPerFinishYear: []models.YearCount{{Year: 2020, Count: 2}, {Year: 2021, Count: 1}},
		BooksPerPubYear:    []models.YearCount{{Year: -700, Count: 1}},
		DaysToFinish:       []int{30, -2},
		Pages:              []int{412},
		MyRatings:          []int{5, 4},
		AvgRatings:         []float64{4.25, 3.9},
		MostFrequentAuthor: models.Defined("Frank Herbert"),
		RatingDelta:        models.Defined(0.43),
		RatingLabel:        models.LabelAbove,
	}
	require.NoError(t, exp.Export(report))

	assert.Equal(t, [][]string{
		{"finish_year", "count"}, {"2020", "2"}, {"2021", "1"},
	}, readCSV(t, filepath.Join(dir, FileFinishYears)))

	assert.Equal(t, [][]string{
		{"publication_year", "count"}, {"-700", "1"},
	}, readCSV(t, filepath.Join(dir, FilePubYears)))

	assert.Equal(t, [][]string{
		{"days_to_finish"}, {"30"}, {"-2"},
	}, readCSV(t, filepath.Join(dir, FileDays)))

	assert.Equal(t, [][]string{
		{"my_rating", "average_rating"}, {"5", "4.25"}, {"4", "3.9"},
	}, readCSV(t, filepath.Join(dir, FileRatings)))

	summary := readCSV(t, filepath.Join(dir, FileSummary))
	byName := make(map[string][]string, len(summary))
	for _, row := range summary[1:] {
		byName[row[0]] = row
	}
	assert.Equal(t, []string{"most_frequent_author", "Frank Herbert", "true"}, byName["most_frequent_author"])
	assert.Equal(t, []string{"rating_delta", "0.43", "true"}, byName["rating_delta"])
	assert.Equal(t, []string{"rating_label", "above", "true"}, byName["rating_label"])
	// Undefined statistics export an empty value, not zero.
	assert.Equal(t, []string{"mean_days_to_finish", "", "false"}, byName["mean_days_to_finish"])
}
