package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goodreads-insights/models"
)

func TestMostFrequentAuthorTieGoesToFirstSeen(t *testing.T) {
	completed := []*models.Book{
		{ID: "1", Author: "Ursula K. Le Guin"},
		{ID: "2", Author: "Terry Pratchett"},
		{ID: "3", Author: "Terry Pratchett"},
		{ID: "4", Author: "Ursula K. Le Guin"},
		{ID: "5", Author: "Iain M. Banks"},
	}
	a, err := MostFrequentAuthor(completed)
	require.NoError(t, err)
	assert.Equal(t, "Ursula K. Le Guin", a)
}

func TestUniqueCountsAreExact(t *testing.T) {
	completed := []*models.Book{
		{ID: "1", Author: "bell hooks"},
		{ID: "1", Author: "bell hooks"}, // re-read
		{ID: "2", Author: "Bell Hooks"},
	}
	books, err := UniqueBooks(completed)
	require.NoError(t, err)
	assert.Equal(t, 2, books)

	authors, err := UniqueAuthors(completed)
	require.NoError(t, err)
	assert.Equal(t, 2, authors, "author match is case-sensitive")
}

func TestMeanPagesIgnoresMissing(t *testing.T) {
	table := []*models.Book{{Pages: intp(100)}, {}, {Pages: intp(0)}, {Pages: intp(500)}}
	m, err := MeanPages(table)
	require.NoError(t, err)
	assert.InDelta(t, 200.0, m, 1e-9)
}

func TestEmptyViewsAreUndefined(t *testing.T) {
	checks := map[string]func() error{
		StatUniqueBooks:      func() error { _, err := UniqueBooks(nil); return err },
		StatUniqueAuthors:    func() error { _, err := UniqueAuthors(nil); return err },
		StatTopAuthor:        func() error { _, err := MostFrequentAuthor(nil); return err },
		StatMeanPages:        func() error { _, err := MeanPages([]*models.Book{{}}); return err },
		StatMeanDays:         func() error { _, err := MeanDaysToFinish(nil); return err },
		StatMeanMyRating:     func() error { _, err := MeanMyRating(nil); return err },
		StatMeanAvgRating:    func() error { _, err := MeanAvgRating(nil); return err },
		StatRatingDelta:      func() error { _, _, err := RatingDelta(nil); return err },
		StatCommonFinishYear: func() error { _, err := MostCommonFinishYear([]*models.Book{{}}); return err },
	}

	for stat, fn := range checks {
		t.Run(stat, func(t *testing.T) {
			err := fn()
			var ev *EmptyViewError
			require.True(t, errors.As(err, &ev), "want *EmptyViewError, got %v", err)
			assert.Equal(t, stat, ev.Stat)
		})
	}
}

func TestRatingDeltaLabel(t *testing.T) {
	tests := []struct {
		name      string
		rated     []*models.Book
		wantDelta float64
		wantLabel string
	}{
		{"above", []*models.Book{{MyRating: 5, AvgRating: 4.0}}, 1.0, models.LabelAbove},
		{"below", []*models.Book{{MyRating: 3, AvgRating: 4.126}}, -1.13, models.LabelBelow},
		{"zero is above", []*models.Book{{MyRating: 4, AvgRating: 4.0}}, 0, models.LabelAbove},
		{"rounds to zero", []*models.Book{{MyRating: 4, AvgRating: 4.004}}, 0, models.LabelAbove},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, label, err := RatingDelta(tt.rated)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantDelta, d, 1e-9)
			assert.Equal(t, tt.wantLabel, label)
		})
	}
}

func TestRatingDeltaIgnoresUnratedBooks(t *testing.T) {
	table := Derive(scenarioTable())
	before, _, err := RatingDelta(RatedView(table))
	require.NoError(t, err)

	table = append(table, &models.Book{ID: "9", Shelf: "read", MyRating: 0, AvgRating: 1.2})
	after, _, err := RatingDelta(RatedView(table))
	require.NoError(t, err)

	assert.Equal(t, before, after)
}
