package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"goodreads-insights/models"
)

func TestFinishedDurationView(t *testing.T) {
	table := Derive([]*models.Book{
		{ID: "ok", Shelf: "read", DateAdded: date(2020, 1, 1), DateRead: date(2020, 1, 3)},
		{ID: "negative", Shelf: "read", DateAdded: date(2020, 2, 1), DateRead: date(2020, 1, 3)},
		{ID: "reading", Shelf: "currently-reading", DateAdded: date(2020, 1, 1), DateRead: date(2020, 1, 3)},
		{ID: "undated", Shelf: "read"},
		{ID: "zero", Shelf: "read", DateAdded: date(2020, 5, 5), DateRead: date(2020, 5, 5)},
	})

	view := FinishedDurationView(table)

	ids := make([]string, len(view))
	for i, b := range view {
		ids[i] = b.ID
		assert.Equal(t, models.ShelfRead, b.Shelf)
		if assert.NotNil(t, b.DaysToFinish) {
			assert.GreaterOrEqual(t, *b.DaysToFinish, 0)
		}
	}
	assert.Equal(t, []string{"ok", "zero"}, ids)
}

func TestRatedAndCompletedViews(t *testing.T) {
	table := Derive(scenarioTable())

	rated := RatedView(table)
	assert.Len(t, rated, 2)
	for _, b := range rated {
		assert.NotZero(t, b.MyRating)
	}

	completed := CompletedView(table)
	assert.Len(t, completed, 2)
	assert.Len(t, table, 3, "views never shrink the source table")
}

func TestAllComposesWithAnd(t *testing.T) {
	b := &models.Book{Shelf: "read", MyRating: 0}
	assert.True(t, All()(b))
	assert.True(t, All(IsCompleted)(b))
	assert.False(t, All(IsCompleted, IsRated)(b))
}

func TestShelfMatchIsExact(t *testing.T) {
	assert.False(t, IsCompleted(&models.Book{Shelf: "Read"}))
	assert.False(t, IsCompleted(&models.Book{Shelf: "to-read"}))
}
