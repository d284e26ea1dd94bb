package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goodreads-insights/utils"
)

func newTestPipeline() *Pipeline {
	logger := utils.NopLogger()
	return NewPipeline(logger, NewInsightService(logger))
}

func TestPipelineScenario(t *testing.T) {
	csv := exportHeader +
		"1,Dune,Frank Herbert,read,2020/01/01,2020/01/11,100,2000,4,3.5\n" +
		"2,Emma,Jane Austen,read,2019/06/01,2019/06/01,300,1990,5,4.0\n" +
		"3,Ulysses,James Joyce,to-read,2021/01/01,,200,2010,0,0\n"

	res, err := newTestPipeline().Run("history.csv", strings.NewReader(csv))
	require.NoError(t, err)

	r := res.Report
	assert.Equal(t, "history.csv", r.Source)
	assert.Len(t, res.Table, 3)
	assert.Equal(t, []int{10, 0}, r.DaysToFinish)
	assert.Equal(t, 5.0, r.MeanDaysToFinish.Value)
	assert.Equal(t, 0.75, r.RatingDelta.Value)
	assert.Equal(t, "above", r.RatingLabel)
	assert.Equal(t, 2, r.UniqueBooksFinished.Value)
	assert.Equal(t, 200.0, r.MeanPages.Value)
	assert.Empty(t, r.Warnings)
}

func TestPipelineUnparsableAddedDate(t *testing.T) {
	csv := exportHeader +
		"1,Dune,Frank Herbert,read,not-a-date,2020/01/11,100,2000,4,3.5\n"

	res, err := newTestPipeline().Run("history.csv", strings.NewReader(csv))
	require.NoError(t, err)

	b := res.Table[0]
	assert.Nil(t, b.DaysToFinish)
	require.NotNil(t, b.FinishYear)
	assert.Equal(t, 2020, *b.FinishYear)

	r := res.Report
	require.Len(t, r.BooksPerFinishYear, 1)
	assert.Equal(t, 2020, r.BooksPerFinishYear[0].Year)
	assert.Equal(t, 1, r.UniqueBooksFinished.Value)
	assert.False(t, r.MeanDaysToFinish.Defined)
	require.Len(t, r.Warnings, 1)
	assert.Contains(t, r.Warnings[0], ColDateAdded)
}

func TestPipelineIngestionErrorNamesSource(t *testing.T) {
	_, err := newTestPipeline().Run("broken.csv", strings.NewReader("not,a,goodreads,export\n"))

	var ie *IngestionError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "broken.csv", ie.Source)
	assert.Contains(t, err.Error(), "broken.csv")
}
