package models

// YearCount is one (year, count) pair of a grouped aggregate.
type YearCount struct {
	Year  int `json:"year" yaml:"year"`
	Count int `json:"count" yaml:"count"`
}

// Stat is a scalar that may be undefined because its underlying view was
// empty. An undefined Stat carries the zero value and must not be read as
// a real zero.
type Stat[T any] struct {
	Value   T    `json:"value" yaml:"value"`
	Defined bool `json:"defined" yaml:"defined"`
}

// Defined wraps v as a defined Stat.
func Defined[T any](v T) Stat[T] {
	return Stat[T]{Value: v, Defined: true}
}

// Rating delta labels.
const (
	LabelAbove = "above"
	LabelBelow = "below"
)

// InsightReport holds every aggregate and summary statistic computed from
// one reading-history table.
type InsightReport struct {
	Source     string `json:"source" yaml:"source"`
	TotalBooks int    `json:"total_books" yaml:"total_books"`

	// Grouped aggregates, ascending by year.
	BooksPerFinishYear []YearCount `json:"books_per_finish_year" yaml:"books_per_finish_year"`
	BooksPerPubYear    []YearCount `json:"books_per_publication_year" yaml:"books_per_publication_year"`

	// Unaggregated columns handed to distribution plotting.
	DaysToFinish []int     `json:"days_to_finish" yaml:"days_to_finish"`
	Pages        []int     `json:"pages" yaml:"pages"`
	MyRatings    []int     `json:"my_ratings" yaml:"my_ratings"`
	AvgRatings   []float64 `json:"average_ratings" yaml:"average_ratings"`

	UniqueBooksFinished   Stat[int]     `json:"unique_books_finished" yaml:"unique_books_finished"`
	UniqueAuthorsFinished Stat[int]     `json:"unique_authors_finished" yaml:"unique_authors_finished"`
	MostFrequentAuthor    Stat[string]  `json:"most_frequent_author" yaml:"most_frequent_author"`
	MeanPages             Stat[float64] `json:"mean_pages" yaml:"mean_pages"`
	MeanDaysToFinish      Stat[float64] `json:"mean_days_to_finish" yaml:"mean_days_to_finish"`
	MeanMyRating          Stat[float64] `json:"mean_personal_rating" yaml:"mean_personal_rating"`
	MeanAvgRating         Stat[float64] `json:"mean_peer_rating" yaml:"mean_peer_rating"`
	RatingDelta           Stat[float64] `json:"rating_delta" yaml:"rating_delta"`
	RatingLabel           string        `json:"rating_label,omitempty" yaml:"rating_label,omitempty"`
	MostCommonFinishYear  Stat[int]     `json:"most_common_finish_year" yaml:"most_common_finish_year"`

	// Unavailable lists the statistics that were left undefined and why.
	Unavailable []string `json:"unavailable,omitempty" yaml:"unavailable,omitempty"`
	// Warnings lists the field-level parse problems seen during ingestion.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}
