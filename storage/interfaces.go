package storage

import (
	"context"

	"goodreads-insights/models"
)

// BookWriter is the interface any table store must satisfy. Write replaces
// whatever table was stored before; tables are never patched in place.
type BookWriter interface {
	Write(ctx context.Context, books []*models.Book) error
	Close() error
}

// BookReader loads a previously written table back in source order.
type BookReader interface {
	FetchAll(ctx context.Context) ([]*models.Book, error)
}

// BookStore reads and writes the ingested table.
type BookStore interface {
	BookWriter
	BookReader
}

// ReportExporter writes the aggregates and statistics of a report.
type ReportExporter interface {
	Export(report *models.InsightReport) error
}

var (
	_ BookStore      = (*PostgresStore)(nil)
	_ BookStore      = (*SQLiteStore)(nil)
	_ ReportExporter = (*CSVExporter)(nil)
)
