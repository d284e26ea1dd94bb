package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"goodreads-insights/models"
)

// PostgresStore persists the ingested table to PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresStore.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, fmt.Errorf("postgres: ping: %w", ctx.Err())
		case <-time.After(2 * time.Second):
		}
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	ps := &PostgresStore{db: db}
	if err := ps.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

func (ps *PostgresStore) migrate(ctx context.Context) error {
	_, err := ps.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS books (
			position   INTEGER      PRIMARY KEY,
			book_id    TEXT         NOT NULL,
			title      TEXT         NOT NULL DEFAULT '',
			author     TEXT         NOT NULL DEFAULT '',
			shelf      VARCHAR(100) NOT NULL DEFAULT '',
			date_added DATE,
			date_read  DATE,
			pages      INTEGER,
			pub_year   INTEGER,
			my_rating  INTEGER      NOT NULL DEFAULT 0,
			avg_rating DOUBLE PRECISION NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_books_shelf     ON books(shelf);
		CREATE INDEX IF NOT EXISTS idx_books_date_read ON books(date_read);
	`)
	return err
}

// Write replaces the stored table with books inside one transaction.
func (ps *PostgresStore) Write(ctx context.Context, books []*models.Book) error {
	tx, err := ps.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM books"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}

	const batchSize = 50
	for i := 0; i < len(books); i += batchSize {
		end := i + batchSize
		if end > len(books) {
			end = len(books)
		}
		if err := insertBatch(ctx, tx, i, books[i:end]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func insertBatch(ctx context.Context, tx *sql.Tx, offset int, batch []*models.Book) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]any, 0, len(batch)*bookColumnCount)

	for idx, b := range batch {
		base := idx * bookColumnCount
		ph := make([]string, bookColumnCount)
		for c := range ph {
			ph[c] = fmt.Sprintf("$%d", base+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(ph, ",")+")")
		valueArgs = append(valueArgs, bookArgs(offset+idx, b, func(t time.Time) any { return t })...)
	}

	query := fmt.Sprintf(`INSERT INTO books (%s) VALUES %s`, bookColumns, strings.Join(valueStrings, ","))
	if _, err := tx.ExecContext(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("postgres: insert batch at %d: %w", offset, err)
	}
	return nil
}

// FetchAll retrieves the stored table in its original row order.
func (ps *PostgresStore) FetchAll(ctx context.Context) ([]*models.Book, error) {
	rows, err := ps.db.QueryContext(ctx, `SELECT `+bookColumns+` FROM books ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var books []*models.Book
	for rows.Next() {
		var (
			position       int
			added, read    sql.NullTime
			pages, pubYear sql.NullInt64
		)
		b := &models.Book{}
		if err := rows.Scan(
			&position, &b.ID, &b.Title, &b.Author, &b.Shelf,
			&added, &read, &pages, &pubYear, &b.MyRating, &b.AvgRating,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		if added.Valid {
			b.DateAdded = calendarDate(added.Time)
		}
		if read.Valid {
			b.DateRead = calendarDate(read.Time)
		}
		b.Pages, b.PubYear = intPtr(pages), intPtr(pubYear)
		books = append(books, b)
	}
	return books, rows.Err()
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
