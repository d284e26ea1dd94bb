package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"goodreads-insights/models"
)

const sqliteDateLayout = "2006-01-02"

// SQLiteStore persists the ingested table to a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and migrates it.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite: path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// A single connection keeps writes serialised on the file.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	ss := &SQLiteStore{db: db}
	if err := ss.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return ss, nil
}

func (ss *SQLiteStore) migrate(ctx context.Context) error {
	_, err := ss.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS books (
			position   INTEGER PRIMARY KEY,
			book_id    TEXT    NOT NULL,
			title      TEXT    NOT NULL DEFAULT '',
			author     TEXT    NOT NULL DEFAULT '',
			shelf      TEXT    NOT NULL DEFAULT '',
			date_added TEXT,
			date_read  TEXT,
			pages      INTEGER,
			pub_year   INTEGER,
			my_rating  INTEGER NOT NULL DEFAULT 0,
			avg_rating REAL    NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_books_shelf ON books(shelf);
	`)
	return err
}

// Write replaces the stored table with books inside one transaction.
func (ss *SQLiteStore) Write(ctx context.Context, books []*models.Book) error {
	tx, err := ss.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM books"); err != nil {
		return fmt.Errorf("sqlite: clear: %w", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", bookColumnCount), ",")
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO books (`+bookColumns+`) VALUES (`+placeholders+`)`)
	if err != nil {
		return fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	asText := func(t time.Time) any { return t.Format(sqliteDateLayout) }
	for i, b := range books {
		if _, err := stmt.ExecContext(ctx, bookArgs(i, b, asText)...); err != nil {
			return fmt.Errorf("sqlite: insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

// FetchAll retrieves the stored table in its original row order.
func (ss *SQLiteStore) FetchAll(ctx context.Context) ([]*models.Book, error) {
	rows, err := ss.db.QueryContext(ctx, `SELECT `+bookColumns+` FROM books ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: fetch all: %w", err)
	}
	defer rows.Close()

	var books []*models.Book
	for rows.Next() {
		var (
			position       int
			added, read    sql.NullString
			pages, pubYear sql.NullInt64
		)
		b := &models.Book{}
		if err := rows.Scan(
			&position, &b.ID, &b.Title, &b.Author, &b.Shelf,
			&added, &read, &pages, &pubYear, &b.MyRating, &b.AvgRating,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scan row: %w", err)
		}
		if b.DateAdded, err = textDate(added); err != nil {
			return nil, err
		}
		if b.DateRead, err = textDate(read); err != nil {
			return nil, err
		}
		b.Pages, b.PubYear = intPtr(pages), intPtr(pubYear)
		books = append(books, b)
	}
	return books, rows.Err()
}

func (ss *SQLiteStore) Close() error {
	if ss == nil || ss.db == nil {
		return nil
	}
	return ss.db.Close()
}

func textDate(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(sqliteDateLayout, s.String)
	if err != nil {
		return nil, fmt.Errorf("sqlite: stored date %q: %w", s.String, err)
	}
	return calendarDate(t), nil
}
