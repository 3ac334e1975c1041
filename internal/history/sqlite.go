// Package history persists submitted searches so past queries can be listed
// across restarts.
package history

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// Entry is one recorded search submission.
type Entry struct {
	ID           string    `json:"id"`
	Location     string    `json:"location"`
	BusinessType string    `json:"business_type"`
	RadiusKM     float64   `json:"radius_km"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store records search history in SQLite via modernc.org/sqlite.
type Store struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "history: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "history: exec %s", pragma)
		}
	}
	return &Store{db: db}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS search_history (
	id            TEXT PRIMARY KEY,
	location      TEXT NOT NULL,
	business_type TEXT NOT NULL,
	radius_km     REAL NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_search_history_created_at ON search_history(created_at);
`

// Migrate creates the schema if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "history: migrate")
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add records one search submission.
func (s *Store) Add(ctx context.Context, location, businessType string, radiusKM float64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO search_history (id, location, business_type, radius_km, created_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), location, businessType, radiusKM, time.Now().UTC(),
	)
	return eris.Wrap(err, "history: insert")
}

// Recent returns the most recent entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, location, business_type, radius_km, created_at
		 FROM search_history ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "history: query")
	}
	defer rows.Close() //nolint:errcheck

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Location, &e.BusinessType, &e.RadiusKM, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "history: scan")
		}
		entries = append(entries, e)
	}

	return entries, eris.Wrap(rows.Err(), "history: rows")
}
