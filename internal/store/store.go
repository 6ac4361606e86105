// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Sentinel errors returned by Store operations.
var (
	ErrNotFound       = errors.New("entry not found")
	ErrSleepActive    = errors.New("a sleep session is already active")
	ErrNoActiveSleep  = errors.New("no active sleep session")
	ErrEndBeforeStart = errors.New("sleep cannot end before it started")
)

// Store wraps SQLite access for tracked activity.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS feedings (
			id TEXT PRIMARY KEY,
			timestamp INTEGER NOT NULL,
			ounces REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS nursing_sessions (
			id TEXT PRIMARY KEY,
			timestamp INTEGER NOT NULL,
			start_time INTEGER NOT NULL,
			left_duration_sec REAL NOT NULL,
			right_duration_sec REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS solids_sessions (
			id TEXT PRIMARY KEY,
			timestamp INTEGER NOT NULL,
			foods TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sleep_sessions (
			id TEXT PRIMARY KEY,
			start_time INTEGER NOT NULL,
			end_time INTEGER,
			is_active INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_feedings_timestamp ON feedings(timestamp);`,
		`CREATE INDEX IF NOT EXISTS idx_nursing_timestamp ON nursing_sessions(timestamp);`,
		`CREATE INDEX IF NOT EXISTS idx_solids_timestamp ON solids_sessions(timestamp);`,
		`CREATE INDEX IF NOT EXISTS idx_sleep_start_time ON sleep_sessions(start_time);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// DeleteEntry removes one record from the table backing the given kind.
func (s *Store) DeleteEntry(ctx context.Context, kind, id string) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}
	query, args, err := sq.Delete(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) exec(ctx context.Context, b sq.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *Store) query(ctx context.Context, b sq.Sqlizer) (*sql.Rows, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	return s.db.QueryContext(ctx, query, args...)
}

func closeRows(rows *sql.Rows) {
	if cerr := rows.Close(); cerr != nil {
		// Best-effort rows close.
		_ = cerr
	}
}

func ensureID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}
