// Package store persists visitor analytics and the inquiry journal in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store bundles the repositories over one database handle.
type Store struct {
	DB        *sql.DB
	Visitors  *VisitorRepo
	Inquiries *InquiryRepo
}

// New wraps an open, migrated database.
func New(db *sql.DB) *Store {
	return &Store{
		DB:        db,
		Visitors:  &VisitorRepo{db: db},
		Inquiries: &InquiryRepo{db: db},
	}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.DB.Close()
}

// Open opens the database at path, applies PRAGMAs and runs migrations.
// ":memory:" opens a private in-memory database.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite benefits from a single writer connection; in-memory databases
	// also need it so every query sees the same database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}
