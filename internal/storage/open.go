package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/runnerr0/bikeshare/internal/trips"
)

// Open opens (creating if needed) the dataset database at path and runs
// migrations. The caller closes the returned *sql.DB.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	runner := NewMigrationRunner(db)
	if err := runner.Run(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}

// OpenReadOnly opens an existing dataset database without writing to it.
// A missing file is reported as os.ErrNotExist rather than created.
func OpenReadOnly(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// SQLiteReader reads datasets imported into a SQLite database. It
// satisfies trips.Reader.
type SQLiteReader struct{}

// Read opens path read-only, loads dataset and closes the database before
// returning, on success and on failure.
func (SQLiteReader) Read(ctx context.Context, path, dataset string) (*trips.Table, error) {
	db, err := OpenReadOnly(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	store, err := NewSQLiteStore(db)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	return store.ReadTable(ctx, dataset)
}
