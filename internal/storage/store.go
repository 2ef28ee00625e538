package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/runnerr0/bikeshare/internal/trips"
)

// Store defines the dataset operations backed by SQLite.
type Store interface {
	ImportTable(ctx context.Context, table *trips.Table, source string) error
	ReadTable(ctx context.Context, dataset string) (*trips.Table, error)
	Datasets(ctx context.Context) ([]DatasetInfo, error)
	DeleteDataset(ctx context.Context, dataset string) error
	Close() error
}

var _ Store = (*SQLiteStore)(nil)

// SQLiteStore implements Store on an already-opened database.
type SQLiteStore struct {
	db *sql.DB

	// Prepared statements
	getDataset *sql.Stmt
	listTrips  *sql.Stmt
}

// NewSQLiteStore creates a SQLiteStore from an opened database that already
// has the schema (see MigrationRunner).
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}

	if err := s.prepareStatements(); err != nil {
		s.Close()
		return nil, fmt.Errorf("prepare statements: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.getDataset, err = s.db.Prepare(`
		SELECT name, has_user_type, has_gender, has_birth_year, row_count, skipped, source, imported_at
		FROM datasets WHERE name = ?
	`)
	if err != nil {
		return err
	}

	s.listTrips, err = s.db.Prepare(`
		SELECT start_time, end_time, trip_duration, start_station, end_station, user_type, gender, birth_year
		FROM trips WHERE dataset = ? ORDER BY seq
	`)
	if err != nil {
		return err
	}

	return nil
}

// ImportTable stores table under its dataset name, replacing any earlier
// import of the same dataset, in a single transaction.
func (s *SQLiteStore) ImportTable(ctx context.Context, table *trips.Table, source string) error {
	if table.Dataset == "" {
		return fmt.Errorf("import: table has no dataset name")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM trips WHERE dataset = ?`, table.Dataset); err != nil {
		return fmt.Errorf("clear trips: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM datasets WHERE name = ?`, table.Dataset); err != nil {
		return fmt.Errorf("clear dataset: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO datasets (name, has_user_type, has_gender, has_birth_year, row_count, skipped, source, imported_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		table.Dataset, table.Columns.UserType, table.Columns.Gender, table.Columns.BirthYear,
		table.Len(), table.Skipped, source, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert dataset: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trips (dataset, seq, start_time, end_time, trip_duration, start_station, end_station, user_type, gender, birth_year)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare trip insert: %w", err)
	}
	defer stmt.Close()

	for i := range table.Trips {
		t := &table.Trips[i]
		_, err := stmt.ExecContext(ctx,
			table.Dataset, i,
			t.StartTime.Format(timeLayout),
			nullTime(t.EndTime),
			t.Duration,
			t.StartStation,
			t.EndStation,
			nullString(t.UserType, table.Columns.UserType),
			nullString(t.Gender, table.Columns.Gender),
			nullYear(t.BirthYear),
		)
		if err != nil {
			return fmt.Errorf("insert trip %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// ReadTable loads every trip of dataset in import order and recomputes the
// derived attributes from each start time.
func (s *SQLiteStore) ReadTable(ctx context.Context, dataset string) (*trips.Table, error) {
	info, err := s.dataset(ctx, dataset)
	if err != nil {
		return nil, err
	}

	rows, err := s.listTrips.QueryContext(ctx, dataset)
	if err != nil {
		return nil, fmt.Errorf("query trips: %w", err)
	}
	defer rows.Close()

	table := &trips.Table{
		Dataset: info.Name,
		Columns: info.Columns,
		Skipped: int(info.Skipped),
		Trips:   make([]trips.Trip, 0, info.RowCount),
	}

	for rows.Next() {
		var (
			startStr         string
			endStr           sql.NullString
			duration         float64
			startSt, endSt   string
			userType, gender sql.NullString
			birthYear        sql.NullInt64
		)
		if err := rows.Scan(&startStr, &endStr, &duration, &startSt, &endSt, &userType, &gender, &birthYear); err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}

		start, err := trips.ParseTime(startStr)
		if err != nil {
			return nil, fmt.Errorf("trip %d: %w", len(table.Trips), err)
		}

		trip := trips.NewTrip(start, startSt, endSt, duration)
		if endStr.Valid {
			trip.EndTime, _ = trips.ParseTime(endStr.String)
		}
		trip.UserType = userType.String
		trip.Gender = gender.String
		trip.BirthYear = int(birthYear.Int64)

		table.Trips = append(table.Trips, trip)
	}

	return table, rows.Err()
}

// Datasets lists every imported dataset by name.
func (s *SQLiteStore) Datasets(ctx context.Context) ([]DatasetInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, has_user_type, has_gender, has_birth_year, row_count, skipped, source, imported_at
		FROM datasets ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()

	var out []DatasetInfo
	for rows.Next() {
		info, err := scanDataset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *info)
	}

	return out, rows.Err()
}

// DeleteDataset removes a dataset and its trips.
func (s *SQLiteStore) DeleteDataset(ctx context.Context, dataset string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM trips WHERE dataset = ?`, dataset); err != nil {
		return fmt.Errorf("delete trips: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM datasets WHERE name = ?`, dataset)
	if err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotImported, dataset)
	}

	return tx.Commit()
}

func (s *SQLiteStore) dataset(ctx context.Context, name string) (*DatasetInfo, error) {
	info, err := scanDataset(s.getDataset.QueryRowContext(ctx, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotImported, name)
	}
	return info, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDataset(row scanner) (*DatasetInfo, error) {
	var info DatasetInfo
	var importedAt string
	err := row.Scan(
		&info.Name,
		&info.Columns.UserType, &info.Columns.Gender, &info.Columns.BirthYear,
		&info.RowCount, &info.Skipped, &info.Source, &importedAt,
	)
	if err != nil {
		return nil, err
	}
	info.ImportedAt, _ = parseTimestamp(importedAt)
	return &info, nil
}

// parseTimestamp tries several common SQLite timestamp formats.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp: %s", s)
}

func nullTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(timeLayout), Valid: true}
}

// nullString stores blanks as '' when the column exists, NULL otherwise.
func nullString(s string, present bool) sql.NullString {
	return sql.NullString{String: s, Valid: present}
}

func nullYear(y int) sql.NullInt64 {
	if y == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(y), Valid: true}
}

// Close releases all prepared statements. The underlying *sql.DB is NOT
// closed; that is the caller's responsibility.
func (s *SQLiteStore) Close() error {
	stmts := []*sql.Stmt{s.getDataset, s.listTrips}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}
