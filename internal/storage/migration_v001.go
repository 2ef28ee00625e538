package storage

import "database/sql"

// migrateV001 creates the dataset schema: one row per imported dataset with
// its column set, and the trips themselves keyed by (dataset, seq). Every
// statement uses IF NOT EXISTS for idempotency.
func migrateV001(tx *sql.Tx) error {
	stmts := []string{
		// ── Tables ──────────────────────────────────────────────

		`CREATE TABLE IF NOT EXISTS datasets (
			name           TEXT PRIMARY KEY,
			has_user_type  BOOLEAN NOT NULL DEFAULT 0,
			has_gender     BOOLEAN NOT NULL DEFAULT 0,
			has_birth_year BOOLEAN NOT NULL DEFAULT 0,
			row_count      INTEGER NOT NULL DEFAULT 0,
			skipped        INTEGER NOT NULL DEFAULT 0,
			source         TEXT NOT NULL DEFAULT '',
			imported_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS trips (
			dataset       TEXT NOT NULL REFERENCES datasets(name) ON DELETE CASCADE,
			seq           INTEGER NOT NULL,
			start_time    TEXT NOT NULL,
			end_time      TEXT,
			trip_duration REAL NOT NULL,
			start_station TEXT NOT NULL,
			end_station   TEXT NOT NULL,
			user_type     TEXT,
			gender        TEXT,
			birth_year    INTEGER,
			PRIMARY KEY (dataset, seq)
		)`,

		// ── Indexes ────────────────────────────────────────────

		`CREATE INDEX IF NOT EXISTS idx_trips_start_time ON trips(dataset, start_time)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
