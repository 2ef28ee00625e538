package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/bikeshare/internal/storage"
	"github.com/runnerr0/bikeshare/internal/trips"
)

// setupDatasetsStore creates an in-memory store for testing datasets --db.
func setupDatasetsStore(t *testing.T) (*storage.SQLiteStore, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, storage.NewMigrationRunner(db).Run(context.Background()))

	store, err := storage.NewSQLiteStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store, db
}

func TestDatasets_Configured(t *testing.T) {
	cfgPath, _ := setupDataDir(t)

	var err error
	output := captureOutput(t, func() {
		err = RunWithArgs("test", []string{"--config", cfgPath, "datasets"})
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "CITY")
	assert.Regexp(t, `^chicago\s+csv\s+7\s+2\s+user_type,gender,birth_year\s`, lines[1])
	assert.Regexp(t, `^new york city\s+csv\s+-`, lines[2])
	assert.Contains(t, lines[2], "(missing)")
	assert.Regexp(t, `^washington\s+csv\s+3\s+0\s+-\s`, lines[3])
}

func TestDatasets_ConfiguredJSON(t *testing.T) {
	cfgPath, _ := setupDataDir(t)

	var err error
	output := captureOutput(t, func() {
		err = RunWithArgs("test", []string{"--config", cfgPath, "--json", "datasets"})
	})
	require.NoError(t, err)

	var out []datasetJSON
	require.NoError(t, json.Unmarshal([]byte(output), &out))
	require.Len(t, out, 3)

	assert.True(t, out[0].Found)
	assert.Equal(t, 7, out[0].Trips)
	require.NotNil(t, out[0].Columns)
	assert.True(t, out[0].Columns.BirthYear)

	assert.False(t, out[1].Found)
	assert.Contains(t, out[1].Error, trips.ErrDatasetNotFound.Error())
}

func TestDatasets_EmptyDB(t *testing.T) {
	store, db := setupDatasetsStore(t)

	cmd := &DatasetsCommand{globals: &GlobalFlags{}, DB: ":memory:"}

	output := captureOutput(t, func() {
		err := cmd.executeWithStore(context.Background(), store, db)
		require.NoError(t, err)
	})

	assert.Contains(t, output, "Database:  :memory:")
	assert.Contains(t, output, "No datasets imported.")
}

func TestDatasets_WithImports(t *testing.T) {
	store, db := setupDatasetsStore(t)
	ctx := context.Background()

	table := &trips.Table{Dataset: "chicago", Columns: trips.Columns{Gender: true}, Skipped: 1}
	for i := 0; i < 1200; i++ {
		table.Trips = append(table.Trips, trips.Trip{StartStation: "A", EndStation: "B", Duration: 1})
	}
	require.NoError(t, store.ImportTable(ctx, table, "chicago.csv"))

	cmd := &DatasetsCommand{globals: &GlobalFlags{}, DB: ":memory:"}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(ctx, store, db))
	})

	assert.Contains(t, output, "CITY")
	assert.Regexp(t, `chicago\s+1,200\s+1\s+gender\s+`, output)
	assert.Contains(t, output, "chicago.csv")
}

func TestDatasets_WithImportsJSON(t *testing.T) {
	store, db := setupDatasetsStore(t)
	ctx := context.Background()

	table := &trips.Table{Dataset: "washington"}
	table.Trips = append(table.Trips, trips.Trip{StartStation: "A", EndStation: "B", Duration: 1})
	require.NoError(t, store.ImportTable(ctx, table, "washington.csv"))

	cmd := &DatasetsCommand{globals: &GlobalFlags{JSON: true}, DB: ":memory:"}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(ctx, store, db))
	})

	var out importedJSON
	require.NoError(t, json.Unmarshal([]byte(output), &out))
	assert.Greater(t, out.DatabaseSizeBytes, int64(0))
	require.Len(t, out.Datasets, 1)
	assert.Equal(t, "washington", out.Datasets[0].Name)
	assert.EqualValues(t, 1, out.Datasets[0].Trips)
	assert.NotEmpty(t, out.Datasets[0].ImportedAt)
}

func TestDatasets_DBMustExist(t *testing.T) {
	cfgPath, dir := setupDataDir(t)

	err := RunWithArgs("test", []string{"--config", cfgPath, "datasets", "--db", filepath.Join(dir, "absent.db")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open database")
}

func TestColumnList(t *testing.T) {
	assert.Equal(t, "-", columnList(trips.Columns{}))
	assert.Equal(t, "user_type,birth_year", columnList(trips.Columns{UserType: true, BirthYear: true}))
}
