package cli

import (
	"context"
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

// seedDB writes a file-backed database holding one imported dataset.
func seedDB(t *testing.T, dataset string) string {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "trips.db")

	store, db, err := openStore(ctx, path)
	require.NoError(t, err)
	defer db.Close()
	defer store.Close()

	table := &trips.Table{Dataset: dataset}
	table.Trips = append(table.Trips, trips.Trip{StartStation: "A", EndStation: "B", Duration: 1})
	require.NoError(t, store.ImportTable(ctx, table, dataset+".csv"))

	return path
}

func importedCount(t *testing.T, path string) int {
	t.Helper()
	store, db, err := openExistingStore(context.Background(), path)
	require.NoError(t, err)
	defer db.Close()
	defer store.Close()

	infos, err := store.Datasets(context.Background())
	require.NoError(t, err)
	return len(infos)
}

func TestRemove_RequiresCity(t *testing.T) {
	err := RunWithArgs("test", []string{"remove", "--db", "x.db"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--city is required")
}

func TestRemove_RequiresDB(t *testing.T) {
	err := RunWithArgs("test", []string{"remove", "--city", "chicago"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--db is required")
}

func TestRemove_WithForce_Succeeds(t *testing.T) {
	path := seedDB(t, "chicago")

	cmd := &RemoveCommand{City: "Chicago", DB: path, Force: true, globals: &GlobalFlags{}}

	var err error
	output := captureOutput(t, func() {
		err = cmd.Execute(nil)
	})

	require.NoError(t, err)
	assert.Contains(t, output, "Removed chicago")
	assert.Equal(t, 0, importedCount(t, path))
}

func TestRemove_ConfirmationAccepted(t *testing.T) {
	path := seedDB(t, "chicago")

	cmd := &RemoveCommand{City: "chicago", DB: path, globals: &GlobalFlags{}, in: strings.NewReader("  CHICAGO \n")}

	var err error
	output := captureOutput(t, func() {
		err = cmd.Execute(nil)
	})

	require.NoError(t, err)
	assert.Contains(t, output, "WARNING")
	assert.Contains(t, output, `Type "chicago" to confirm`)
	assert.Equal(t, 0, importedCount(t, path))
}

func TestRemove_ConfirmationMismatch_Aborts(t *testing.T) {
	path := seedDB(t, "chicago")

	cmd := &RemoveCommand{City: "chicago", DB: path, globals: &GlobalFlags{}, in: strings.NewReader("washington\n")}

	var err error
	captureOutput(t, func() {
		err = cmd.Execute(nil)
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not match")
	assert.Equal(t, 1, importedCount(t, path))
}

func TestRemove_NoInput_Aborts(t *testing.T) {
	path := seedDB(t, "chicago")

	cmd := &RemoveCommand{City: "chicago", DB: path, globals: &GlobalFlags{}, in: strings.NewReader("")}

	var err error
	captureOutput(t, func() {
		err = cmd.Execute(nil)
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input received")
}

func TestRemove_NotImported(t *testing.T) {
	path := seedDB(t, "chicago")

	cmd := &RemoveCommand{City: "washington", DB: path, Force: true, globals: &GlobalFlags{}}

	var err error
	captureOutput(t, func() {
		err = cmd.Execute(nil)
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrNotImported)
}

func TestRemove_JSONOutput(t *testing.T) {
	path := seedDB(t, "chicago")

	cmd := &RemoveCommand{City: "chicago", DB: path, Force: true, globals: &GlobalFlags{JSON: true}}

	var err error
	output := captureOutput(t, func() {
		err = cmd.Execute(nil)
	})
	require.NoError(t, err)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.Equal(t, true, result["removed"])
	assert.Equal(t, "chicago", result["dataset"])
}
