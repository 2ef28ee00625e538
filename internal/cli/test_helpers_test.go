package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	fn()

	w.Close()
	os.Stdout = old
	return <-done
}

// setupDataDir copies the trips fixtures into a temp dir and writes a config
// pointing at it with file logging disabled. It returns the config path and
// the data dir.
func setupDataDir(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()

	for _, name := range []string{"chicago.csv", "washington.csv"} {
		data, err := os.ReadFile(filepath.Join("..", "trips", "testdata", name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0644))
	}

	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := "data:\n  dir: " + dir + "\nsession:\n  show_timing: false\nlogging:\n  file: \"\"\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))

	return cfgPath, dir
}

// globalsFor returns GlobalFlags that use the config written by setupDataDir.
func globalsFor(cfgPath string) *GlobalFlags {
	return &GlobalFlags{Config: cfgPath}
}
