package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/runnerr0/bikeshare/internal/config"
	"github.com/runnerr0/bikeshare/internal/logging"
	"github.com/runnerr0/bikeshare/internal/storage"
	"github.com/runnerr0/bikeshare/internal/trips"
)

// env is what every command needs before doing its work.
type env struct {
	cfg    *config.Config
	log    logging.Logger
	loader *trips.Loader
	close  func() error
}

// setup loads the configuration, opens the log and builds a loader that
// reads both CSV and SQLite sources.
func setup(g *GlobalFlags, command string) (*env, error) {
	cfg, err := loadConfig(g)
	if err != nil {
		return nil, err
	}

	log, closeLog := logging.New(cfg.Logging, g.Verbose)
	log = log.Named(command)

	loader := trips.NewLoader(cfg, log)
	loader.Register(config.FormatSQLite, storage.SQLiteReader{})

	return &env{cfg: cfg, log: log, loader: loader, close: closeLog}, nil
}

// loadConfig reads --config when given, otherwise the default path
// (written with defaults on first run). --data-dir overrides data.dir.
func loadConfig(g *GlobalFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if g.Config != "" {
		cfg, err = config.Load(g.Config)
	} else {
		cfg, err = config.LoadOrCreate()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if g.DataDir != "" {
		cfg.Data.Dir = g.DataDir
	}
	return cfg, nil
}

// openStore opens (creating if needed) a dataset database, runs migrations,
// and returns a ready-to-use store and the underlying *sql.DB.
func openStore(ctx context.Context, path string) (*storage.SQLiteStore, *sql.DB, error) {
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}

	store, err := storage.NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("create store: %w", err)
	}

	return store, db, nil
}

// openExistingStore is openStore for a database that must already exist.
func openExistingStore(ctx context.Context, path string) (*storage.SQLiteStore, *sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return openStore(ctx, path)
}

func stdinOr(r io.Reader) io.Reader {
	if r == nil {
		return os.Stdin
	}
	return r
}
