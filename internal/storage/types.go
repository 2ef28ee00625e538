package storage

import (
	"errors"
	"time"

	"github.com/runnerr0/bikeshare/internal/trips"
)

// ErrNotImported is returned when a database holds no rows for a dataset.
var ErrNotImported = errors.New("dataset not imported")

// DatasetInfo describes one dataset stored in the database.
type DatasetInfo struct {
	Name       string
	Columns    trips.Columns
	RowCount   int64
	Skipped    int64
	Source     string
	ImportedAt time.Time
}

// timeLayout is how trip timestamps are stored. The offset is kept so the
// hour derived on read matches the one derived from the source file.
const timeLayout = time.RFC3339
