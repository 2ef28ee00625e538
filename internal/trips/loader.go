package trips

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/runnerr0/bikeshare/internal/config"
	"github.com/runnerr0/bikeshare/internal/logging"
)

// Reader decodes the full trip table of one dataset from its backing source.
type Reader interface {
	Read(ctx context.Context, path, dataset string) (*Table, error)
}

// Loader resolves dataset identifiers through the configuration, reads the
// matching source and applies filters.
type Loader struct {
	cfg     *config.Config
	readers map[string]Reader
	log     logging.Logger
}

// NewLoader returns a Loader that reads CSV sources. Other formats are added
// with Register.
func NewLoader(cfg *config.Config, log logging.Logger) *Loader {
	if log == nil {
		log = logging.Nop()
	}
	l := &Loader{
		cfg:     cfg,
		readers: make(map[string]Reader),
		log:     log.Named("loader"),
	}
	l.Register(config.FormatCSV, CSVReader{Log: l.log})
	return l
}

// Register installs the reader used for datasets of the given format.
func (l *Loader) Register(format string, r Reader) {
	l.readers[format] = r
}

// Datasets returns the configured dataset identifiers.
func (l *Loader) Datasets() []string {
	return l.cfg.DatasetNames()
}

// Table reads the unfiltered trip table of dataset. Any failure to locate or
// read the source is reported as ErrDatasetNotFound.
func (l *Loader) Table(ctx context.Context, dataset string) (*Table, error) {
	ds, ok := l.cfg.Dataset(dataset)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a configured dataset", ErrDatasetNotFound, dataset)
	}
	name := config.NormalizeName(ds.Name)

	path, err := l.cfg.ResolvePath(ds)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDatasetNotFound, name, err)
	}

	format := ds.SourceFormat()
	reader, ok := l.readers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s: no reader for format %q", ErrDatasetNotFound, name, format)
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDatasetNotFound, name, err)
	}

	l.log.Debug("reading %s from %s (%s)", name, path, format)

	table, err := reader.Read(ctx, path, name)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrDatasetNotFound, name, err)
	}

	l.log.Info("loaded %s: %d trips, %d skipped", name, table.Len(), table.Skipped)
	return table, nil
}

// Load reads dataset and returns the view matching f.
func (l *Loader) Load(ctx context.Context, dataset string, f Filter) (*Table, error) {
	table, err := l.Table(ctx, dataset)
	if err != nil {
		return nil, err
	}

	view, err := table.Apply(f)
	if err != nil {
		return nil, err
	}

	l.log.Debug("filter month=%s day=%s kept %d of %d trips", f.Month, f.Day, view.Len(), table.Len())
	return view, nil
}
