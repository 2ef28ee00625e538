package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/runnerr0/bikeshare/internal/config"
	"github.com/runnerr0/bikeshare/internal/report"
	"github.com/runnerr0/bikeshare/internal/trips"
)

// Execute implements the go-flags Commander interface for StatsCommand.
func (c *StatsCommand) Execute(args []string) error {
	if c.City == "" {
		return fmt.Errorf("--city is required for stats command")
	}

	f, err := trips.NewFilter(c.Month, c.Day)
	if err != nil {
		return err
	}

	e, err := setup(c.globals, "stats")
	if err != nil {
		return err
	}
	defer e.close()

	ds, ok := e.cfg.Dataset(c.City)
	if !ok {
		return fmt.Errorf("%w: city %q (configured: %v)", trips.ErrInvalidSelection, c.City, e.cfg.DatasetNames())
	}
	city := config.NormalizeName(ds.Name)

	view, err := e.loader.Load(context.Background(), city, f)
	if err != nil {
		return err
	}

	if c.globals != nil && c.globals.JSON {
		doc, err := report.Build(view, f)
		if err != nil {
			return err
		}
		return report.WriteJSON(os.Stdout, doc)
	}

	r := report.New(os.Stdout, e.cfg.Session.ShowTiming)
	r.Selection(city, f)
	return r.Summary(view)
}
