package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/runnerr0/bikeshare/internal/config"
	"github.com/runnerr0/bikeshare/internal/report"
	"github.com/runnerr0/bikeshare/internal/trips"
)

type importJSON struct {
	Dataset string `json:"dataset"`
	Source  string `json:"source"`
	Out     string `json:"out"`
	Trips   int    `json:"trips"`
	Skipped int    `json:"skipped_rows"`
}

// Execute implements the go-flags Commander interface for ImportCommand.
func (c *ImportCommand) Execute(args []string) error {
	if c.City == "" {
		return fmt.Errorf("--city is required for import command")
	}
	if c.Out == "" {
		return fmt.Errorf("--out is required for import command")
	}

	e, err := setup(c.globals, "import")
	if err != nil {
		return err
	}
	defer e.close()

	ds, ok := e.cfg.Dataset(c.City)
	if !ok {
		return fmt.Errorf("%w: city %q (configured: %v)", trips.ErrInvalidSelection, c.City, e.cfg.DatasetNames())
	}
	city := config.NormalizeName(ds.Name)

	source, err := e.cfg.ResolvePath(ds)
	if err != nil {
		return err
	}

	ctx := context.Background()

	table, err := e.loader.Table(ctx, city)
	if err != nil {
		return err
	}

	store, db, err := openStore(ctx, c.Out)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	if err := store.ImportTable(ctx, table, source); err != nil {
		return fmt.Errorf("import %s: %w", city, err)
	}
	e.log.Info("imported %s (%d trips) into %s", city, table.Len(), c.Out)

	if c.globals != nil && c.globals.JSON {
		return report.WriteJSON(os.Stdout, importJSON{
			Dataset: city,
			Source:  source,
			Out:     c.Out,
			Trips:   table.Len(),
			Skipped: table.Skipped,
		})
	}

	fmt.Printf("Imported %s trips for %s into %s", humanize.Comma(int64(table.Len())), report.Title(city), c.Out)
	if table.Skipped > 0 {
		fmt.Printf(" (%s malformed rows skipped)", humanize.Comma(int64(table.Skipped)))
	}
	fmt.Println()
	return nil
}
