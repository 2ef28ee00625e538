package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/runnerr0/bikeshare/internal/config"
	"github.com/runnerr0/bikeshare/internal/storage"
	"github.com/runnerr0/bikeshare/internal/trips"
)

// datasetJSON is the JSON output structure for one configured dataset.
type datasetJSON struct {
	Name    string         `json:"name"`
	Format  string         `json:"format"`
	Path    string         `json:"path"`
	Found   bool           `json:"found"`
	Trips   int            `json:"trips,omitempty"`
	Skipped int            `json:"skipped_rows,omitempty"`
	Columns *trips.Columns `json:"columns,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// importedJSON is the JSON output structure for datasets --db.
type importedJSON struct {
	Database          string              `json:"database"`
	DatabaseSizeBytes int64               `json:"database_size_bytes"`
	Datasets          []importedEntryJSON `json:"datasets"`
}

type importedEntryJSON struct {
	Name       string        `json:"name"`
	Trips      int64         `json:"trips"`
	Skipped    int64         `json:"skipped_rows"`
	Columns    trips.Columns `json:"columns"`
	Source     string        `json:"source"`
	ImportedAt string        `json:"imported_at,omitempty"`
}

// Execute implements the go-flags Commander interface for DatasetsCommand.
func (c *DatasetsCommand) Execute(args []string) error {
	e, err := setup(c.globals, "datasets")
	if err != nil {
		return err
	}
	defer e.close()

	ctx := context.Background()

	if c.DB != "" {
		store, db, err := openExistingStore(ctx, c.DB)
		if err != nil {
			return err
		}
		defer db.Close()
		defer store.Close()

		return c.executeWithStore(ctx, store, db)
	}

	return c.executeConfigured(ctx, e)
}

// executeConfigured reads every configured dataset and reports whether it
// loads, how many trips it holds and which demographic columns it carries.
func (c *DatasetsCommand) executeConfigured(ctx context.Context, e *env) error {
	var out []datasetJSON
	for _, ds := range e.cfg.Data.Datasets {
		entry := datasetJSON{
			Name:   config.NormalizeName(ds.Name),
			Format: ds.SourceFormat(),
		}
		entry.Path, _ = e.cfg.ResolvePath(ds)

		table, err := e.loader.Table(ctx, entry.Name)
		switch {
		case errors.Is(err, trips.ErrDatasetNotFound):
			entry.Error = err.Error()
		case err != nil:
			return err
		default:
			entry.Found = true
			entry.Trips = table.Len()
			entry.Skipped = table.Skipped
			cols := table.Columns
			entry.Columns = &cols
		}
		out = append(out, entry)
	}

	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CITY\tFORMAT\tTRIPS\tSKIPPED\tCOLUMNS\tSOURCE")
	for _, d := range out {
		if !d.Found {
			fmt.Fprintf(tw, "%s\t%s\t-\t-\t-\t%s (missing)\n", d.Name, d.Format, d.Path)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			d.Name, d.Format,
			humanize.Comma(int64(d.Trips)), humanize.Comma(int64(d.Skipped)),
			columnList(*d.Columns), d.Path)
	}
	return tw.Flush()
}

// executeWithStore lists the datasets imported into an open database.
func (c *DatasetsCommand) executeWithStore(ctx context.Context, store *storage.SQLiteStore, db *sql.DB) error {
	infos, err := store.Datasets(ctx)
	if err != nil {
		return err
	}

	dbSize := getDatabaseSize(db, c.DB)

	if c.globals != nil && c.globals.JSON {
		return c.printImportedJSON(infos, dbSize)
	}
	return c.printImportedHuman(infos, dbSize)
}

func (c *DatasetsCommand) printImportedHuman(infos []storage.DatasetInfo, dbSize int64) error {
	fmt.Printf("Database:  %s (%s)\n", c.DB, humanize.Bytes(uint64(dbSize)))

	if len(infos) == 0 {
		fmt.Println("No datasets imported.")
		return nil
	}

	fmt.Println()
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CITY\tTRIPS\tSKIPPED\tCOLUMNS\tIMPORTED\tSOURCE")
	for _, info := range infos {
		imported := "-"
		if !info.ImportedAt.IsZero() {
			imported = humanize.Time(info.ImportedAt)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			info.Name,
			humanize.Comma(info.RowCount), humanize.Comma(info.Skipped),
			columnList(info.Columns), imported, info.Source)
	}
	return tw.Flush()
}

func (c *DatasetsCommand) printImportedJSON(infos []storage.DatasetInfo, dbSize int64) error {
	out := importedJSON{
		Database:          c.DB,
		DatabaseSizeBytes: dbSize,
		Datasets:          make([]importedEntryJSON, len(infos)),
	}

	for i, info := range infos {
		out.Datasets[i] = importedEntryJSON{
			Name:    info.Name,
			Trips:   info.RowCount,
			Skipped: info.Skipped,
			Columns: info.Columns,
			Source:  info.Source,
		}
		if !info.ImportedAt.IsZero() {
			out.Datasets[i].ImportedAt = info.ImportedAt.UTC().Format(time.RFC3339)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// getDatabaseSize returns the database file size in bytes.
// For on-disk databases, it uses os.Stat. For in-memory databases,
// it queries page_count * page_size.
func getDatabaseSize(db *sql.DB, dbPath string) int64 {
	if info, err := os.Stat(dbPath); err == nil {
		return info.Size()
	}

	var pageCount, pageSize int64
	if err := db.QueryRow("PRAGMA page_count").Scan(&pageCount); err != nil {
		return 0
	}
	if err := db.QueryRow("PRAGMA page_size").Scan(&pageSize); err != nil {
		return 0
	}
	return pageCount * pageSize
}

// columnList names the optional columns a dataset carries.
func columnList(cols trips.Columns) string {
	var names []string
	if cols.UserType {
		names = append(names, "user_type")
	}
	if cols.Gender {
		names = append(names, "gender")
	}
	if cols.BirthYear {
		names = append(names, "birth_year")
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ",")
}
