package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/runnerr0/bikeshare/internal/config"
)

// Execute implements the go-flags Commander interface for RemoveCommand.
func (c *RemoveCommand) Execute(args []string) error {
	if c.City == "" {
		return fmt.Errorf("--city is required for remove command")
	}
	if c.DB == "" {
		return fmt.Errorf("--db is required for remove command")
	}
	city := config.NormalizeName(c.City)

	// Confirmation prompt unless --force
	if !c.Force {
		fmt.Printf("⚠ WARNING: This will permanently delete every imported trip for %q from %s.\n", city, c.DB)
		fmt.Println("The original dataset file is not touched.")
		fmt.Println()
		fmt.Printf("Type %q to confirm: ", city)

		scanner := bufio.NewScanner(stdinOr(c.in))
		if !scanner.Scan() {
			return fmt.Errorf("aborted: no input received")
		}
		input := config.NormalizeName(scanner.Text())
		if input != city {
			return fmt.Errorf("aborted: confirmation text did not match")
		}
	}

	ctx := context.Background()

	store, db, err := openExistingStore(ctx, c.DB)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	if err := store.DeleteDataset(ctx, city); err != nil {
		return fmt.Errorf("remove failed: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		out := map[string]interface{}{
			"removed":  true,
			"dataset":  city,
			"database": c.DB,
		}
		enc := json.NewEncoder(os.Stdout)
		return enc.Encode(out)
	}

	fmt.Printf("Removed %s from %s.\n", city, c.DB)
	return nil
}
