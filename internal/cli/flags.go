package cli

import "io"

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file (default ~/.config/bikeshare/config.yaml)" default:""`
	DataDir string `long:"data-dir" description:"Directory holding the dataset files (overrides data.dir)"`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Log debug output to stderr"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// ExploreCommand runs the interactive session: pick a city and filters,
// read the statistics, page through raw rows.
type ExploreCommand struct {
	globals *GlobalFlags
	version string
	in      io.Reader // injectable for testing; nil means os.Stdin
}

// StatsCommand prints the statistics for one selection without prompting.
type StatsCommand struct {
	City  string `long:"city" description:"Dataset to analyze (required)"`
	Month string `long:"month" description:"january..june or all" default:"all"`
	Day   string `long:"day" description:"Weekday name or all" default:"all"`

	globals *GlobalFlags
	version string
}

// ImportCommand copies a configured dataset into a SQLite database.
type ImportCommand struct {
	City string `long:"city" description:"Dataset to import (required)"`
	Out  string `long:"out" description:"SQLite database to write (required)"`

	globals *GlobalFlags
	version string
}

// DatasetsCommand lists configured datasets, or those imported into a
// database.
type DatasetsCommand struct {
	DB string `long:"db" description:"List datasets imported into this SQLite database instead"`

	globals *GlobalFlags
	version string
}

// RemoveCommand deletes one imported dataset after a safety confirmation.
type RemoveCommand struct {
	City  string `long:"city" description:"Imported dataset to delete (required)"`
	DB    string `long:"db" description:"SQLite database holding the dataset (required)"`
	Force bool   `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	version string
	in      io.Reader // injectable for testing; nil means os.Stdin
}
