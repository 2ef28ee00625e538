package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Explore  *ExploreCommand
	Stats    *StatsCommand
	Import   *ImportCommand
	Datasets *DatasetsCommand
	Remove   *RemoveCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	// Errors are returned to main for printing. Help is printed by RunWithArgs.
	parser := goflags.NewParser(&globals, goflags.HelpFlag|goflags.PassDoubleDash)
	parser.Name = "bikeshare"
	parser.LongDescription = "Explore US bikeshare trip data: popular times, stations, trip durations and riders."
	parser.SubcommandsOptional = true

	cmds := &commands{
		Explore:  &ExploreCommand{globals: &globals, version: version},
		Stats:    &StatsCommand{globals: &globals, version: version},
		Import:   &ImportCommand{globals: &globals, version: version},
		Datasets: &DatasetsCommand{globals: &globals, version: version},
		Remove:   &RemoveCommand{globals: &globals, version: version},
	}

	parser.AddCommand("explore", "Start an interactive session (default)", "Choose a city, month and day, read the statistics and page through raw trips.", cmds.Explore)
	parser.AddCommand("stats", "Print statistics for one selection", "Print time, station, duration and user statistics for one city, month and day.", cmds.Stats)
	parser.AddCommand("import", "Copy a dataset into SQLite", "Read a configured dataset and store it in a SQLite database usable as a dataset source.", cmds.Import)
	parser.AddCommand("datasets", "List datasets", "List configured datasets and their sources, or the datasets imported into a SQLite database.", cmds.Datasets)
	parser.AddCommand("remove", "Delete an imported dataset", "Delete one imported dataset from a SQLite database. Destructive operation with safety prompt.", cmds.Remove)

	return parser, &globals, cmds
}

// Run is the main entry point for the bikeshare CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the
// matched subcommand. Without a subcommand it starts the interactive session.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser so it works without a config file.
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("bikeshare %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, cmds := buildParser(version)

	var (
		rest []string
		err  error
	)
	if args != nil {
		rest, err = parser.ParseArgs(args)
	} else {
		rest, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				fmt.Println(flagsErr.Message)
				return nil
			}
		}
		return err
	}

	if parser.Active == nil {
		if len(rest) > 0 {
			return fmt.Errorf("unknown command %q", rest[0])
		}
		return cmds.Explore.Execute(rest)
	}

	return nil
}
