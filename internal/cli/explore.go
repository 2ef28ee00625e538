package cli

import (
	"context"
	"os"

	"github.com/runnerr0/bikeshare/internal/session"
)

// Execute implements the go-flags Commander interface for ExploreCommand.
func (c *ExploreCommand) Execute(args []string) error {
	e, err := setup(c.globals, "explore")
	if err != nil {
		return err
	}
	defer e.close()

	e.log.Info("bikeshare %s starting interactive session", c.version)

	s := session.New(stdinOr(c.in), os.Stdout, e.loader, e.log, session.Options{
		PageSize:   e.cfg.Session.PageSize,
		ShowTiming: e.cfg.Session.ShowTiming,
	})
	return s.Run(context.Background())
}
