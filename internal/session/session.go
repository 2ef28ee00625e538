// Package session runs the interactive exploration loop: choose a dataset
// and filters, print the statistics, page through raw rows on request and
// offer to start over.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/runnerr0/bikeshare/internal/logging"
	"github.com/runnerr0/bikeshare/internal/pager"
	"github.com/runnerr0/bikeshare/internal/report"
	"github.com/runnerr0/bikeshare/internal/trips"
)

// Source loads filtered views. *trips.Loader satisfies it.
type Source interface {
	Datasets() []string
	Load(ctx context.Context, dataset string, f trips.Filter) (*trips.Table, error)
}

// Options tunes a Session.
type Options struct {
	PageSize   int
	ShowTiming bool
}

// Session holds the state of one interactive run. It reads answers from in
// and writes prompts and reports to out.
type Session struct {
	in       *bufio.Reader
	out      io.Writer
	src      Source
	render   *report.Renderer
	pageSize int
	log      logging.Logger
}

// New creates a Session.
func New(in io.Reader, out io.Writer, src Source, log logging.Logger, opts Options) *Session {
	if log == nil {
		log = logging.Nop()
	}
	if opts.PageSize < 1 {
		opts.PageSize = pager.DefaultPageSize
	}
	return &Session{
		in:       bufio.NewReader(in),
		out:      out,
		src:      src,
		render:   report.New(out, opts.ShowTiming),
		pageSize: opts.PageSize,
		log:      log.Named("session"),
	}
}

// Run loops until the user declines to restart or input ends. End of
// input is a normal way to leave and is not returned as an error.
func (s *Session) Run(ctx context.Context) error {
	err := s.loop(ctx)
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(s.out, "\nGoodbye!")
		return nil
	}
	return err
}

func (s *Session) loop(ctx context.Context) error {
	for {
		log := s.log.With("iteration", uuid.NewString())

		dataset, f, err := s.selection()
		if err != nil {
			return err
		}
		log.Info("selected %s month=%s day=%s", dataset, f.Month, f.Day)

		view, err := s.src.Load(ctx, dataset, f)
		if errors.Is(err, trips.ErrDatasetNotFound) {
			log.Warn("load failed: %v", err)
			fmt.Fprintf(s.out, "\nError: Data file for %s not found. Please make sure the dataset files are in the data directory.\n", report.Title(dataset))

			again, err := s.confirm("\nWould you like to try again with another city? Enter yes or no: ")
			if err != nil {
				return err
			}
			if !again {
				fmt.Fprintln(s.out, "Goodbye!")
				return nil
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("load %s: %w", dataset, err)
		}
		log.Debug("view has %d trips", view.Len())

		if err := s.render.Summary(view); err != nil {
			return err
		}

		if err := s.browse(view); err != nil {
			return err
		}

		again, err := s.confirm("\nWould you like to restart? Enter yes or no: ")
		if err != nil {
			return err
		}
		if !again {
			fmt.Fprintln(s.out, "\nThank you for exploring US bikeshare data! Goodbye.")
			return nil
		}
	}
}

// selection asks for dataset, month and day, re-asking each until valid,
// and echoes the choice.
func (s *Session) selection() (string, trips.Filter, error) {
	fmt.Fprintln(s.out, "Hello! Let's explore some US bikeshare data!")

	names := s.src.Datasets()
	titles := make([]string, len(names))
	for i, n := range names {
		titles[i] = report.Title(n)
	}
	choices := strings.Join(titles, ", ")

	dataset, err := s.ask(
		fmt.Sprintf("\nPlease enter a city (%s): ", choices),
		func(answer string) (string, error) {
			for _, n := range names {
				if n == answer {
					return n, nil
				}
			}
			return "", fmt.Errorf("%w: city %q", trips.ErrInvalidSelection, answer)
		},
		fmt.Sprintf("Invalid city. Please choose from: %s.", choices),
	)
	if err != nil {
		return "", trips.Filter{}, err
	}

	month, err := s.ask(
		"\nEnter month (January-June) or 'all' to apply no month filter: ",
		trips.ParseMonth,
		"Invalid month. Please choose January-June or 'all'.",
	)
	if err != nil {
		return "", trips.Filter{}, err
	}

	day, err := s.ask(
		"\nEnter day of week (e.g., Monday) or 'all' to apply no day filter: ",
		trips.ParseDay,
		"Invalid day. Please enter a valid weekday name or 'all'.",
	)
	if err != nil {
		return "", trips.Filter{}, err
	}

	f := trips.Filter{Month: month, Day: day}
	s.render.Selection(dataset, f)
	return dataset, f, nil
}

// ask prompts until parse accepts the trimmed, lowercased answer. Answers
// rejected with trips.ErrInvalidSelection print invalid and ask again.
func (s *Session) ask(prompt string, parse func(string) (string, error), invalid string) (string, error) {
	for {
		answer, err := s.readLine(prompt)
		if err != nil {
			return "", err
		}

		value, err := parse(answer)
		if errors.Is(err, trips.ErrInvalidSelection) {
			s.log.Debug("rejected input: %v", err)
			fmt.Fprintln(s.out, invalid)
			continue
		}
		if err != nil {
			return "", err
		}
		return value, nil
	}
}

// browse offers raw rows one page at a time, asking before every page.
func (s *Session) browse(view *trips.Table) error {
	p := pager.New(view, s.pageSize)

	more, err := s.confirm(fmt.Sprintf("\nWould you like to see %d lines of raw data? Enter yes or no: ", s.pageSize))
	if err != nil {
		return err
	}

	for more {
		page, err := p.Next()
		if errors.Is(err, trips.ErrNoData) {
			s.render.NoRows()
			return nil
		}
		if err != nil {
			return err
		}

		s.render.Page(page, view.Columns)
		if !page.HasMore {
			s.render.Exhausted()
			return nil
		}

		more, err = s.confirm(fmt.Sprintf("\nWould you like to see the next %d lines of raw data? Enter yes or no: ", s.pageSize))
		if err != nil {
			return err
		}
	}
	return nil
}

// confirm reports whether the answer to prompt is yes or y.
func (s *Session) confirm(prompt string) (bool, error) {
	answer, err := s.readLine(prompt)
	if err != nil {
		return false, err
	}
	return answer == "yes" || answer == "y", nil
}

// readLine writes prompt and returns the next input line, trimmed and
// lowercased. Lines of any length are accepted. It returns io.EOF once
// input is exhausted.
func (s *Session) readLine(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	line, err := s.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read input: %w", err)
		}
		if line == "" {
			return "", io.EOF
		}
	}
	return strings.ToLower(strings.TrimSpace(line)), nil
}
