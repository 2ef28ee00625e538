// Package report renders aggregation results and raw trip pages for the
// terminal. Each statistics section is computed inside the renderer so its
// own computation time can be shown under it.
package report

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/runnerr0/bikeshare/internal/stats"
	"github.com/runnerr0/bikeshare/internal/trips"
)

// NoData is printed in place of a section when the view is empty.
const NoData = "No data available for the selected filters."

const displayTime = "2006-01-02 15:04:05"

// Renderer writes report sections to w.
type Renderer struct {
	w          io.Writer
	showTiming bool
	now        func() time.Time
}

// New returns a Renderer. When showTiming is set every statistics section
// ends with the time its computation took.
func New(w io.Writer, showTiming bool) *Renderer {
	return &Renderer{w: w, showTiming: showTiming, now: time.Now}
}

// Title capitalizes each word of a lowercase identifier for display.
func Title(s string) string {
	return cases.Title(language.English).String(s)
}

// Selection echoes the chosen dataset and filters.
func (r *Renderer) Selection(dataset string, f trips.Filter) {
	fmt.Fprintln(r.w, "\nYou chose:")
	fmt.Fprintf(r.w, "  City : %s\n", Title(dataset))
	fmt.Fprintf(r.w, "  Month: %s\n", Title(orAll(f.Month)))
	fmt.Fprintf(r.w, "  Day  : %s\n", Title(orAll(f.Day)))
}

// Summary renders the time, station, duration and user sections in that
// order.
func (r *Renderer) Summary(view *trips.Table) error {
	sections := []func(*trips.Table) error{r.Time, r.Stations, r.Durations, r.Users}
	for _, section := range sections {
		if err := section(view); err != nil {
			return err
		}
	}
	return nil
}

// Time renders the most frequent times of travel.
func (r *Renderer) Time(view *trips.Table) error {
	return r.section("Calculating The Most Frequent Times of Travel...", func() error {
		ts, err := stats.ComputeTime(view)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.w, "Most common month      : %s\n", ts.Month)
		fmt.Fprintf(r.w, "Most common day of week: %s\n", ts.Day)
		fmt.Fprintf(r.w, "Most common start hour : %d:00\n", ts.Hour)
		return nil
	})
}

// Stations renders the most popular stations and trip.
func (r *Renderer) Stations(view *trips.Table) error {
	return r.section("Calculating The Most Popular Stations and Trip...", func() error {
		ss, err := stats.ComputeStations(view)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.w, "Most common start station: %s\n", ss.StartStation)
		fmt.Fprintf(r.w, "Most common end station  : %s\n", ss.EndStation)
		fmt.Fprintf(r.w, "Most common trip         : %s\n", ss.Trip)
		return nil
	})
}

// Durations renders total and mean travel time.
func (r *Renderer) Durations(view *trips.Table) error {
	return r.section("Calculating Trip Duration...", func() error {
		ds, err := stats.ComputeDurations(view)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.w, "Total travel time (seconds): %.2f (%s)\n", ds.Total, seconds(ds.Total))
		fmt.Fprintf(r.w, "Mean travel time (seconds) : %.2f (%s)\n", ds.Mean, seconds(ds.Mean))
		fmt.Fprintf(r.w, "Trips counted              : %s\n", humanize.Comma(int64(ds.Count)))
		return nil
	})
}

// Users renders user type and gender counts and the birth year summary, or
// a not-available line for each column the dataset lacks.
func (r *Renderer) Users(view *trips.Table) error {
	return r.section("Calculating User Stats...", func() error {
		us, err := stats.ComputeUsers(view)
		if err != nil {
			return err
		}

		if us.Columns.UserType {
			fmt.Fprintln(r.w, "\nCounts of user types:")
			r.counts(us.UserTypes)
		} else {
			fmt.Fprintln(r.w, "\nUser Type data is not available.")
		}

		if us.Columns.Gender {
			fmt.Fprintln(r.w, "\nCounts of gender:")
			r.counts(us.Genders)
		} else {
			fmt.Fprintln(r.w, "\nGender data is not available for this city.")
		}

		switch {
		case !us.Columns.BirthYear:
			fmt.Fprintln(r.w, "\nBirth year data is not available for this city.")
		case us.BirthYears == nil:
			fmt.Fprintln(r.w, "\nBirth year statistics: no birth year values for the selected filters.")
		default:
			fmt.Fprintln(r.w, "\nBirth year statistics:")
			fmt.Fprintf(r.w, "  Earliest year: %d\n", us.BirthYears.Earliest)
			fmt.Fprintf(r.w, "  Most recent  : %d\n", us.BirthYears.MostRecent)
			fmt.Fprintf(r.w, "  Most common  : %d\n", us.BirthYears.MostCommon)
		}
		return nil
	})
}

// section prints title, runs body and, unless body reports no data, the
// elapsed time. trips.ErrNoData is rendered, not returned.
func (r *Renderer) section(title string, body func() error) error {
	fmt.Fprintf(r.w, "\n%s\n", title)
	start := r.now()

	err := body()
	if errors.Is(err, trips.ErrNoData) {
		fmt.Fprintln(r.w, NoData)
		return nil
	}
	if err != nil {
		return err
	}

	if r.showTiming {
		fmt.Fprintf(r.w, "\nThis took %.4f seconds.\n", r.now().Sub(start).Seconds())
	}
	return nil
}

func (r *Renderer) counts(values []stats.ValueCount) {
	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	for _, vc := range values {
		fmt.Fprintf(tw, "  %s\t%s\n", vc.Value, humanize.Comma(int64(vc.Count)))
	}
	tw.Flush()
}

// seconds formats a float number of seconds as a rounded time.Duration.
func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second)).Round(time.Second)
}

func orAll(s string) string {
	if s == "" {
		return trips.All
	}
	return s
}
