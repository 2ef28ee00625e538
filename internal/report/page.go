package report

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/runnerr0/bikeshare/internal/pager"
	"github.com/runnerr0/bikeshare/internal/trips"
)

// Page renders one page of raw trips as an aligned table. Only the
// demographic columns the dataset carries are shown.
func (r *Renderer) Page(p pager.Page, cols trips.Columns) {
	fmt.Fprintf(r.w, "\nShowing rows %d to %d:\n", p.Start, p.End-1)

	header := []string{"", "Start Time", "End Time", "Trip Duration", "Start Station", "End Station"}
	if cols.UserType {
		header = append(header, "User Type")
	}
	if cols.Gender {
		header = append(header, "Gender")
	}
	if cols.BirthYear {
		header = append(header, "Birth Year")
	}

	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for i, t := range p.Rows {
		row := []string{
			strconv.Itoa(p.Start + i),
			t.StartTime.Format(displayTime),
			endTime(t),
			strconv.FormatFloat(t.Duration, 'f', -1, 64),
			t.StartStation,
			t.EndStation,
		}
		if cols.UserType {
			row = append(row, blank(t.UserType))
		}
		if cols.Gender {
			row = append(row, blank(t.Gender))
		}
		if cols.BirthYear {
			year := ""
			if t.BirthYear != 0 {
				year = strconv.Itoa(t.BirthYear)
			}
			row = append(row, blank(year))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}

// NoRows reports that the view had nothing to page through.
func (r *Renderer) NoRows() {
	fmt.Fprintln(r.w, "No data available to display.")
}

// Exhausted reports that the last page has been shown.
func (r *Renderer) Exhausted() {
	fmt.Fprintln(r.w, "\nNo more data to display.")
}

func endTime(t trips.Trip) string {
	if t.EndTime.IsZero() {
		return "-"
	}
	return t.EndTime.Format(displayTime)
}

func blank(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
