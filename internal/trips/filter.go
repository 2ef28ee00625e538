package trips

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// All disables the month or day filter.
const All = "all"

// ErrInvalidSelection is returned for month or day values outside the
// accepted enumerations.
var ErrInvalidSelection = errors.New("invalid selection")

// Months lists the accepted month filters in calendar order. The datasets
// only cover January through June.
var Months = []string{"january", "february", "march", "april", "may", "june"}

// Days lists the accepted day-of-week filters.
var Days = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// Filter selects trips by start month and day of week. Apply treats empty
// fields as All.
type Filter struct {
	Month string
	Day   string
}

// NewFilter normalizes and validates month and day.
func NewFilter(month, day string) (Filter, error) {
	m, err := ParseMonth(month)
	if err != nil {
		return Filter{}, err
	}
	d, err := ParseDay(day)
	if err != nil {
		return Filter{}, err
	}
	return Filter{Month: m, Day: d}, nil
}

// ParseMonth trims and lowercases s and checks it against Months and All.
func ParseMonth(s string) (string, error) {
	s = normalize(s)
	if s == All {
		return All, nil
	}
	if monthIndex(s) == 0 {
		return "", fmt.Errorf("%w: month %q (choose january-june or all)", ErrInvalidSelection, s)
	}
	return s, nil
}

// ParseDay trims and lowercases s and checks it against Days and All.
func ParseDay(s string) (string, error) {
	s = normalize(s)
	if s == All {
		return All, nil
	}
	for _, d := range Days {
		if d == s {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: day %q (choose a weekday name or all)", ErrInvalidSelection, s)
}

// monthIndex returns the 1-based position of name in Months, or 0.
func monthIndex(name string) time.Month {
	for i, m := range Months {
		if m == name {
			return time.Month(i + 1)
		}
	}
	return 0
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Apply returns a new table holding the trips that match both the month and
// the day constraint, in their original order. The receiver is not modified.
func (t *Table) Apply(f Filter) (*Table, error) {
	if f.Month == "" {
		f.Month = All
	}
	if f.Day == "" {
		f.Day = All
	}
	f, err := NewFilter(f.Month, f.Day)
	if err != nil {
		return nil, err
	}

	month := monthIndex(f.Month)
	return t.where(func(trip *Trip) bool {
		if month != 0 && trip.Month != month {
			return false
		}
		if f.Day != All && !strings.EqualFold(trip.DayOfWeek.String(), f.Day) {
			return false
		}
		return true
	}), nil
}

// FilterMonth is Apply with only a month constraint.
func (t *Table) FilterMonth(month string) (*Table, error) {
	return t.Apply(Filter{Month: month, Day: All})
}

// FilterDay is Apply with only a day constraint.
func (t *Table) FilterDay(day string) (*Table, error) {
	return t.Apply(Filter{Month: All, Day: day})
}

func (t *Table) where(keep func(*Trip) bool) *Table {
	out := &Table{
		Dataset: t.Dataset,
		Columns: t.Columns,
		Skipped: t.Skipped,
		Trips:   make([]Trip, 0, len(t.Trips)),
	}
	for i := range t.Trips {
		if keep(&t.Trips[i]) {
			out.Trips = append(out.Trips, t.Trips[i])
		}
	}
	return out
}
