// Package stats computes the descriptive statistics shown for a filtered
// trip view. Every function is a pure read over the view and returns
// trips.ErrNoData when the view is empty.
package stats

import (
	"time"

	"github.com/runnerr0/bikeshare/internal/trips"
)

// Unknown labels blank user type and gender values.
const Unknown = "Unknown"

// TimeStats holds the most common times of travel.
type TimeStats struct {
	Month time.Month
	Day   time.Weekday
	Hour  int
}

// Route is an ordered (start, end) station pair.
type Route struct {
	Start string
	End   string
}

func (r Route) String() string {
	return r.Start + " -> " + r.End
}

// StationStats holds the most popular stations and trip.
type StationStats struct {
	StartStation string
	EndStation   string
	Trip         Route
}

// DurationStats holds total and mean trip duration in seconds.
type DurationStats struct {
	Count int
	Total float64
	Mean  float64
}

// ValueCount pairs a categorical value with its number of occurrences.
type ValueCount struct {
	Value string
	Count int
}

// BirthYearSummary describes the non-missing birth years of a view.
type BirthYearSummary struct {
	Earliest   int
	MostRecent int
	MostCommon int
}

// UserStats holds rider demographics. A nil field means the dataset does
// not carry that column; Columns tells which ones it does. BirthYears can
// also be nil when the column exists but every value in the view is missing.
type UserStats struct {
	Columns    trips.Columns
	UserTypes  []ValueCount
	Genders    []ValueCount
	BirthYears *BirthYearSummary
}

// ComputeTime returns the mode of month, day of week and start hour.
func ComputeTime(view *trips.Table) (*TimeStats, error) {
	if view.Empty() {
		return nil, trips.ErrNoData
	}

	months := newCounter[time.Month]()
	days := newCounter[time.Weekday]()
	hours := newCounter[int]()
	for i := range view.Trips {
		t := &view.Trips[i]
		months.add(t.Month)
		days.add(t.DayOfWeek)
		hours.add(t.Hour)
	}

	month, _, _ := months.mode()
	day, _, _ := days.mode()
	hour, _, _ := hours.mode()
	return &TimeStats{Month: month, Day: day, Hour: hour}, nil
}

// ComputeStations returns the most common start station, end station and
// start/end pair.
func ComputeStations(view *trips.Table) (*StationStats, error) {
	if view.Empty() {
		return nil, trips.ErrNoData
	}

	starts := newCounter[string]()
	ends := newCounter[string]()
	routes := newCounter[Route]()
	for i := range view.Trips {
		t := &view.Trips[i]
		starts.add(t.StartStation)
		ends.add(t.EndStation)
		routes.add(Route{Start: t.StartStation, End: t.EndStation})
	}

	start, _, _ := starts.mode()
	end, _, _ := ends.mode()
	route, _, _ := routes.mode()
	return &StationStats{StartStation: start, EndStation: end, Trip: route}, nil
}

// ComputeDurations returns the total and mean trip duration.
func ComputeDurations(view *trips.Table) (*DurationStats, error) {
	if view.Empty() {
		return nil, trips.ErrNoData
	}

	var total float64
	for i := range view.Trips {
		total += view.Trips[i].Duration
	}

	n := view.Len()
	return &DurationStats{Count: n, Total: total, Mean: total / float64(n)}, nil
}

// ComputeUsers returns user type counts, gender counts and the birth year
// summary for whichever of those columns the dataset carries.
func ComputeUsers(view *trips.Table) (*UserStats, error) {
	if view.Empty() {
		return nil, trips.ErrNoData
	}

	out := &UserStats{Columns: view.Columns}

	if view.Columns.UserType {
		out.UserTypes = valueCounts(view, func(t *trips.Trip) string { return t.UserType })
	}
	if view.Columns.Gender {
		out.Genders = valueCounts(view, func(t *trips.Trip) string { return t.Gender })
	}
	if view.Columns.BirthYear {
		out.BirthYears = birthYears(view)
	}

	return out, nil
}

func valueCounts(view *trips.Table, value func(*trips.Trip) string) []ValueCount {
	c := newCounter[string]()
	for i := range view.Trips {
		v := value(&view.Trips[i])
		if v == "" {
			v = Unknown
		}
		c.add(v)
	}

	out := make([]ValueCount, 0, c.len())
	for _, k := range c.sorted() {
		out = append(out, ValueCount{Value: k, Count: c.counts[k]})
	}
	return out
}

func birthYears(view *trips.Table) *BirthYearSummary {
	c := newCounter[int]()
	var earliest, latest int
	for i := range view.Trips {
		y := view.Trips[i].BirthYear
		if y == 0 {
			continue
		}
		if c.len() == 0 || y < earliest {
			earliest = y
		}
		if c.len() == 0 || y > latest {
			latest = y
		}
		c.add(y)
	}

	common, _, ok := c.mode()
	if !ok {
		return nil
	}
	return &BirthYearSummary{Earliest: earliest, MostRecent: latest, MostCommon: common}
}
