package trips

import (
	"errors"
	"time"
)

var (
	// ErrDatasetNotFound is returned when a dataset's backing source is
	// missing or unreadable.
	ErrDatasetNotFound = errors.New("dataset not found")

	// ErrNoData marks an empty filtered view. It is a defined outcome,
	// not a failure.
	ErrNoData = errors.New("no data available for the selected filters")
)

// Trip is one row of a dataset plus the attributes derived from its start
// time at load time.
type Trip struct {
	StartTime    time.Time
	EndTime      time.Time // zero when absent or unparsable
	StartStation string
	EndStation   string
	Duration     float64 // seconds
	UserType     string
	Gender       string
	BirthYear    int // 0 when missing

	Month     time.Month
	DayOfWeek time.Weekday
	Hour      int
}

// Columns records which optional attributes a dataset carries. It is a
// property of the dataset, not of individual rows.
type Columns struct {
	UserType  bool `json:"user_type"`
	Gender    bool `json:"gender"`
	BirthYear bool `json:"birth_year"`
}

// Table is an immutable, ordered set of trips loaded from one dataset.
type Table struct {
	Dataset string
	Columns Columns
	Trips   []Trip
	Skipped int // malformed rows dropped during load
}

// Len returns the number of trips in the table.
func (t *Table) Len() int {
	return len(t.Trips)
}

// Empty reports whether the table has no trips.
func (t *Table) Empty() bool {
	return len(t.Trips) == 0
}

// newTrip fills in the derived attributes from start.
func newTrip(start time.Time) Trip {
	return Trip{
		StartTime: start,
		Month:     start.Month(),
		DayOfWeek: start.Weekday(),
		Hour:      start.Hour(),
	}
}

// NewTrip builds a trip and derives month, weekday and hour from start.
func NewTrip(start time.Time, startStation, endStation string, duration float64) Trip {
	t := newTrip(start)
	t.StartStation = startStation
	t.EndStation = endStation
	t.Duration = duration
	return t
}
