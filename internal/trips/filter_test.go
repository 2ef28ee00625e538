package trips

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("  March ")
	require.NoError(t, err)
	assert.Equal(t, "march", m)

	m, err = ParseMonth("ALL")
	require.NoError(t, err)
	assert.Equal(t, All, m)

	for _, bad := range []string{"july", "december", "", "3", "marchh"} {
		_, err := ParseMonth(bad)
		assert.ErrorIs(t, err, ErrInvalidSelection, "month %q", bad)
	}
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("FRIDAY")
	require.NoError(t, err)
	assert.Equal(t, "friday", d)

	d, err = ParseDay(" all")
	require.NoError(t, err)
	assert.Equal(t, All, d)

	for _, bad := range []string{"fri", "", "someday"} {
		_, err := ParseDay(bad)
		assert.ErrorIs(t, err, ErrInvalidSelection, "day %q", bad)
	}
}

func TestApply_AllAllKeepsEveryTrip(t *testing.T) {
	table := readFixture(t, "chicago")

	view, err := table.Apply(Filter{Month: All, Day: All})
	require.NoError(t, err)
	assert.Equal(t, table.Len(), view.Len())
	assert.Equal(t, table.Trips, view.Trips)

	// Zero-value filter behaves the same
	view, err = table.Apply(Filter{})
	require.NoError(t, err)
	assert.Equal(t, table.Len(), view.Len())
}

func TestApply_MonthAndDay(t *testing.T) {
	table := readFixture(t, "chicago")

	view, err := table.Apply(Filter{Month: "March", Day: "friday"})
	require.NoError(t, err)
	require.Equal(t, 1, view.Len())
	assert.Equal(t, 450.0, view.Trips[0].Duration)

	view, err = table.Apply(Filter{Month: All, Day: "Monday"})
	require.NoError(t, err)
	assert.Equal(t, 3, view.Len())

	view, err = table.Apply(Filter{Month: "april", Day: All})
	require.NoError(t, err)
	assert.True(t, view.Empty())
	assert.Equal(t, table.Columns, view.Columns, "columns survive filtering")
}

func TestApply_RejectsInvalidFilter(t *testing.T) {
	table := readFixture(t, "chicago")

	_, err := table.Apply(Filter{Month: "july"})
	assert.ErrorIs(t, err, ErrInvalidSelection)
}

func TestApply_DoesNotMutateTable(t *testing.T) {
	table := readFixture(t, "chicago")
	before := append([]Trip(nil), table.Trips...)

	_, err := table.Apply(Filter{Month: "january", Day: "monday"})
	require.NoError(t, err)
	assert.Equal(t, before, table.Trips)
}

func TestApply_ViewMatchesSelection(t *testing.T) {
	table := readFixture(t, "chicago")

	months := append([]string{All}, Months...)
	days := append([]string{All}, Days...)

	for _, month := range months {
		for _, day := range days {
			view, err := table.Apply(Filter{Month: month, Day: day})
			require.NoError(t, err)

			expected := 0
			for _, trip := range table.Trips {
				if matches(trip, month, day) {
					expected++
				}
			}
			assert.Equal(t, expected, view.Len(), "month=%s day=%s", month, day)

			for _, trip := range view.Trips {
				assert.True(t, matches(trip, month, day), "month=%s day=%s kept %v", month, day, trip.StartTime)
			}
		}
	}
}

func TestApply_FiltersCommute(t *testing.T) {
	table := readFixture(t, "chicago")

	for _, month := range Months {
		for _, day := range Days {
			both, err := table.Apply(Filter{Month: month, Day: day})
			require.NoError(t, err)

			byMonth, err := table.FilterMonth(month)
			require.NoError(t, err)
			monthThenDay, err := byMonth.FilterDay(day)
			require.NoError(t, err)

			byDay, err := table.FilterDay(day)
			require.NoError(t, err)
			dayThenMonth, err := byDay.FilterMonth(month)
			require.NoError(t, err)

			assert.Equal(t, both.Trips, monthThenDay.Trips, "month=%s day=%s", month, day)
			assert.Equal(t, both.Trips, dayThenMonth.Trips, "month=%s day=%s", month, day)
		}
	}
}

func TestNewTripDerivesAttributes(t *testing.T) {
	start := time.Date(2017, 5, 20, 23, 59, 0, 0, time.UTC)
	trip := NewTrip(start, "A", "B", 42)

	assert.Equal(t, time.May, trip.Month)
	assert.Equal(t, time.Saturday, trip.DayOfWeek)
	assert.Equal(t, 23, trip.Hour)
}

func matches(trip Trip, month, day string) bool {
	if month != All && Months[trip.Month-1] != month {
		return false
	}
	if day != All && strings.ToLower(trip.DayOfWeek.String()) != day {
		return false
	}
	return true
}
