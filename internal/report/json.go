package report

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/runnerr0/bikeshare/internal/stats"
	"github.com/runnerr0/bikeshare/internal/trips"
)

// Document is the machine-readable form of one statistics run.
type Document struct {
	Dataset   string        `json:"dataset"`
	Month     string        `json:"month"`
	Day       string        `json:"day"`
	Trips     int           `json:"trips"`
	Skipped   int           `json:"skipped_rows"`
	NoData    bool          `json:"no_data,omitempty"`
	Time      *timeJSON     `json:"time,omitempty"`
	Stations  *stationsJSON `json:"stations,omitempty"`
	Durations *durationJSON `json:"durations,omitempty"`
	Users     *usersJSON    `json:"users,omitempty"`
}

type timeJSON struct {
	Month string `json:"month"`
	Day   string `json:"day_of_week"`
	Hour  int    `json:"hour"`
}

type stationsJSON struct {
	Start string `json:"start_station"`
	End   string `json:"end_station"`
	Trip  struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"trip"`
}

type durationJSON struct {
	Total float64 `json:"total_seconds"`
	Mean  float64 `json:"mean_seconds"`
}

type usersJSON struct {
	Columns    trips.Columns     `json:"columns"`
	UserTypes  []countJSON       `json:"user_types,omitempty"`
	Genders    []countJSON       `json:"genders,omitempty"`
	BirthYears *birthYearSummary `json:"birth_years,omitempty"`
}

type countJSON struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type birthYearSummary struct {
	Earliest   int `json:"earliest"`
	MostRecent int `json:"most_recent"`
	MostCommon int `json:"most_common"`
}

// Build runs all four aggregations over view. An empty view yields a
// document with NoData set and no sections.
func Build(view *trips.Table, f trips.Filter) (*Document, error) {
	doc := &Document{
		Dataset: view.Dataset,
		Month:   orAll(f.Month),
		Day:     orAll(f.Day),
		Trips:   view.Len(),
		Skipped: view.Skipped,
	}

	ts, err := stats.ComputeTime(view)
	if errors.Is(err, trips.ErrNoData) {
		doc.NoData = true
		return doc, nil
	}
	if err != nil {
		return nil, err
	}
	doc.Time = &timeJSON{Month: ts.Month.String(), Day: ts.Day.String(), Hour: ts.Hour}

	ss, err := stats.ComputeStations(view)
	if err != nil {
		return nil, err
	}
	doc.Stations = &stationsJSON{Start: ss.StartStation, End: ss.EndStation}
	doc.Stations.Trip.Start = ss.Trip.Start
	doc.Stations.Trip.End = ss.Trip.End

	ds, err := stats.ComputeDurations(view)
	if err != nil {
		return nil, err
	}
	doc.Durations = &durationJSON{Total: ds.Total, Mean: ds.Mean}

	us, err := stats.ComputeUsers(view)
	if err != nil {
		return nil, err
	}
	doc.Users = &usersJSON{
		Columns:   us.Columns,
		UserTypes: toCounts(us.UserTypes),
		Genders:   toCounts(us.Genders),
	}
	if by := us.BirthYears; by != nil {
		doc.Users.BirthYears = &birthYearSummary{
			Earliest:   by.Earliest,
			MostRecent: by.MostRecent,
			MostCommon: by.MostCommon,
		}
	}

	return doc, nil
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func toCounts(values []stats.ValueCount) []countJSON {
	if values == nil {
		return nil
	}
	out := make([]countJSON, len(values))
	for i, vc := range values {
		out[i] = countJSON{Value: vc.Value, Count: vc.Count}
	}
	return out
}
