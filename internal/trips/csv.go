package trips

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/runnerr0/bikeshare/internal/logging"
)

// Column headers of the bikeshare exports.
const (
	HeaderStartTime    = "Start Time"
	HeaderEndTime      = "End Time"
	HeaderDuration     = "Trip Duration"
	HeaderStartStation = "Start Station"
	HeaderEndStation   = "End Station"
	HeaderUserType     = "User Type"
	HeaderGender       = "Gender"
	HeaderBirthYear    = "Birth Year"
)

// timeLayouts are tried in order when parsing timestamps.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

// ParseTime parses a trip timestamp in any of the accepted layouts.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp: %q", s)
}

// CSVReader reads datasets stored as CSV files.
type CSVReader struct {
	Log logging.Logger
}

// Read opens path and decodes it as a trip table. The file is closed before
// Read returns.
func (r CSVReader) Read(ctx context.Context, path, dataset string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadCSV(ctx, file, dataset, r.Log)
}

// columnIndex maps header names to field positions; -1 means absent.
type columnIndex struct {
	start, end, duration, startStation, endStation int
	userType, gender, birthYear                    int
}

func indexHeader(header []string) (columnIndex, error) {
	idx := columnIndex{-1, -1, -1, -1, -1, -1, -1, -1}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		switch {
		case strings.EqualFold(h, HeaderStartTime):
			idx.start = i
		case strings.EqualFold(h, HeaderEndTime):
			idx.end = i
		case strings.EqualFold(h, HeaderDuration):
			idx.duration = i
		case strings.EqualFold(h, HeaderStartStation):
			idx.startStation = i
		case strings.EqualFold(h, HeaderEndStation):
			idx.endStation = i
		case strings.EqualFold(h, HeaderUserType):
			idx.userType = i
		case strings.EqualFold(h, HeaderGender):
			idx.gender = i
		case strings.EqualFold(h, HeaderBirthYear):
			idx.birthYear = i
		}
	}

	required := []struct {
		name string
		pos  int
	}{
		{HeaderStartTime, idx.start},
		{HeaderDuration, idx.duration},
		{HeaderStartStation, idx.startStation},
		{HeaderEndStation, idx.endStation},
	}
	var missing []string
	for _, col := range required {
		if col.pos < 0 {
			missing = append(missing, col.name)
		}
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	return idx, nil
}

// ReadCSV decodes a bikeshare CSV export. Rows whose start time or trip
// duration cannot be parsed are skipped, logged and counted in
// Table.Skipped. A header without the required columns is an error.
func ReadCSV(ctx context.Context, r io.Reader, dataset string, log logging.Logger) (*Table, error) {
	if log == nil {
		log = logging.Nop()
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty dataset: no header row")
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	idx, err := indexHeader(header)
	if err != nil {
		return nil, err
	}

	table := &Table{
		Dataset: dataset,
		Columns: Columns{
			UserType:  idx.userType >= 0,
			Gender:    idx.gender >= 0,
			BirthYear: idx.birthYear >= 0,
		},
	}

	line := 1
	for {
		line++
		if line%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				log.Warn("skipping malformed row %d: %v", line, err)
				table.Skipped++
				continue
			}
			return nil, fmt.Errorf("reading row %d: %w", line, err)
		}

		trip, err := idx.decode(record)
		if err != nil {
			log.Warn("skipping row %d: %v", line, err)
			table.Skipped++
			continue
		}
		table.Trips = append(table.Trips, trip)
	}

	if table.Skipped > 0 {
		log.Warn("dataset %s: skipped %d malformed rows", dataset, table.Skipped)
	}

	return table, nil
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func (idx columnIndex) decode(record []string) (Trip, error) {
	start, err := ParseTime(field(record, idx.start))
	if err != nil {
		return Trip{}, err
	}

	durStr := field(record, idx.duration)
	duration, err := strconv.ParseFloat(durStr, 64)
	if err != nil || math.IsNaN(duration) || math.IsInf(duration, 0) || duration < 0 {
		return Trip{}, fmt.Errorf("invalid trip duration %q", durStr)
	}

	trip := NewTrip(start, field(record, idx.startStation), field(record, idx.endStation), duration)

	if end, err := ParseTime(field(record, idx.end)); err == nil {
		trip.EndTime = end
	}
	trip.UserType = field(record, idx.userType)
	trip.Gender = field(record, idx.gender)
	trip.BirthYear = parseYear(field(record, idx.birthYear))

	return trip, nil
}

// parseYear accepts "1989" and the float form "1989.0" found in the exports.
// Blank or unparsable values yield 0.
func parseYear(s string) int {
	if s == "" {
		return 0
	}
	if y, err := strconv.Atoi(s); err == nil {
		return y
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}
