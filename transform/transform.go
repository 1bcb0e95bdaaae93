// Package transform validates query results and turns them into calendar records.
package transform

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/stsysd/calheat/logging"
	"github.com/stsysd/calheat/model"
)

const (
	minYear = 1
	maxYear = 9999
)

// epoch milliseconds accepted as dates, years 1 to 9999 in UTC
var (
	minEpochMillis = float64(time.Date(minYear, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli())
	maxEpochMillis = float64(time.Date(maxYear+1, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli() - 1)
)

// Validate checks that the query result can be drawn as a calendar.
// The checks run in a fixed order and the first failure is returned.
func Validate(qr *model.QueryResponse, rows []model.Row) error {
	if qr == nil || len(qr.Fields.MeasureLike) == 0 {
		return model.ErrNoMeasures
	}
	if len(qr.Fields.DimensionLike) == 0 {
		return model.ErrNoDimensions
	}
	if len(rows) == 0 {
		return model.ErrNoResults
	}
	return nil
}

// Transform extracts the first dimension/measure pair from rows and returns
// one Datum per row whose dimension value resolves to a calendar day in loc.
// Rows with a null or unparseable date are skipped. The result is sorted by date.
func Transform(qr *model.QueryResponse, rows []model.Row, loc *time.Location) ([]model.Datum, error) {
	if err := Validate(qr, rows); err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.UTC
	}

	dim := qr.Fields.DimensionLike[0].Name
	meas := qr.Fields.MeasureLike[0].Name

	data := make([]model.Datum, 0, len(rows))
	skipped := 0
	for i, row := range rows {
		cell, ok := row[dim]
		if !ok || cell.IsNull() {
			skipped++
			continue
		}
		date, err := ParseDate(cell.Value, loc)
		if err != nil {
			logging.Debug("skipping row with unparseable date", "row", i, "field", dim, "err", err)
			skipped++
			continue
		}
		data = append(data, model.Datum{
			Date:      date,
			Dimension: cell,
			Measure:   row[meas],
		})
	}

	if skipped > 0 {
		logging.Debug("rows skipped during transform", "skipped", skipped, "total", len(rows))
	}
	if len(data) == 0 {
		return nil, model.ErrInsufficientData
	}

	sort.SliceStable(data, func(i, j int) bool {
		return data[i].Date.Before(data[j].Date)
	})
	return data, nil
}

// ParseDate coerces a dimension value to midnight of its calendar day in loc.
// Strings go through a lenient date parser; numbers are Unix epoch milliseconds.
func ParseDate(v any, loc *time.Location) (time.Time, error) {
	var t time.Time
	switch value := v.(type) {
	case time.Time:
		t = value
	case string:
		s := strings.TrimSpace(value)
		if s == "" {
			return time.Time{}, fmt.Errorf("empty date")
		}
		parsed, err := dateparse.ParseIn(s, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date %q: %w", s, err)
		}
		t = parsed
	default:
		ms, ok := model.Cell{Value: v}.Float()
		if !ok || math.IsNaN(ms) || math.IsInf(ms, 0) {
			return time.Time{}, fmt.Errorf("unsupported date value %v (%T)", v, v)
		}
		// out of range values would overflow int64
		if ms < minEpochMillis || ms > maxEpochMillis {
			return time.Time{}, fmt.Errorf("epoch milliseconds %v out of range", v)
		}
		t = time.UnixMilli(int64(ms))
	}

	y, m, d := t.In(loc).Date()
	if y < minYear || y > maxYear {
		return time.Time{}, fmt.Errorf("year %d out of range [%d, %d]", y, minYear, maxYear)
	}
	return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
}
