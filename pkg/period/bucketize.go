// Package period counts injuries per calendar week or month
package period

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ethpandaops/injuryboard/pkg/injuries"
	"github.com/ethpandaops/injuryboard/pkg/table"
)

// Static errors
var (
	// ErrEmptyResult is returned when no row falls inside the requested bounds.
	// It is not a failure: callers show a "no data" message instead of a chart.
	ErrEmptyResult = errors.New("no data for this selection")
	// ErrInvalidBounds is returned when the start bound is after the end bound
	ErrInvalidBounds = errors.New("start bound is after end bound")
)

// PeriodCount is the number of injuries running during one period
type PeriodCount struct {
	PeriodStart time.Time `json:"period_start_date"`
	InjuryCount int       `json:"injury_count"`
}

// MarshalJSON renders the period start as a calendar date
func (p PeriodCount) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		PeriodStart string `json:"period_start_date"`
		InjuryCount int    `json:"injury_count"`
	}{
		PeriodStart: p.PeriodStart.Format(injuries.DateLayout),
		InjuryCount: p.InjuryCount,
	})
}

// Bucketize counts, per period start, the injuries of t that lie entirely inside
// [startBound, endBound]. Rows that only overlap the bounds are dropped, as are
// rows without a readable start or end date. Each kept row adds one to every
// period boundary within its own [start_date, end_date]; a row with no boundary
// inside contributes nothing. Counts come back in chronological order.
//
// ErrEmptyResult is returned when no row survives the filter. A non-empty
// filter with no boundaries returns an empty slice and no error.
func Bucketize(t *table.Table, startBound, endBound time.Time, g Granularity) ([]PeriodCount, error) {
	if _, err := ParseGranularity(string(g)); err != nil {
		return nil, err
	}

	startBound = injuries.Midnight(startBound)
	endBound = injuries.Midnight(endBound)

	if startBound.After(endBound) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidBounds, startBound.Format(injuries.DateLayout), endBound.Format(injuries.DateLayout))
	}

	for _, column := range []string{injuries.ColumnStartDate, injuries.ColumnEndDate} {
		if !t.HasColumn(column) {
			return nil, fmt.Errorf("bucketize: %w: %s", table.ErrColumnNotFound, column)
		}
	}

	counts := make(map[int64]int)
	kept := 0

	for row := 0; row < t.Len(); row++ {
		start, ok := injuries.Date(t.Value(row, injuries.ColumnStartDate))
		if !ok {
			continue
		}

		end, ok := injuries.Date(t.Value(row, injuries.ColumnEndDate))
		if !ok {
			continue
		}

		if start.Before(startBound) || end.After(endBound) {
			continue
		}

		kept++

		for _, boundary := range g.boundaries(start, end) {
			counts[boundary.Unix()]++
		}
	}

	if kept == 0 {
		return nil, ErrEmptyResult
	}

	out := make([]PeriodCount, 0, len(counts))
	for unix, n := range counts {
		out = append(out, PeriodCount{
			PeriodStart: time.Unix(unix, 0).UTC(),
			InjuryCount: n,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].PeriodStart.Before(out[j].PeriodStart)
	})

	return out, nil
}
