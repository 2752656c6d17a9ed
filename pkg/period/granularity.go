package period

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownGranularity is returned for a granularity that is not supported
var ErrUnknownGranularity = errors.New("unknown granularity")

// Granularity is the size of a bucketization period
type Granularity string

// Supported granularities
const (
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
)

// ParseGranularity validates s as a granularity
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(s); g {
	case Weekly, Monthly:
		return g, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownGranularity, s)
	}
}

// Label returns the singular period name used in chart titles
func (g Granularity) Label() string {
	switch g {
	case Monthly:
		return "Month"
	default:
		return "Week"
	}
}

// boundaries returns every period start in [start, end]: Mondays for weekly,
// first days of the month for monthly. An interval without a boundary inside
// it yields nothing.
func (g Granularity) boundaries(start, end time.Time) []time.Time {
	var out []time.Time

	switch g {
	case Weekly:
		offset := (int(time.Monday) - int(start.Weekday()) + 7) % 7
		for d := start.AddDate(0, 0, offset); !d.After(end); d = d.AddDate(0, 0, 7) {
			out = append(out, d)
		}
	case Monthly:
		d := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
		if d.Before(start) {
			d = d.AddDate(0, 1, 0)
		}

		for ; !d.After(end); d = d.AddDate(0, 1, 0) {
			out = append(out, d)
		}
	}

	return out
}
