// Package session holds the dashboard selection state of each browser session
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ethpandaops/injuryboard/pkg/aggregate"
	"github.com/ethpandaops/injuryboard/pkg/injuries"
	"github.com/ethpandaops/injuryboard/pkg/period"
)

// Static errors
var (
	ErrUnknownGrouping = errors.New("unknown grouping")
	ErrInvalidRange    = errors.New("start date is after end date")
)

// Grouping is the active grouping of the injuries view. At most one grouping is
// active; GroupingNone shows the ungrouped table.
type Grouping string

// Groupings
const (
	GroupingNone   Grouping = "none"
	GroupingTeam   Grouping = "team"
	GroupingPlayer Grouping = "player"
	GroupingInjury Grouping = "injury"
)

// ParseGrouping validates s as a grouping
func ParseGrouping(s string) (Grouping, error) {
	switch g := Grouping(s); g {
	case GroupingNone, GroupingTeam, GroupingPlayer, GroupingInjury:
		return g, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownGrouping, s)
	}
}

// Dimension returns the aggregate dimension of g. ok is false for GroupingNone.
func (g Grouping) Dimension() (aggregate.Dimension, bool) {
	switch g {
	case GroupingTeam:
		return aggregate.DimensionTeam, true
	case GroupingPlayer:
		return aggregate.DimensionPlayer, true
	case GroupingInjury:
		return aggregate.DimensionInjury, true
	default:
		return "", false
	}
}

// Default date range shown by the date pickers
var (
	DefaultStart = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	DefaultEnd   = time.Date(2024, time.February, 28, 0, 0, 0, 0, time.UTC)
)

// Selection is the UI state of one session
type Selection struct {
	Grouping    Grouping
	Granularity period.Granularity
	Start       time.Time
	End         time.Time
}

// DefaultSelection returns the state of a new session
func DefaultSelection() Selection {
	return Selection{
		Grouping:    GroupingNone,
		Granularity: period.Weekly,
		Start:       DefaultStart,
		End:         DefaultEnd,
	}
}

// Toggle switches grouping g on, replacing any other active grouping. Toggling
// the active grouping turns grouping off.
func (s *Selection) Toggle(g Grouping) {
	if g == GroupingNone || s.Grouping == g {
		s.Grouping = GroupingNone
		return
	}

	s.Grouping = g
}

// SetGranularity switches the period view between weekly and monthly
func (s *Selection) SetGranularity(g period.Granularity) error {
	if _, err := period.ParseGranularity(string(g)); err != nil {
		return err
	}

	s.Granularity = g

	return nil
}

// SetRange sets the inclusive date bounds of the period view
func (s *Selection) SetRange(start, end time.Time) error {
	start = injuries.Midnight(start)
	end = injuries.Midnight(end)

	if start.After(end) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidRange, start.Format(injuries.DateLayout), end.Format(injuries.DateLayout))
	}

	s.Start = start
	s.End = end

	return nil
}

// MarshalJSON renders the selection with calendar dates
func (s Selection) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Grouping    Grouping           `json:"grouping"`
		Granularity period.Granularity `json:"granularity"`
		Start       string             `json:"start"`
		End         string             `json:"end"`
	}{
		Grouping:    s.Grouping,
		Granularity: s.Granularity,
		Start:       s.Start.Format(injuries.DateLayout),
		End:         s.End.Format(injuries.DateLayout),
	})
}
