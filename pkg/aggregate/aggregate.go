// Package aggregate computes per-group injury counts and games-missed sums
package aggregate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ethpandaops/injuryboard/pkg/injuries"
	"github.com/ethpandaops/injuryboard/pkg/table"
	"github.com/spf13/cast"
)

// GroupAggregate is one row of a grouped view
type GroupAggregate struct {
	GroupKey       string `json:"group_key"`
	Null           bool   `json:"null,omitempty"`
	InjuryCount    int    `json:"injury_count"`
	GamesMissedSum int64  `json:"games_missed_sum"`
}

// Aggregate groups the rows of t by the column behind dim. Every distinct value,
// null included, gets one GroupAggregate. games_missed cells that are missing or
// not numeric add 0 to the sum. Results are ordered by key with the null group
// last.
func Aggregate(t *table.Table, dim Dimension) ([]GroupAggregate, error) {
	column, err := dim.Column()
	if err != nil {
		return nil, err
	}

	if _, err := t.ColumnIndex(column); err != nil {
		return nil, fmt.Errorf("group by %s: %w", dim, err)
	}

	groups := make(map[string]*GroupAggregate)

	var null *GroupAggregate

	for row := 0; row < t.Len(); row++ {
		var g *GroupAggregate

		key, isNull := groupKey(t.Value(row, column))
		if isNull {
			if null == nil {
				null = &GroupAggregate{Null: true}
			}

			g = null
		} else {
			g = groups[key]
			if g == nil {
				g = &GroupAggregate{GroupKey: key}
				groups[key] = g
			}
		}

		g.InjuryCount++
		g.GamesMissedSum += GamesMissed(t.Value(row, injuries.ColumnGamesMissed))
	}

	out := make([]GroupAggregate, 0, len(groups)+1)
	for _, g := range groups {
		out = append(out, *g)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].GroupKey < out[j].GroupKey
	})

	if null != nil {
		out = append(out, *null)
	}

	return out, nil
}

func groupKey(v interface{}) (string, bool) {
	if v == nil {
		return "", true
	}

	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v), false
	}

	return s, false
}

// GamesMissed coerces a games_missed cell to an integer, 0 when missing or not
// numeric. Strings are read as base 10.
func GamesMissed(v interface{}) int64 {
	switch x := v.(type) {
	case nil, bool:
		return 0
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0
		}

		return n
	}

	n, err := cast.ToInt64E(v)
	if err != nil {
		return 0
	}

	return n
}
