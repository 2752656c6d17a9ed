// Package injuries defines the injury dataset: its columns, date cells and the
// fixed warehouse queries.
package injuries

import (
	"time"
)

// Column names projected by the injuries queries
const (
	ColumnTeamName    = "team_name"
	ColumnPlayerName  = "player_name"
	ColumnPlayerID    = "player_id"
	ColumnInjury      = "injury"
	ColumnStartDate   = "start_date"
	ColumnEndDate     = "end_date"
	ColumnGamesMissed = "games_missed"
)

// NationalTeam is substituted by the queries for injuries without a club team.
// It also covers genuine national-team injuries; the two are not told apart.
const NationalTeam = "National team"

// DateLayout is the calendar date layout used across the dashboard
const DateLayout = "2006-01-02"

// Date reads a date cell, accepting time values and YYYY-MM-DD strings. The
// result is truncated to midnight UTC.
func Date(v interface{}) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return Midnight(x), true
	case string:
		d, err := time.Parse(DateLayout, x)
		if err != nil {
			return time.Time{}, false
		}

		return d, true
	default:
		return time.Time{}, false
	}
}

// Midnight truncates t to its calendar date at midnight UTC
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
