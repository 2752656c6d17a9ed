package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/ethpandaops/injuryboard/pkg/aggregate"
	"github.com/ethpandaops/injuryboard/pkg/dashboard"
	"github.com/ethpandaops/injuryboard/pkg/period"
	"github.com/ethpandaops/injuryboard/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintTable(t *testing.T) {
	tbl := table.Materialize([]table.Record{
		{"team_name": "Inter", "start_date": time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "games_missed": int64(3)},
		{"team_name": "Milan", "start_date": time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), "games_missed": nil},
	}, "team_name", "start_date", "games_missed")

	var buf bytes.Buffer
	printTable(&buf, tbl)

	assert.Equal(t, ""+
		"TEAM_NAME  START_DATE  GAMES_MISSED\n"+
		"Inter      2024-01-01  3\n"+
		"Milan      2024-01-10  null\n"+
		"\n2 rows\n", buf.String())
}

func TestPrintGroups(t *testing.T) {
	var buf bytes.Buffer
	printGroups(&buf, []aggregate.GroupAggregate{
		{GroupKey: "Knee", InjuryCount: 2, GamesMissedSum: 7},
		{Null: true, InjuryCount: 1, GamesMissedSum: 0},
	})

	assert.Equal(t, ""+
		"GROUP  INJURIES  GAMES MISSED\n"+
		"Knee   2         7\n"+
		"null   1         0\n", buf.String())
}

func TestPrintPeriods(t *testing.T) {
	var buf bytes.Buffer
	printPeriods(&buf, &dashboard.PeriodView{
		Chart: dashboard.PeriodChart(period.Weekly),
		Counts: []period.PeriodCount{
			{PeriodStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), InjuryCount: 1},
			{PeriodStart: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), InjuryCount: 12},
		},
	})

	assert.Equal(t, ""+
		"WEEK STARTING  INJURIES\n"+
		"2024-01-01     1\n"+
		"2024-01-08     12\n", buf.String())

	buf.Reset()
	printPeriods(&buf, &dashboard.PeriodView{Empty: true, Message: dashboard.NoDataMessage})
	assert.Equal(t, "No data for this selection\n", buf.String())
}

func TestPeriodSelection(t *testing.T) {
	sel, err := periodSelection("monthly", "2024-01-01", "2024-03-31")
	require.NoError(t, err)
	assert.Equal(t, period.Monthly, sel.Granularity)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), sel.End)

	_, err = periodSelection("daily", "2024-01-01", "2024-03-31")
	assert.ErrorIs(t, err, period.ErrUnknownGranularity)

	_, err = periodSelection("weekly", "2024-01-01", "March")
	assert.Error(t, err)

	_, err = periodSelection("weekly", "2024-03-01", "2024-01-01")
	assert.Error(t, err)
}

func TestQueryCmd_GroupByUsageListsDimensions(t *testing.T) {
	assert.Equal(t, "team, player, injury", dimensionNames())

	flag := queryCmd.Flags().Lookup("group-by")
	require.NotNil(t, flag)
	assert.Contains(t, flag.Usage, "team, player, injury")
}
