package testutil

import (
	"github.com/ethpandaops/injuryboard/pkg/clickhouse"
)

// InjuriesMeta is the meta block of the injuries join query
func InjuriesMeta() []clickhouse.Column {
	return []clickhouse.Column{
		{Name: "team_name", Type: "String"},
		{Name: "player_name", Type: "Nullable(String)"},
		{Name: "injury", Type: "LowCardinality(String)"},
		{Name: "start_date", Type: "Date"},
		{Name: "end_date", Type: "Date"},
		{Name: "games_missed", Type: "Nullable(Int64)"},
	}
}

// InjuriesData returns a small season of injuries as ClickHouse encodes them in
// JSON output, 64-bit integers quoted. With the default 2024-01-01..2024-02-28
// range the Juventus row is outside the bounds and the Barella row has no Monday
// inside it.
func InjuriesData() []map[string]interface{} {
	return []map[string]interface{}{
		{"team_name": "Inter", "player_name": "Lautaro Martinez", "injury": "Hamstring", "start_date": "2024-01-01", "end_date": "2024-01-21", "games_missed": "3"},
		{"team_name": "Milan", "player_name": "Rafael Leao", "injury": "Knee", "start_date": "2024-01-10", "end_date": "2024-02-05", "games_missed": "4"},
		{"team_name": "National team", "player_name": "Nicolo Barella", "injury": "Knock", "start_date": "2024-02-13", "end_date": "2024-02-15", "games_missed": "1"},
		{"team_name": "Juventus", "player_name": "Federico Chiesa", "injury": "Ankle", "start_date": "2024-01-20", "end_date": "2024-03-10", "games_missed": "6"},
		{"team_name": "Inter", "player_name": "Lautaro Martinez", "injury": "Calf", "start_date": "2024-02-01", "end_date": "2024-02-20", "games_missed": nil},
	}
}

// InjuriesResponse is the canned answer for the injuries join query
func InjuriesResponse() Response {
	return Response{Meta: InjuriesMeta(), Data: InjuriesData()}
}
