package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMaterialize_ColumnOrder(t *testing.T) {
	records := []Record{
		{"b": 1, "a": "x"},
		{"c": true, "a": "y"},
	}

	tbl := Materialize(records, "a")

	assert.Equal(t, []string{"a", "b", "c"}, tbl.ColumnNames())
	assert.Equal(t, 2, tbl.Len())
}

func TestMaterialize_MissingKeysAreNull(t *testing.T) {
	records := []Record{
		{"team_name": "Inter", "games_missed": int64(3)},
		{"team_name": "Milan"},
	}

	tbl := Materialize(records, "team_name", "games_missed")

	assert.Equal(t, int64(3), tbl.Value(0, "games_missed"))
	assert.Nil(t, tbl.Value(1, "games_missed"))
	assert.Nil(t, tbl.Value(0, "unknown"))
	assert.Nil(t, tbl.Value(5, "team_name"))
}

func TestMaterialize_Kinds(t *testing.T) {
	records := []Record{
		{"s": "a", "i": int64(1), "f": 1.5, "n": nil, "d": date(2024, 1, 1), "ts": date(2024, 1, 1), "m": "x", "if": int64(2), "bl": true},
		{"s": "b", "i": int64(2), "f": 2.5, "n": nil, "d": date(2024, 1, 2), "ts": time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), "m": int64(1), "if": 2.5},
	}

	tbl := Materialize(records)

	kinds := map[string]Kind{}
	for _, col := range tbl.Columns() {
		kinds[col.Name] = col.Kind
	}

	assert.Equal(t, map[string]Kind{
		"s":  KindString,
		"i":  KindInt,
		"f":  KindFloat,
		"n":  KindNull,
		"d":  KindDate,
		"ts": KindTimestamp,
		"m":  KindMixed,
		"if": KindFloat,
		"bl": KindBool,
	}, kinds)
}

func TestMaterialize_Idempotent(t *testing.T) {
	records := []Record{
		{"team_name": "Inter", "player_name": "Lautaro", "start_date": date(2024, 1, 1), "games_missed": int64(2)},
		{"team_name": nil, "player_name": "Barella", "start_date": date(2024, 2, 1)},
		{"player_name": "Dimarco", "extra": "x"},
	}

	first := Materialize(records, "team_name", "player_name")
	second := Materialize(first.Records(), first.ColumnNames()...)

	assert.Equal(t, first, second)
	assert.Equal(t, first, Materialize(records, "team_name", "player_name"))
}

func TestMaterialize_Empty(t *testing.T) {
	tbl := Materialize(nil, "a", "b")

	assert.True(t, tbl.Empty())
	assert.Equal(t, []string{"a", "b"}, tbl.ColumnNames())
	assert.Empty(t, tbl.Records())
}

func TestTable_ColumnIndex(t *testing.T) {
	tbl := Materialize([]Record{{"a": 1}}, "a")

	i, err := tbl.ColumnIndex("a")
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	_, err = tbl.ColumnIndex("b")
	assert.ErrorIs(t, err, ErrColumnNotFound)
	assert.True(t, tbl.HasColumn("a"))
	assert.False(t, tbl.HasColumn("b"))
}

func TestTable_RowCopies(t *testing.T) {
	tbl := Materialize([]Record{{"a": 1}}, "a")

	row := tbl.Row(0)
	row[0] = 2

	assert.Equal(t, 1, tbl.Value(0, "a"))
}

func TestTable_Distinct(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
		want    [][]interface{}
	}{
		{
			name: "exact duplicates removed in first-occurrence order",
			records: []Record{
				{"A": 1, "B": 2},
				{"A": 1, "B": 2},
				{"A": 3, "B": 4},
			},
			want: [][]interface{}{{1, 2}, {3, 4}},
		},
		{
			name: "nulls compare equal",
			records: []Record{
				{"A": nil, "B": 2},
				{"B": 2},
				{"A": 1, "B": 2},
			},
			want: [][]interface{}{{nil, 2}, {1, 2}},
		},
		{
			name: "values of different types stay distinct",
			records: []Record{
				{"A": 1, "B": "1"},
				{"A": "1", "B": 1},
			},
			want: [][]interface{}{{1, "1"}, {"1", 1}},
		},
		{
			name: "dates compare by instant",
			records: []Record{
				{"A": date(2024, 1, 1), "B": 1},
				{"A": date(2024, 1, 1), "B": 1},
				{"A": date(2024, 1, 2), "B": 1},
			},
			want: [][]interface{}{{date(2024, 1, 1), 1}, {date(2024, 1, 2), 1}},
		},
		{
			name: "separator bytes inside cells do not merge rows",
			records: []Record{
				{"A": "x\x1fs:y", "B": "z"},
				{"A": "x", "B": "y\x1fs:z"},
			},
			want: [][]interface{}{{"x\x1fs:y", "z"}, {"x", "y\x1fs:z"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := Materialize(tt.records, "A", "B")
			distinct := tbl.Distinct()

			assert.Equal(t, tt.want, distinct.Rows())
			assert.Equal(t, len(tt.records), tbl.Len(), "source table must not change")
		})
	}
}

func TestTable_Filter(t *testing.T) {
	tbl := Materialize([]Record{{"a": 1}, {"a": 2}, {"a": 3}}, "a")

	odd := tbl.Filter(func(row int) bool {
		v, _ := tbl.Value(row, "a").(int)
		return v%2 == 1
	})

	assert.Equal(t, [][]interface{}{{1}, {3}}, odd.Rows())
	assert.Equal(t, tbl.ColumnNames(), odd.ColumnNames())
}
