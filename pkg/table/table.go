// Package table materializes warehouse rows into an in-memory table with typed columns
package table

import (
	"errors"
	"fmt"
	"time"
)

// ErrColumnNotFound is returned when a column lookup fails
var ErrColumnNotFound = errors.New("column not found")

// Record maps a column name to a scalar. A missing key and a nil value both
// mean null.
type Record = map[string]interface{}

// Kind is the inferred type of a column
type Kind string

// Column kinds
const (
	KindNull      Kind = "null"
	KindString    Kind = "string"
	KindInt       Kind = "int"
	KindFloat     Kind = "float"
	KindBool      Kind = "bool"
	KindDate      Kind = "date"
	KindTimestamp Kind = "timestamp"
	KindMixed     Kind = "mixed"
)

// Column describes one table column
type Column struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// Table is a row-major table. A nil cell is the null marker.
type Table struct {
	columns []Column
	index   map[string]int
	rows    [][]interface{}
}

// Columns returns the column descriptors in order
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.columns))
	copy(out, t.columns)

	return out
}

// ColumnNames returns the column names in order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}

	return names
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// Empty reports whether the table has no rows
func (t *Table) Empty() bool {
	return len(t.rows) == 0
}

// ColumnIndex returns the position of name
func (t *Table) ColumnIndex(name string) (int, error) {
	i, ok := t.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}

	return i, nil
}

// HasColumn reports whether the table carries name
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Value returns the cell at row for column name, nil when null or unknown
func (t *Table) Value(row int, name string) interface{} {
	i, ok := t.index[name]
	if !ok || row < 0 || row >= len(t.rows) {
		return nil
	}

	return t.rows[row][i]
}

// Row returns a copy of the cells of row in column order
func (t *Table) Row(row int) []interface{} {
	out := make([]interface{}, len(t.columns))
	copy(out, t.rows[row])

	return out
}

// Rows returns a copy of all cells in row-major order
func (t *Table) Rows() [][]interface{} {
	out := make([][]interface{}, len(t.rows))
	for i := range t.rows {
		out[i] = t.Row(i)
	}

	return out
}

// Records converts the table back into records. Every column is present in every
// record, nil for null cells, so that Materialize(t.Records(), t.ColumnNames()...)
// rebuilds an identical table.
func (t *Table) Records() []Record {
	out := make([]Record, len(t.rows))

	for r, cells := range t.rows {
		rec := make(Record, len(t.columns))
		for i, col := range t.columns {
			rec[col.Name] = cells[i]
		}

		out[r] = rec
	}

	return out
}

// Filter returns a new table holding the rows for which keep returns true
func (t *Table) Filter(keep func(row int) bool) *Table {
	out := &Table{
		columns: t.Columns(),
		index:   t.index,
		rows:    make([][]interface{}, 0, len(t.rows)),
	}

	for r := range t.rows {
		if keep(r) {
			out.rows = append(out.rows, t.Row(r))
		}
	}

	return out
}

// kindOf classifies a single non-nil scalar
func kindOf(v interface{}) Kind {
	switch x := v.(type) {
	case nil:
		return KindNull
	case string:
		return KindString
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindInt
	case float32, float64:
		return KindFloat
	case bool:
		return KindBool
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return KindDate
		}

		return KindTimestamp
	default:
		return KindMixed
	}
}

// mergeKind widens a column kind with the kind of one more cell
func mergeKind(current, next Kind) Kind {
	switch {
	case next == KindNull:
		return current
	case current == KindNull:
		return next
	case current == next:
		return current
	case (current == KindInt && next == KindFloat) || (current == KindFloat && next == KindInt):
		return KindFloat
	case (current == KindDate && next == KindTimestamp) || (current == KindTimestamp && next == KindDate):
		return KindTimestamp
	default:
		return KindMixed
	}
}
