package clickhouse

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the layout ClickHouse uses for Date and Date32 values in JSON output
const DateLayout = "2006-01-02"

// DateTimeLayout is the layout ClickHouse uses for DateTime values in JSON output
const DateTimeLayout = "2006-01-02 15:04:05"

// Column describes a result column as reported in the response meta block
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Rows is a decoded query result. Columns keeps the projection order; each record
// maps a column name to a decoded scalar, nil for SQL NULL.
type Rows struct {
	Columns []Column
	Records []map[string]interface{}
	// RowsRead is the number of rows the server scanned to answer the query
	RowsRead int
}

// ColumnNames returns the column names in projection order
func (r *Rows) ColumnNames() []string {
	if r == nil {
		return nil
	}

	names := make([]string, len(r.Columns))
	for i, col := range r.Columns {
		names[i] = col.Name
	}

	return names
}

// Len returns the number of records
func (r *Rows) Len() int {
	if r == nil {
		return 0
	}

	return len(r.Records)
}

// baseType strips Nullable(...) and LowCardinality(...) wrappers
func baseType(chType string) string {
	t := strings.TrimSpace(chType)

	for {
		switch {
		case strings.HasPrefix(t, "Nullable(") && strings.HasSuffix(t, ")"):
			t = t[len("Nullable(") : len(t)-1]
		case strings.HasPrefix(t, "LowCardinality(") && strings.HasSuffix(t, ")"):
			t = t[len("LowCardinality(") : len(t)-1]
		default:
			return t
		}
	}
}

// decodeValue converts a JSON cell into a Go scalar using the column type.
// Values that do not match the declared type are returned unchanged.
func decodeValue(chType string, raw interface{}) interface{} {
	if raw == nil {
		return nil
	}

	t := baseType(chType)

	switch {
	case t == "Date" || t == "Date32":
		if s, ok := raw.(string); ok {
			if d, err := time.Parse(DateLayout, s); err == nil {
				return d
			}
		}
	case strings.HasPrefix(t, "DateTime"):
		if s, ok := raw.(string); ok {
			if d, err := time.Parse(DateTimeLayout, s); err == nil {
				return d
			}
		}
	case strings.HasPrefix(t, "Int") || strings.HasPrefix(t, "UInt"):
		if n, ok := parseInt(raw); ok {
			return n
		}
	case strings.HasPrefix(t, "Float") || strings.HasPrefix(t, "Decimal"):
		if f, ok := parseFloat(raw); ok {
			return f
		}
	case t == "Bool":
		if b, ok := raw.(bool); ok {
			return b
		}
	}

	if n, ok := raw.(json.Number); ok {
		return n.String()
	}

	return raw
}

// parseInt accepts both quoted (64-bit) and bare integers
func parseInt(raw interface{}) (int64, bool) {
	var s string

	switch v := raw.(type) {
	case json.Number:
		s = v.String()
	case string:
		s = v
	default:
		return 0, false
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}

	return n, true
}

func parseFloat(raw interface{}) (float64, bool) {
	var s string

	switch v := raw.(type) {
	case json.Number:
		s = v.String()
	case string:
		s = v
	default:
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}

	return f, true
}
