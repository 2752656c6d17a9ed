package table

import (
	"fmt"
	"strings"
	"time"
)

// Distinct returns a new table without rows that exactly duplicate an earlier row
// across all columns. Null cells compare equal to each other. Surviving rows keep
// their first-occurrence order.
func (t *Table) Distinct() *Table {
	seen := make(map[string]struct{}, len(t.rows))

	return t.Filter(func(row int) bool {
		key := rowKey(t.rows[row])
		if _, dup := seen[key]; dup {
			return false
		}

		seen[key] = struct{}{}

		return true
	})
}

func rowKey(cells []interface{}) string {
	var b strings.Builder

	// Cell keys are length prefixed
	for _, v := range cells {
		k := cellKey(v)
		fmt.Fprintf(&b, "%d:%s", len(k), k)
	}

	return b.String()
}

// cellKey is type tagged so that 1 and "1" stay distinct
func cellKey(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "\x00"
	case time.Time:
		return "t:" + x.UTC().Format(time.RFC3339Nano)
	case string:
		return "s:" + x
	default:
		return fmt.Sprintf("%T:%v", v, v)
	}
}
