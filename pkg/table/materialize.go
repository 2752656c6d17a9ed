package table

import (
	"sort"
)

// Materialize builds a table from records. Columns named in order come first;
// keys not named there are appended in sorted order as they are first met. A key
// missing from a record yields a null cell. Rows are not rewritten: the same
// input always produces the same table.
func Materialize(records []Record, order ...string) *Table {
	t := &Table{
		index: make(map[string]int, len(order)),
		rows:  make([][]interface{}, 0, len(records)),
	}

	for _, name := range order {
		t.addColumn(name)
	}

	for _, rec := range records {
		extra := make([]string, 0)

		for name := range rec {
			if _, ok := t.index[name]; !ok {
				extra = append(extra, name)
			}
		}

		sort.Strings(extra)

		for _, name := range extra {
			t.addColumn(name)
		}
	}

	for _, rec := range records {
		cells := make([]interface{}, len(t.columns))
		for name, v := range rec {
			cells[t.index[name]] = v
		}

		t.rows = append(t.rows, cells)
	}

	t.inferKinds()

	return t
}

func (t *Table) addColumn(name string) {
	if _, ok := t.index[name]; ok {
		return
	}

	t.index[name] = len(t.columns)
	t.columns = append(t.columns, Column{Name: name, Kind: KindNull})
}

func (t *Table) inferKinds() {
	for i := range t.columns {
		kind := KindNull
		for _, cells := range t.rows {
			kind = mergeKind(kind, kindOf(cells[i]))
		}

		t.columns[i].Kind = kind
	}
}
