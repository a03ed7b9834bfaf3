// Package dataset holds the columnar offer table, its snapshot store and
// the incremental merge engine.
package dataset

// Table is an ordered-column, string-valued table. Columns absent when a
// row is appended are filled with the empty string, the table's null
// marker.
type Table struct {
	Columns []string
	Rows    [][]string

	index map[string]int
}

// NewTable creates an empty table with the given columns.
func NewTable(columns []string) *Table {
	t := &Table{Columns: append([]string{}, columns...)}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		t.index[c] = i
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Append adds a row given as column->value; unknown columns are ignored,
// missing ones filled with the null marker.
func (t *Table) Append(row map[string]string) {
	r := make([]string, len(t.Columns))
	for col, val := range row {
		if i, ok := t.index[col]; ok {
			r[i] = val
		}
	}
	t.Rows = append(t.Rows, r)
}

// Get returns the value at row i for col, or the null marker for columns
// the table does not carry.
func (t *Table) Get(i int, col string) string {
	j, ok := t.index[col]
	if !ok {
		return ""
	}
	return t.Rows[i][j]
}

// row returns row i as a column->value map.
func (t *Table) row(i int) map[string]string {
	m := make(map[string]string, len(t.Columns))
	for j, c := range t.Columns {
		m[c] = t.Rows[i][j]
	}
	return m
}

// unionColumns returns the union of both tables' columns in first-seen
// order: the master's layout stays put, extra historical columns survive
// a merge appended after it.
func unionColumns(a, b *Table) []string {
	seen := map[string]struct{}{}
	var cols []string
	for _, t := range []*Table{a, b} {
		if t == nil {
			continue
		}
		for _, c := range t.Columns {
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				cols = append(cols, c)
			}
		}
	}
	return cols
}
