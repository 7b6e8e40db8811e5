// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package categories

import "fmt"

// Table is an in-memory, column-ordered snapshot of loaded records. Cells are
// strings; NULL loads as the empty string.
type Table struct {
	columns []string
	rows    [][]string
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Column returns a copy of the named column's values.
func (t *Table) Column(name string) ([]string, bool) {
	idx := t.index(name)
	if idx < 0 {
		return nil, false
	}
	values := make([]string, len(t.rows))
	for i, row := range t.rows {
		values[i] = row[idx]
	}
	return values, true
}

// SetColumn replaces the named column or appends it when absent.
func (t *Table) SetColumn(name string, values []string) error {
	if len(values) != len(t.rows) {
		return fmt.Errorf("column %q has %d values for %d rows", name, len(values), len(t.rows))
	}
	idx := t.index(name)
	if idx < 0 {
		t.columns = append(t.columns, name)
		for i := range t.rows {
			t.rows[i] = append(t.rows[i], values[i])
		}
		return nil
	}
	for i := range t.rows {
		t.rows[i][idx] = values[i]
	}
	return nil
}

func (t *Table) index(name string) int {
	for i, c := range t.columns {
		if c == name {
			return i
		}
	}
	return -1
}
