package models

import (
	"fmt"
	"strings"

	"github.com/ukaji3/evalsheet-go/pkg/evalsheet"
)

// Column is a named, ordered sequence of values.
type Column struct {
	// Name is the header text of the column.
	Name string `json:"name"`
	// Values holds one value per row.
	Values []Value `json:"values"`
}

// Table is an ordered set of equally long columns.
type Table struct {
	// Name identifies where the table came from (usually a file name).
	Name string `json:"name"`
	// Columns holds the table data in header order.
	Columns []Column `json:"columns"`
}

// NewTable builds a table from a header and row-major records.
// Short records are padded with missing values.
func NewTable(name string, header []string, records [][]Value) *Table {
	t := &Table{Name: name, Columns: make([]Column, len(header))}
	for i, h := range header {
		t.Columns[i] = Column{Name: h, Values: make([]Value, len(records))}
	}
	for r, rec := range records {
		for c := range t.Columns {
			if c < len(rec) {
				t.Columns[c].Values[r] = rec[c]
			}
		}
	}
	return t
}

// NumRows returns the number of rows in the table.
func (t *Table) NumRows() int {
	if t == nil || len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Values)
}

// Header returns the column names in order.
func (t *Table) Header() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, c := range t.Columns {
		if c.Name == name {
			return i, true
		}
	}
	return -1, false
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.ColumnIndex(name)
	return ok
}

// Column returns the named column.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.ColumnIndex(name)
	if !ok {
		return Column{}, false
	}
	return t.Columns[i], true
}

// Row returns row i as a map from column name to value.
func (t *Table) Row(i int) map[string]Value {
	row := make(map[string]Value, len(t.Columns))
	for _, c := range t.Columns {
		row[c.Name] = c.Values[i]
	}
	return row
}

// Record returns row i in column order.
func (t *Table) Record(i int) []Value {
	rec := make([]Value, len(t.Columns))
	for c, col := range t.Columns {
		rec[c] = col.Values[i]
	}
	return rec
}

// Head returns a copy holding at most the first n rows.
func (t *Table) Head(n int) *Table {
	if n < 0 || n > t.NumRows() {
		n = t.NumRows()
	}
	out := &Table{Name: t.Name, Columns: make([]Column, len(t.Columns))}
	for i, c := range t.Columns {
		vals := make([]Value, n)
		copy(vals, c.Values[:n])
		out.Columns[i] = Column{Name: c.Name, Values: vals}
	}
	return out
}

// Validate checks the table invariants: unique non-empty column names and equal column lengths.
func (t *Table) Validate() error {
	if t == nil {
		return evalsheet.NewMalformedTableError("", "table is nil")
	}
	seen := make(map[string]bool, len(t.Columns))
	rows := t.NumRows()
	for i, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return evalsheet.NewMalformedTableError(t.Name, fmt.Sprintf("column %d has no name", i+1))
		}
		if seen[c.Name] {
			return evalsheet.NewMalformedTableError(t.Name, fmt.Sprintf("duplicate column %q", c.Name))
		}
		seen[c.Name] = true
		if len(c.Values) != rows {
			return evalsheet.NewMalformedTableError(t.Name,
				fmt.Sprintf("column %q has %d values, expected %d", c.Name, len(c.Values), rows))
		}
	}
	return nil
}
