package domain

import "strings"

// Table is plain in-memory tabular data: a header row and string cells.
// Readers and exporters exchange Tables with the packing engine so that the
// engine never depends on a file format.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// NewTable creates a table with a copy of the given column names
func NewTable(columns ...string) Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return Table{Columns: cols}
}

// Index returns the position of a column, comparing trimmed names without
// regard to case. It returns -1 when the column is absent.
func (t Table) Index(column string) int {
	want := strings.ToUpper(strings.TrimSpace(column))
	if want == "" {
		return -1
	}
	for i, c := range t.Columns {
		if strings.ToUpper(strings.TrimSpace(c)) == want {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the table contains the column
func (t Table) HasColumn(column string) bool {
	return t.Index(column) >= 0
}

// Cell returns the value at row/column index, or "" for short rows
func (t Table) Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// Len returns the number of data rows
func (t Table) Len() int {
	return len(t.Rows)
}

// AppendRow adds a row, padding or truncating it to the column count
func (t *Table) AppendRow(values ...string) {
	row := make([]string, len(t.Columns))
	copy(row, values)
	t.Rows = append(t.Rows, row)
}

// Column returns every value of the named column, or nil if it is absent
func (t Table) Column(column string) []string {
	idx := t.Index(column)
	if idx < 0 {
		return nil
	}
	values := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		values = append(values, t.Cell(row, idx))
	}
	return values
}
