package output

import (
	"fmt"
	"io"
	"strings"
)

// Column is a table column with its header and current width.
type Column struct {
	Header string
	Width  int
}

// Table lays out rows in aligned columns using display widths, so package
// names and error text with wide characters stay aligned.
//
// Fields:
//   - columns: Columns in display order
//   - separator: String placed between columns (default "  ")
type Table struct {
	columns   []Column
	separator string
}

// NewTable creates a table with no columns and a two-space separator.
func NewTable() *Table {
	return &Table{separator: "  "}
}

// WithSeparator sets a custom column separator and returns the table.
func (t *Table) WithSeparator(sep string) *Table {
	t.separator = sep
	return t
}

// AddColumn appends a column whose initial width is the header width.
//
// Parameters:
//   - header: Column header text
//
// Returns:
//   - *Table: The table for method chaining
func (t *Table) AddColumn(header string) *Table {
	t.columns = append(t.columns, Column{Header: header, Width: DisplayWidth(header)})
	return t
}

// UpdateWidths widens columns so that values fit.
//
// Values beyond the number of columns are ignored.
//
// Parameters:
//   - values: One row of cell values in column order
//
// Returns:
//   - *Table: The table for method chaining
func (t *Table) UpdateWidths(values ...string) *Table {
	for i, val := range values {
		if i >= len(t.columns) {
			break
		}
		if w := DisplayWidth(val); w > t.columns[i].Width {
			t.columns[i].Width = w
		}
	}
	return t
}

// HeaderRow returns the padded header line.
func (t *Table) HeaderRow() string {
	parts := make([]string, len(t.columns))
	for i, col := range t.columns {
		parts[i] = ToWidth(col.Header, col.Width)
	}
	return strings.TrimRight(strings.Join(parts, t.separator), " ")
}

// SeparatorRow returns a line of dashes matching each column width.
func (t *Table) SeparatorRow() string {
	parts := make([]string, len(t.columns))
	for i, col := range t.columns {
		parts[i] = strings.Repeat("-", col.Width)
	}
	return strings.Join(parts, t.separator)
}

// FormatRow pads values to their column widths and joins them.
//
// Missing values are treated as empty strings. Trailing padding is trimmed.
//
// Parameters:
//   - values: One row of cell values in column order
//
// Returns:
//   - string: The formatted row
func (t *Table) FormatRow(values ...string) string {
	parts := make([]string, len(t.columns))
	for i, col := range t.columns {
		val := ""
		if i < len(values) {
			val = values[i]
		}
		parts[i] = ToWidth(val, col.Width)
	}
	return strings.TrimRight(strings.Join(parts, t.separator), " ")
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int {
	return len(t.columns)
}

// Fprint writes the header and separator rows to w.
func (t *Table) Fprint(w io.Writer) {
	_, _ = fmt.Fprintln(w, t.HeaderRow())
	_, _ = fmt.Fprintln(w, t.SeparatorRow())
}
