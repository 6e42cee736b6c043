package table

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrUnknownColumn is returned when a column name is not part of the table.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrEmptySelection is returned when a projection names no column.
	ErrEmptySelection = errors.New("at least one column must be selected")
	// ErrRaggedColumns is returned when columns do not share the same row count.
	ErrRaggedColumns = errors.New("columns have different row counts")
	// ErrDuplicateColumn is returned when two columns share a name.
	ErrDuplicateColumn = errors.New("duplicate column name")
)

// ColumnType is fixed once when the table is built.
type ColumnType string

const (
	TypeNumber ColumnType = "number"
	TypeText   ColumnType = "text"
)

// Column is a named, typed sequence of cells.
type Column struct {
	Name   string
	Type   ColumnType
	Values []Value
}

// Table is an ordered list of uniquely named columns with equal row counts.
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// New assembles a table from columns, checking names and row counts.
func New(columns ...*Column) (*Table, error) {
	t := &Table{
		columns: make([]*Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}

	for i, col := range columns {
		if _, dup := t.index[col.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, col.Name)
		}
		if i > 0 && len(col.Values) != t.rows {
			return nil, fmt.Errorf("%w: %q has %d rows, expected %d", ErrRaggedColumns, col.Name, len(col.Values), t.rows)
		}
		t.rows = len(col.Values)
		t.index[col.Name] = i
		t.columns = append(t.columns, col)
	}

	return t, nil
}

// NumRows returns the row count shared by every column.
func (t *Table) NumRows() int {
	return t.rows
}

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int {
	return len(t.columns)
}

// Columns returns the columns in order. The slice is a copy; the columns are not.
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}

// Column looks a column up by name.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// Row returns the cells of row i in column order.
func (t *Table) Row(i int) []Value {
	row := make([]Value, len(t.columns))
	for c, col := range t.columns {
		row[c] = col.Values[i]
	}
	return row
}

// Records renders every data row as strings, in column order.
func (t *Table) Records() [][]string {
	records := make([][]string, t.rows)
	for r := 0; r < t.rows; r++ {
		record := make([]string, len(t.columns))
		for c, col := range t.columns {
			record[c] = col.Values[r].String()
		}
		records[r] = record
	}
	return records
}

// FromRecords builds a table from a header row and data rows.
//
// Empty header cells become "Unnamed: <index>" and repeated names get a
// ".1", ".2" suffix. Rows shorter than the header are padded with missing
// cells and longer rows are truncated. Each column is typed number when all
// of its non-missing cells parse as numbers, text otherwise.
func FromRecords(header []string, rows [][]string) *Table {
	names := normalizeHeader(header)
	columns := make([]*Column, len(names))

	for c, name := range names {
		raw := make([]string, len(rows))
		for r, row := range rows {
			if c < len(row) {
				raw[r] = row[c]
			}
		}
		columns[c] = buildColumn(name, raw)
	}

	//nolint:errcheck // names are unique and every column has len(rows) cells
	t, _ := New(columns...)
	return t
}

func buildColumn(name string, raw []string) *Column {
	values := make([]Value, len(raw))
	numeric := true

	for i, s := range raw {
		if IsMissingToken(s) {
			values[i] = Missing()
			continue
		}
		if f, ok := parseNumber(s); ok {
			values[i] = Number(f)
			continue
		}
		numeric = false
		break
	}

	if numeric {
		return &Column{Name: name, Type: TypeNumber, Values: values}
	}

	for i, s := range raw {
		if IsMissingToken(s) {
			values[i] = Missing()
			continue
		}
		values[i] = Text(s)
	}

	return &Column{Name: name, Type: TypeText, Values: values}
}

func normalizeHeader(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))
	taken := make(map[string]struct{}, len(header))

	for i, h := range header {
		if h == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		taken[h] = struct{}{}
		names[i] = h
	}

	for i, name := range names {
		n, dup := seen[name]
		seen[name] = n + 1
		if !dup {
			continue
		}
		for {
			candidate := name + "." + strconv.Itoa(n)
			n++
			if _, exists := taken[candidate]; !exists {
				taken[candidate] = struct{}{}
				names[i] = candidate
				seen[name] = n
				break
			}
		}
	}

	return names
}
