package table

import "fmt"

// Select projects the table onto names, in the given order. The returned
// table shares cell storage with t.
func (t *Table) Select(names []string) (*Table, error) {
	if len(names) == 0 {
		return nil, ErrEmptySelection
	}

	columns := make([]*Column, 0, len(names))
	for _, name := range names {
		col, ok := t.Column(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
		}
		columns = append(columns, col)
	}

	return New(columns...)
}

// Head returns a copy of the first n rows.
func (t *Table) Head(n int) *Table {
	if n < 0 {
		n = 0
	}
	if n > t.rows {
		n = t.rows
	}

	columns := make([]*Column, len(t.columns))
	for i, col := range t.columns {
		values := make([]Value, n)
		copy(values, col.Values[:n])
		columns[i] = &Column{Name: col.Name, Type: col.Type, Values: values}
	}

	//nolint:errcheck // derived from a valid table
	head, _ := New(columns...)
	return head
}

// NumericColumns returns up to limit number columns in table order.
// A non-positive limit returns all of them.
func (t *Table) NumericColumns(limit int) []*Column {
	var out []*Column
	for _, col := range t.columns {
		if col.Type != TypeNumber {
			continue
		}
		out = append(out, col)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// ValueCount is the number of rows holding one distinct value.
type ValueCount struct {
	Value Value
	Count int
}

// ValueCounts counts the distinct non-missing values of a column in
// first-seen order.
func (t *Table) ValueCounts(name string) ([]ValueCount, error) {
	col, ok := t.Column(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}

	pos := make(map[Value]int)
	var counts []ValueCount
	for _, v := range col.Values {
		if v.IsMissing() {
			continue
		}
		if v.Kind == KindNumber && v.Num == 0 {
			v.Num = 0
		}
		if i, seen := pos[v]; seen {
			counts[i].Count++
			continue
		}
		pos[v] = len(counts)
		counts = append(counts, ValueCount{Value: v, Count: 1})
	}

	return counts, nil
}
