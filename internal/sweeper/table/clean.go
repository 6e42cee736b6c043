package table

import (
	"strconv"
	"strings"
)

// DropDuplicates removes rows equal to an earlier row, keeping the first
// occurrence. Missing cells compare equal to each other. It returns the
// number of removed rows.
func (t *Table) DropDuplicates() int {
	if t.rows == 0 {
		return 0
	}

	seen := make(map[string]struct{}, t.rows)
	keep := make([]int, 0, t.rows)

	var sb strings.Builder
	for r := 0; r < t.rows; r++ {
		sb.Reset()
		for _, col := range t.columns {
			writeKey(&sb, col.Values[r])
		}
		key := sb.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keep = append(keep, r)
	}

	removed := t.rows - len(keep)
	if removed == 0 {
		return 0
	}

	for _, col := range t.columns {
		values := make([]Value, len(keep))
		for i, r := range keep {
			values[i] = col.Values[r]
		}
		col.Values = values
	}
	t.rows = len(keep)

	return removed
}

func writeKey(sb *strings.Builder, v Value) {
	switch v.Kind {
	case KindNumber:
		num := v.Num
		if num == 0 {
			num = 0 // folds -0 into 0
		}
		sb.WriteByte('n')
		sb.WriteString(strconv.FormatFloat(num, 'g', -1, 64))
		sb.WriteByte(0)
	case KindText:
		sb.WriteByte('t')
		sb.WriteString(strconv.Itoa(len(v.Str)))
		sb.WriteByte(':')
		sb.WriteString(v.Str)
	default:
		sb.WriteByte('m')
	}
}

// FillMissingWithMean replaces the missing cells of every number column with
// the arithmetic mean of that column's non-missing cells. Columns without any
// value are left untouched. It returns the number of filled cells.
func (t *Table) FillMissingWithMean() int {
	filled := 0

	for _, col := range t.columns {
		if col.Type != TypeNumber {
			continue
		}

		mean, ok := columnMean(col)
		if !ok {
			continue
		}

		for i, v := range col.Values {
			if v.IsMissing() {
				col.Values[i] = Number(mean)
				filled++
			}
		}
	}

	return filled
}

// MissingCount returns the number of missing cells across the table.
func (t *Table) MissingCount() int {
	n := 0
	for _, col := range t.columns {
		for _, v := range col.Values {
			if v.IsMissing() {
				n++
			}
		}
	}
	return n
}

func columnMean(col *Column) (float64, bool) {
	var sum float64
	var count int
	for _, v := range col.Values {
		if v.Kind != KindNumber {
			continue
		}
		sum += v.Num
		count++
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}
