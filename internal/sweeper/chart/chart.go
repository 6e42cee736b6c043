// Package chart turns a table into chart data and renders it as PNG.
package chart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shandysiswandi/datasweeper/internal/sweeper/table"
)

// Type is the kind of chart.
type Type string

const (
	TypeBar  Type = "bar"
	TypeLine Type = "line"
	TypePie  Type = "pie"
)

// seriesLimit is how many number columns bar and line charts plot.
const seriesLimit = 2

var (
	ErrUnknownType     = errors.New("unknown chart type")
	ErrNoNumericColumn = errors.New("no numeric column to plot")
	ErrColumnRequired  = errors.New("a column is required for pie charts")
)

// ParseType accepts a chart type name in any case.
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeBar, TypeLine, TypePie:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
}

// Series is one number column plotted against the row index.
type Series struct {
	Name   string        `json:"name"`
	Values []table.Value `json:"values"`
}

// Slice is one distinct value of a pie chart.
type Slice struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Data is everything needed to draw a chart.
type Data struct {
	Type   Type     `json:"type"`
	Column string   `json:"column,omitempty"`
	Series []Series `json:"series,omitempty"`
	Slices []Slice  `json:"slices,omitempty"`
}

// Build derives chart data from t. Bar and line charts use the first two
// number columns with the row index as x. Pie charts count the values of
// column.
func Build(t *table.Table, typ Type, column string) (*Data, error) {
	switch typ {
	case TypeBar, TypeLine:
		cols := t.NumericColumns(seriesLimit)
		if len(cols) == 0 {
			return nil, ErrNoNumericColumn
		}

		data := &Data{Type: typ, Series: make([]Series, len(cols))}
		for i, col := range cols {
			values := make([]table.Value, len(col.Values))
			copy(values, col.Values)
			data.Series[i] = Series{Name: col.Name, Values: values}
		}
		return data, nil

	case TypePie:
		if column == "" {
			return nil, ErrColumnRequired
		}

		counts, err := t.ValueCounts(column)
		if err != nil {
			return nil, err
		}

		data := &Data{Type: typ, Column: column, Slices: make([]Slice, len(counts))}
		for i, vc := range counts {
			data.Slices[i] = Slice{Label: vc.Value.String(), Count: vc.Count}
		}
		return data, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}
}
