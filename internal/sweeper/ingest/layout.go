package ingest

import (
	"sort"
	"strings"
)

// Glyph is a piece of positioned text on a page. Y grows upwards.
type Glyph struct {
	X, Y, W float64
	Size    float64
	S       string
}

// Layout holds the thresholds used to rebuild table rows from glyphs. All
// ratios are relative to the font size.
type Layout struct {
	// LineTolerance is the vertical distance under which glyphs share a line.
	LineTolerance float64
	// CellGap is the horizontal gap that starts a new cell.
	CellGap float64
	// WordGap is the horizontal gap rendered as a space inside a cell.
	WordGap float64
	// MinRows is the number of consecutive multi-cell lines that make a table.
	MinRows int
}

// DefaultLayout suits text-based PDFs produced by spreadsheet and report tools.
func DefaultLayout() Layout {
	return Layout{
		LineTolerance: 0.3,
		CellGap:       1.0,
		WordGap:       0.15,
		MinRows:       2,
	}
}

type cell struct {
	x0, x1 float64
	text   string
}

type line struct {
	y     float64
	size  float64
	cells []cell
}

// DetectTable returns the rows of the longest run of consecutive lines having
// at least two cells, aligned into columns. It returns nil when no such run
// exists.
func (l Layout) DetectTable(glyphs []Glyph) [][]string {
	lines := l.groupLines(glyphs)

	bestStart, bestLen := 0, 0
	for i := 0; i < len(lines); {
		if len(lines[i].cells) < 2 {
			i++
			continue
		}
		j := i
		for j < len(lines) && len(lines[j].cells) >= 2 {
			j++
		}
		if j-i > bestLen {
			bestStart, bestLen = i, j-i
		}
		i = j
	}

	if bestLen == 0 || bestLen < l.MinRows {
		return nil
	}

	return alignColumns(lines[bestStart : bestStart+bestLen])
}

func (l Layout) groupLines(glyphs []Glyph) []line {
	sorted := make([]Glyph, 0, len(glyphs))
	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		sorted = append(sorted, g)
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var lines []line
	var current []Glyph
	var currentY float64

	flush := func() {
		if len(current) == 0 {
			return
		}
		if ln, ok := l.buildLine(current); ok {
			lines = append(lines, ln)
		}
		current = nil
	}

	for _, g := range sorted {
		if len(current) > 0 && currentY-g.Y > l.LineTolerance*fontSize(g.Size) {
			flush()
		}
		if len(current) == 0 {
			currentY = g.Y
		}
		current = append(current, g)
	}
	flush()

	return lines
}

func (l Layout) buildLine(glyphs []Glyph) (line, bool) {
	sort.SliceStable(glyphs, func(i, j int) bool {
		return glyphs[i].X < glyphs[j].X
	})

	ln := line{y: glyphs[0].Y, size: fontSize(glyphs[0].Size)}

	var sb strings.Builder
	var cur cell
	open := false

	closeCell := func() {
		if !open {
			return
		}
		cur.text = strings.Join(strings.Fields(sb.String()), " ")
		if cur.text != "" {
			ln.cells = append(ln.cells, cur)
		}
		sb.Reset()
		open = false
	}

	for _, g := range glyphs {
		size := fontSize(g.Size)
		blank := strings.TrimSpace(g.S) == ""

		if open {
			gap := g.X - cur.x1
			switch {
			case gap > l.CellGap*size:
				closeCell()
			case gap > l.WordGap*size:
				sb.WriteByte(' ')
			}
		}

		if !open {
			if blank {
				continue
			}
			cur = cell{x0: g.X, x1: g.X}
			open = true
		}

		sb.WriteString(g.S)
		if end := g.X + g.W; end > cur.x1 {
			cur.x1 = end
		}
	}
	closeCell()

	return ln, len(ln.cells) > 0
}

type span struct {
	x0, x1 float64
}

// alignColumns merges the horizontal extents of all cells into column spans
// and places every cell in the span containing its midpoint.
func alignColumns(lines []line) [][]string {
	var spans []span
	for _, ln := range lines {
		for _, c := range ln.cells {
			spans = append(spans, span{x0: c.x0, x1: c.x1})
		}
	}

	sort.Slice(spans, func(i, j int) bool {
		return spans[i].x0 < spans[j].x0
	})

	columns := make([]span, 0, len(spans))
	for _, s := range spans {
		last := len(columns) - 1
		if last >= 0 && s.x0 <= columns[last].x1 {
			if s.x1 > columns[last].x1 {
				columns[last].x1 = s.x1
			}
			continue
		}
		columns = append(columns, s)
	}

	rows := make([][]string, 0, len(lines))
	for _, ln := range lines {
		row := make([]string, len(columns))
		for _, c := range ln.cells {
			idx := columnIndex(columns, (c.x0+c.x1)/2)
			if row[idx] == "" {
				row[idx] = c.text
			} else {
				row[idx] += " " + c.text
			}
		}
		rows = append(rows, row)
	}

	return rows
}

func columnIndex(columns []span, x float64) int {
	for i, col := range columns {
		if x <= col.x1 {
			return i
		}
	}
	return len(columns) - 1
}

func fontSize(size float64) float64 {
	if size <= 0 {
		return 10
	}
	return size
}
