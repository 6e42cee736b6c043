package chart

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/shandysiswandi/datasweeper/internal/sweeper/table"
)

const (
	imageWidth  = 6 * vg.Inch
	imageHeight = 4 * vg.Inch
	barWidth    = 8
)

// PNG draws d as a PNG image.
func PNG(d *Data) ([]byte, error) {
	p := plot.New()
	p.Legend.Top = true

	var err error
	switch d.Type {
	case TypeBar:
		p.Title.Text = "Bar chart"
		p.X.Label.Text = "row"
		err = addBars(p, d.Series)
	case TypeLine:
		p.Title.Text = "Line chart"
		p.X.Label.Text = "row"
		err = addLines(p, d.Series)
	case TypePie:
		p.Title.Text = d.Column
		addPie(p, d.Slices)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownType, d.Type)
	}
	if err != nil {
		return nil, err
	}

	wt, err := p.WriterTo(imageWidth, imageHeight, "png")
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func finite(v table.Value) (float64, bool) {
	if v.Kind != table.KindNumber || math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
		return 0, false
	}
	return v.Num, true
}

func addBars(p *plot.Plot, series []Series) error {
	width := vg.Points(barWidth)

	for i, s := range series {
		if len(s.Values) == 0 {
			continue
		}

		vals := make(plotter.Values, len(s.Values))
		for r, v := range s.Values {
			vals[r], _ = finite(v)
		}

		bars, err := plotter.NewBarChart(vals, width)
		if err != nil {
			return err
		}
		bars.Color = plotutil.Color(i)
		bars.LineStyle.Width = 0
		bars.Offset = vg.Length(i)*width - width*vg.Length(len(series)-1)/2

		p.Add(bars)
		p.Legend.Add(s.Name, bars)
	}

	return nil
}

func addLines(p *plot.Plot, series []Series) error {
	for i, s := range series {
		pts := make(plotter.XYs, 0, len(s.Values))
		for r, v := range s.Values {
			if y, ok := finite(v); ok {
				pts = append(pts, plotter.XY{X: float64(r), Y: y})
			}
		}
		if len(pts) == 0 {
			continue
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1.5)

		p.Add(line)
		p.Legend.Add(s.Name, line)
	}

	return nil
}

func addPie(p *plot.Plot, slices []Slice) {
	p.HideAxes()

	pc := &pie{}
	for i, s := range slices {
		if s.Count <= 0 {
			continue
		}
		w := wedge{label: s.Label, count: s.Count, color: plotutil.Color(i)}
		pc.wedges = append(pc.wedges, w)
		pc.total += s.Count
		p.Legend.Add(fmt.Sprintf("%s (%d)", s.Label, s.Count), swatch{color: w.color})
	}

	p.Add(pc)
}

type wedge struct {
	label string
	count int
	color color.Color
}

// pie draws filled wedges clockwise from twelve o'clock.
type pie struct {
	wedges []wedge
	total  int
}

// arcStep is the angle between two polygon points on a wedge border.
const arcStep = math.Pi / 90

func (pc *pie) Plot(c draw.Canvas, _ *plot.Plot) {
	if pc.total == 0 {
		return
	}

	lo, hi := c.Rectangle.Min, c.Rectangle.Max
	center := vg.Point{X: (lo.X + hi.X) / 2, Y: (lo.Y + hi.Y) / 2}
	radius := math.Min(float64(hi.X-lo.X), float64(hi.Y-lo.Y)) / 2 * 0.9

	start := math.Pi / 2
	for _, w := range pc.wedges {
		sweep := 2 * math.Pi * float64(w.count) / float64(pc.total)
		end := start - sweep

		pts := []vg.Point{center}
		for a := start; a > end; a -= arcStep {
			pts = append(pts, polar(center, radius, a))
		}
		pts = append(pts, polar(center, radius, end))

		c.FillPolygon(w.color, pts)
		start = end
	}
}

func polar(center vg.Point, radius, angle float64) vg.Point {
	return vg.Point{
		X: center.X + vg.Length(radius*math.Cos(angle)),
		Y: center.Y + vg.Length(radius*math.Sin(angle)),
	}
}

// swatch is a legend thumbnail filled with one color.
type swatch struct {
	color color.Color
}

func (s swatch) Thumbnail(c *draw.Canvas) {
	r := c.Rectangle
	c.FillPolygon(s.color, []vg.Point{
		r.Min,
		{X: r.Max.X, Y: r.Min.Y},
		r.Max,
		{X: r.Min.X, Y: r.Max.Y},
	})
}
