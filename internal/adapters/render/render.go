// Package render draws derived views as static charts with gonum/plot.
package render

import (
	"fmt"
	"image/color"
	"io"
	"sort"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/okian/carbonview/internal/domain/model"
	"github.com/okian/carbonview/internal/domain/views"
)

const (
	defaultTopN  = 20
	barWidth     = vg.Length(14)
	titleFontPts = 14
)

var contentTypes = map[string]string{
	"png": "image/png",
	"svg": "image/svg+xml",
	"pdf": "application/pdf",
}

// Renderer turns views into images. It holds no mutable state.
type Renderer struct {
	width  vg.Length
	height vg.Length
	topN   int
	format string
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		width:  10 * vg.Inch,
		height: 6 * vg.Inch,
		topN:   defaultTopN,
		format: "png",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Format returns the configured output format.
func (r *Renderer) Format() string { return r.format }

// ContentType returns the MIME type of rendered images.
func (r *Renderer) ContentType() string { return contentTypes[r.format] }

// Render writes v as an image to w.
func (r *Renderer) Render(w io.Writer, v *views.View) error {
	if _, ok := contentTypes[r.format]; !ok {
		return fmt.Errorf("%q: %w", r.format, ErrUnsupportedFormat)
	}
	p, err := r.Plot(v)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(r.width, r.height, r.format)
	if err != nil {
		return fmt.Errorf("encode %s: %w", v.Name, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write %s: %w", v.Name, err)
	}
	return nil
}

// Plot builds the chart for v without encoding it.
func (r *Renderer) Plot(v *views.View) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = v.Title
	p.Title.TextStyle.Font.Size = vg.Points(titleFontPts)
	p.Y.Label.Text = v.AxisLabel
	p.Legend.Top = true

	if v.Table.Len() == 0 {
		p.Title.Text += " (no data)"
		return p, nil
	}

	var err error
	switch v.Name {
	case views.NameChoropleth:
		err = r.ranked(p, v)
	case views.NameSeries:
		err = seriesLines(p, v)
	case views.NameComposition:
		err = groupedBars(p, v)
	case views.NameCountry:
		err = columnLines(p, v)
	case views.NameMix:
		err = stackedBars(p, v)
	default:
		return nil, fmt.Errorf("%q: %w", v.Name, ErrUnknownView)
	}
	if err != nil {
		return nil, fmt.Errorf("plot %s: %w", v.Name, err)
	}
	return p, nil
}

// ranked draws the cross-section as bars of the top entities, since the
// service carries no map geometry.
func (r *Renderer) ranked(p *plot.Plot, v *views.View) error {
	column := v.Columns[0]
	rows := v.Table.Rows()
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Value(column) > rows[j].Value(column) })
	if len(rows) > r.topN {
		rows = rows[:r.topN]
	}

	values := make(plotter.Values, len(rows))
	names := make([]string, len(rows))
	for i, row := range rows {
		values[i] = row.Value(column)
		names[i] = label(row)
	}
	bars, err := plotter.NewBarChart(values, barWidth)
	if err != nil {
		return err
	}
	bars.Color = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(names...)
	if v.Domain != nil {
		p.Y.Min = v.Domain.Min
		p.Y.Max = v.Domain.Max
	}
	return nil
}

func seriesLines(p *plot.Plot, v *views.View) error {
	p.X.Label.Text = "Year"
	p.Add(plotter.NewGrid())
	for i, s := range v.Series {
		xys := make(plotter.XYs, len(s.Points))
		for j, pt := range s.Points {
			xys[j] = plotter.XY{X: float64(pt.Year), Y: pt.Value}
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(s.Entity, line)
	}
	return nil
}

func columnLines(p *plot.Plot, v *views.View) error {
	p.X.Label.Text = "Year"
	p.Add(plotter.NewGrid())
	for i, c := range v.Columns {
		xys := make(plotter.XYs, v.Table.Len())
		for j := 0; j < v.Table.Len(); j++ {
			row := v.Table.Row(j)
			xys[j] = plotter.XY{X: float64(row.Year), Y: row.Value(c)}
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		line.Dashes = plotutil.Dashes(i)
		p.Add(line)
		p.Legend.Add(c, line)
	}
	return nil
}

func groupedBars(p *plot.Plot, v *views.View) error {
	names := make([]string, v.Table.Len())
	for i := range names {
		names[i] = label(v.Table.Row(i))
	}
	n := len(v.Columns)
	for i, c := range v.Columns {
		bars, err := plotter.NewBarChart(plotter.Values(v.Table.Column(c)), barWidth)
		if err != nil {
			return err
		}
		bars.Color = plotutil.Color(i)
		bars.LineStyle.Width = vg.Length(0)
		bars.Offset = vg.Length(float64(i)-float64(n-1)/2) * barWidth
		p.Add(bars)
		p.Legend.Add(c, bars)
	}
	p.NominalX(names...)
	return nil
}

func stackedBars(p *plot.Plot, v *views.View) error {
	years := make([]string, v.Table.Len())
	for i := range years {
		years[i] = strconv.Itoa(v.Table.Row(i).Year)
	}
	var below *plotter.BarChart
	for i, c := range v.Columns {
		bars, err := plotter.NewBarChart(plotter.Values(v.Table.Column(c)), vg.Points(8))
		if err != nil {
			return err
		}
		bars.Color = plotutil.Color(i)
		bars.LineStyle.Width = vg.Length(0)
		if below != nil {
			bars.StackOn(below)
		}
		below = bars
		p.Add(bars)
		p.Legend.Add(c, bars)
	}
	p.NominalX(years...)
	p.Y.Min = 0
	p.Y.Max = 1
	return nil
}

func label(r model.Row) string {
	if r.Code != "" {
		return r.Code
	}
	return r.Entity
}
