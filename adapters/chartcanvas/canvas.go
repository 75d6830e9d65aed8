// Package chartcanvas implements the plotting canvas over go-chart: group
// scatter plots with annotation text, connector lines, and an adjustable
// vertical range.
package chartcanvas

import (
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/pablomc88/megtools/domain/groups"
	"github.com/pablomc88/megtools/ports"
)

// Line is a horizontal connector in data coordinates
type Line struct {
	X0, X1, Y float64
}

// Annotation is a text label in data coordinates
type Annotation struct {
	X, Y  float64
	Label string
}

// Canvas is a mutable drawing surface satisfying ports.Axes
type Canvas struct {
	title         string
	width, height int
	xLo, xHi      float64
	yLo, yHi      float64

	series      []chart.Series
	lines       []Line
	annotations []Annotation
}

var _ ports.Axes = (*Canvas)(nil)

// NewCanvas creates a canvas with an initial data range
func NewCanvas(title string, xLo, xHi, yLo, yHi float64) *Canvas {
	return &Canvas{
		title:  title,
		width:  800,
		height: 600,
		xLo:    xLo,
		xHi:    xHi,
		yLo:    yLo,
		yHi:    yHi,
	}
}

// NewGroupCanvas creates a canvas pre-populated with one scatter column per
// group, x positions at the group indices, and a y range spanning the data.
func NewGroupCanvas(title string, samples groups.Samples) *Canvas {
	lo, hi := dataRange(samples)
	c := NewCanvas(title, -0.5, float64(len(samples))-0.5, lo, hi)
	for g, sample := range samples {
		xs := make([]float64, len(sample))
		ys := make([]float64, len(sample))
		for i, v := range sample {
			xs[i] = float64(g)
			ys[i] = v
		}
		c.series = append(c.series, chart.ContinuousSeries{
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    4,
				DotColor:    drawing.ColorBlue,
			},
		})
	}
	return c
}

// YLim returns the current vertical data range
func (c *Canvas) YLim() (lo, hi float64) { return c.yLo, c.yHi }

// SetYLim replaces the vertical data range
func (c *Canvas) SetYLim(lo, hi float64) { c.yLo, c.yHi = lo, hi }

// Text places a centered label at data coordinates
func (c *Canvas) Text(x, y float64, label string) {
	c.annotations = append(c.annotations, Annotation{X: x, Y: y, Label: label})
}

// HLine draws a horizontal connector between two x positions
func (c *Canvas) HLine(x0, x1, y float64) {
	c.lines = append(c.lines, Line{X0: x0, X1: x1, Y: y})
}

// Lines returns the connectors drawn so far
func (c *Canvas) Lines() []Line { return c.lines }

// Annotations returns the labels drawn so far
func (c *Canvas) Annotations() []Annotation { return c.annotations }

// Render rasterizes the canvas to PNG
func (c *Canvas) Render(w io.Writer) error {
	series := make([]chart.Series, 0, len(c.series)+len(c.lines)+1)
	series = append(series, c.series...)

	for _, l := range c.lines {
		series = append(series, chart.ContinuousSeries{
			XValues: []float64{l.X0, l.X1},
			YValues: []float64{l.Y, l.Y},
			Style: chart.Style{
				StrokeColor: drawing.ColorBlack,
				StrokeWidth: 1.0,
			},
		})
	}

	if len(c.annotations) > 0 {
		values := make([]chart.Value2, 0, len(c.annotations))
		for _, a := range c.annotations {
			values = append(values, chart.Value2{XValue: a.X, YValue: a.Y, Label: a.Label})
		}
		series = append(series, chart.AnnotationSeries{
			Annotations: values,
			Style: chart.Style{
				StrokeColor: drawing.ColorTransparent,
				FillColor:   drawing.ColorTransparent,
				FontSize:    8,
			},
		})
	}

	graph := chart.Chart{
		Title:  c.title,
		Width:  c.width,
		Height: c.height,
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: c.xLo, Max: c.xHi},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: c.yLo, Max: c.yHi},
		},
		Series: series,
	}
	return graph.Render(chart.PNG, w)
}

func dataRange(samples groups.Samples) (lo, hi float64) {
	first := true
	for _, sample := range samples {
		for _, v := range sample {
			if first {
				lo, hi = v, v
				first = false
				continue
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if first {
		return 0, 1
	}
	return lo, hi
}
