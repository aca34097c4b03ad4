package main

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// band shades mean ± dev across [xmin, xmax].
type band struct {
	xmin, xmax float64
	mean, dev  float64
	color      color.Color
}

func (b *band) Plot(c draw.Canvas, p *plot.Plot) {
	if b.dev <= 0 {
		return
	}
	trX, trY := p.Transforms(&c)
	pts := []vg.Point{
		{X: trX(b.xmin), Y: trY(b.mean - b.dev)},
		{X: trX(b.xmax), Y: trY(b.mean - b.dev)},
		{X: trX(b.xmax), Y: trY(b.mean + b.dev)},
		{X: trX(b.xmin), Y: trY(b.mean + b.dev)},
	}
	c.FillPolygon(b.color, c.ClipPolygonXY(pts))
}

func (b *band) DataRange() (xmin, xmax, ymin, ymax float64) {
	return b.xmin, b.xmax, b.mean - b.dev, b.mean + b.dev
}

func (b *band) Thumbnail(c *draw.Canvas) {
	fillThumb{b.color}.Thumbnail(c)
}

// spreadBars draws one bar per day, colored by the sign of its value.
type spreadBars struct {
	values []float64
	// width is the bar width in data units.
	width float64
}

func (s *spreadBars) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	edge := draw.LineStyle{Color: color.White, Width: vg.Points(0.5)}

	for i, v := range s.values {
		clr := withAlpha(premiumColor, 0.8)
		if v < 0 {
			clr = withAlpha(discountColor, 0.8)
		}

		x0, x1 := trX(float64(i)-s.width/2), trX(float64(i)+s.width/2)
		y0, y1 := trY(0), trY(v)
		pts := []vg.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}

		c.FillPolygon(clr, c.ClipPolygonXY(pts))
		c.StrokeLines(edge, c.ClipLinesXY(append(pts, pts[0]))...)
	}
}

func (s *spreadBars) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = -s.width/2, float64(len(s.values)-1)+s.width/2
	for _, v := range s.values {
		ymin = math.Min(ymin, v)
		ymax = math.Max(ymax, v)
	}
	return xmin, xmax, ymin, ymax
}

// fillThumb is a legend thumbnail filled with a color.
type fillThumb struct {
	color color.Color
}

func (f fillThumb) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(f.color, pts)
}
