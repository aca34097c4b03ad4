package main

import (
	"image/color"
	"math"
	"time"

	"github.com/danp/pricechart/price"
	"github.com/graxinc/errutil"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	dayAheadColor = color.RGBA{0x00, 0x5f, 0x73, 0xff}
	realTimeColor = color.RGBA{0xae, 0x20, 0x12, 0xff}
	premiumColor  = color.RGBA{0x2a, 0x9d, 0x8f, 0xff}
	discountColor = color.RGBA{0xe6, 0x39, 0x46, 0xff}
	panelColor    = color.RGBA{0xf8, 0xf9, 0xfa, 0xff}
	panelEdge     = color.RGBA{0xde, 0xe2, 0xe6, 0xff}
	gridColor     = color.Gray{175}
)

// withAlpha returns c at opacity a in [0, 1].
func withAlpha(c color.RGBA, a float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(a * 255))}
}

type reportOptions struct {
	width, height vg.Length
	dpi           int
	labels        bool
	// cards adds a row of headline metrics above the trend panel.
	cards bool
}

// report is a price report laid out as a trend panel, a spread panel and
// a statistics panel.
type report struct {
	series price.Series
	sum    price.Summary
	opts   reportOptions

	trend  *plot.Plot
	spread *plot.Plot
	stats  statsText
}

func newReport(s price.Series, opts reportOptions) (*report, error) {
	s = s.Clean()
	sum, err := price.Summarize(s)
	if err != nil {
		return nil, errutil.With(err)
	}

	r := &report{series: s, sum: sum, opts: opts, stats: newStatsText(sum)}

	if r.trend, err = trendPlot(s, sum, opts.labels); err != nil {
		return nil, errutil.With(err)
	}
	if r.spread, err = spreadPlot(s, sum); err != nil {
		return nil, errutil.With(err)
	}
	return r, nil
}

// texts returns every string the report draws, for glyph checks.
func (r *report) texts() []string {
	out := []string{r.trend.Title.Text, r.trend.Y.Label.Text, r.spread.Y.Label.Text, r.spread.X.Label.Text}
	out = append(out, legendTexts(r.sum)...)
	out = append(out, r.stats.lines()...)
	if r.opts.cards {
		for _, c := range newCards(r.sum) {
			out = append(out, c.title, c.value)
		}
	}
	return out
}

// draw renders the report onto dc.
func (r *report) draw(dc draw.Canvas) {
	ratios := []float64{3, 1.5, 1}
	if r.opts.cards {
		ratios = append([]float64{0.6}, ratios...)
	}
	panels := splitRows(dc, vg.Points(12), ratios...)
	if r.opts.cards {
		drawCards(panels[0], newCards(r.sum))
		panels = panels[1:]
	}

	r.trend.Draw(panels[0])
	r.spread.Draw(panels[1])
	r.stats.draw(panels[2])
}

// splitRows divides dc into rows whose heights follow ratios, top first,
// with pad between rows.
func splitRows(dc draw.Canvas, pad vg.Length, ratios ...float64) []draw.Canvas {
	var total float64
	for _, r := range ratios {
		total += r
	}
	h := dc.Max.Y - dc.Min.Y - pad*vg.Length(len(ratios)-1)

	var (
		out []draw.Canvas
		top vg.Length
	)
	for _, r := range ratios {
		rh := h * vg.Length(r/total)
		bottom := dc.Max.Y - dc.Min.Y - top - rh
		out = append(out, draw.Crop(dc, 0, 0, bottom, -top))
		top += rh + pad
	}
	return out
}

func dayXYs(s price.Series, v func(price.Day) float64) plotter.XYs {
	xys := make(plotter.XYs, len(s))
	for i, d := range s {
		xys[i] = plotter.XY{X: float64(i), Y: v(d)}
	}
	return xys
}

func dayAhead(d price.Day) float64 { return d.DayAhead }
func realTime(d price.Day) float64 { return d.RealTime }

func newGrid() *plotter.Grid {
	grid := plotter.NewGrid()
	grid.Vertical.Color = gridColor
	grid.Horizontal.Color = gridColor
	grid.Vertical.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	grid.Horizontal.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	return grid
}

func legendTexts(sum price.Summary) []string {
	p := price.Printer()
	return []string{
		"日前均价", "实时均价",
		p.Sprintf("日前均价均值: %.2f", sum.DayAhead.Mean),
		p.Sprintf("实时均价均值: %.2f", sum.RealTime.Mean),
		"日前价格 ±1σ", "实时价格 ±1σ",
		p.Sprintf("平均价差: %.2f", sum.Spread.Mean),
		"正溢价", "负溢价",
	}
}

func trendPlot(s price.Series, sum price.Summary, labels bool) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "每日电价趋势分析报告\n(" + sum.Begin.Format("2006年01月02日") + " 至 " + sum.End.Format("2006年01月02日") + ")"
	p.Title.TextStyle.Font.Size = vg.Points(20)
	p.Title.Padding = vg.Points(12)
	p.Y.Label.Text = "价格 (元/MWh)"
	p.Y.Label.TextStyle.Font.Size = vg.Points(14)
	p.Y.Tick.Label.Font.Size = vg.Points(12)
	p.X.Min, p.X.Max = -0.5, float64(len(s))-0.5
	p.X.Tick.Marker = dayTicker{dates: dates(s), hideLabels: true}
	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.TextStyle.Font.Size = vg.Points(12)
	p.Legend.XOffs = vg.Points(8)
	p.Legend.YOffs = -vg.Points(8)
	p.Add(newGrid())

	lt := legendTexts(sum)
	xmin, xmax := p.X.Min, p.X.Max

	daBand := &band{xmin: xmin, xmax: xmax, mean: sum.DayAhead.Mean, dev: sum.DayAhead.StdDev, color: withAlpha(dayAheadColor, 0.1)}
	rtBand := &band{xmin: xmin, xmax: xmax, mean: sum.RealTime.Mean, dev: sum.RealTime.StdDev, color: withAlpha(realTimeColor, 0.1)}
	p.Add(daBand, rtBand)

	daMean, err := meanLine(xmin, xmax, sum.DayAhead.Mean, withAlpha(dayAheadColor, 0.7), []vg.Length{vg.Points(6), vg.Points(3)})
	if err != nil {
		return nil, errutil.With(err)
	}
	rtMean, err := meanLine(xmin, xmax, sum.RealTime.Mean, withAlpha(realTimeColor, 0.7), []vg.Length{vg.Points(6), vg.Points(3)})
	if err != nil {
		return nil, errutil.With(err)
	}
	p.Add(daMean, rtMean)

	daLine, daPoints, err := seriesLine(dayXYs(s, dayAhead), dayAheadColor, draw.CircleGlyph{})
	if err != nil {
		return nil, errutil.With(err)
	}
	rtLine, rtPoints, err := seriesLine(dayXYs(s, realTime), realTimeColor, draw.SquareGlyph{})
	if err != nil {
		return nil, errutil.With(err)
	}
	p.Add(daLine, daPoints, rtLine, rtPoints)

	extremes, err := extremeRings(s, sum)
	if err != nil {
		return nil, errutil.With(err)
	}
	p.Add(extremes...)

	if labels {
		for _, l := range []struct {
			v func(price.Day) float64
			c color.Color
		}{{dayAhead, dayAheadColor}, {realTime, realTimeColor}} {
			vl, err := valueLabels(s, l.v, l.c)
			if err != nil {
				return nil, errutil.With(err)
			}
			p.Add(vl)
		}
	}

	p.Legend.Add(lt[0], daLine, daPoints)
	p.Legend.Add(lt[1], rtLine, rtPoints)
	p.Legend.Add(lt[2], daMean)
	p.Legend.Add(lt[3], rtMean)
	p.Legend.Add(lt[4], daBand)
	p.Legend.Add(lt[5], rtBand)

	return p, nil
}

func meanLine(xmin, xmax, y float64, c color.Color, dashes []vg.Length) (*plotter.Line, error) {
	ln, err := plotter.NewLine(plotter.XYs{{X: xmin, Y: y}, {X: xmax, Y: y}})
	if err != nil {
		return nil, errutil.With(err)
	}
	ln.LineStyle.Color = c
	ln.LineStyle.Width = vg.Points(1.8)
	ln.LineStyle.Dashes = dashes
	return ln, nil
}

func seriesLine(xys plotter.XYs, c color.Color, shape draw.GlyphDrawer) (*plotter.Line, *plotter.Scatter, error) {
	ln, pts, err := plotter.NewLinePoints(xys)
	if err != nil {
		return nil, nil, errutil.With(err)
	}
	ln.LineStyle.Color = c
	ln.LineStyle.Width = vg.Points(2.5)
	pts.GlyphStyle.Color = c
	pts.GlyphStyle.Shape = shape
	pts.GlyphStyle.Radius = vg.Points(3)
	return ln, pts, nil
}

// extremeRings circles the highest and lowest day of each price.
func extremeRings(s price.Series, sum price.Summary) ([]plot.Plotter, error) {
	var out []plot.Plotter
	for _, e := range []struct {
		st price.Stat
		v  func(price.Day) float64
		c  color.Color
	}{
		{sum.DayAhead, dayAhead, dayAheadColor},
		{sum.RealTime, realTime, realTimeColor},
	} {
		var xys plotter.XYs
		for _, d := range []price.Day{e.st.Max, e.st.Min} {
			if i := s.Index(d.Date); i >= 0 {
				xys = append(xys, plotter.XY{X: float64(i), Y: e.v(d)})
			}
		}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, errutil.With(err)
		}
		sc.GlyphStyle.Shape = draw.RingGlyph{}
		sc.GlyphStyle.Color = e.c
		sc.GlyphStyle.Radius = vg.Points(8)
		out = append(out, sc)
	}
	return out, nil
}

// valueLabels labels every price.LabelInterval points and the last one.
func valueLabels(s price.Series, v func(price.Day) float64, c color.Color) (*plotter.Labels, error) {
	p := price.Printer()
	every := price.LabelInterval(len(s))

	var xyl plotter.XYLabels
	for i, d := range s {
		if i%every != 0 && i != len(s)-1 {
			continue
		}
		xyl.XYs = append(xyl.XYs, plotter.XY{X: float64(i), Y: v(d)})
		xyl.Labels = append(xyl.Labels, p.Sprintf("%.2f", v(d)))
	}

	l, err := plotter.NewLabels(xyl)
	if err != nil {
		return nil, errutil.With(err)
	}
	for i := range l.TextStyle {
		l.TextStyle[i].Color = c
		l.TextStyle[i].Font.Size = vg.Points(9)
		l.TextStyle[i].YAlign = text.YCenter
	}
	l.Offset = vg.Point{X: vg.Points(5)}
	return l, nil
}

func spreadPlot(s price.Series, sum price.Summary) (*plot.Plot, error) {
	p := plot.New()
	p.Y.Label.Text = "价差 (元/MWh)"
	p.Y.Label.TextStyle.Font.Size = vg.Points(14)
	p.Y.Tick.Label.Font.Size = vg.Points(12)
	p.X.Label.Text = "日期"
	p.X.Label.TextStyle.Font.Size = vg.Points(14)
	p.X.Min, p.X.Max = -0.5, float64(len(s))-0.5
	p.X.Tick.Marker = dayTicker{dates: dates(s)}
	p.X.Tick.Label.Font.Size = vg.Points(10)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter
	p.Legend.Top = true
	p.Legend.TextStyle.Font.Size = vg.Points(12)
	p.Add(newGrid())

	bars := &spreadBars{values: s.Spreads(), width: 0.7}
	p.Add(bars)

	lt := legendTexts(sum)
	mean, err := meanLine(p.X.Min, p.X.Max, sum.Spread.Mean, withAlpha(color.RGBA{A: 0xff}, 0.8), []vg.Length{vg.Points(1), vg.Points(3)})
	if err != nil {
		return nil, errutil.With(err)
	}
	mean.LineStyle.Width = vg.Points(2)
	p.Add(mean)

	// Mark the largest premium and discount.
	pr := price.Printer()
	var xyl plotter.XYLabels
	var colors []color.Color
	if d := sum.Spread.Max; d.Spread() > 0 {
		xyl.XYs = append(xyl.XYs, plotter.XY{X: float64(s.Index(d.Date)), Y: d.Spread()})
		xyl.Labels = append(xyl.Labels, pr.Sprintf("%+.2f", d.Spread()))
		colors = append(colors, premiumColor)
	}
	if d := sum.Spread.Min; d.Spread() < 0 {
		xyl.XYs = append(xyl.XYs, plotter.XY{X: float64(s.Index(d.Date)), Y: d.Spread()})
		xyl.Labels = append(xyl.Labels, pr.Sprintf("%+.2f", d.Spread()))
		colors = append(colors, discountColor)
	}
	if len(xyl.XYs) > 0 {
		l, err := plotter.NewLabels(xyl)
		if err != nil {
			return nil, errutil.With(err)
		}
		for i := range l.TextStyle {
			l.TextStyle[i].Color = colors[i]
			l.TextStyle[i].Font.Size = vg.Points(10)
			l.TextStyle[i].XAlign = text.XCenter
			if xyl.XYs[i].Y < 0 {
				l.TextStyle[i].YAlign = text.YTop
			}
		}
		p.Add(l)
	}

	p.Legend.Add(lt[6], mean)
	p.Legend.Add(lt[7], fillThumb{premiumColor})
	p.Legend.Add(lt[8], fillThumb{discountColor})

	return p, nil
}

func dates(s price.Series) []time.Time {
	ds := make([]time.Time, len(s))
	for i, d := range s {
		ds[i] = d.Date
	}
	return ds
}

// dayTicker places a tick on every day of a series indexed from zero,
// labeling them "01/02" and thinning labels when there are many days.
type dayTicker struct {
	dates      []time.Time
	hideLabels bool
}

func (d dayTicker) Ticks(lo, hi float64) []plot.Tick {
	step := max(1, (len(d.dates)+39)/40)

	var ts []plot.Tick
	for i, day := range d.dates {
		v := float64(i)
		if v < lo || v > hi {
			continue
		}
		t := plot.Tick{Value: v}
		if !d.hideLabels && i%step == 0 {
			t.Label = day.Format("01/02")
		}
		ts = append(ts, t)
	}
	return ts
}
