package main

import (
	"io"
	"time"

	"github.com/danp/pricechart/cjkfont"
	"github.com/danp/pricechart/price"
	"github.com/graxinc/errutil"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// trendChart writes a lightweight PNG of the two price series, for quick
// views where the full report is too heavy. Text uses the active CJK font
// when freetype can parse it.
func trendChart(w io.Writer, s price.Series, st cjkfont.State, width, height int) error {
	s = s.Clean()
	sum, err := price.Summarize(s)
	if err != nil {
		return errutil.With(err)
	}
	p := price.Printer()

	times := dates(s)
	da := chart.TimeSeries{
		Name:    "日前均价",
		XValues: times,
		YValues: s.DayAhead(),
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("005f73"),
			StrokeWidth: 2,
			DotColor:    drawing.ColorFromHex("005f73"),
			DotWidth:    3,
		},
	}
	rt := chart.TimeSeries{
		Name:    "实时均价",
		XValues: times,
		YValues: s.RealTime(),
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("ae2012"),
			StrokeWidth: 2,
			DotColor:    drawing.ColorFromHex("ae2012"),
			DotWidth:    3,
		},
	}
	series := []chart.Series{da, rt}

	// Mean lines need two points to draw.
	if len(times) > 1 {
		first, last := times[0], times[len(times)-1]
		series = append(series,
			chart.TimeSeries{
				Name:    p.Sprintf("日前均价均值: %.2f", sum.DayAhead.Mean),
				XValues: []time.Time{first, last},
				YValues: []float64{sum.DayAhead.Mean, sum.DayAhead.Mean},
				Style: chart.Style{
					StrokeColor:     drawing.ColorFromHex("005f73").WithAlpha(180),
					StrokeDashArray: []float64{6, 3},
				},
			},
			chart.TimeSeries{
				Name:    p.Sprintf("实时均价均值: %.2f", sum.RealTime.Mean),
				XValues: []time.Time{first, last},
				YValues: []float64{sum.RealTime.Mean, sum.RealTime.Mean},
				Style: chart.Style{
					StrokeColor:     drawing.ColorFromHex("ae2012").WithAlpha(180),
					StrokeDashArray: []float64{6, 3},
				},
			},
		)
	}

	graph := chart.Chart{
		Title:  "每日电价趋势",
		Width:  width,
		Height: height,
		Font:   st.TrueType(),
		Background: chart.Style{
			Padding: chart.Box{
				Top:   50,
				Right: 10,
				// room for the legend
				Left:   140,
				Bottom: 10,
			},
		},
		XAxis: chart.XAxis{
			Name:           "日期",
			ValueFormatter: chart.TimeValueFormatterWithFormat("01/02"),
		},
		YAxis: chart.YAxis{
			Name: "价格 (元/MWh)",
			ValueFormatter: func(v interface{}) string {
				f, _ := v.(float64)
				return p.Sprintf("%.0f", f)
			},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return errutil.With(err)
	}
	return nil
}
