package main

import (
	"image/color"
	"strings"

	"github.com/danp/pricechart/price"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// statsText is the content of the statistics panel: a summary table on
// the left and generated insights on the right.
type statsText struct {
	heading  []string
	table    [][]string
	market   []string
	insights []string
}

func newStatsText(sum price.Summary) statsText {
	p := price.Printer()

	var st statsText
	st.heading = []string{
		"--- 核心统计摘要 ---",
		p.Sprintf("数据周期: %d 天 (%s to %s)", sum.N, sum.Begin.Format("2006-01-02"), sum.End.Format("2006-01-02")),
	}

	row := func(name string, da, rt, sp float64) []string {
		return []string{name, p.Sprintf("%.2f", da), p.Sprintf("%.2f", rt), p.Sprintf("%.2f", sp)}
	}
	st.table = [][]string{
		{"指标", "日前均价", "实时均价", "价差"},
		row("均值", sum.DayAhead.Mean, sum.RealTime.Mean, sum.Spread.Mean),
		row("标准差", sum.DayAhead.StdDev, sum.RealTime.StdDev, sum.Spread.StdDev),
		row("最大值", sum.DayAhead.Max.DayAhead, sum.RealTime.Max.RealTime, sum.Spread.Max.Spread()),
		row("最小值", sum.DayAhead.Min.DayAhead, sum.RealTime.Min.RealTime, sum.Spread.Min.Spread()),
	}

	st.market = []string{
		"--- 市场关联性 ---",
		p.Sprintf("日前-实时价格相关系数: %.3f", sum.Correlation),
		p.Sprintf("平均实时溢价率: %.2f%%", sum.PremiumRate),
	}

	st.insights = append([]string{"--- 关键洞察 ---"}, price.Insights(sum)...)
	return st
}

// lines returns all text of the panel, one line per table row with cells
// separated by tabs.
func (st statsText) lines() []string {
	var out []string
	out = append(out, st.heading...)
	for _, r := range st.table {
		out = append(out, strings.Join(r, "\t"))
	}
	out = append(out, st.market...)
	out = append(out, st.insights...)
	return out
}

func (st statsText) String() string {
	return strings.Join(st.lines(), "\n")
}

func panelTextStyle(size vg.Length, c color.Color) text.Style {
	return text.Style{
		Color:   c,
		Font:    font.From(plot.DefaultFont, size),
		Handler: plot.DefaultTextHandler,
		XAlign:  text.XLeft,
		YAlign:  text.YTop,
	}
}

func (st statsText) draw(c draw.Canvas) {
	drawPanel(c)

	const size = 11
	sty := panelTextStyle(vg.Points(size), color.Black)
	lh := vg.Points(size * 1.6)

	tiles := draw.Tiles{Cols: 2, Rows: 1, PadTop: vg.Points(10), PadLeft: vg.Points(14), PadX: vg.Points(20)}
	left, right := tiles.At(c, 0, 0), tiles.At(c, 1, 0)

	y := left.Max.Y
	for _, l := range st.heading {
		left.FillText(sty, vg.Point{X: left.Min.X, Y: y}, l)
		y -= lh
	}

	colW := (left.Max.X - left.Min.X) / vg.Length(max(1, len(st.table[0])))
	for _, r := range st.table {
		for i, cell := range r {
			cs := sty
			if i > 0 {
				cs.XAlign = text.XRight
			}
			x := left.Min.X + colW*vg.Length(i)
			if i > 0 {
				x += colW
			}
			left.FillText(cs, vg.Point{X: x, Y: y}, cell)
		}
		y -= lh
	}

	for _, l := range st.market {
		left.FillText(sty, vg.Point{X: left.Min.X, Y: y}, l)
		y -= lh
	}

	y = right.Max.Y
	for _, l := range st.insights {
		right.FillText(sty, vg.Point{X: right.Min.X, Y: y}, l)
		y -= lh
	}
}

// drawPanel fills c with the panel background and outlines it.
func drawPanel(c draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Max.X, Y: c.Min.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Min.X, Y: c.Max.Y},
	}
	c.FillPolygon(panelColor, pts)
	c.StrokeLines(draw.LineStyle{Color: panelEdge, Width: vg.Points(1)}, append(pts, pts[0]))
}

// A card is a headline metric shown above the trend panel.
type card struct {
	title string
	value string
	color color.Color
}

func newCards(sum price.Summary) []card {
	p := price.Printer()
	sc := premiumColor
	if sum.Spread.Mean < 0 {
		sc = discountColor
	}
	return []card{
		{title: "日前均价", value: p.Sprintf("%.2f", sum.DayAhead.Mean), color: dayAheadColor},
		{title: "实时均价", value: p.Sprintf("%.2f", sum.RealTime.Mean), color: realTimeColor},
		{title: "平均价差", value: p.Sprintf("%+.2f", sum.Spread.Mean), color: sc},
		{title: "相关系数", value: p.Sprintf("%.3f", sum.Correlation), color: color.Gray{60}},
	}
}

func drawCards(c draw.Canvas, cards []card) {
	tiles := draw.Tiles{Cols: len(cards), Rows: 1, PadX: vg.Points(16)}
	for i, cd := range cards {
		tc := tiles.At(c, i, 0)
		drawPanel(tc)

		ctr := tc.Center()
		title := panelTextStyle(vg.Points(13), color.Gray{90})
		title.XAlign = text.XCenter
		title.YAlign = text.YBottom
		tc.FillText(title, vg.Point{X: ctr.X, Y: ctr.Y + vg.Points(4)}, cd.title)

		value := panelTextStyle(vg.Points(22), cd.color)
		value.XAlign = text.XCenter
		tc.FillText(value, vg.Point{X: ctr.X, Y: ctr.Y - vg.Points(2)}, cd.value)
	}
}
