package price

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Printer returns the printer used for report text.
func Printer() *message.Printer {
	return message.NewPrinter(language.SimplifiedChinese)
}

// Insights returns short observations about sum for the report.
func Insights(sum Summary) []string {
	if sum.N == 0 {
		return nil
	}

	p := Printer()
	var out []string

	hi := sum.RealTime.Max
	out = append(out, p.Sprintf("实时价格最高出现在 %s: %.2f 元/MWh", hi.Date.Format("01月02日"), hi.RealTime))

	if d := sum.Spread.Max; d.Spread() > 0 {
		out = append(out, p.Sprintf("最大正溢价 %s: %+.2f 元/MWh", d.Date.Format("01月02日"), d.Spread()))
	}
	if d := sum.Spread.Min; d.Spread() < 0 {
		out = append(out, p.Sprintf("最大负溢价 %s: %+.2f 元/MWh", d.Date.Format("01月02日"), d.Spread()))
	}

	if sum.N > 1 {
		out = append(out, p.Sprintf("日前与实时价格呈%s (r=%.2f)", correlationStrength(sum.Correlation), sum.Correlation))
	}

	switch {
	case sum.PremiumRate > 0:
		out = append(out, p.Sprintf("实时价格平均高于日前 %.2f%%", sum.PremiumRate))
	case sum.PremiumRate < 0:
		out = append(out, p.Sprintf("实时价格平均低于日前 %.2f%%", -sum.PremiumRate))
	default:
		out = append(out, "实时与日前价格平均持平")
	}

	return out
}

func correlationStrength(r float64) string {
	dir := "正"
	if r < 0 {
		dir = "负"
	}
	switch a := math.Abs(r); {
	case a >= 0.7:
		return "强" + dir + "相关"
	case a >= 0.4:
		return "中等" + dir + "相关"
	case a > 0:
		return "弱" + dir + "相关"
	default:
		return "无相关"
	}
}
