package price

import "time"

var (
	demoDayAhead = []float64{
		306.28, 427.16, 298.83, 273.59, 266.34, 312.77, 341.52, 375.37,
		346.33, 310.02, 332.56, 374.76, 421.81, 352.55, 411.63, 365.21,
		381.49, 360.48, 417.15, 454.51, 507.47, 546.51, 275.56, 281.71,
		412.94, 339.47, 374.21, 357.71, 335.31, 327.78, 309.18, 230.01,
		326.55, 320.12, 338.37,
	}
	demoRealTime = []float64{
		550.50, 446.52, 370.22, 351.28, 298.34, 365.67, 300.18, 451.16,
		358.45, 361.55, 357.77, 408.07, 424.15, 372.03, 475.77, 468.73,
		427.64, 442.74, 428.10, 427.08, 437.81, 507.91, 340.33, 336.27,
		332.39, 355.34, 280.34, 326.35, 296.43, 279.07, 253.78, 209.47,
		298.27, 345.40, 269.36,
	}
)

// Demo returns 35 days of sample prices, 2025-06-29 through 2025-08-02,
// for charts made without input data.
func Demo() Series {
	begin := time.Date(2025, 6, 29, 0, 0, 0, 0, time.UTC)
	s := make(Series, len(demoDayAhead))
	for i := range s {
		s[i] = Day{
			Date:     begin.AddDate(0, 0, i),
			DayAhead: demoDayAhead[i],
			RealTime: demoRealTime[i],
		}
	}
	return s
}
