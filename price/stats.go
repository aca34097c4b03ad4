package price

import (
	"errors"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

// ErrEmpty is returned when a series has no usable days.
var ErrEmpty = errors.New("price: no usable days")

// Stat describes one price column.
type Stat struct {
	Mean   float64
	StdDev float64 // sample standard deviation, 0 for fewer than two days
	Max    Day
	Min    Day
}

// Summary holds the statistics shown on a price report.
type Summary struct {
	Begin, End time.Time
	N          int

	DayAhead Stat
	RealTime Stat
	// Spread extremes are the largest premium (Max) and the largest
	// discount (Min) days.
	Spread Stat

	// Correlation is the Pearson correlation of day-ahead and real-time
	// prices, 0 when undefined.
	Correlation float64

	// PremiumRate is the mean spread as a percentage of the mean
	// day-ahead price.
	PremiumRate float64
}

// Summarize computes the statistics of s after cleaning it.
// It returns ErrEmpty when no day remains.
func Summarize(s Series) (Summary, error) {
	s = s.Clean()
	if len(s) == 0 {
		return Summary{}, ErrEmpty
	}

	da, rt, sp := s.DayAhead(), s.RealTime(), s.Spreads()

	sum := Summary{
		Begin:    s[0].Date,
		End:      s[len(s)-1].Date,
		N:        len(s),
		DayAhead: columnStat(s, da),
		RealTime: columnStat(s, rt),
		Spread:   columnStat(s, sp),
	}

	if len(s) > 1 {
		if c := stat.Correlation(da, rt, nil); !math.IsNaN(c) {
			sum.Correlation = c
		}
	}
	if sum.DayAhead.Mean != 0 {
		sum.PremiumRate = sum.Spread.Mean / sum.DayAhead.Mean * 100
	}

	return sum, nil
}

func columnStat(s Series, vs []float64) Stat {
	st := Stat{
		Mean: stat.Mean(vs, nil),
		Max:  s[0],
		Min:  s[0],
	}
	if len(vs) > 1 {
		st.StdDev = stat.StdDev(vs, nil)
	}

	maxi, mini := 0, 0
	for i, v := range vs {
		if v > vs[maxi] {
			maxi = i
		}
		if v < vs[mini] {
			mini = i
		}
	}
	st.Max, st.Min = s[maxi], s[mini]
	return st
}
