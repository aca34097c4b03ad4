// Package price holds daily electricity price data: day-ahead and
// real-time average prices, their statistics and generated insights.
package price

import (
	"math"
	"slices"
	"time"
)

// A Day is one day of average prices, in yuan per MWh.
type Day struct {
	Date     time.Time
	DayAhead float64
	RealTime float64
}

// Spread is the real-time premium over the day-ahead price.
// It is negative when real-time trades at a discount.
func (d Day) Spread() float64 {
	return d.RealTime - d.DayAhead
}

func (d Day) valid() bool {
	return !d.Date.IsZero() &&
		!math.IsNaN(d.DayAhead) && !math.IsInf(d.DayAhead, 0) &&
		!math.IsNaN(d.RealTime) && !math.IsInf(d.RealTime, 0)
}

// Series is a run of days.
type Series []Day

// Clean returns s without days missing a date or a price, sorted by date.
// s is not modified.
func (s Series) Clean() Series {
	out := make(Series, 0, len(s))
	for _, d := range s {
		if d.valid() {
			out = append(out, d)
		}
	}
	slices.SortStableFunc(out, func(a, b Day) int { return a.Date.Compare(b.Date) })
	return out
}

// DayAhead returns the day-ahead prices of s.
func (s Series) DayAhead() []float64 {
	vs := make([]float64, len(s))
	for i, d := range s {
		vs[i] = d.DayAhead
	}
	return vs
}

// RealTime returns the real-time prices of s.
func (s Series) RealTime() []float64 {
	vs := make([]float64, len(s))
	for i, d := range s {
		vs[i] = d.RealTime
	}
	return vs
}

// Spreads returns the spread of each day of s.
func (s Series) Spreads() []float64 {
	vs := make([]float64, len(s))
	for i, d := range s {
		vs[i] = d.Spread()
	}
	return vs
}

// Index returns the position of the day on date, or -1.
func (s Series) Index(date time.Time) int {
	return slices.IndexFunc(s, func(d Day) bool { return d.Date.Equal(date) })
}

// Between returns the days of s from begin through end, inclusive.
// A zero begin or end leaves that side open.
func (s Series) Between(begin, end time.Time) Series {
	var out Series
	for _, d := range s {
		if !begin.IsZero() && d.Date.Before(begin) {
			continue
		}
		if !end.IsZero() && d.Date.After(end) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// LabelInterval is how many points apart value labels are drawn so that
// about 15 labels appear on a series of n points.
func LabelInterval(n int) int {
	return max(1, n/15)
}
