package price

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func date(m time.Month, d int) time.Time {
	return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC)
}

func smallSeries() Series {
	return Series{
		{Date: date(7, 3), DayAhead: 300, RealTime: 330},
		{Date: date(7, 1), DayAhead: 100, RealTime: 110},
		{Date: date(7, 2), DayAhead: 200, RealTime: 190},
	}
}

func TestClean(t *testing.T) {
	t.Parallel()

	s := Series{
		{Date: date(7, 2), DayAhead: 2, RealTime: 2},
		{Date: date(7, 3), DayAhead: math.NaN(), RealTime: 3},
		{DayAhead: 4, RealTime: 4},
		{Date: date(7, 1), DayAhead: 1, RealTime: 1},
		{Date: date(7, 4), DayAhead: 5, RealTime: math.Inf(1)},
	}

	got := s.Clean()
	want := Series{
		{Date: date(7, 1), DayAhead: 1, RealTime: 1},
		{Date: date(7, 2), DayAhead: 2, RealTime: 2},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Error(d)
	}
	if len(s) != 5 || !s[0].Date.Equal(date(7, 2)) {
		t.Error("Clean modified its receiver")
	}
}

func TestBetween(t *testing.T) {
	t.Parallel()

	s := smallSeries().Clean()

	cases := []struct {
		name       string
		begin, end time.Time
		want       []time.Time
	}{
		{"Open", time.Time{}, time.Time{}, []time.Time{date(7, 1), date(7, 2), date(7, 3)}},
		{"Begin", date(7, 2), time.Time{}, []time.Time{date(7, 2), date(7, 3)}},
		{"End", time.Time{}, date(7, 2), []time.Time{date(7, 1), date(7, 2)}},
		{"Day", date(7, 2), date(7, 2), []time.Time{date(7, 2)}},
		{"Empty", date(8, 1), time.Time{}, nil},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var got []time.Time
			for _, d := range s.Between(c.begin, c.end) {
				got = append(got, d.Date)
			}
			if d := cmp.Diff(c.want, got); d != "" {
				t.Error(d)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"2025/7/2", "2025-07-02", "2025-7-2", "20250702", " 2025/7/2 ", "2025-07-02 10:00:00", "2025/7/2 23:59:59"} {
		got, err := ParseDate(in)
		if err != nil {
			t.Errorf("ParseDate(%q): %v", in, err)
			continue
		}
		if !got.Equal(date(7, 2)) || got.Location() != time.UTC {
			t.Errorf("ParseDate(%q) = %v, want %v", in, got, date(7, 2))
		}
	}

	if _, err := ParseDate("July 2"); err == nil {
		t.Error("want error for unknown layout")
	}
}

func TestReadCSVTimestampsInRange(t *testing.T) {
	t.Parallel()

	s, err := ReadCSV(strings.NewReader("2025-07-01 08:00:00,1,2\n2025-07-02 10:00:00,3,4\n"))
	if err != nil {
		t.Fatal(err)
	}
	got := s.Between(date(7, 2), date(7, 2))
	want := Series{{Date: date(7, 2), DayAhead: 3, RealTime: 4}}
	if d := cmp.Diff(want, got); d != "" {
		t.Error(d)
	}
}

func TestReadCSV(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		in      string
		want    Series
		wantErr bool
	}{
		{
			name: "HeaderAndBOM",
			in:   "\ufeff日期,日前均价,实时均价\n2025/7/2,200,190\n2025-07-01,100,110\n",
			want: Series{
				{Date: date(7, 1), DayAhead: 100, RealTime: 110},
				{Date: date(7, 2), DayAhead: 200, RealTime: 190},
			},
		},
		{
			name: "NoHeader",
			in:   "20250703,300.5,330.25\n",
			want: Series{{Date: date(7, 3), DayAhead: 300.5, RealTime: 330.25}},
		},
		{
			name: "DropsMissing",
			in:   "date,da,rt\n2025/7/1,100,\n2025/7/2,abc,190\n2025/7/3,300,330\n2025/7/4,400\n2025/7/5,NaN,1\n",
			want: Series{{Date: date(7, 3), DayAhead: 300, RealTime: 330}},
		},
		{
			name: "ExcelTimestamps",
			in:   "2025-07-01 00:00:00,\"1,100.5\",110\n",
			want: Series{{Date: date(7, 1), DayAhead: 1100.5, RealTime: 110}},
		},
		{
			name:    "BadDate",
			in:      "2025/7/1,100,110\nyesterday,1,2\n",
			wantErr: true,
		},
		{
			name: "Empty",
			in:   "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ReadCSV(strings.NewReader(tc.in))
			if tc.wantErr {
				if err == nil {
					t.Fatalf("want error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if d := cmp.Diff(tc.want, got, cmpopts.EquateEmpty()); d != "" {
				t.Error(d)
			}
		})
	}
}

func TestReadXLSX(t *testing.T) {
	t.Parallel()

	f, err := os.Open(filepath.Join("testdata", "prices.xlsx"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	got, err := ReadXLSX(f)
	if err != nil {
		t.Fatal(err)
	}
	// Row 3 holds a date serial, row 4 lacks a day-ahead price.
	want := Series{
		{Date: date(7, 1), DayAhead: 100, RealTime: 110},
		{Date: date(7, 2), DayAhead: 200, RealTime: 190},
		{Date: date(7, 3), DayAhead: 300, RealTime: 330.5},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Error(d)
	}

	if _, err := ReadXLSX(strings.NewReader("not a workbook")); err == nil {
		t.Error("want error reading garbage")
	}
}

func TestSerialDate(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"45837":      "2025-06-29",
		"45839.75":   "2025-07-01",
		"20250702":   "20250702",
		"2025/7/2":   "2025/7/2",
		"":           "",
		"0":          "0",
		" 45839 ":    "2025-07-01",
		"not a date": "not a date",
	}
	for in, want := range cases {
		if got := serialDate(in); got != want {
			t.Errorf("serialDate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	if err := WriteCSV(&b, Demo()); err != nil {
		t.Fatal(err)
	}
	got, err := ReadCSV(strings.NewReader(b.String()))
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(Demo(), got); d != "" {
		t.Error(d)
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	got, err := Summarize(smallSeries())
	if err != nil {
		t.Fatal(err)
	}

	s := smallSeries().Clean()
	want := Summary{
		Begin: date(7, 1),
		End:   date(7, 3),
		N:     3,
		DayAhead: Stat{
			Mean: 200, StdDev: 100,
			Max: s[2], Min: s[0],
		},
		RealTime: Stat{
			Mean: 210, StdDev: 111.35528725660043,
			Max: s[2], Min: s[0],
		},
		Spread: Stat{
			Mean: 10, StdDev: 20,
			Max: s[2], Min: s[1],
		},
		Correlation: 0.9878291611472619,
		PremiumRate: 5,
	}

	if d := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); d != "" {
		t.Error(d)
	}
}

func TestSummarizeEdges(t *testing.T) {
	t.Parallel()

	if _, err := Summarize(nil); !errors.Is(err, ErrEmpty) {
		t.Errorf("got %v, want ErrEmpty", err)
	}
	if _, err := Summarize(Series{{Date: date(7, 1), DayAhead: math.NaN(), RealTime: 1}}); !errors.Is(err, ErrEmpty) {
		t.Errorf("got %v, want ErrEmpty for all-NaN series", err)
	}

	one, err := Summarize(Series{{Date: date(7, 1), DayAhead: 100, RealTime: 120}})
	if err != nil {
		t.Fatal(err)
	}
	if one.DayAhead.StdDev != 0 || one.Correlation != 0 {
		t.Errorf("single day: got stddev %v correlation %v, want zeros", one.DayAhead.StdDev, one.Correlation)
	}

	flat, err := Summarize(Series{
		{Date: date(7, 1), DayAhead: 100, RealTime: 120},
		{Date: date(7, 2), DayAhead: 100, RealTime: 130},
	})
	if err != nil {
		t.Fatal(err)
	}
	if flat.Correlation != 0 {
		t.Errorf("constant day-ahead: got correlation %v, want 0", flat.Correlation)
	}
}

func TestDemo(t *testing.T) {
	t.Parallel()

	s := Demo()
	if got, want := len(s), 35; got != want {
		t.Fatalf("got %d days, want %d", got, want)
	}
	if got, want := s[len(s)-1].Date, date(8, 2); !got.Equal(want) {
		t.Errorf("got last day %v, want %v", got, want)
	}

	sum, err := Summarize(s)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := sum.DayAhead.Mean, 354.66457142857143; math.Abs(got-want) > 1e-9 {
		t.Errorf("got day-ahead mean %v, want %v", got, want)
	}
	if got, want := sum.Spread.Min.Date, date(7, 25); !got.Equal(want) {
		t.Errorf("got largest discount on %v, want %v", got, want)
	}
}

func TestInsights(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		s    Series
		want []string
	}{
		{
			name: "Small",
			s:    smallSeries(),
			want: []string{
				"实时价格最高出现在 07月03日: 330.00 元/MWh",
				"最大正溢价 07月03日: +30.00 元/MWh",
				"最大负溢价 07月02日: -10.00 元/MWh",
				"日前与实时价格呈强正相关 (r=0.99)",
				"实时价格平均高于日前 5.00%",
			},
		},
		{
			name: "Demo",
			s:    Demo(),
			want: []string{
				"实时价格最高出现在 06月29日: 550.50 元/MWh",
				"最大正溢价 06月29日: +244.22 元/MWh",
				"最大负溢价 07月25日: -93.87 元/MWh",
				"日前与实时价格呈中等正相关 (r=0.59)",
				"实时价格平均高于日前 4.36%",
			},
		},
		{
			name: "SingleDiscount",
			s:    Series{{Date: date(7, 1), DayAhead: 200, RealTime: 150}},
			want: []string{
				"实时价格最高出现在 07月01日: 150.00 元/MWh",
				"最大负溢价 07月01日: -50.00 元/MWh",
				"实时价格平均低于日前 25.00%",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sum, err := Summarize(tc.s)
			if err != nil {
				t.Fatal(err)
			}
			if d := cmp.Diff(tc.want, Insights(sum)); d != "" {
				t.Error(d)
			}
		})
	}

	if got := Insights(Summary{}); got != nil {
		t.Errorf("empty summary: got %q", got)
	}
}

func TestLabelInterval(t *testing.T) {
	t.Parallel()

	for n, want := range map[int]int{0: 1, 1: 1, 14: 1, 15: 1, 30: 2, 35: 2, 45: 3, 100: 6} {
		if got := LabelInterval(n); got != want {
			t.Errorf("LabelInterval(%d) = %d, want %d", n, got, want)
		}
	}
}
