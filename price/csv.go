package price

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dimchansky/utfbom"
	"github.com/graxinc/errutil"
)

var dateLayouts = []string{
	"2006/1/2",
	"2006-1-2",
	"20060102",
	"2006-01-02 15:04:05",
	"2006/1/2 15:04:05",
	"1/2/2006",
	"1/2/06",
}

// ParseDate parses a date in one of the accepted layouts, such as
// 2025/6/29, 2025-06-29 or 20250629. Timestamps are truncated to
// midnight UTC of their day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, errutil.New(errutil.Tags{"msg": "unparsable date", "date": s})
}

// ReadCSV reads days from CSV with columns date, day-ahead average price
// and real-time average price, in that order. A header row is optional
// and a leading UTF-8 byte order mark is skipped.
//
// Rows with a missing or unparsable price are dropped. A row with an
// unparsable date is an error. The result is cleaned with Clean.
func ReadCSV(r io.Reader) (Series, error) {
	cr := csv.NewReader(utfbom.SkipOnly(r))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var s Series
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errutil.With(err)
		}

		d, ok, err := parseRecord(line, rec)
		if err != nil {
			return nil, errutil.With(err)
		}
		if ok {
			s = append(s, d)
		}
	}

	return s.Clean(), nil
}

// parseRecord parses the date and the two prices of row line of a sheet.
// It returns false for blank rows, a leading header and rows missing a
// price. A row with an unparsable date is an error.
func parseRecord(line int, rec []string) (Day, bool, error) {
	if len(rec) == 0 || strings.TrimSpace(rec[0]) == "" {
		return Day{}, false, nil
	}

	date, err := ParseDate(rec[0])
	if err != nil {
		if line == 1 && isHeader(rec) {
			return Day{}, false, nil
		}
		return Day{}, false, errutil.New(errutil.Tags{"msg": "bad date", "line": line, "date": rec[0]})
	}

	if len(rec) < 3 {
		return Day{}, false, nil
	}
	da, err1 := parsePrice(rec[1])
	rt, err2 := parsePrice(rec[2])
	if err1 != nil || err2 != nil {
		return Day{}, false, nil
	}

	return Day{Date: date, DayAhead: da, RealTime: rt}, true, nil
}

// isHeader reports whether rec looks like column names rather than data.
func isHeader(rec []string) bool {
	for _, f := range rec[1:] {
		if _, err := parsePrice(f); err == nil {
			return false
		}
	}
	return true
}

func parsePrice(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, errutil.New(errutil.Tags{"msg": "empty price"})
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errutil.With(err)
	}
	return v, nil
}

// WriteCSV writes s as CSV with a header, in the form ReadCSV reads.
func WriteCSV(w io.Writer, s Series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"日期", "日前均价", "实时均价"}); err != nil {
		return errutil.With(err)
	}
	for _, d := range s {
		rec := []string{
			d.Date.Format("2006-01-02"),
			strconv.FormatFloat(d.DayAhead, 'f', 2, 64),
			strconv.FormatFloat(d.RealTime, 'f', 2, 64),
		}
		if err := cw.Write(rec); err != nil {
			return errutil.With(err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errutil.With(err)
	}
	return nil
}
