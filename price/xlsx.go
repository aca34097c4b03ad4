package price

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	goexcel "github.com/VantageDataChat/GoExcel"
	"github.com/graxinc/errutil"
)

// excelEpoch is day zero of Excel's 1900 date system, accounting for its
// phantom 1900-02-29.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// ReadXLSX reads days from the first sheet of an Excel workbook with the
// same columns and row rules as ReadCSV. Dates may be text in a layout
// ParseDate accepts or Excel date serials.
func ReadXLSX(r io.Reader) (_ Series, err error) {
	defer func() {
		if rv := recover(); rv != nil {
			err = errutil.New(errutil.Tags{"msg": "unreadable workbook", "panic": fmt.Sprint(rv)})
		}
	}()

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errutil.With(err)
	}

	wb, err := goexcel.NewXLSXReader().Read(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, errutil.With(err)
	}

	names := wb.GetSheetNames()
	if len(names) == 0 {
		return nil, errutil.New(errutil.Tags{"msg": "workbook has no sheets"})
	}
	sheet, err := wb.GetSheetByName(names[0])
	if err != nil {
		return nil, errutil.With(err)
	}
	rows, err := sheet.RowIterator()
	if err != nil {
		return nil, errutil.With(err)
	}

	var s Series
	for i, row := range rows {
		rec := make([]string, 3)
		for _, cell := range row {
			if cell == nil || cell.IsEmpty() {
				continue
			}
			if c := int(cell.Col()); c >= 0 && c < len(rec) {
				rec[c] = cell.GetFormattedValue()
			}
		}
		rec[0] = serialDate(rec[0])

		d, ok, err := parseRecord(i+1, rec)
		if err != nil {
			return nil, errutil.With(err)
		}
		if ok {
			s = append(s, d)
		}
	}

	return s.Clean(), nil
}

// serialDate rewrites an Excel date serial as 2006-01-02 and returns
// anything else unchanged. Eight digit values are left for ParseDate's
// 20060102 layout.
func serialDate(v string) string {
	v = strings.TrimSpace(v)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 1 || f >= 1e7 || math.IsNaN(f) {
		return v
	}
	days := math.Floor(f)
	return excelEpoch.AddDate(0, 0, int(days)).Format("2006-01-02")
}
