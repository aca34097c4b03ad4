package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/danp/pricechart/cjkfont"
	"github.com/danp/pricechart/price"
	"github.com/danp/pricechart/pricefeed"
	"github.com/graxinc/errutil"
	"github.com/peterbourgon/ff/v3/ffcli"
	"gonum.org/v1/plot/vg"
)

func newRenderCmd(rootConfig *rootConfig) *ffcli.Command {
	var (
		fs     = flag.NewFlagSet("pricechart render", flag.ExitOnError)
		in     = fs.String("in", "", "xlsx or CSV of date, day-ahead average and real-time average prices (default "+strings.Join(defaultInputs, " or ")+"); demo data is used if missing")
		feed   = fs.String("feed", "", "base URL of a pricechart server to fetch prices from, preferred over in")
		begin  = fs.String("begin", "", "first day to fetch from feed, in YYYYMMDD form")
		end    = fs.String("end", "", "last day to fetch from feed, in YYYYMMDD form")
		out    = fs.String("out", "price-trend.png", "output file, format from its extension: png, jpg, tif, svg, pdf or eps")
		labels = fs.Bool("labels", true, "draw value labels")
		width  = fs.Float64("width", 20, "width in inches")
		height = fs.Float64("height", 15, "height in inches")
		dpi    = fs.Int("dpi", 300, "resolution of raster output")
	)

	return &ffcli.Command{
		Name:       "render",
		ShortUsage: "pricechart render [flags]",
		ShortHelp:  "render a price trend report",
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			var (
				s   price.Series
				err error
			)
			if *feed != "" {
				s, err = fetchSeries(ctx, pricefeed.Client{BaseURL: *feed}, *begin, *end)
			} else {
				s, err = loadSeries(inputs(*in)...)
			}
			if err != nil {
				return errutil.With(err)
			}

			opts := reportOptions{
				width:  vg.Length(*width) * vg.Inch,
				height: vg.Length(*height) * vg.Inch,
				dpi:    *dpi,
				labels: *labels,
			}
			return renderExec(s, *out, opts, rootConfig.font)
		},
	}
}

func renderExec(s price.Series, out string, opts reportOptions, st cjkfont.State) error {
	var b bytes.Buffer
	if err := writeReport(&b, s, formatFromPath(out), opts, st); err != nil {
		return errutil.With(err)
	}

	if err := writeFileFromReader(out, &b); err != nil {
		return errutil.With(err)
	}

	log.Printf("at=render out=%q days=%d family=%q", out, len(s), st.Family)
	return nil
}

// defaultInputs are tried in order when no input is named.
var defaultInputs = []string{"每日电价分享.xlsx", "prices.csv"}

func inputs(in string) []string {
	if in == "" {
		return defaultInputs
	}
	return []string{in}
}

// loadSeries reads the first of paths that exists, as an Excel workbook
// when its extension is .xlsx and as CSV otherwise. When none exists the
// demo data is returned.
func loadSeries(paths ...string) (price.Series, error) {
	for _, path := range paths {
		f, err := os.Open(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, errutil.With(err)
		}
		defer f.Close()

		read := price.ReadCSV
		if strings.EqualFold(filepath.Ext(path), ".xlsx") {
			read = price.ReadXLSX
		}
		s, err := read(f)
		if err != nil {
			return nil, errutil.With(err)
		}
		log.Printf("at=load-series path=%q days=%d", path, len(s))
		return s, nil
	}

	log.Printf("at=load-series paths=%q missing, using demo data", paths)
	return price.Demo(), nil
}

func fetchSeries(ctx context.Context, cl pricefeed.Client, begin, end string) (price.Series, error) {
	var bt, et time.Time
	if begin != "" {
		t, err := time.Parse("20060102", begin)
		if err != nil {
			return nil, errutil.With(err)
		}
		bt = t
	}
	if end != "" {
		t, err := time.Parse("20060102", end)
		if err != nil {
			return nil, errutil.With(err)
		}
		et = t
	}

	s, err := cl.GetSeries(ctx, bt, et)
	if err != nil {
		return nil, errutil.With(err)
	}
	return s, nil
}
