package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"html/template"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/danp/pricechart/cjkfont"
	"github.com/danp/pricechart/price"
	"github.com/danp/pricechart/pricefeed"
	"github.com/graxinc/errutil"
	"github.com/peterbourgon/ff/v3/ffcli"
	"gonum.org/v1/plot/vg"
)

func newServeCmd(rootConfig *rootConfig) *ffcli.Command {
	var (
		fs   = flag.NewFlagSet("pricechart serve", flag.ExitOnError)
		addr = fs.String("addr", "127.0.0.1:8080", "address to listen on")
		in   = fs.String("in", "", "xlsx or CSV of prices to serve (default "+strings.Join(defaultInputs, " or ")+"); demo data is used if missing")
	)
	return &ffcli.Command{
		Name:       "serve",
		ShortUsage: "pricechart serve [flags]",
		ShortHelp:  "serve charts and prices over http",
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			s, err := loadSeries(inputs(*in)...)
			if err != nil {
				return errutil.With(err)
			}
			return serveExec(ctx, *addr, newServeMux(s, rootConfig.font))
		},
	}
}

// serveExec serves h on addr until ctx is done, then shuts down,
// giving in-flight requests a few seconds to finish.
func serveExec(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: h}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
			return
		}
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			log.Printf("at=serve-shutdown err=%q", err)
		}
	}()

	log.Printf("at=serve addr=%q", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errutil.With(err)
	}
	log.Printf("at=serve-stopped addr=%q", addr)
	return nil
}

var indexTmpl = template.Must(template.New("index").Parse(`
<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <style type="text/css">
      body { font-family: sans-serif }
      img { max-width: 100%; display: block; margin: 10px 0 }
    </style>
  </head>
  <body>
    <p>{{.Family}} ({{.Source}})</p>
    <img src="/chart.png?{{.Query}}"/>
    <img src="/trend.png?{{.Query}}"/>
    <pre>{{.Stats}}</pre>
  </body>
</html>
`))

// newServeMux serves views of s:
//
//	/            index page
//	/chart.png   full report
//	/trend.png   lightweight trend chart
//	/prices.csv  prices, as read by pricefeed.Client
//	/font        active font as JSON
//
// All but /font accept begin and end query values in YYYYMMDD form.
func newServeMux(s price.Series, st cjkfont.State) *http.ServeMux {
	s = s.Clean()
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		rs, ok := queryRange(w, r, s)
		if !ok {
			return
		}
		sum, err := price.Summarize(rs)
		if err != nil {
			http.Error(w, "no data in range", http.StatusNotFound)
			return
		}

		data := struct {
			Family string
			Source cjkfont.Source
			Query  template.URL
			Stats  string
		}{st.Family, st.Source, template.URL(r.URL.RawQuery), newStatsText(sum).String()}

		if err := indexTmpl.Execute(w, data); err != nil {
			log.Println(err)
		}
	})

	mux.HandleFunc("/chart.png", func(w http.ResponseWriter, r *http.Request) {
		rs, ok := queryRange(w, r, s)
		if !ok {
			return
		}
		if len(rs) == 0 {
			http.Error(w, "no data in range", http.StatusNotFound)
			return
		}
		opts, ok := chartOptions(r.URL.Query())
		if !ok {
			http.Error(w, "bad size", http.StatusBadRequest)
			return
		}

		b, err := renderPNG(rs, opts, st)
		if err != nil {
			log.Printf("at=chart err=%q", err)
			http.Error(w, "can't make chart", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Write(b)
	})

	mux.HandleFunc("/trend.png", func(w http.ResponseWriter, r *http.Request) {
		rs, ok := queryRange(w, r, s)
		if !ok {
			return
		}
		if len(rs) == 0 {
			http.Error(w, "no data in range", http.StatusNotFound)
			return
		}

		var b bytes.Buffer
		if err := trendChart(&b, rs, st, 1024, 512); err != nil {
			log.Printf("at=trend err=%q", err)
			http.Error(w, "can't make chart", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Write(b.Bytes())
	})

	mux.HandleFunc("/prices.csv", func(w http.ResponseWriter, r *http.Request) {
		rs, ok := queryRange(w, r, s)
		if !ok {
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		if err := price.WriteCSV(w, rs); err != nil {
			log.Println(err)
		}
	})

	mux.HandleFunc("/font", func(w http.ResponseWriter, r *http.Request) {
		out := struct {
			Family   string         `json:"family"`
			Path     string         `json:"path,omitempty"`
			Source   cjkfont.Source `json:"source"`
			Fallback bool           `json:"fallback"`
			Reason   string         `json:"reason,omitempty"`
		}{st.Family, st.Path, st.Source, st.Fallback(), st.Reason}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(out); err != nil {
			log.Println(err)
		}
	})

	return mux
}

// queryRange returns the days of s in the begin and end query values of r.
// It writes an error and returns false when they can't be parsed.
func queryRange(w http.ResponseWriter, r *http.Request, s price.Series) (price.Series, bool) {
	var begin, end time.Time
	for _, v := range []struct {
		name string
		t    *time.Time
	}{{"begin", &begin}, {"end", &end}} {
		qv := r.URL.Query().Get(v.name)
		if qv == "" {
			continue
		}
		t, err := time.Parse(pricefeed.RequestDateFormat, qv)
		if err != nil {
			http.Error(w, "bad "+v.name+" date", http.StatusBadRequest)
			return nil, false
		}
		*v.t = t
	}
	if !begin.IsZero() && !end.IsZero() && end.Before(begin) {
		http.Error(w, "end before begin", http.StatusBadRequest)
		return nil, false
	}
	return s.Between(begin, end), true
}

const (
	maxChartInches = 50
	maxChartDPI    = 600
	maxChartPixels = 40_000_000
)

// chartOptions reads report options from q. Sizes that are not finite,
// not positive or too large to rasterize are rejected.
func chartOptions(q url.Values) (reportOptions, bool) {
	w := queryFloat(q.Get("width"), 20)
	h := queryFloat(q.Get("height"), 15)
	dpi := queryFloat(q.Get("dpi"), 96)

	for _, v := range []float64{w, h, dpi} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return reportOptions{}, false
		}
	}
	if w > maxChartInches || h > maxChartInches || dpi < 1 || dpi > maxChartDPI {
		return reportOptions{}, false
	}
	if (w*dpi)*(h*dpi) > maxChartPixels {
		return reportOptions{}, false
	}

	return reportOptions{
		width:  vg.Length(w) * vg.Inch,
		height: vg.Length(h) * vg.Inch,
		dpi:    int(dpi),
		labels: q.Get("labels") != "false",
		cards:  q.Get("cards") == "true",
	}, true
}

func queryFloat(s string, def float64) float64 {
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return -1
	}
	return f
}
