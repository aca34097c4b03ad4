package main

import (
	"context"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/danp/pricechart/price"
	"github.com/danp/pricechart/pricefeed"
	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/plot/cmpimg"
	"gonum.org/v1/plot/vg"
)

func TestServe(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(newServeMux(smallSeries(), fallbackFont(t)))
	t.Cleanup(srv.Close)

	get := func(t *testing.T, path string) *http.Response {
		t.Helper()
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	t.Run("Prices", func(t *testing.T) {
		cl := pricefeed.Client{BaseURL: srv.URL}
		got, err := cl.GetSeries(context.Background(), day(7, 2), day(7, 3))
		if err != nil {
			t.Fatal(err)
		}
		if d := cmp.Diff(smallSeries()[1:], got); d != "" {
			t.Error(d)
		}
	})

	t.Run("PricesEmptyRange", func(t *testing.T) {
		resp := get(t, "/prices.csv?begin=20250801")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d", resp.StatusCode)
		}
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatal(err)
		}
		if got, want := string(b), "日期,日前均价,实时均价\n"; got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("Font", func(t *testing.T) {
		resp := get(t, "/font")
		var got map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
			t.Fatal(err)
		}
		if got["family"] != "Liberation" || got["source"] != "default" || got["fallback"] != true {
			t.Errorf("unexpected font: %v", got)
		}
		if _, ok := got["path"]; ok {
			t.Errorf("default font has no path: %v", got)
		}
	})

	t.Run("Chart", func(t *testing.T) {
		resp := get(t, "/chart.png?width=8&height=6&dpi=30&labels=false")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d", resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
			t.Errorf("content type %q", ct)
		}
		img, err := png.Decode(resp.Body)
		if err != nil {
			t.Fatal(err)
		}
		if got, want := img.Bounds().Dx(), 240+2*padding; got != want {
			t.Errorf("width = %d, want %d", got, want)
		}
	})

	t.Run("ChartMatchesRender", func(t *testing.T) {
		resp := get(t, "/chart.png?width=8&height=6&dpi=30&labels=false")
		got, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatal(err)
		}

		opts := reportOptions{width: 8 * vg.Inch, height: 6 * vg.Inch, dpi: 30}
		want, err := renderPNG(smallSeries(), opts, fallbackFont(t))
		if err != nil {
			t.Fatal(err)
		}

		ok, err := cmpimg.EqualApprox("png", got, want, 0.05)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Error("served chart differs from rendered report")
		}
	})

	t.Run("Trend", func(t *testing.T) {
		resp := get(t, "/trend.png")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d", resp.StatusCode)
		}
		if _, err := png.Decode(resp.Body); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("Index", func(t *testing.T) {
		resp := get(t, "/?begin=20250701")
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatal(err)
		}
		for _, want := range []string{"Liberation (default)", `/chart.png?begin=20250701`, "--- 核心统计摘要 ---"} {
			if !strings.Contains(string(b), want) {
				t.Errorf("index missing %q", want)
			}
		}
	})

	cases := []struct {
		path   string
		status int
	}{
		{"/chart.png?begin=junk", http.StatusBadRequest},
		{"/prices.csv?end=2025", http.StatusBadRequest},
		{"/trend.png?begin=20250703&end=20250701", http.StatusBadRequest},
		{"/chart.png?begin=20250801", http.StatusNotFound},
		{"/trend.png?end=20250601", http.StatusNotFound},
		{"/chart.png?dpi=0", http.StatusBadRequest},
		{"/chart.png?width=wide", http.StatusBadRequest},
		{"/chart.png?width=NaN", http.StatusBadRequest},
		{"/chart.png?width=Inf", http.StatusBadRequest},
		{"/chart.png?height=-Inf", http.StatusBadRequest},
		{"/chart.png?dpi=NaN", http.StatusBadRequest},
		{"/chart.png?dpi=0.5", http.StatusBadRequest},
		{"/chart.png?width=100000", http.StatusBadRequest},
		{"/chart.png?height=51", http.StatusBadRequest},
		{"/chart.png?dpi=601", http.StatusBadRequest},
		{"/chart.png?width=50&height=50&dpi=600", http.StatusBadRequest},
		{"/?begin=20250801", http.StatusNotFound},
		{"/nope", http.StatusNotFound},
	}
	for _, c := range cases {
		t.Run("Status"+c.path, func(t *testing.T) {
			if got := get(t, c.path).StatusCode; got != c.status {
				t.Errorf("status = %d, want %d", got, c.status)
			}
		})
	}
}

func TestChartOptions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		query string
		want  reportOptions
		ok    bool
	}{
		{"", reportOptions{width: 20 * vg.Inch, height: 15 * vg.Inch, dpi: 96, labels: true}, true},
		{"width=10&height=5&dpi=150&labels=false&cards=true", reportOptions{width: 10 * vg.Inch, height: 5 * vg.Inch, dpi: 150, cards: true}, true},
		{"width=50&height=40&dpi=100", reportOptions{width: 50 * vg.Inch, height: 40 * vg.Inch, dpi: 100, labels: true}, true},
		{"width=NaN", reportOptions{}, false},
		{"height=Inf", reportOptions{}, false},
		{"dpi=-Inf", reportOptions{}, false},
		{"width=0", reportOptions{}, false},
		{"width=50.5", reportOptions{}, false},
		{"width=50&height=50&dpi=200", reportOptions{}, false},
	}
	for _, c := range cases {
		t.Run(c.query, func(t *testing.T) {
			q, err := url.ParseQuery(c.query)
			if err != nil {
				t.Fatal(err)
			}
			got, ok := chartOptions(q)
			if ok != c.ok {
				t.Fatalf("ok = %v, want %v", ok, c.ok)
			}
			if d := cmp.Diff(c.want, got, cmp.AllowUnexported(reportOptions{})); d != "" {
				t.Error(d)
			}
		})
	}
}

func TestServeExecStops(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		errc <- serveExec(ctx, "127.0.0.1:0", http.NotFoundHandler())
	}()
	cancel()

	select {
	case err := <-errc:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("serveExec did not return after cancel")
	}
}

func TestServeDemo(t *testing.T) {
	t.Parallel()

	h := newServeMux(price.Demo(), goFont(t))

	req := httptest.NewRequest(http.MethodGet, "/prices.csv?begin=20250801", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	got, err := price.ReadCSV(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("got %d days, want 2", len(got))
	}
}
