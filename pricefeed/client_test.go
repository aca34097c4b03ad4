package pricefeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"testing"
	"time"

	"github.com/danp/pricechart/price"
	"github.com/google/go-cmp/cmp"
)

func TestGetSeries(t *testing.T) {
	var (
		begin = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
		end   = time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)
	)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got, want := r.Method, "GET"; got != want {
			t.Errorf("got method %q, want %q", got, want)
		}

		if got, want := r.URL.Path, "/base/prices.csv"; got != want {
			t.Errorf("got path %q, want %q", got, want)
		}

		wantValues := url.Values{
			"begin": []string{"20250701"},
			"end":   []string{"20250702"},
		}
		if got := r.URL.Query(); !reflect.DeepEqual(got, wantValues) {
			t.Errorf("got query values\n%+v\nwant\n%+v", got, wantValues)
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("日期,日前均价,实时均价\n2025-07-02,200.00,190.00\n2025-07-01,100.00,110.00\n"))
	}))
	defer ts.Close()

	cl := Client{
		BaseURL: ts.URL + "/base",
	}

	got, err := cl.GetSeries(context.Background(), begin, end)
	if err != nil {
		t.Fatal(err)
	}

	want := price.Series{
		{Date: begin, DayAhead: 100, RealTime: 110},
		{Date: end, DayAhead: 200, RealTime: 190},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Error(d)
	}
}

func TestGetSeries_OpenRange(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.RawQuery; got != "" {
			t.Errorf("got query %q, want none", got)
		}
		w.Write([]byte("2025-07-01,100,110\n"))
	}))
	defer ts.Close()

	got, err := Client{BaseURL: ts.URL}.GetSeries(context.Background(), time.Time{}, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("got %d days, want 1", len(got))
	}
}

func TestGetSeries_BadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer ts.Close()

	cl := Client{BaseURL: ts.URL}
	if _, err := cl.GetSeries(context.Background(), time.Time{}, time.Time{}); err == nil {
		t.Fatal("want error for bad status")
	}
}
