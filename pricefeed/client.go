// Package pricefeed fetches daily prices from a pricechart server.
package pricefeed

import (
	"context"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/danp/pricechart/price"
	"github.com/graxinc/errutil"
)

const (
	// DefaultBaseURL is used by Client when Client.BaseURL is blank.
	// It's expected this URL will serve GET /prices.csv requests, as
	// pricechart serve does.
	DefaultBaseURL = "http://127.0.0.1:8080"

	// RequestDateFormat is the form of the begin and end query values.
	RequestDateFormat = "20060102"
)

// Client is a price feed client.
type Client struct {
	// Transport is the http.RoundTripper to use for making requests.
	// If nil, http.DefaultTransport is used.
	Transport http.RoundTripper

	// BaseURL is the base URL to use for requests.
	// If blank, DefaultBaseURL is used.
	BaseURL string
}

// GetSeries returns the days between begin and end, inclusive.
// A zero begin or end leaves that side of the range open.
func (c Client) GetSeries(ctx context.Context, begin, end time.Time) (price.Series, error) {
	u, err := c.baseURL()
	if err != nil {
		return nil, errutil.With(err)
	}
	u.Path = path.Join(u.Path, "/prices.csv")

	q := make(url.Values)
	if !begin.IsZero() {
		q.Set("begin", begin.Format(RequestDateFormat))
	}
	if !end.IsZero() {
		q.Set("end", end.Format(RequestDateFormat))
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errutil.With(err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := c.do(req)
	if err != nil {
		return nil, errutil.With(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errutil.New(errutil.Tags{"msg": "bad status", "url": u.String(), "status": resp.StatusCode})
	}

	s, err := price.ReadCSV(resp.Body)
	if err != nil {
		return nil, errutil.With(err)
	}
	return s, nil
}

func (c Client) do(req *http.Request) (*http.Response, error) {
	tr := c.Transport
	if tr == nil {
		tr = http.DefaultTransport
	}
	return tr.RoundTrip(req)
}

func (c Client) baseURL() (*url.URL, error) {
	burl := c.BaseURL
	if burl == "" {
		burl = DefaultBaseURL
	}

	return url.Parse(burl)
}
