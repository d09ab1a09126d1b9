package yahoo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
)

// userAgent is sent with every request, the API rejects requests without one.
const userAgent = "Mozilla/5.0 (compatible; folio/1.0)"

// chart is a decoded chart API response.
//
//	{"chart": {
//	  "result": [{
//	    "meta": {"currency": "USD", "symbol": "AAPL", "exchangeName": "NMS", "longName": "Apple Inc.", "gmtoffset": -14400, ...},
//	    "timestamp": [1719460800, ...],
//	    "indicators": {
//	      "quote": [{"close": [213.25, null, ...], ...}],
//	      "adjclose": [{"adjclose": [212.8, null, ...]}]
//	    }
//	  }],
//	  "error": null
//	}}
type chart struct {
	raw any // the whole document, for jsonpath lookups
	doc struct {
		Chart struct {
			Result []struct {
				Meta struct {
					GMTOffset int64 `json:"gmtoffset"`
				} `json:"meta"`
				Timestamp  []int64 `json:"timestamp"`
				Indicators struct {
					Quote []struct {
						Close []*float64 `json:"close"`
					} `json:"quote"`
					AdjClose []struct {
						AdjClose []*float64 `json:"adjclose"`
					} `json:"adjclose"`
				} `json:"indicators"`
			} `json:"result"`
			Error *struct {
				Code        string `json:"code"`
				Description string `json:"description"`
			} `json:"error"`
		} `json:"chart"`
	}
}

// fetchChart queries the chart of ticker from 'from' included to 'to' excluded.
func (p *Provider) fetchChart(ctx context.Context, ticker string, from, to date.Date, interval string) (*chart, error) {
	q := url.Values{}
	q.Set("period1", fmt.Sprint(from.Time().Unix()))
	q.Set("period2", fmt.Sprint(to.Time().Unix()))
	q.Set("interval", interval)
	q.Set("events", "div,splits")
	addr := fmt.Sprintf("%s/%s?%s", p.baseURL, url.PathEscape(ticker), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	log.Printf("%v %v%v %v", req.Method, req.URL.Host, req.URL.Path, resp.Status)

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, err
	}
	c := new(chart)
	// error responses carry a chart.error object, decode it before checking the status.
	if err := json.Unmarshal(buf.Bytes(), &c.doc); err == nil && c.doc.Chart.Error != nil {
		return nil, fmt.Errorf("%s: %s", c.doc.Chart.Error.Code, c.doc.Chart.Error.Description)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cannot http GET %v%v: %v", req.URL.Host, req.URL.Path, resp.Status)
	}
	if err := json.Unmarshal(buf.Bytes(), &c.doc); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(buf.Bytes(), &c.raw); err != nil {
		return nil, err
	}
	if len(c.doc.Chart.Result) == 0 {
		return nil, fmt.Errorf("no chart for %q", ticker)
	}
	return c, nil
}

// closes returns the adjusted closes, or the closes if there are no adjusted ones. Bars
// without a close are skipped.
func (c *chart) closes() (*date.History[float64], error) {
	r := c.doc.Chart.Result[0]
	var values []*float64
	switch {
	case len(r.Indicators.AdjClose) > 0 && len(r.Indicators.AdjClose[0].AdjClose) == len(r.Timestamp):
		values = r.Indicators.AdjClose[0].AdjClose
	case len(r.Indicators.Quote) > 0 && len(r.Indicators.Quote[0].Close) == len(r.Timestamp):
		values = r.Indicators.Quote[0].Close
	case len(r.Timestamp) == 0:
		return new(date.History[float64]), nil
	default:
		return nil, fmt.Errorf("chart has %d timestamps but no matching closes", len(r.Timestamp))
	}

	prices := new(date.History[float64])
	for i, ts := range r.Timestamp {
		if values[i] == nil {
			continue
		}
		// timestamps are the session open, shifted to the exchange time zone it is on the right day.
		day := date.FromTime(time.Unix(ts+r.Meta.GMTOffset, 0).UTC())
		prices.Append(day, *values[i])
	}
	return prices, nil
}

// asset returns the metadata found in the chart meta object.
func (c *chart) asset(ticker string) folio.Asset {
	a := folio.Asset{
		Ticker:   ticker,
		Name:     c.lookup("$.chart.result[0].meta.longName"),
		Exchange: c.lookup("$.chart.result[0].meta.fullExchangeName"),
	}
	if a.Name == "" {
		a.Name = c.lookup("$.chart.result[0].meta.shortName")
	}
	if a.Exchange == "" {
		a.Exchange = c.lookup("$.chart.result[0].meta.exchangeName")
	}
	if code := folio.NormalizeCurrency(c.lookup("$.chart.result[0].meta.currency")); code != "" {
		if err := folio.ValidateCurrency(code); err != nil {
			log.Printf("ignored currency of %q: %v", ticker, err)
		} else {
			a.Currency = code
		}
	}
	return a
}

// lookup returns the string at path, or "" if there is none.
func (c *chart) lookup(path string) string {
	v, err := jsonpath.Get(path, c.raw)
	if err != nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
