package yahoo

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"stocktracker/internal/instrument"
	"stocktracker/internal/provider"
)

// FetchSeries returns daily closes. With a zero window it asks for the full
// listing history; a zero from alone starts at the epoch.
func (c *Client) FetchSeries(ctx context.Context, inst instrument.Instrument, from, to time.Time) ([]provider.Bar, error) {
	ctx, cancel := context.WithTimeout(ctx, c.historyTimeout)
	defer cancel()

	query := url.Values{}
	query.Set("interval", "1d")
	if from.IsZero() && to.IsZero() {
		query.Set("range", "max")
	} else {
		if to.IsZero() {
			to = c.now()
		}
		// the chart API rejects periods before the epoch
		start := int64(0)
		if !from.IsZero() {
			start = max(from.Unix(), 0)
		}
		query.Set("period1", strconv.FormatInt(start, 10))
		query.Set("period2", strconv.FormatInt(to.Unix(), 10))
	}

	result, err := c.getChart(ctx, inst.Symbol, query)
	if err != nil {
		return nil, err
	}
	return c.barsFrom(inst, result)
}

func (c *Client) barsFrom(inst instrument.Instrument, r *chartResult) ([]provider.Bar, error) {
	if len(r.Timestamp) == 0 || len(r.Indicators.Quote) == 0 {
		return nil, provider.Malformed(c.name, "no history for %s", inst.Symbol)
	}
	series := r.Indicators.Quote[0]
	if series.Close == nil || series.Volume == nil {
		return nil, provider.Malformed(c.name, "history for %s lacks close or volume", inst.Symbol)
	}

	bars := make([]provider.Bar, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		bar := provider.Bar{Date: time.Unix(ts, 0).UTC()}
		if i < len(series.Close) {
			bar.Close = series.Close[i]
		}
		if i < len(series.Volume) && series.Volume[i] != nil {
			bar.Volume = int64(*series.Volume[i])
		}
		bars = append(bars, bar)
	}
	return bars, nil
}
