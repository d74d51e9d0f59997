package kite

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"stocktracker/internal/marketclock"
)

var ist = marketclock.Location

// Session is the slice of the broker API the provider needs.
//
//go:generate mockgen -package=kite_test -destination=mock_session_test.go -source=session.go Session
type Session interface {
	GetQuote(ctx context.Context, instruments ...string) (map[string]QuoteData, error)
	GetHistoricalData(ctx context.Context, token uint32, from, to time.Time) ([]Candle, error)
}

// OHLC is the day's range. Close is the previous session's close.
type OHLC struct {
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// QuoteData is one entry of the /quote response.
type QuoteData struct {
	InstrumentToken uint32  `json:"instrument_token"`
	LastPrice       float64 `json:"last_price"`
	Volume          int64   `json:"volume"`
	NetChange       float64 `json:"net_change"`
	OHLC            OHLC    `json:"ohlc"`
}

// Candle is one daily bar of the historical endpoint.
type Candle struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// UnmarshalJSON decodes the positional [ts, o, h, l, c, v] form.
func (c *Candle) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw) < 6 {
		return fmt.Errorf("candle has %d fields, want 6", len(raw))
	}
	var ts string
	if err := json.Unmarshal(raw[0], &ts); err != nil {
		return fmt.Errorf("candle timestamp: %w", err)
	}
	date, err := time.Parse("2006-01-02T15:04:05-0700", ts)
	if err != nil {
		return fmt.Errorf("candle timestamp: %w", err)
	}
	var vals [5]float64
	for i := range vals {
		if err := json.Unmarshal(raw[i+1], &vals[i]); err != nil {
			return fmt.Errorf("candle field %d: %w", i+1, err)
		}
	}
	*c = Candle{Date: date, Open: vals[0], High: vals[1], Low: vals[2], Close: vals[3], Volume: int64(vals[4])}
	return nil
}

// GetQuote fetches full quotes keyed by the instrument identifiers passed in.
func (c *Client) GetQuote(ctx context.Context, instruments ...string) (map[string]QuoteData, error) {
	query := url.Values{}
	for _, i := range instruments {
		query.Add("i", i)
	}
	out := map[string]QuoteData{}
	if err := c.get(ctx, "/quote", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetHistoricalData fetches daily candles for token between from and to.
func (c *Client) GetHistoricalData(ctx context.Context, token uint32, from, to time.Time) ([]Candle, error) {
	query := url.Values{}
	query.Set("from", formatDateTime(from))
	query.Set("to", formatDateTime(to))

	var out struct {
		Candles []Candle `json:"candles"`
	}
	path := "/instruments/historical/" + strconv.FormatUint(uint64(token), 10) + "/day"
	if err := c.get(ctx, path, query, &out); err != nil {
		return nil, err
	}
	return out.Candles, nil
}
