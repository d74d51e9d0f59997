package provider

import (
	"context"
	"time"

	"stocktracker/internal/instrument"
	"stocktracker/internal/marketclock"
)

// MarketState labels the trading session a quote was taken in.
type MarketState string

const (
	StateRegular MarketState = "REGULAR"
	StateClosed  MarketState = "CLOSED"
	StateUnknown MarketState = "UNKNOWN"
)

// StateAt derives the session state from the exchange clock.
func StateAt(t time.Time) MarketState {
	if marketclock.IsOpen(t) {
		return StateRegular
	}
	return StateClosed
}

// Quote is the normalized shape returned by all quote providers.
// Monetary fields are rounded to 2 decimals; ChangePercent is already scaled by 100.
type Quote struct {
	Price         float64     `json:"price"`
	PreviousClose float64     `json:"previousClose"`
	Change        float64     `json:"change"`
	ChangePercent float64     `json:"changePercent"`
	DayHigh       float64     `json:"dayHigh"`
	DayLow        float64     `json:"dayLow"`
	Volume        int64       `json:"volume"`
	MarketState   MarketState `json:"marketState"`
	Currency      string      `json:"currency"`
	Symbol        string      `json:"symbol"`
	Timestamp     time.Time   `json:"timestamp"`
}

// Bar is one daily point of a price history. Close is nil when the upstream
// reported no close for that day.
type Bar struct {
	Date   time.Time `json:"date"`
	Close  *float64  `json:"close"`
	Volume int64     `json:"volume"`
}

// QuoteProvider fetches the current quote for one instrument.
type QuoteProvider interface {
	Name() string
	FetchQuote(ctx context.Context, inst instrument.Instrument) (Quote, error)
}

// HistoryProvider fetches an ordered daily close series. Zero from/to select
// the provider's default window.
type HistoryProvider interface {
	Name() string
	FetchSeries(ctx context.Context, inst instrument.Instrument, from, to time.Time) ([]Bar, error)
}

// Source is an upstream that serves both quotes and history.
type Source interface {
	QuoteProvider
	HistoryProvider
}
