package kite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stocktracker/internal/instrument"
	"stocktracker/internal/provider"
)

const (
	DefaultTimeout       = 10 * time.Second
	DefaultLookbackYears = 5
)

// Provider adapts a Session to provider.QuoteProvider and provider.HistoryProvider.
type Provider struct {
	session       Session
	name          string
	timeout       time.Duration
	lookbackYears int
	now           func() time.Time
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithTimeout bounds each broker call. Non-positive values keep the default.
func WithTimeout(d time.Duration) ProviderOption {
	return func(p *Provider) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithLookbackYears sets the default history window.
func WithLookbackYears(years int) ProviderOption {
	return func(p *Provider) {
		if years > 0 {
			p.lookbackYears = years
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ProviderOption {
	return func(p *Provider) {
		p.now = now
	}
}

// NewProvider wraps session.
func NewProvider(session Session, options ...ProviderOption) *Provider {
	p := &Provider{
		session:       session,
		name:          "kite",
		timeout:       DefaultTimeout,
		lookbackYears: DefaultLookbackYears,
		now:           time.Now,
	}
	for _, option := range options {
		option(p)
	}
	return p
}

func (p *Provider) Name() string { return p.name }

// FetchQuote reads last price and the previous close from the broker quote.
func (p *Provider) FetchQuote(ctx context.Context, inst instrument.Instrument) (provider.Quote, error) {
	if !inst.HasToken() {
		return provider.Quote{}, provider.Unavailable(p.name, "no instrument token for %s", inst.Symbol)
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	quotes, err := p.session.GetQuote(ctx, inst.TokenString())
	if err != nil {
		return provider.Quote{}, p.classify(err)
	}
	q, ok := quotes[inst.TokenString()]
	if !ok {
		return provider.Quote{}, provider.Malformed(p.name, "quote for %s missing from response", inst.Symbol)
	}
	if q.LastPrice <= 0 || q.OHLC.Close <= 0 {
		return provider.Quote{}, provider.Malformed(p.name, "non-positive price for %s", inst.Symbol)
	}

	now := p.now()
	return provider.NewQuote(provider.QuoteInput{
		Symbol:        inst.Symbol,
		Price:         q.LastPrice,
		PreviousClose: q.OHLC.Close,
		DayHigh:       q.OHLC.High,
		DayLow:        q.OHLC.Low,
		Volume:        q.Volume,
		MarketState:   provider.StateAt(now),
		Currency:      "INR",
		At:            now,
	}), nil
}

// FetchSeries returns daily closes. A zero window means the last
// lookbackYears years up to now.
func (p *Provider) FetchSeries(ctx context.Context, inst instrument.Instrument, from, to time.Time) ([]provider.Bar, error) {
	if !inst.HasToken() {
		return nil, provider.Unavailable(p.name, "no instrument token for %s", inst.Symbol)
	}
	if to.IsZero() {
		to = p.now()
	}
	if from.IsZero() {
		from = to.AddDate(-p.lookbackYears, 0, 0)
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	candles, err := p.session.GetHistoricalData(ctx, inst.Token, from, to)
	if err != nil {
		return nil, p.classify(err)
	}
	if len(candles) == 0 {
		return nil, provider.Malformed(p.name, "no candles for %s", inst.Symbol)
	}

	bars := make([]provider.Bar, len(candles))
	for i, c := range candles {
		closePrice := c.Close
		bars[i] = provider.Bar{Date: c.Date.UTC(), Close: &closePrice, Volume: c.Volume}
	}
	return bars, nil
}

func (p *Provider) classify(err error) error {
	if errors.Is(err, ErrMalformedResponse) {
		return &provider.FetchError{Provider: p.name, Kind: provider.KindMalformed, Err: err}
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.IsTokenError() {
		// access tokens expire daily and must be regenerated outside this process
		return &provider.FetchError{Provider: p.name, Kind: provider.KindUnavailable, Err: fmt.Errorf("%w; renew KITE_ACCESS_TOKEN", err)}
	}
	return provider.Classify(p.name, err)
}
