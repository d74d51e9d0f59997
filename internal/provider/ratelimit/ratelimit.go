package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"stocktracker/internal/instrument"
	"stocktracker/internal/provider"
)

// Source wraps a provider.Source and gates each call on a limiter.
// Quote and history calls can be gated separately since brokers publish
// different limits for them. Waiting returns early if the context is canceled.
type Source struct {
	P       provider.Source
	Quote   *rate.Limiter
	History *rate.Limiter
}

// New gates both call kinds with one limiter of perSecond requests and the given burst.
func New(p provider.Source, perSecond float64, burst int) *Source {
	if burst <= 0 {
		burst = 1
	}
	l := rate.NewLimiter(rate.Limit(perSecond), burst)
	return &Source{P: p, Quote: l, History: l}
}

// MinInterval enforces at least interval between calls of the same kind.
func MinInterval(p provider.Source, quote, history time.Duration) *Source {
	return &Source{
		P:       p,
		Quote:   rate.NewLimiter(rate.Every(quote), 1),
		History: rate.NewLimiter(rate.Every(history), 1),
	}
}

func (s *Source) Name() string { return s.P.Name() }

func (s *Source) FetchQuote(ctx context.Context, inst instrument.Instrument) (provider.Quote, error) {
	if err := wait(ctx, s.Quote); err != nil {
		return provider.Quote{}, provider.Classify(s.P.Name(), err)
	}
	return s.P.FetchQuote(ctx, inst)
}

func (s *Source) FetchSeries(ctx context.Context, inst instrument.Instrument, from, to time.Time) ([]provider.Bar, error) {
	if err := wait(ctx, s.History); err != nil {
		return nil, provider.Classify(s.P.Name(), err)
	}
	return s.P.FetchSeries(ctx, inst, from, to)
}

func wait(ctx context.Context, l *rate.Limiter) error {
	if l == nil {
		return nil
	}
	return l.Wait(ctx)
}
