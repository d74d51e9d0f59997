// Package stock answers price and all-time-high queries by walking ordered
// provider chains, caching what they return and falling back to demo data.
package stock

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"stocktracker/internal/aggregate"
	"stocktracker/internal/ath"
	"stocktracker/internal/cache"
	"stocktracker/internal/demo"
	"stocktracker/internal/instrument"
	"stocktracker/internal/logging"
	"stocktracker/internal/provider"
)

//go:generate mockgen -package=stock_test -destination=mock_provider_test.go stocktracker/internal/provider QuoteProvider,HistoryProvider

const (
	DefaultQuoteTTL = 30 * time.Second
	DefaultATHTTL   = 24 * time.Hour
)

var (
	// ErrInvalidRequest is returned for a blank symbol.
	ErrInvalidRequest = errors.New("stock: symbol is required")
	// ErrNoData is returned by History when every history provider failed.
	ErrNoData = errors.New("stock: no data available")
)

// Fallback fabricates a result when no quote provider answers.
type Fallback interface {
	Generate(symbol string, now time.Time) aggregate.Result
}

// Service orchestrates the quote and history chains.
type Service struct {
	registry  *instrument.Registry
	quotes    []provider.QuoteProvider
	histories []provider.HistoryProvider

	quoteCache *cache.Store[provider.Quote]
	athCache   *cache.Store[ath.AllTimeHigh]

	fallback Fallback
	now      func() time.Time
	log      *logging.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithQuoteProviders sets the quote chain, tried in order.
func WithQuoteProviders(p ...provider.QuoteProvider) Option {
	return func(s *Service) { s.quotes = p }
}

// WithHistoryProviders sets the history chain, tried in order.
func WithHistoryProviders(p ...provider.HistoryProvider) Option {
	return func(s *Service) { s.histories = p }
}

func WithQuoteCache(c *cache.Store[provider.Quote]) Option {
	return func(s *Service) { s.quoteCache = c }
}

func WithATHCache(c *cache.Store[ath.AllTimeHigh]) Option {
	return func(s *Service) { s.athCache = c }
}

func WithFallback(f Fallback) Option {
	return func(s *Service) { s.fallback = f }
}

// WithClock replaces time.Now for demo timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(l *logging.Logger) Option {
	return func(s *Service) { s.log = l }
}

// New builds a service over registry. Without providers every query is
// answered with demo data.
func New(registry *instrument.Registry, opts ...Option) *Service {
	s := &Service{
		registry:   registry,
		quoteCache: cache.New[provider.Quote](DefaultQuoteTTL),
		athCache:   cache.New[ath.AllTimeHigh](DefaultATHTTL),
		fallback:   demo.New(),
		now:        time.Now,
		log:        logging.NewSilent(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Symbols lists the supported instruments.
func (s *Service) Symbols() []instrument.Instrument {
	return s.registry.All()
}

// Query returns the merged result for symbol. Provider failures never surface
// as errors: the caller gets a live result, possibly without an all-time high,
// or a demo result. The only error is ErrInvalidRequest.
func (s *Service) Query(ctx context.Context, symbol string) (aggregate.Result, error) {
	if strings.TrimSpace(symbol) == "" {
		return aggregate.Failed(symbol), ErrInvalidRequest
	}
	inst := s.registry.Lookup(symbol)

	var (
		quote   provider.Quote
		quoteOK bool
		high    ath.AllTimeHigh
		highOK  bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		quote, quoteOK = s.quote(gctx, inst)
		return nil
	})
	g.Go(func() error {
		high, highOK = s.allTimeHigh(gctx, inst)
		return nil
	})
	_ = g.Wait()

	if !quoteOK {
		s.log.Warn().Str("symbol", inst.Symbol).Msg("all quote providers failed, serving demo data")
		return s.fallback.Generate(inst.Symbol, s.now()), nil
	}
	if !highOK {
		return aggregate.Live(quote, nil), nil
	}
	return aggregate.Live(quote, &high), nil
}

func quoteKey(inst instrument.Instrument) string { return "PRICE_" + inst.Key }
func athKey(inst instrument.Instrument) string   { return "ATH_" + inst.Key }

func (s *Service) quote(ctx context.Context, inst instrument.Instrument) (provider.Quote, bool) {
	key := quoteKey(inst)
	if q, ok := s.quoteCache.Get(key); ok {
		s.log.Debug().Str("key", key).Msg("quote cache hit")
		return q, true
	}
	for _, p := range s.quotes {
		q, err := p.FetchQuote(ctx, inst)
		if err != nil {
			s.log.Warn().Err(err).Stringer("kind", provider.KindOf(err)).Str("provider", p.Name()).Str("symbol", inst.Symbol).Msg("quote fetch failed")
			continue
		}
		s.quoteCache.Set(key, q)
		s.log.Info().Str("provider", p.Name()).Str("symbol", inst.Symbol).Float64("price", q.Price).Msg("live quote")
		return q, true
	}
	return provider.Quote{}, false
}

func (s *Service) allTimeHigh(ctx context.Context, inst instrument.Instrument) (ath.AllTimeHigh, bool) {
	key := athKey(inst)
	if a, ok := s.athCache.Get(key); ok {
		s.log.Debug().Str("key", key).Msg("ath cache hit")
		return a, true
	}
	for _, p := range s.histories {
		series, err := p.FetchSeries(ctx, inst, time.Time{}, time.Time{})
		if err != nil {
			s.log.Warn().Err(err).Stringer("kind", provider.KindOf(err)).Str("provider", p.Name()).Str("symbol", inst.Symbol).Msg("history fetch failed")
			continue
		}
		a, ok := ath.Compute(series)
		if !ok {
			s.log.Warn().Str("provider", p.Name()).Str("symbol", inst.Symbol).Int("bars", len(series)).Msg("history has no traded closes")
			continue
		}
		s.athCache.Set(key, a)
		return a, true
	}
	s.log.Warn().Str("symbol", inst.Symbol).Msg("no all-time high available")
	return ath.AllTimeHigh{}, false
}

// HistoryResult is an uncached history dump.
type HistoryResult struct {
	Provider    string           `json:"provider"`
	Symbol      string           `json:"symbol"`
	Bars        []provider.Bar   `json:"bars"`
	AllTimeHigh *ath.AllTimeHigh `json:"allTimeHigh,omitempty"`
}

// History walks the history chain for an explicit window and returns the first
// series any provider produces. Zero from/to select each provider's default.
func (s *Service) History(ctx context.Context, symbol string, from, to time.Time) (HistoryResult, error) {
	if strings.TrimSpace(symbol) == "" {
		return HistoryResult{}, ErrInvalidRequest
	}
	inst := s.registry.Lookup(symbol)

	var errs []error
	for _, p := range s.histories {
		series, err := p.FetchSeries(ctx, inst, from, to)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		res := HistoryResult{Provider: p.Name(), Symbol: inst.Symbol, Bars: series}
		if a, ok := ath.Compute(series); ok {
			res.AllTimeHigh = &a
		}
		return res, nil
	}
	if len(errs) == 0 {
		return HistoryResult{}, fmt.Errorf("%w for %s", ErrNoData, inst.Symbol)
	}
	return HistoryResult{}, fmt.Errorf("%w for %s: %w", ErrNoData, inst.Symbol, errors.Join(errs...))
}
