// Package app assembles the stock service from configuration.
package app

import (
	"fmt"
	"time"

	"stocktracker/internal/ath"
	"stocktracker/internal/cache"
	"stocktracker/internal/config"
	"stocktracker/internal/httpx"
	"stocktracker/internal/instrument"
	"stocktracker/internal/logging"
	"stocktracker/internal/provider"
	"stocktracker/internal/provider/kite"
	"stocktracker/internal/provider/ratelimit"
	"stocktracker/internal/provider/yahoo"
	"stocktracker/internal/stock"
)

type App struct {
	Config   config.Config
	Log      *logging.Logger
	Registry *instrument.Registry
	Sources  []provider.Source
	Service  *stock.Service
}

// New wires upstreams in fallback order: chart API primary, chart API mirror,
// then the broker when credentials are present.
func New(cfg config.Config, log *logging.Logger) (*App, error) {
	if log == nil {
		log = logging.NewSilent()
	}
	sources, err := Sources(cfg, log)
	if err != nil {
		return nil, err
	}

	quotes := make([]provider.QuoteProvider, len(sources))
	histories := make([]provider.HistoryProvider, len(sources))
	for i, s := range sources {
		quotes[i] = s
		histories[i] = s
	}
	if len(sources) == 0 {
		log.Warn().Msg("no upstream enabled; every query will be answered with demo data")
	}

	registry := instrument.Default()
	svc := stock.New(registry,
		stock.WithQuoteProviders(quotes...),
		stock.WithHistoryProviders(histories...),
		stock.WithQuoteCache(cache.New[provider.Quote](cfg.QuoteTTL(), cache.WithMaxItems(cfg.Cache.MaxItems))),
		stock.WithATHCache(cache.New[ath.AllTimeHigh](cfg.ATHTTL(), cache.WithMaxItems(cfg.Cache.MaxItems))),
		stock.WithLogger(log.Named("stock")),
	)
	return &App{Config: cfg, Log: log, Registry: registry, Sources: sources, Service: svc}, nil
}

// Sources builds the enabled upstreams, each behind its rate limiter.
func Sources(cfg config.Config, log *logging.Logger) ([]provider.Source, error) {
	var sources []provider.Source

	// the http.Client timeout is a backstop above the per-request deadlines
	base := httpx.New(time.Duration(config.MaxProviderTimeoutSec+5) * time.Second)

	if cfg.Yahoo.Enabled {
		chartHTTP := base.WithHeaders(nil)
		chartHTTP.UserAgent = httpx.BrowserUserAgent
		opts := []yahoo.ClientOption{
			yahoo.WithHTTPClient(chartHTTP),
			yahoo.WithTimeouts(seconds(cfg.Yahoo.QuoteTimeoutSec), seconds(cfg.Yahoo.HistoryTimeoutSec)),
		}
		primary := yahoo.NewPrimary(append(opts, yahoo.WithBaseURL(cfg.Yahoo.PrimaryURL))...)
		mirror := yahoo.NewMirror(append(opts, yahoo.WithBaseURL(cfg.Yahoo.MirrorURL))...)
		sources = append(sources,
			limit(primary, cfg.Yahoo.MaxRequestsPerMinute, cfg.Yahoo.Burst),
			limit(mirror, cfg.Yahoo.MaxRequestsPerMinute, cfg.Yahoo.Burst),
		)
	}

	if cfg.Kite.Enabled {
		if !cfg.Kite.HasCredentials() {
			log.Warn().Msg("kite.enabled=true but KITE_API_KEY/KITE_ACCESS_TOKEN not set; skipping")
		} else {
			client, err := kite.NewClient(cfg.Kite.APIKey, cfg.Kite.AccessToken,
				kite.WithHTTPClient(base),
				kite.WithBaseURL(cfg.Kite.BaseURL),
			)
			if err != nil {
				return nil, fmt.Errorf("kite client: %w", err)
			}
			broker := kite.NewProvider(client,
				kite.WithTimeout(seconds(cfg.Kite.TimeoutSec)),
				kite.WithLookbackYears(cfg.Kite.LookbackYears),
			)
			sources = append(sources, limit(broker, cfg.Kite.MaxRequestsPerMinute, cfg.Kite.Burst,
				millis(cfg.Kite.MinQuoteIntervalMs), millis(cfg.Kite.MinHistoryIntervalMs)))
		}
	}

	for _, s := range sources {
		log.Info().Str("provider", s.Name()).Msg("upstream enabled")
	}
	return sources, nil
}

func limitYahoo(s provider.Source, c config.Yahoo) provider.Source {
	return limit(s, c.MaxRequestsPerMinute, c.Burst, millis(c.MinQuoteIntervalMs), millis(c.MinHistoryIntervalMs))
}

// limit applies a per-minute budget, or failing that minimum spacing per call
// kind. With neither set the source is unlimited.
func limit(s provider.Source, perMinute, burst int, quoteGap, historyGap time.Duration) provider.Source {
	switch {
	case perMinute > 0:
		return ratelimit.New(s, float64(perMinute)/60.0, burst)
	case quoteGap > 0 || historyGap > 0:
		return ratelimit.MinInterval(s, quoteGap, historyGap)
	default:
		return s
	}
}

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }
func millis(n int) time.Duration  { return time.Duration(n) * time.Millisecond }
