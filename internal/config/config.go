package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Provider deadlines are kept inside this window.
const (
	MinProviderTimeoutSec = 8
	MaxProviderTimeoutSec = 15
)

type Server struct {
	Port              string `json:"port" yaml:"port"`
	RequestTimeoutSec int    `json:"request_timeout_sec" yaml:"request_timeout_sec"`
}

type Logging struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"` // "json" or "console"
}

type Cache struct {
	QuoteTTLSec int `json:"quote_ttl_sec" yaml:"quote_ttl_sec"`
	ATHTTLSec   int `json:"ath_ttl_sec" yaml:"ath_ttl_sec"`
	MaxItems    int `json:"max_items" yaml:"max_items"`
}

type Yahoo struct {
	Enabled              bool   `json:"enabled" yaml:"enabled"`
	PrimaryURL           string `json:"primary_url" yaml:"primary_url"`
	MirrorURL            string `json:"mirror_url" yaml:"mirror_url"`
	QuoteTimeoutSec      int    `json:"quote_timeout_sec" yaml:"quote_timeout_sec"`
	HistoryTimeoutSec    int    `json:"history_timeout_sec" yaml:"history_timeout_sec"`
	MaxRequestsPerMinute int    `json:"max_requests_per_minute" yaml:"max_requests_per_minute"`
	Burst                int    `json:"burst" yaml:"burst"`
	// Used only when max_requests_per_minute is 0.
	MinQuoteIntervalMs   int `json:"min_quote_interval_ms" yaml:"min_quote_interval_ms"`
	MinHistoryIntervalMs int `json:"min_history_interval_ms" yaml:"min_history_interval_ms"`
}

type Kite struct {
	Enabled              bool   `json:"enabled" yaml:"enabled"`
	APIKey               string `json:"api_key" yaml:"api_key"`
	AccessToken          string `json:"access_token" yaml:"access_token"`
	BaseURL              string `json:"base_url" yaml:"base_url"`
	TimeoutSec           int    `json:"timeout_sec" yaml:"timeout_sec"`
	LookbackYears        int    `json:"lookback_years" yaml:"lookback_years"`
	MaxRequestsPerMinute int    `json:"max_requests_per_minute" yaml:"max_requests_per_minute"`
	Burst                int    `json:"burst" yaml:"burst"`
	// Used only when max_requests_per_minute is 0.
	MinQuoteIntervalMs   int `json:"min_quote_interval_ms" yaml:"min_quote_interval_ms"`
	MinHistoryIntervalMs int `json:"min_history_interval_ms" yaml:"min_history_interval_ms"`
}

// HasCredentials reports whether both halves of the session are set.
func (k Kite) HasCredentials() bool {
	return k.APIKey != "" && k.AccessToken != ""
}

type Config struct {
	Server  Server  `json:"server" yaml:"server"`
	Logging Logging `json:"logging" yaml:"logging"`
	Cache   Cache   `json:"cache" yaml:"cache"`
	Yahoo   Yahoo   `json:"yahoo" yaml:"yahoo"`
	Kite    Kite    `json:"kite" yaml:"kite"`
}

func Default() Config {
	return Config{
		Server:  Server{Port: "8080", RequestTimeoutSec: 20},
		Logging: Logging{Level: "info", Format: "json"},
		Cache: Cache{
			QuoteTTLSec: 30,
			ATHTTLSec:   24 * 60 * 60,
			MaxItems:    1000,
		},
		Yahoo: Yahoo{
			Enabled:              true,
			PrimaryURL:           "https://query1.finance.yahoo.com",
			MirrorURL:            "https://query2.finance.yahoo.com",
			QuoteTimeoutSec:      8,
			HistoryTimeoutSec:    15,
			MaxRequestsPerMinute: 60,
			Burst:                5,
		},
		Kite: Kite{
			Enabled:              true,
			BaseURL:              "https://api.kite.trade",
			TimeoutSec:           10,
			LookbackYears:        5,
			MaxRequestsPerMinute: 180,
			Burst:                3,
		},
	}
}

// Load reads YAML (or JSON) config from path. If path is empty it looks for
// config.yaml, then config.json, in the working directory; a missing file
// yields defaults. Environment variables override select fields for secrecy.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		for _, candidate := range []string{"config.yaml", "config.yml", "config.json"} {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := parse(b, &cfg); err != nil {
				return cfg, err
			}
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// parse tries YAML first and falls back to JSON.
func parse(b []byte, cfg *Config) error {
	if err := yaml.Unmarshal(b, cfg); err != nil {
		if jerr := json.Unmarshal(b, cfg); jerr != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): %w", jerr)
		}
	}
	return nil
}

// Validate clamps provider deadlines into the allowed window and rejects
// values no component can run with.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if c.Server.RequestTimeoutSec <= 0 {
		return errors.New("server.request_timeout_sec must be positive")
	}
	if c.Cache.QuoteTTLSec <= 0 {
		return errors.New("cache.quote_ttl_sec must be positive")
	}
	if c.Cache.ATHTTLSec <= 0 {
		return errors.New("cache.ath_ttl_sec must be positive")
	}
	c.Yahoo.QuoteTimeoutSec = clampTimeout(c.Yahoo.QuoteTimeoutSec)
	c.Yahoo.HistoryTimeoutSec = clampTimeout(c.Yahoo.HistoryTimeoutSec)
	c.Kite.TimeoutSec = clampTimeout(c.Kite.TimeoutSec)
	if c.Kite.LookbackYears <= 0 {
		return errors.New("kite.lookback_years must be positive")
	}
	if c.Yahoo.MinQuoteIntervalMs < 0 || c.Yahoo.MinHistoryIntervalMs < 0 ||
		c.Kite.MinQuoteIntervalMs < 0 || c.Kite.MinHistoryIntervalMs < 0 {
		return errors.New("min request intervals must not be negative")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", c.Logging.Format)
	}
	return nil
}

func clampTimeout(sec int) int {
	return min(max(sec, MinProviderTimeoutSec), MaxProviderTimeoutSec)
}

func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSec) * time.Second
}

func (c Config) QuoteTTL() time.Duration { return time.Duration(c.Cache.QuoteTTLSec) * time.Second }
func (c Config) ATHTTL() time.Duration   { return time.Duration(c.Cache.ATHTTLSec) * time.Second }

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	envInt("REQUEST_TIMEOUT_SEC", &cfg.Server.RequestTimeoutSec)
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	envInt("QUOTE_CACHE_TTL_SEC", &cfg.Cache.QuoteTTLSec)
	envInt("ATH_CACHE_TTL_SEC", &cfg.Cache.ATHTTLSec)

	envBool("YAHOO_ENABLED", &cfg.Yahoo.Enabled)
	if v := os.Getenv("YAHOO_PRIMARY_URL"); v != "" {
		cfg.Yahoo.PrimaryURL = v
	}
	if v := os.Getenv("YAHOO_MIRROR_URL"); v != "" {
		cfg.Yahoo.MirrorURL = v
	}

	envBool("KITE_ENABLED", &cfg.Kite.Enabled)
	if v := os.Getenv("KITE_API_KEY"); v != "" {
		cfg.Kite.APIKey = v
	}
	if v := os.Getenv("KITE_ACCESS_TOKEN"); v != "" {
		cfg.Kite.AccessToken = v
	}
	if v := os.Getenv("KITE_BASE_URL"); v != "" {
		cfg.Kite.BaseURL = v
	}
	envInt("KITE_MAX_REQUESTS_PER_MINUTE", &cfg.Kite.MaxRequestsPerMinute)
	envInt("KITE_MIN_QUOTE_INTERVAL_MS", &cfg.Kite.MinQuoteIntervalMs)
	envInt("KITE_MIN_HISTORY_INTERVAL_MS", &cfg.Kite.MinHistoryIntervalMs)
}

// envInt overrides dst when name holds an integer. Invalid values are ignored.
func envInt(name string, dst *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	if x, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
		*dst = x
	}
}

func envBool(name string, dst *bool) {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "y":
		*dst = true
	case "0", "false", "no", "n":
		*dst = false
	}
}
