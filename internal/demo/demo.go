// Package demo fabricates clearly flagged stand-in data for when every live
// source is down.
package demo

import (
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"stocktracker/internal/aggregate"
	"stocktracker/internal/ath"
	"stocktracker/internal/provider"
)

const (
	jitter       = 0.01 // ±1% around the base price
	dayRange     = 0.01
	athPremium   = 1.18
	maxVolume    = 10_000_000
	maxATHMonths = 24
)

// basePrices is checked in order; the first substring match wins.
var basePrices = []struct {
	match string
	price float64
}{
	{"NSEI", 25000},
	{"BSESN", 82000},
	{"BANK", 52000},
	{"RELIANCE", 2800},
	{"TCS", 4200},
	{"HDFC", 1800},
}

const defaultBase = 1000

// BasePrice returns the anchor price used for symbol.
func BasePrice(symbol string) float64 {
	s := strings.ToUpper(symbol)
	for _, b := range basePrices {
		if strings.Contains(s, b.match) {
			return b.price
		}
	}
	return defaultBase
}

// Generator produces demo results. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a generator seeded from the runtime's random source.
func New() *Generator {
	return NewWithSource(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewWithSource returns a generator drawing from src; use a fixed seed in tests.
func NewWithSource(src rand.Source) *Generator {
	return &Generator{rng: rand.New(src)}
}

// Generate never fails and never touches a cache. The ATH is pinned at 18%
// above the synthetic price, on a day up to 23 months back.
func (g *Generator) Generate(symbol string, now time.Time) aggregate.Result {
	g.mu.Lock()
	u := g.rng.Float64()
	vol := g.rng.Int64N(maxVolume)
	months := g.rng.IntN(maxATHMonths)
	g.mu.Unlock()

	base := BasePrice(symbol)
	price := provider.Round2(base * (1 + (u-0.5)*2*jitter))

	q := provider.NewQuote(provider.QuoteInput{
		Symbol:        symbol,
		Price:         price,
		PreviousClose: base,
		DayHigh:       price * (1 + dayRange),
		DayLow:        price * (1 - dayRange),
		Volume:        vol,
		MarketState:   provider.StateAt(now),
		Currency:      "INR",
		At:            now,
	})

	high := ath.New(price*athPremium, now.AddDate(0, -months, 0))
	return aggregate.Demo(q, high)
}
