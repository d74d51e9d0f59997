package aggregate

import (
	"math"

	"github.com/shopspring/decimal"

	"stocktracker/internal/ath"
	"stocktracker/internal/provider"
)

// Correction is the distance of the current price from its all-time high.
// Percent is (price-ath)/ath*100, so it is negative below the high.
type Correction struct {
	Percent float64 `json:"percent"`
	Points  float64 `json:"points"`
	IsBelow bool    `json:"isBelow"`
}

// Result is the externally visible merge of a quote, an optional all-time high
// and the flags telling the caller where the numbers came from.
// Quote and AllTimeHigh are embedded so their fields flatten into one JSON object.
type Result struct {
	provider.Quote
	*ath.AllTimeHigh
	Correction *Correction `json:"correction,omitempty"`
	IsLive     bool        `json:"isLive"`
	IsDemo     bool        `json:"isDemo"`
	Error      bool        `json:"error"`
}

// HasATH reports whether the result carries an all-time high.
func (r Result) HasATH() bool { return r.AllTimeHigh != nil }

// CorrectionFrom computes the correction of price against athPrice. It
// returns nil when athPrice is not positive.
func CorrectionFrom(price, athPrice float64) *Correction {
	if athPrice <= 0 {
		return nil
	}
	pct := provider.PercentChange(price, athPrice)
	pts := decimal.NewFromFloat(price).Sub(decimal.NewFromFloat(athPrice)).Abs().Round(2).InexactFloat64()
	return &Correction{Percent: pct, Points: pts, IsBelow: pct < 0}
}

func merge(q provider.Quote, a *ath.AllTimeHigh) Result {
	r := Result{Quote: q}
	if a != nil && a.ATHPrice > 0 && !math.IsNaN(a.ATHPrice) {
		cp := *a
		r.AllTimeHigh = &cp
		r.Correction = CorrectionFrom(q.Price, cp.ATHPrice)
	}
	return r
}

// Live merges a live quote with an optional all-time high.
func Live(q provider.Quote, a *ath.AllTimeHigh) Result {
	r := merge(q, a)
	r.IsLive = true
	return r
}

// Demo merges a synthetic quote with its synthetic all-time high.
func Demo(q provider.Quote, a ath.AllTimeHigh) Result {
	r := merge(q, &a)
	r.IsDemo = true
	return r
}

// Failed is returned when no price could be produced at all.
func Failed(symbol string) Result {
	return Result{Quote: provider.Quote{Symbol: symbol, MarketState: provider.StateUnknown}, Error: true}
}
