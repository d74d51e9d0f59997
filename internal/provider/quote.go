package provider

import (
	"time"

	"github.com/shopspring/decimal"
)

// Round2 rounds v to 2 decimal places, half away from zero. The value is taken
// at its shortest decimal representation, so 12.345 becomes 12.35 rather than
// suffering from binary float error.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// PercentChange returns (price-base)/base*100 rounded to 2 decimals.
// base must be non-zero.
func PercentChange(price, base float64) float64 {
	p := decimal.NewFromFloat(price)
	b := decimal.NewFromFloat(base)
	return p.Sub(b).Div(b).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
}

// QuoteInput carries raw upstream numbers before normalization.
type QuoteInput struct {
	Symbol        string
	Price         float64
	PreviousClose float64
	DayHigh       float64
	DayLow        float64
	Volume        int64
	MarketState   MarketState
	Currency      string
	At            time.Time
}

// NewQuote builds the canonical Quote: rounds money fields and derives
// Change and ChangePercent from the unrounded inputs. PreviousClose must be > 0.
func NewQuote(in QuoteInput) Quote {
	state := in.MarketState
	if state == "" {
		state = StateUnknown
	}
	return Quote{
		Price:         Round2(in.Price),
		PreviousClose: Round2(in.PreviousClose),
		Change:        decimal.NewFromFloat(in.Price).Sub(decimal.NewFromFloat(in.PreviousClose)).Round(2).InexactFloat64(),
		ChangePercent: PercentChange(in.Price, in.PreviousClose),
		DayHigh:       Round2(in.DayHigh),
		DayLow:        Round2(in.DayLow),
		Volume:        in.Volume,
		MarketState:   state,
		Currency:      in.Currency,
		Symbol:        in.Symbol,
		Timestamp:     in.At.UTC(),
	}
}
