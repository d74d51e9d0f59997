package yahoo

import (
	"context"
	"net/url"

	"stocktracker/internal/instrument"
	"stocktracker/internal/provider"
)

const defaultCurrency = "INR"

// FetchQuote reads the latest price from the chart meta block.
func (c *Client) FetchQuote(ctx context.Context, inst instrument.Instrument) (provider.Quote, error) {
	ctx, cancel := context.WithTimeout(ctx, c.quoteTimeout)
	defer cancel()

	query := url.Values{}
	query.Set("interval", "1d")
	query.Set("range", "1d")

	result, err := c.getChart(ctx, inst.Symbol, query)
	if err != nil {
		return provider.Quote{}, err
	}
	return c.quoteFromMeta(inst, result.Meta)
}

func (c *Client) quoteFromMeta(inst instrument.Instrument, m chartMeta) (provider.Quote, error) {
	prev := value(m.PreviousClose)
	if prev <= 0 {
		prev = value(m.ChartPreviousClose)
	}
	if prev <= 0 {
		return provider.Quote{}, provider.Malformed(c.name, "missing previous close for %s", inst.Symbol)
	}
	// outside trading hours the live price can be absent
	price := value(m.RegularMarketPrice)
	if price <= 0 {
		price = prev
	}

	symbol := m.Symbol
	if symbol == "" {
		symbol = inst.Symbol
	}
	currency := m.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	high := value(m.RegularMarketDayHigh)
	if high <= 0 {
		high = price
	}
	low := value(m.RegularMarketDayLow)
	if low <= 0 {
		low = price
	}

	return provider.NewQuote(provider.QuoteInput{
		Symbol:        symbol,
		Price:         price,
		PreviousClose: prev,
		DayHigh:       high,
		DayLow:        low,
		Volume:        int64(value(m.RegularMarketVolume)),
		MarketState:   marketState(m.MarketState),
		Currency:      currency,
		At:            c.now(),
	}), nil
}

// marketState collapses the upstream pre/post/closed variants.
func marketState(s string) provider.MarketState {
	switch s {
	case "":
		return provider.StateUnknown
	case "REGULAR":
		return provider.StateRegular
	default:
		return provider.StateClosed
	}
}

func value(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
