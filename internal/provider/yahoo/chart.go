package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"stocktracker/internal/provider"
)

// chartResponse mirrors /v8/finance/chart/{symbol}.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Meta       chartMeta `json:"meta"`
	Timestamp  []int64   `json:"timestamp"`
	Indicators struct {
		Quote []chartSeries `json:"quote"`
	} `json:"indicators"`
}

type chartMeta struct {
	Symbol               string   `json:"symbol"`
	Currency             string   `json:"currency"`
	MarketState          string   `json:"marketState"`
	RegularMarketPrice   *float64 `json:"regularMarketPrice"`
	PreviousClose        *float64 `json:"previousClose"`
	ChartPreviousClose   *float64 `json:"chartPreviousClose"`
	RegularMarketDayHigh *float64 `json:"regularMarketDayHigh"`
	RegularMarketDayLow  *float64 `json:"regularMarketDayLow"`
	RegularMarketVolume  *float64 `json:"regularMarketVolume"`
}

// chartSeries holds parallel arrays; entries are null on days without data.
type chartSeries struct {
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
}

// getChart performs one chart request and returns the first result.
func (c *Client) getChart(ctx context.Context, symbol string, query url.Values) (*chartResult, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, url.PathEscape(symbol))
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, provider.Unavailable(c.name, "creating request: %w", err)
	}
	req.Header = c.header.Clone()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, provider.Classify(c.name, fmt.Errorf("performing request: %w", err))
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		break

	case http.StatusNotFound:
		return nil, provider.Unavailable(c.name, "symbol %q not found", symbol)

	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, provider.Unavailable(c.name, "unauthorized")

	case http.StatusTooManyRequests:
		return nil, provider.Unavailable(c.name, "rate limited")

	default:
		b, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, provider.Unavailable(c.name, "unexpected status code: %d: %s", res.StatusCode, string(b))
	}

	var body chartResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		// a deadline hit while streaming the body is still a timeout
		if ctx.Err() != nil {
			return nil, provider.Classify(c.name, fmt.Errorf("reading body: %w", ctx.Err()))
		}
		return nil, provider.Malformed(c.name, "decoding chart response: %w", err)
	}
	if e := body.Chart.Error; e != nil {
		return nil, provider.Malformed(c.name, "chart error %s: %s", e.Code, e.Description)
	}
	if len(body.Chart.Result) == 0 {
		return nil, provider.Malformed(c.name, "empty chart result")
	}
	return &body.Chart.Result[0], nil
}
