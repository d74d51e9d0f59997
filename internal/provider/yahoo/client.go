package yahoo

import (
	"net/http"
	"time"
)

const (
	// PrimaryBaseURL is the main chart API host.
	PrimaryBaseURL = "https://query1.finance.yahoo.com"
	// MirrorBaseURL serves the same API from a redundant host.
	MirrorBaseURL = "https://query2.finance.yahoo.com"

	DefaultQuoteTimeout   = 8 * time.Second
	DefaultHistoryTimeout = 15 * time.Second
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=yahoo_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a chart API client bound to one host. It implements both
// provider.QuoteProvider and provider.HistoryProvider.
type Client struct {
	// name identifies the variant in logs and errors.
	name string
	// baseURL is the base URL for the API.
	baseURL string
	// httpClient is the HTTP client.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header http.Header
	// quoteTimeout bounds a single quote request.
	quoteTimeout time.Duration
	// historyTimeout bounds a single history request.
	historyTimeout time.Duration
	// now stamps quotes.
	now func() time.Time
}

// ClientOption is a configuration option for the chart API client.
type ClientOption func(*Client)

// WithName sets the variant name.
func WithName(name string) ClientOption {
	return func(c *Client) {
		c.name = name
	}
}

// WithBaseURL sets the base URL for the API.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client for the API.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) ClientOption {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// WithTimeouts sets the per-request deadlines. Non-positive values keep the defaults.
func WithTimeouts(quote, history time.Duration) ClientOption {
	return func(c *Client) {
		if quote > 0 {
			c.quoteTimeout = quote
		}
		if history > 0 {
			c.historyTimeout = history
		}
	}
}

// WithClock replaces time.Now for quote timestamps.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a chart API client. Without options it talks to the primary host.
func NewClient(options ...ClientOption) *Client {
	var client = &Client{
		name:           "yahoo",
		baseURL:        PrimaryBaseURL,
		httpClient:     http.DefaultClient,
		header:         http.Header{},
		quoteTimeout:   DefaultQuoteTimeout,
		historyTimeout: DefaultHistoryTimeout,
		now:            time.Now,
	}
	// The public endpoint answers 401/429 to requests without browser-like headers.
	client.header.Set("Accept", "application/json")
	client.header.Set("Referer", "https://finance.yahoo.com/")
	for _, option := range options {
		option(client)
	}
	return client
}

// NewPrimary is the live chart API variant.
func NewPrimary(options ...ClientOption) *Client {
	return NewClient(append([]ClientOption{WithName("yahoo-primary"), WithBaseURL(PrimaryBaseURL)}, options...)...)
}

// NewMirror is the redundant mirror variant.
func NewMirror(options ...ClientOption) *Client {
	return NewClient(append([]ClientOption{WithName("yahoo-mirror"), WithBaseURL(MirrorBaseURL)}, options...)...)
}

// Name returns the variant name.
func (c *Client) Name() string { return c.name }
