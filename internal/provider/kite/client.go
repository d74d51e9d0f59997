package kite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the Kite Connect REST root.
const DefaultBaseURL = "https://api.kite.trade"

// ErrMissingCredentials is returned when the api key or access token is empty.
var ErrMissingCredentials = errors.New("kite: api key and access token are required")

// ErrMalformedResponse marks payloads that could not be decoded.
var ErrMalformedResponse = errors.New("kite: malformed response")

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=kite_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the Kite Connect REST API. It implements Session.
type Client struct {
	// apiKey identifies the app.
	apiKey string
	// accessToken is the daily session token.
	accessToken string
	// baseURL is the base URL for the API.
	baseURL string
	// httpClient is the HTTP client.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header http.Header
}

// ClientOption is a configuration option for the Kite client.
type ClientOption func(*Client)

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

// NewClient creates a Kite Connect client.
func NewClient(apiKey, accessToken string, options ...ClientOption) (*Client, error) {
	if apiKey == "" || accessToken == "" {
		return nil, ErrMissingCredentials
	}
	var client = &Client{
		apiKey:      apiKey,
		accessToken: accessToken,
		baseURL:     DefaultBaseURL,
		httpClient:  http.DefaultClient,
		header:      http.Header{},
	}
	client.header.Set("X-Kite-Version", "3")
	for _, option := range options {
		option(client)
	}
	return client, nil
}

// envelope wraps every Kite response.
type envelope struct {
	Status    string          `json:"status"`
	Message   string          `json:"message"`
	ErrorType string          `json:"error_type"`
	Data      json.RawMessage `json:"data"`
}

// get performs an authenticated GET and decodes the data field into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()
	req.Header.Set("Authorization", fmt.Sprintf("token %s:%s", c.apiKey, c.accessToken))

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if res.StatusCode != http.StatusOK {
			return &APIError{StatusCode: res.StatusCode, Message: truncate(string(body), 256)}
		}
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if res.StatusCode != http.StatusOK || env.Status != "success" {
		return &APIError{StatusCode: res.StatusCode, ErrorType: env.ErrorType, Message: env.Message}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: decoding data: %w", ErrMalformedResponse, err)
	}
	return nil
}

// dateTimeLayout is the from/to format of the historical endpoint.
const dateTimeLayout = "2006-01-02 15:04:05"

func formatDateTime(t time.Time) string {
	return t.In(ist).Format(dateTimeLayout)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
