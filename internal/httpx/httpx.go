package httpx

import (
	"net"
	"net/http"
	"time"
)

// BrowserUserAgent is sent to public chart endpoints that reject bare clients.
const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Client is a small wrapper around http.Client with sane defaults.
// It satisfies the HTTPClient interfaces of the upstream clients.
type Client struct {
	HTTP      *http.Client
	UserAgent string
	Headers   map[string]string
}

// New returns a client whose overall timeout is a backstop; providers set
// tighter per-request deadlines through the request context.
func New(timeout time.Duration) *Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 3 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          50,
		MaxIdleConnsPerHost:   10,
		MaxConnsPerHost:       20,
		ForceAttemptHTTP2:     true,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
	}
	return &Client{HTTP: &http.Client{Timeout: timeout, Transport: transport}, UserAgent: "stocktracker/1.0"}
}

// WithHeaders returns a shallow copy of c that also sends headers.
func (c *Client) WithHeaders(headers map[string]string) *Client {
	merged := make(map[string]string, len(c.Headers)+len(headers))
	for k, v := range c.Headers {
		merged[k] = v
	}
	for k, v := range headers {
		merged[k] = v
	}
	return &Client{HTTP: c.HTTP, UserAgent: c.UserAgent, Headers: merged}
}

// Do sends req, filling in the user agent and default headers the request
// does not set itself.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	for k, v := range c.Headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
	return c.HTTP.Do(req)
}
