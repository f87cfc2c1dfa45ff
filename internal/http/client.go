package http

import (
	"net/http"
	"time"
)

const (
	// DefaultUserAgent identifies the tool to remote APIs.
	DefaultUserAgent = "social-transcriber"

	// DefaultTimeout covers slow LLM completions of long transcripts.
	DefaultTimeout = 180 * time.Second
)

// Client wraps an http.Client with a fixed User-Agent and timeout.
//
// Client implements Do, so it can be handed to SDKs that accept a custom
// HTTP doer:
//
//	cfg := openai.DefaultConfig(apiKey)
//	cfg.HTTPClient = http.NewClient()
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// Option customises a Client.
type Option func(*Client)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// NewClient creates a Client with DefaultTimeout and DefaultUserAgent.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends req with the configured User-Agent unless the request already
// carries one.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return c.httpClient.Do(req)
}
