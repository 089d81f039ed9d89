package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly,
// while allowing extension with additional application-specific behavior.
//
// Example usage:
//
//	client := utils.NewHTTPClient(utils.WithBaseURL("https://api.github.com"))
//	resp, err := client.R().Get("/gists")
type HTTPClient struct {
	*resty.Client
}

// HTTPClientOption customizes the underlying resty.Client.
type HTTPClientOption func(*resty.Client)

// WithBaseURL sets the host URL every relative request is resolved against.
func WithBaseURL(baseURL string) HTTPClientOption {
	return func(c *resty.Client) { c.SetBaseURL(baseURL) }
}

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) HTTPClientOption {
	return func(c *resty.Client) {
		if d > 0 {
			c.SetTimeout(d)
		}
	}
}

// WithBearerToken sends "Authorization: Bearer <token>" on every request.
// An empty token leaves the header unset.
func WithBearerToken(token string) HTTPClientOption {
	return func(c *resty.Client) {
		if token != "" {
			c.SetAuthToken(token)
		}
	}
}

// WithHeaders sets default headers sent on every request.
func WithHeaders(headers map[string]string) HTTPClientOption {
	return func(c *resty.Client) { c.SetHeaders(headers) }
}

// WithRetries enables resty's retry loop with a capped exponential backoff.
func WithRetries(count int, wait, maxWait time.Duration) HTTPClientOption {
	return func(c *resty.Client) {
		c.SetRetryCount(count).
			SetRetryWaitTime(wait).
			SetRetryMaxWaitTime(maxWait)
	}
}

// NewHTTPClient creates and returns a new HTTPClient instance with opts
// applied to a fresh resty.Client.
//
// Each call returns an independent client instance with its own
// configuration, connection pool, and state.
func NewHTTPClient(opts ...HTTPClientOption) *HTTPClient {
	client := resty.New()
	for _, opt := range opts {
		opt(client)
	}
	return &HTTPClient{Client: client}
}
