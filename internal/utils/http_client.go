package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultHTTPClientTimeout = 10 * time.Second
	defaultHTTPClientRetries = 2
	httpClientUserAgent      = "go-org-site"
)

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly.
//
// Example usage:
//
//	client := utils.NewHTTPClient()
//	resp, err := client.R().Get("https://www.gravatar.com/avatar/...")
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates an HTTPClient with a request timeout, a small retry
// budget for transient failures and a fixed User-Agent.
//
// Each call returns an independent client instance with its own
// configuration, connection pool, and state.
func NewHTTPClient() *HTTPClient {
	client := resty.New().
		SetTimeout(defaultHTTPClientTimeout).
		SetRetryCount(defaultHTTPClientRetries).
		SetRetryWaitTime(200 * time.Millisecond).
		SetHeader("User-Agent", httpClientUserAgent)

	return &HTTPClient{Client: client}
}
