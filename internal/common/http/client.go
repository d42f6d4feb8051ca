// internal/common/http/client.go
package http

import (
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Options configures a resty client. Retries are never enabled: a failed
// call surfaces to the caller.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Headers   map[string]string
	UserAgent string
	// Transport overrides the round tripper, mostly for tests.
	Transport http.RoundTripper
}

// NewClient returns a resty client with JSON defaults applied.
func NewClient(opts Options) *resty.Client {
	client := resty.New().
		SetTimeout(opts.Timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	if opts.BaseURL != "" {
		client.SetBaseURL(opts.BaseURL)
	}
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}
	for k, v := range opts.Headers {
		client.SetHeader(k, v)
	}
	if opts.Transport != nil {
		client.SetTransport(opts.Transport)
	}
	return client
}
