package client

import (
	"log/slog"
	"net/http"
)

type Option func(*Client)

// WithHTTPClient replaces the default http.Client, e.g. to set timeouts or
// a custom TLS configuration.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger enables debug logging of requests and responses.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}
