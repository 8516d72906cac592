// Package client implements the operation surface of a Haystack data
// server: a SCRAM-authenticated session issuing grid-in, grid-out calls
// over HTTP.
package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/signadot/haystack-go/debug"
	"github.com/signadot/haystack-go/scram"
)

// Client is an authenticated session. It is safe for concurrent use.
type Client struct {
	uri      string
	username string

	http *http.Client
	log  *slog.Logger

	mu        sync.Mutex
	authToken string
}

// Open authenticates against uri with the SCRAM handshake and returns a
// ready client. A trailing slash on uri is tolerated. The password is not
// retained after the handshake.
func Open(ctx context.Context, uri, username, password string, opts ...Option) (*Client, error) {
	c := &Client{
		uri:      strings.TrimSuffix(uri, "/"),
		username: username,
		http:     &http.Client{},
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}

	token, err := c.handshake(ctx, password)
	if err != nil {
		return nil, err
	}
	c.authToken = token
	return c, nil
}

// handshake drives the three-round exchange against the about endpoint.
func (c *Client) handshake(ctx context.Context, password string) (string, error) {
	ex := scram.NewExchange(c.username, password)

	resp, err := c.authGet(ctx, ex.HelloAuthorization())
	if err != nil {
		return "", err
	}
	c.log.Debug("hello response", "status", resp.status)
	if err := ex.AcceptHello(resp.header.Get("WWW-Authenticate")); err != nil {
		return "", err
	}

	resp, err = c.authGet(ctx, ex.FirstAuthorization())
	if err != nil {
		return "", err
	}
	c.log.Debug("server-first response", "status", resp.status)
	if err := ex.AcceptFirst(resp.header.Get("WWW-Authenticate")); err != nil {
		return "", err
	}

	finalAuth, err := ex.FinalAuthorization()
	if err != nil {
		return "", err
	}
	resp, err = c.authGet(ctx, finalAuth)
	if err != nil {
		return "", err
	}
	c.log.Debug("server-final response", "status", resp.status)
	if resp.status != http.StatusOK {
		return "", fmt.Errorf("%w: final handshake status %d", ErrAuth, resp.status)
	}
	return ex.AcceptFinal(resp.header.Get("Authentication-Info"))
}

type authResp struct {
	status int
	header http.Header
}

func (c *Client) authGet(ctx context.Context, authorization string) (*authResp, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.uri+"/about", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	req.Header.Set("Authorization", authorization)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if debug.Auth() {
		debug.Logf("auth round: status %d\n", resp.StatusCode)
	}
	return &authResp{status: resp.StatusCode, header: resp.Header}, nil
}

func (c *Client) token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authToken
}

func (c *Client) dropToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authToken = ""
}
