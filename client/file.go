package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// FileGet fetches a server file as raw bytes, bypassing the grid codec.
// The path is relative to the endpoint, e.g. "file/reports/out.csv".
func (c *Client) FileGet(ctx context.Context, path string) ([]byte, error) {
	return c.fileReq(ctx, http.MethodGet, path, nil, "")
}

// FilePut replaces a server file with data.
func (c *Client) FilePut(ctx context.Context, path string, data []byte, mime string) ([]byte, error) {
	return c.fileReq(ctx, http.MethodPut, path, data, mime)
}

// FilePost creates or appends a server file with data.
func (c *Client) FilePost(ctx context.Context, path string, data []byte, mime string) ([]byte, error) {
	return c.fileReq(ctx, http.MethodPost, path, data, mime)
}

func (c *Client) fileReq(ctx context.Context, method, path string, data []byte, mime string) ([]byte, error) {
	tok := c.token()
	if tok == "" {
		return nil, fmt.Errorf("%w: session closed", ErrAuth)
	}

	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.uri+"/"+path, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	req.Header.Set("Authorization", "BEARER authToken="+tok)
	if mime != "" {
		req.Header.Set("Content-Type", mime)
	}

	c.log.Debug("file request", "method", method, "path", path, "bytes", len(data))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, &StatusErr{Status: resp.StatusCode, Body: string(respBody)}
	}
	return respBody, nil
}
