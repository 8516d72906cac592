package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/klauspost/compress/gzip"

	"github.com/signadot/haystack-go/debug"
	"github.com/signadot/haystack-go/hayson"
	"github.com/signadot/haystack-go/kind"
)

const contentType = "application/json"

// Call posts a request grid to {uri}/{path} and decodes the response grid.
// A response grid whose metadata carries err or incomplete is returned as a
// *CallErr. Most callers want the typed operation methods instead.
func (c *Client) Call(ctx context.Context, path string, req *kind.Grid) (*kind.Grid, error) {
	tok := c.token()
	if tok == "" {
		return nil, fmt.Errorf("%w: session closed", ErrAuth)
	}
	if req == nil {
		req = emptyGrid()
	}

	body, err := hayson.EncodeGrid(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.uri+"/"+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	httpReq.Header.Set("Authorization", "BEARER authToken="+tok)
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", contentType)
	httpReq.Header.Set("Accept-Encoding", "gzip")

	c.log.Debug("call", "path", path, "bytes", len(body))
	if debug.Wire() {
		debug.Logf("> POST %s\n%s\n", path, body)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := readBody(resp)
	if err != nil {
		return nil, err
	}
	c.log.Debug("call response", "path", path, "status", resp.StatusCode, "bytes", len(respBody))
	if debug.Wire() {
		debug.Logf("< %d %s\n%s\n", resp.StatusCode, path, respBody)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusErr{Status: resp.StatusCode, Body: string(respBody)}
	}

	g, err := hayson.DecodeGrid(respBody)
	if err != nil {
		return nil, err
	}
	if g.IsErr() {
		return nil, &CallErr{Grid: g}
	}
	if g.IsIncomplete() {
		return nil, &CallErr{Grid: g, Incomplete: true}
	}
	return g, nil
}

func readBody(resp *http.Response) ([]byte, error) {
	var r io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: gzip: %w", ErrTransport, err)
		}
		defer gz.Close()
		r = gz
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return body, nil
}

// emptyGrid is the conventional no-argument request body.
func emptyGrid() *kind.Grid {
	g, err := kind.NewGrid(
		kind.Dict{"ver": kind.Str("3.0")},
		[]kind.Col{{Name: "empty"}},
		nil,
	)
	if err != nil {
		panic(err)
	}
	return g
}
