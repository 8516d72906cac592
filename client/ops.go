package client

import (
	"context"

	"github.com/signadot/haystack-go/kind"
)

// About queries basic information about the server.
func (c *Client) About(ctx context.Context) (kind.Dict, error) {
	g, err := c.Call(ctx, "about", nil)
	if err != nil {
		return nil, err
	}
	if len(g.Rows()) == 0 {
		return kind.Dict{}, nil
	}
	return g.Rows()[0], nil
}

// Close invalidates the auth token on the server and locally. The local
// token is discarded even when the server call fails, so the client is
// unusable either way.
func (c *Client) Close(ctx context.Context) error {
	defer c.dropToken()
	_, err := c.Call(ctx, "close", nil)
	return err
}

// Read returns the first record matching filter. With checked set, a
// filter matching nothing is ErrUnknownRec; otherwise it is an empty dict.
func (c *Client) Read(ctx context.Context, filter string, checked bool) (kind.Dict, error) {
	g, err := c.ReadAll(ctx, filter, 1)
	if err != nil {
		return nil, err
	}
	if len(g.Rows()) == 0 {
		if checked {
			return nil, ErrUnknownRec
		}
		return kind.Dict{}, nil
	}
	return g.Rows()[0], nil
}

// ReadAll returns all records matching filter. A limit of 0 means no limit.
func (c *Client) ReadAll(ctx context.Context, filter string, limit int) (*kind.Grid, error) {
	row := kind.Dict{"filter": kind.Str(filter)}
	if limit > 0 {
		row["limit"] = kind.Number{Val: float64(limit)}
	}
	req, err := kind.ToGrid([]kind.Dict{row}, nil)
	if err != nil {
		return nil, err
	}
	return c.Call(ctx, "read", req)
}

// ReadByID reads one record by identifier. With checked set, an unknown id
// is ErrUnknownRec; otherwise it is an empty dict.
func (c *Client) ReadByID(ctx context.Context, id kind.Ref, checked bool) (kind.Dict, error) {
	req, err := kind.ToGrid([]kind.Dict{{"id": id}}, nil)
	if err != nil {
		return nil, err
	}
	g, err := c.Call(ctx, "read", req)
	if err != nil {
		return nil, err
	}
	if len(g.Rows()) == 0 {
		if checked {
			return nil, ErrUnknownRec
		}
		return kind.Dict{}, nil
	}
	return g.Rows()[0], nil
}

// ReadByIDs reads a batch of records. Every id must resolve; a missing or
// empty row is ErrUnknownRec.
func (c *Client) ReadByIDs(ctx context.Context, ids []kind.Ref) (*kind.Grid, error) {
	rows := make([]kind.Dict, len(ids))
	for i, id := range ids {
		rows[i] = kind.Dict{"id": id}
	}
	req, err := kind.ToGrid(rows, nil)
	if err != nil {
		return nil, err
	}
	g, err := c.Call(ctx, "read", req)
	if err != nil {
		return nil, err
	}
	if len(g.Rows()) != len(ids) {
		return nil, ErrUnknownRec
	}
	for _, row := range g.Rows() {
		if len(row) == 0 {
			return nil, ErrUnknownRec
		}
	}
	return g, nil
}

// Eval evaluates a server-side expression and returns its grid result.
func (c *Client) Eval(ctx context.Context, expr string) (*kind.Grid, error) {
	req, err := kind.ToGrid([]kind.Dict{{"expr": kind.Str(expr)}}, nil)
	if err != nil {
		return nil, err
	}
	return c.Call(ctx, "eval", req)
}
