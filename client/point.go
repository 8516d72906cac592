package client

import (
	"context"

	"github.com/signadot/haystack-go/kind"
)

// PointWrite writes val to one level of a writable point's priority array.
// Levels run 1 through 17. A nil val writes null, clearing the level. The
// optional who overrides the audit username; duration applies to level 8
// writes.
func (c *Client) PointWrite(ctx context.Context, id kind.Ref, level int, val kind.Kind, who string, duration kind.Kind) (*kind.Grid, error) {
	row := kind.Dict{
		"id":    id,
		"level": kind.Number{Val: float64(level)},
	}
	if val != nil {
		row["val"] = val
	}
	if who != "" {
		row["who"] = kind.Str(who)
	}
	if duration != nil {
		row["duration"] = duration
	}
	req, err := kind.ToGrid([]kind.Dict{row}, nil)
	if err != nil {
		return nil, err
	}
	return c.Call(ctx, "pointWrite", req)
}

// PointWriteArray reads the current state of a writable point's priority
// array: one row per level.
func (c *Client) PointWriteArray(ctx context.Context, id kind.Ref) (*kind.Grid, error) {
	req, err := kind.ToGrid([]kind.Dict{{"id": id}}, nil)
	if err != nil {
		return nil, err
	}
	return c.Call(ctx, "pointWrite", req)
}
