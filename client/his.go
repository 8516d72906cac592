package client

import (
	"context"
	"fmt"

	"github.com/signadot/haystack-go/kind"
)

// HisReadByID reads history data for one point. The range is a Date,
// DateRange, or DateTimeRange; ranges are inclusive of start and exclusive
// of end.
func (c *Client) HisReadByID(ctx context.Context, id kind.Ref, rng kind.Kind) (*kind.Grid, error) {
	rangeStr, err := rangeString(rng)
	if err != nil {
		return nil, err
	}
	req, err := kind.ToGrid([]kind.Dict{{"id": id, "range": kind.Str(rangeStr)}}, nil)
	if err != nil {
		return nil, err
	}
	return c.Call(ctx, "hisRead", req)
}

// HisReadByIDs reads history data for a batch of points in one call.
func (c *Client) HisReadByIDs(ctx context.Context, ids []kind.Ref, rng kind.Kind) (*kind.Grid, error) {
	rangeStr, err := rangeString(rng)
	if err != nil {
		return nil, err
	}
	rows := make([]kind.Dict, len(ids))
	for i, id := range ids {
		rows[i] = kind.Dict{"id": id}
	}
	req, err := kind.ToGrid(rows, kind.Dict{"range": kind.Str(rangeStr)})
	if err != nil {
		return nil, err
	}
	return c.Call(ctx, "hisRead", req)
}

// HisWriteByID writes history rows to one point. Rows carry ts and val
// tags and must be in strictly ascending timestamp order; out-of-order or
// duplicate timestamps are rejected before anything is sent.
func (c *Client) HisWriteByID(ctx context.Context, id kind.Ref, rows []kind.Dict) (*kind.Grid, error) {
	if err := checkHisOrder(rows); err != nil {
		return nil, err
	}
	req, err := kind.ToGrid(rows, kind.Dict{"id": id})
	if err != nil {
		return nil, err
	}
	return c.Call(ctx, "hisWrite", req)
}

// HisWriteByIDs writes history rows to a batch of points. Rows carry a ts
// tag plus vN tags, where vN names the point at index N of ids.
func (c *Client) HisWriteByIDs(ctx context.Context, ids []kind.Ref, rows []kind.Dict) (*kind.Grid, error) {
	if err := checkHisOrder(rows); err != nil {
		return nil, err
	}
	cols := make([]kind.Col, 0, len(ids)+1)
	cols = append(cols, kind.Col{Name: "ts"})
	for i, id := range ids {
		cols = append(cols, kind.Col{
			Name: fmt.Sprintf("v%d", i),
			Meta: kind.Dict{"id": id},
		})
	}
	req, err := kind.NewGrid(kind.Dict{"ver": kind.Str("3.0")}, cols, rows)
	if err != nil {
		return nil, err
	}
	return c.Call(ctx, "hisWrite", req)
}

// checkHisOrder requires strictly ascending ts values across rows.
func checkHisOrder(rows []kind.Dict) error {
	var prev kind.DateTime
	for i, row := range rows {
		ts, ok := row["ts"].(kind.DateTime)
		if !ok {
			return fmt.Errorf("%w: row %d has no ts timestamp", ErrConsistency, i)
		}
		if i > 0 && !ts.Time().After(prev.Time()) {
			return fmt.Errorf("%w: row %d timestamp %s is not after %s",
				ErrConsistency, i, ts, prev)
		}
		prev = ts
	}
	return nil
}

func rangeString(rng kind.Kind) (string, error) {
	switch rng.(type) {
	case kind.Date, kind.DateRange, kind.DateTimeRange:
		return rng.String(), nil
	}
	return "", fmt.Errorf("%w: range must be a Date, DateRange, or DateTimeRange, got %T",
		ErrConsistency, rng)
}
