package client

import (
	"context"
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/signadot/haystack-go/hayson"
	"github.com/signadot/haystack-go/kind"
)

// CommitAdd creates new records. Records must not carry an id tag; the
// server assigns identifiers and returns the created records.
func (c *Client) CommitAdd(ctx context.Context, recs []kind.Dict) (*kind.Grid, error) {
	return c.commit(ctx, "add", recs)
}

// CommitUpdate modifies existing records. Each record carries its id and
// current mod timestamp plus the tags to change; a stale mod is rejected by
// the server and surfaces as a *CallErr carrying the diagnostic grid.
func (c *Client) CommitUpdate(ctx context.Context, recs []kind.Dict) (*kind.Grid, error) {
	return c.commit(ctx, "update", recs)
}

// CommitRemove deletes records identified by id and mod.
func (c *Client) CommitRemove(ctx context.Context, recs []kind.Dict) (*kind.Grid, error) {
	return c.commit(ctx, "remove", recs)
}

func (c *Client) commit(ctx context.Context, mode string, recs []kind.Dict) (*kind.Grid, error) {
	req, err := kind.ToGrid(recs, kind.Dict{"commit": kind.Str(mode)})
	if err != nil {
		return nil, err
	}
	return c.Call(ctx, "commit", req)
}

// UpdateDiff computes the commit-update record that transforms before into
// after: the id and mod of before plus the changed tags, with tags absent
// from after lowered to Remove. The diff is a JSON merge patch over the
// hayson forms of the two records.
func UpdateDiff(before, after kind.Dict) (kind.Dict, error) {
	oldJSON, err := hayson.Encode(before)
	if err != nil {
		return nil, err
	}
	newJSON, err := hayson.Encode(after)
	if err != nil {
		return nil, err
	}
	patch, err := jsonpatch.CreateMergePatch(oldJSON, newJSON)
	if err != nil {
		return nil, fmt.Errorf("%w: diff: %w", ErrConsistency, err)
	}

	var raw map[string]any
	if err := json.Unmarshal(patch, &raw); err != nil {
		return nil, fmt.Errorf("%w: diff: %w", ErrConsistency, err)
	}

	diff := kind.Dict{}
	for name, rawVal := range raw {
		if rawVal == nil {
			diff[name] = kind.Remove{}
			continue
		}
		v, err := hayson.FromJSON(rawVal)
		if err != nil {
			return nil, err
		}
		diff[name] = v
	}

	// identity tags always ride along unchanged
	for _, name := range []string{"id", "mod"} {
		if v, ok := before[name]; ok {
			diff[name] = v
		}
	}
	return diff, nil
}
