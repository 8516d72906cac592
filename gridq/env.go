package gridq

import (
	"github.com/signadot/haystack-go/kind"
)

// toAny lowers a tag value to the plain Go form the expression engine
// works with. Markers lower to true so `site` reads naturally as a
// boolean test; refs lower to their identifier string.
func toAny(v kind.Kind) any {
	switch t := v.(type) {
	case nil:
		return nil
	case kind.Marker:
		return true
	case kind.NA, kind.Remove:
		return nil
	case kind.Bool:
		return bool(t)
	case kind.Str:
		return string(t)
	case kind.Number:
		return t.Val
	case kind.Uri:
		return string(t)
	case kind.Ref:
		return t.Val
	case kind.Symbol:
		return string(t)
	case kind.DateTime:
		return t.Time()
	case kind.List:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = toAny(item)
		}
		return out
	case kind.Dict:
		out := make(map[string]any, len(t))
		for name, item := range t {
			out[name] = toAny(item)
		}
		return out
	default:
		// Date, Time, Coord, XStr, nested grids: the display form
		return v.String()
	}
}

// rowEnv is the evaluation environment for one row: lowered tag values
// plus helper functions bound to the row. Known column names missing
// from the row default to false.
func rowEnv(row kind.Dict, cols []string) map[string]any {
	env := make(map[string]any, len(row)+len(cols)+4)
	for _, name := range cols {
		env[name] = false
	}
	for name, v := range row {
		env[name] = toAny(v)
	}
	env["has"] = func(name string) bool {
		return row.Has(name)
	}
	env["unit"] = func(name string) string {
		if n, ok := row[name].(kind.Number); ok {
			return n.Unit
		}
		return ""
	}
	env["refDis"] = func(name string) string {
		if r, ok := row[name].(kind.Ref); ok {
			return r.Dis
		}
		return ""
	}
	env["isNA"] = func(name string) bool {
		_, ok := row[name].(kind.NA)
		return ok
	}
	return env
}
