// Package hayson implements the JSON encoding of Haystack values. JSON
// cannot express the full type system, so typed values are wrapped in
// objects with a _kind discriminator; plain JSON strings, booleans, and
// numbers map to Str, Bool, and unitless Number.
package hayson

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/signadot/haystack-go/kind"
)

// Encode writes a value as hayson JSON bytes.
func Encode(v kind.Kind) ([]byte, error) {
	raw, err := ToJSON(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(raw)
}

// EncodeGrid writes a grid as hayson JSON bytes.
func EncodeGrid(g *kind.Grid) ([]byte, error) {
	return Encode(g)
}

// ToJSON lowers a value to the json.Marshal-ready representation.
func ToJSON(v kind.Kind) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case kind.Bool:
		return bool(val), nil
	case kind.Str:
		s := string(val)
		if hasLegacyPrefix(s) {
			// collides with a legacy compact scalar; escape so it
			// decodes back as a string
			return "s:" + s, nil
		}
		return s, nil
	case kind.Number:
		return numberToJSON(val), nil
	case kind.Marker:
		return map[string]any{"_kind": "marker"}, nil
	case kind.NA:
		return map[string]any{"_kind": "na"}, nil
	case kind.Remove:
		return map[string]any{"_kind": "remove"}, nil
	case kind.Ref:
		m := map[string]any{"_kind": "ref", "val": val.Val}
		if val.Dis != "" {
			m["dis"] = val.Dis
		}
		return m, nil
	case kind.Symbol:
		return map[string]any{"_kind": "symbol", "val": string(val)}, nil
	case kind.Uri:
		return map[string]any{"_kind": "uri", "val": string(val)}, nil
	case kind.Date:
		return map[string]any{"_kind": "date", "val": val.String()}, nil
	case kind.Time:
		return map[string]any{"_kind": "time", "val": val.String()}, nil
	case kind.DateTime:
		return map[string]any{
			"_kind": "dateTime",
			"val":   isoString(val),
			"tz":    val.City(),
		}, nil
	case kind.Coord:
		return map[string]any{"_kind": "coord", "lat": val.Lat, "lng": val.Lng}, nil
	case kind.XStr:
		return map[string]any{"_kind": "xstr", "type": val.Type, "val": val.Val}, nil
	case kind.List:
		out := make([]any, len(val))
		for i, item := range val {
			raw, err := ToJSON(item)
			if err != nil {
				return nil, err
			}
			out[i] = raw
		}
		return out, nil
	case kind.Dict:
		return dictToJSON(val)
	case *kind.Grid:
		return gridToJSON(val)
	case kind.DateRange, kind.DateTimeRange:
		// query-side helpers, lowered to a range string
		return v.String(), nil
	}
	return nil, fmt.Errorf("%w: cannot encode %T", ErrEncode, v)
}

func dictToJSON(d kind.Dict) (map[string]any, error) {
	out := make(map[string]any, len(d))
	for name, v := range d {
		raw, err := ToJSON(v)
		if err != nil {
			return nil, fmt.Errorf("%w: tag %q", err, name)
		}
		out[name] = raw
	}
	return out, nil
}

func gridToJSON(g *kind.Grid) (map[string]any, error) {
	meta, err := dictToJSON(g.Meta())
	if err != nil {
		return nil, err
	}
	cols := make([]any, len(g.Cols()))
	for i, col := range g.Cols() {
		c := map[string]any{"name": col.Name}
		if len(col.Meta) > 0 {
			m, err := dictToJSON(col.Meta)
			if err != nil {
				return nil, fmt.Errorf("%w: col %q", err, col.Name)
			}
			c["meta"] = m
		}
		cols[i] = c
	}
	rows := make([]any, len(g.Rows()))
	for i, row := range g.Rows() {
		r, err := dictToJSON(row)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d", err, i)
		}
		rows[i] = r
	}
	return map[string]any{
		"_kind": "grid",
		"meta":  meta,
		"cols":  cols,
		"rows":  rows,
	}, nil
}

// numberToJSON emits a bare JSON number for finite unitless values.
// Non-finite values cannot be JSON numbers and are carried as strings.
func numberToJSON(n kind.Number) any {
	var val any = n.Val
	switch {
	case math.IsInf(n.Val, 1):
		val = "INF"
	case math.IsInf(n.Val, -1):
		val = "-INF"
	case math.IsNaN(n.Val):
		val = "NaN"
	default:
		if n.Unit == "" {
			return n.Val
		}
	}
	m := map[string]any{"_kind": "number", "val": val}
	if n.Unit != "" {
		m["unit"] = n.Unit
	}
	return m
}

// isoString keeps full sub-second precision; trailing zeros are dropped.
func isoString(dt kind.DateTime) string {
	return dt.Time().Format("2006-01-02T15:04:05.999999999-07:00")
}
