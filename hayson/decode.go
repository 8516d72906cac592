package hayson

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/signadot/haystack-go/kind"
)

// Decode parses hayson JSON bytes into a value.
func Decode(data []byte) (kind.Kind, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return FromJSON(raw)
}

// DecodeGrid parses hayson JSON bytes that must be a grid.
func DecodeGrid(data []byte) (*kind.Grid, error) {
	v, err := Decode(data)
	if err != nil {
		return nil, err
	}
	g, ok := v.(*kind.Grid)
	if !ok {
		return nil, fmt.Errorf("%w: not a grid", ErrDecode)
	}
	return g, nil
}

// FromJSON converts an unmarshalled JSON value. A bare JSON number always
// decodes to a unitless Number; units are never guessed.
func FromJSON(raw any) (kind.Kind, error) {
	switch val := raw.(type) {
	case nil:
		return nil, nil
	case bool:
		return kind.Bool(val), nil
	case string:
		return decodeString(val), nil
	case float64:
		return kind.Number{Val: val}, nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: number %q", ErrDecode, val)
		}
		return kind.Number{Val: f}, nil
	case []any:
		out := make(kind.List, len(val))
		for i, item := range val {
			v, err := FromJSON(item)
			if err != nil {
				return nil, fmt.Errorf("%w: index %d", err, i)
			}
			out[i] = v
		}
		return out, nil
	case map[string]any:
		if k, ok := val["_kind"].(string); ok {
			return decodeKind(k, val)
		}
		return decodeDict(val)
	}
	return nil, fmt.Errorf("%w: unsupported JSON value %T", ErrDecode, raw)
}

var legacyPrefixes = []string{"n:", "r:", "s:", "u:"}

func hasLegacyPrefix(s string) bool {
	for _, p := range legacyPrefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// Legacy compact scalars use single-letter prefixes. Only a few survive in
// the wild; they are accepted on decode, and produced on encode only to
// escape a Str that would otherwise read as one of them.
func decodeString(s string) kind.Kind {
	switch {
	case strings.HasPrefix(s, "n:"):
		numStr, unit, _ := strings.Cut(s[2:], " ")
		f, err := strconv.ParseFloat(numStr, 64)
		if err != nil {
			return kind.Str(s)
		}
		return kind.Number{Val: f, Unit: unit}
	case strings.HasPrefix(s, "r:"):
		val, dis, _ := strings.Cut(s[2:], " ")
		return kind.Ref{Val: val, Dis: dis}
	case strings.HasPrefix(s, "s:"):
		return kind.Str(s[2:])
	case strings.HasPrefix(s, "u:"):
		return kind.Uri(s[2:])
	}
	return kind.Str(s)
}

func decodeKind(k string, m map[string]any) (kind.Kind, error) {
	switch k {
	case "marker":
		return kind.Marker{}, nil
	case "na":
		return kind.NA{}, nil
	case "remove":
		return kind.Remove{}, nil
	case "number":
		return decodeNumber(m)
	case "ref":
		val, err := stringField(m, "val")
		if err != nil {
			return nil, err
		}
		dis, _ := m["dis"].(string)
		return kind.Ref{Val: val, Dis: dis}, nil
	case "symbol":
		val, err := stringField(m, "val")
		if err != nil {
			return nil, err
		}
		return kind.Symbol(val), nil
	case "uri":
		val, err := stringField(m, "val")
		if err != nil {
			return nil, err
		}
		return kind.Uri(val), nil
	case "date":
		val, err := stringField(m, "val")
		if err != nil {
			return nil, err
		}
		d, err := kind.ParseDate(val)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		return d, nil
	case "time":
		val, err := stringField(m, "val")
		if err != nil {
			return nil, err
		}
		t, err := kind.ParseTime(val)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		return t, nil
	case "dateTime":
		return decodeDateTime(m)
	case "coord":
		lat, err := numField(m, "lat")
		if err != nil {
			return nil, err
		}
		lng, err := numField(m, "lng")
		if err != nil {
			return nil, err
		}
		return kind.Coord{Lat: lat, Lng: lng}, nil
	case "xstr":
		typ, err := stringField(m, "type")
		if err != nil {
			return nil, err
		}
		val, err := stringField(m, "val")
		if err != nil {
			return nil, err
		}
		return kind.XStr{Type: typ, Val: val}, nil
	case "dict":
		return decodeDict(m)
	case "grid":
		return decodeGrid(m)
	}
	return nil, fmt.Errorf("%w: unknown _kind %q", ErrDecode, k)
}

func decodeNumber(m map[string]any) (kind.Kind, error) {
	unit, _ := m["unit"].(string)
	switch val := m["val"].(type) {
	case float64:
		return kind.Number{Val: val, Unit: unit}, nil
	case string:
		switch val {
		case "INF":
			return kind.Number{Val: math.Inf(1), Unit: unit}, nil
		case "-INF":
			return kind.Number{Val: math.Inf(-1), Unit: unit}, nil
		case "NaN":
			return kind.Number{Val: math.NaN(), Unit: unit}, nil
		}
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: number val %q", ErrDecode, val)
		}
		return kind.Number{Val: f, Unit: unit}, nil
	}
	return nil, fmt.Errorf("%w: number missing val", ErrDecode)
}

func decodeDateTime(m map[string]any) (kind.Kind, error) {
	val, err := stringField(m, "val")
	if err != nil {
		return nil, err
	}
	city, _ := m["tz"].(string)
	if city == "" {
		if !strings.HasSuffix(val, "Z") {
			return nil, fmt.Errorf("%w: dateTime missing tz", ErrDecode)
		}
		city = "UTC"
	}
	loc, err := kind.IANAZone(city)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		t, perr := time.Parse(layout, val)
		if perr == nil {
			dt, derr := kind.NewDateTime(t.In(loc))
			if derr != nil {
				return nil, fmt.Errorf("%w: %w", ErrDecode, derr)
			}
			return dt, nil
		}
	}
	return nil, fmt.Errorf("%w: dateTime val %q", ErrDecode, val)
}

func decodeDict(m map[string]any) (kind.Dict, error) {
	out := kind.Dict{}
	for name, raw := range m {
		if name == "_kind" {
			continue
		}
		v, err := FromJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: tag %q", err, name)
		}
		if v == nil {
			continue
		}
		out[name] = v
	}
	return out, nil
}

func decodeGrid(m map[string]any) (*kind.Grid, error) {
	gb := new(kind.GridBuilder)

	if rawMeta, ok := m["meta"].(map[string]any); ok {
		meta, err := decodeDict(rawMeta)
		if err != nil {
			return nil, err
		}
		gb.SetMeta(meta)
	}

	rawCols, ok := m["cols"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: grid missing cols", ErrDecode)
	}
	for i, rawCol := range rawCols {
		cm, ok := rawCol.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: col %d is not an object", ErrDecode, i)
		}
		name, ok := cm["name"].(string)
		if !ok {
			return nil, fmt.Errorf("%w: col %d missing name", ErrDecode, i)
		}
		var colMeta kind.Dict
		if rawColMeta, ok := cm["meta"].(map[string]any); ok {
			var err error
			colMeta, err = decodeDict(rawColMeta)
			if err != nil {
				return nil, fmt.Errorf("%w: col %q", err, name)
			}
		}
		gb.AddCol(name, colMeta)
	}

	if rawRows, ok := m["rows"].([]any); ok {
		for i, rawRow := range rawRows {
			rm, ok := rawRow.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: row %d is not an object", ErrDecode, i)
			}
			row, err := decodeDict(rm)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d", err, i)
			}
			gb.AddRow(row)
		}
	}

	g, err := gb.ToGrid()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return g, nil
}

func stringField(m map[string]any, name string) (string, error) {
	s, ok := m[name].(string)
	if !ok {
		return "", fmt.Errorf("%w: missing %s", ErrDecode, name)
	}
	return s, nil
}

func numField(m map[string]any, name string) (float64, error) {
	f, ok := m[name].(float64)
	if !ok {
		return 0, fmt.Errorf("%w: missing %s", ErrDecode, name)
	}
	return f, nil
}
