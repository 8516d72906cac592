package zinc

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/signadot/haystack-go/kind"
)

// Colors maps zinc token classes to terminal colors for pretty printing.
// Output respects the global color.NoColor switch.
type Colors struct {
	Punct   *color.Color
	Name    *color.Color
	Str     *color.Color
	Num     *color.Color
	Ref     *color.Color
	Keyword *color.Color
}

// DefaultColors is the palette used by the view command.
func DefaultColors() *Colors {
	return &Colors{
		Punct:   color.New(color.Faint),
		Name:    color.New(color.Bold),
		Str:     color.New(color.FgGreen),
		Num:     color.New(color.FgCyan),
		Ref:     color.New(color.FgYellow),
		Keyword: color.New(color.FgMagenta),
	}
}

type EncodeOption func(*encoder)

// WithColors enables colorized output.
func WithColors(c *Colors) EncodeOption {
	return func(e *encoder) {
		e.colors = c
	}
}

type encoder struct {
	sb     strings.Builder
	colors *Colors
}

// Encode writes a value as zinc text. Grids use the multi-line grid form,
// everything else the single value form.
func Encode(v kind.Kind, opts ...EncodeOption) (string, error) {
	e := &encoder{}
	for _, opt := range opts {
		opt(e)
	}
	var err error
	if g, ok := v.(*kind.Grid); ok {
		err = e.writeGrid(g)
	} else {
		err = e.writeVal(v)
	}
	if err != nil {
		return "", err
	}
	return e.sb.String(), nil
}

// EncodeGrid writes a grid as zinc text.
func EncodeGrid(g *kind.Grid, opts ...EncodeOption) (string, error) {
	return Encode(g, opts...)
}

func (e *encoder) paint(c *color.Color, s string) {
	if e.colors == nil || c == nil {
		e.sb.WriteString(s)
		return
	}
	e.sb.WriteString(c.Sprint(s))
}

func (e *encoder) punct(s string) {
	if e.colors == nil {
		e.sb.WriteString(s)
		return
	}
	e.paint(e.colors.Punct, s)
}

func (e *encoder) writeGrid(g *kind.Grid) error {
	if err := e.writeMeta(false, g.Meta()); err != nil {
		return err
	}
	e.sb.WriteByte('\n')

	cols := g.Cols()
	if len(cols) == 0 {
		// technically illegal, handled for robustness
		e.sb.WriteString("noCols\n")
	} else {
		for i, col := range cols {
			if i > 0 {
				e.punct(",")
			}
			if e.colors == nil {
				e.sb.WriteString(col.Name)
			} else {
				e.paint(e.colors.Name, col.Name)
			}
			if len(col.Meta) > 0 {
				if err := e.writeMeta(true, col.Meta); err != nil {
					return err
				}
			}
		}
		e.sb.WriteByte('\n')
	}

	for _, row := range g.Rows() {
		if err := e.writeRow(row, cols); err != nil {
			return err
		}
	}
	e.sb.WriteByte('\n')
	return nil
}

func (e *encoder) writeRow(row kind.Dict, cols []kind.Col) error {
	for i, col := range cols {
		if i > 0 {
			e.punct(",")
		}
		val, ok := row[col.Name]
		if !ok {
			// the sole column uses an explicit N for null
			if len(cols) == 1 {
				e.keyword("N")
			}
			continue
		}
		if err := e.writeVal(val); err != nil {
			return fmt.Errorf("%w: col %q: %w", ErrEncode, col.Name, err)
		}
	}
	e.sb.WriteByte('\n')
	return nil
}

// writeMeta writes tags sorted by name, with ver first so grid metadata
// lines always lead with the version.
func (e *encoder) writeMeta(leadingSpace bool, m kind.Dict) error {
	names := make([]string, 0, len(m))
	for name := range m {
		if name != "ver" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if m.Has("ver") {
		names = append([]string{"ver"}, names...)
	}

	for _, name := range names {
		if leadingSpace {
			e.sb.WriteByte(' ')
		} else {
			leadingSpace = true
		}
		if e.colors == nil {
			e.sb.WriteString(name)
		} else {
			e.paint(e.colors.Name, name)
		}
		val := m[name]
		if _, isMarker := val.(kind.Marker); isMarker {
			continue
		}
		e.punct(":")
		if err := e.writeVal(val); err != nil {
			return fmt.Errorf("%w: meta %q: %w", ErrEncode, name, err)
		}
	}
	return nil
}

func (e *encoder) writeVal(val kind.Kind) error {
	switch v := val.(type) {
	case nil:
		e.keyword("N")
	case *kind.Grid:
		e.punct("<<")
		e.sb.WriteByte('\n')
		if err := e.writeGrid(v); err != nil {
			return err
		}
		e.punct(">>")
	case kind.List:
		e.punct("[")
		for i, item := range v {
			if i > 0 {
				e.punct(",")
			}
			if err := e.writeVal(item); err != nil {
				return err
			}
		}
		e.punct("]")
	case kind.Dict:
		e.punct("{")
		if err := e.writeMeta(false, v); err != nil {
			return err
		}
		e.punct("}")
	default:
		return e.writeScalar(val)
	}
	return nil
}

func (e *encoder) keyword(s string) {
	if e.colors == nil {
		e.sb.WriteString(s)
		return
	}
	e.paint(e.colors.Keyword, s)
}

func (e *encoder) writeScalar(val kind.Kind) error {
	switch v := val.(type) {
	case kind.Str:
		e.paintStr(quoteStr(string(v)))
	case kind.Bool:
		if v {
			e.keyword("T")
		} else {
			e.keyword("F")
		}
	case kind.Marker:
		e.keyword("M")
	case kind.NA:
		e.keyword("NA")
	case kind.Remove:
		e.keyword("R")
	case kind.Number:
		e.paintNum(numStr(v))
	case kind.Date:
		e.paintNum(v.String())
	case kind.Time:
		e.paintNum(v.String())
	case kind.DateTime:
		e.paintNum(dtStr(v))
	case kind.Ref:
		s := "@" + v.Val
		if v.Dis != "" {
			s += " " + quoteStr(v.Dis)
		}
		e.paintRef(s)
	case kind.Symbol:
		e.paintRef("^" + string(v))
	case kind.Uri:
		e.paintStr(quoteUri(string(v)))
	case kind.Coord:
		e.paintNum(v.String())
	case kind.XStr:
		if e.colors == nil {
			e.sb.WriteString(v.Type)
		} else {
			e.paint(e.colors.Name, v.Type)
		}
		e.punct("(")
		e.paintStr(quoteStr(v.Val))
		e.punct(")")
	case kind.DateRange, kind.DateTimeRange:
		// query-side helpers, lowered to a range string
		e.paintStr(quoteStr(val.String()))
	default:
		return fmt.Errorf("%w: cannot encode %T", ErrEncode, val)
	}
	return nil
}

func (e *encoder) paintStr(s string) {
	if e.colors == nil {
		e.sb.WriteString(s)
		return
	}
	e.paint(e.colors.Str, s)
}

func (e *encoder) paintNum(s string) {
	if e.colors == nil {
		e.sb.WriteString(s)
		return
	}
	e.paint(e.colors.Num, s)
}

func (e *encoder) paintRef(s string) {
	if e.colors == nil {
		e.sb.WriteString(s)
		return
	}
	e.paint(e.colors.Ref, s)
}

func numStr(n kind.Number) string {
	switch {
	case math.IsInf(n.Val, 1):
		return "INF"
	case math.IsInf(n.Val, -1):
		return "-INF"
	case math.IsNaN(n.Val):
		return "NaN"
	}
	return n.String()
}

// dtStr keeps full sub-second precision; trailing zeros are dropped.
func dtStr(dt kind.DateTime) string {
	city := dt.City()
	t := dt.Time()
	layout := "2006-01-02T15:04:05.999999999"
	if city == "UTC" {
		return t.UTC().Format(layout) + "Z"
	}
	return t.Format(layout+"-07:00") + " " + city
}

func quoteStr(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\b':
			sb.WriteString(`\b`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\f':
			sb.WriteString(`\f`)
		case '\t':
			sb.WriteString(`\t`)
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '`':
			sb.WriteString("\\`")
		case '\'':
			sb.WriteString(`\'`)
		default:
			if r < 0x20 || r > 127 {
				fmt.Fprintf(&sb, `\u%04x`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func quoteUri(s string) string {
	var sb strings.Builder
	sb.WriteByte('`')
	for _, r := range s {
		switch r {
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\f':
			sb.WriteString(`\f`)
		case '\t':
			sb.WriteString(`\t`)
		case '`':
			sb.WriteString("\\`")
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('`')
	return sb.String()
}
