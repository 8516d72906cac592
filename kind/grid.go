package kind

import (
	"fmt"
	"sort"
)

// Col is a grid column: a programmatic name plus column-level metadata.
type Col struct {
	Name string
	Meta Dict
}

// Grid is the core Haystack data structure: an ordered list of columns,
// grid-level metadata, and rows of values keyed by column name. A Grid is
// immutable after construction; accessors return the internal slices, which
// callers must not mutate.
type Grid struct {
	meta Dict
	cols []Col
	rows []Dict
}

func (*Grid) isKind() {}

func (g *Grid) String() string {
	return fmt.Sprintf("Grid(%d cols, %d rows)", len(g.cols), len(g.rows))
}

// NewGrid builds a grid, validating the shape invariants: column names must
// be unique valid tag names, and every row key must name a declared column.
func NewGrid(meta Dict, cols []Col, rows []Dict) (*Grid, error) {
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		if !IsTagName(c.Name) {
			return nil, fmt.Errorf("%w: column name %q", ErrGrid, c.Name)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrGrid, c.Name)
		}
		seen[c.Name] = true
	}
	for i, row := range rows {
		for name := range row {
			if !seen[name] {
				return nil, fmt.Errorf("%w: row %d key %q has no column", ErrGrid, i, name)
			}
		}
	}
	if meta == nil {
		meta = Dict{}
	}
	return &Grid{meta: meta, cols: cols, rows: rows}, nil
}

// Meta returns grid-level metadata.
func (g *Grid) Meta() Dict { return g.meta }

// Cols returns the ordered column list.
func (g *Grid) Cols() []Col { return g.cols }

// Rows returns the row list.
func (g *Grid) Rows() []Dict { return g.rows }

// Col returns the column with the given name, or false when absent.
func (g *Grid) Col(name string) (Col, bool) {
	for _, c := range g.cols {
		if c.Name == name {
			return c, true
		}
	}
	return Col{}, false
}

// IsErr reports whether the grid metadata carries the err marker, the
// server's convention for an in-band error response.
func (g *Grid) IsErr() bool {
	_, ok := g.meta["err"].(Marker)
	return ok
}

// IsIncomplete reports whether the grid metadata carries the incomplete tag,
// indicating a truncated result.
func (g *Grid) IsIncomplete() bool {
	return g.meta.Has("incomplete")
}

// ColRename returns a copy of g with columns renamed per the mapping. Names
// absent from the mapping pass through. Useful for swapping programmatic
// names for display names before handing rows to tabular consumers.
func (g *Grid) ColRename(names map[string]string) (*Grid, error) {
	rename := func(name string) string {
		if to, ok := names[name]; ok {
			return to
		}
		return name
	}
	cols := make([]Col, len(g.cols))
	for i, c := range g.cols {
		cols[i] = Col{Name: rename(c.Name), Meta: c.Meta}
	}
	rows := make([]Dict, len(g.rows))
	for i, row := range g.rows {
		out := make(Dict, len(row))
		for name, v := range row {
			out[rename(name)] = v
		}
		rows[i] = out
	}
	return NewGrid(g.meta, cols, rows)
}

// ToGrid wraps rows in a grid with a ver meta tag. Column order is the order
// tags first appear across the rows, sorted within each row for determinism.
func ToGrid(rows []Dict, meta Dict) (*Grid, error) {
	var cols []Col
	seen := map[string]bool{}
	for _, row := range rows {
		names := make([]string, 0, len(row))
		for name := range row {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if !seen[name] {
				seen[name] = true
				cols = append(cols, Col{Name: name})
			}
		}
	}
	m := Dict{"ver": Str("3.0")}
	for name, v := range meta {
		m[name] = v
	}
	return NewGrid(m, cols, rows)
}

// HisGrid wraps history rows in a grid stamped with hisStart and hisEnd
// meta, the shape hisWrite expects.
func HisGrid(rows []Dict, start, end Kind) (*Grid, error) {
	return ToGrid(rows, Dict{"hisStart": start, "hisEnd": end})
}

// IsTagName reports whether s is a valid tag name: a lowercase ASCII letter
// or underbar followed by ASCII letters, digits, and underbars.
func IsTagName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r == '_':
		case i > 0 && (r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'):
		default:
			return false
		}
	}
	return true
}
