// Package gridq filters decoded grids row by row with boolean
// expressions. Tag names are identifiers in the expression; a tag absent
// from a row reads as nil. Markers read as true, numbers as their scalar
// value with the unit stripped, refs as their identifier string.
package gridq

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/signadot/haystack-go/kind"
)

// Query is a compiled row predicate, reusable across grids.
type Query struct {
	src string
	prg *vm.Program
}

// Compile builds a query from an expression such as
// `site and area > 1000` or `has("geoCity") and unit("area") == "ft²"`.
func Compile(src string) (*Query, error) {
	prg, err := expr.Compile(src, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	return &Query{src: src, prg: prg}, nil
}

func (q *Query) String() string { return q.src }

// Match evaluates the query against one row.
func (q *Query) Match(row kind.Dict) (bool, error) {
	return q.match(rowEnv(row, nil))
}

func (q *Query) match(env map[string]any) (bool, error) {
	res, err := expr.Run(q.prg, env)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	switch v := res.(type) {
	case bool:
		return v, nil
	case nil:
		// absent tag used as a bare test
		return false, nil
	}
	return false, fmt.Errorf("%w: got %T", ErrNotBool, res)
}

// Filter returns a grid with the same metadata and columns holding only
// the rows matching q. Column names absent from a row read as false, so
// a bare tag name tests presence the way markers do.
func (q *Query) Filter(g *kind.Grid) (*kind.Grid, error) {
	cols := make([]string, len(g.Cols()))
	for i, col := range g.Cols() {
		cols[i] = col.Name
	}
	var rows []kind.Dict
	for _, row := range g.Rows() {
		ok, err := q.match(rowEnv(row, cols))
		if err != nil {
			return nil, err
		}
		if ok {
			rows = append(rows, row)
		}
	}
	return kind.NewGrid(g.Meta(), g.Cols(), rows)
}

// Filter compiles src and filters g in one step.
func Filter(g *kind.Grid, src string) (*kind.Grid, error) {
	q, err := Compile(src)
	if err != nil {
		return nil, err
	}
	return q.Filter(g)
}
