// Package zinc implements the line-oriented zinc text encoding of Haystack
// values: a grid is a metadata line, a column header line, and one line of
// comma-separated cells per row.
package zinc

import (
	"fmt"
	"math"

	"github.com/signadot/haystack-go/debug"
	"github.com/signadot/haystack-go/kind"
	"github.com/signadot/haystack-go/token"
)

type decoder struct {
	tk   *token.Tokenizer
	cur  token.Token
	peek token.Token
}

// Decode parses zinc text into a value. Text starting with a ver tag
// decodes as a grid, anything else as a single value.
func Decode(src string) (kind.Kind, error) {
	d := &decoder{tk: token.New(src)}
	if err := d.consume(); err != nil {
		return nil, err
	}
	if err := d.consume(); err != nil {
		return nil, err
	}

	var (
		val kind.Kind
		err error
	)
	if d.cur.Type == token.TID && d.cur.Text == "ver" {
		val, err = d.parseGrid()
	} else {
		val, err = d.parseVal()
	}
	if err != nil {
		return nil, err
	}
	if err := d.verify(token.TEOF); err != nil {
		return nil, err
	}
	return val, nil
}

// DecodeGrid parses zinc text that must be a grid.
func DecodeGrid(src string) (*kind.Grid, error) {
	val, err := Decode(src)
	if err != nil {
		return nil, err
	}
	g, ok := val.(*kind.Grid)
	if !ok {
		return nil, fmt.Errorf("%w: not a grid", ErrDecode)
	}
	return g, nil
}

func (d *decoder) consume() error {
	d.cur = d.peek
	next, err := d.tk.Next()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	d.peek = next
	if debug.Token() {
		debug.Logf("token %s %q at %s\n", d.cur.Type, d.cur.Text, d.cur.Pos)
	}
	return nil
}

func (d *decoder) verify(typ token.Type) error {
	if d.cur.Type != typ {
		return fmt.Errorf("%w: %w", ErrDecode, token.ExpectedErr(typ.String(), d.cur.Pos))
	}
	return nil
}

func (d *decoder) expect(typ token.Type) error {
	if err := d.verify(typ); err != nil {
		return err
	}
	return d.consume()
}

// parseVal returns nil for an explicit zinc null (N).
func (d *decoder) parseVal() (kind.Kind, error) {
	if d.cur.Type == token.TID {
		id := d.cur.Text
		if err := d.consume(); err != nil {
			return nil, err
		}

		if d.cur.Type == token.TLParen {
			if d.peek.Type == token.TNum {
				return d.parseCoord(id)
			}
			return d.parseXStr(id)
		}

		switch id {
		case "T":
			return kind.Bool(true), nil
		case "F":
			return kind.Bool(false), nil
		case "N":
			return nil, nil
		case "M":
			return kind.Marker{}, nil
		case "NA":
			return kind.NA{}, nil
		case "R":
			return kind.Remove{}, nil
		case "NaN":
			return kind.Number{Val: math.NaN()}, nil
		case "INF":
			return kind.Number{Val: math.Inf(1)}, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrDecode,
			token.UnexpectedErr(fmt.Sprintf("identifier %q", id), d.cur.Pos))
	}

	if d.cur.Type.IsLiteral() {
		return d.parseLiteral()
	}

	if d.cur.Type == token.TMinus && d.peek.Type == token.TID && d.peek.Text == "INF" {
		if err := d.consume(); err != nil {
			return nil, err
		}
		if err := d.consume(); err != nil {
			return nil, err
		}
		return kind.Number{Val: math.Inf(-1)}, nil
	}

	switch d.cur.Type {
	case token.TLBracket:
		return d.parseList()
	case token.TLBrace:
		return d.parseDict(true)
	case token.TLt2:
		return d.parseGrid()
	}
	return nil, fmt.Errorf("%w: %w", ErrDecode,
		token.UnexpectedErr(d.cur.Type.String(), d.cur.Pos))
}

func (d *decoder) parseLiteral() (kind.Kind, error) {
	val := d.cur.Val
	if d.cur.Type == token.TRef && d.peek.Type == token.TStr {
		ref := val.(kind.Ref)
		ref.Dis = string(d.peek.Val.(kind.Str))
		val = ref
		if err := d.consume(); err != nil {
			return nil, err
		}
	}
	if err := d.consume(); err != nil {
		return nil, err
	}
	return val, nil
}

func (d *decoder) parseCoord(id string) (kind.Kind, error) {
	if id != "C" {
		return nil, fmt.Errorf("%w: expecting C for coord, not %q", ErrDecode, id)
	}
	if err := d.expect(token.TLParen); err != nil {
		return nil, err
	}
	lat, err := d.consumeNum()
	if err != nil {
		return nil, err
	}
	if err := d.expect(token.TComma); err != nil {
		return nil, err
	}
	lng, err := d.consumeNum()
	if err != nil {
		return nil, err
	}
	if err := d.expect(token.TRParen); err != nil {
		return nil, err
	}
	return kind.Coord{Lat: lat.Val, Lng: lng.Val}, nil
}

func (d *decoder) parseXStr(id string) (kind.Kind, error) {
	if id == "" || !(id[0] >= 'A' && id[0] <= 'Z') {
		return nil, fmt.Errorf("%w: invalid xstr type %q", ErrDecode, id)
	}
	if err := d.expect(token.TLParen); err != nil {
		return nil, err
	}
	val, err := d.consumeStr()
	if err != nil {
		return nil, err
	}
	if err := d.expect(token.TRParen); err != nil {
		return nil, err
	}
	return kind.XStr{Type: id, Val: val}, nil
}

func (d *decoder) parseList() (kind.Kind, error) {
	var acc kind.List
	if err := d.expect(token.TLBracket); err != nil {
		return nil, err
	}
	for d.cur.Type != token.TRBracket && d.cur.Type != token.TEOF {
		val, err := d.parseVal()
		if err != nil {
			return nil, err
		}
		acc = append(acc, val)
		if d.cur.Type != token.TComma {
			break
		}
		if err := d.consume(); err != nil {
			return nil, err
		}
	}
	if err := d.expect(token.TRBracket); err != nil {
		return nil, err
	}
	return acc, nil
}

func (d *decoder) parseDict(allowComma bool) (kind.Dict, error) {
	acc := kind.Dict{}

	braces := d.cur.Type == token.TLBrace
	if braces {
		if err := d.consume(); err != nil {
			return nil, err
		}
	}

	for d.cur.Type == token.TID {
		name := d.cur.Text
		if !isTagStart(name) {
			return nil, fmt.Errorf("%w: invalid tag name %q", ErrDecode, name)
		}
		if err := d.consume(); err != nil {
			return nil, err
		}

		var val kind.Kind = kind.Marker{}
		if d.cur.Type == token.TColon {
			if err := d.consume(); err != nil {
				return nil, err
			}
			v, err := d.parseVal()
			if err != nil {
				return nil, err
			}
			val = v
		}
		if val != nil {
			acc[name] = val
		}

		if allowComma && d.cur.Type == token.TComma {
			if err := d.consume(); err != nil {
				return nil, err
			}
		}
	}

	if braces {
		if err := d.expect(token.TRBrace); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func (d *decoder) parseGrid() (kind.Kind, error) {
	nested := d.cur.Type == token.TLt2
	if nested {
		if err := d.consume(); err != nil {
			return nil, err
		}
		if d.cur.Type == token.TNL {
			if err := d.consume(); err != nil {
				return nil, err
			}
		}
	}

	if d.cur.Type != token.TID || d.cur.Text != "ver" {
		return nil, fmt.Errorf("%w: expecting grid ver tag", ErrDecode)
	}
	if err := d.consume(); err != nil {
		return nil, err
	}
	if err := d.expect(token.TColon); err != nil {
		return nil, err
	}
	ver, err := d.consumeStr()
	if err != nil {
		return nil, err
	}
	if ver != "3.0" {
		return nil, fmt.Errorf("%w: %q", ErrVersion, ver)
	}

	gb := new(kind.GridBuilder)
	meta := kind.Dict{"ver": kind.Str(ver)}
	if d.cur.Type == token.TID {
		more, err := d.parseDict(false)
		if err != nil {
			return nil, err
		}
		for name, v := range more {
			meta[name] = v
		}
	}
	gb.SetMeta(meta)
	if err := d.expect(token.TNL); err != nil {
		return nil, err
	}

	for d.cur.Type == token.TID {
		name := d.cur.Text
		if !isTagStart(name) {
			return nil, fmt.Errorf("%w: invalid column name %q", ErrDecode, name)
		}
		if err := d.consume(); err != nil {
			return nil, err
		}
		var colMeta kind.Dict
		if d.cur.Type == token.TID {
			colMeta, err = d.parseDict(false)
			if err != nil {
				return nil, err
			}
		}
		gb.AddCol(name, colMeta)
		if d.cur.Type != token.TComma {
			break
		}
		if err := d.consume(); err != nil {
			return nil, err
		}
	}

	numCols := gb.NumCols()
	if numCols == 0 {
		return nil, fmt.Errorf("%w: no columns defined", ErrDecode)
	}
	colNames := gb.ColNames()
	if err := d.expect(token.TNL); err != nil {
		return nil, err
	}

	for {
		if d.cur.Type == token.TNL || d.cur.Type == token.TEOF {
			break
		}
		if nested && d.cur.Type == token.TGt2 {
			break
		}

		row := kind.Dict{}
		for i, colName := range colNames {
			switch d.cur.Type {
			case token.TComma, token.TNL, token.TEOF:
				// absent cell
			default:
				val, err := d.parseVal()
				if err != nil {
					return nil, err
				}
				if val != nil {
					row[colName] = val
				}
			}
			if i+1 < numCols {
				if err := d.expect(token.TComma); err != nil {
					return nil, err
				}
			}
		}
		if len(row) > 0 {
			gb.AddRow(row)
		}

		if nested && d.cur.Type == token.TGt2 {
			break
		}
		if d.cur.Type == token.TEOF {
			break
		}
		if err := d.expect(token.TNL); err != nil {
			return nil, err
		}
	}

	if d.cur.Type == token.TNL {
		if err := d.consume(); err != nil {
			return nil, err
		}
	}
	if nested {
		if err := d.expect(token.TGt2); err != nil {
			return nil, err
		}
	}

	g, err := gb.ToGrid()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return g, nil
}

func (d *decoder) consumeNum() (kind.Number, error) {
	if err := d.verify(token.TNum); err != nil {
		return kind.Number{}, err
	}
	n := d.cur.Val.(kind.Number)
	return n, d.consume()
}

func (d *decoder) consumeStr() (string, error) {
	if err := d.verify(token.TStr); err != nil {
		return "", err
	}
	s := string(d.cur.Val.(kind.Str))
	return s, d.consume()
}

func isTagStart(name string) bool {
	if name == "" {
		return false
	}
	c := name[0]
	return c >= 'a' && c <= 'z' || c == '_'
}
