package token

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/signadot/haystack-go/kind"
)

const eof = rune(-1)

// Tokenizer scans zinc text one token at a time with single-rune lookahead.
type Tokenizer struct {
	src  []rune
	i    int
	cur  rune
	peek rune
	line int
	col  int
}

func New(src string) *Tokenizer {
	t := &Tokenizer{src: []rune(src), line: 1}
	t.cur, t.peek = eof, eof
	if len(t.src) > 0 {
		t.cur = t.src[0]
		t.col = 1
	}
	if len(t.src) > 1 {
		t.peek = t.src[1]
	}
	t.i = 2
	return t
}

func (t *Tokenizer) consume() {
	if t.cur == '\n' {
		t.line++
		t.col = 0
	}
	t.cur = t.peek
	if t.cur != eof {
		t.col++
	}
	if t.i < len(t.src) {
		t.peek = t.src[t.i]
		t.i++
	} else {
		t.peek = eof
	}
}

func (t *Tokenizer) pos() Pos {
	return Pos{Line: t.line, Col: t.col}
}

// Next scans the next token.
func (t *Tokenizer) Next() (Token, error) {
	for {
		if t.cur == ' ' || t.cur == '\t' || t.cur == '\u00a0' {
			t.consume()
			continue
		}
		if t.cur == '/' && t.peek == '/' {
			t.skipLineComment()
			continue
		}
		if t.cur == '/' && t.peek == '*' {
			t.skipBlockComment()
			continue
		}
		break
	}

	pos := t.pos()
	switch {
	case t.cur == eof:
		return Token{Type: TEOF, Pos: pos}, nil
	case t.cur == '\n' || t.cur == '\r':
		if t.cur == '\r' && t.peek == '\n' {
			t.consume()
		}
		t.consume()
		return Token{Type: TNL, Pos: pos}, nil
	case isAlpha(t.cur) || t.cur == '_' && (isAlphaNum(t.peek) || t.peek == '_'):
		return t.id(pos), nil
	case t.cur == '"':
		return t.str(pos)
	case t.cur == '@':
		return t.ref(pos)
	case t.cur == '^':
		return t.symbol(pos)
	case isDigit(t.cur) || t.cur == '-' && isDigit(t.peek):
		return t.num(pos)
	case t.cur == '`':
		return t.uri(pos)
	}
	return t.operator(pos)
}

func (t *Tokenizer) skipLineComment() {
	for t.cur != '\n' && t.cur != eof {
		t.consume()
	}
}

// Block comments nest, unlike C.
func (t *Tokenizer) skipBlockComment() {
	t.consume()
	t.consume()
	depth := 1
	for {
		switch {
		case t.cur == '*' && t.peek == '/':
			t.consume()
			t.consume()
			depth--
			if depth <= 0 {
				return
			}
		case t.cur == '/' && t.peek == '*':
			t.consume()
			t.consume()
			depth++
		case t.cur == eof:
			return
		default:
			t.consume()
		}
	}
}

func (t *Tokenizer) id(pos Pos) Token {
	var sb strings.Builder
	for isAlphaNum(t.cur) || t.cur == '_' {
		sb.WriteRune(t.cur)
		t.consume()
	}
	return Token{Type: TID, Text: sb.String(), Pos: pos}
}

func (t *Tokenizer) str(pos Pos) (Token, error) {
	t.consume() // opening quote
	var sb strings.Builder
	for {
		switch t.cur {
		case '"':
			t.consume()
			return Token{Type: TStr, Val: kind.Str(sb.String()), Pos: pos}, nil
		case eof:
			return Token{}, NewTokenizeErr(fmt.Errorf("%w: in string", ErrEOF), t.pos())
		case '\\':
			r, err := t.escape()
			if err != nil {
				return Token{}, err
			}
			sb.WriteRune(r)
		default:
			sb.WriteRune(t.cur)
			t.consume()
		}
	}
}

func (t *Tokenizer) escape() (rune, error) {
	t.consume() // backslash
	switch t.cur {
	case 'b':
		t.consume()
		return '\b', nil
	case 'f':
		t.consume()
		return '\f', nil
	case 'n':
		t.consume()
		return '\n', nil
	case 'r':
		t.consume()
		return '\r', nil
	case 't':
		t.consume()
		return '\t', nil
	case '"', '$', '\'', '`', '\\':
		r := t.cur
		t.consume()
		return r, nil
	case 'u':
		t.consume()
		var hex [4]rune
		for i := range hex {
			if !isHex(t.cur) {
				return 0, NewTokenizeErr(fmt.Errorf("%w: \\u", ErrEscape), t.pos())
			}
			hex[i] = t.cur
			t.consume()
		}
		n, err := strconv.ParseUint(string(hex[:]), 16, 32)
		if err != nil {
			return 0, NewTokenizeErr(fmt.Errorf("%w: \\u", ErrEscape), t.pos())
		}
		return rune(n), nil
	}
	return 0, NewTokenizeErr(fmt.Errorf("%w: \\%c", ErrEscape, t.cur), t.pos())
}

func (t *Tokenizer) ref(pos Pos) (Token, error) {
	t.consume() // @
	var sb strings.Builder
	for isRefIDChar(t.cur) {
		sb.WriteRune(t.cur)
		t.consume()
	}
	if sb.Len() == 0 {
		return Token{}, NewTokenizeErr(fmt.Errorf("%w: empty ref", ErrSyntax), pos)
	}
	return Token{Type: TRef, Val: kind.Ref{Val: sb.String()}, Pos: pos}, nil
}

func (t *Tokenizer) symbol(pos Pos) (Token, error) {
	t.consume() // ^
	var sb strings.Builder
	for isRefIDChar(t.cur) {
		sb.WriteRune(t.cur)
		t.consume()
	}
	if sb.Len() == 0 {
		return Token{}, NewTokenizeErr(fmt.Errorf("%w: empty symbol", ErrSyntax), pos)
	}
	return Token{Type: TSymbol, Val: kind.Symbol(sb.String()), Pos: pos}, nil
}

func (t *Tokenizer) uri(pos Pos) (Token, error) {
	t.consume() // opening backtick
	var sb strings.Builder
	for {
		switch t.cur {
		case '`':
			t.consume()
			return Token{Type: TUri, Val: kind.Uri(sb.String()), Pos: pos}, nil
		case eof, '\n':
			return Token{}, NewTokenizeErr(fmt.Errorf("%w: in uri", ErrEOF), t.pos())
		case '\\':
			switch t.peek {
			case ':', '/', '?', '#', '[', ']', '@', '\\', '&', '=', ';':
				sb.WriteRune(t.cur)
				sb.WriteRune(t.peek)
				t.consume()
				t.consume()
			default:
				r, err := t.escape()
				if err != nil {
					return Token{}, err
				}
				sb.WriteRune(r)
			}
		default:
			sb.WriteRune(t.cur)
			t.consume()
		}
	}
}

// num scans one run of number-ish characters, then classifies it by its
// shape: two dashes and no colons is a Date, colons and no dashes a Time,
// two or more dashes plus colons a DateTime, everything else a Number with
// an optional unit suffix.
func (t *Tokenizer) num(pos Pos) (Token, error) {
	if t.cur == '0' && t.peek == 'x' {
		return t.hex(pos)
	}

	var sb strings.Builder
	sb.WriteRune(t.cur)
	t.consume()
	colons, dashes, unitIndex := 0, 0, 0
	exp := false

scan:
	for {
		if !isDigit(t.cur) {
			switch {
			case exp && (t.cur == '+' || t.cur == '-'):
			case t.cur == '-':
				dashes++
			case t.cur == ':' && isDigit(t.peek):
				colons++
			case (exp || colons >= 1) && t.cur == '+':
			case t.cur == '.':
				if !isDigit(t.peek) {
					break scan
				}
			case (t.cur == 'e' || t.cur == 'E') && (t.peek == '-' || t.peek == '+' || isDigit(t.peek)):
				exp = true
			case isAlpha(t.cur) || t.cur == '%' || t.cur == '$' || t.cur == '/' || t.cur > 127:
				if unitIndex == 0 {
					unitIndex = sb.Len()
				}
			case t.cur == '_':
				if unitIndex == 0 && isDigit(t.peek) {
					t.consume()
					continue
				}
				if unitIndex == 0 {
					unitIndex = sb.Len()
				}
			default:
				break scan
			}
		}
		sb.WriteRune(t.cur)
		t.consume()
	}

	s := sb.String()

	if dashes == 2 && colons == 0 {
		d, err := kind.ParseDate(s)
		if err != nil {
			return Token{}, NewTokenizeErr(err, pos)
		}
		return Token{Type: TDate, Val: d, Pos: pos}, nil
	}

	if dashes == 0 && colons >= 1 {
		if s[1] == ':' {
			s = "0" + s
		}
		if colons == 1 {
			s += ":00"
		}
		tm, err := kind.ParseTime(s)
		if err != nil {
			return Token{}, NewTokenizeErr(err, pos)
		}
		return Token{Type: TTime, Val: tm, Pos: pos}, nil
	}

	if dashes >= 2 {
		if t.cur != ' ' || !isUpper(t.peek) {
			if !strings.HasSuffix(s, "Z") {
				return Token{}, NewTokenizeErr(fmt.Errorf("%w: expecting timezone", ErrSyntax), t.pos())
			}
		} else {
			t.consume()
			s += " "
			for isAlphaNum(t.cur) || t.cur == '_' || t.cur == '-' || t.cur == '+' {
				s += string(t.cur)
				t.consume()
			}
		}
		dt, err := kind.ParseDateTime(s)
		if err != nil {
			return Token{}, NewTokenizeErr(err, pos)
		}
		return Token{Type: TDateTime, Val: dt, Pos: pos}, nil
	}

	numStr, unit := s, ""
	if unitIndex > 0 {
		numStr, unit = s[:unitIndex], s[unitIndex:]
	}
	x, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return Token{}, NewTokenizeErr(fmt.Errorf("%w: number %q", ErrSyntax, s), pos)
	}
	return Token{Type: TNum, Val: kind.Number{Val: x, Unit: unit}, Pos: pos}, nil
}

func (t *Tokenizer) hex(pos Pos) (Token, error) {
	t.consume()
	t.consume()
	var sb strings.Builder
	for isHex(t.cur) || t.cur == '_' {
		if t.cur != '_' {
			sb.WriteRune(t.cur)
		}
		t.consume()
	}
	n, err := strconv.ParseUint(sb.String(), 16, 64)
	if err != nil {
		return Token{}, NewTokenizeErr(fmt.Errorf("%w: hex number", ErrSyntax), pos)
	}
	return Token{Type: TNum, Val: kind.Number{Val: float64(n)}, Pos: pos}, nil
}

func (t *Tokenizer) operator(pos Pos) (Token, error) {
	c := t.cur
	t.consume()
	switch c {
	case ',':
		return Token{Type: TComma, Pos: pos}, nil
	case ':':
		return Token{Type: TColon, Pos: pos}, nil
	case ';':
		return Token{Type: TSemicolon, Pos: pos}, nil
	case '[':
		return Token{Type: TLBracket, Pos: pos}, nil
	case ']':
		return Token{Type: TRBracket, Pos: pos}, nil
	case '{':
		return Token{Type: TLBrace, Pos: pos}, nil
	case '}':
		return Token{Type: TRBrace, Pos: pos}, nil
	case '(':
		return Token{Type: TLParen, Pos: pos}, nil
	case ')':
		return Token{Type: TRParen, Pos: pos}, nil
	case '-':
		return Token{Type: TMinus, Pos: pos}, nil
	case '<':
		if t.cur == '<' {
			t.consume()
			return Token{Type: TLt2, Pos: pos}, nil
		}
	case '>':
		if t.cur == '>' {
			t.consume()
			return Token{Type: TGt2, Pos: pos}, nil
		}
	}
	return Token{}, UnexpectedErr(fmt.Sprintf("symbol %q", c), pos)
}

func isAlpha(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlphaNum(r rune) bool {
	return isAlpha(r) || isDigit(r)
}

func isUpper(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

func isHex(r rune) bool {
	return isDigit(r) || r >= 'a' && r <= 'f' || r >= 'A' && r <= 'F'
}

func isRefIDChar(r rune) bool {
	return isAlphaNum(r) || r == '_' || r == ':' || r == '-' || r == '.' || r == '~'
}
