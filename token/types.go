package token

import (
	"fmt"

	"github.com/signadot/haystack-go/kind"
)

type Type int

const (
	TEOF Type = iota
	TNL
	TID
	TNum
	TStr
	TRef
	TSymbol
	TUri
	TDate
	TTime
	TDateTime
	TComma
	TColon
	TSemicolon
	TMinus
	TLBracket
	TRBracket
	TLBrace
	TRBrace
	TLParen
	TRParen
	TLt2
	TGt2
)

func (t Type) String() string {
	return map[Type]string{
		TEOF:       "eof",
		TNL:        "newline",
		TID:        "identifier",
		TNum:       "Number",
		TStr:       "Str",
		TRef:       "Ref",
		TSymbol:    "Symbol",
		TUri:       "Uri",
		TDate:      "Date",
		TTime:      "Time",
		TDateTime:  "DateTime",
		TComma:     ",",
		TColon:     ":",
		TSemicolon: ";",
		TMinus:     "-",
		TLBracket:  "[",
		TRBracket:  "]",
		TLBrace:    "{",
		TRBrace:    "}",
		TLParen:    "(",
		TRParen:    ")",
		TLt2:       "<<",
		TGt2:       ">>",
	}[t]
}

// Token is one lexical element. Literal tokens carry the decoded value in
// Val; identifiers carry their text in Text.
type Token struct {
	Type Type
	Val  kind.Kind
	Text string
	Pos  Pos
}

func (t Token) Info() string {
	return fmt.Sprintf("%s %s", t.Type, t.Pos)
}

// IsLiteral reports whether tokens of this type carry a decoded value.
func (t Type) IsLiteral() bool {
	switch t {
	case TNum, TStr, TRef, TSymbol, TUri, TDate, TTime, TDateTime:
		return true
	}
	return false
}

type TokenizeErr struct {
	Err error
	Pos Pos
}

func NewTokenizeErr(e error, p Pos) *TokenizeErr {
	return &TokenizeErr{Err: e, Pos: p}
}

func (e *TokenizeErr) Unwrap() error {
	return e.Err
}

func (e *TokenizeErr) Error() string {
	return fmt.Sprintf("%s at %s", e.Err.Error(), e.Pos)
}

func ExpectedErr(what string, p Pos) error {
	return NewTokenizeErr(fmt.Errorf("%w: expected %s", ErrSyntax, what), p)
}

func UnexpectedErr(what string, p Pos) error {
	return NewTokenizeErr(fmt.Errorf("%w: unexpected %s", ErrSyntax, what), p)
}
