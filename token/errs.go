package token

import "errors"

var (
	ErrSyntax = errors.New("syntax error")
	ErrEscape = errors.New("invalid escape sequence")
	ErrEOF    = errors.New("unexpected end of input")
)
