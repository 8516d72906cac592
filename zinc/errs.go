package zinc

import "errors"

var (
	ErrDecode  = errors.New("zinc decode error")
	ErrVersion = errors.New("unsupported zinc version")
	ErrEncode  = errors.New("zinc encode error")
)
