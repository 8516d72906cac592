package hayson

import "errors"

var (
	ErrDecode = errors.New("hayson decode error")
	ErrEncode = errors.New("hayson encode error")
)
