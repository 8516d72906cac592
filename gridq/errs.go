package gridq

import "errors"

var (
	// ErrQuery covers expressions that fail to compile or evaluate.
	ErrQuery = errors.New("query error")

	// ErrNotBool is returned when an expression evaluates to something
	// other than a boolean.
	ErrNotBool = errors.New("query did not evaluate to a bool")
)
