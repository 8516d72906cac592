package kind

import "errors"

var (
	// ErrValue is returned for literals that cannot represent a value.
	ErrValue = errors.New("invalid value")

	// ErrGrid is returned when grid shape invariants are violated: duplicate
	// or invalid column names, or row keys outside the declared columns.
	ErrGrid = errors.New("invalid grid")

	// ErrZone is returned when a Haystack timezone city cannot be resolved
	// to an IANA zone.
	ErrZone = errors.New("unknown timezone")
)
