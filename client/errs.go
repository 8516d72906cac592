package client

import (
	"errors"
	"fmt"

	"github.com/signadot/haystack-go/kind"
	"github.com/signadot/haystack-go/scram"
)

var (
	// ErrTransport covers connection-level failures: dial, timeout, TLS,
	// and malformed response bodies. A status the server chose to send is
	// never a transport error.
	ErrTransport = errors.New("transport error")

	// ErrAuth covers handshake failures and rejected auth tokens. All scram
	// package errors wrap it too.
	ErrAuth = scram.ErrAuth

	// ErrOp covers operations the server rejected, whether with an error
	// grid or a non-2xx status.
	ErrOp = errors.New("operation error")

	// ErrIncomplete marks a response the server truncated.
	ErrIncomplete = errors.New("incomplete response")

	// ErrUnknownRec is returned by checked reads when the server has no
	// matching record.
	ErrUnknownRec = errors.New("unknown record")

	// ErrConsistency is returned when request data violates an invariant
	// the client checks before sending, such as out-of-order history rows.
	ErrConsistency = errors.New("consistency error")
)

// CallErr is an in-band error response: a grid whose metadata carries the
// err marker, or the incomplete tag. The grid is retained so callers can
// inspect the server's diagnostic tags and rows.
type CallErr struct {
	Grid       *kind.Grid
	Incomplete bool
}

func (e *CallErr) Error() string {
	dis := "server error grid"
	if s, ok := e.Grid.Meta()["dis"].(kind.Str); ok {
		dis = string(s)
	}
	if e.Incomplete {
		return fmt.Sprintf("incomplete response: %s", dis)
	}
	return dis
}

func (e *CallErr) Is(target error) bool {
	if target == ErrOp {
		return true
	}
	return e.Incomplete && target == ErrIncomplete
}

// StatusErr is a non-2xx HTTP response. 401 and 403 are auth errors;
// everything else is an operation error.
type StatusErr struct {
	Status int
	Body   string
}

func (e *StatusErr) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d", e.Status)
}

func (e *StatusErr) Is(target error) bool {
	if target == ErrAuth {
		return e.Status == 401 || e.Status == 403
	}
	return target == ErrOp && e.Status != 401 && e.Status != 403
}
