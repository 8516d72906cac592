package scram

import "errors"

var (
	ErrAuth = errors.New("auth error")

	ErrHandshakeToken  = errors.New("handshake token not found")
	ErrHash            = errors.New("unsupported hash")
	ErrScramData       = errors.New("scram data not found")
	ErrNonce           = errors.New("server nonce does not extend client nonce")
	ErrServerSignature = errors.New("server signature mismatch")
	ErrAuthToken       = errors.New("auth token not found")
	ErrPhase           = errors.New("exchange out of phase")
)
