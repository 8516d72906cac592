// Package scram implements the client side of the salted challenge-response
// handshake (RFC 5802) layered over the Haystack HELLO scheme. The exchange
// is a pure state machine; the client package drives the HTTP requests and
// feeds the response headers back in.
package scram

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

type Phase int

const (
	PhaseHello Phase = iota
	PhaseFirst
	PhaseFinal
	PhaseDone
	PhaseFailed
)

func (p Phase) String() string {
	return map[Phase]string{
		PhaseHello:  "hello",
		PhaseFirst:  "first",
		PhaseFinal:  "final",
		PhaseDone:   "done",
		PhaseFailed: "failed",
	}[p]
}

// Exchange holds the progress of one authentication handshake. Each Accept
// method advances the phase; any error is terminal.
type Exchange struct {
	username string
	password string

	clientNonce    string
	handshakeToken string
	c1Bare         string

	sNonce string
	salt   string
	iters  int

	phase Phase
}

func NewExchange(username, password string) *Exchange {
	nonce := newNonce()
	return &Exchange{
		username:    username,
		password:    password,
		clientNonce: nonce,
		c1Bare:      fmt.Sprintf("n=%s,r=%s", username, nonce),
		phase:       PhaseHello,
	}
}

func newNonce() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

// Phase reports where the exchange stands.
func (e *Exchange) Phase() Phase { return e.phase }

func (e *Exchange) fail(err error) error {
	e.phase = PhaseFailed
	return fmt.Errorf("%w: %w", ErrAuth, err)
}

// HelloAuthorization is the Authorization header value for the hello request.
func (e *Exchange) HelloAuthorization() string {
	return "HELLO username=" + toBase64([]byte(e.username))
}

var (
	handshakeTokenRe = regexp.MustCompile(`handshakeToken=([A-Za-z0-9\-_=]+)`)
	hashRe           = regexp.MustCompile(`hash=(SHA-256)`)
	scramDataRe      = regexp.MustCompile(`scram data=([A-Za-z0-9\-_=]+)`)
	authTokenRe      = regexp.MustCompile(`authToken=([^,\s]+)`)
	authDataRe       = regexp.MustCompile(`data=([^,\s]+)`)
)

// AcceptHello consumes the WWW-Authenticate header of the hello response,
// capturing the handshake token and checking the hash scheme.
func (e *Exchange) AcceptHello(wwwAuth string) error {
	if e.phase != PhaseHello {
		return e.fail(fmt.Errorf("%w: %s", ErrPhase, e.phase))
	}
	m := handshakeTokenRe.FindStringSubmatch(wwwAuth)
	if m == nil {
		return e.fail(fmt.Errorf("%w in %q", ErrHandshakeToken, wwwAuth))
	}
	e.handshakeToken = m[1]
	if hashRe.FindStringSubmatch(wwwAuth) == nil {
		return e.fail(fmt.Errorf("%w in %q", ErrHash, wwwAuth))
	}
	e.phase = PhaseFirst
	return nil
}

// FirstAuthorization is the Authorization header value for the
// client-first-message.
func (e *Exchange) FirstAuthorization() string {
	return fmt.Sprintf("scram handshakeToken=%s, data=%s",
		e.handshakeToken, toBase64([]byte(e.c1Bare)))
}

// AcceptFirst consumes the WWW-Authenticate header of the
// server-first-message: the server nonce, salt, and iteration count. The
// server nonce must extend the client nonce; anything else is tampering.
func (e *Exchange) AcceptFirst(wwwAuth string) error {
	if e.phase != PhaseFirst {
		return e.fail(fmt.Errorf("%w: %s", ErrPhase, e.phase))
	}
	if m := handshakeTokenRe.FindStringSubmatch(wwwAuth); m != nil {
		e.handshakeToken = m[1]
	}
	m := scramDataRe.FindStringSubmatch(wwwAuth)
	if m == nil {
		return e.fail(fmt.Errorf("%w in %q", ErrScramData, wwwAuth))
	}
	decoded, err := fromBase64(m[1])
	if err != nil {
		return e.fail(fmt.Errorf("%w: %w", ErrScramData, err))
	}
	parts := strings.Split(strings.ReplaceAll(string(decoded), " ", ""), ",")
	if len(parts) != 3 ||
		!strings.HasPrefix(parts[0], "r=") ||
		!strings.HasPrefix(parts[1], "s=") ||
		!strings.HasPrefix(parts[2], "i=") {
		return e.fail(fmt.Errorf("%w: %q", ErrScramData, decoded))
	}
	sNonce := parts[0][2:]
	if !strings.HasPrefix(sNonce, e.clientNonce) {
		return e.fail(ErrNonce)
	}
	iters, err := strconv.Atoi(parts[2][2:])
	if err != nil || iters <= 0 {
		return e.fail(fmt.Errorf("%w: iterations %q", ErrScramData, parts[2]))
	}
	e.sNonce = sNonce
	e.salt = parts[1][2:]
	e.iters = iters
	e.phase = PhaseFinal
	return nil
}

// FinalAuthorization is the Authorization header value for the
// client-final-message, carrying the client proof.
func (e *Exchange) FinalAuthorization() (string, error) {
	if e.phase != PhaseFinal {
		return "", e.fail(fmt.Errorf("%w: %s", ErrPhase, e.phase))
	}
	saltBytes, err := fromBase64(e.salt)
	if err != nil {
		return "", e.fail(fmt.Errorf("%w: salt: %w", ErrScramData, err))
	}

	salted := pbkdf2.Key([]byte(e.password), saltBytes, e.iters, sha256.Size, sha256.New)
	clientKey := hmacSHA256(salted, []byte("Client Key"))
	storedKey := sha256.Sum256(clientKey)
	clientSig := hmacSHA256(storedKey[:], []byte(e.authMessage()))

	proof := make([]byte, len(clientKey))
	for i := range clientKey {
		proof[i] = clientKey[i] ^ clientSig[i]
	}

	clientFinal := e.clientFinalNoProof() + ",p=" + toBase64(proof)
	return fmt.Sprintf("scram handshakeToken=%s, data=%s",
		e.handshakeToken, toBase64([]byte(clientFinal))), nil
}

// AcceptFinal consumes the Authentication-Info header of the
// server-final-message, verifying the server signature before releasing the
// auth token. A signature mismatch means the server never knew the password.
func (e *Exchange) AcceptFinal(authInfo string) (string, error) {
	if e.phase != PhaseFinal {
		return "", e.fail(fmt.Errorf("%w: %s", ErrPhase, e.phase))
	}
	tok := authTokenRe.FindStringSubmatch(authInfo)
	if tok == nil {
		return "", e.fail(fmt.Errorf("%w in %q", ErrAuthToken, authInfo))
	}
	data := authDataRe.FindStringSubmatch(authInfo)
	if data == nil {
		return "", e.fail(fmt.Errorf("%w: no data in %q", ErrServerSignature, authInfo))
	}
	decoded, err := fromBase64(data[1])
	if err != nil {
		return "", e.fail(fmt.Errorf("%w: %w", ErrServerSignature, err))
	}
	gotSig := strings.TrimPrefix(string(decoded), "v=")

	if subtle.ConstantTimeCompare([]byte(gotSig), []byte(e.serverSignature())) != 1 {
		return "", e.fail(ErrServerSignature)
	}
	e.phase = PhaseDone
	return tok[1], nil
}

func (e *Exchange) clientFinalNoProof() string {
	return fmt.Sprintf("c=%s,r=%s", toBase64([]byte("n,,")), e.sNonce)
}

func (e *Exchange) authMessage() string {
	return fmt.Sprintf("%s,r=%s,s=%s,i=%d,%s",
		e.c1Bare, e.sNonce, e.salt, e.iters, e.clientFinalNoProof())
}

func (e *Exchange) serverSignature() string {
	saltBytes, err := fromBase64(e.salt)
	if err != nil {
		return ""
	}
	salted := pbkdf2.Key([]byte(e.password), saltBytes, e.iters, sha256.Size, sha256.New)
	serverKey := hmacSHA256(salted, []byte("Server Key"))
	sig := hmacSHA256(serverKey, []byte(e.authMessage()))
	return base64.StdEncoding.EncodeToString(sig)
}

func hmacSHA256(key, msg []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(msg)
	return mac.Sum(nil)
}

// toBase64 is url-safe base64 with the padding stripped.
func toBase64(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// fromBase64 accepts url-safe base64 with or without padding.
func fromBase64(s string) ([]byte, error) {
	if r := len(s) % 4; r != 0 {
		s += strings.Repeat("=", 4-r)
	}
	return base64.URLEncoding.DecodeString(s)
}
