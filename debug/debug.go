// Package debug provides env-gated diagnostics, off by default. Set
// HX_DEBUG_WIRE, HX_DEBUG_AUTH, or HX_DEBUG_TOKEN to a truthy value to
// turn a facility on.
package debug

import (
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Wire  bool
	Auth  bool
	Token bool
}

var d *debug

func init() {
	d = &debug{}
	d.Wire = boolEnv("HX_DEBUG_WIRE")
	d.Auth = boolEnv("HX_DEBUG_AUTH")
	d.Token = boolEnv("HX_DEBUG_TOKEN")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

// Wire reports whether HTTP request and response bodies should be dumped.
func Wire() bool {
	return d.Wire
}

// Auth reports whether handshake phase transitions should be logged.
// Secrets are never logged, only phases and header names.
func Auth() bool {
	return d.Auth
}

// Token reports whether scanned tokens should be logged.
func Token() bool {
	return d.Token
}

func Logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}
