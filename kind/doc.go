// Package kind defines the closed set of Haystack value variants and the
// Grid tabular container. Values are immutable once constructed; the zinc
// and hayson codecs map them to and from their wire encodings.
package kind
