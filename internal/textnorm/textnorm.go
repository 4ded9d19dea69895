// Package textnorm builds accent- and case-insensitive comparison keys for free text.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize decomposes s (NFKD), drops combining marks and lower-cases the result.
// "José" and "JOSE" both become "jose". Empty input yields "".
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}

// Ptr normalizes an optional value, treating nil as empty.
func Ptr(s *string) string {
	if s == nil {
		return ""
	}
	return Normalize(*s)
}
