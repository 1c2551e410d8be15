// Package textnorm canonicalizes strings for case and accent insensitive
// comparison of survey headers and answers.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases s, trims surrounding whitespace and strips diacritics
// ("Relación " -> "relacion"). It never fails; input that cannot be
// transformed is returned lowercased and trimmed.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	// Compatibility decomposition splits "ó" into "o" + U+0301 and folds
	// ligatures; the combining marks are then dropped.
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Equal reports whether a and b are the same after normalization.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// ContainsAny reports whether the normalized s contains any of the
// already-normalized needles.
func ContainsAny(s string, needles ...string) bool {
	n := Normalize(s)
	for _, needle := range needles {
		if needle != "" && strings.Contains(n, needle) {
			return true
		}
	}
	return false
}
