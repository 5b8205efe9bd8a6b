// Package slug turns titles and tag names into URL-safe identifiers.
package slug

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Make lowercases s, folds accented latin letters to ASCII and collapses every run of
// other characters into a single hyphen. The result has no leading or trailing hyphen.
//
//	Make("Hello, World!")  // "hello-world"
//	Make("Crème Brûlée")   // "creme-brulee"
//	Make("hello-world")    // "hello-world"
func Make(s string) string {
	folded := fold(s)

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(unicode.ToLower(r))
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}

// WithSuffix returns base-n, the candidate used when base is already taken.
func WithSuffix(base string, n int) string {
	return base + "-" + strconv.Itoa(n)
}

func fold(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
