// Package slug normalizes entity names for uniqueness checks.
package slug

import (
	"strings"
	"unicode"
)

// Key folds a display name into a comparison key: case-folded, with runs of
// whitespace and punctuation collapsed to a single '_' and trimmed from the ends.
// Letters of any script are kept, so "Продукты" and "продукты " share a key.
func Key(s string) string {
	var b strings.Builder
	sep := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if sep && b.Len() > 0 {
				b.WriteByte('_')
			}
			sep = false
			b.WriteRune(r)
			continue
		}
		sep = true
	}
	return b.String()
}

// Same reports whether two names collide.
func Same(a, b string) bool { return Key(a) == Key(b) }
