// Package textnorm builds case- and accent-insensitive comparison keys
// for search and tag matching.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD and drops combining marks, so "ção"
// folds to "cao". Chained transformers carry state, so each call gets
// its own chain; Fold runs on every request.
func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Fold lower-cases s and removes diacritics. Idempotent; empty input
// folds to the empty string.
func Fold(s string) string {
	if s == "" {
		return ""
	}
	out, _, err := transform.String(stripMarks(), strings.ToLower(s))
	if err != nil {
		// Transform only fails on invalid UTF-8; fall back to the
		// lower-cased input so matching still works byte-wise.
		return strings.ToLower(s)
	}
	return out
}
