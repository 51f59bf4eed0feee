// Package textnorm cleans comment text and splits it into word tokens.
//
// Normalization runs in a fixed order: lower-case, drop URLs, drop
// r/<name> and u/<name> cross-references, delete apostrophes, replace any
// other non-word rune with a space, collapse whitespace. The result is
// idempotent: Normalize(Normalize(s)) == Normalize(s).
//
// All functions are pure and safe for concurrent use.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// RE2's \s is ASCII-only; \p{Z} adds Unicode separators such as U+00A0.
	urlPattern = regexp.MustCompile(`https?://[^\s\p{Z}]+`)

	// Cross-references are removed as whole whitespace-delimited tokens,
	// with or without a leading slash (r/golang, /u/someone).
	crossRefPattern = regexp.MustCompile(`(^|[\s\p{Z}])/?[ru]/[^\s\p{Z}]+`)
)

// StopSet reports whether a token is a stop word.
type StopSet interface {
	IsStop(token string) bool
}

// Normalize lower-cases text and strips URLs, cross-references and
// punctuation. Contractions collapse: "can't" becomes "cant".
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ToLower(text)
	text = urlPattern.ReplaceAllString(text, " ")
	text = crossRefPattern.ReplaceAllString(text, "$1")

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case isApostrophe(r):
			// deleted, not replaced, so contractions stay one word
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r):
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokenize normalizes text and splits it on whitespace, dropping purely
// numeric tokens.
func Tokenize(text string) []string {
	fields := strings.Fields(Normalize(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if isNumericOnly(f) {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// RemoveStopWords drops stop words and tokens shorter than minLength runes.
// Order and duplicates are preserved.
func RemoveStopWords(tokens []string, stops StopSet, minLength int) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		if len([]rune(tok)) < minLength {
			continue
		}
		if stops != nil && stops.IsStop(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func isApostrophe(r rune) bool {
	return r == '\'' || r == '’' || r == '‘' || r == '`'
}

// isNumericOnly returns true if the token contains only digits.
func isNumericOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
