// Package textnorm canonicalizes field text into comparable tokens.
//
// Two normal forms exist on purpose. Normalize expands domain shorthand
// ("class xii", "grad.", "%") so keyword scoring sees one spelling per
// concept. NormalizeOption is deliberately lighter: option labels such as
// "M" or "Male" need literal comparison, not class/percentage semantics.
package textnorm

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Roman class numerals as they appear on Indian academic forms.
var romanClasses = map[string]string{
	"x":     "10",
	"xii":   "12",
	"xth":   "10th",
	"xiith": "12th",
}

// Normalize lower-cases s and expands shorthand: Roman class numerals
// ("class x" -> "class 10"), "grad"/"grad." -> "graduation", "%" ->
// "percentage". Slashes and hyphens become spaces.
func Normalize(s string) string {
	return strings.Join(Tokens(s), " ")
}

// Tokens normalizes s and splits it into a token sequence, dropping
// empty tokens.
func Tokens(s string) []string {
	s = norm.NFKC.String(s)
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "%", " percentage ")
	s = strings.ReplaceAll(s, "/", " ")
	s = strings.ReplaceAll(s, "-", " ")

	fields := strings.Fields(s)
	out := make([]string, 0, len(fields))
	for _, tok := range fields {
		// Trailing punctuation hides token identity ("grad.", "class:").
		trimmed := strings.TrimRight(tok, ".,:;?!")
		if trimmed == "" {
			continue
		}
		if expanded, ok := romanClasses[trimmed]; ok {
			out = append(out, expanded)
			continue
		}
		if trimmed == "grad" {
			out = append(out, "graduation")
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

// TokenSet returns the tokens of s as a membership set.
func TokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range Tokens(s) {
		set[tok] = true
	}
	return set
}

// NormalizeOption strips s to lower-case alphanumerics and spaces,
// collapsing runs of whitespace. No shorthand expansion.
func NormalizeOption(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
