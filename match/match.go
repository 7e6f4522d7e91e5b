// Package match scores field text against catalog entries and routes
// fields by confidence.
package match

import (
	"strings"

	"github.com/codeGROOVE-dev/formpilot/catalog"
	"github.com/codeGROOVE-dev/formpilot/textnorm"
)

// Confidence thresholds for routing.
const (
	High   = 0.75 // at or above: fill without asking
	Medium = 0.5  // at or above, below High: queue for confirmation
)

// Term weights, in integer hundredths so that sums land exactly on the
// routing thresholds (0.6+0.3-0.4 must be 0.5, not a float64 neighbor
// of it). Tuned against placement-portal forms; the percentage entries
// in the default catalog are the reference set when adjusting.
const (
	weightPrimary   = 60
	weightSecondary = 30
	weightGeneric   = 15
	weightNegative  = -40
)

// Result is the outcome of matching one field against the catalog.
// Key is empty when no eligible entry scored above zero.
type Result struct {
	Key   string
	Score float64
}

// termHit reports whether every token of term appears in the field's
// token set. Full-token matching, not substring: "12th" must be present
// as a token, so it cannot bleed in from unrelated text.
func termHit(tokens map[string]bool, term string) bool {
	parts := textnorm.Tokens(term)
	if len(parts) == 0 {
		return false
	}
	for _, p := range parts {
		if !tokens[p] {
			return false
		}
	}
	return true
}

func anyHit(tokens map[string]bool, terms []string) bool {
	for _, t := range terms {
		if termHit(tokens, t) {
			return true
		}
	}
	return false
}

// Eligible runs the anchor gates for entry e, in fixed order: numeric,
// then required, then exclusion.
func Eligible(tokens map[string]bool, e *catalog.Entry) bool {
	if len(e.NumericAnchors) > 0 && !anyHit(tokens, e.NumericAnchors) {
		return false
	}
	if len(e.RequiredAnchors) > 0 && !anyHit(tokens, e.RequiredAnchors) {
		return false
	}
	if len(e.ExclusionAnchors) > 0 && anyHit(tokens, e.ExclusionAnchors) {
		return false
	}
	return true
}

// Score computes the weighted keyword score of the field tokens against
// entry e, clamped to [0, 1]. Gates are not applied here; call Eligible
// first (Best does both).
func Score(tokens map[string]bool, e *catalog.Entry) float64 {
	var sum int
	for _, t := range e.Primary {
		if termHit(tokens, t) {
			sum += weightPrimary
		}
	}
	for _, t := range e.Secondary {
		if termHit(tokens, t) {
			sum += weightSecondary
		}
	}
	for _, t := range e.Generic {
		if termHit(tokens, t) {
			sum += weightGeneric
		}
	}
	for _, t := range e.Negative {
		if termHit(tokens, t) {
			sum += weightNegative
		}
	}
	switch {
	case sum < 0:
		return 0
	case sum > 100:
		return 1
	default:
		return float64(sum) / 100
	}
}

// Best returns the best-scoring eligible entry for the field tokens.
// Ties keep the first entry in catalog declaration order, so results
// are deterministic for a fixed catalog.
func Best(tokens map[string]bool, entries []catalog.Entry) Result {
	var best Result
	for i := range entries {
		e := &entries[i]
		if !Eligible(tokens, e) {
			continue
		}
		if s := Score(tokens, e); s > best.Score {
			best = Result{Key: e.Key, Score: s}
		}
	}
	return best
}

// unsafePhrases mark fields the engine must never touch: consent and
// declaration wording, uploads, signatures, and credential prompts.
var unsafePhrases = []string{
	"i agree",
	"i hereby",
	"i declare",
	"consent",
	"declaration",
	"terms and conditions",
	"terms of service",
	"privacy policy",
	"upload",
	"attach",
	"signature",
	"captcha",
	"password",
	"otp",
	"one time password",
	"cvv",
}

// Unsafe reports whether the label matches the deny-list. Checked before
// scoring; a deny-list hit always wins over confidence.
func Unsafe(label string) bool {
	norm := textnorm.Normalize(label)
	if norm == "" {
		return false
	}
	padded := " " + norm + " "
	for _, phrase := range unsafePhrases {
		if strings.Contains(padded, " "+phrase+" ") {
			return true
		}
	}
	return false
}
