// Package choice resolves which concrete option of a closed-choice field
// matches a profile value.
//
// Resolution runs in three tiers, first hit wins: alias-exact, alias
// word-boundary, then a fuzzy semantic fallback. Yes/No values stop
// after the exact tier so "No" can never fuzzy-match into an unrelated
// option on partial token overlap.
package choice

import (
	"regexp"
	"strings"

	"github.com/codeGROOVE-dev/formpilot/field"
	"github.com/codeGROOVE-dev/formpilot/textnorm"
)

// fuzzyThreshold is the minimum semantic score for the fallback tier.
const fuzzyThreshold = 0.6

// Resolve picks the option matching value. aliases is the catalog
// entry's OptionAliases table and may be nil. The second return is false
// when no tier produced a match.
func Resolve(value string, opts []field.Choice, aliases map[string][]string) (field.Choice, bool) {
	target := textnorm.NormalizeOption(value)
	if target == "" || len(opts) == 0 {
		return field.Choice{}, false
	}

	names := aliasSet(target, aliases)

	// Tier 1: alias-exact against option text or underlying value.
	for _, opt := range opts {
		text := textnorm.NormalizeOption(opt.Text)
		val := textnorm.NormalizeOption(opt.Value)
		for _, name := range names {
			if name == text || (val != "" && name == val) {
				return opt, true
			}
		}
	}

	// Boolean answers require exact equality only.
	if target == "yes" || target == "no" {
		return field.Choice{}, false
	}

	// Tier 2: alias as a whole word inside the option text. Handles
	// options phrased as sentences ("B.Tech in Computer Science (CSE)"
	// for a "cse" branch value).
	for _, opt := range opts {
		text := textnorm.NormalizeOption(opt.Text)
		for _, name := range names {
			if wordMatch(name, text) {
				return opt, true
			}
		}
	}

	// Tier 3: fuzzy semantic score against text and value.
	var best field.Choice
	var bestScore float64
	for _, opt := range opts {
		s := semanticScore(target, textnorm.NormalizeOption(opt.Text))
		if vs := semanticScore(target, textnorm.NormalizeOption(opt.Value)); vs > s {
			s = vs
		}
		if s > bestScore {
			best = opt
			bestScore = s
		}
	}
	if bestScore >= fuzzyThreshold {
		return best, true
	}
	return field.Choice{}, false
}

// aliasSet collects the normalized value plus the aliases of every
// catalog option whose canonical value or alias list equals it.
func aliasSet(target string, aliases map[string][]string) []string {
	seen := map[string]bool{target: true}
	names := []string{target}

	add := func(s string) {
		n := textnorm.NormalizeOption(s)
		if n != "" && !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}

	for canonical, list := range aliases {
		hit := textnorm.NormalizeOption(canonical) == target
		if !hit {
			for _, a := range list {
				if textnorm.NormalizeOption(a) == target {
					hit = true
					break
				}
			}
		}
		if !hit {
			continue
		}
		add(canonical)
		for _, a := range list {
			add(a)
		}
	}
	return names
}

// wordMatch reports whether name occurs as a whole word in text.
func wordMatch(name, text string) bool {
	if name == "" || text == "" {
		return false
	}
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(name) + `\b`)
	if err != nil {
		return false
	}
	return re.MatchString(text)
}

// semanticScore rates the similarity of a profile value and an option
// string: 1.0 exact, 0.8 when the option contains the value, 0.7 when
// the value contains the option, else up to 0.6 from shared tokens.
func semanticScore(query, target string) float64 {
	if query == "" || target == "" {
		return 0
	}
	if query == target {
		return 1.0
	}
	if strings.Contains(target, query) {
		return 0.8
	}
	if strings.Contains(query, target) {
		return 0.7
	}

	qTokens := strings.Fields(query)
	tSet := make(map[string]bool)
	for _, t := range strings.Fields(target) {
		tSet[t] = true
	}
	var matched int
	for _, q := range qTokens {
		if tSet[q] {
			matched++
		}
	}
	if matched == 0 {
		return 0
	}
	s := float64(matched) * 0.2
	if s > 0.6 {
		s = 0.6
	}
	return s
}
