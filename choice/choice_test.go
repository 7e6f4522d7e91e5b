package choice

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/codeGROOVE-dev/formpilot/field"
)

var genderAliases = map[string][]string{
	"Male":   {"male", "m", "man", "boy"},
	"Female": {"female", "f", "woman", "girl"},
	"Other":  {"other", "prefer not to say"},
}

var yesNoAliases = map[string][]string{
	"Yes": {"yes", "y"},
	"No":  {"no", "n"},
}

func opts(texts ...string) []field.Choice {
	out := make([]field.Choice, 0, len(texts))
	for _, t := range texts {
		out = append(out, field.Choice{Text: t, Value: t})
	}
	return out
}

func TestResolveAliasExact(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		opts    []field.Choice
		aliases map[string][]string
		want    string
		wantOK  bool
	}{
		{
			name:    "exact option text",
			value:   "Male",
			opts:    opts("Male", "Female", "Other"),
			aliases: genderAliases,
			want:    "Male",
			wantOK:  true,
		},
		{
			name:    "single letter alias",
			value:   "Male",
			opts:    opts("M", "F"),
			aliases: genderAliases,
			want:    "M",
			wantOK:  true,
		},
		{
			name:    "alias maps back to canonical",
			value:   "m",
			opts:    opts("Male", "Female"),
			aliases: genderAliases,
			want:    "Male",
			wantOK:  true,
		},
		{
			name:   "matches underlying value",
			value:  "Female",
			opts:   []field.Choice{{Text: "F", Value: "female"}, {Text: "M", Value: "male"}},
			want:   "F",
			wantOK: true,
		},
		{
			name:   "no aliases still matches exact",
			value:  "Computer Science",
			opts:   opts("Computer Science", "Civil"),
			want:   "Computer Science",
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.value, tt.opts, tt.aliases)
			if ok != tt.wantOK {
				t.Fatalf("Resolve(%q) ok = %v, want %v", tt.value, ok, tt.wantOK)
			}
			if ok && got.Text != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.value, got.Text, tt.want)
			}
		})
	}
}

func TestResolveWordBoundary(t *testing.T) {
	// Sentence-style options resolve through the word-boundary tier.
	options := opts("I am open to any location", "Only my home city")
	got, ok := Resolve("location", options, nil)
	if !ok || got.Text != "I am open to any location" {
		t.Fatalf("Resolve = %+v, %v", got, ok)
	}

	// Aliases participate in the word-boundary tier too.
	options = opts("Yes, male candidates may apply here", "Female candidates")
	got, ok = Resolve("m", options, genderAliases)
	if !ok || got.Text != "Yes, male candidates may apply here" {
		t.Fatalf("alias word match = %+v, %v", got, ok)
	}
}

func TestResolveYesNoExactOnly(t *testing.T) {
	// Boolean answers never reach the fuzzy tiers: "No" sharing tokens
	// with "Not applicable, no backlog" must not resolve.
	options := opts("Not applicable, no backlog", "One or more")
	if got, ok := Resolve("No", options, yesNoAliases); ok {
		t.Fatalf("yes/no value fuzzy-matched %q", got.Text)
	}

	// Exact alias hits still work.
	got, ok := Resolve("No", opts("Yes", "No"), yesNoAliases)
	if !ok || got.Text != "No" {
		t.Fatalf("Resolve(No) = %+v, %v", got, ok)
	}
	got, ok = Resolve("Yes", opts("Y", "N"), yesNoAliases)
	if !ok || got.Text != "Y" {
		t.Fatalf("Resolve(Yes) against Y/N = %+v, %v", got, ok)
	}
}

func TestResolveFuzzy(t *testing.T) {
	// "Computer Science" into an option list spelling it out longer.
	options := opts("Computer Science and Engineering", "Mechanical Engineering")
	got, ok := Resolve("Computer Science", options, nil)
	if !ok || got.Text != "Computer Science and Engineering" {
		t.Fatalf("Resolve = %+v, %v", got, ok)
	}

	// One shared token out of many scores 0.2, below the threshold.
	options = opts("Science Club", "Drama Club")
	if got, ok := Resolve("Computer Science Graduate Program", options, nil); ok {
		t.Errorf("weak token overlap resolved to %q", got.Text)
	}
}

func TestResolveNoOptions(t *testing.T) {
	if _, ok := Resolve("Male", nil, genderAliases); ok {
		t.Error("resolved against empty option list")
	}
	if _, ok := Resolve("", opts("Male"), genderAliases); ok {
		t.Error("resolved empty value")
	}
}

func TestAliasSet(t *testing.T) {
	got := aliasSet("m", genderAliases)
	sort.Strings(got)
	want := []string{"boy", "m", "male", "man"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("aliasSet mismatch (-want +got):\n%s", diff)
	}

	// A value outside every alias row resolves to just itself.
	got = aliasSet("purple", genderAliases)
	if diff := cmp.Diff([]string{"purple"}, got); diff != "" {
		t.Errorf("aliasSet mismatch (-want +got):\n%s", diff)
	}
}
