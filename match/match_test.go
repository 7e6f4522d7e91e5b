package match

import (
	"testing"

	"github.com/codeGROOVE-dev/formpilot/catalog"
	"github.com/codeGROOVE-dev/formpilot/textnorm"
)

func tokens(label string) map[string]bool {
	return textnorm.TokenSet(label)
}

func TestEligible(t *testing.T) {
	entry := &catalog.Entry{
		Key:              "tenth_percentage",
		NumericAnchors:   []string{"10th", "tenth", "ssc"},
		ExclusionAnchors: []string{"12th", "graduation"},
	}

	tests := []struct {
		name  string
		label string
		want  bool
	}{
		{
			name:  "numeric anchor present",
			label: "10th percentage",
			want:  true,
		},
		{
			name:  "numeric anchor missing",
			label: "percentage",
			want:  false,
		},
		{
			name:  "exclusion anchor wins over numeric",
			label: "10th and 12th percentage",
			want:  false,
		},
		{
			name:  "bare class ten token is not the 10th anchor",
			label: "Class X marks",
			want:  false,
		},
		{
			name:  "ssc alias",
			label: "SSC marks obtained",
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Eligible(tokens(tt.label), entry); got != tt.want {
				t.Errorf("Eligible(%q) = %v, want %v", tt.label, got, tt.want)
			}
		})
	}
}

func TestEligibleRequiredAnchors(t *testing.T) {
	entry := &catalog.Entry{
		Key:             "graduation_percentage",
		RequiredAnchors: []string{"graduation", "aggregate", "degree"},
	}
	if Eligible(tokens("percentage obtained"), entry) {
		t.Error("entry with required anchors must be ineligible without one")
	}
	if !Eligible(tokens("aggregate percentage"), entry) {
		t.Error("required anchor hit should make the entry eligible")
	}
}

func TestScoreClamped(t *testing.T) {
	entry := &catalog.Entry{
		Key:      "email",
		Primary:  []string{"email", "e mail", "mail"},
		Negative: []string{"parent"},
	}

	// Three primary hits would sum past 1.0.
	if got := Score(tokens("email e mail mail address"), entry); got != 1.0 {
		t.Errorf("Score not clamped high: got %v", got)
	}
	// Negative weight alone would go below zero.
	if got := Score(tokens("parent occupation"), entry); got != 0 {
		t.Errorf("Score not clamped low: got %v", got)
	}
}

func TestScoreFullTokenMatching(t *testing.T) {
	entry := &catalog.Entry{
		Key:     "twelfth_percentage",
		Primary: []string{"12th"},
	}
	// "12th" must be a whole token; "2024-12-th" style fragments or
	// partial overlaps never count.
	if got := Score(tokens("grade 12thsomething marks"), entry); got != 0 {
		t.Errorf("substring leaked into term hit: got %v", got)
	}
	if got := Score(tokens("12th marks"), entry); got != 0.6 {
		t.Errorf("primary hit = %v, want 0.6", got)
	}
}

func TestScoreLandsExactlyOnThresholds(t *testing.T) {
	// Sums must hit the routing thresholds exactly; a float64 neighbor
	// of 0.5 would misroute the medium boundary.
	tests := []struct {
		name  string
		entry catalog.Entry
		label string
		want  float64
	}{
		{
			name: "primary plus secondary minus negative is the medium boundary",
			entry: catalog.Entry{
				Key:       "k",
				Primary:   []string{"alpha"},
				Secondary: []string{"beta"},
				Negative:  []string{"gamma"},
			},
			label: "alpha beta gamma",
			want:  0.5,
		},
		{
			name: "primary plus generic is the high boundary",
			entry: catalog.Entry{
				Key:     "k",
				Primary: []string{"alpha"},
				Generic: []string{"beta"},
			},
			label: "alpha beta",
			want:  0.75,
		},
		{
			name: "primary plus secondary",
			entry: catalog.Entry{
				Key:       "k",
				Primary:   []string{"alpha"},
				Secondary: []string{"beta"},
			},
			label: "alpha beta",
			want:  0.9,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tokens(tt.label), &tt.entry); got != tt.want {
				t.Errorf("Score = %v, want exactly %v", got, tt.want)
			}
		})
	}
	if got := Score(tokens("alpha beta gamma"), &catalog.Entry{
		Key: "k", Primary: []string{"alpha"}, Secondary: []string{"beta"}, Negative: []string{"gamma"},
	}); got < Medium {
		t.Errorf("boundary score %v routed below Medium %v", got, Medium)
	}
}

func TestBestTenthPercentage(t *testing.T) {
	got := Best(tokens("10th percentage"), catalog.Default())
	if got.Key != "tenth_percentage" {
		t.Fatalf("Best = %q (%.2f), want tenth_percentage", got.Key, got.Score)
	}
	if got.Score < High {
		t.Errorf("score %.2f below high threshold %v", got.Score, High)
	}
}

func TestBestAggregateGoesToGraduation(t *testing.T) {
	// "aggregate %" must resolve to the bachelor-level percentage, not
	// the postgraduate one: pg_percentage's required anchors are absent.
	got := Best(tokens("aggregate %"), catalog.Default())
	if got.Key != "graduation_percentage" {
		t.Fatalf("Best = %q (%.2f), want graduation_percentage", got.Key, got.Score)
	}
}

func TestBestExclusionsKeepPercentagesApart(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"12th / HSC percentage", "twelfth_percentage"},
		{"Diploma percentage", "diploma_percentage"},
		{"Post graduation percentage", "pg_percentage"},
		{"CGPA obtained", "cgpa"},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got := Best(tokens(tt.label), catalog.Default())
			if got.Key != tt.want {
				t.Errorf("Best(%q) = %q (%.2f), want %q", tt.label, got.Key, got.Score, tt.want)
			}
		})
	}
}

func TestBestNoMatch(t *testing.T) {
	got := Best(tokens("favourite colour"), catalog.Default())
	if got.Key != "" {
		t.Errorf("Best matched %q (%.2f) for unrelated label", got.Key, got.Score)
	}
}

func TestBestTieKeepsCatalogOrder(t *testing.T) {
	entries := []catalog.Entry{
		{Key: "first", Path: "a", Primary: []string{"alpha"}},
		{Key: "second", Path: "b", Primary: []string{"alpha"}},
	}
	got := Best(tokens("alpha"), entries)
	if got.Key != "first" {
		t.Errorf("tie broke to %q, want first entry in declaration order", got.Key)
	}
}

func TestUnsafe(t *testing.T) {
	tests := []struct {
		label string
		want  bool
	}{
		{"I hereby declare that the above information is true", true},
		{"I agree to the terms and conditions", true},
		{"Upload your resume", true},
		{"Signature of applicant", true},
		{"Enter OTP", true},
		{"Password", true},
		{"First name", false},
		{"Passport number", false}, // contains "pass" but not the phrase
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := Unsafe(tt.label); got != tt.want {
				t.Errorf("Unsafe(%q) = %v, want %v", tt.label, got, tt.want)
			}
		})
	}
}
