// Package catalog holds the static table mapping profile attribute keys
// to the keyword sets, anchors and option aliases used for matching.
//
// The table is loaded once and never mutated. Declaration order matters:
// when two entries score identically for a field, the earlier entry wins.
package catalog

import (
	"fmt"
	"strings"
)

// Entry describes one profile attribute and the text signals that
// identify it on a form.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Entry struct {
	Key  string // flat attribute key, e.g. "graduation_percentage"
	Path string // dot-separated locator into the profile tree

	// Weighted keyword sets. A multi-word term hits only when every one
	// of its tokens appears in the field's token set.
	Primary   []string
	Secondary []string
	Generic   []string
	Negative  []string

	// Eligibility gates, checked before any scoring. NumericAnchors and
	// RequiredAnchors each demand at least one full match when non-empty;
	// any ExclusionAnchors match disqualifies the entry outright.
	NumericAnchors   []string
	RequiredAnchors  []string
	ExclusionAnchors []string

	// OptionAliases maps a canonical choice value to alias phrases used
	// when resolving closed-choice fields.
	OptionAliases map[string][]string

	ExpectsNumeric bool
	ExpectsDate    bool
}

// yesNo is the alias set shared by boolean-valued attributes.
var yesNo = map[string][]string{
	"Yes": {"yes", "y"},
	"No":  {"no", "n"},
}

// Default returns the built-in catalog for placement and job-application
// forms. The four percentage entries (graduation, pg, cgpa, diploma)
// carry overlapping terms and disambiguate through their anchors; treat
// them as a set when tuning.
func Default() []Entry {
	return defaultEntries
}

var defaultEntries = []Entry{
	{
		Key:     "first_name",
		Path:    "personal.first_name",
		Primary: []string{"first name"},
		Secondary: []string{
			"fname", "given name", "forename",
		},
		Negative: []string{"last", "middle", "father", "mother"},
	},
	{
		Key:       "last_name",
		Path:      "personal.last_name",
		Primary:   []string{"last name", "surname"},
		Secondary: []string{"lname", "family name"},
		Negative:  []string{"first", "middle", "father", "mother"},
	},
	{
		Key:       "full_name",
		Path:      "personal.full_name",
		Primary:   []string{"full name"},
		Secondary: []string{"name", "candidate name", "your name"},
		Negative: []string{
			"first", "last", "middle", "father", "mother", "company",
			"college", "school", "bank", "user",
		},
	},
	{
		Key:       "email",
		Path:      "personal.email",
		Primary:   []string{"email", "e mail"},
		Secondary: []string{"mail id", "email address"},
		Negative:  []string{"parent", "alternate"},
	},
	{
		Key:            "phone",
		Path:           "personal.phone",
		Primary:        []string{"phone", "mobile"},
		Secondary:      []string{"contact number", "whatsapp"},
		Generic:        []string{"number", "contact"},
		Negative:       []string{"parent", "alternate", "emergency", "landline"},
		ExpectsNumeric: true,
	},
	{
		Key:         "date_of_birth",
		Path:        "personal.date_of_birth",
		Primary:     []string{"date of birth", "dob"},
		Secondary:   []string{"birth date", "birthday"},
		ExpectsDate: true,
	},
	{
		Key:       "gender",
		Path:      "identity.gender",
		Primary:   []string{"gender"},
		Secondary: []string{"sex"},
		OptionAliases: map[string][]string{
			"Male":   {"male", "m", "man", "boy"},
			"Female": {"female", "f", "woman", "girl"},
			"Other":  {"other", "prefer not to say", "non binary"},
		},
	},
	{
		Key:       "nationality",
		Path:      "identity.nationality",
		Primary:   []string{"nationality"},
		Secondary: []string{"citizenship"},
	},
	{
		Key:      "father_name",
		Path:     "personal.father_name",
		Primary:  []string{"father name", "father's name", "fathers name"},
		Negative: []string{"mother"},
	},
	{
		Key:       "address",
		Path:      "personal.address",
		Primary:   []string{"address"},
		Secondary: []string{"street", "permanent address", "current address"},
		Negative:  []string{"email", "ip"},
	},
	{
		Key:       "city",
		Path:      "personal.city",
		Primary:   []string{"city"},
		Secondary: []string{"town", "district", "current city", "hometown"},
	},
	{
		Key:      "state",
		Path:     "personal.state",
		Primary:  []string{"state"},
		Negative: []string{"united", "statement"},
	},
	{
		Key:            "pincode",
		Path:           "personal.pincode",
		Primary:        []string{"pincode", "pin code", "postal code", "zip code", "zip"},
		ExpectsNumeric: true,
	},
	{
		Key:            "tenth_percentage",
		Path:           "academics.tenth_percentage",
		Primary:        []string{"10th", "tenth", "ssc", "matric", "matriculation"},
		Secondary:      []string{"percentage", "marks", "score"},
		Generic:        []string{"class", "board"},
		NumericAnchors: []string{"10th", "10", "tenth", "ssc", "matric", "matriculation"},
		ExclusionAnchors: []string{
			"12th", "graduation", "diploma", "cgpa", "pg", "post graduation", "semester",
		},
		ExpectsNumeric: true,
	},
	{
		Key:            "twelfth_percentage",
		Path:           "academics.twelfth_percentage",
		Primary:        []string{"12th", "twelfth", "hsc", "intermediate", "puc"},
		Secondary:      []string{"percentage", "marks", "score"},
		Generic:        []string{"class", "board"},
		NumericAnchors: []string{"12th", "12", "twelfth", "hsc", "intermediate", "puc"},
		ExclusionAnchors: []string{
			"10th", "graduation", "diploma", "cgpa", "pg", "post graduation", "semester",
		},
		ExpectsNumeric: true,
	},
	{
		Key:             "diploma_percentage",
		Path:            "academics.diploma_percentage",
		Primary:         []string{"diploma"},
		Secondary:       []string{"percentage", "marks", "aggregate"},
		RequiredAnchors: []string{"diploma", "polytechnic"},
		ExclusionAnchors: []string{
			"10th", "12th", "graduation", "pg", "post graduation", "cgpa",
		},
		ExpectsNumeric: true,
	},
	{
		Key:  "graduation_percentage",
		Path: "academics.graduation_percentage",
		Primary: []string{
			"graduation", "degree", "aggregate", "btech", "b tech", "ug",
		},
		Secondary: []string{"percentage", "marks", "overall"},
		RequiredAnchors: []string{
			"graduation", "degree", "aggregate", "btech", "b tech", "ug",
			"bachelor", "engineering", "overall",
		},
		ExclusionAnchors: []string{
			"post graduation", "pg", "cgpa", "10th", "12th", "diploma", "masters",
		},
		ExpectsNumeric: true,
	},
	{
		Key:     "pg_percentage",
		Path:    "academics.pg_percentage",
		Primary: []string{"pg", "post graduation", "masters", "mtech", "m tech", "mba"},
		Secondary: []string{
			"percentage", "marks", "aggregate",
		},
		RequiredAnchors: []string{
			"pg", "post graduation", "masters", "mtech", "m tech", "mba", "msc", "m sc",
		},
		ExclusionAnchors: []string{"10th", "12th", "diploma", "cgpa"},
		ExpectsNumeric:   true,
	},
	{
		Key:             "cgpa",
		Path:            "academics.cgpa",
		Primary:         []string{"cgpa", "gpa"},
		Secondary:       []string{"grade point", "cumulative"},
		RequiredAnchors: []string{"cgpa", "gpa", "grade point"},
		ExclusionAnchors: []string{
			"10th", "12th", "diploma",
		},
		ExpectsNumeric: true,
	},
	{
		Key:            "backlog_count",
		Path:           "academics.backlog_count",
		Primary:        []string{"backlog", "backlogs", "arrear", "arrears"},
		Generic:        []string{"active", "number", "no", "current"},
		ExpectsNumeric: true,
	},
	{
		Key:     "gap_years",
		Path:    "academics.gap_years",
		Primary: []string{"gap"},
		Secondary: []string{
			"gap year", "gap years", "year gap", "gap in education",
		},
		ExpectsNumeric: true,
	},
	{
		Key:  "graduation_year",
		Path: "academics.graduation_year",
		Primary: []string{
			"graduation year", "passing year", "year of passing", "passout year",
			"pass out year", "yop",
		},
		Secondary:      []string{"batch", "year of graduation"},
		ExpectsNumeric: true,
	},
	{
		Key:     "degree",
		Path:    "education.degree",
		Primary: []string{"degree", "qualification"},
		Secondary: []string{
			"highest qualification", "course",
		},
		Negative: []string{"percentage", "marks", "year"},
		OptionAliases: map[string][]string{
			"B.Tech": {"btech", "b tech", "bachelor of technology", "be", "b e", "bachelor of engineering"},
			"M.Tech": {"mtech", "m tech", "master of technology", "me", "m e"},
			"B.Sc":   {"bsc", "b sc", "bachelor of science"},
			"M.Sc":   {"msc", "m sc", "master of science"},
			"BCA":    {"bca", "bachelor of computer applications"},
			"MCA":    {"mca", "master of computer applications"},
			"MBA":    {"mba", "master of business administration"},
			"B.Com":  {"bcom", "b com", "bachelor of commerce"},
		},
	},
	{
		Key:     "branch",
		Path:    "education.branch",
		Primary: []string{"branch", "stream", "specialization", "discipline", "major"},
		OptionAliases: map[string][]string{
			"Computer Science":       {"cse", "cs", "computer science", "computer science and engineering", "computers"},
			"Information Technology": {"it", "information technology"},
			"Electronics":            {"ece", "electronics", "electronics and communication"},
			"Electrical":             {"eee", "electrical", "electrical and electronics"},
			"Mechanical":             {"mech", "mechanical"},
			"Civil":                  {"civil"},
		},
	},
	{
		Key:       "college",
		Path:      "education.college",
		Primary:   []string{"college", "institute", "university"},
		Secondary: []string{"college name", "institution", "campus"},
	},
	{
		Key:       "linkedin",
		Path:      "links.linkedin",
		Primary:   []string{"linkedin"},
		Secondary: []string{"linkedin profile", "linkedin url"},
	},
	{
		Key:       "github",
		Path:      "links.github",
		Primary:   []string{"github"},
		Secondary: []string{"github profile", "github url"},
	},
	{
		Key:       "portfolio",
		Path:      "links.portfolio",
		Primary:   []string{"portfolio", "personal website"},
		Secondary: []string{"website", "url"},
		Negative:  []string{"linkedin", "github", "company"},
	},
	{
		Key:       "expected_salary",
		Path:      "placement.expected_salary",
		Primary:   []string{"expected salary", "expected ctc", "salary expectation"},
		Secondary: []string{"ctc", "salary", "compensation"},
		Negative:  []string{"current"},
	},
	{
		Key:           "willing_to_relocate",
		Path:          "placement.willing_to_relocate",
		Primary:       []string{"relocate", "relocation"},
		Secondary:     []string{"willing to relocate", "open to relocation"},
		OptionAliases: yesNo,
	},
}

// Validate checks structural invariants of a catalog: unique keys,
// non-empty paths, lower-case terms, and alias maps with non-empty
// canonical values. The built-in catalog is validated in init.
func Validate(entries []Entry) error {
	seen := make(map[string]bool, len(entries))
	for i := range entries {
		e := &entries[i]
		if e.Key == "" {
			return fmt.Errorf("entry %d: empty key", i)
		}
		if seen[e.Key] {
			return fmt.Errorf("entry %q: duplicate key", e.Key)
		}
		seen[e.Key] = true
		if e.Path == "" {
			return fmt.Errorf("entry %q: empty path", e.Key)
		}
		for _, list := range [][]string{
			e.Primary, e.Secondary, e.Generic, e.Negative,
			e.NumericAnchors, e.RequiredAnchors, e.ExclusionAnchors,
		} {
			for _, term := range list {
				if term == "" {
					return fmt.Errorf("entry %q: empty term", e.Key)
				}
				if term != strings.ToLower(term) {
					return fmt.Errorf("entry %q: term %q is not lower-case", e.Key, term)
				}
			}
		}
		for canonical, aliases := range e.OptionAliases {
			if canonical == "" {
				return fmt.Errorf("entry %q: empty canonical option value", e.Key)
			}
			if len(aliases) == 0 {
				return fmt.Errorf("entry %q: option %q has no aliases", e.Key, canonical)
			}
		}
	}
	return nil
}

// ByKey returns the entry with the given key, or nil.
func ByKey(entries []Entry, key string) *Entry {
	for i := range entries {
		if entries[i].Key == key {
			return &entries[i]
		}
	}
	return nil
}

func init() {
	if err := Validate(defaultEntries); err != nil {
		panic("formpilot: invalid built-in catalog: " + err.Error())
	}
}
