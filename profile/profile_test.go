package profile

import (
	"testing"
)

const sampleJSON = `{
  "personal": {
    "first_name": "Asha",
    "email": "asha@example.com",
    "phone": "9876543210",
    "date_of_birth": "14/08/2003",
    "address": ""
  },
  "academics": {
    "tenth_percentage": 92.5,
    "graduation_percentage": "81.2",
    "backlog_count": 0,
    "gap_years": 1
  },
  "placement": {
    "willing_to_relocate": true,
    "has_passport": false
  }
}`

func TestLoadAndValue(t *testing.T) {
	prof, err := Load([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		path   string
		want   string
		wantOK bool
	}{
		{"personal.first_name", "Asha", true},
		{"personal.email", "asha@example.com", true},
		{"academics.tenth_percentage", "92.5", true},
		{"academics.graduation_percentage", "81.2", true},
		{"academics.backlog_count", "0", true},
		{"academics.gap_years", "1", true},
		{"placement.willing_to_relocate", "Yes", true},
		{"placement.has_passport", "No", true},
		{"personal.address", "", false},     // present but empty
		{"personal.middle_name", "", false}, // absent leaf
		{"hobbies.reading", "", false},      // absent branch
		{"personal.first_name.extra", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := prof.Value(tt.path)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Value(%q) = (%q, %v), want (%q, %v)",
					tt.path, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestLoadRejectsBadJSON(t *testing.T) {
	if _, err := Load([]byte(`{"personal": `)); err == nil {
		t.Fatal("Load accepted truncated JSON")
	}
}

func TestValueOnNil(t *testing.T) {
	var prof *Profile
	if _, ok := prof.Value("personal.email"); ok {
		t.Error("nil profile returned a value")
	}
}

func TestNewWrapsTree(t *testing.T) {
	prof := New(map[string]any{
		"identity": map[string]any{"gender": "Female"},
	})
	got, ok := prof.Value("identity.gender")
	if !ok || got != "Female" {
		t.Errorf("Value = (%q, %v)", got, ok)
	}
}
