package catalog

import (
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Fatalf("built-in catalog invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		wantErr string
	}{
		{
			name:    "empty key",
			entries: []Entry{{Path: "a.b"}},
			wantErr: "empty key",
		},
		{
			name: "duplicate key",
			entries: []Entry{
				{Key: "email", Path: "a"},
				{Key: "email", Path: "b"},
			},
			wantErr: "duplicate key",
		},
		{
			name:    "empty path",
			entries: []Entry{{Key: "email"}},
			wantErr: "empty path",
		},
		{
			name: "upper-case term",
			entries: []Entry{
				{Key: "email", Path: "a", Primary: []string{"Email"}},
			},
			wantErr: "not lower-case",
		},
		{
			name: "empty term",
			entries: []Entry{
				{Key: "email", Path: "a", Secondary: []string{""}},
			},
			wantErr: "empty term",
		},
		{
			name: "alias without values",
			entries: []Entry{
				{Key: "gender", Path: "a", OptionAliases: map[string][]string{"Male": {}}},
			},
			wantErr: "no aliases",
		},
		{
			name: "valid",
			entries: []Entry{
				{Key: "email", Path: "personal.email", Primary: []string{"email"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.entries)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestByKey(t *testing.T) {
	entries := Default()
	if e := ByKey(entries, "graduation_percentage"); e == nil || e.Path != "academics.graduation_percentage" {
		t.Errorf("ByKey(graduation_percentage) = %+v", e)
	}
	if e := ByKey(entries, "no_such_key"); e != nil {
		t.Errorf("ByKey(no_such_key) = %+v, want nil", e)
	}
}

func TestPercentageEntriesDisjointAnchors(t *testing.T) {
	// The percentage entries rely on anchors to stay apart. Each of the
	// school-level entries must exclude the other's primary marker.
	tenth := ByKey(defaultEntries, "tenth_percentage")
	twelfth := ByKey(defaultEntries, "twelfth_percentage")
	if tenth == nil || twelfth == nil {
		t.Fatal("percentage entries missing from default catalog")
	}
	if !contains(tenth.ExclusionAnchors, "12th") {
		t.Error("tenth_percentage does not exclude 12th")
	}
	if !contains(twelfth.ExclusionAnchors, "10th") {
		t.Error("twelfth_percentage does not exclude 10th")
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
