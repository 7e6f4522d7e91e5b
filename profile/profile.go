// Package profile defines the read-only attribute tree values are
// filled from.
package profile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Profile is a nested tree of scalar values grouped by concern
// (personal, academics, identity, links, education, placement). The
// engine only ever reads it; values are resolved fresh at fill time so
// learned mappings stay valid across profile edits.
type Profile struct {
	root map[string]any
}

// New wraps an already-built tree.
func New(tree map[string]any) *Profile {
	return &Profile{root: tree}
}

// Load parses a JSON document into a Profile. Numbers keep their
// original text form, so "92" round-trips without float formatting.
func Load(data []byte) (*Profile, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var tree map[string]any
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	return &Profile{root: tree}, nil
}

// Value resolves a dot-separated path ("academics.tenth_percentage") to
// its scalar value. The second return is false when the path is absent
// or the value is empty.
func (p *Profile) Value(path string) (string, bool) {
	if p == nil || p.root == nil {
		return "", false
	}
	var cur any = p.root
	for _, part := range strings.Split(path, ".") {
		node, ok := cur.(map[string]any)
		if !ok {
			return "", false
		}
		cur, ok = node[part]
		if !ok {
			return "", false
		}
	}
	s := scalar(cur)
	if strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// scalar renders a leaf as text. Booleans become Yes/No to line up with
// the catalog's yes/no option aliases.
func scalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "Yes"
		}
		return "No"
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", t), "0"), ".")
	default:
		return ""
	}
}
