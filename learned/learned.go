// Package learned stores user-confirmed label-to-attribute mappings,
// scoped per web origin.
//
// A mapping binds a normalized label string to an attribute key — never
// to a value. Values are re-resolved from the current profile at fill
// time. Mappings are written only when the user confirms a suggestion,
// grow monotonically, and survive across sessions until the user clears
// the origin.
package learned

import (
	"context"
	"sync"
)

// Store is the persistence contract for learned mappings. Writes are
// idempotent last-write-wins per (origin, label) key.
type Store interface {
	// Lookup returns the attribute key confirmed for label at origin.
	Lookup(ctx context.Context, origin, label string) (key string, ok bool)
	// Save binds label to an attribute key for origin.
	Save(ctx context.Context, origin, label, key string) error
	// Mappings returns all mappings for origin.
	Mappings(ctx context.Context, origin string) (map[string]string, error)
	// Clear removes every mapping for origin.
	Clear(ctx context.Context, origin string) error
	// Close releases underlying resources.
	Close() error
}

// MemoryStore keeps mappings in process memory. Useful for tests and
// single-shot runs.
type MemoryStore struct {
	mu      sync.Mutex
	origins map[string]map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{origins: make(map[string]map[string]string)}
}

// Lookup implements Store.
func (s *MemoryStore) Lookup(_ context.Context, origin, label string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, ok := s.origins[origin][label]
	return key, ok
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, origin, label, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.origins[origin]
	if !ok {
		m = make(map[string]string)
		s.origins[origin] = m
	}
	m[label] = key
	return nil
}

// Mappings implements Store.
func (s *MemoryStore) Mappings(_ context.Context, origin string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.origins[origin]))
	for label, key := range s.origins[origin] {
		out[label] = key
	}
	return out, nil
}

// Clear implements Store.
func (s *MemoryStore) Clear(_ context.Context, origin string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.origins, origin)
	return nil
}

// Close implements Store.
func (*MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
