package learned

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/codeGROOVE-dev/sfcache"
	"github.com/codeGROOVE-dev/sfcache/pkg/persist/localfs"
)

// Learned mappings have no natural expiry; they live until the user
// clears the origin.
const mappingTTL = 10 * 365 * 24 * time.Hour

// FileStore persists mappings to disk via sfcache, one record per
// origin. This is the default backend.
type FileStore struct {
	cache *sfcache.TieredCache[string, map[string]string]
}

// NewFile creates a FileStore under ~/.cache/formpilot.
func NewFile() (*FileStore, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}
	return NewFileWithPath(filepath.Join(cacheDir, "formpilot"))
}

// NewFileWithPath creates a FileStore rooted at the given directory.
func NewFileWithPath(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	persist, err := localfs.New[string, map[string]string]("formpilot", dir)
	if err != nil {
		return nil, fmt.Errorf("create persistence layer: %w", err)
	}

	tc, err := sfcache.NewTiered[string, map[string]string](persist, sfcache.TTL(mappingTTL))
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}

	return &FileStore{cache: tc}, nil
}

// Lookup implements Store.
func (s *FileStore) Lookup(ctx context.Context, origin, label string) (string, bool) {
	m, found, err := s.cache.Get(ctx, originKey(origin))
	if err != nil || !found {
		return "", false
	}
	key, ok := m[label]
	return key, ok
}

// Save implements Store.
func (s *FileStore) Save(ctx context.Context, origin, label, key string) error {
	k := originKey(origin)
	m, found, err := s.cache.Get(ctx, k)
	if err != nil || !found || m == nil {
		m = make(map[string]string)
	}
	m[label] = key
	if err := s.cache.Set(ctx, k, m, mappingTTL); err != nil {
		return fmt.Errorf("save mapping: %w", err)
	}
	return nil
}

// Mappings implements Store.
func (s *FileStore) Mappings(ctx context.Context, origin string) (map[string]string, error) {
	m, found, err := s.cache.Get(ctx, originKey(origin))
	if err != nil {
		return nil, fmt.Errorf("load mappings: %w", err)
	}
	if !found || m == nil {
		return map[string]string{}, nil
	}
	out := make(map[string]string, len(m))
	for label, key := range m {
		out[label] = key
	}
	return out, nil
}

// Clear implements Store.
func (s *FileStore) Clear(ctx context.Context, origin string) error {
	if err := s.cache.Set(ctx, originKey(origin), map[string]string{}, mappingTTL); err != nil {
		return fmt.Errorf("clear origin: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *FileStore) Close() error {
	return s.cache.Close()
}

// originKey hashes an origin to a filesystem-safe, uniform-length key.
func originKey(origin string) string {
	hash := sha256.Sum256([]byte(origin))
	return hex.EncodeToString(hash[:])
}

var _ Store = (*FileStore)(nil)
