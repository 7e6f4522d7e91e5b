package learned

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // pure-Go sqlite driver
)

// SQLStore persists mappings in a sqlite database. Handy when mappings
// should be inspectable or shared between tools.
type SQLStore struct {
	db *sql.DB
}

// NewSQL opens (and if needed initializes) a sqlite-backed store at path.
func NewSQL(path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open mapping database: %w", err)
	}
	const schema = `CREATE TABLE IF NOT EXISTS mappings (
		origin    TEXT NOT NULL,
		label     TEXT NOT NULL,
		attribute TEXT NOT NULL,
		PRIMARY KEY (origin, label)
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close() //nolint:errcheck,gosec // best effort on init failure
		return nil, fmt.Errorf("initialize mapping schema: %w", err)
	}
	return &SQLStore{db: db}, nil
}

// Lookup implements Store.
func (s *SQLStore) Lookup(ctx context.Context, origin, label string) (string, bool) {
	var key string
	err := s.db.QueryRowContext(ctx,
		`SELECT attribute FROM mappings WHERE origin = ? AND label = ?`, origin, label).Scan(&key)
	if err != nil {
		// Storage failures count as a miss; scoring still runs.
		return "", false
	}
	return key, true
}

// Save implements Store.
func (s *SQLStore) Save(ctx context.Context, origin, label, key string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO mappings (origin, label, attribute) VALUES (?, ?, ?)
		 ON CONFLICT (origin, label) DO UPDATE SET attribute = excluded.attribute`,
		origin, label, key)
	if err != nil {
		return fmt.Errorf("save mapping: %w", err)
	}
	return nil
}

// Mappings implements Store.
func (s *SQLStore) Mappings(ctx context.Context, origin string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT label, attribute FROM mappings WHERE origin = ?`, origin)
	if err != nil {
		return nil, fmt.Errorf("load mappings: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	out := make(map[string]string)
	for rows.Next() {
		var label, key string
		if err := rows.Scan(&label, &key); err != nil {
			return nil, fmt.Errorf("scan mapping: %w", err)
		}
		out[label] = key
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mappings: %w", err)
	}
	return out, nil
}

// Clear implements Store.
func (s *SQLStore) Clear(ctx context.Context, origin string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM mappings WHERE origin = ?`, origin); err != nil {
		return fmt.Errorf("clear origin: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLStore)(nil)
