// SPDX-License-Identifier: MPL-2.0

package buildgraph

import (
	"path/filepath"
	"sync"
)

type (
	// OpenFunc creates the database for a repository root.
	OpenFunc func(root string) (*Database, error)

	// Sessions caches one Database per repository root for the lifetime of
	// the process. Entries are never invalidated.
	Sessions struct {
		mu   sync.Mutex
		open OpenFunc
		dbs  map[string]*Database
	}
)

// NewSessions creates a cache that builds databases with open.
func NewSessions(open OpenFunc) *Sessions {
	return &Sessions{open: open, dbs: make(map[string]*Database)}
}

// Get returns the database for root, opening it on first use. A failed open
// is not cached.
func (s *Sessions) Get(root string) (*Database, error) {
	root = filepath.Clean(root)

	s.mu.Lock()
	defer s.mu.Unlock()

	if db, ok := s.dbs[root]; ok {
		return db, nil
	}
	db, err := s.open(root)
	if err != nil {
		return nil, err
	}
	s.dbs[root] = db
	return db, nil
}
