package grid

import (
	"sync"
	"sync/atomic"
)

// Store publishes grid snapshots.
// Readers capture a snapshot once and keep it for the whole query, so a
// replacement never shows them tiles from one SetGrid call paired with
// heights from another. Only replacements serialize with each other.
type Store struct {
	current atomic.Pointer[Grid]

	mu          sync.Mutex // serializes SetGrid
	lastVersion uint64
}

func NewStore() *Store {
	return &Store{}
}

// SetGrid replaces the published grid and returns the version assigned to it
func (s *Store) SetGrid(g *Grid) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastVersion++
	s.current.Store(g.withVersion(s.lastVersion))
	return s.lastVersion
}

// Snapshot returns the currently published grid, ErrNoGrid if none was set
func (s *Store) Snapshot() (*Grid, error) {
	g := s.current.Load()
	if g == nil {
		return nil, ErrNoGrid
	}
	return g, nil
}
