// Package session holds the manually entered records accumulated during one
// dashboard session.
//
// The store is the only mutable state in the application. It is created at
// server start, appended to by the manual-entry handler, and cleared
// explicitly when the user resets the session. Report and export actions only
// read from it.
package session

import (
	"context"
	"fmt"
	"sync"

	"wattboard/internal/core"
)

// Store is an append-only accumulator of manual entries. A single mutex is
// sufficient: the dashboard serves one user session and writes never overlap
// reads for long.
type Store struct {
	mu       sync.Mutex
	records  []core.Record
	revision uint64
}

func New() *Store {
	return &Store{}
}

// Append validates and stores a manual entry, returning a synthetic row
// reference.
func (s *Store) Append(_ context.Context, r core.Record) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
	s.revision++
	return fmt.Sprintf("session:%d", len(s.records)), nil
}

// Table returns a snapshot of the accumulated entries. The returned table is
// a copy; later appends do not affect it.
func (s *Store) Table(_ context.Context) (core.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := make([]core.Record, len(s.records))
	copy(records, s.records)
	return core.Table{Records: records}, nil
}

// Len returns the number of accumulated entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Revision increases on every mutation; response caches key on it.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// Reset clears the session, ending its lifecycle. The next report falls back
// to sample data until new entries arrive.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.revision++
}
