// Package persist is the engine's persistence boundary: the bounded
// event history and the current pattern set round-trip through a Store.
// Load failures always degrade to empty collections; the in-memory
// state stays authoritative for the session.
package persist

import (
	"context"
	"sync"

	"github.com/dayflow/dayflow/internal/behavior"
	"github.com/dayflow/dayflow/internal/pattern"
)

// Store persists the two engine collections. Implementations must
// round-trip all field names and variants losslessly.
type Store interface {
	SaveEvents(ctx context.Context, events []behavior.Event) error
	LoadEvents(ctx context.Context) ([]behavior.Event, error)
	SavePatterns(ctx context.Context, patterns []pattern.Pattern) error
	LoadPatterns(ctx context.Context) ([]pattern.Pattern, error)
}

// MemoryStore keeps both collections in memory. Used in tests and when
// the app runs without a data directory.
type MemoryStore struct {
	mu       sync.Mutex
	events   []behavior.Event
	patterns []pattern.Pattern

	// SaveCount tracks writes for burst-coalescing assertions.
	SaveCount int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SaveEvents replaces the stored event history.
func (s *MemoryStore) SaveEvents(ctx context.Context, events []behavior.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append([]behavior.Event(nil), events...)
	s.SaveCount++
	return nil
}

// LoadEvents returns a copy of the stored events.
func (s *MemoryStore) LoadEvents(ctx context.Context) ([]behavior.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]behavior.Event(nil), s.events...), nil
}

// SavePatterns replaces the stored pattern set.
func (s *MemoryStore) SavePatterns(ctx context.Context, patterns []pattern.Pattern) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patterns = append([]pattern.Pattern(nil), patterns...)
	return nil
}

// LoadPatterns returns a copy of the stored patterns.
func (s *MemoryStore) LoadPatterns(ctx context.Context) ([]pattern.Pattern, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]pattern.Pattern(nil), s.patterns...), nil
}
