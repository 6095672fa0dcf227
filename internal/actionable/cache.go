package actionable

import (
	"context"
	"sync"
	"time"
)

// Cache retention defaults.
const (
	DefaultTTL        = 30 * time.Second
	DefaultMaxEntries = 5
)

// Entry is one cached insight list keyed by a state fingerprint.
type Entry struct {
	Key      string    `json:"key"`
	Insights []Insight `json:"insights"`
	CachedAt time.Time `json:"cached_at"`
}

// Backend stores cache entries. A Get must miss on expired entries;
// a Set beyond the entry cap evicts the oldest fingerprint.
type Backend interface {
	Get(ctx context.Context, key string) (*Entry, bool)
	Set(ctx context.Context, key string, insights []Insight) error
	Clear(ctx context.Context)
}

// MemoryBackend is the default single-process cache backend.
type MemoryBackend struct {
	mu         sync.Mutex
	entries    map[string]*Entry
	order      []string // insertion order for eviction
	ttl        time.Duration
	maxEntries int
}

// NewMemoryBackend creates a backend with the given TTL and entry cap.
// Zero values fall back to the defaults.
func NewMemoryBackend(ttl time.Duration, maxEntries int) *MemoryBackend {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryBackend{
		entries:    make(map[string]*Entry),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

// Get returns the entry for key unless it is absent or expired.
func (b *MemoryBackend) Get(ctx context.Context, key string) (*Entry, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.entries[key]
	if !ok {
		return nil, false
	}
	if time.Since(entry.CachedAt) > b.ttl {
		b.remove(key)
		return nil, false
	}
	return entry, true
}

// Set stores the insight list under key, evicting the oldest
// fingerprint beyond the cap.
func (b *MemoryBackend) Set(ctx context.Context, key string, insights []Insight) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.entries[key]; exists {
		b.remove(key)
	}
	for len(b.order) >= b.maxEntries {
		b.remove(b.order[0])
	}

	b.entries[key] = &Entry{
		Key:      key,
		Insights: append([]Insight(nil), insights...),
		CachedAt: time.Now(),
	}
	b.order = append(b.order, key)
	return nil
}

// Clear drops all entries.
func (b *MemoryBackend) Clear(ctx context.Context) {
	b.mu.Lock()
	b.entries = make(map[string]*Entry)
	b.order = nil
	b.mu.Unlock()
}

// Len returns the number of live entries, for tests.
func (b *MemoryBackend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// remove must be called with the lock held.
func (b *MemoryBackend) remove(key string) {
	delete(b.entries, key)
	for i, k := range b.order {
		if k == key {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}
