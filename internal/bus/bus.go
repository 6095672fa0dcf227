// Package bus carries engine notifications out to the rest of the app:
// pattern-set replacements, fresh recommendations, actionable insight
// refreshes. The engine publishes best-effort; a failed publish is
// logged and never blocks analysis.
package bus

import (
	"sync"
)

// Subjects the engine publishes on.
const (
	SubjectPatternsUpdated   = "dayflow.patterns.updated"
	SubjectRecommendation    = "dayflow.recommendation"
	SubjectInsightsRefreshed = "dayflow.insights.refreshed"
)

// Publisher abstracts notification publishing for testability.
type Publisher interface {
	Publish(subject string, payload []byte) error
	Close()
}

// MemoryBus is an in-process publisher that fans out to subscribed
// handlers. Used in tests and single-process deployments.
type MemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]func([]byte)
}

// NewMemoryBus creates an empty in-process bus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{handlers: make(map[string][]func([]byte))}
}

// Subscribe registers a handler for a subject.
func (b *MemoryBus) Subscribe(subject string, handler func([]byte)) {
	b.mu.Lock()
	b.handlers[subject] = append(b.handlers[subject], handler)
	b.mu.Unlock()
}

// Publish delivers the payload synchronously to all handlers for the
// subject.
func (b *MemoryBus) Publish(subject string, payload []byte) error {
	b.mu.RLock()
	handlers := b.handlers[subject]
	b.mu.RUnlock()

	for _, h := range handlers {
		h(payload)
	}
	return nil
}

// Close is a no-op for the in-process bus.
func (b *MemoryBus) Close() {}

// Verify implementations at compile time.
var (
	_ Publisher = (*MemoryBus)(nil)
	_ Publisher = (*NatsBus)(nil)
)
