package behavior

import (
	"container/ring"
	"sync"
)

// DefaultCapacity is the default number of events retained in memory.
const DefaultCapacity = 2000

// Log is a bounded, append-only event history. Writes are serialized;
// readers get point-in-time copies via Snapshot. When full, the oldest
// event is dropped first.
type Log struct {
	mu       sync.RWMutex
	buffer   *ring.Ring
	size     int
	capacity int
	handlers []func(Event)
}

// NewLog creates a log holding at most capacity events. A capacity of
// zero or less falls back to DefaultCapacity.
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{
		buffer:   ring.New(capacity),
		capacity: capacity,
	}
}

// OnRecord registers a handler invoked synchronously after every
// recorded event. Handlers must not call back into the log.
func (l *Log) OnRecord(handler func(Event)) {
	l.mu.Lock()
	l.handlers = append(l.handlers, handler)
	l.mu.Unlock()
}

// Record appends an event. Recording never fails; once the log is at
// capacity the oldest entry is overwritten.
func (l *Log) Record(event Event) {
	l.mu.Lock()
	l.buffer.Value = event
	l.buffer = l.buffer.Next()
	if l.size < l.capacity {
		l.size++
	}
	handlers := l.handlers
	l.mu.Unlock()

	for _, h := range handlers {
		h(event)
	}
}

// Snapshot returns a copy of the current history, oldest first.
// Analyzers consume snapshots so a scan never observes a concurrent
// mutation.
func (l *Log) Snapshot() []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	events := make([]Event, 0, l.size)
	l.buffer.Do(func(v interface{}) {
		if v != nil {
			events = append(events, v.(Event))
		}
	})
	return events
}

// Recent returns up to n of the most recent events, oldest first.
func (l *Log) Recent(n int) []Event {
	events := l.Snapshot()
	if len(events) <= n {
		return events
	}
	return events[len(events)-n:]
}

// Len returns the number of events currently retained.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.size
}

// Capacity returns the configured retention cap.
func (l *Log) Capacity() int {
	return l.capacity
}

// Replace swaps the full history, used when restoring persisted events
// at startup. Events beyond capacity are trimmed oldest-first.
func (l *Log) Replace(events []Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(events) > l.capacity {
		events = events[len(events)-l.capacity:]
	}
	l.buffer = ring.New(l.capacity)
	l.size = 0
	for _, e := range events {
		l.buffer.Value = e
		l.buffer = l.buffer.Next()
		l.size++
	}
}
