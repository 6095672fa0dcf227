package actionable

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/dayflow/dayflow/internal/appstate"
	"github.com/dayflow/dayflow/internal/bus"
	"github.com/dayflow/dayflow/internal/engine"
	"github.com/dayflow/dayflow/internal/metrics"
)

// DefaultDebounce is the quiet period applied to refresh triggers.
const DefaultDebounce = 2 * time.Second

// Source supplies the pattern engine's current insights. *engine.Engine
// satisfies it.
type Source interface {
	Insights() []engine.Insight
}

// Config wires an Advisor to its collaborators.
type Config struct {
	Provider appstate.Provider
	Source   Source        // nil skips pattern-derived insights
	Backend  Backend       // nil uses an in-memory backend with defaults
	Debounce time.Duration // refresh trigger debounce

	Publisher bus.Publisher    // nil disables notifications
	Metrics   *metrics.Metrics // nil disables prometheus metrics
}

// Stats counts advisor activity; tests use Computes to verify that
// cache hits skip gap analysis.
type Stats struct {
	Computes    int `json:"computes"`
	CacheHits   int `json:"cache_hits"`
	CacheMisses int `json:"cache_misses"`
}

// Advisor merges gap analysis with pattern-engine insights and serves
// the combined, prioritized list from a fingerprint-keyed cache.
type Advisor struct {
	cfg     *Config
	backend Backend

	mu        sync.Mutex
	gen       uint64 // refresh scheduling generation
	timer     *time.Timer
	inFlight  bool
	dismissed map[string]bool
	last      []Insight
	stats     Stats
}

// NewAdvisor creates an advisor. Provider is required.
func NewAdvisor(cfg *Config) *Advisor {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	backend := cfg.Backend
	if backend == nil {
		backend = NewMemoryBackend(DefaultTTL, DefaultMaxEntries)
	}
	return &Advisor{
		cfg:       cfg,
		backend:   backend,
		dismissed: make(map[string]bool),
	}
}

// Fingerprint derives the cache key from entity counts. Any change to
// the number of pillars, goals, or scheduled blocks invalidates the
// cached list.
func Fingerprint(state appstate.Snapshot) string {
	return fmt.Sprintf("%d-%d-%d", len(state.Pillars), len(state.Goals), len(state.Blocks))
}

// Insights returns the current actionable insights for the state's
// fingerprint. A fresh cache entry is served without recomputation; a
// miss computes synchronously unless another computation is already in
// flight, in which case the last valid list (or nothing) is returned.
func (a *Advisor) Insights(ctx context.Context) []Insight {
	state := a.cfg.Provider.Snapshot()
	key := Fingerprint(state)

	if entry, ok := a.backend.Get(ctx, key); ok {
		a.mu.Lock()
		a.stats.CacheHits++
		a.mu.Unlock()
		if a.cfg.Metrics != nil {
			a.cfg.Metrics.CacheHits.Inc()
		}
		return a.filterDismissed(entry.Insights)
	}

	a.mu.Lock()
	a.stats.CacheMisses++
	if a.inFlight {
		// Another refresh is computing; serve the last valid list.
		last := append([]Insight(nil), a.last...)
		a.mu.Unlock()
		if a.cfg.Metrics != nil {
			a.cfg.Metrics.CacheMisses.Inc()
		}
		return a.filterDismissed(last)
	}
	a.inFlight = true
	a.mu.Unlock()
	if a.cfg.Metrics != nil {
		a.cfg.Metrics.CacheMisses.Inc()
	}

	insights := a.computeAndStore(ctx, state, key)
	return a.filterDismissed(insights)
}

// RequestRefresh schedules a debounced background recomputation, used
// when the application state changes. A newer trigger within the
// debounce window supersedes a pending one; triggers during an
// in-flight computation are rejected.
func (a *Advisor) RequestRefresh(ctx context.Context) {
	a.mu.Lock()
	a.gen++
	gen := a.gen
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.timer = time.AfterFunc(a.cfg.Debounce, func() {
		a.refresh(ctx, gen)
	})
	a.mu.Unlock()
}

// Stop cancels any pending scheduled refresh.
func (a *Advisor) Stop() {
	a.mu.Lock()
	a.gen++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()
}

// Dismiss removes an insight from the active set. Cached entries keep
// it; it just stops being served.
func (a *Advisor) Dismiss(id string) {
	a.mu.Lock()
	a.dismissed[id] = true
	a.mu.Unlock()
}

// Stats returns activity counters.
func (a *Advisor) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

func (a *Advisor) refresh(ctx context.Context, gen uint64) {
	a.mu.Lock()
	if gen != a.gen || a.inFlight {
		// Superseded, or a computation is already running.
		a.mu.Unlock()
		return
	}
	a.inFlight = true
	a.mu.Unlock()

	state := a.cfg.Provider.Snapshot()
	a.computeAndStore(ctx, state, Fingerprint(state))
}

// computeAndStore must be called with the in-flight flag held; it
// releases the flag when done.
func (a *Advisor) computeAndStore(ctx context.Context, state appstate.Snapshot, key string) []Insight {
	now := time.Now()
	insights := analyzeGaps(state, now)
	if a.cfg.Source != nil {
		insights = append(insights, translateInsights(a.cfg.Source.Insights(), now)...)
	}
	sortByPriority(insights)

	if err := a.backend.Set(ctx, key, insights); err != nil {
		log.Printf("[Actionable] Failed to cache insights for %s: %v", key, err)
	}

	a.mu.Lock()
	a.last = insights
	a.stats.Computes++
	a.inFlight = false
	a.mu.Unlock()

	if a.cfg.Metrics != nil {
		a.cfg.Metrics.InsightsGenerated.Set(float64(len(insights)))
	}
	if a.cfg.Publisher != nil {
		payload := []byte(fmt.Sprintf(`{"fingerprint":%q,"insights":%d}`, key, len(insights)))
		if err := a.cfg.Publisher.Publish(bus.SubjectInsightsRefreshed, payload); err != nil {
			log.Printf("[Actionable] Failed to publish refresh: %v", err)
		}
	}

	return insights
}

func (a *Advisor) filterDismissed(insights []Insight) []Insight {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.dismissed) == 0 {
		return insights
	}
	out := make([]Insight, 0, len(insights))
	for _, i := range insights {
		if !a.dismissed[i.ID] {
			out = append(out, i)
		}
	}
	return out
}
