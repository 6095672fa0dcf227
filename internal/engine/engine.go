// Package engine coordinates behavioral pattern learning: it owns the
// event log, schedules debounced analysis runs, fans out the pattern
// analyzers, and exposes the resulting patterns, insights, and
// engine-wide confidence to consumers.
package engine

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/dayflow/dayflow/internal/behavior"
	"github.com/dayflow/dayflow/internal/bus"
	"github.com/dayflow/dayflow/internal/metrics"
	"github.com/dayflow/dayflow/internal/pattern"
	"github.com/dayflow/dayflow/internal/persist"
	"github.com/dayflow/dayflow/internal/stats"
	"github.com/dayflow/dayflow/internal/telemetry"
)

// Config holds engine tuning knobs.
type Config struct {
	Capacity                 int           // event log retention cap
	DebounceInterval         time.Duration // min quiet period between analyses
	RecommendationTTL        time.Duration // how long a recommendation stays visible
	RecentWindow             int           // events inspected by incremental analysis
	FullAnalysisThreshold    int           // new events since last full analysis forcing a full run
	MinHistoryForIncremental int           // below this history size always run full

	AnalyzerConfig *pattern.Config
	Analyzers      []pattern.Analyzer // defaults to the four shipped analyzers

	Store     persist.Store    // nil disables persistence
	Publisher bus.Publisher    // nil disables notifications
	Metrics   *metrics.Metrics // nil disables prometheus metrics
	Tracer    trace.Tracer     // nil disables tracing
}

// DefaultConfig returns the shipped engine settings.
func DefaultConfig() *Config {
	return &Config{
		Capacity:                 behavior.DefaultCapacity,
		DebounceInterval:         1500 * time.Millisecond,
		RecommendationTTL:        30 * time.Second,
		RecentWindow:             10,
		FullAnalysisThreshold:    10,
		MinHistoryForIncremental: 20,
	}
}

// Stats summarizes what the engine has done so far.
type Stats struct {
	EventsRecorded      int       `json:"events_recorded"`
	FullAnalyses        int       `json:"full_analyses"`
	IncrementalAnalyses int       `json:"incremental_analyses"`
	LastAnalysis        time.Time `json:"last_analysis"`
}

// Engine is one pattern-learning instance. Construct it explicitly and
// hand it to whichever layer records events; there is no ambient
// shared instance.
type Engine struct {
	cfg       *Config
	analyzers []pattern.Analyzer

	logbook *behavior.Log

	mu              sync.RWMutex
	patterns        []pattern.Pattern
	insights        []Insight
	confidence      float64
	recommendation  string
	recGen          uint64
	gen             uint64 // analysis scheduling generation
	timer           *time.Timer
	running         bool
	lastAnalysis    time.Time
	eventsSinceFull int
	stats           Stats
}

// New creates an engine. A nil config uses DefaultConfig.
func New(cfg *Config) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.DebounceInterval <= 0 {
		cfg.DebounceInterval = 1500 * time.Millisecond
	}
	if cfg.RecommendationTTL <= 0 {
		cfg.RecommendationTTL = 30 * time.Second
	}
	if cfg.RecentWindow <= 0 {
		cfg.RecentWindow = 10
	}
	if cfg.FullAnalysisThreshold <= 0 {
		cfg.FullAnalysisThreshold = 10
	}
	if cfg.MinHistoryForIncremental <= 0 {
		cfg.MinHistoryForIncremental = 20
	}

	analyzers := cfg.Analyzers
	if len(analyzers) == 0 {
		analyzers = pattern.DefaultAnalyzers(cfg.AnalyzerConfig)
	}

	e := &Engine{
		cfg:       cfg,
		analyzers: analyzers,
		logbook:   behavior.NewLog(cfg.Capacity),
		// Events recorded right after startup fall into the debounce
		// window rather than each triggering an immediate run.
		lastAnalysis: time.Now(),
	}
	// Persistence rides the log's handler fan-out, alongside any
	// handlers consumers register themselves.
	e.logbook.OnRecord(func(behavior.Event) { e.saveEvents() })
	return e
}

// Start restores persisted state. Load failures degrade to empty
// collections and are logged, never propagated.
func (e *Engine) Start(ctx context.Context) {
	if e.cfg.Store == nil {
		return
	}

	events, err := e.cfg.Store.LoadEvents(ctx)
	if err != nil {
		log.Printf("[Engine] Failed to load event history, starting empty: %v", err)
		events = nil
	}
	if len(events) > 0 {
		e.logbook.Replace(events)
	}

	patterns, err := e.cfg.Store.LoadPatterns(ctx)
	if err != nil {
		log.Printf("[Engine] Failed to load patterns, starting empty: %v", err)
		patterns = nil
	}
	if len(patterns) > 0 {
		e.mu.Lock()
		e.patterns = patterns
		e.confidence = meanConfidence(patterns)
		e.insights = GenerateInsights(patterns)
		e.mu.Unlock()
	}
}

// Stop cancels any pending scheduled analysis. An in-flight run is
// allowed to finish.
func (e *Engine) Stop() {
	e.mu.Lock()
	e.gen++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.mu.Unlock()
}

// Log exposes the event log for read-only consumers (snapshotting).
func (e *Engine) Log() *behavior.Log {
	return e.logbook
}

// Record ingests one behavior event. Recording never fails and never
// blocks on analysis.
func (e *Engine) Record(event behavior.Event) {
	e.logbook.Record(event)

	e.mu.Lock()
	e.eventsSinceFull++
	e.stats.EventsRecorded++
	e.mu.Unlock()

	if e.cfg.Metrics != nil {
		e.cfg.Metrics.EventsRecorded.WithLabelValues(string(event.Kind)).Inc()
	}
	telemetry.EventsRecorded.Add(context.Background(), 1)

	e.updateRecommendation(event)
	e.scheduleAnalysis()
}

// Patterns returns the current pattern set, highest confidence first.
func (e *Engine) Patterns() []pattern.Pattern {
	e.mu.RLock()
	out := append([]pattern.Pattern(nil), e.patterns...)
	e.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out
}

// Insights returns the current category-level insights.
func (e *Engine) Insights() []Insight {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]Insight(nil), e.insights...)
}

// Confidence returns the engine-wide confidence: the mean of all
// pattern confidences, 0 when no patterns exist.
func (e *Engine) Confidence() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.confidence
}

// Recommendation returns the current short-lived recommendation, empty
// once it has expired.
func (e *Engine) Recommendation() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.recommendation
}

// Stats returns run counters for observability and tests.
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stats
}

func (e *Engine) updateRecommendation(event behavior.Event) {
	text := recommendationFor(event)
	if text == "" {
		return
	}

	e.mu.Lock()
	e.recommendation = text
	e.recGen++
	gen := e.recGen
	e.mu.Unlock()

	if e.cfg.Publisher != nil {
		if err := e.cfg.Publisher.Publish(bus.SubjectRecommendation, []byte(text)); err != nil {
			log.Printf("[Engine] Failed to publish recommendation: %v", err)
		}
	}

	time.AfterFunc(e.cfg.RecommendationTTL, func() {
		e.mu.Lock()
		if e.recGen == gen {
			e.recommendation = ""
		}
		e.mu.Unlock()
	})
}

func (e *Engine) saveEvents() {
	if e.cfg.Store == nil {
		return
	}
	if err := e.cfg.Store.SaveEvents(context.Background(), e.logbook.Snapshot()); err != nil {
		log.Printf("[Engine] Failed to persist event history: %v", err)
	}
}

func (e *Engine) savePatterns(patterns []pattern.Pattern) {
	if e.cfg.Store == nil {
		return
	}
	if err := e.cfg.Store.SavePatterns(context.Background(), patterns); err != nil {
		log.Printf("[Engine] Failed to persist patterns: %v", err)
	}
}

func (e *Engine) publishPatternsUpdated(patterns []pattern.Pattern, confidence float64) {
	if e.cfg.Publisher == nil {
		return
	}
	payload, err := json.Marshal(struct {
		Patterns   int     `json:"patterns"`
		Confidence float64 `json:"confidence"`
	}{len(patterns), confidence})
	if err != nil {
		return
	}
	if err := e.cfg.Publisher.Publish(bus.SubjectPatternsUpdated, payload); err != nil {
		log.Printf("[Engine] Failed to publish pattern update: %v", err)
	}
}

func meanConfidence(patterns []pattern.Pattern) float64 {
	if len(patterns) == 0 {
		return 0
	}
	values := make([]float64, len(patterns))
	for i, p := range patterns {
		values[i] = p.Confidence
	}
	return stats.Mean(values)
}
