package engine

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/dayflow/dayflow/internal/behavior"
	"github.com/dayflow/dayflow/internal/pattern"
	"github.com/dayflow/dayflow/internal/stats"
	"github.com/dayflow/dayflow/internal/telemetry"
)

// Incremental confidence blend: newConfidence = keepWeight*old +
// alignWeight*alignment, clamped to [incrementalFloor, 1].
const (
	keepWeight       = 0.8
	alignWeight      = 0.2
	incrementalFloor = 0.1
)

// scheduleAnalysis applies the debounce discipline: a new event within
// the debounce window supersedes any pending scheduled run; after a
// quiet period the run starts immediately. A run already executing is
// never cancelled.
func (e *Engine) scheduleAnalysis() {
	e.mu.Lock()
	e.gen++
	gen := e.gen
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}

	if time.Since(e.lastAnalysis) >= e.cfg.DebounceInterval {
		e.mu.Unlock()
		go e.runAnalysis(gen)
		return
	}
	e.timer = time.AfterFunc(e.cfg.DebounceInterval, func() {
		e.runAnalysis(gen)
	})
	e.mu.Unlock()
}

// runAnalysis executes one analysis cycle if it is still the latest
// scheduled generation and no other run is in flight. The published
// result is always a complete replacement, never a partial view.
func (e *Engine) runAnalysis(gen uint64) {
	e.mu.Lock()
	if gen != e.gen || e.running {
		// Superseded by a newer trigger, or a run is already
		// executing; the next cycle picks up the new events.
		e.mu.Unlock()
		return
	}
	e.running = true
	snapshot := e.logbook.Snapshot()
	full := len(e.patterns) == 0 ||
		e.eventsSinceFull > e.cfg.FullAnalysisThreshold ||
		len(snapshot) < e.cfg.MinHistoryForIncremental
	var current []pattern.Pattern
	if !full {
		current = append([]pattern.Pattern(nil), e.patterns...)
	}
	e.mu.Unlock()

	mode := "incremental"
	if full {
		mode = "full"
	}

	if e.cfg.Tracer != nil {
		_, span := e.cfg.Tracer.Start(context.Background(), "engine.analysis")
		span.SetAttributes(
			attribute.String("mode", mode),
			attribute.Int("history", len(snapshot)),
		)
		defer span.End()
	}

	start := time.Now()
	var result []pattern.Pattern
	if full {
		result = e.runFull(snapshot)
	} else {
		result = e.runIncremental(current, snapshot)
	}
	elapsed := time.Since(start)

	e.mu.Lock()
	prevCount := len(e.patterns)
	e.patterns = result
	e.confidence = meanConfidence(result)
	e.insights = GenerateInsights(result)
	e.lastAnalysis = time.Now()
	e.stats.LastAnalysis = e.lastAnalysis
	e.running = false
	if full {
		e.eventsSinceFull = 0
		e.stats.FullAnalyses++
	} else {
		e.stats.IncrementalAnalyses++
	}
	confidence := e.confidence
	e.mu.Unlock()

	if e.cfg.Metrics != nil {
		e.cfg.Metrics.AnalysesTotal.WithLabelValues(mode).Inc()
		e.cfg.Metrics.AnalysisDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
		e.cfg.Metrics.PatternsActive.Set(float64(len(result)))
		e.cfg.Metrics.EngineConfidence.Set(confidence)
	}
	telemetry.AnalysesRun.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("mode", mode)))
	telemetry.AnalysisLatency.Record(context.Background(), float64(elapsed.Milliseconds()))
	telemetry.PatternsActive.Add(context.Background(), int64(len(result)-prevCount))

	e.savePatterns(result)
	e.publishPatternsUpdated(result, confidence)
}

// runFull fans out all analyzers concurrently over the snapshot and
// joins their results into a complete replacement pattern set.
func (e *Engine) runFull(snapshot []behavior.Event) []pattern.Pattern {
	results := make([][]pattern.Pattern, len(e.analyzers))

	var wg sync.WaitGroup
	for i, a := range e.analyzers {
		wg.Add(1)
		go func(i int, a pattern.Analyzer) {
			defer wg.Done()
			results[i] = a.Analyze(snapshot)
		}(i, a)
	}
	wg.Wait()

	var merged []pattern.Pattern
	for _, r := range results {
		merged = append(merged, r...)
	}
	return merged
}

// runIncremental adjusts each cached pattern's confidence against the
// most recent events. Cost is bounded by the recent window regardless
// of total history size.
func (e *Engine) runIncremental(current []pattern.Pattern, snapshot []behavior.Event) []pattern.Pattern {
	recent := snapshot
	if len(recent) > e.cfg.RecentWindow {
		recent = recent[len(recent)-e.cfg.RecentWindow:]
	}

	now := time.Now()
	updated := make([]pattern.Pattern, len(current))
	for i, p := range current {
		align := alignmentScore(p.Type, recent)
		p.Confidence = stats.Clamp(keepWeight*p.Confidence+alignWeight*align, incrementalFloor, 1.0)
		p.LastUpdated = now
		updated[i] = p
	}
	return updated
}

// Baseline alignment per pattern type. Tuned so temporal and activity
// patterns hold their confidence longer than behavioral ones.
var alignmentBase = map[pattern.Type]float64{
	pattern.TypeTemporal:      0.7,
	pattern.TypeEnergy:        0.6,
	pattern.TypeActivity:      0.8,
	pattern.TypeBehavioral:    0.5,
	pattern.TypeEnvironmental: 0.5,
}

// staleFactor discounts the baseline when the recent window holds
// nothing relevant to the pattern's type.
const staleFactor = 0.8

// alignmentScore is a cheap heuristic, not a re-derivation: the
// fixed per-type baseline, discounted when the recent events carry no
// signal for that type.
func alignmentScore(t pattern.Type, recent []behavior.Event) float64 {
	base, ok := alignmentBase[t]
	if !ok {
		base = 0.5
	}

	relevant := false
	for _, e := range recent {
		switch t {
		case pattern.TypeTemporal:
			relevant = e.IsCompletion()
		case pattern.TypeEnergy:
			relevant = e.IsCompletion() && e.Context.Energy != ""
		case pattern.TypeActivity:
			relevant = e.IsCompletion() && e.Success && e.Activity != ""
		case pattern.TypeBehavioral:
			relevant = e.Kind == behavior.KindChainApplied
		default:
			relevant = true
		}
		if relevant {
			break
		}
	}

	if !relevant {
		return base * staleFactor
	}
	return base
}
