// Package metrics registers the engine's Prometheus metrics.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the pattern engine.
type Metrics struct {
	// Event metrics
	EventsRecorded *prometheus.CounterVec

	// Analysis metrics
	AnalysesTotal    *prometheus.CounterVec
	AnalysisDuration *prometheus.HistogramVec
	PatternsActive   prometheus.Gauge
	EngineConfidence prometheus.Gauge

	// Actionable insight cache metrics
	CacheHits         prometheus.Counter
	CacheMisses       prometheus.Counter
	InsightsGenerated prometheus.Gauge
}

var (
	metricsOnce   sync.Once
	sharedMetrics *Metrics
)

// New creates and registers all engine metrics. Repeated calls return
// the same registered set.
func New() *Metrics {
	metricsOnce.Do(func() {
		sharedMetrics = &Metrics{
			EventsRecorded: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "dayflow_behavior_events_total",
					Help: "Behavior events recorded, by kind",
				},
				[]string{"kind"},
			),
			AnalysesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "dayflow_analyses_total",
					Help: "Analysis runs completed, by mode (full or incremental)",
				},
				[]string{"mode"},
			),
			AnalysisDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "dayflow_analysis_duration_seconds",
					Help:    "Time spent computing one analysis pass",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"mode"},
			),
			PatternsActive: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "dayflow_patterns_active",
					Help: "Patterns in the current set",
				},
			),
			EngineConfidence: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "dayflow_engine_confidence",
					Help: "Mean confidence across the current pattern set",
				},
			),
			CacheHits: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "dayflow_actionable_cache_hits_total",
					Help: "Actionable insight cache hits",
				},
			),
			CacheMisses: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "dayflow_actionable_cache_misses_total",
					Help: "Actionable insight cache misses",
				},
			),
			InsightsGenerated: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "dayflow_actionable_insights_active",
					Help: "Actionable insights in the last computed set",
				},
			),
		}
	})
	return sharedMetrics
}
