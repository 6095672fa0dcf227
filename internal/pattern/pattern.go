// Package pattern defines the statistically-derived behavior patterns
// and the analyzers that detect them from the event history.
package pattern

import (
	"time"

	"github.com/dayflow/dayflow/internal/behavior"
	"github.com/dayflow/dayflow/internal/stats"
)

// Type classifies what aspect of behavior a pattern describes.
type Type string

const (
	TypeTemporal      Type = "temporal"
	TypeEnergy        Type = "energy"
	TypeActivity      Type = "activity"
	TypeBehavioral    Type = "behavioral"
	TypeEnvironmental Type = "environmental"
)

// ActionType tells the UI how to present a pattern.
type ActionType string

const (
	ActionSuggestion  ActionType = "suggestion"
	ActionWarning     ActionType = "warning"
	ActionOpportunity ActionType = "opportunity"
	ActionInsight     ActionType = "insight"
)

// Pattern is one confidence-scored observation about recurring
// behavior. Confidence is revised in place by incremental analysis;
// CreatedAt is fixed at first detection.
type Pattern struct {
	Type        Type       `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Confidence  float64    `json:"confidence"`
	Suggestion  string     `json:"suggestion"`
	Data        Data       `json:"data"`
	CreatedAt   time.Time  `json:"created_at"`
	LastUpdated time.Time  `json:"last_updated"`
	ActionType  ActionType `json:"action_type"`
	Priority    int        `json:"priority"` // 1-5, higher shown first
}

// Data is the per-type payload. Exactly one field is populated,
// matching the pattern's Type.
type Data struct {
	Temporal   *TemporalData   `json:"temporal,omitempty"`
	Energy     *EnergyData     `json:"energy,omitempty"`
	Activity   *ActivityData   `json:"activity,omitempty"`
	Behavioral *BehavioralData `json:"behavioral,omitempty"`
}

// TemporalData backs peak-hours and break-length patterns.
type TemporalData struct {
	PeakHours         []int     `json:"peak_hours,omitempty"`
	ProductivityCurve []float64 `json:"productivity_curve,omitempty"` // success rate per hour, 24 entries
	BreakMinutes      float64   `json:"break_minutes,omitempty"`
	SampleSize        int       `json:"sample_size"`

	// SuccessRange is the confidence interval of the overall success
	// rate; DayTrend classifies how the smoothed per-hour rates move
	// across the sampled day.
	SuccessRange *stats.Interval      `json:"success_range,omitempty"`
	DayTrend     stats.TrendDirection `json:"day_trend,omitempty"`
}

// EnergyMatch is one (energy type, hour) pairing with its success rate.
type EnergyMatch struct {
	Energy      behavior.EnergyType `json:"energy"`
	Hour        int                 `json:"hour"`
	SuccessRate float64             `json:"success_rate"`
}

// EnergyData backs energy-time match patterns.
type EnergyData struct {
	Matches    []EnergyMatch `json:"matches"`
	SampleSize int           `json:"sample_size"`
}

// ActivityData backs effective-sequence patterns.
type ActivityData struct {
	Sequence    []string `json:"sequence"`
	Occurrences int      `json:"occurrences"`
	TotalChunks int      `json:"total_chunks"`
}

// BehavioralData backs chain-effectiveness patterns.
type BehavioralData struct {
	ChainApplications int     `json:"chain_applications"`
	CompletionRate    float64 `json:"completion_rate"`
	SampleSize        int     `json:"sample_size"`
}

// Analyzer detects patterns of one type from an event snapshot.
// Implementations are pure: no shared mutable state, safe to run
// concurrently over the same snapshot.
type Analyzer interface {
	Type() Type
	Analyze(events []behavior.Event) []Pattern
}

// Config holds the detection thresholds shared by the analyzers. Below
// a threshold an analyzer silently emits nothing for its category.
type Config struct {
	MinTemporalSamples     int      `yaml:"min_temporal_samples" json:"min_temporal_samples"`
	MinBreakSamples        int      `yaml:"min_break_samples" json:"min_break_samples"`
	MinEnergySamples       int      `yaml:"min_energy_samples" json:"min_energy_samples"`
	MinSequenceChunks      int      `yaml:"min_sequence_chunks" json:"min_sequence_chunks"`
	MinSequenceOccurrences int      `yaml:"min_sequence_occurrences" json:"min_sequence_occurrences"`
	MinChainApplications   int      `yaml:"min_chain_applications" json:"min_chain_applications"`
	PeakSuccessRate        float64  `yaml:"peak_success_rate" json:"peak_success_rate"`
	EnergySuccessRate      float64  `yaml:"energy_success_rate" json:"energy_success_rate"`
	FocusActivities        []string `yaml:"focus_activities" json:"focus_activities"`
	BreakActivities        []string `yaml:"break_activities" json:"break_activities"`
}

// DefaultConfig returns the shipped detection thresholds.
func DefaultConfig() *Config {
	return &Config{
		MinTemporalSamples:     10,
		MinBreakSamples:        5,
		MinEnergySamples:       15,
		MinSequenceChunks:      5,
		MinSequenceOccurrences: 3,
		MinChainApplications:   3,
		PeakSuccessRate:        0.7,
		EnergySuccessRate:      0.8,
		FocusActivities:        []string{"deep_work", "focus", "writing", "coding", "study", "creative"},
		BreakActivities:        []string{"break", "rest", "walk", "recharge"},
	}
}

// DefaultAnalyzers returns the four shipped analyzers wired to cfg.
func DefaultAnalyzers(cfg *Config) []Analyzer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return []Analyzer{
		NewTemporalAnalyzer(cfg),
		NewEnergyAnalyzer(cfg),
		NewActivityAnalyzer(cfg),
		NewBehavioralAnalyzer(cfg),
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
