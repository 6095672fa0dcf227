package pattern

import (
	"fmt"
	"time"

	"github.com/dayflow/dayflow/internal/behavior"
)

// chainConfidence is fixed: chain usage counts are too coarse to
// derive a statistical confidence from.
const chainConfidence = 0.7

// BehavioralAnalyzer reports on how well applied chains work, based on
// chain-application counts and the aggregate completion rate.
type BehavioralAnalyzer struct {
	cfg *Config
}

// NewBehavioralAnalyzer creates a behavioral analyzer with the given
// thresholds.
func NewBehavioralAnalyzer(cfg *Config) *BehavioralAnalyzer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &BehavioralAnalyzer{cfg: cfg}
}

// Type returns TypeBehavioral.
func (a *BehavioralAnalyzer) Type() Type { return TypeBehavioral }

// Analyze emits a chain-effectiveness pattern once chains have been
// applied often enough to say anything.
func (a *BehavioralAnalyzer) Analyze(events []behavior.Event) []Pattern {
	applications := 0
	completions := 0
	successes := 0

	for _, e := range events {
		switch {
		case e.Kind == behavior.KindChainApplied:
			applications++
		case e.IsCompletion():
			completions++
			if e.Success {
				successes++
			}
		}
	}

	if applications < a.cfg.MinChainApplications {
		return nil
	}

	completionRate := 0.0
	if completions > 0 {
		completionRate = float64(successes) / float64(completions)
	}

	now := time.Now()
	return []Pattern{{
		Type:  TypeBehavioral,
		Title: "Chain effectiveness",
		Description: fmt.Sprintf("You applied chains %d times; overall completion rate is %.0f%%",
			applications, completionRate*100),
		Confidence:  chainConfidence,
		Suggestion:  "Keep leaning on chains for repetitive stretches of the day",
		ActionType:  ActionInsight,
		Priority:    2,
		CreatedAt:   now,
		LastUpdated: now,
		Data: Data{Behavioral: &BehavioralData{
			ChainApplications: applications,
			CompletionRate:    completionRate,
			SampleSize:        applications,
		}},
	}}
}
