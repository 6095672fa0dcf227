package pattern

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dayflow/dayflow/internal/behavior"
)

// sequenceLength is the fixed window used when chunking successful
// completions into candidate sequences.
const sequenceLength = 3

// ActivityAnalyzer mines the order of successful activities for a
// recurring sequence worth turning into a reusable chain.
type ActivityAnalyzer struct {
	cfg *Config
}

// NewActivityAnalyzer creates an activity-sequence analyzer with the
// given thresholds.
func NewActivityAnalyzer(cfg *Config) *ActivityAnalyzer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &ActivityAnalyzer{cfg: cfg}
}

// Type returns TypeActivity.
func (a *ActivityAnalyzer) Type() Type { return TypeActivity }

// Analyze chunks the markers of consecutive successful completions
// into fixed windows of three and emits an effective-sequence pattern
// when one window repeats often enough.
func (a *ActivityAnalyzer) Analyze(events []behavior.Event) []Pattern {
	var markers []string
	for _, e := range events {
		if e.IsCompletion() && e.Success && e.Activity != "" {
			markers = append(markers, e.Activity)
		}
	}

	chunks := len(markers) / sequenceLength
	if chunks < a.cfg.MinSequenceChunks {
		return nil
	}

	counts := make(map[string]int)
	for i := 0; i+sequenceLength <= chunks*sequenceLength; i += sequenceLength {
		key := strings.Join(markers[i:i+sequenceLength], " → ")
		counts[key]++
	}

	bestKey := ""
	bestCount := 0
	for key, count := range counts {
		if count > bestCount || (count == bestCount && key < bestKey) {
			bestKey = key
			bestCount = count
		}
	}

	if bestCount < a.cfg.MinSequenceOccurrences {
		return nil
	}

	confidence := math.Min(float64(bestCount)/float64(chunks), 0.9)
	sequence := strings.Split(bestKey, " → ")

	now := time.Now()
	return []Pattern{{
		Type:  TypeActivity,
		Title: "Effective activity sequence",
		Description: fmt.Sprintf("The sequence %s showed up %d times across %d successful runs",
			bestKey, bestCount, chunks),
		Confidence:  confidence,
		Suggestion:  fmt.Sprintf("Save %s as a chain and reuse it", bestKey),
		ActionType:  ActionOpportunity,
		Priority:    3,
		CreatedAt:   now,
		LastUpdated: now,
		Data: Data{Activity: &ActivityData{
			Sequence:    sequence,
			Occurrences: bestCount,
			TotalChunks: chunks,
		}},
	}}
}
