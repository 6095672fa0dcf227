package engine

import (
	"math"
	"testing"
	"time"

	"github.com/dayflow/dayflow/internal/behavior"
	"github.com/dayflow/dayflow/internal/pattern"
)

func mkPattern(t pattern.Type, confidence float64) pattern.Pattern {
	return pattern.Pattern{
		Type:        t,
		Title:       string(t),
		Description: "desc " + string(t),
		Confidence:  confidence,
	}
}

func TestGenerateInsightsBuckets(t *testing.T) {
	patterns := []pattern.Pattern{
		mkPattern(pattern.TypeTemporal, 0.8),
		mkPattern(pattern.TypeTemporal, 0.6),
		mkPattern(pattern.TypeEnergy, 0.9),
	}

	insights := GenerateInsights(patterns)
	if len(insights) != 2 {
		t.Fatalf("expected 2 insights, got %d", len(insights))
	}

	timing := insights[0]
	if timing.Category != CategoryTiming {
		t.Errorf("expected timing category first, got %s", timing.Category)
	}
	if math.Abs(timing.Confidence-0.7) > 1e-9 {
		t.Errorf("expected mean confidence 0.7, got %f", timing.Confidence)
	}

	energy := insights[1]
	if energy.Category != CategoryEnergy {
		t.Errorf("expected energy category, got %s", energy.Category)
	}
	if energy.Confidence != 0.9 {
		t.Errorf("expected confidence 0.9, got %f", energy.Confidence)
	}
}

func TestGenerateInsightsEmpty(t *testing.T) {
	if insights := GenerateInsights(nil); len(insights) != 0 {
		t.Errorf("expected no insights from empty pattern set, got %d", len(insights))
	}
}

func TestGenerateInsightsDeterministic(t *testing.T) {
	patterns := []pattern.Pattern{
		mkPattern(pattern.TypeBehavioral, 0.7),
		mkPattern(pattern.TypeActivity, 0.5),
		mkPattern(pattern.TypeTemporal, 0.6),
	}

	a := GenerateInsights(patterns)
	b := GenerateInsights(patterns)
	if len(a) != len(b) {
		t.Fatal("insight count not stable")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("insight %d differs between runs: %+v vs %+v", i, a[i], b[i])
		}
	}
	// Bucket order is fixed: temporal before activity before behavioral.
	if a[0].Category != CategoryTiming || a[1].Category != CategoryFlow || a[2].Category != CategoryProductivity {
		t.Errorf("unexpected category order: %v %v %v", a[0].Category, a[1].Category, a[2].Category)
	}
}

func TestRecommendationFor(t *testing.T) {
	success := behavior.NewEvent(behavior.KindBlockCompleted, time.Now())
	success.Activity = "deep_work"
	success.Success = true
	if recommendationFor(success) == "" {
		t.Error("successful completion should produce a recommendation")
	}

	failure := behavior.NewEvent(behavior.KindBlockCompleted, time.Now())
	failure.Success = false
	if recommendationFor(failure) == "" {
		t.Error("failed completion should produce a recommendation")
	}

	created := behavior.NewEvent(behavior.KindBlockCreated, time.Now())
	if recommendationFor(created) != "" {
		t.Error("block creation should not produce a recommendation")
	}

	mood := behavior.NewEvent(behavior.KindMoodLogged, time.Now())
	if recommendationFor(mood) != "" {
		t.Error("mood logging should not produce a recommendation")
	}
}

func TestAlignmentScoreRecency(t *testing.T) {
	completions := []behavior.Event{func() behavior.Event {
		e := behavior.NewEvent(behavior.KindBlockCompleted, time.Now())
		e.Activity = "deep_work"
		e.Success = true
		return e
	}()}

	if got := alignmentScore(pattern.TypeTemporal, completions); got != 0.7 {
		t.Errorf("temporal alignment with fresh completions should be 0.7, got %f", got)
	}
	if got := alignmentScore(pattern.TypeTemporal, nil); got != 0.7*staleFactor {
		t.Errorf("temporal alignment with no relevant events should be discounted, got %f", got)
	}
	if got := alignmentScore(pattern.TypeBehavioral, completions); got != 0.5*staleFactor {
		t.Errorf("behavioral alignment without chain events should be discounted, got %f", got)
	}

	chains := []behavior.Event{behavior.NewEvent(behavior.KindChainApplied, time.Now())}
	if got := alignmentScore(pattern.TypeBehavioral, chains); got != 0.5 {
		t.Errorf("behavioral alignment with chain events should be 0.5, got %f", got)
	}
}
