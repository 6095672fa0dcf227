package engine

import (
	"fmt"

	"github.com/dayflow/dayflow/internal/behavior"
	"github.com/dayflow/dayflow/internal/pattern"
	"github.com/dayflow/dayflow/internal/stats"
)

// Category groups insights by the aspect of the day they speak to.
type Category string

const (
	CategoryTiming       Category = "timing"
	CategoryEnergy       Category = "energy"
	CategoryFlow         Category = "flow"
	CategoryProductivity Category = "productivity"
	CategoryWellbeing    Category = "wellbeing"
)

// Insight is a category-level summary of one or more patterns. It is
// ephemeral: always re-derived from the current pattern set, never
// persisted on its own.
type Insight struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Actionable  string   `json:"actionable"`
	Confidence  float64  `json:"confidence"`
	Category    Category `json:"category"`
}

type insightTemplate struct {
	category   Category
	title      string
	actionable string
}

var insightTemplates = map[pattern.Type]insightTemplate{
	pattern.TypeTemporal: {
		category:   CategoryTiming,
		title:      "Your timing patterns",
		actionable: "Shift demanding blocks into your proven peak hours",
	},
	pattern.TypeEnergy: {
		category:   CategoryEnergy,
		title:      "Your energy rhythm",
		actionable: "Match block energy types to the hours where they succeed",
	},
	pattern.TypeActivity: {
		category:   CategoryFlow,
		title:      "Your flow sequences",
		actionable: "Chain the activity sequences that keep you moving",
	},
	pattern.TypeBehavioral: {
		category:   CategoryProductivity,
		title:      "Your working habits",
		actionable: "Reuse the routines your history says work",
	},
	pattern.TypeEnvironmental: {
		category:   CategoryWellbeing,
		title:      "Your environment",
		actionable: "Adjust your surroundings to match what works",
	},
}

// GenerateInsights emits one insight per populated pattern-type
// bucket, with confidence equal to the bucket's mean. Deterministic
// over the pattern set.
func GenerateInsights(patterns []pattern.Pattern) []Insight {
	buckets := make(map[pattern.Type][]pattern.Pattern)
	for _, p := range patterns {
		buckets[p.Type] = append(buckets[p.Type], p)
	}

	// Fixed emission order keeps output stable across runs.
	order := []pattern.Type{
		pattern.TypeTemporal,
		pattern.TypeEnergy,
		pattern.TypeActivity,
		pattern.TypeBehavioral,
		pattern.TypeEnvironmental,
	}

	var insights []Insight
	for _, t := range order {
		bucket := buckets[t]
		if len(bucket) == 0 {
			continue
		}
		tmpl := insightTemplates[t]

		values := make([]float64, len(bucket))
		for i, p := range bucket {
			values[i] = p.Confidence
		}

		insights = append(insights, Insight{
			Title:       tmpl.title,
			Description: bucket[0].Description,
			Actionable:  tmpl.actionable,
			Confidence:  stats.Clamp01(stats.Mean(values)),
			Category:    tmpl.category,
		})
	}
	return insights
}

// recommendationFor produces the short-lived recommendation shown
// right after specific interactions. Unhandled kinds yield nothing.
func recommendationFor(event behavior.Event) string {
	switch event.Kind {
	case behavior.KindBlockCompleted, behavior.KindCompletionWithNotes:
		if event.Success {
			return fmt.Sprintf("Nice work finishing %s — this hour is working for you", labelFor(event))
		}
		return fmt.Sprintf("%s didn't land this time — consider moving it to a higher-energy hour", labelFor(event))
	case behavior.KindChainApplied:
		return "Chain applied — watching how the sequence plays out"
	case behavior.KindFeedbackGiven:
		return "Thanks for the feedback — future suggestions will account for it"
	default:
		return ""
	}
}

func labelFor(event behavior.Event) string {
	if event.Activity != "" {
		return event.Activity
	}
	return "that block"
}
