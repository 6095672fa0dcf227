// Package actionable turns structural gap analysis and pattern-engine
// insights into prioritized, UI-ready recommendations, cached by a
// fingerprint of the application state.
package actionable

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// ActionType tells the UI what acting on an insight means.
type ActionType string

const (
	ActionCreateBlock    ActionType = "create_block"
	ActionModifySchedule ActionType = "modify_schedule"
	ActionCreateChain    ActionType = "create_chain"
	ActionUpdateGoal     ActionType = "update_goal"
	ActionCreatePillar   ActionType = "create_pillar"
	ActionAdjustEnergy   ActionType = "adjust_energy"
	ActionOptimizeTiming ActionType = "optimize_timing"
)

// Insight is one prioritized recommendation. Dismissing an insight
// removes it from the active set only; cached history keeps it.
type Insight struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	ActionType      ActionType `json:"action_type"`
	Priority        int        `json:"priority"` // 1-5, higher shown first
	Confidence      float64    `json:"confidence"`
	SuggestedAction string     `json:"suggested_action"`
	Context         string     `json:"context"`
	CreatedAt       time.Time  `json:"created_at"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the insight has passed its expiry, false
// when no expiry is set.
func (i Insight) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && now.After(*i.ExpiresAt)
}

// newInsight stamps an insight with a fresh ID and creation time.
func newInsight(i Insight, now time.Time) Insight {
	i.ID = uuid.NewString()
	i.CreatedAt = now
	return i
}

// sortByPriority orders insights by descending priority, preserving
// insertion order within a priority.
func sortByPriority(insights []Insight) {
	sort.SliceStable(insights, func(i, j int) bool {
		return insights[i].Priority > insights[j].Priority
	})
}
