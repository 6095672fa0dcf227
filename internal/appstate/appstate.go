// Package appstate defines the read-only view of the application's
// configuration the insight engine analyzes: pillars, goals, and the
// day's scheduled blocks. The engine never mutates this state.
package appstate

import (
	"time"

	"github.com/dayflow/dayflow/internal/behavior"
)

// Pillar is a user-defined life area the schedule is organized around.
type Pillar struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Values      []string `json:"values,omitempty" yaml:"values,omitempty"`
	Habits      []string `json:"habits,omitempty" yaml:"habits,omitempty"`
	Constraints []string `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	QuietHours  []string `json:"quiet_hours,omitempty" yaml:"quiet_hours,omitempty"`
	Wisdom      string   `json:"wisdom,omitempty" yaml:"wisdom,omitempty"`
}

// Completeness returns the fraction of optional pillar fields the user
// has filled in.
func (p Pillar) Completeness() float64 {
	fields := []bool{
		p.Description != "",
		len(p.Values) > 0,
		len(p.Habits) > 0,
		len(p.Constraints) > 0,
		len(p.QuietHours) > 0,
		p.Wisdom != "",
	}
	filled := 0
	for _, ok := range fields {
		if ok {
			filled++
		}
	}
	return float64(filled) / float64(len(fields))
}

// GoalState is the lifecycle state of a goal.
type GoalState string

const (
	GoalDraft     GoalState = "draft"
	GoalActive    GoalState = "active"
	GoalCompleted GoalState = "completed"
	GoalArchived  GoalState = "archived"
)

// Goal is a user objective, optionally linked to pillars.
type Goal struct {
	ID             string     `json:"id" yaml:"id"`
	Title          string     `json:"title" yaml:"title"`
	State          GoalState  `json:"state" yaml:"state"`
	NeedsBreakdown bool       `json:"needs_breakdown,omitempty" yaml:"needs_breakdown,omitempty"`
	TargetDate     *time.Time `json:"target_date,omitempty" yaml:"target_date,omitempty"`
}

// Block is one scheduled activity for the day.
type Block struct {
	ID                   string              `json:"id" yaml:"id"`
	Title                string              `json:"title" yaml:"title"`
	StartTime            time.Time           `json:"start_time" yaml:"start_time"`
	Duration             time.Duration       `json:"duration" yaml:"duration"`
	Energy               behavior.EnergyType `json:"energy,omitempty" yaml:"energy,omitempty"`
	GoalID               string              `json:"goal_id,omitempty" yaml:"goal_id,omitempty"`
	PillarID             string              `json:"pillar_id,omitempty" yaml:"pillar_id,omitempty"`
	SuggestionConfidence float64             `json:"suggestion_confidence,omitempty" yaml:"suggestion_confidence,omitempty"`
}

// EndTime returns when the block finishes.
func (b Block) EndTime() time.Time {
	return b.StartTime.Add(b.Duration)
}

// Linked reports whether the block is tied to a goal or pillar.
func (b Block) Linked() bool {
	return b.GoalID != "" || b.PillarID != ""
}

// Snapshot is a point-in-time copy of the configuration state.
type Snapshot struct {
	Pillars []Pillar `json:"pillars" yaml:"pillars"`
	Goals   []Goal   `json:"goals" yaml:"goals"`
	Blocks  []Block  `json:"blocks" yaml:"blocks"`
}

// Provider supplies state snapshots on demand.
type Provider interface {
	Snapshot() Snapshot
}

// StaticProvider wraps a fixed snapshot, used by the CLI and tests.
type StaticProvider struct {
	State Snapshot
}

// Snapshot returns the wrapped state.
func (p StaticProvider) Snapshot() Snapshot {
	return p.State
}
