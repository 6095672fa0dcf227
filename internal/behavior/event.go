package behavior

import (
	"time"
)

// Kind identifies what a behavior event records. Every user-visible
// interaction the app cares about maps to exactly one kind.
type Kind string

const (
	KindBlockCreated        Kind = "block_created"
	KindBlockCompleted      Kind = "block_completed"
	KindBlockConfirmed      Kind = "block_confirmed"
	KindBlockModified       Kind = "block_modified"
	KindChainApplied        Kind = "chain_applied"
	KindSuggestionAccepted  Kind = "suggestion_accepted"
	KindSuggestionRejected  Kind = "suggestion_rejected"
	KindDayReviewed         Kind = "day_reviewed"
	KindGoalProgress        Kind = "goal_progress"
	KindPillarActivated     Kind = "pillar_activated"
	KindFeedbackGiven       Kind = "feedback_given"
	KindMoodLogged          Kind = "mood_logged"
	KindCompletionWithNotes Kind = "completion_with_notes"
)

// EnergyType classifies the energy profile a block was scheduled under.
type EnergyType string

const (
	EnergyPeak     EnergyType = "peak"
	EnergySteady   EnergyType = "steady"
	EnergyLow      EnergyType = "low"
	EnergyRecovery EnergyType = "recovery"
)

// Context captures the circumstances an event happened under.
type Context struct {
	HourOfDay int          `json:"hour_of_day"`
	DayOfWeek time.Weekday `json:"day_of_week"`
	Energy    EnergyType   `json:"energy,omitempty"`
	Mood      string       `json:"mood,omitempty"`
}

// Event is an immutable record of one user interaction. Payload fields
// are meaningful only for the kinds that carry them: Success and
// ActualDuration for block_completed, Rating for day_reviewed, Note for
// feedback_given / completion_with_notes.
type Event struct {
	Timestamp      time.Time     `json:"timestamp"`
	Kind           Kind          `json:"kind"`
	Activity       string        `json:"activity,omitempty"` // activity marker, e.g. "deep_work", "break"
	Success        bool          `json:"success,omitempty"`
	ActualDuration time.Duration `json:"actual_duration,omitempty"`
	Rating         int           `json:"rating,omitempty"`
	Note           string        `json:"note,omitempty"`
	Context        Context       `json:"context"`
}

// NewEvent builds an event stamped with now and the derived time context.
func NewEvent(kind Kind, now time.Time) Event {
	return Event{
		Timestamp: now,
		Kind:      kind,
		Context: Context{
			HourOfDay: now.Hour(),
			DayOfWeek: now.Weekday(),
		},
	}
}

// IsCompletion reports whether the event records a finished block.
func (e Event) IsCompletion() bool {
	return e.Kind == KindBlockCompleted || e.Kind == KindCompletionWithNotes
}
