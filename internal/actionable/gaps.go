package actionable

import (
	"fmt"
	"strings"
	"time"

	"github.com/dayflow/dayflow/internal/appstate"
	"github.com/dayflow/dayflow/internal/engine"
)

// Completeness a pillar must reach before we stop prompting for more
// detail.
const pillarCompletenessTarget = 0.8

// structuralConfidence scores insights derived from hard structural
// facts (a count of zero, a missing link) rather than statistics.
const structuralConfidence = 0.9

// lifeAreas are the common keywords we expect pillar names to cover.
var lifeAreas = []string{"health", "work", "family", "learning", "rest", "exercise", "creativity"}

// maxScheduleGap is the largest tolerated idle stretch between blocks.
const maxScheduleGap = time.Hour

// analyzeGaps inspects the configuration state and emits one insight
// per violated rule. Rules are independent; each yields at most one
// insight except per-pillar completeness.
func analyzeGaps(state appstate.Snapshot, now time.Time) []Insight {
	var insights []Insight
	insights = append(insights, pillarGaps(state, now)...)
	insights = append(insights, goalGaps(state, now)...)
	insights = append(insights, scheduleGaps(state, now)...)
	return insights
}

func pillarGaps(state appstate.Snapshot, now time.Time) []Insight {
	var insights []Insight

	if len(state.Pillars) == 0 {
		insights = append(insights, newInsight(Insight{
			Title:           "Define your first pillar",
			Description:     "Pillars anchor your schedule to what matters; you have none yet",
			ActionType:      ActionCreatePillar,
			Priority:        5,
			Confidence:      structuralConfidence,
			SuggestedAction: "Create a pillar for the most important area of your life",
			Context:         "pillars",
		}, now))
		return insights
	}

	for _, p := range state.Pillars {
		completeness := p.Completeness()
		if completeness < pillarCompletenessTarget {
			insights = append(insights, newInsight(Insight{
				Title:           fmt.Sprintf("Flesh out %q", p.Name),
				Description:     fmt.Sprintf("%q is %.0f%% defined; fuller pillars make better suggestions", p.Name, completeness*100),
				ActionType:      ActionCreatePillar,
				Priority:        3,
				Confidence:      completeness,
				SuggestedAction: fmt.Sprintf("Add the missing details to %q", p.Name),
				Context:         "pillars",
			}, now))
		}
	}

	if missing := missingLifeAreas(state.Pillars); len(missing) > 0 {
		insights = append(insights, newInsight(Insight{
			Title:           "Some life areas have no pillar",
			Description:     fmt.Sprintf("No pillar covers: %s", strings.Join(missing, ", ")),
			ActionType:      ActionCreatePillar,
			Priority:        2,
			Confidence:      0.6,
			SuggestedAction: fmt.Sprintf("Consider a pillar for %s", missing[0]),
			Context:         "pillars",
		}, now))
	}

	return insights
}

func missingLifeAreas(pillars []appstate.Pillar) []string {
	var missing []string
	for _, area := range lifeAreas {
		covered := false
		for _, p := range pillars {
			if strings.Contains(strings.ToLower(p.Name), area) {
				covered = true
				break
			}
		}
		if !covered {
			missing = append(missing, area)
		}
	}
	return missing
}

func goalGaps(state appstate.Snapshot, now time.Time) []Insight {
	var insights []Insight

	if len(state.Goals) == 0 {
		insights = append(insights, newInsight(Insight{
			Title:           "Set a goal",
			Description:     "Nothing you schedule is tied to a goal yet",
			ActionType:      ActionUpdateGoal,
			Priority:        4,
			Confidence:      structuralConfidence,
			SuggestedAction: "Create one concrete goal to aim blocks at",
			Context:         "goals",
		}, now))
		return insights
	}

	drafts := 0
	needsBreakdown := 0
	overdue := 0
	for _, g := range state.Goals {
		if g.State == appstate.GoalDraft {
			drafts++
		}
		if g.NeedsBreakdown {
			needsBreakdown++
		}
		if g.State == appstate.GoalActive && g.TargetDate != nil && now.After(*g.TargetDate) {
			overdue++
		}
	}

	if drafts > 0 {
		insights = append(insights, newInsight(Insight{
			Title:           "Activate your draft goals",
			Description:     fmt.Sprintf("%d goal(s) are still drafts", drafts),
			ActionType:      ActionUpdateGoal,
			Priority:        3,
			Confidence:      structuralConfidence,
			SuggestedAction: "Review the drafts and activate the ones you mean to pursue",
			Context:         "goals",
		}, now))
	}
	if needsBreakdown > 0 {
		insights = append(insights, newInsight(Insight{
			Title:           "Break down your goals",
			Description:     fmt.Sprintf("%d goal(s) are too big to schedule directly", needsBreakdown),
			ActionType:      ActionUpdateGoal,
			Priority:        3,
			Confidence:      structuralConfidence,
			SuggestedAction: "Split them into steps you can put on the calendar",
			Context:         "goals",
		}, now))
	}
	if overdue > 0 {
		insights = append(insights, newInsight(Insight{
			Title:           "Revisit overdue goals",
			Description:     fmt.Sprintf("%d active goal(s) are past their target date", overdue),
			ActionType:      ActionUpdateGoal,
			Priority:        4,
			Confidence:      structuralConfidence,
			SuggestedAction: "Extend the date, shrink the goal, or close it out",
			Context:         "goals",
		}, now))
	}

	return insights
}

func scheduleGaps(state appstate.Snapshot, now time.Time) []Insight {
	var insights []Insight
	// Day-shape insights go stale with the day itself.
	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)

	if len(state.Blocks) == 0 {
		i := newInsight(Insight{
			Title:           "Your day is empty",
			Description:     "Nothing is scheduled for today",
			ActionType:      ActionCreateBlock,
			Priority:        3,
			Confidence:      structuralConfidence,
			SuggestedAction: "Add at least one block to get the day moving",
			Context:         "schedule",
		}, now)
		i.ExpiresAt = &endOfDay
		return append(insights, i)
	}

	if energy, uniform := uniformEnergy(state.Blocks); uniform && len(state.Blocks) > 1 {
		i := newInsight(Insight{
			Title:           "The whole day runs on one energy type",
			Description:     fmt.Sprintf("Every block today is %q; days flow better with variation", energy),
			ActionType:      ActionAdjustEnergy,
			Priority:        2,
			Confidence:      structuralConfidence,
			SuggestedAction: "Mix in blocks with a different energy profile",
			Context:         "schedule",
		}, now)
		i.ExpiresAt = &endOfDay
		insights = append(insights, i)
	}

	if gaps := scheduleGapCount(state.Blocks); gaps > 0 {
		i := newInsight(Insight{
			Title:           "Long gaps in the schedule",
			Description:     fmt.Sprintf("%d gap(s) longer than an hour between blocks", gaps),
			ActionType:      ActionModifySchedule,
			Priority:        2,
			Confidence:      structuralConfidence,
			SuggestedAction: "Tighten the schedule or claim the gaps deliberately",
			Context:         "schedule",
		}, now)
		i.ExpiresAt = &endOfDay
		insights = append(insights, i)
	}

	unlinked := 0
	lowConfidence := 0
	for _, b := range state.Blocks {
		if !b.Linked() {
			unlinked++
		}
		if b.SuggestionConfidence > 0 && b.SuggestionConfidence < 0.5 {
			lowConfidence++
		}
	}
	if unlinked*2 > len(state.Blocks) {
		i := newInsight(Insight{
			Title:           "Most blocks serve no goal",
			Description:     fmt.Sprintf("%d of %d blocks are not linked to any goal or pillar", unlinked, len(state.Blocks)),
			ActionType:      ActionUpdateGoal,
			Priority:        2,
			Confidence:      structuralConfidence,
			SuggestedAction: "Link blocks to the goals they actually serve",
			Context:         "schedule",
		}, now)
		i.ExpiresAt = &endOfDay
		insights = append(insights, i)
	}
	if lowConfidence > 0 {
		i := newInsight(Insight{
			Title:           "Shaky suggestions on today's plan",
			Description:     fmt.Sprintf("%d block(s) were scheduled from low-confidence suggestions", lowConfidence),
			ActionType:      ActionOptimizeTiming,
			Priority:        2,
			Confidence:      structuralConfidence,
			SuggestedAction: "Double-check the timing of the uncertain blocks",
			Context:         "schedule",
		}, now)
		i.ExpiresAt = &endOfDay
		insights = append(insights, i)
	}

	return insights
}

func uniformEnergy(blocks []appstate.Block) (string, bool) {
	if len(blocks) == 0 {
		return "", false
	}
	first := blocks[0].Energy
	for _, b := range blocks[1:] {
		if b.Energy != first {
			return "", false
		}
	}
	return string(first), true
}

func scheduleGapCount(blocks []appstate.Block) int {
	if len(blocks) < 2 {
		return 0
	}
	sorted := append([]appstate.Block(nil), blocks...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].StartTime.Before(sorted[j-1].StartTime); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	gaps := 0
	for i := 1; i < len(sorted); i++ {
		if sorted[i].StartTime.Sub(sorted[i-1].EndTime()) > maxScheduleGap {
			gaps++
		}
	}
	return gaps
}

// Engine insight categories map onto the closest actionable move.
var categoryActions = map[engine.Category]struct {
	action   ActionType
	priority int
}{
	engine.CategoryTiming:       {ActionOptimizeTiming, 3},
	engine.CategoryEnergy:       {ActionAdjustEnergy, 3},
	engine.CategoryFlow:         {ActionCreateChain, 3},
	engine.CategoryProductivity: {ActionUpdateGoal, 2},
	engine.CategoryWellbeing:    {ActionCreateBlock, 2},
}

// translateInsights converts pattern-engine insights into actionable
// records.
func translateInsights(insights []engine.Insight, now time.Time) []Insight {
	var out []Insight
	for _, in := range insights {
		mapping, ok := categoryActions[in.Category]
		if !ok {
			continue
		}
		out = append(out, newInsight(Insight{
			Title:           in.Title,
			Description:     in.Description,
			ActionType:      mapping.action,
			Priority:        mapping.priority,
			Confidence:      in.Confidence,
			SuggestedAction: in.Actionable,
			Context:         "patterns",
		}, now))
	}
	return out
}
