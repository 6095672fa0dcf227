package pattern

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dayflow/dayflow/internal/behavior"
	"github.com/dayflow/dayflow/internal/stats"
)

// TemporalAnalyzer finds the hours of day where focused work reliably
// succeeds, and the typical length of effective breaks.
type TemporalAnalyzer struct {
	cfg *Config
}

// NewTemporalAnalyzer creates a temporal analyzer with the given
// thresholds.
func NewTemporalAnalyzer(cfg *Config) *TemporalAnalyzer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &TemporalAnalyzer{cfg: cfg}
}

// Type returns TypeTemporal.
func (a *TemporalAnalyzer) Type() Type { return TypeTemporal }

// Analyze emits a peak-focus-hours pattern when enough focus-marked
// completions cluster on high-success hours, and an optimal-break
// pattern from the mean duration of break-marked completions.
func (a *TemporalAnalyzer) Analyze(events []behavior.Event) []Pattern {
	var patterns []Pattern

	if p, ok := a.peakHours(events); ok {
		patterns = append(patterns, p)
	}
	if p, ok := a.breakLength(events); ok {
		patterns = append(patterns, p)
	}
	return patterns
}

type hourStats struct {
	total     int
	successes int
}

func (a *TemporalAnalyzer) peakHours(events []behavior.Event) (Pattern, bool) {
	byHour := make(map[int]*hourStats)
	samples := 0
	var outcomes []float64 // 1/0 per qualifying completion

	for _, e := range events {
		if !e.IsCompletion() || !contains(a.cfg.FocusActivities, e.Activity) {
			continue
		}
		samples++
		hs := byHour[e.Context.HourOfDay]
		if hs == nil {
			hs = &hourStats{}
			byHour[e.Context.HourOfDay] = hs
		}
		hs.total++
		if e.Success {
			hs.successes++
			outcomes = append(outcomes, 1)
		} else {
			outcomes = append(outcomes, 0)
		}
	}

	if samples < a.cfg.MinTemporalSamples {
		return Pattern{}, false
	}

	curve := make([]float64, 24)
	type hourRate struct {
		hour int
		rate float64
	}
	var rates []hourRate
	for hour, hs := range byHour {
		rate := float64(hs.successes) / float64(hs.total)
		curve[hour] = rate
		if rate > a.cfg.PeakSuccessRate {
			rates = append(rates, hourRate{hour: hour, rate: rate})
		}
	}
	if len(rates) == 0 {
		return Pattern{}, false
	}

	sort.Slice(rates, func(i, j int) bool {
		if rates[i].rate != rates[j].rate {
			return rates[i].rate > rates[j].rate
		}
		return rates[i].hour < rates[j].hour
	})
	if len(rates) > 3 {
		rates = rates[:3]
	}

	peaks := make([]int, len(rates))
	rateValues := make([]float64, len(rates))
	for i, hr := range rates {
		peaks[i] = hr.hour
		rateValues[i] = hr.rate
	}
	sort.Ints(peaks)

	trend := dayTrend(byHour, curve)
	interval := stats.ConfidenceInterval(outcomes, 0.95)

	description := fmt.Sprintf("Focused blocks succeed most often around %s (%d completions analyzed)",
		formatHours(peaks), samples)
	if trend != stats.TrendStable {
		description += fmt.Sprintf("; success is %s over the course of the day", trend)
	}

	now := time.Now()
	return Pattern{
		Type:        TypeTemporal,
		Title:       "Peak focus hours",
		Description: description,
		Confidence:  stats.Clamp01(stats.Mean(rateValues)),
		Suggestion:  fmt.Sprintf("Schedule demanding work at %s", formatHours(peaks)),
		ActionType:  ActionSuggestion,
		Priority:    4,
		CreatedAt:   now,
		LastUpdated: now,
		Data: Data{Temporal: &TemporalData{
			PeakHours:         peaks,
			ProductivityCurve: curve,
			SampleSize:        samples,
			SuccessRange:      &interval,
			DayTrend:          trend,
		}},
	}, true
}

// dayTrend classifies how success moves across the sampled hours:
// the per-hour rates in hour order, smoothed to damp single-hour
// spikes, then trend-fitted. Fewer than 5 sampled hours reads stable.
func dayTrend(byHour map[int]*hourStats, curve []float64) stats.TrendDirection {
	hours := make([]int, 0, len(byHour))
	for hour := range byHour {
		hours = append(hours, hour)
	}
	sort.Ints(hours)

	series := make([]float64, len(hours))
	for i, h := range hours {
		series[i] = curve[h]
	}
	return stats.DetectTrend(stats.ExponentialSmoothing(series, 0.3)).Direction
}

// breakConfidence is fixed: break length is descriptive, not a success
// statistic.
const breakConfidence = 0.6

func (a *TemporalAnalyzer) breakLength(events []behavior.Event) (Pattern, bool) {
	var durations []float64
	for _, e := range events {
		if !e.IsCompletion() || !contains(a.cfg.BreakActivities, e.Activity) {
			continue
		}
		if e.ActualDuration > 0 {
			durations = append(durations, e.ActualDuration.Minutes())
		}
	}

	if len(durations) < a.cfg.MinBreakSamples {
		return Pattern{}, false
	}

	mean := stats.Mean(durations)
	now := time.Now()
	return Pattern{
		Type:        TypeTemporal,
		Title:       "Optimal break length",
		Description: fmt.Sprintf("Your breaks average %.0f minutes (%d breaks analyzed)", mean, len(durations)),
		Confidence:  breakConfidence,
		Suggestion:  fmt.Sprintf("Plan breaks of about %.0f minutes between focused blocks", mean),
		ActionType:  ActionInsight,
		Priority:    2,
		CreatedAt:   now,
		LastUpdated: now,
		Data: Data{Temporal: &TemporalData{
			BreakMinutes: mean,
			SampleSize:   len(durations),
		}},
	}, true
}

func formatHours(hours []int) string {
	parts := make([]string, len(hours))
	for i, h := range hours {
		parts[i] = fmt.Sprintf("%02d:00", h)
	}
	return strings.Join(parts, ", ")
}
