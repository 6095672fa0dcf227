package pattern

import (
	"fmt"
	"sort"
	"time"

	"github.com/dayflow/dayflow/internal/behavior"
	"github.com/dayflow/dayflow/internal/stats"
)

// EnergyAnalyzer finds which (energy type, hour) pairings produce
// reliably successful blocks.
type EnergyAnalyzer struct {
	cfg *Config
}

// NewEnergyAnalyzer creates an energy analyzer with the given
// thresholds.
func NewEnergyAnalyzer(cfg *Config) *EnergyAnalyzer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &EnergyAnalyzer{cfg: cfg}
}

// Type returns TypeEnergy.
func (a *EnergyAnalyzer) Type() Type { return TypeEnergy }

type energyKey struct {
	energy behavior.EnergyType
	hour   int
}

// Analyze groups completions by (energy, hour) and emits one
// energy-time match pattern when enough samples exist and at least one
// pairing clears the success-rate bar.
func (a *EnergyAnalyzer) Analyze(events []behavior.Event) []Pattern {
	byPair := make(map[energyKey]*hourStats)
	samples := 0

	for _, e := range events {
		if !e.IsCompletion() || e.Context.Energy == "" {
			continue
		}
		samples++
		key := energyKey{energy: e.Context.Energy, hour: e.Context.HourOfDay}
		hs := byPair[key]
		if hs == nil {
			hs = &hourStats{}
			byPair[key] = hs
		}
		hs.total++
		if e.Success {
			hs.successes++
		}
	}

	if samples < a.cfg.MinEnergySamples {
		return nil
	}

	var matches []EnergyMatch
	for key, hs := range byPair {
		rate := float64(hs.successes) / float64(hs.total)
		if rate > a.cfg.EnergySuccessRate {
			matches = append(matches, EnergyMatch{
				Energy:      key.energy,
				Hour:        key.hour,
				SuccessRate: rate,
			})
		}
	}
	if len(matches) == 0 {
		return nil
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].SuccessRate != matches[j].SuccessRate {
			return matches[i].SuccessRate > matches[j].SuccessRate
		}
		if matches[i].Hour != matches[j].Hour {
			return matches[i].Hour < matches[j].Hour
		}
		return matches[i].Energy < matches[j].Energy
	})
	if len(matches) > 3 {
		matches = matches[:3]
	}

	rates := make([]float64, len(matches))
	for i, m := range matches {
		rates[i] = m.SuccessRate
	}

	best := matches[0]
	now := time.Now()
	return []Pattern{{
		Type:  TypeEnergy,
		Title: "Energy-time match",
		Description: fmt.Sprintf("%s-energy blocks around %02d:00 succeed %.0f%% of the time (%d completions analyzed)",
			best.Energy, best.Hour, best.SuccessRate*100, samples),
		Confidence:  stats.Clamp01(stats.Mean(rates)),
		Suggestion:  fmt.Sprintf("Place %s-energy work near %02d:00", best.Energy, best.Hour),
		ActionType:  ActionOpportunity,
		Priority:    3,
		CreatedAt:   now,
		LastUpdated: now,
		Data: Data{Energy: &EnergyData{
			Matches:    matches,
			SampleSize: samples,
		}},
	}}
}
