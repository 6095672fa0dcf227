// Package stats provides the small statistical toolkit the pattern
// analyzers and the engine build on: confidence intervals, exponential
// smoothing, and linear trend detection. All functions are pure and
// return safe defaults on degenerate input instead of errors.
package stats

import (
	"math"
)

// Interval is a confidence interval with its requested level.
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Level float64 `json:"level"`
}

// TrendDirection classifies the slope of a value series.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
)

// Trend is the result of a linear-trend fit over a value series.
type Trend struct {
	Direction  TrendDirection `json:"direction"`
	Strength   float64        `json:"strength"`   // min(1, |slope|*10)
	Confidence float64        `json:"confidence"` // R-squared of the fit
}

// Slope thresholds for trend classification. These are deliberately
// coarse; the series analyzed here are short behavioral windows, not
// long time series.
const (
	trendSlopeUp   = 0.02
	trendSlopeDown = -0.02
)

// ConfidenceInterval computes a confidence interval for the mean of
// values at the given level. Fewer than 3 samples yields the degenerate
// [0,1] interval at the requested level. The t-value comes from a
// coarse tier table rather than a full t-distribution lookup.
func ConfidenceInterval(values []float64, level float64) Interval {
	if len(values) < 3 {
		return Interval{Lower: 0, Upper: 1, Level: level}
	}

	n := float64(len(values))
	mean := Mean(values)

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= n - 1 // unbiased

	stderr := math.Sqrt(variance / n)
	t := tValue(len(values) - 1)

	return Interval{
		Lower: Clamp01(mean - t*stderr),
		Upper: Clamp01(mean + t*stderr),
		Level: level,
	}
}

// tValue returns an approximate two-sided 95% t-value by degrees-of-
// freedom tier.
func tValue(df int) float64 {
	switch {
	case df >= 30:
		return 1.96
	case df >= 20:
		return 2.09
	case df >= 10:
		return 2.23
	default:
		return 2.78
	}
}

// ExponentialSmoothing applies standard recursive smoothing with the
// given alpha. The first output equals the first input; empty input
// yields empty output.
func ExponentialSmoothing(values []float64, alpha float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	smoothed := make([]float64, len(values))
	smoothed[0] = values[0]
	for i := 1; i < len(values); i++ {
		smoothed[i] = alpha*values[i] + (1-alpha)*smoothed[i-1]
	}
	return smoothed
}

// DetectTrend fits an ordinary least-squares line to value-vs-index and
// classifies the slope. Fewer than 5 points yields a stable trend with
// zero strength and confidence.
func DetectTrend(values []float64) Trend {
	if len(values) < 5 {
		return Trend{Direction: TrendStable}
	}

	n := float64(len(values))
	var sumX, sumY, sumXY, sumXX float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return Trend{Direction: TrendStable}
	}
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	// R-squared of the fit.
	meanY := sumY / n
	var ssTot, ssRes float64
	for i, v := range values {
		fit := intercept + slope*float64(i)
		ssTot += (v - meanY) * (v - meanY)
		ssRes += (v - fit) * (v - fit)
	}
	r2 := 0.0
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	}

	direction := TrendStable
	if slope > trendSlopeUp {
		direction = TrendIncreasing
	} else if slope < trendSlopeDown {
		direction = TrendDecreasing
	}

	return Trend{
		Direction:  direction,
		Strength:   math.Min(1, math.Abs(slope)*10),
		Confidence: Clamp01(r2),
	}
}

// Mean returns the arithmetic mean, 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Clamp01 clamps v to [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Clamp clamps v to [lo,hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
