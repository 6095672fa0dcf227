package stats

import (
	"math"
	"testing"
)

func TestConfidenceIntervalDegenerate(t *testing.T) {
	for _, values := range [][]float64{nil, {0.5}, {0.4, 0.6}} {
		ci := ConfidenceInterval(values, 0.95)
		if ci.Lower != 0 || ci.Upper != 1 || ci.Level != 0.95 {
			t.Errorf("values %v: expected degenerate (0,1,0.95), got %+v", values, ci)
		}
	}
}

func TestConfidenceIntervalContainsMean(t *testing.T) {
	values := []float64{0.6, 0.7, 0.8, 0.65, 0.75, 0.7, 0.72, 0.68}
	ci := ConfidenceInterval(values, 0.95)

	mean := Mean(values)
	if ci.Lower > mean || ci.Upper < mean {
		t.Errorf("interval [%f,%f] does not contain mean %f", ci.Lower, ci.Upper, mean)
	}
	if ci.Lower < 0 || ci.Upper > 1 {
		t.Errorf("interval [%f,%f] not clamped to [0,1]", ci.Lower, ci.Upper)
	}
}

func TestConfidenceIntervalIdenticalValues(t *testing.T) {
	ci := ConfidenceInterval([]float64{0.5, 0.5, 0.5, 0.5}, 0.95)
	if ci.Lower != 0.5 || ci.Upper != 0.5 {
		t.Errorf("zero-variance interval should collapse to the mean, got %+v", ci)
	}
}

func TestTValueTiers(t *testing.T) {
	cases := []struct {
		df   int
		want float64
	}{
		{35, 1.96},
		{30, 1.96},
		{25, 2.09},
		{15, 2.23},
		{5, 2.78},
		{2, 2.78},
	}
	for _, c := range cases {
		if got := tValue(c.df); got != c.want {
			t.Errorf("tValue(%d) = %f, want %f", c.df, got, c.want)
		}
	}
}

func TestExponentialSmoothingEmpty(t *testing.T) {
	if got := ExponentialSmoothing(nil, 0.3); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}

func TestExponentialSmoothing(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	smoothed := ExponentialSmoothing(values, 0.5)

	if len(smoothed) != len(values) {
		t.Fatalf("expected %d outputs, got %d", len(values), len(smoothed))
	}
	if smoothed[0] != values[0] {
		t.Errorf("first output should equal first input: got %f", smoothed[0])
	}
	// 0.5*2 + 0.5*1 = 1.5
	if math.Abs(smoothed[1]-1.5) > 1e-9 {
		t.Errorf("expected smoothed[1]=1.5, got %f", smoothed[1])
	}
	// Smoothed series should lag behind a rising input.
	if smoothed[3] >= values[3] {
		t.Errorf("expected smoothing to lag rising input: %f >= %f", smoothed[3], values[3])
	}
}

func TestDetectTrendTooFewPoints(t *testing.T) {
	trend := DetectTrend([]float64{1, 2, 3, 4})
	if trend.Direction != TrendStable || trend.Confidence != 0 {
		t.Errorf("expected stable/zero trend for <5 points, got %+v", trend)
	}
}

func TestDetectTrendMonotonicIncrease(t *testing.T) {
	trend := DetectTrend([]float64{1, 2, 3, 4, 5})
	if trend.Direction != TrendIncreasing {
		t.Errorf("expected increasing, got %s", trend.Direction)
	}
	if math.Abs(trend.Confidence-1.0) > 1e-9 {
		t.Errorf("perfect linear fit should have R2 ~= 1.0, got %f", trend.Confidence)
	}
	if trend.Strength != 1 {
		t.Errorf("slope 1.0 should saturate strength at 1, got %f", trend.Strength)
	}
}

func TestDetectTrendDecreasing(t *testing.T) {
	trend := DetectTrend([]float64{0.9, 0.8, 0.7, 0.6, 0.5})
	if trend.Direction != TrendDecreasing {
		t.Errorf("expected decreasing, got %s", trend.Direction)
	}
}

func TestDetectTrendFlat(t *testing.T) {
	trend := DetectTrend([]float64{0.5, 0.51, 0.49, 0.5, 0.5})
	if trend.Direction != TrendStable {
		t.Errorf("expected stable for near-flat series, got %s", trend.Direction)
	}
}

func TestClamp(t *testing.T) {
	if Clamp01(-0.2) != 0 || Clamp01(1.5) != 1 || Clamp01(0.3) != 0.3 {
		t.Error("Clamp01 misbehaved")
	}
	if Clamp(0.05, 0.1, 1.0) != 0.1 {
		t.Error("Clamp lower bound misbehaved")
	}
}
