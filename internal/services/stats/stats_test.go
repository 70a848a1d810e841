package stats

import (
	"math"
	"testing"

	"EdgePull/internal/domain/models"
)

func TestRollingZScoreUndefinedBeforeWindow(t *testing.T) {
	zs := RollingZScore([]float64{1, 2, 3, 4}, 5)
	for i, z := range zs {
		if z.Defined {
			t.Fatalf("index %d: expected undefined before window fills", i)
		}
	}
}

func TestRollingZScoreZeroVariance(t *testing.T) {
	zs := RollingZScore([]float64{2, 2, 2, 2, 2, 2}, 3)
	for i, z := range zs {
		if z.Defined {
			t.Fatalf("index %d: zero-variance window must be undefined", i)
		}
		if math.IsInf(z.Value, 0) || math.IsNaN(z.Value) {
			t.Fatalf("index %d: non-finite value leaked", i)
		}
	}
}

func TestRollingZScoreValue(t *testing.T) {
	// Window {1, 2, 3}: mean 2, population stddev sqrt(2/3).
	zs := RollingZScore([]float64{1, 2, 3}, 3)
	z := zs[2]
	if !z.Defined {
		t.Fatalf("expected defined score at last index")
	}
	want := (3.0 - 2.0) / math.Sqrt(2.0/3.0)
	if math.Abs(z.Value-want) > 1e-12 {
		t.Fatalf("z = %v, want %v", z.Value, want)
	}
}

func TestAverageTrueRangeConvergesOnConstantRange(t *testing.T) {
	// Constant high-low of 2 with zero gaps between bars.
	bars := make([]models.Bar, 0, 20)
	for i := 0; i < 20; i++ {
		bars = append(bars, models.Bar{TS: int64(i) * 60000, Open: 10, High: 11, Low: 9, Close: 10})
	}
	atr, ok := AverageTrueRange(bars, 14)
	if !ok {
		t.Fatalf("expected defined ATR with %d bars", len(bars))
	}
	if math.Abs(atr-2.0) > 1e-12 {
		t.Fatalf("atr = %v, want 2.0", atr)
	}
}

func TestAverageTrueRangeUndefinedShortSeries(t *testing.T) {
	bars := []models.Bar{{High: 11, Low: 9, Close: 10}}
	if _, ok := AverageTrueRange(bars, 14); ok {
		t.Fatalf("expected undefined ATR with one bar")
	}
}

func TestAverageTrueRangeGap(t *testing.T) {
	// Second bar gaps above the first close; TR uses |high-prevClose|.
	bars := []models.Bar{
		{Open: 10, High: 11, Low: 9, Close: 10},
		{Open: 15, High: 16, Low: 14, Close: 15},
	}
	atr, ok := AverageTrueRange(bars, 2)
	if !ok {
		t.Fatalf("expected defined ATR")
	}
	// TR0 = 2, TR1 = max(2, |16-10|, |14-10|) = 6.
	if math.Abs(atr-4.0) > 1e-12 {
		t.Fatalf("atr = %v, want 4.0", atr)
	}
}

func TestSampleStdDev(t *testing.T) {
	if got := SampleStdDev([]float64{5}); got != 0 {
		t.Fatalf("single sample stddev = %v, want 0", got)
	}
	got := SampleStdDev([]float64{1, 2, 3, 4})
	want := math.Sqrt(5.0 / 3.0)
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("stddev = %v, want %v", got, want)
	}
}
