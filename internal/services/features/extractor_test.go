package features

import (
	"math"
	"testing"

	"EdgePull/internal/domain/models"
)

func edgeCfg() models.EdgeConfig {
	return models.EdgeConfig{HorizonSeconds: 5, ATRLen: 14, TPMult: 2, SLMult: 1, TimeoutSeconds: 60, EntryThreshold: 1.5}
}

func makeTicks(mids []float64, spread float64) []models.TickSample {
	out := make([]models.TickSample, len(mids))
	for i, m := range mids {
		out[i] = models.TickSample{TS: int64(i) * 250, Bid: m - spread/2, Ask: m + spread/2, Volume: 1}
	}
	return out
}

func TestZWindow(t *testing.T) {
	if got := ZWindow(5); got != 20 {
		t.Fatalf("ZWindow(5) = %d, want 20", got)
	}
	if got := ZWindow(0); got != 5 {
		t.Fatalf("ZWindow(0) = %d, want floor of 5", got)
	}
}

func TestBuildShortWindowZeroZ(t *testing.T) {
	// Fewer ticks than the z window: last_z must be exactly 0, never NaN.
	ticks := makeTicks([]float64{100, 100.1, 100.2}, 0.02)
	fs := Build(ticks, nil, edgeCfg())
	if fs.LastZ != 0 {
		t.Fatalf("last_z = %v, want 0 for short window", fs.LastZ)
	}
	if math.IsNaN(fs.MicroVol) || math.IsNaN(fs.Spread) {
		t.Fatalf("non-finite feature leaked: %+v", fs)
	}
}

func TestBuildConstantPrice(t *testing.T) {
	mids := make([]float64, 60)
	for i := range mids {
		mids[i] = 100
	}
	fs := Build(makeTicks(mids, 0.02), nil, edgeCfg())
	if fs.LastZ != 0 {
		t.Fatalf("last_z = %v, want 0 on zero variance", fs.LastZ)
	}
	if fs.MicroVol != 0 {
		t.Fatalf("micro_vol = %v, want 0 on constant price", fs.MicroVol)
	}
	if math.Abs(fs.Spread-0.02) > 1e-9 {
		t.Fatalf("spread = %v, want 0.02", fs.Spread)
	}
	if fs.Mid != 100 {
		t.Fatalf("mid = %v, want 100", fs.Mid)
	}
}

func TestBuildRisingSeriesPositiveZ(t *testing.T) {
	// Accelerating rise keeps the latest return above its short-run mean.
	mids := make([]float64, 60)
	mids[0] = 100
	step := 0.01
	for i := 1; i < len(mids); i++ {
		mids[i] = mids[i-1] + step
		step *= 1.2
	}
	fs := Build(makeTicks(mids, 0.02), nil, edgeCfg())
	if fs.LastZ <= 0 {
		t.Fatalf("last_z = %v, want positive for accelerating rise", fs.LastZ)
	}
}

func TestBuildATRDefaultsToZero(t *testing.T) {
	ticks := makeTicks([]float64{100, 100.1}, 0.02)
	bars := []models.Bar{{High: 11, Low: 9, Close: 10}}
	fs := Build(ticks, bars, edgeCfg())
	if fs.ATR != 0 {
		t.Fatalf("atr = %v, want 0 when undefined", fs.ATR)
	}
}

func TestBuildATRFromBars(t *testing.T) {
	bars := make([]models.Bar, 14)
	for i := range bars {
		bars[i] = models.Bar{TS: int64(i) * 60000, Open: 10, High: 11, Low: 9, Close: 10}
	}
	fs := Build(makeTicks([]float64{100}, 0.02), bars, edgeCfg())
	if math.Abs(fs.ATR-2.0) > 1e-12 {
		t.Fatalf("atr = %v, want 2.0", fs.ATR)
	}
}

func TestBuildEmptyTicks(t *testing.T) {
	fs := Build(nil, nil, edgeCfg())
	if fs.LastZ != 0 || fs.Spread != 0 || fs.MicroVol != 0 || fs.Mid != 0 {
		t.Fatalf("empty window must produce all-zero features, got %+v", fs)
	}
}
