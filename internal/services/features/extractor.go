package features

import (
	"EdgePull/internal/domain/models"
	"EdgePull/internal/services/stats"
)

const (
	// ticksPerSecond approximates tick arrival rate when converting the edge
	// horizon into a sample count. Modeling assumption, not a measured rate.
	ticksPerSecond = 4

	minZWindow     = 5
	spreadWindow   = 20
	microVolWindow = 50
)

// ZWindow returns the z-score window for an edge horizon: horizon seconds
// times the assumed tick rate, never below minZWindow.
func ZWindow(horizonSeconds int) int {
	n := horizonSeconds * ticksPerSecond
	if n < minZWindow {
		n = minZWindow
	}
	return n
}

// Build turns a chronological tick window and bar window into the fixed
// feature vector. Every output field is defined: statistics that lack enough
// samples or collapse to zero variance resolve to 0 here, so no NaN or
// infinity ever crosses the package boundary.
func Build(ticks []models.TickSample, bars []models.Bar, edge models.EdgeConfig) models.FeatureSet {
	var fs models.FeatureSet

	mids := make([]float64, len(ticks))
	for i, t := range ticks {
		mids[i] = t.Mid()
	}

	// Simple returns; undefined at index 0, substituted with 0 so the
	// z-score input keeps one entry per tick.
	rets := make([]float64, len(mids))
	for i := 1; i < len(mids); i++ {
		if mids[i-1] != 0 {
			rets[i] = mids[i]/mids[i-1] - 1
		}
	}

	zs := stats.RollingZScore(rets, ZWindow(edge.HorizonSeconds))
	if n := len(zs); n > 0 {
		if last := zs[n-1]; last.Defined {
			fs.LastZ = last.Value
		}
	}

	if len(ticks) > 0 {
		spreads := make([]float64, 0, spreadWindow)
		for _, t := range tailTicks(ticks, spreadWindow) {
			spreads = append(spreads, t.Ask-t.Bid)
		}
		fs.Spread = stats.Mean(spreads)
		fs.Mid = mids[len(mids)-1]
	}

	if len(rets) > 1 {
		// Drop the substituted index-0 return; micro volatility is the
		// sample stddev of actual returns only.
		fs.MicroVol = stats.SampleStdDev(tailFloats(rets[1:], microVolWindow))
	}

	if atr, ok := stats.AverageTrueRange(bars, edge.ATRLen); ok {
		fs.ATR = atr
	}

	return fs
}

func tailTicks(ticks []models.TickSample, n int) []models.TickSample {
	if len(ticks) <= n {
		return ticks
	}
	return ticks[len(ticks)-n:]
}

func tailFloats(xs []float64, n int) []float64 {
	if len(xs) <= n {
		return xs
	}
	return xs[len(xs)-n:]
}
