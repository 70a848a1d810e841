package service

import (
	"EdgePull/internal/domain/models"
)

// SignalScorer maps a feature vector to a directional signal. Implementations
// must be pure and deterministic given their inputs.
type SignalScorer interface {
	Score(feats models.FeatureSet, edge models.EdgeConfig) models.Signal
}

// RiskGuard evaluates a caller-supplied risk snapshot plus live
// microstructure numbers against static limits. Checks run in a fixed
// priority order; the first failing check determines the reason code.
// nowMS is the evaluation timestamp used for cooldown arithmetic.
type RiskGuard interface {
	Check(snap models.RiskSnapshot, spreadPoints, slippagePoints int, symbol string, nextExposurePct float64, nowMS int64) (allowed bool, reason string)
}

// PositionSizer converts ATR and contract economics into exit distances and
// a lot size. Returned lots are never negative and always respect the
// configured volume step and minimum lot.
type PositionSizer interface {
	Size(econ models.TickEconomics, atrPoints float64, edge models.EdgeConfig) (lots float64, tpPoints, slPoints int)
}
