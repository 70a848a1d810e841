package strategy

import (
	"math"

	"EdgePull/internal/domain/models"
	domsvc "EdgePull/internal/domain/service"
)

// MeanReversionScorer trades against short-run price spikes: a return
// z-score below the negative entry threshold is bought expecting a bounce
// back to the mean, a z-score above the positive threshold is sold.
// Values inside the band hold.
type MeanReversionScorer struct{}

func NewMeanReversionScorer() *MeanReversionScorer { return &MeanReversionScorer{} }

// Score maps the feature vector to a directional signal. Score is |last_z|,
// reported for observability only.
func (s *MeanReversionScorer) Score(feats models.FeatureSet, edge models.EdgeConfig) models.Signal {
	sig := models.Signal{Side: models.SideHold, Score: math.Abs(feats.LastZ)}
	if edge.EntryThreshold <= 0 {
		return sig
	}
	switch {
	case feats.LastZ <= -edge.EntryThreshold:
		sig.Side = models.SideBuy
	case feats.LastZ >= edge.EntryThreshold:
		sig.Side = models.SideSell
	}
	return sig
}

var _ domsvc.SignalScorer = (*MeanReversionScorer)(nil)
