package sizing

import (
	"math"

	"EdgePull/internal/domain/models"
	domsvc "EdgePull/internal/domain/service"
)

const (
	// minATRPoints floors the ATR fed into exit and size arithmetic so a dead
	// market can never produce zero-distance exits or a division fault.
	minATRPoints = 1e-4

	// stepEpsilon absorbs float error when snapping lots onto the volume
	// step grid (0.1/0.01 must count as 10 steps, not 9).
	stepEpsilon = 1e-9
)

// TPSLPoints converts an ATR distance into take-profit and stop-loss
// distances in integer points.
func TPSLPoints(atrPoints, tpMult, slMult, pointSize float64) (tp, sl int) {
	if pointSize <= 0 {
		return 0, 0
	}
	if atrPoints < minATRPoints {
		atrPoints = minATRPoints
	}
	tp = int(math.Round(atrPoints * tpMult / pointSize))
	sl = int(math.Round(atrPoints * slMult / pointSize))
	if tp < 0 {
		tp = 0
	}
	if sl < 0 {
		sl = 0
	}
	return tp, sl
}

// Lots converts the per-trade risk budget into a lot count: the budget is
// equity*riskPct/100, the loss at stop per lot is slPoints*tickValuePerLot,
// and the raw quotient is floored onto the volumeStep grid. Sizes that floor
// below minLot collapse to 0; the result is never negative and never a
// fraction between 0 and minLot.
func Lots(equity, riskPct, atrPoints, tpMult, slMult, tickValuePerLot, pointSize, minLot, volumeStep float64) float64 {
	_, sl := TPSLPoints(atrPoints, tpMult, slMult, pointSize)
	if sl <= 0 || tickValuePerLot <= 0 || volumeStep <= 0 {
		return 0
	}
	riskAmount := equity * riskPct / 100
	lossPerLot := float64(sl) * tickValuePerLot
	raw := riskAmount / lossPerLot
	if raw <= 0 {
		return 0
	}
	lots := math.Floor(raw/volumeStep+stepEpsilon) * volumeStep
	if lots < minLot {
		return 0
	}
	return lots
}

// ATRSizer is the default PositionSizer: exits scale with ATR, size with the
// configured per-trade risk budget.
type ATRSizer struct {
	riskPct    float64
	minLot     float64
	volumeStep float64
}

func NewATRSizer(riskPct, minLot, volumeStep float64) *ATRSizer {
	return &ATRSizer{riskPct: riskPct, minLot: minLot, volumeStep: volumeStep}
}

func (s *ATRSizer) Size(econ models.TickEconomics, atrPoints float64, edge models.EdgeConfig) (float64, int, int) {
	tp, sl := TPSLPoints(atrPoints, edge.TPMult, edge.SLMult, econ.PointSize)
	lots := Lots(econ.EquityUSD, s.riskPct, atrPoints, edge.TPMult, edge.SLMult, econ.TickValuePerLot, econ.PointSize, s.minLot, s.volumeStep)
	return lots, tp, sl
}

var _ domsvc.PositionSizer = (*ATRSizer)(nil)
