package sizing

import (
	"math"
	"testing"

	"EdgePull/internal/domain/models"
)

func TestTPSLPoints(t *testing.T) {
	tp, sl := TPSLPoints(10, 2, 1, 0.1)
	if tp != 200 || sl != 100 {
		t.Fatalf("tp, sl = %d, %d; want 200, 100", tp, sl)
	}
}

func TestTPSLPointsFloorsZeroATR(t *testing.T) {
	tp, sl := TPSLPoints(0, 2, 1, 0.1)
	if tp < 0 || sl < 0 {
		t.Fatalf("negative exit distance: tp=%d sl=%d", tp, sl)
	}
	// Floored ATR, not a division fault or a huge garbage value.
	tp2, sl2 := TPSLPoints(minATRPoints, 2, 1, 0.1)
	if tp != tp2 || sl != sl2 {
		t.Fatalf("zero ATR must size like the epsilon floor: (%d,%d) vs (%d,%d)", tp, sl, tp2, sl2)
	}
}

func TestLotsScenario(t *testing.T) {
	// equity=10000, risk=1% -> budget 100; atr=10 pts, slMult=1,
	// pointSize=0.1 -> sl=100 points; loss per lot 100*10=1000;
	// raw = 100/1000 = 0.1 -> exactly 0.10 lots.
	lots := Lots(10000, 1, 10, 2, 1, 10, 0.1, 0.01, 0.01)
	if math.Abs(lots-0.10) > 1e-9 {
		t.Fatalf("lots = %v, want 0.10", lots)
	}
}

func TestLotsBelowMinLotIsZero(t *testing.T) {
	// Tiny equity floors below min_lot; never a fraction in between.
	lots := Lots(50, 1, 10, 2, 1, 10, 0.1, 0.1, 0.1)
	if lots != 0 {
		t.Fatalf("lots = %v, want 0 below min lot", lots)
	}
}

func TestLotsStepMultiple(t *testing.T) {
	const step = 0.01
	equities := []float64{137, 999, 10000, 54321, 1_000_000}
	for _, eq := range equities {
		lots := Lots(eq, 0.7, 13, 2, 1.5, 8.5, 0.1, 0.01, step)
		if lots < 0 {
			t.Fatalf("equity %v: negative lots %v", eq, lots)
		}
		steps := lots / step
		if math.Abs(steps-math.Round(steps)) > 1e-6 {
			t.Fatalf("equity %v: lots %v not a multiple of %v", eq, lots, step)
		}
	}
}

func TestLotsDegenerateInputs(t *testing.T) {
	if lots := Lots(10000, 1, 10, 2, 1, 0, 0.1, 0.01, 0.01); lots != 0 {
		t.Fatalf("zero tick value: lots = %v, want 0", lots)
	}
	if lots := Lots(10000, 1, 10, 2, 1, 10, 0, 0.01, 0.01); lots != 0 {
		t.Fatalf("zero point size: lots = %v, want 0", lots)
	}
	if lots := Lots(0, 1, 10, 2, 1, 10, 0.1, 0.01, 0.01); lots != 0 {
		t.Fatalf("zero equity: lots = %v, want 0", lots)
	}
}

func TestATRSizerSize(t *testing.T) {
	sizer := NewATRSizer(1, 0.01, 0.01)
	econ := models.TickEconomics{Bid: 1.1, Ask: 1.1002, PointSize: 0.1, TickValuePerLot: 10, EquityUSD: 10000}
	edge := models.EdgeConfig{TPMult: 2, SLMult: 1}
	lots, tp, sl := sizer.Size(econ, 10, edge)
	if tp != 200 || sl != 100 {
		t.Fatalf("tp, sl = %d, %d; want 200, 100", tp, sl)
	}
	if math.Abs(lots-0.10) > 1e-9 {
		t.Fatalf("lots = %v, want 0.10", lots)
	}
}
