package risk

import (
	"time"

	"EdgePull/internal/domain/models"
	domsvc "EdgePull/internal/domain/service"
)

// Denial reason codes, stable strings surfaced to the platform.
const (
	ReasonDailyLoss    = "daily_loss_limit"
	ReasonSpread       = "spread_too_wide"
	ReasonSlippage     = "slippage_too_high"
	ReasonExposure     = "exposure_limit"
	ReasonMaxPositions = "max_positions"
	ReasonTradeRate    = "trade_rate_limit"
	ReasonCooldown     = "cooldown_active"
)

// Limits are the static pre-trade limits a Guard enforces.
type Limits struct {
	MaxDailyLossPct   float64 // deny when day pnl <= -MaxDailyLossPct
	MaxSpreadPoints   int
	MaxSlippagePoints int
	MaxExposurePct    float64 // per-symbol cap on projected exposure
	MaxOpenPositions  int
	MaxTradesPerHour  int
	Cooldown          time.Duration
}

// Guard evaluates a risk snapshot against static limits. It holds no mutable
// state and never mutates the snapshot; every denial carries the reason of
// the first failing check so messages are reproducible.
type Guard struct {
	limits Limits
}

func NewGuard(limits Limits) *Guard { return &Guard{limits: limits} }

// Check runs the guard chain in fixed priority order: daily loss, then
// microstructure cost, then projected exposure, then position and trade-rate
// caps, then cooldown. nowMS is the evaluation timestamp in unix ms.
func (g *Guard) Check(snap models.RiskSnapshot, spreadPoints, slippagePoints int, symbol string, nextExposurePct float64, nowMS int64) (bool, string) {
	l := g.limits

	if l.MaxDailyLossPct > 0 && snap.DayPnLPct <= -l.MaxDailyLossPct {
		return false, ReasonDailyLoss
	}

	if l.MaxSpreadPoints > 0 && spreadPoints > l.MaxSpreadPoints {
		return false, ReasonSpread
	}
	if l.MaxSlippagePoints > 0 && slippagePoints > l.MaxSlippagePoints {
		return false, ReasonSlippage
	}

	if l.MaxExposurePct > 0 && nextExposurePct > l.MaxExposurePct {
		return false, ReasonExposure
	}

	if l.MaxOpenPositions > 0 && snap.OpenPositions >= l.MaxOpenPositions {
		return false, ReasonMaxPositions
	}
	if l.MaxTradesPerHour > 0 && snap.RecentTrades >= l.MaxTradesPerHour {
		return false, ReasonTradeRate
	}
	if l.Cooldown > 0 && snap.LastTradeTS > 0 {
		since := time.Duration(nowMS-snap.LastTradeTS) * time.Millisecond
		if since < l.Cooldown {
			return false, ReasonCooldown
		}
	}

	return true, ""
}

var _ domsvc.RiskGuard = (*Guard)(nil)
