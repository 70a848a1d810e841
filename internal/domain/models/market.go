package models

// Action is the trade direction the engine returns to the platform.
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
	ActionFlat Action = "flat"
)

// Side is the directional verdict of a signal scorer.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
	SideHold Side = "hold"
)

// TickSample is one top-of-book quote observation. On the wire it is the
// positional tuple [ts_ms, bid, ask, volume]; see decide_http.go.
type TickSample struct {
	TS     int64 // unix ms
	Bid    float64
	Ask    float64
	Volume float64
}

// Mid returns the quote midpoint.
func (t TickSample) Mid() float64 { return (t.Bid + t.Ask) / 2 }

// Bar is one 1-minute OHLCV candle. On the wire it is the positional tuple
// [ts_ms, open, high, low, close, volume]; see decide_http.go.
type Bar struct {
	TS     int64 // unix ms
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// FeatureSet is the fixed feature vector extracted per request.
// Every field is a defined, finite float; statistics that could not be
// computed resolve to 0 at extraction time.
type FeatureSet struct {
	LastZ    float64 `json:"last_z"`
	Spread   float64 `json:"spread"`
	MicroVol float64 `json:"micro_vol"`
	ATR      float64 `json:"atr"`
	Mid      float64 `json:"mid"`
}

// Signal is a scorer verdict. Score is signal strength for observability
// only; it never feeds sizing.
type Signal struct {
	Side  Side    `json:"side"`
	Score float64 `json:"score"`
}

// RiskSnapshot is the caller-supplied risk state for one evaluation.
// The platform owns this state; the engine reads it and never mutates it.
type RiskSnapshot struct {
	DayPnLPct         float64 `json:"day_pnl_pct"`
	HitRatePct        float64 `json:"hit_rate_pct"`
	RecentTrades      int     `json:"recent_trades"`
	OpenPositions     int     `json:"open_positions"`
	SymbolExposurePct float64 `json:"symbol_exposure_pct"`
	LastTradeTS       int64   `json:"last_trade_ts_ms"`
}

// TickEconomics carries the live quote and contract economics for sizing.
type TickEconomics struct {
	Bid             float64 `json:"bid" validate:"gt=0"`
	Ask             float64 `json:"ask" validate:"gt=0"`
	SpreadPoints    int     `json:"spread_points" validate:"gte=0"`
	SlippagePoints  int     `json:"slippage_points" validate:"gte=0"`
	PointSize       float64 `json:"point_size" validate:"gt=0"`
	TickValuePerLot float64 `json:"tick_value_per_lot" validate:"gt=0"`
	EquityUSD       float64 `json:"equity_usd" validate:"gt=0"`
	TS              int64   `json:"ts_ms" validate:"gte=0"`
}

// Decision is the immutable outcome of one decide cycle.
// ActionFlat implies Lots, TPPoints and SLPoints are zero.
type Decision struct {
	Action    Action  `json:"action"`
	Lots      float64 `json:"lots"`
	TPPoints  int     `json:"tp_points"`
	SLPoints  int     `json:"sl_points"`
	ExpiresMS int64   `json:"expires_ms"`
	Reason    string  `json:"reason"`
}

// EdgeConfig holds the per-strategy parameters, loaded once from static
// configuration and treated as read-only afterwards.
type EdgeConfig struct {
	HorizonSeconds int     `yaml:"horizon_seconds" json:"horizon_seconds"`
	ATRLen         int     `yaml:"atr_len" json:"atr_len"`
	TPMult         float64 `yaml:"tp_mult" json:"tp_mult"`
	SLMult         float64 `yaml:"sl_mult" json:"sl_mult"`
	TimeoutSeconds int     `yaml:"timeout_seconds" json:"timeout_seconds"`
	EntryThreshold float64 `yaml:"entry_threshold" json:"entry_threshold"`
}
