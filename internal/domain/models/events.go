package models

// Event types written to the decision event sink.
const (
	EventTypeDecision = "decision" // scorer held, no trade
	EventTypeBlocked  = "blocked"  // guard denied
	EventTypeAction   = "action"   // trade decision emitted
)

// DecisionEvent is one append-only record of a decide outcome. Hold and
// blocked outcomes carry only the identification and reason fields; the
// action outcome carries the full decision.
type DecisionEvent struct {
	Type      string  `json:"type"`
	TS        int64   `json:"ts_ms"`
	Symbol    string  `json:"symbol"`
	Edge      string  `json:"edge,omitempty"`
	Side      string  `json:"side,omitempty"`
	Score     float64 `json:"score,omitempty"`
	Reason    string  `json:"reason,omitempty"`
	Action    string  `json:"action,omitempty"`
	Lots      float64 `json:"lots,omitempty"`
	TPPoints  int     `json:"tp_points,omitempty"`
	SLPoints  int     `json:"sl_points,omitempty"`
	ExpiresMS int64   `json:"expires_ms,omitempty"`
}
