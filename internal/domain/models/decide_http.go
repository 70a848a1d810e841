package models

import (
	"encoding/json"
	"fmt"
	"math"
)

// Request/response shapes for the decide HTTP endpoint. Defined in domain for
// consistency and reuse.

// DecideRequest is one evaluation request from the trading platform.
type DecideRequest struct {
	Symbol   string        `json:"symbol" validate:"required"`
	TickInfo TickEconomics `json:"tick_info" validate:"required"`
	Ticks    []TickSample  `json:"ticks" validate:"required,min=1"`
	Bars1m   []Bar         `json:"bars_1m" validate:"required,min=1"`
	State    RiskSnapshot  `json:"state"`
	Edge     string        `json:"edge" default:"mean_reversion_spike" validate:"required"`
}

// DecideResponse mirrors Decision field-for-field; the platform consumes it
// without an envelope.
type DecideResponse struct {
	Action    Action  `json:"action"`
	Lots      float64 `json:"lots"`
	TPPoints  int     `json:"tp_points"`
	SLPoints  int     `json:"sl_points"`
	ExpiresMS int64   `json:"expires_ms"`
	Reason    string  `json:"reason"`
}

// Validate applies the semantic checks struct tags cannot express: finite
// economics and well-formed quote tuples. Malformed input is rejected here,
// before the pipeline runs; it is never coerced.
func (r *DecideRequest) Validate() error {
	for _, v := range []float64{r.TickInfo.Bid, r.TickInfo.Ask, r.TickInfo.PointSize, r.TickInfo.TickValuePerLot, r.TickInfo.EquityUSD} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("tick_info contains a non-finite value")
		}
	}
	for i, t := range r.Ticks {
		if t.Bid <= 0 || t.Ask < t.Bid {
			return fmt.Errorf("ticks[%d]: bid must be positive and ask >= bid", i)
		}
	}
	for i, b := range r.Bars1m {
		if b.High < b.Low {
			return fmt.Errorf("bars_1m[%d]: high below low", i)
		}
	}
	return nil
}

// UnmarshalJSON decodes the [ts_ms, bid, ask, volume] tuple.
func (t *TickSample) UnmarshalJSON(b []byte) error {
	var tup []float64
	if err := json.Unmarshal(b, &tup); err != nil {
		return fmt.Errorf("tick tuple: %w", err)
	}
	if len(tup) != 4 {
		return fmt.Errorf("tick tuple: want 4 elements, got %d", len(tup))
	}
	t.TS = int64(tup[0])
	t.Bid = tup[1]
	t.Ask = tup[2]
	t.Volume = tup[3]
	return nil
}

// MarshalJSON encodes the tick back to its tuple form.
func (t TickSample) MarshalJSON() ([]byte, error) {
	return json.Marshal([]float64{float64(t.TS), t.Bid, t.Ask, t.Volume})
}

// UnmarshalJSON decodes the [ts_ms, open, high, low, close, volume] tuple.
func (b *Bar) UnmarshalJSON(data []byte) error {
	var tup []float64
	if err := json.Unmarshal(data, &tup); err != nil {
		return fmt.Errorf("bar tuple: %w", err)
	}
	if len(tup) != 6 {
		return fmt.Errorf("bar tuple: want 6 elements, got %d", len(tup))
	}
	b.TS = int64(tup[0])
	b.Open = tup[1]
	b.High = tup[2]
	b.Low = tup[3]
	b.Close = tup[4]
	b.Volume = tup[5]
	return nil
}

// MarshalJSON encodes the bar back to its tuple form.
func (b Bar) MarshalJSON() ([]byte, error) {
	return json.Marshal([]float64{float64(b.TS), b.Open, b.High, b.Low, b.Close, b.Volume})
}
