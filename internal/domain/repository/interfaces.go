package repository

import (
	"context"

	"EdgePull/internal/domain/models"
)

// EventSink is an append-only log of decision events. Each Append is a single
// atomic record; implementations must be safe for concurrent use.
type EventSink interface {
	Append(ctx context.Context, ev *models.DecisionEvent) error
	Close() error
}

// Metrics records operational counters for the engine.
type Metrics interface {
	// RecordDecision counts a decide outcome (no_signal, blocked, filled).
	RecordDecision(outcome, symbol string)

	// RecordBlocked counts a guard denial by reason code.
	RecordBlocked(reason string)

	// RecordSink counts a sink append result (ok, error, dropped) per backend.
	RecordSink(backend, result string)

	// RecordError records an error occurrence.
	RecordError(kind string)

	// RecordLatency records operation latency in seconds.
	RecordLatency(op string, seconds float64)
}
