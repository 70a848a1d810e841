package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"EdgePull/internal/domain/models"
	"EdgePull/internal/domain/repository"
)

// ClickHouseSink stores decision events in a ClickHouse table.
type ClickHouseSink struct {
	db    *sql.DB
	table string
}

// NewClickHouseSink creates ClickHouse-backed event storage.
func NewClickHouseSink(db *sql.DB, table string) *ClickHouseSink {
	return &ClickHouseSink{db: db, table: table}
}

// SchemaStatements returns idempotent DDL for the decision events table.
func SchemaStatements(database, table string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			ts DateTime64(3),
			type String,
			symbol String,
			edge String,
			side String,
			score Float64,
			reason String,
			action String,
			lots Float64,
			tp_points Int32,
			sl_points Int32,
			expires_ms Int64
		) ENGINE=MergeTree ORDER BY (symbol, ts)`, table),
	}
}

func (s *ClickHouseSink) Append(ctx context.Context, ev *models.DecisionEvent) error {
	q := fmt.Sprintf("INSERT INTO %s (ts, type, symbol, edge, side, score, reason, action, lots, tp_points, sl_points, expires_ms) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", s.table)
	_, err := s.db.ExecContext(ctx, q,
		time.UnixMilli(ev.TS),
		ev.Type,
		ev.Symbol,
		ev.Edge,
		ev.Side,
		ev.Score,
		ev.Reason,
		ev.Action,
		ev.Lots,
		ev.TPPoints,
		ev.SLPoints,
		ev.ExpiresMS,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (s *ClickHouseSink) Close() error { return nil } // pool owned by pkg client

var _ repository.EventSink = (*ClickHouseSink)(nil)
