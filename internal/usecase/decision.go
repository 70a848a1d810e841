package usecase

import (
	"context"
	"fmt"
	"time"

	"EdgePull/internal/domain/models"
	domrepo "EdgePull/internal/domain/repository"
	domsvc "EdgePull/internal/domain/service"
	"EdgePull/internal/services/features"
	"EdgePull/pkg/logger"
)

// minATRPoints floors the ATR fed into sizing so a flat market still yields
// usable exit distances.
const minATRPoints = 1e-4

// DecisionEngine runs one full decide cycle: features, signal, guards,
// sizing. It is stateless across requests; all risk state arrives with the
// request, so identical inputs always produce identical outputs.
type DecisionEngine struct {
	scorer  domsvc.SignalScorer
	guard   domsvc.RiskGuard
	sizer   domsvc.PositionSizer
	sink    domrepo.EventSink
	metrics domrepo.Metrics
	log     *logger.Logger

	edges           map[string]models.EdgeConfig
	halfExposurePct float64
}

func NewDecisionEngine(
	scorer domsvc.SignalScorer,
	guard domsvc.RiskGuard,
	sizer domsvc.PositionSizer,
	sink domrepo.EventSink,
	metrics domrepo.Metrics,
	log *logger.Logger,
	edges map[string]models.EdgeConfig,
	maxExposurePerSymbolPct float64,
) *DecisionEngine {
	return &DecisionEngine{
		scorer:          scorer,
		guard:           guard,
		sizer:           sizer,
		sink:            sink,
		metrics:         metrics,
		log:             log,
		edges:           edges,
		halfExposurePct: maxExposurePerSymbolPct / 2,
	}
}

// Decide evaluates one request and returns exactly one decision. The event
// sink is fire-and-forget: a sink failure is logged and counted but never
// changes the decision or the error path.
func (e *DecisionEngine) Decide(ctx context.Context, req *models.DecideRequest) (*models.DecideResponse, error) {
	started := time.Now()
	defer func() {
		e.metrics.RecordLatency("decide", time.Since(started).Seconds())
	}()

	edgeCfg, ok := e.edges[req.Edge]
	if !ok {
		e.metrics.RecordError("unknown_edge")
		return nil, fmt.Errorf("unknown edge %q", req.Edge)
	}

	feats := features.Build(req.Ticks, req.Bars1m, edgeCfg)
	sig := e.scorer.Score(feats, edgeCfg)

	if sig.Side == models.SideHold {
		e.emit(ctx, &models.DecisionEvent{
			Type:   models.EventTypeDecision,
			TS:     req.TickInfo.TS,
			Symbol: req.Symbol,
			Edge:   req.Edge,
			Side:   string(sig.Side),
			Score:  sig.Score,
		})
		e.metrics.RecordDecision("no_signal", req.Symbol)
		return &models.DecideResponse{Action: models.ActionFlat, Reason: "no_signal"}, nil
	}

	allowed, why := e.guard.Check(req.State, req.TickInfo.SpreadPoints, req.TickInfo.SlippagePoints,
		req.Symbol, e.halfExposurePct, req.TickInfo.TS)
	if !allowed {
		e.emit(ctx, &models.DecisionEvent{
			Type:   models.EventTypeBlocked,
			TS:     req.TickInfo.TS,
			Symbol: req.Symbol,
			Edge:   req.Edge,
			Side:   string(sig.Side),
			Score:  sig.Score,
			Reason: why,
		})
		e.metrics.RecordBlocked(why)
		e.metrics.RecordDecision("blocked", req.Symbol)
		return &models.DecideResponse{Action: models.ActionFlat, Reason: why}, nil
	}

	atrPoints := feats.ATR
	if atrPoints < minATRPoints {
		atrPoints = minATRPoints
	}
	lots, tp, sl := e.sizer.Size(req.TickInfo, atrPoints, edgeCfg)

	action := models.ActionBuy
	if sig.Side == models.SideSell {
		action = models.ActionSell
	}
	resp := &models.DecideResponse{
		Action:    action,
		Lots:      lots,
		TPPoints:  tp,
		SLPoints:  sl,
		ExpiresMS: req.TickInfo.TS + int64(edgeCfg.TimeoutSeconds)*1000,
		Reason:    req.Edge,
	}

	e.emit(ctx, &models.DecisionEvent{
		Type:      models.EventTypeAction,
		TS:        req.TickInfo.TS,
		Symbol:    req.Symbol,
		Edge:      req.Edge,
		Side:      string(sig.Side),
		Score:     sig.Score,
		Action:    string(resp.Action),
		Lots:      resp.Lots,
		TPPoints:  resp.TPPoints,
		SLPoints:  resp.SLPoints,
		ExpiresMS: resp.ExpiresMS,
		Reason:    resp.Reason,
	})
	e.metrics.RecordDecision("filled", req.Symbol)

	e.log.Debug("decision",
		logger.String("symbol", req.Symbol),
		logger.String("action", string(resp.Action)),
		logger.Float64("lots", resp.Lots),
		logger.Float64("z", feats.LastZ))

	return resp, nil
}

func (e *DecisionEngine) emit(ctx context.Context, ev *models.DecisionEvent) {
	if err := e.sink.Append(ctx, ev); err != nil {
		e.metrics.RecordError("sink_append")
		e.log.Warn("event sink append failed",
			logger.String("type", ev.Type),
			logger.String("symbol", ev.Symbol),
			logger.Error(err))
	}
}
