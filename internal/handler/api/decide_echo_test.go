package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"EdgePull/internal/domain/models"
	"EdgePull/internal/services/events"
	"EdgePull/internal/services/risk"
	"EdgePull/internal/services/sizing"
	"EdgePull/internal/services/strategy"
	"EdgePull/internal/usecase"
	"EdgePull/pkg/logger"
)

type nopMetrics struct{}

func (nopMetrics) RecordDecision(string, string) {}
func (nopMetrics) RecordBlocked(string)          {}
func (nopMetrics) RecordSink(string, string)     {}
func (nopMetrics) RecordError(string)            {}
func (nopMetrics) RecordLatency(string, float64) {}

func newTestServer(t *testing.T) (*echo.Echo, *events.Hub) {
	t.Helper()
	hub := events.NewHub(logger.Nop())
	t.Cleanup(func() { hub.Close() })

	engine := usecase.NewDecisionEngine(
		strategy.NewMeanReversionScorer(),
		risk.NewGuard(risk.Limits{MaxDailyLossPct: 2, MaxSpreadPoints: 25, MaxSlippagePoints: 20, MaxExposurePct: 4, MaxOpenPositions: 4, MaxTradesPerHour: 6}),
		sizing.NewATRSizer(1.0, 0.01, 0.01),
		hub,
		nopMetrics{},
		logger.Nop(),
		map[string]models.EdgeConfig{
			"mean_reversion_spike": {HorizonSeconds: 2, ATRLen: 14, TPMult: 1.2, SLMult: 1.0, TimeoutSeconds: 300, EntryThreshold: 1.0},
		},
		4.0,
	)

	e := echo.New()
	NewDecideEchoHandler(logger.Nop(), engine, hub).RegisterRoutes(e)
	return e, hub
}

func flatRequestBody(t *testing.T) []byte {
	t.Helper()
	req := models.DecideRequest{
		Symbol: "EURUSD",
		TickInfo: models.TickEconomics{
			Bid: 1.1000, Ask: 1.1002, SpreadPoints: 2, SlippagePoints: 1,
			PointSize: 0.0001, TickValuePerLot: 10, EquityUSD: 10000, TS: 1700000000000,
		},
	}
	for i := 0; i < 12; i++ {
		req.Ticks = append(req.Ticks, models.TickSample{TS: int64(i) * 250, Bid: 1.1000, Ask: 1.1002, Volume: 1})
	}
	for i := 0; i < 20; i++ {
		req.Bars1m = append(req.Bars1m, models.Bar{TS: int64(i) * 60000, Open: 1.10, High: 1.102, Low: 1.099, Close: 1.101, Volume: 100})
	}
	b, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	return b
}

func spikeRequestBody(t *testing.T) []byte {
	t.Helper()
	req := models.DecideRequest{
		Symbol: "XAUUSD",
		TickInfo: models.TickEconomics{
			Bid: 100.0, Ask: 100.02, SpreadPoints: 2, SlippagePoints: 1,
			PointSize: 0.01, TickValuePerLot: 10, EquityUSD: 10000, TS: 1700000000000,
		},
	}
	mid, step := 100.0, 0.01
	for i := 0; i < 10; i++ {
		req.Ticks = append(req.Ticks, models.TickSample{TS: int64(i) * 250, Bid: mid - 0.01, Ask: mid + 0.01, Volume: 1})
		mid += step
		step *= 1.5
	}
	for i := 0; i < 15; i++ {
		req.Bars1m = append(req.Bars1m, models.Bar{TS: int64(i) * 60000, Open: 100, High: 101, Low: 99, Close: 100.5, Volume: 50})
	}
	b, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	return b
}

func postDecide(e *echo.Echo, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/decide", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestDecideFlatOnQuietMarket(t *testing.T) {
	e, _ := newTestServer(t)

	rec := postDecide(e, flatRequestBody(t))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp models.DecideResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Action != models.ActionFlat || resp.Reason != "no_signal" {
		t.Errorf("resp = %+v, want flat/no_signal", resp)
	}
	if resp.Lots != 0 || resp.TPPoints != 0 || resp.SLPoints != 0 || resp.ExpiresMS != 0 {
		t.Errorf("flat response carries trade fields: %+v", resp)
	}
}

func TestDecideSellOnSpike(t *testing.T) {
	e, hub := newTestServer(t)

	rec := postDecide(e, spikeRequestBody(t))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp models.DecideResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Action != models.ActionSell {
		t.Fatalf("action = %q, want sell (body %s)", resp.Action, rec.Body.String())
	}
	if resp.Lots <= 0 || resp.SLPoints <= 0 || resp.TPPoints <= 0 {
		t.Errorf("sizing fields not positive: %+v", resp)
	}
	if want := int64(1700000000000 + 300*1000); resp.ExpiresMS != want {
		t.Errorf("expires_ms = %d, want %d", resp.ExpiresMS, want)
	}
	if resp.Reason != "mean_reversion_spike" {
		t.Errorf("reason = %q", resp.Reason)
	}

	if ev, ok := hub.Last("XAUUSD"); !ok || ev.Type != models.EventTypeAction {
		t.Errorf("hub last = %+v, %v; want the action event", ev, ok)
	}
}

func TestDecideRejectsMalformedTuple(t *testing.T) {
	e, _ := newTestServer(t)

	body := []byte(`{"symbol":"EURUSD","tick_info":{"bid":1.1,"ask":1.1002,"spread_points":2,"slippage_points":1,"point_size":0.0001,"tick_value_per_lot":10,"equity_usd":10000,"ts_ms":1},"ticks":[[1,1.1,1.1002]],"bars_1m":[[1,1.1,1.2,1.0,1.1,5]]}`)
	rec := postDecide(e, body)
	if rec.Code == http.StatusOK {
		var got models.DecideResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err == nil && got.Action != "" {
			t.Fatalf("malformed tuple accepted: %s", rec.Body.String())
		}
	}
}

func TestDecideRejectsMissingSymbol(t *testing.T) {
	e, _ := newTestServer(t)

	body := []byte(`{"tick_info":{"bid":1.1,"ask":1.1002,"spread_points":2,"slippage_points":1,"point_size":0.0001,"tick_value_per_lot":10,"equity_usd":10000,"ts_ms":1},"ticks":[[1,1.1,1.1002,1]],"bars_1m":[[1,1.1,1.2,1.0,1.1,5]]}`)
	rec := postDecide(e, body)

	var resp models.DecideResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Action == models.ActionFlat && resp.Reason == "no_signal" {
		t.Fatal("request without symbol was evaluated")
	}
}

func TestDecideUnknownEdgeReturnsAppError(t *testing.T) {
	e, _ := newTestServer(t)

	var req models.DecideRequest
	if err := json.Unmarshal(flatRequestBody(t), &req); err != nil {
		t.Fatalf("unmarshal request: %v", err)
	}
	req.Edge = "momentum_burst"
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	rec := postDecide(e, body)
	if !bytes.Contains(rec.Body.Bytes(), []byte("ERR_UNKNOWN_EDGE")) {
		t.Fatalf("body = %s, want ERR_UNKNOWN_EDGE", rec.Body.String())
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(`"status":400`)) {
		t.Errorf("body = %s, want embedded status 400", rec.Body.String())
	}
}

func TestLastDecisionEndpoint(t *testing.T) {
	e, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/decisions/last?symbol=GBPUSD", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if !bytes.Contains(rec.Body.Bytes(), []byte("ERR_NOT_FOUND")) {
		t.Fatalf("body = %s, want ERR_NOT_FOUND for unseen symbol", rec.Body.String())
	}

	postDecide(e, flatRequestBody(t))

	req = httptest.NewRequest(http.MethodGet, "/api/decisions/last?symbol=EURUSD", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(models.EventTypeDecision)) {
		t.Errorf("body = %s, want a decision event", rec.Body.String())
	}
}

func TestSymbolsEndpoint(t *testing.T) {
	e, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/decisions/symbols", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("EURUSD")) {
		t.Fatalf("body = %s, want no symbols before any decision", rec.Body.String())
	}

	postDecide(e, flatRequestBody(t))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/decisions/symbols", nil))
	if !bytes.Contains(rec.Body.Bytes(), []byte("EURUSD")) {
		t.Errorf("body = %s, want EURUSD listed", rec.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	e, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
