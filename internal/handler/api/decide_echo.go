package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"EdgePull/internal/domain/models"
	"EdgePull/internal/services/events"
	"EdgePull/internal/usecase"
	xhttp "EdgePull/pkg/http"
	xlogger "EdgePull/pkg/logger"
)

// DecideEchoHandler exposes the decision engine over HTTP.
type DecideEchoHandler struct {
	logger *xlogger.Logger
	engine *usecase.DecisionEngine
	hub    *events.Hub
}

func NewDecideEchoHandler(logger *xlogger.Logger, engine *usecase.DecisionEngine, hub *events.Hub) *DecideEchoHandler {
	return &DecideEchoHandler{logger: logger, engine: engine, hub: hub}
}

func (h *DecideEchoHandler) RegisterRoutes(e *echo.Echo) {
	// The trading platform posts to the bare path; /api/decide is the same
	// handler for consistency with the rest of the API surface.
	e.POST("/decide", h.Decide)

	g := e.Group("/api")
	g.POST("/decide", h.Decide)
	g.GET("/decisions/last", h.LastDecision)
	g.GET("/decisions/symbols", h.Symbols)

	e.GET("/ws/events", h.Events)
	e.GET("/healthz", h.Health)
}

// Decide runs one decision cycle. The response is the bare decision object,
// no envelope: the platform parses it field-for-field on every tick.
func (h *DecideEchoHandler) Decide(c echo.Context) error {
	req := &models.DecideRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if err := req.Validate(); err != nil {
		return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{
			Code:    "ERR_MALFORMED",
			Message: err.Error(),
		}})
	}

	resp, err := h.engine.Decide(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("decide usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c,
			xhttp.NewAppError("ERR_UNKNOWN_EDGE", "edge", err.Error(), http.StatusBadRequest))
	}

	return c.JSON(http.StatusOK, resp)
}

// LastDecision returns the most recent decision event for a symbol.
func (h *DecideEchoHandler) LastDecision(c echo.Context) error {
	symbol := c.QueryParam("symbol")
	if symbol == "" {
		return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{
			Code:    "ERR_REQUIRED",
			Field:   "symbol",
			Message: "symbol is required",
		}})
	}

	ev, ok := h.hub.Last(symbol)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no decision recorded for "+symbol))
	}
	return xhttp.SuccessResponse(c, ev)
}

// Symbols lists the symbols with a recent decision event.
func (h *DecideEchoHandler) Symbols(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.hub.Symbols())
}

// Events streams decision events over a WebSocket.
func (h *DecideEchoHandler) Events(c echo.Context) error {
	if err := h.hub.ServeWS(c.Response(), c.Request()); err != nil {
		h.logger.Error("websocket upgrade failed", xlogger.Error(err))
		return err
	}
	return nil
}

// Health is a liveness probe.
func (h *DecideEchoHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
