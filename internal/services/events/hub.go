package events

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"EdgePull/internal/domain/models"
	"EdgePull/internal/domain/repository"
	"EdgePull/internal/services/cache"
	"EdgePull/pkg/logger"
)

const (
	subscriberBuffer = 256
	writeTimeout     = 10 * time.Second
	pingInterval     = 30 * time.Second
	lastDecisionTTL  = 10 * time.Minute
)

// Hub fans decision events out to WebSocket subscribers and keeps the last
// event per symbol for the query endpoint. It plugs into the sink chain as
// another EventSink so every decision flows through it.
type Hub struct {
	log  *logger.Logger
	last *cache.TTLCache

	mu   sync.RWMutex
	subs map[chan []byte]struct{}

	upgrader websocket.Upgrader
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		log:  log,
		last: cache.NewTTLCache(),
		subs: make(map[chan []byte]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Append stores the event as the symbol's latest and broadcasts it. Slow
// subscribers are skipped rather than blocking the pipeline.
func (h *Hub) Append(_ context.Context, ev *models.DecisionEvent) error {
	h.last.Set(ev.Symbol, ev, lastDecisionTTL)

	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- b:
		default:
			// drop on backpressure
		}
	}
	return nil
}

func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		close(ch)
		delete(h.subs, ch)
	}
	return nil
}

// Last returns the most recent event seen for a symbol.
func (h *Hub) Last(symbol string) (*models.DecisionEvent, bool) {
	v, ok := h.last.Get(symbol)
	if !ok {
		return nil, false
	}
	ev, ok := v.(*models.DecisionEvent)
	return ev, ok
}

// Symbols lists the symbols with a live last event.
func (h *Hub) Symbols() []string {
	return h.last.Keys()
}

func (h *Hub) subscribe() chan []byte {
	ch := make(chan []byte, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) unsubscribe(ch chan []byte) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// ServeWS upgrades the request and streams events until the client goes away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("upgrade: %w", err)
	}

	ch := h.subscribe()
	defer h.unsubscribe(ch)
	defer conn.Close()

	done := make(chan struct{})

	// read loop: discard frames, detect close
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return nil
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		case b, ok := <-ch:
			if !ok {
				return nil
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				h.log.Debug("websocket write failed", logger.Error(err))
				return nil
			}
		}
	}
}

var _ repository.EventSink = (*Hub)(nil)
