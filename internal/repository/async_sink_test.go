package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"EdgePull/internal/domain/models"
	"EdgePull/pkg/logger"
)

type captureSink struct {
	mu     sync.Mutex
	events []*models.DecisionEvent
	block  chan struct{}
	closed bool
}

func (s *captureSink) Append(_ context.Context, ev *models.DecisionEvent) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func (s *captureSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *captureSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

type recordingMetrics struct {
	mu   sync.Mutex
	sink map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{sink: make(map[string]int)}
}

func (m *recordingMetrics) RecordDecision(string, string) {}
func (m *recordingMetrics) RecordBlocked(string)          {}
func (m *recordingMetrics) RecordError(string)            {}
func (m *recordingMetrics) RecordLatency(string, float64) {}

func (m *recordingMetrics) RecordSink(backend, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sink[backend+"/"+result]++
}

func (m *recordingMetrics) sinkCount(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sink[key]
}

func TestAsyncSinkDeliversAndCloses(t *testing.T) {
	backend := &captureSink{}
	metrics := newRecordingMetrics()
	sink := NewAsyncSink(backend, "file", metrics, logger.Nop(), WithBufferSize(8))
	sink.Start()

	for i := 0; i < 5; i++ {
		if err := sink.Append(context.Background(), &models.DecisionEvent{Symbol: "EURUSD"}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if got := backend.count(); got != 5 {
		t.Fatalf("delivered = %d, want 5", got)
	}
	if !backend.closed {
		t.Error("backend not closed")
	}
	if got := metrics.sinkCount("file/ok"); got != 5 {
		t.Errorf("ok count = %d, want 5", got)
	}
}

func TestAsyncSinkDropsWhenFull(t *testing.T) {
	backend := &captureSink{block: make(chan struct{})}
	metrics := newRecordingMetrics()
	sink := NewAsyncSink(backend, "file", metrics, logger.Nop(), WithBufferSize(2))
	sink.Start()

	// One event parks in the backend, two fill the buffer, the rest drop.
	for i := 0; i < 6; i++ {
		if err := sink.Append(context.Background(), &models.DecisionEvent{Symbol: "EURUSD"}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	deadline := time.After(2 * time.Second)
	for metrics.sinkCount("file/dropped") < 3 {
		select {
		case <-deadline:
			t.Fatalf("dropped = %d, want at least 3", metrics.sinkCount("file/dropped"))
		case <-time.After(10 * time.Millisecond):
		}
	}

	close(backend.block)
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestAsyncSinkAppendAfterCloseIsDropped(t *testing.T) {
	backend := &captureSink{}
	metrics := newRecordingMetrics()
	sink := NewAsyncSink(backend, "file", metrics, logger.Nop())
	sink.Start()

	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// A request still in flight during shutdown may append after Close;
	// the event is lost but the call must not panic or fail.
	if err := sink.Append(context.Background(), &models.DecisionEvent{Symbol: "EURUSD"}); err != nil {
		t.Fatalf("Append after close: %v", err)
	}
	if got := metrics.sinkCount("file/dropped"); got != 1 {
		t.Errorf("dropped = %d, want 1", got)
	}
	if got := backend.count(); got != 0 {
		t.Errorf("delivered = %d, want 0", got)
	}
}
