package repository

import (
	"context"
	"sync"
	"time"

	"EdgePull/internal/domain/models"
	"EdgePull/internal/domain/repository"
	"EdgePull/pkg/logger"
)

const (
	defaultBufferSize    = 1024
	defaultAppendTimeout = 5 * time.Second
)

// AsyncSinkOption configures AsyncSink.
type AsyncSinkOption func(*AsyncSink)

// WithBufferSize sets the event channel capacity.
func WithBufferSize(n int) AsyncSinkOption {
	return func(s *AsyncSink) {
		if n > 0 {
			s.buf = n
		}
	}
}

// WithAppendTimeout bounds how long a single backend append may take.
func WithAppendTimeout(d time.Duration) AsyncSinkOption {
	return func(s *AsyncSink) {
		if d > 0 {
			s.appendTimeout = d
		}
	}
}

// AsyncSink decouples the decision path from sink latency. Append enqueues
// and returns immediately; a single drain goroutine writes to the wrapped
// backend. When the buffer is full the event is dropped and counted, never
// blocking the caller.
type AsyncSink struct {
	backend repository.EventSink
	name    string
	metrics repository.Metrics
	log     *logger.Logger

	buf           int
	appendTimeout time.Duration

	events chan *models.DecisionEvent
	done   chan struct{}

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

func NewAsyncSink(backend repository.EventSink, name string, metrics repository.Metrics, log *logger.Logger, opts ...AsyncSinkOption) *AsyncSink {
	s := &AsyncSink{
		backend:       backend,
		name:          name,
		metrics:       metrics,
		log:           log,
		buf:           defaultBufferSize,
		appendTimeout: defaultAppendTimeout,
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.events = make(chan *models.DecisionEvent, s.buf)
	return s
}

// Start launches the drain goroutine.
func (s *AsyncSink) Start() {
	go s.drain()
}

func (s *AsyncSink) drain() {
	defer close(s.done)
	for ev := range s.events {
		ctx, cancel := context.WithTimeout(context.Background(), s.appendTimeout)
		err := s.backend.Append(ctx, ev)
		cancel()
		if err != nil {
			s.metrics.RecordSink(s.name, "error")
			s.log.Warn("sink append failed",
				logger.String("backend", s.name),
				logger.String("symbol", ev.Symbol),
				logger.Error(err))
			continue
		}
		s.metrics.RecordSink(s.name, "ok")
	}
}

func (s *AsyncSink) Append(_ context.Context, ev *models.DecisionEvent) error {
	// The read lock spans the send so Close cannot close the channel while
	// a send is in flight. Late appends after shutdown count as dropped.
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		s.metrics.RecordSink(s.name, "dropped")
		return nil
	}
	select {
	case s.events <- ev:
	default:
		s.metrics.RecordSink(s.name, "dropped")
	}
	return nil
}

// Close stops accepting events, flushes the buffer and closes the backend.
func (s *AsyncSink) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		close(s.events)
		<-s.done
		err = s.backend.Close()
	})
	return err
}

var _ repository.EventSink = (*AsyncSink)(nil)
