package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	decisionsTotal *prometheus.CounterVec
	blockedTotal   *prometheus.CounterVec
	sinkTotal      *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	latency        *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		decisionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edgepull_decisions_total",
				Help: "Total decide outcomes by terminal state",
			},
			[]string{"outcome", "symbol"},
		),
		blockedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edgepull_blocked_total",
				Help: "Guard denials by reason code",
			},
			[]string{"reason"},
		),
		sinkTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edgepull_sink_events_total",
				Help: "Event sink append results by backend",
			},
			[]string{"backend", "result"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edgepull_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "edgepull_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordDecision counts a decide outcome.
func (r *Recorder) RecordDecision(outcome, symbol string) {
	r.decisionsTotal.WithLabelValues(outcome, symbol).Inc()
}

// RecordBlocked counts a guard denial by reason.
func (r *Recorder) RecordBlocked(reason string) {
	r.blockedTotal.WithLabelValues(reason).Inc()
}

// RecordSink counts a sink append result per backend.
func (r *Recorder) RecordSink(backend, result string) {
	r.sinkTotal.WithLabelValues(backend, result).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
