// Package monitoring provides Prometheus metrics for the client core.
//
// Counters cover the three backend interactions (chat, upload, context
// clear) and local persistence activity. A UI shell can expose the
// default registry or inject its own.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Backend interaction metrics
	ChatRequests  *prometheus.CounterVec
	ChatDuration  prometheus.Histogram
	Uploads       *prometheus.CounterVec
	ContextClears prometheus.Counter
	ClearFailures prometheus.Counter

	// Persistence metrics
	SessionsSaved   prometheus.Counter
	SessionsDeleted prometheus.Counter
	SessionsListed  prometheus.Gauge
	StorageErrors   prometheus.Counter
}

// NewMetrics creates a metrics collector on the default registry
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates a metrics collector on the given registerer.
// Tests pass a fresh registry to avoid duplicate registration panics.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ChatRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "client_chat_requests_total",
				Help: "Total chat requests by outcome",
			},
			[]string{"outcome"},
		),
		ChatDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "client_chat_request_duration_seconds",
				Help:    "Chat request round-trip duration in seconds",
				Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
		),
		Uploads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "client_uploads_total",
				Help: "Total context file uploads by outcome",
			},
			[]string{"outcome"},
		),
		ContextClears: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "client_context_clears_total",
				Help: "Total backend context-clear signals issued",
			},
		),
		ClearFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "client_context_clear_failures_total",
				Help: "Context-clear signals that failed (best-effort, never retried)",
			},
		),
		SessionsSaved: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "client_sessions_saved_total",
				Help: "Total session persistence writes",
			},
		),
		SessionsDeleted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "client_sessions_deleted_total",
				Help: "Total sessions deleted",
			},
		),
		SessionsListed: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "client_sessions_indexed",
				Help: "Number of sessions currently in the index",
			},
		),
		StorageErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "client_storage_errors_total",
				Help: "Local persistence failures surfaced to the caller",
			},
		),
	}
}

// RecordSessionSaved records one persistence write and the index size
func (m *Metrics) RecordSessionSaved(indexed int) {
	if m == nil {
		return
	}
	m.SessionsSaved.Inc()
	m.SessionsListed.Set(float64(indexed))
}

// RecordSessionDeleted records one session removal and the index size
func (m *Metrics) RecordSessionDeleted(indexed int) {
	if m == nil {
		return
	}
	m.SessionsDeleted.Inc()
	m.SessionsListed.Set(float64(indexed))
}

// RecordStorageError records one local persistence failure
func (m *Metrics) RecordStorageError() {
	if m == nil {
		return
	}
	m.StorageErrors.Inc()
}

// RecordChat records one chat round-trip
func (m *Metrics) RecordChat(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.ChatRequests.WithLabelValues(outcome).Inc()
	m.ChatDuration.Observe(duration.Seconds())
}

// RecordUpload records one upload attempt
func (m *Metrics) RecordUpload(outcome string) {
	if m == nil {
		return
	}
	m.Uploads.WithLabelValues(outcome).Inc()
}

// RecordClear records one backend-clear signal
func (m *Metrics) RecordClear(failed bool) {
	if m == nil {
		return
	}
	m.ContextClears.Inc()
	if failed {
		m.ClearFailures.Inc()
	}
}
