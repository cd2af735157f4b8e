// Package metrics defines the prometheus collectors for remote notes operations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the collectors of one client instance.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// RequestsTotal tracks operations by name and outcome (ok, rejected, transport_failure, auth_missing)
	RequestsTotal *prometheus.CounterVec

	// RequestDuration tracks round-trip latency of requests that reached the network
	RequestDuration *prometheus.HistogramVec

	// CollectionSize tracks the number of notes held locally
	CollectionSize prometheus.Gauge
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer for the global registry.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notesync_requests_total",
				Help: "Total notes service operations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "notesync_request_duration_seconds",
				Help:    "Notes service request duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"operation"},
		),
		CollectionSize: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "notesync_collection_size",
				Help: "Number of notes in the local collection",
			},
		),
	}
}

// ObserveOutcome counts one finished operation.
func (m *Metrics) ObserveOutcome(op, outcome string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(op, outcome).Inc()
}

// ObserveDuration records the latency of one request.
func (m *Metrics) ObserveDuration(op string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(op).Observe(d.Seconds())
}

// SetCollectionSize updates the local collection gauge.
func (m *Metrics) SetCollectionSize(n int) {
	if m == nil {
		return
	}
	m.CollectionSize.Set(float64(n))
}
