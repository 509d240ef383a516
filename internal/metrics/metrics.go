// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "transcript_hub"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Export metrics
	ExportsTotal      *prometheus.CounterVec
	ExportDuration    *prometheus.HistogramVec
	ExportBytes       *prometheus.HistogramVec
	MalformedSegments prometheus.Counter

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ExportsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Total number of transcript exports by format and outcome",
		}, []string{"format", "outcome"}),
		ExportDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "export_duration_seconds",
			Help:      "Time spent rendering an export",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"format"}),
		ExportBytes: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "export_bytes",
			Help:      "Size of rendered export payloads",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		}, []string{"format"}),
		MalformedSegments: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "export_malformed_segments_total",
			Help:      "Segments rendered with clamped timing because end preceded start",
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code",
		}, []string{"method", "status"}),
	}
}

// RecordExport records a finished export attempt.
func (m *Metrics) RecordExport(format, outcome string, seconds float64, size, malformed int) {
	m.ExportsTotal.WithLabelValues(format, outcome).Inc()
	m.ExportDuration.WithLabelValues(format).Observe(seconds)
	if outcome == "ok" {
		m.ExportBytes.WithLabelValues(format).Observe(float64(size))
	}
	if malformed > 0 {
		m.MalformedSegments.Add(float64(malformed))
	}
}

// RecordRequest records a served HTTP request.
func (m *Metrics) RecordRequest(method, status string) {
	m.HTTPRequests.WithLabelValues(method, status).Inc()
}
