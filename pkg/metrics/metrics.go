// Package metrics records client-side operation counts and latencies.
package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the operation collectors. A nil *Metrics records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	inFlight   prometheus.Gauge
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bank_client",
				Name:      "operations_total",
				Help:      "Total number of bank operations by outcome.",
			},
			[]string{"operation", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "bank_client",
				Name:      "operation_duration_seconds",
				Help:      "Duration of bank operations including the round trip.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
			},
			[]string{"operation"},
		),
		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "bank_client",
				Name:      "operations_in_flight",
				Help:      "Current number of bank operations waiting on the API.",
			},
		),
	}
	m.Registry.MustRegister(m.operations, m.duration, m.inFlight)
	return m
}

// Start marks an operation as in flight and returns the function that records
// its outcome.
func (m *Metrics) Start(operation string) func(success bool) {
	if m == nil {
		return func(bool) {}
	}
	m.inFlight.Inc()
	start := time.Now()
	return func(success bool) {
		m.inFlight.Dec()
		outcome := OutcomeSuccess
		if !success {
			outcome = OutcomeFailure
		}
		m.operations.WithLabelValues(operation, outcome).Inc()
		m.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

// WriteText writes every collector in the Prometheus text format.
func (m *Metrics) WriteText(w io.Writer) error {
	if m == nil {
		return nil
	}
	families, err := m.Registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
