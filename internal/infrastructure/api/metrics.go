package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records request counts and latencies for the converter client
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates client metrics and registers them with reg when it is not nil
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "converter",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Requests sent to the currency converter service.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "converter",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Time spent waiting for the currency converter service.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	if reg != nil {
		reg.MustRegister(m.requests, m.duration)
	}

	return m
}

// observe is safe to call on a nil receiver
func (m *Metrics) observe(op Operation, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(string(op), status).Inc()
	m.duration.WithLabelValues(string(op)).Observe(elapsed.Seconds())
}
