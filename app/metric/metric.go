// Package metric defines the Prometheus collectors of the HTTP service.
package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	InflightRequests prometheus.Gauge
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
}

// New creates the HTTP collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		InflightRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ecommerce",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Number of HTTP requests currently being served.",
		}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecommerce",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Number of HTTP requests served.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ecommerce",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(m.InflightRequests, m.RequestsTotal, m.RequestDuration)

	return m
}
