package api

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the API
type Metrics struct {
	RequestCounter    *prometheus.CounterVec
	LatencyHistogram  *prometheus.HistogramVec
	RateLimitHits     *prometheus.CounterVec
	GateRejections    *prometheus.CounterVec
	AnomaliesDetected *prometheus.CounterVec
	ScanDuration      prometheus.Histogram
	registry          *prometheus.Registry
}

var (
	metricsInstance *Metrics
	metricsOnce     sync.Once
)

// NewMetrics creates and registers all metrics (singleton pattern for tests)
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		registry := prometheus.NewRegistry()

		m := &Metrics{
			RequestCounter: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "lakeguard_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			LatencyHistogram: prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "lakeguard_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"method", "path"},
			),
			RateLimitHits: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "lakeguard_rate_limit_hits_total",
					Help: "Total number of rate limit hits",
				},
				[]string{"caller"},
			),
			GateRejections: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "lakeguard_gate_rejections_total",
					Help: "Queries refused by the safety gate, by rejection kind",
				},
				[]string{"kind"},
			),
			AnomaliesDetected: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "lakeguard_anomalies_detected_total",
					Help: "Anomaly records produced, by kind",
				},
				[]string{"kind"},
			),
			ScanDuration: prometheus.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "lakeguard_scan_duration_seconds",
					Help:    "Access-pattern scan duration in seconds",
					Buckets: prometheus.DefBuckets,
				},
			),
			registry: registry,
		}

		registry.MustRegister(m.RequestCounter)
		registry.MustRegister(m.LatencyHistogram)
		registry.MustRegister(m.RateLimitHits)
		registry.MustRegister(m.GateRejections)
		registry.MustRegister(m.AnomaliesDetected)
		registry.MustRegister(m.ScanDuration)

		metricsInstance = m
	})
	return metricsInstance
}
