package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	// HTTP traffic
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RateLimited     *prometheus.CounterVec

	// Review activity
	ReviewEventsTotal *prometheus.CounterVec
	PublishFailures   *prometheus.CounterVec
}

// NewMetrics registers the collectors on the default registry once and
// returns the shared instance. All names are prefixed with "mockreview_".
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			RequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "mockreview_http_requests_total",
					Help: "Total number of HTTP requests by route and status",
				},
				[]string{"method", "route", "status"},
			),

			RequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "mockreview_http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
				},
				[]string{"method", "route"},
			),

			RateLimited: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "mockreview_rate_limited_total",
					Help: "Requests rejected by the rate limiter",
				},
				[]string{"backend"}, // "redis" or "local"
			),

			ReviewEventsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "mockreview_review_events_total",
					Help: "Review activity by event type",
				},
				[]string{"type"},
			),

			PublishFailures: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "mockreview_event_publish_failures_total",
					Help: "Events that could not be delivered to a sink",
				},
				[]string{"sink"},
			),
		}
	})
	return globalMetrics
}
