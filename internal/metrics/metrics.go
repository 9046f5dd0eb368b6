package metrics

import (
	"github.com/prometheus/client_golang/prometheus"          // Prometheus client
	"github.com/prometheus/client_golang/prometheus/promauto" // Auto-registered collectors
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pizza_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pizza_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	AuthEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pizza_auth_events_total",
			Help: "Authentication events by kind and outcome",
		},
		[]string{"event", "outcome"},
	)

	OrdersSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pizza_orders_submitted_total",
			Help: "Orders persisted, labelled by factory fulfillment outcome",
		},
		[]string{"outcome"},
	)

	FactoryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pizza_factory_request_duration_seconds",
			Help:    "Duration of calls to the pizza factory in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Outcome labels
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Auth records one authentication event
func Auth(event string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	AuthEvents.WithLabelValues(event, outcome).Inc()
}
