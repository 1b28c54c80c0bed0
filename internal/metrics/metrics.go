package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Business counters for the status workflows
	OrdersDelivered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_delivered_total",
			Help: "Orders moved to CONSEGNATO via quick delivery or status update",
		},
	)

	OrdersMarkedReady = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_marked_ready_total",
			Help: "Orders moved to PRONTO via the bulk lab update",
		},
	)
)
