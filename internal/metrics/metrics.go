package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// IntentsTotal counts committed catalog intents by event type
	IntentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_intents_total",
		Help: "Total catalog intents committed by event type",
	}, []string{"event_type"})

	// CommandErrors counts commands that failed before commit
	CommandErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_command_errors_total",
		Help: "Total failed catalog commands by reason",
	}, []string{"reason"})

	// LoadFailures counts product loads that ended in an error
	LoadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_load_failures_total",
		Help: "Total product loads that failed",
	})

	// LoadDuration tracks product source latency
	LoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_load_duration_seconds",
		Help:    "Product load duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
	})

	// PublishFailures counts stored events the broker did not accept
	PublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_publish_failures_total",
		Help: "Total stored events that failed to publish",
	})

	// ActiveSessions is the number of live catalog sessions
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_active_sessions",
		Help: "Number of live catalog sessions",
	})

	// StreamClients is the number of connected state stream clients
	StreamClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_stream_clients",
		Help: "Number of connected state stream clients",
	})

	// HTTPRequests counts API requests by route and status
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_http_requests_total",
		Help: "Total HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})
)
