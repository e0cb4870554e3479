package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	GraphQLOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "contentlib", Name: "graphql_operations_total", Help: "Number of resolved GraphQL root fields by field and outcome."},
		[]string{"field", "outcome"},
	)
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "contentlib", Name: "http_requests_total", Help: "Number of HTTP requests by method, route and status code."},
		[]string{"method", "route", "code"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "contentlib", Name: "http_request_duration_seconds", Help: "HTTP request latency by method and route.", Buckets: prometheus.DefBuckets},
		[]string{"method", "route"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "contentlib", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "contentlib", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	FeedClients = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: "contentlib", Name: "feed_clients", Help: "Number of connected change feed websocket clients."},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(GraphQLOperations)
	reg.MustRegister(HTTPRequests)
	reg.MustRegister(HTTPRequestDuration)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(FeedClients)
}
