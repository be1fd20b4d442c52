package shopify

import "github.com/prometheus/client_golang/prometheus"

var (
	// apiRequests counts Admin API calls by operation and outcome. The
	// outcome label is bounded: "ok", the error classes from client.go,
	// and "http_<code>".
	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopify_api_requests_total",
			Help: "Total number of Shopify Admin GraphQL calls.",
		},
		[]string{"operation", "outcome"},
	)

	// apiLatency records call duration in seconds by operation.
	apiLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shopify_api_request_duration_seconds",
			Help:    "Duration of Shopify Admin GraphQL calls in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(apiRequests, apiLatency)
}
