// Package metrics provides Prometheus instrumentation for the catalog service.
//
// Exposed at GET /metrics. Besides the Go runtime and process collectors:
//
//	anime_http_requests_total            counter: requests by method/route/status
//	anime_http_request_duration_seconds  histogram: latency by method/route
//	anime_imports_total                  counter: title imports by source/result
//	anime_watch_events_total             counter: recorded playback starts
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPRequests counts HTTP requests by method, route template, and status code.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "anime_http_requests_total",
	Help: "Total HTTP requests handled.",
}, []string{"method", "route", "status"})

// HTTPDuration tracks HTTP request latency.
var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "anime_http_request_duration_seconds",
	Help:    "HTTP request latency in seconds.",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "route"})

// Imports counts external catalog imports.
// source is "admin" or "seed"; result is "created", "unavailable", "duplicate" or "error".
var Imports = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "anime_imports_total",
	Help: "External catalog imports by source and result.",
}, []string{"source", "result"})

// WatchEvents counts recorded playback starts.
var WatchEvents = promauto.NewCounter(prometheus.CounterOpts{
	Name: "anime_watch_events_total",
	Help: "Watch history upserts.",
})

// Handler returns the Prometheus HTTP handler for /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
