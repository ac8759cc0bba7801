// Package metrics provides Prometheus metrics for the welcome server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Render results.
const (
	RenderOK    = "ok"
	RenderError = "error"
)

var (
	// HTTPRequestsTotal counts served requests by method and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "welcome_http_requests_total",
		Help: "Total number of HTTP requests, by method and status code.",
	}, []string{"method", "code"})

	// HTTPRequestDuration observes request latency by method.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "welcome_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds, by method.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	// PageRendersTotal counts welcome page renders by result.
	PageRendersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "welcome_page_renders_total",
		Help: "Total number of welcome page renders, by result.",
	}, []string{"result"})
)
