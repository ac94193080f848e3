package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry

	// CWA Open Data API call rate per endpoint. Watch for: error vs success ratio.
	UpstreamCallsTotal *prometheus.CounterVec

	// Upstream latency per request. Watch for: p95 > 5s (upstream degradation), p99 near timeout.
	UpstreamDuration *prometheus.HistogramVec

	// Tool invocation rate per tool. outcome is "success" or "error".
	ToolCallsTotal *prometheus.CounterVec

	// Failures by stable category (timeout, upstream_status, envelope, no_records, no_match, ...).
	ErrorsTotal *prometheus.CounterVec

	// SSE-mode HTTP traffic. Watch for: 5xx ratio, /sse connection churn.
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	UpstreamCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cwaApiCallsTotal",
			Help: "Total number of CWA Open Data API calls",
		},
		[]string{"endpoint", "status"},
	)
	UpstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cwaApiDurationSeconds",
			Help:    "CWA Open Data API latency in seconds (per request)",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint", "status"},
	)
	ToolCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "toolCallsTotal",
			Help: "Total number of MCP tool invocations",
		},
		[]string{"tool", "outcome"},
	)
	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errorsTotal",
			Help: "Total number of failures by category",
		},
		[]string{"category"},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpRequestsTotal",
			Help: "Total number of HTTP requests in SSE mode",
		},
		[]string{"method", "route", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "httpRequestDurationSeconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "httpRequestsInFlight",
			Help: "Number of HTTP requests currently being served",
		},
	)

	registry.MustRegister(
		UpstreamCallsTotal, UpstreamDuration,
		ToolCallsTotal, ErrorsTotal,
		HTTPRequestsTotal, HTTPRequestDuration, HTTPRequestsInFlight,
	)
}

// RecordToolCall records one tool invocation outcome.
func RecordToolCall(tool string, err bool) {
	outcome := "success"
	if err {
		outcome = "error"
	}
	ToolCallsTotal.WithLabelValues(tool, outcome).Inc()
}

// MetricsHandler returns an http.Handler that serves application and runtime metrics.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
