package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "towgo_http_requests_total",
		Help: "HTTP requests handled, by method, route and status.",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "towgo_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "towgo_upstream_requests_total",
		Help: "Calls to external APIs, by upstream and outcome.",
	}, []string{"upstream", "outcome"})

	degraded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "towgo_degraded_total",
		Help: "Responses that fell back to a default value.",
	}, []string{"component", "reason"})
)

// ObserveRequest records one handled HTTP request.
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordUpstream counts one external call. outcome is "ok" or "error".
func RecordUpstream(upstream string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	upstreamRequests.WithLabelValues(upstream, outcome).Inc()
}

// RecordDegraded counts one fallback.
func RecordDegraded(component, reason string) {
	degraded.WithLabelValues(component, reason).Inc()
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
