// Package metrics exposes prometheus instruments for upstream calls and chat
// commands.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by the instruments below.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
	OutcomeNetwork = "network"
	OutcomeDenied  = "denied"
)

var (
	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scenefinder_upstream_requests_total",
		Help: "Requests sent to the recognition service by operation and outcome.",
	}, []string{"operation", "outcome"})
	upstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scenefinder_upstream_request_duration_ms",
		Help:    "Latency of recognition service requests in ms.",
		Buckets: prometheus.ExponentialBuckets(50, 2, 10),
	}, []string{"operation"})
	upstreamStatus = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scenefinder_upstream_status_total",
		Help: "HTTP status codes returned by the recognition service.",
	}, []string{"operation", "code"})
	commands = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scenefinder_commands_total",
		Help: "Chat commands handled by command and outcome.",
	}, []string{"command", "outcome"})
)

// ObserveUpstream records one finished upstream request.
func ObserveUpstream(operation, outcome string, duration time.Duration) {
	upstreamRequests.WithLabelValues(operation, outcome).Inc()
	upstreamDuration.WithLabelValues(operation).Observe(float64(duration.Milliseconds()))
}

// RecordStatus counts an HTTP status code seen for operation.
func RecordStatus(operation, code string) {
	upstreamStatus.WithLabelValues(operation, code).Inc()
}

// IncCommand counts a dispatched chat command.
func IncCommand(command, outcome string) {
	commands.WithLabelValues(command, outcome).Inc()
}

// Handler serves the default registry in the prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
