// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "staffbook_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "staffbook_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	AuthAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "staffbook_auth_attempts_total",
			Help: "Sign-up and login attempts by outcome.",
		},
		[]string{"action", "result"},
	)

	PictureOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "staffbook_picture_operations_total",
			Help: "Profile picture store operations by outcome.",
		},
		[]string{"operation", "result"},
	)
)

// RecordHTTPRequest counts one served request. route is the matched route
// pattern, not the raw path.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordAuthAttempt(action string, err error) {
	AuthAttemptsTotal.WithLabelValues(action, result(err)).Inc()
}

func RecordPictureOperation(operation string, err error) {
	PictureOperationsTotal.WithLabelValues(operation, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return resultFailure
	}
	return resultSuccess
}
