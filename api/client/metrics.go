package client

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hubsync/go-hub/metrics"
)

const subsystem = "sync_client"

var (
	callLatency = metrics.NewHistogramWithBuckets(
		"call_latency_seconds",
		subsystem,
		"latency of calls to peers",
		[]string{"mechanism", "method", "result"},
		prometheus.ExponentialBuckets(0.001, 2, 16),
	)
	fallbacks = metrics.NewCounter(
		"fallbacks",
		subsystem,
		"sessions that moved from stream to unary calls",
		[]string{},
	).WithLabelValues()
)

func observe(mechanism, method string, start time.Time, err error) {
	result := "success"
	switch {
	case err == nil:
	case isServerError(err):
		result = "server_error"
	default:
		result = "failure"
	}
	callLatency.WithLabelValues(mechanism, method, result).Observe(time.Since(start).Seconds())
}
