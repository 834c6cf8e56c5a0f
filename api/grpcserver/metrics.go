package grpcserver

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hubsync/go-hub/metrics"
)

const subsystem = "grpcserver"

var (
	requests = metrics.NewCounter(
		"requests",
		subsystem,
		"requests served, by method and grpc code",
		[]string{"method", "code"},
	)
	latency = metrics.NewHistogramWithBuckets(
		"latency_seconds",
		subsystem,
		"time spent serving a request",
		[]string{"method"},
		prometheus.ExponentialBuckets(0.001, 2, 14),
	)
	sessions = metrics.NewGauge(
		"stream_sessions",
		subsystem,
		"open StreamSync sessions",
		[]string{},
	).WithLabelValues()
	sessionsClosed = metrics.NewCounter(
		"stream_sessions_closed",
		subsystem,
		"closed StreamSync sessions by reason",
		[]string{"reason"},
	)
	targetRps = metrics.NewGauge(
		"rps",
		subsystem,
		"target requests per second",
		[]string{},
	).WithLabelValues()
)
