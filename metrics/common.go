package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Namespace is the basic namespace where all metrics are defined under.
	Namespace = "hub"
)

// NewCounter creates a Counter metrics under the global namespace.
func NewCounter(name, subsystem, help string, labels []string) *prometheus.CounterVec {
	return promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: Namespace, Subsystem: subsystem, Name: name, Help: help}, labels)
}

// NewGauge creates a Gauge metrics under the global namespace.
func NewGauge(name, subsystem, help string, labels []string) *prometheus.GaugeVec {
	return promauto.NewGaugeVec(
		prometheus.GaugeOpts{Namespace: Namespace, Subsystem: subsystem, Name: name, Help: help}, labels)
}

// NewHistogramWithBuckets creates a Histogram metrics with custom buckets.
func NewHistogramWithBuckets(
	name, subsystem, help string,
	labels []string,
	buckets []float64,
) *prometheus.HistogramVec {
	return promauto.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: Namespace, Subsystem: subsystem, Name: name, Help: help, Buckets: buckets},
		labels,
	)
}

// receivedMessagesLatency measures how old a message is when the hub merges it,
// relative to the timestamp the author put on it. Metrics are labeled by the
// source of the message and sign. Negative latencies occur when the author's
// clock is ahead of ours.
var receivedMessagesLatency = NewHistogramWithBuckets(
	"message_latency_seconds",
	"",
	"Observed latency for merged messages",
	[]string{"source", "sign"},
	prometheus.ExponentialBuckets(0.1, 2, 20),
)

// ReportMessageLatency records the age of a merged message.
func ReportMessageLatency(source string, latency time.Duration) {
	seconds := latency.Seconds()
	sign := "pos"
	if seconds < 0 {
		sign = "neg"
		seconds = -seconds
	}
	receivedMessagesLatency.WithLabelValues(source, sign).Observe(seconds)
}
