package syncengine

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hubsync/go-hub/metrics"
)

const subsystem = "sync_engine"

var (
	attempts = metrics.NewCounter(
		"attempts",
		subsystem,
		"sync attempts by result",
		[]string{"result"},
	)
	attemptDuration = metrics.NewHistogramWithBuckets(
		"attempt_duration_seconds",
		subsystem,
		"duration of sync attempts",
		[]string{"result"},
		prometheus.ExponentialBuckets(0.01, 2, 16),
	)
	inFlight = metrics.NewGauge(
		"in_flight",
		subsystem,
		"sync attempts in progress",
		[]string{},
	).WithLabelValues()
	malformed = metrics.NewCounter(
		"malformed_responses",
		subsystem,
		"peer responses dropped as malformed",
		[]string{"call"},
	)
	merged = metrics.NewCounter(
		"messages",
		subsystem,
		"messages fetched from peers by merge outcome",
		[]string{"outcome"},
	)
	mergedApplied   = merged.WithLabelValues("applied")
	mergedDuplicate = merged.WithLabelValues("duplicate")
	mergedInvalid   = merged.WithLabelValues("invalid")

	flushes = metrics.NewCounter(
		"trie_flushes",
		subsystem,
		"trie flushes by outcome",
		[]string{"outcome"},
	)
	rebuilds = metrics.NewCounter(
		"trie_rebuilds",
		subsystem,
		"trie rebuilds from the message store",
		[]string{},
	).WithLabelValues()
)
