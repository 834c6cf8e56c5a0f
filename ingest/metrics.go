package ingest

import "github.com/hubsync/go-hub/metrics"

const subsystem = "ingest"

var (
	queueSize = metrics.NewGauge(
		"trie_queue_size",
		subsystem,
		"number of trie updates waiting to be applied",
		[]string{},
	).WithLabelValues()
	applied = metrics.NewCounter(
		"applied",
		subsystem,
		"trie updates applied",
		[]string{"op", "outcome"},
	)
)
