package messages

import "github.com/hubsync/go-hub/metrics"

const subsystem = "messages"

var (
	storedMessages = metrics.NewGauge(
		"stored",
		subsystem,
		"number of messages in the store",
		[]string{},
	).WithLabelValues()
	submitted = metrics.NewCounter(
		"submitted",
		subsystem,
		"submitted messages by source and result",
		[]string{"source", "result"},
	)
	cacheLookups = metrics.NewCounter(
		"cache_lookups",
		subsystem,
		"message cache lookups",
		[]string{"result"},
	)
	cacheHits   = cacheLookups.WithLabelValues("hit")
	cacheMisses = cacheLookups.WithLabelValues("miss")
)
