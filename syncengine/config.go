package syncengine

import (
	"fmt"
	"time"

	"github.com/hubsync/go-hub/trie"
)

type Config struct {
	// Interval between sync rounds.
	Interval time.Duration `mapstructure:"interval"`
	// MaxConcurrentPeers bounds the attempts running at once.
	MaxConcurrentPeers int `mapstructure:"max-concurrent-peers"`
	// PeersPerRound is the number of peers picked for each round.
	PeersPerRound int `mapstructure:"peers-per-round"`
	// HashesPerFetch is the subtree size below which ids are enumerated instead of
	// descending further. At most trie.MaxValuesReturnedPerCall, as a peer returns
	// no more ids than that for one prefix.
	HashesPerFetch int `mapstructure:"hashes-per-fetch"`
	// FetchBatchSize is the number of messages requested per call.
	FetchBatchSize int `mapstructure:"fetch-batch-size"`
	// MaxConcurrentFetches bounds the message requests in flight per attempt.
	MaxConcurrentFetches int `mapstructure:"max-concurrent-fetches"`
	// SyncThreshold is the granularity of the snapshot timestamp. Messages newer than
	// the threshold are left to gossip.
	SyncThreshold time.Duration `mapstructure:"sync-threshold"`
	// QueueCapacity is the number of trie updates buffered before merges block.
	QueueCapacity int `mapstructure:"queue-capacity"`
	// FlushInterval between trie flushes to the database.
	FlushInterval time.Duration `mapstructure:"flush-interval"`
	// AttemptTimeout bounds a single sync attempt.
	AttemptTimeout time.Duration `mapstructure:"attempt-timeout"`
}

func DefaultConfig() Config {
	return Config{
		Interval:             30 * time.Second,
		MaxConcurrentPeers:   4,
		PeersPerRound:        4,
		HashesPerFetch:       50,
		FetchBatchSize:       100,
		MaxConcurrentFetches: 4,
		SyncThreshold:        10 * time.Second,
		QueueCapacity:        10_000,
		FlushInterval:        10 * time.Second,
		AttemptTimeout:       5 * time.Minute,
	}
}

// Validate rejects settings a sync attempt cannot converge with.
func (c Config) Validate() error {
	if c.HashesPerFetch > trie.MaxValuesReturnedPerCall {
		return fmt.Errorf("hashes-per-fetch %d exceeds the %d ids a peer returns per prefix",
			c.HashesPerFetch, trie.MaxValuesReturnedPerCall)
	}
	return nil
}
