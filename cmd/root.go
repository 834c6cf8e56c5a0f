package cmd

import (
	"github.com/spf13/pflag"

	"github.com/hubsync/go-hub/config"
)

// AddFlags adds cobra flags to the app. Flags write straight into cfg, so they
// must be parsed again after the config file was loaded to take precedence.
func AddFlags(flagSet *pflag.FlagSet, cfg *config.Config) (configPath *string) {
	configPath = flagSet.StringP("config", "c", "", "load configuration from file")

	/** ======================== BaseConfig Flags ========================== **/

	flagSet.StringVarP(&cfg.DataDir, "data-folder", "d",
		cfg.DataDir, "specify data directory for the hub")
	flagSet.StringVar(&cfg.Nickname, "nickname",
		cfg.Nickname, "name reported to other hubs")
	flagSet.BoolVar(&cfg.CollectMetrics, "metrics",
		cfg.CollectMetrics, "collect node metrics")
	flagSet.StringVar(&cfg.MetricsListener, "metrics-listener",
		cfg.MetricsListener, "address of the metrics server")
	flagSet.StringVar(&cfg.MetricsPush, "metrics-push",
		cfg.MetricsPush, "push metrics to url")
	flagSet.DurationVar(&cfg.MetricsPushPeriod, "metrics-push-period",
		cfg.MetricsPushPeriod, "push period")
	flagSet.IntVar(&cfg.MessageCacheSize, "message-cache-size",
		cfg.MessageCacheSize, "number of decoded messages kept in memory")
	flagSet.BoolVar(&cfg.RebuildTrie, "rebuild-trie",
		cfg.RebuildTrie, "discard the persisted trie and rebuild it from stored messages")

	/** ======================== Logging Flags ========================== **/

	flagSet.StringVar(&cfg.Logging.Encoder, "log-encoder",
		cfg.Logging.Encoder, "log as json or console")
	flagSet.StringVar(&cfg.Logging.Level, "log-level",
		cfg.Logging.Level, "root log level")

	/** ======================== Sync Flags ========================== **/

	flagSet.DurationVar(&cfg.Sync.Interval, "sync-interval",
		cfg.Sync.Interval, "interval between sync rounds, zero disables scheduled rounds")
	flagSet.IntVar(&cfg.Sync.PeersPerRound, "sync-peers-per-round",
		cfg.Sync.PeersPerRound, "number of peers picked for each round")
	flagSet.IntVar(&cfg.Sync.MaxConcurrentPeers, "sync-max-concurrent-peers",
		cfg.Sync.MaxConcurrentPeers, "number of attempts running at once")
	flagSet.IntVar(&cfg.Sync.HashesPerFetch, "sync-hashes-per-fetch",
		cfg.Sync.HashesPerFetch, "subtree size below which ids are enumerated")
	flagSet.DurationVar(&cfg.Sync.SyncThreshold, "sync-threshold",
		cfg.Sync.SyncThreshold, "messages newer than this are left to gossip")
	flagSet.DurationVar(&cfg.Sync.FlushInterval, "sync-flush-interval",
		cfg.Sync.FlushInterval, "interval between trie flushes")
	flagSet.Var(&cfg.Peers, "peer",
		"remote hub as id@host:port, can be passed multiple times")

	/** ======================== Client Flags ========================== **/

	flagSet.DurationVar(&cfg.Client.RequestTimeout, "request-timeout",
		cfg.Client.RequestTimeout, "timeout of a single call to a peer")
	flagSet.BoolVar(&cfg.Client.Streaming, "streaming",
		cfg.Client.Streaming, "sync over StreamSync sessions with unary fallback")

	/** ======================== API Flags ========================== **/

	flagSet.StringVar(&cfg.API.Listener, "grpc-listener",
		cfg.API.Listener, "address of the sync service")
	flagSet.IntVar(&cfg.API.RequestsPerSecond, "grpc-requests-per-second",
		cfg.API.RequestsPerSecond, "requests served per second, zero disables the limit")
	flagSet.IntVar(&cfg.API.Burst, "grpc-burst",
		cfg.API.Burst, "requests served at once above the rate")
	flagSet.DurationVar(&cfg.API.StreamIdleTimeout, "grpc-stream-idle-timeout",
		cfg.API.StreamIdleTimeout, "close idle StreamSync sessions after this long")

	return configPath
}
