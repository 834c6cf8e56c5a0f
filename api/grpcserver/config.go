package grpcserver

import (
	"time"
)

// Config of the sync service.
type Config struct {
	// Listener is the address the service listens on.
	Listener string `mapstructure:"listener"`
	// RequestsPerSecond bounds unary calls and StreamSync requests across all
	// clients. Zero disables the bound.
	RequestsPerSecond int `mapstructure:"requests-per-second"`
	Burst             int `mapstructure:"burst"`
	// StreamIdleTimeout closes StreamSync sessions with no request in flight
	// for that long.
	StreamIdleTimeout time.Duration `mapstructure:"stream-idle-timeout"`
	// StreamConcurrency is the number of requests served at once per session.
	StreamConcurrency int `mapstructure:"stream-concurrency"`
	// MaxMessageSize bounds received and sent grpc messages.
	MaxMessageSize   int           `mapstructure:"max-message-size"`
	GracefulShutdown time.Duration `mapstructure:"graceful-shutdown"`
}

func DefaultConfig() Config {
	return Config{
		Listener:          "0.0.0.0:2283",
		RequestsPerSecond: 500,
		Burst:             100,
		StreamIdleTimeout: time.Minute,
		StreamConcurrency: 8,
		MaxMessageSize:    96 << 20,
		GracefulShutdown:  5 * time.Second,
	}
}
