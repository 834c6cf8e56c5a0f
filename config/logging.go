package config

import (
	"go.uber.org/zap/zapcore"

	"github.com/hubsync/go-hub/log"
)

const defaultLoggingLevel = zapcore.InfoLevel

// LoggerConfig holds the root level and per module overrides.
type LoggerConfig struct {
	Encoder string `mapstructure:"log-encoder"`
	Level   string `mapstructure:"level"`
	// Modules raises the level of named loggers, such as sync or grpc.
	Modules log.ModuleLevels `mapstructure:"modules"`
}

func defaultLoggingConfig() LoggerConfig {
	return LoggerConfig{
		Encoder: log.ConsoleEncoder,
		Level:   defaultLoggingLevel.String(),
		Modules: log.ModuleLevels{
			"grpc": zapcore.WarnLevel.String(),
		},
	}
}
