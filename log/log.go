// Package log sets up the zap loggers used across the hub and carries
// request scoped fields through contexts.
package log

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// ConsoleEncoder represents logging with plain text.
	ConsoleEncoder = "console"
	// JSONEncoder represents logging with JSON.
	JSONEncoder = "json"
)

// where logs go by default.
var logWriter io.Writer = os.Stdout

// NewNop creates silent logger.
func NewNop() *zap.Logger {
	return zap.NewNop()
}

// NewEncoder returns the zap encoder for the named format.
func NewEncoder(format string) (zapcore.Encoder, error) {
	switch format {
	case "", ConsoleEncoder:
		cfg := zap.NewDevelopmentEncoderConfig()
		return zapcore.NewConsoleEncoder(cfg), nil
	case JSONEncoder:
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		return zapcore.NewJSONEncoder(cfg), nil
	default:
		return nil, fmt.Errorf("unknown log encoder %q", format)
	}
}

// NewWithLevel creates a logger with a fixed level and with a set of (optional) hooks.
func NewWithLevel(name string,
	level zap.AtomicLevel,
	encoder zapcore.Encoder,
	hooks ...func(zapcore.Entry) error,
) *zap.Logger {
	core := zapcore.NewCore(encoder, zapcore.AddSync(logWriter), level)
	return zap.New(zapcore.RegisterHooks(core, hooks...)).Named(name)
}

// New creates the root logger from textual level and encoder names.
func New(name, level, format string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	encoder, err := NewEncoder(format)
	if err != nil {
		return nil, err
	}
	return NewWithLevel(name, lvl, encoder), nil
}

// ModuleLevels overrides the root level for individual named loggers.
type ModuleLevels map[string]string

// Named returns a child logger, applying a per module level when configured.
// A module level can only make the logger quieter than its parent.
func (m ModuleLevels) Named(logger *zap.Logger, module string) *zap.Logger {
	named := logger.Named(module)
	lvl, ok := m[module]
	if !ok {
		return named
	}
	parsed, err := zapcore.ParseLevel(lvl)
	if err != nil {
		named.Warn("invalid module log level", zap.String("level", lvl), zap.Error(err))
		return named
	}
	return named.WithOptions(zap.IncreaseLevel(parsed))
}
