// Package logging builds the zap loggers used across the module. Library
// packages accept a *zap.Logger through their options and default to Nop;
// only the command line tool constructs real loggers.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production JSON logger at the named level
// ("debug", "info", "warn", "error").
func New(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logging.New: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Sampling = nil
	return cfg.Build()
}

// NewConsole returns a human readable logger at the named level.
func NewConsole(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logging.NewConsole: %w", err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// Nop returns a logger discarding everything.
func Nop() *zap.Logger { return zap.NewNop() }

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// Problem returns the structured fields describing a problem shape.
func Problem(tenants, servers, metrics int) zap.Field {
	return zap.Dict("problem",
		zap.Int("tenants", tenants),
		zap.Int("servers", servers),
		zap.Int("metrics", metrics),
	)
}
