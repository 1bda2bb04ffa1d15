// Configures structured logging for the launcher daemon.
//
// The daemon logs through the zap global logger so packages do not thread a
// logger handle through every call. Local builds use console encoding for
// readability; pipeline builds emit JSON for the shell's log collector.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/suzent/suzentd/internal"
)

// Installs the global logger with the given verbosity.
//
// Debug wins over quiet when both are set. The returned function flushes
// buffered entries and should be deferred by the caller.
func Setup(debug, quiet bool) (func(), error) {
	level := zap.InfoLevel
	if quiet {
		level = zap.WarnLevel
	}
	if debug {
		level = zap.DebugLevel
	}

	cfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       internal.IsLocal(),
		Encoding:          encoding(),
		EncoderConfig:     encoderConfig(),
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: !debug,
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	zap.ReplaceGlobals(logger.Named(internal.Name))

	return func() { _ = logger.Sync() }, nil
}

// Returns the encoding for the current build: console locally, JSON in
// pipeline builds.
func encoding() string {
	if internal.IsLocal() {
		return "console"
	}
	return "json"
}

// Returns the encoder configuration matching the selected encoding.
func encoderConfig() zapcore.EncoderConfig {
	if internal.IsLocal() {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return cfg
	}

	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.MessageKey = "message"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}
