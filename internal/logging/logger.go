// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string

	// Format is the output format: json or console.
	// Default: json
	Format string

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool

	// Output is the writer for log output.
	// Default: os.Stderr
	Output io.Writer
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "json",
		Output: os.Stderr,
	}
}

var (
	// log is the global logger instance.
	log zerolog.Logger

	// mu protects concurrent initialization.
	mu sync.RWMutex
)

//nolint:gochecknoinits // init ensures logging works before explicit Init() call
func init() {
	initLogger(DefaultConfig())
}

// Init initializes the global logger with the given configuration.
// It is safe to call multiple times; later calls reconfigure the logger.
func Init(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	initLogger(cfg)
}

// initLogger configures the global logger (must be called with mu held).
func initLogger(cfg Config) {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFieldName = "time"
	zerolog.MessageFieldName = "message"

	log = New(cfg)
}

// New builds a standalone logger from cfg without touching the global one.
// The command line tool uses this to log to stderr while writing results
// to stdout.
func New(cfg Config) zerolog.Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: "15:04:05"}
	}

	ctx := zerolog.New(output).Level(parseLevel(cfg.Level)).With().Timestamp()
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// parseLevel converts a string level to zerolog.Level.
// Unknown or empty values fall back to info.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Logger returns the global logger instance.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// SetLogger replaces the global logger instance.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func SetLogger(l zerolog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l
}

// current returns a pointer to a snapshot of the global logger, so event
// builders never hold the lock while a message is being assembled.
func current() *zerolog.Logger {
	l := Logger()
	return &l
}

// With creates a child context of the global logger.
//
//	l := logging.With().Str("backend", "nats").Logger()
func With() zerolog.Context { return current().With() }

// WithComponent creates a child of the global logger with a component field.
//
//	engineLogger := logging.WithComponent("recommend")
func WithComponent(component string) zerolog.Logger {
	return current().With().Str("component", component).Logger()
}

// Event helpers on the global logger.
//
//	logging.Info().Msg("Server starting")
//	logging.Err(err).Msg("Operation failed")
func Debug() *zerolog.Event { return current().Debug() }
func Info() *zerolog.Event  { return current().Info() }
func Warn() *zerolog.Event  { return current().Warn() }
func Error() *zerolog.Event { return current().Error() }

// Fatal logs at fatal level; os.Exit(1) is called after the message is written.
func Fatal() *zerolog.Event { return current().Fatal() }

// Err starts an error-level message carrying err, or info level when err is nil.
func Err(err error) *zerolog.Event { return current().Err(err) }

// NewTestLogger creates a logger that writes JSON to the provided writer.
//
//	var buf bytes.Buffer
//	logger := logging.NewTestLogger(&buf)
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
