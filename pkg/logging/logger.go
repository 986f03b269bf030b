// Package logging provides structured logging configuration using zerolog.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug logs debug messages and above.
	LevelDebug LogLevel = "debug"

	// LevelInfo logs info messages and above.
	LevelInfo LogLevel = "info"

	// LevelWarn logs warning messages and above.
	LevelWarn LogLevel = "warn"

	// LevelError logs error messages only.
	LevelError LogLevel = "error"
)

// Format selects the log encoding.
type Format string

const (
	// FormatJSON writes one JSON object per line.
	FormatJSON Format = "json"

	// FormatConsole writes human-readable colored lines.
	FormatConsole Format = "console"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel

	// Format is json (default) or console.
	Format Format

	// Output is the writer to output logs to (default: os.Stderr).
	Output io.Writer
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Format: FormatJSON,
		Output: os.Stderr,
	}
}

// Validate reports unknown levels or formats.
func (c Config) Validate() error {
	if _, ok := levels[strings.ToLower(string(c.Level))]; !ok && c.Level != "" {
		return fmt.Errorf("unknown log level %q", c.Level)
	}
	switch Format(strings.ToLower(string(c.Format))) {
	case "", FormatJSON, FormatConsole:
		return nil
	default:
		return fmt.Errorf("unknown log format %q", c.Format)
	}
}

// Setup configures the global zerolog logger.
func Setup(cfg Config) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if Format(strings.ToLower(string(cfg.Format))) == FormatConsole {
		output = zerolog.ConsoleWriter{Out: output}
	}

	logger := zerolog.New(output).With().Timestamp().Logger()

	// Set as global logger
	log.Logger = logger

	return logger
}

var levels = map[string]zerolog.Level{
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"warn":    zerolog.WarnLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
}

// parseLevel converts LogLevel to zerolog.Level, defaulting to info.
func parseLevel(level LogLevel) zerolog.Level {
	if l, ok := levels[strings.ToLower(string(level))]; ok {
		return l
	}
	return zerolog.InfoLevel
}

// NewLogger creates a new logger with the given component name.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Log Level Guidelines:
//
// Debug: Detailed information for debugging
//   - Cache operations (hit/miss, key)
//   - Catalog request flow (endpoint, query)
//   - Candidates skipped for missing detail
//
// Info: Normal operation events
//   - Game recommended (game_id, title, scanned)
//   - Schema migrations
//   - Server startup/shutdown
//
// Warn: Warning conditions that don't prevent operation
//   - Cache errors (degraded to miss or no-op)
//   - Catalog error statuses
//   - Circuit breaker state changes
//
// Error: Error conditions requiring attention
//   - Catalog unreachable
//   - Unexpected errors returned to HTTP clients
//   - Configuration errors
//
// Context Fields:
//   - component: emitting package
//   - endpoint: catalog endpoint path
//   - status: HTTP status code
//   - error_class: catalog error classification (client, server, network, decode, breaker_open)
//   - key: cache key without prefix
//   - cache_layer: cache backend (redis, memory, none)
//   - game_id: catalog game id
//   - request_id: HTTP request id
