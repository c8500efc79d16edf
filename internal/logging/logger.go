// Package logging provides structured logging with file output support.
// It uses environment variables for configuration.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Environment variables read by NewLogger.
const (
	EnvLevel  = "DISASEXPL_LOG_LEVEL"
	EnvPrefix = "DISASEXPL_LOG_PREFIX"
	EnvToFile = "DISASEXPL_LOG_TO_FILE"
)

// LoggerCloser wraps a logger and provides a Close method for cleanup
type LoggerCloser struct {
	*log.Logger
	closer io.Closer
}

// Close closes the underlying writer if it's closeable
func (lc *LoggerCloser) Close() error {
	if lc.closer != nil {
		return lc.closer.Close()
	}
	return nil
}

// Level returns the level named by DISASEXPL_LOG_LEVEL, defaulting to info.
func Level() log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(os.Getenv(EnvLevel)))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// NewLoggerWithWriter creates a new logger with the provided writer
func NewLoggerWithWriter(w io.Writer) *LoggerCloser {
	lg := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Level:           Level(),
	})

	prefix := os.Getenv(EnvPrefix)
	if prefix == "" {
		prefix = "disasexpl "
	}

	var closer io.Closer
	if c, ok := w.(io.Closer); ok && w != os.Stderr {
		closer = c
	}

	return &LoggerCloser{
		Logger: lg.WithPrefix(prefix),
		closer: closer,
	}
}

// NewLogger creates a new logger based on environment variables
// DISASEXPL_LOG_LEVEL: debug, info, warn, error (default: info)
// DISASEXPL_LOG_PREFIX: prefix for log messages (default: "disasexpl ")
// DISASEXPL_LOG_TO_FILE: when set to "1", logs to a timestamped file instead of stderr
func NewLogger() *LoggerCloser {
	output := io.Writer(os.Stderr)

	if os.Getenv(EnvToFile) == "1" {
		timestamp := time.Now().Format("20060102-150405")
		logFile := fmt.Sprintf("disasexpl-%s-debug.log", timestamp)

		f, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err == nil {
			output = f
		}
		// If file creation fails, fall back to stderr
	}

	return NewLoggerWithWriter(output)
}

// IsDebug returns true if debug logging is enabled
func IsDebug() bool {
	return Level() == log.DebugLevel
}
