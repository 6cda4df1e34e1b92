// Package logging provides the short leveled helpers used throughout
// fetcharr, backed by zerolog.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var (
	// Level gates debug output. D calls with a level at or above this
	// value are dropped.
	Level int

	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.StampMilli}).
		With().Timestamp().Logger()
)

// Setup configures the debug level and optional log file output.
func Setup(debugLevel int, logFilePath string) error {
	Level = debugLevel

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debugLevel > 0 {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.StampMilli}}

	if logFilePath != "" {
		f, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file %q: %w", logFilePath, err)
		}
		writers = append(writers, f)
	}

	logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	return nil
}

// D logs a debug message when the given level is below the configured level.
func D(l int, format string, args ...any) {
	if l >= Level {
		return
	}
	logger.Debug().Msgf(format, args...)
}

// I logs an informational message.
func I(format string, args ...any) {
	logger.Info().Msgf(format, args...)
}

// S logs a success message.
func S(format string, args ...any) {
	logger.Info().Str("result", "success").Msgf(format, args...)
}

// W logs a warning.
func W(format string, args ...any) {
	logger.Warn().Msgf(format, args...)
}

// E logs an error.
func E(format string, args ...any) {
	logger.Error().Msgf(format, args...)
}
