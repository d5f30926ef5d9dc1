// Package logging configures the process-wide zerolog logger.
//
// Diagnostics never reach stdout. `activate --eval` prints shell code there
// and callers pipe it into eval, so a stray log line would be executed.
// Console logs go to stderr and a copy of every record is appended to
// $XDG_STATE_HOME/activate/activate.log. Verbosity picks the level:
// 0 warn, 1 info, 2 debug (with caller), 3 or more trace.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogger installs the global logger for the given -v count.
func SetupLogger(verbosity int) {
	setup(os.Stderr, verbosity)
}

func setup(console io.Writer, verbosity int) {
	zerolog.SetGlobalLevel(levelFor(verbosity))

	sinks := []io.Writer{zerolog.ConsoleWriter{Out: console, TimeFormat: time.Kitchen}}
	path := logFilePath()
	file, fileErr := openLogFile(path)
	if fileErr == nil {
		sinks = append(sinks, file)
	}

	ctx := zerolog.New(io.MultiWriter(sinks...)).With().Timestamp()
	if verbosity >= 2 {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()

	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", path).Msg("Log file unavailable, logging to stderr only")
	}
	log.Debug().Int("verbosity", verbosity).Str("logFile", path).Msg("Logger initialized")
}

func levelFor(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.WarnLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	case verbosity == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// GetLogger returns a child of the global logger tagged with component.
// Bind the result to a variable before logging: zerolog's level methods
// need an addressable Logger.
func GetLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

func logFilePath() string {
	xdg.Reload()
	return filepath.Join(xdg.StateHome, "activate", "activate.log")
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}

// LogOperationStart logs operation at debug level and returns a func that
// logs its completion with the elapsed time.
func LogOperationStart(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().Str("operation", operation).Msg("Operation started")

	return func() {
		logger.Debug().
			Str("operation", operation).
			Dur("duration", time.Since(start)).
			Msg("Operation completed")
	}
}
