// Package logger provides a configured zerolog instance.
package logger

import (
	"github.com/ilindan-dev/homemaster-mailer/internal/config"
	"github.com/rs/zerolog"
	"os"
)

// NewLogger creates a new configured instance of zerolog.Logger.
// It reads the log level from the config and adds default fields like service name and caller.
func NewLogger(cfg *config.Config) (*zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Logger.Level)
	if err != nil || cfg.Logger.Level == "" {
		// Default to info level if config is invalid or missing
		level = zerolog.InfoLevel
	}

	// Gin debug mode means a developer is watching the console.
	// Everything else gets plain JSON lines.
	var logger zerolog.Logger
	if cfg.HTTP.GinMode == "debug" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}

	logger = logger.With().
		Timestamp().
		Str("service", "homemaster-mailer").
		Caller().
		Logger().
		Level(level)

	return &logger, nil
}
