package latexstudio

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// EnvLogLevel overrides the configured log level when set.
const EnvLogLevel = "LATEXSTUDIO_LOG_LEVEL"

// NewLogger creates a new logger instance with a specified level and output.
func NewLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}
	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("lib", "latexstudio").
		Logger()
}

// LogLevelFromString parses a string to a zerolog.Level.
// "off", "none" and "disabled" all map to zerolog.Disabled.
func LogLevelFromString(levelStr string) (zerolog.Level, error) {
	switch s := strings.ToLower(strings.TrimSpace(levelStr)); s {
	case "off", "none", "disabled":
		return zerolog.Disabled, nil
	default:
		return zerolog.ParseLevel(s)
	}
}

// DefaultLogger returns a logger with default settings (warn level, stderr output).
// The level can be raised or lowered through LATEXSTUDIO_LOG_LEVEL.
func DefaultLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if raw := os.Getenv(EnvLogLevel); raw != "" {
		if lvl, err := LogLevelFromString(raw); err == nil {
			level = lvl
		}
	}
	return NewLogger(os.Stderr, level)
}
