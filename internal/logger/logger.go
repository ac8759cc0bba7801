// Package logger configures the process-wide log/slog logger.
// JSON output with source locations is the default; a text format is
// available for local runs.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format selects the slog handler used by Setup.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Setup installs a default logger writing to w, or to stderr when w is nil.
// Logs stay off stdout so command output can be piped.
func Setup(w io.Writer, level slog.Level, format Format) {
	if w == nil {
		w = os.Stderr
	}
	slog.SetDefault(New(w, level, format))
}

// New builds a logger for the given writer, level and format.
// Unknown formats fall back to JSON.
func New(w io.Writer, level slog.Level, format Format) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: true,
		Level:     level,
	}

	var handler slog.Handler
	if format == FormatText {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

// ParseLevel converts a string log level to slog.Level.
// Valid values: "debug", "info", "warn", "error" (case-insensitive).
// Unrecognized values default to info level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseFormat converts a string to a Format, defaulting to JSON.
func ParseFormat(format string) Format {
	if strings.EqualFold(strings.TrimSpace(format), string(FormatText)) {
		return FormatText
	}
	return FormatJSON
}
