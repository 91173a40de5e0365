// Package logging builds the structured loggers used across the
// application.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// serviceName tags every record so aggregated log streams stay
// attributable.
const serviceName = "techwatch"

// New creates a console slog.Logger at the given level. Components
// derive their own loggers via With("component", ...).
func New(level string) *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: levelFromString(level),
	})
	return slog.New(handler).With("service", serviceName)
}

func levelFromString(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "error":
		return slog.LevelError
	case "warn", "warning":
		return slog.LevelWarn
	case "debug":
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
