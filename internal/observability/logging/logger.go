package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Attribute keys shared by the API and worker so log lines from both
// services stay query-compatible.
const (
	KeyService   = "service"
	KeyRequestID = "request_id"
)

// NewJSONLogger builds the process-wide JSON logger tagged with the service
// name. Unrecognized LOG_LEVEL values fall back to info rather than
// silencing output.
func NewJSONLogger(service, level string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	return slog.New(handler).With(KeyService, service)
}

// ParseLevel maps the textual LOG_LEVEL config value onto slog levels.
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
