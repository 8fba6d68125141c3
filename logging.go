package pubsite

import (
	"io"
	"log/slog"
	"strings"
)

// NewLogger builds the process logger from the LOG_LEVEL / LOG_FORMAT
// settings. verbose forces debug level.
func NewLogger(w io.Writer, level, format string, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
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
