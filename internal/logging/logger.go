// Package logging configures the process-wide slog default.
package logging

import (
	"log/slog"
	"os"

	"github.com/tomaskrat/videotube/internal/correlation"
)

// InitLogger installs the default logger. Unknown levels fall back to info,
// unknown formats to text; every record passes through the correlation
// handler so request-scoped logs carry their correlation ID.
func InitLogger(level, format string) {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(correlation.NewHandler(handler)))
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
