package logger

import (
	"log/slog"
	"os"
)

// New returns the root structured logger. JSON when VOXLAB_LOG_FORMAT=json,
// text otherwise; level defaults to info.
func New() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("VOXLAB_LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if os.Getenv("VOXLAB_LOG_FORMAT") == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
