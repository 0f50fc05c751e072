package app

import (
	"io"
	"log/slog"

	"github.com/vk/mazeharness/internal/config"
)

// newLogger builds an isolated logger from the configured level and format.
// It never touches the global logger. An unknown level logs at info and says
// so once.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	level, levelErr := config.ParseLogLevel(levelStr)
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewTextHandler(outW, opts)
	if formatStr == config.LogFormatJSON {
		handler = slog.NewJSONHandler(outW, opts)
	}

	logger := slog.New(handler)
	if levelErr != nil {
		logger.Warn("Unknown log level; using info.", "error", levelErr)
	}
	return logger
}
