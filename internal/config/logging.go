package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// Log output formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// ParseLogLevel maps a level name (debug, info, warn, error, optionally with
// an offset such as "warn+2") to a slog.Level. Unknown names yield
// slog.LevelInfo and an error.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level must be one of debug, info, warn, error (got %q)", s)
	}
	return level, nil
}
