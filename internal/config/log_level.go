package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// LogLevel is the configured verbosity of the CLI's structured log output.
type LogLevel string

// Valid log level values
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var slogLevels = map[LogLevel]slog.Level{
	LogLevelDebug: slog.LevelDebug,
	LogLevelInfo:  slog.LevelInfo,
	LogLevelWarn:  slog.LevelWarn,
	LogLevelError: slog.LevelError,
}

// ValidLogLevelNames returns the accepted level names for display.
func ValidLogLevelNames() []string {
	return []string{"debug", "info", "warn", "error"}
}

// NormalizeLogLevel normalizes and validates a level string. An empty string
// means LogLevelInfo.
func NormalizeLogLevel(level string) (LogLevel, error) {
	if strings.TrimSpace(level) == "" {
		return LogLevelInfo, nil
	}

	normalized := LogLevel(strings.ToLower(strings.TrimSpace(level)))
	if _, ok := slogLevels[normalized]; !ok {
		return "", fmt.Errorf(
			"invalid log_level %q; valid options: %s",
			level,
			strings.Join(ValidLogLevelNames(), ", "),
		)
	}
	return normalized, nil
}

// Slog returns the slog level. Unknown values map to slog.LevelInfo.
func (l LogLevel) Slog() slog.Level {
	if lvl, ok := slogLevels[l]; ok {
		return lvl
	}
	return slog.LevelInfo
}

// SlogLevel returns the configured level, with debug forcing slog.LevelDebug.
func (c *Configuration) SlogLevel(debug bool) slog.Level {
	if debug {
		return slog.LevelDebug
	}
	return LogLevel(c.LogLevel).Slog()
}
