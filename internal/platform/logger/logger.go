package logger

import (
	"log/slog"
	"os"
	"regexp"
	"strings"
)

// New initializes a new slog.Logger
// Log level can be debug, info, warn, error
func New(level string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Some numbers carry spaces between digit groups.
var phoneRun = regexp.MustCompile(`[\d\s]{7,20}`)

// MaskPhoneNumbers replaces every run of 7-20 digits/spaces with asterisks
// and strips line breaks, so the result is safe to put in a log line.
func MaskPhoneNumbers(msg string) string {
	msg = strings.NewReplacer("\r", "", "\n", "").Replace(msg)
	return phoneRun.ReplaceAllStringFunc(msg, func(s string) string {
		return strings.Repeat("*", len(s))
	})
}
