package config

import (
	"log/slog"
	"os"
)

// NewLogger returns a slog.Logger for the given environment, tagged with the
// service name so api and reminderd logs can be told apart. Production uses
// the JSON handler; otherwise text. LOG_LEVEL may be: debug, info, warn,
// error (default: info).
func NewLogger(env, service string) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(os.Getenv("LOG_LEVEL"))); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler).With("service", service)
}
