// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logger builds the structured loggers shared by the server and CLI.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New constructs a text logger on stderr. The level comes from raw, falling
// back to the LOG_LEVEL environment variable when raw is empty.
func New(service, raw string) *slog.Logger {
	if raw == "" {
		raw = os.Getenv("LOG_LEVEL")
	}
	return NewWriter(os.Stderr, service, ParseLevel(raw))
}

// NewWriter constructs a text logger on w at the given level.
func NewWriter(w io.Writer, service string, level slog.Level) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("service", service)
}

// Discard returns a logger that drops every record. Tests use it.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(raw string) slog.Level {
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
