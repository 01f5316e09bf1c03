// internal/logging/logging.go
// Package logging configures the process-wide structured logger.
package logging

import (
	"io"
	"log/slog"
)

// Init builds a text logger writing to w and installs it as slog's default,
// so the stdlib log package routes through the same handler. Debug lowers
// the level and adds file:line to every record.
func Init(w io.Writer, debug bool) *slog.Logger {
	logger := slog.New(NewHandler(w, debug))
	slog.SetDefault(logger)
	return logger
}

// NewHandler returns the text handler used by Init without touching the default logger.
func NewHandler(w io.Writer, debug bool) slog.Handler {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
}

// Discard returns a logger that drops every record
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
