// Package logger constructs the process logger. There is no global logging
// state: the returned handle is passed explicitly to everything that logs.
package logger

import (
	"log/slog"
	"os"
)

// New returns a text slog logger writing to stdout at the given level.
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
