package main

import (
	"io"
	"log/slog"
)

// newLogger returns a text logger on w. Warnings are shown by default,
// debug output with verbose, errors only with quiet.
func newLogger(w io.Writer, quiet, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
