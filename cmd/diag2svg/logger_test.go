package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		quiet   bool
		verbose bool
		enabled slog.Level
		muted   slog.Level
	}{
		{"default shows warnings", false, false, slog.LevelWarn, slog.LevelInfo},
		{"quiet shows errors only", true, false, slog.LevelError, slog.LevelWarn},
		{"verbose shows debug", false, true, slog.LevelDebug, slog.LevelDebug - 1},
		{"quiet wins over verbose", true, true, slog.LevelError, slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := newLogger(&buf, tt.quiet, tt.verbose)
			ctx := context.Background()

			if !logger.Enabled(ctx, tt.enabled) {
				t.Errorf("level %v should be enabled", tt.enabled)
			}
			if logger.Enabled(ctx, tt.muted) {
				t.Errorf("level %v should be muted", tt.muted)
			}
		})
	}
}
