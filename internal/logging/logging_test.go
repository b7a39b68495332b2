package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		enabled slog.Level
		muted   slog.Level
	}{
		{"debug", "debug", slog.LevelDebug, slog.LevelDebug - 4},
		{"info default", "", slog.LevelInfo, slog.LevelDebug},
		{"unknown falls back to info", "verbose", slog.LevelInfo, slog.LevelDebug},
		{"warn", "warn", slog.LevelWarn, slog.LevelInfo},
		{"warning alias", "WARNING", slog.LevelWarn, slog.LevelInfo},
		{"error", "error", slog.LevelError, slog.LevelWarn},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger(tt.level)
			if !logger.Enabled(ctx, tt.enabled) {
				t.Errorf("level %q should enable %v", tt.level, tt.enabled)
			}
			if logger.Enabled(ctx, tt.muted) {
				t.Errorf("level %q should mute %v", tt.level, tt.muted)
			}
		})
	}
}

func TestWithHelpers(t *testing.T) {
	tests := []struct {
		name string
		wrap func(*slog.Logger) *slog.Logger
		key  string
		want string
	}{
		{"request id", func(l *slog.Logger) *slog.Logger { return WithRequestID(l, "req-1") }, "request_id", "req-1"},
		{"component", func(l *slog.Logger) *slog.Logger { return WithComponent(l, "api") }, "component", "api"},
		{"run id", func(l *slog.Logger) *slog.Logger { return WithRunID(l, "run-9") }, "run_id", "run-9"},
		{"stage", func(l *slog.Logger) *slog.Logger { return WithStage(l, "enrich") }, "stage", "enrich"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))
			tt.wrap(logger).Info("message")

			var record map[string]any
			if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
				t.Fatalf("unmarshal log line: %v", err)
			}
			if got := record[tt.key]; got != tt.want {
				t.Errorf("%s = %v, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"empty", "", "****"},
		{"short", "abc12345", "****"},
		{"long", "sk-abcdef123456789", "sk-a...6789"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeToken(tt.token); got != tt.want {
				t.Errorf("SanitizeToken(%q) = %q, want %q", tt.token, got, tt.want)
			}
		})
	}
}

func TestSanitizePath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}

	inside := filepath.Join(home, "media", "talk.srt")
	got := SanitizePath(inside)
	if !strings.HasPrefix(got, "~") {
		t.Errorf("SanitizePath(%q) = %q, want ~ prefix", inside, got)
	}
	if strings.Contains(got, home) {
		t.Errorf("SanitizePath(%q) = %q, still contains home dir", inside, got)
	}

	outside := "/var/data/talk.srt"
	if got := SanitizePath(outside); got != outside {
		t.Errorf("SanitizePath(%q) = %q, want unchanged", outside, got)
	}
}
