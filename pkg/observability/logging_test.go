package observability

import (
	"context"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{input: "debug", expected: slog.LevelDebug},
		{input: "info", expected: slog.LevelInfo},
		{input: "warn", expected: slog.LevelWarn},
		{input: "warning", expected: slog.LevelWarn},
		{input: "error", expected: slog.LevelError},
		{input: "DEBUG", expected: slog.LevelDebug},
		{input: "Info", expected: slog.LevelInfo},
		{input: "", expected: slog.LevelInfo},
		{input: "verbose", expected: slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.expected {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestInitLoggerFormat(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		logger := InitLogger(LogConfig{Level: "info", Format: "json"})
		if _, ok := logger.Handler().(*slog.JSONHandler); !ok {
			t.Errorf("expected JSON handler, got %T", logger.Handler())
		}
	})

	t.Run("text", func(t *testing.T) {
		logger := InitLogger(LogConfig{Level: "info", Format: "text"})
		if _, ok := logger.Handler().(*slog.TextHandler); !ok {
			t.Errorf("expected text handler, got %T", logger.Handler())
		}
	})

	t.Run("unknown format falls back to text", func(t *testing.T) {
		logger := InitLogger(LogConfig{Level: "info", Format: "logfmt"})
		if _, ok := logger.Handler().(*slog.TextHandler); !ok {
			t.Errorf("expected text handler, got %T", logger.Handler())
		}
	})
}

func TestInitLoggerLevelGating(t *testing.T) {
	ctx := context.Background()

	logger := InitLogger(LogConfig{Level: "warn", Format: "json"})
	if logger.Enabled(ctx, slog.LevelInfo) {
		t.Error("info should be suppressed at warn level")
	}
	if !logger.Enabled(ctx, slog.LevelWarn) {
		t.Error("warn should be enabled at warn level")
	}

	logger = InitLogger(LogConfig{Level: "debug", Format: "json"})
	if !logger.Enabled(ctx, slog.LevelDebug) {
		t.Error("debug should be enabled at debug level")
	}
}

func TestInitLoggerDoesNotTouchDefault(t *testing.T) {
	before := slog.Default()
	_ = InitLogger(LogConfig{Level: "error", Format: "json"})

	if slog.Default() != before {
		t.Error("InitLogger must not replace the process default logger")
	}
}
