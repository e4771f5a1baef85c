package observability

import (
	"log/slog"
	"os"
	"strings"
)

// LogConfig selects the level and output format for the process logger.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json or text
}

// InitLogger builds a structured logger writing to stdout. Unknown levels
// fall back to info and unknown formats to text. Installing it as the
// process default is left to the caller.
func InitLogger(cfg LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
