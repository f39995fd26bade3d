package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New constructs a text logger on stdout with the desired log level.
func New(service, level string) *slog.Logger {
	return NewWriter(os.Stdout, service, level)
}

func NewWriter(w io.Writer, service, level string) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return slog.New(h).With("service", service)
}

func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
