package logger

import (
	"io"
	"log/slog"
	"os"
)

func New(env string, jsonOut bool) *slog.Logger {
	return NewWriter(os.Stdout, env, jsonOut)
}

func NewWriter(w io.Writer, env string, jsonOut bool) *slog.Logger {
	level := slog.LevelInfo
	if env == "dev" {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if jsonOut {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h).With(slog.String("app", "goldmart"), slog.String("env", env))
}

// OrDefault lets components accept a nil logger.
func OrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
