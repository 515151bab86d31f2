// Package logging wraps log/slog behind a small Logger interface so the
// interpreter can run with diagnostics written to a file or discarded.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// Logger is the logging surface used throughout smallsh.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement Logger.
type SlogAdapter struct {
	*slog.Logger
}

func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }
func (s *SlogAdapter) Info(msg string, args ...any)  { s.Logger.Info(msg, args...) }
func (s *SlogAdapter) Warn(msg string, args ...any)  { s.Logger.Warn(msg, args...) }
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NoOpLogger discards everything.
type NoOpLogger struct{}

func (NoOpLogger) Debug(string, ...any) {}
func (NoOpLogger) Info(string, ...any)  {}
func (NoOpLogger) Warn(string, ...any)  {}
func (NoOpLogger) Error(string, ...any) {}

// Options configures New.
type Options struct {
	Level  string // debug, info, warn or error
	Format string // text or json
	Output io.Writer
}

// New builds a slog-backed Logger tagged with a fresh session id.
func New(opts Options) Logger {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	hopts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}

	var handler slog.Handler
	if opts.Format == "json" {
		handler = slog.NewJSONHandler(opts.Output, hopts)
	} else {
		handler = slog.NewTextHandler(opts.Output, hopts)
	}
	return NewSlogAdapter(slog.New(handler).With("session_id", uuid.NewString()))
}

// Open returns a Logger appending to file, or a NoOpLogger when file is
// empty. The returned closer releases the file.
func Open(file, level, format string) (Logger, io.Closer, error) {
	if file == "" {
		return NoOpLogger{}, io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return New(Options{Level: level, Format: format, Output: f}), f, nil
}

func ParseLevel(s string) slog.Level {
	switch s {
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
