package core

import "log/slog"

// Logger is the structured logging surface used across the core. Arguments
// are alternating key/value pairs, slog style.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// SlogLogger adapts a *slog.Logger to the core Logger interface.
type SlogLogger struct {
	L *slog.Logger
}

// NewSlogLogger wraps logger; a nil logger falls back to slog.Default.
func NewSlogLogger(logger *slog.Logger) SlogLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return SlogLogger{L: logger}
}

// Debug logs at debug level.
func (l SlogLogger) Debug(msg string, args ...any) { l.L.Debug(msg, args...) }

// Info logs at info level.
func (l SlogLogger) Info(msg string, args ...any) { l.L.Info(msg, args...) }

// Warn logs at warn level.
func (l SlogLogger) Warn(msg string, args ...any) { l.L.Warn(msg, args...) }

// Error logs at error level.
func (l SlogLogger) Error(msg string, args ...any) { l.L.Error(msg, args...) }
