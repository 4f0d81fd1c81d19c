package logging

import (
	"log/slog"
)

// Logger is the leveled logging surface bridge components accept. It
// keeps slog's variadic call shape, so the attribute helpers in this
// package (Operation, Transport, Err) pass straight through.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// SlogAdapter satisfies Logger on top of a slog.Logger.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter wraps logger. A nil logger falls back to slog.Default,
// which the serve command points at stderr; stdout carries the MCP
// protocol on the stdio transport.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

func (a *SlogAdapter) Debug(msg string, args ...interface{}) {
	a.logger.Debug(msg, args...)
}

func (a *SlogAdapter) Info(msg string, args ...interface{}) {
	a.logger.Info(msg, args...)
}

func (a *SlogAdapter) Warn(msg string, args ...interface{}) {
	a.logger.Warn(msg, args...)
}

func (a *SlogAdapter) Error(msg string, args ...interface{}) {
	a.logger.Error(msg, args...)
}

// Unwrap exposes the underlying slog.Logger for call sites that need
// handler-level features.
func (a *SlogAdapter) Unwrap() *slog.Logger {
	return a.logger
}
