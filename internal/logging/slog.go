package logging

import (
	"log/slog"
	"time"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation = "operation"
	KeyTool      = "tool"
	KeyDuration  = "duration"
	KeyStatus    = "status"
	KeyError     = "error"
	KeyErrorKind = "error_kind"
	KeyTransport = "transport"
)

// Status values for consistent logging.
// Note: These are intentionally duplicated from instrumentation package
// to avoid circular dependencies (instrumentation imports logging).
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// WithTool returns a logger with the tool attribute set.
func WithTool(logger *slog.Logger, tool string) *slog.Logger {
	return logger.With(slog.String(KeyTool, tool))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Tool returns a slog attribute for the tool name.
func Tool(tool string) slog.Attr {
	return slog.String(KeyTool, tool)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Duration returns a slog attribute for an operation duration.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration(KeyDuration, d)
}

// Transport returns a slog attribute for the server transport.
func Transport(transport string) slog.Attr {
	return slog.String(KeyTransport, transport)
}

// ErrorKind returns a slog attribute for a bridge error classification.
func ErrorKind(kind string) slog.Attr {
	return slog.String(KeyErrorKind, kind)
}

// Err returns a slog attribute for an error.
// If err is nil, returns an empty Group attribute that will be omitted from output.
// This allows safely passing Err(maybeNilErr) without adding empty attributes.
//
// Usage:
//
//	logger.Info("operation", logging.Err(err))  // Safe even if err is nil
func Err(err error) slog.Attr {
	if err == nil {
		// Return an empty Group that slog will omit from output
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}
