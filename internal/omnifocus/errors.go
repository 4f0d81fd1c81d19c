package omnifocus

import (
	"errors"
	"fmt"
)

// ErrorKind classifies bridge failures so that tool callers can react
// programmatically. The kind is part of the structured failure payload
// returned at the tool boundary.
type ErrorKind string

const (
	// KindValidation indicates malformed input caught before any script
	// was generated. The request never reached the host.
	KindValidation ErrorKind = "validation_error"

	// KindEncoding indicates input that cannot be safely represented in
	// the scripting grammar (transport text or OmniJS string literals).
	KindEncoding ErrorKind = "encoding_error"

	// KindHostUnavailable indicates the scripting host process could not
	// be spawned, e.g. osascript missing or OmniFocus not installed.
	KindHostUnavailable ErrorKind = "host_unavailable"

	// KindTimeout indicates no response within the configured deadline.
	// The in-flight host process has been killed.
	KindTimeout ErrorKind = "timeout_error"

	// KindHostScript indicates the host executed the script but reported
	// a runtime fault. Detail carries the host's diagnostic text verbatim.
	KindHostScript ErrorKind = "host_script_error"

	// KindNotFound indicates a referenced task, project or perspective
	// does not exist at call time.
	KindNotFound ErrorKind = "not_found_error"

	// KindParse indicates host output that could not be decoded into the
	// expected shape and for which no plain-text fallback applies.
	KindParse ErrorKind = "parse_error"
)

// Error is the bridge error type. It carries the failure kind, the
// operation that produced it, and optionally the host's diagnostic output.
type Error struct {
	Kind    ErrorKind
	Op      string // operation name, e.g. "add_task"
	Message string
	Detail  string // host stderr or script error text, verbatim
	Err     error  // underlying error, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Message)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether resending the same request may succeed.
// Only host-side faults and timeouts qualify; validation and encoding
// failures require the caller to change its input first.
func (e *Error) Retryable() bool {
	return e.Kind == KindTimeout || e.Kind == KindHostScript
}

// KindOf returns the ErrorKind of err, or an empty string if err is not
// a bridge error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err is a bridge error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

func newError(kind ErrorKind, op, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		Message: fmt.Sprintf(format, args...),
	}
}
