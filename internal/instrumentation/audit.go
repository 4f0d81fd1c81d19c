package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// ToolInvocation captures one MCP tool call against the task database for
// audit logging. Every invocation gets a unique ID so that a tool call,
// its host script executions and its audit event can be correlated.
type ToolInvocation struct {
	// InvocationID uniquely identifies this invocation.
	InvocationID string

	// Tool name, e.g. "omnifocus_add_task".
	Tool string

	// Operation is the bridge operation behind the tool, when known.
	Operation string

	// Mutating indicates whether the tool changes the task database.
	Mutating bool

	// Arguments holds a sanitized summary of the tool arguments. Only
	// populated when the audit logger is configured to include them.
	Arguments map[string]string

	// Execution details
	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	// ErrorKind is the bridge error classification, when the failure came
	// from the bridge.
	ErrorKind string

	// Tracing context
	TraceID string
	SpanID  string
}

// Status returns "success" or "error" based on the Success field.
func (ti *ToolInvocation) Status() string {
	if ti.Success {
		return StatusSuccess
	}
	return StatusError
}

// LogAttrs returns slog attributes for structured audit logging.
func (ti *ToolInvocation) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("invocation_id", ti.InvocationID),
		slog.String("tool", ti.Tool),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", ti.Success),
	}

	if ti.Operation != "" {
		attrs = append(attrs, slog.String("operation", ti.Operation))
	}
	if ti.Mutating {
		attrs = append(attrs, slog.Bool("mutating", true))
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID))
	}
	if ti.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", ti.SpanID))
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String("error", ti.Error))
	}
	if ti.ErrorKind != "" {
		attrs = append(attrs, slog.String("error_kind", ti.ErrorKind))
	}
	for key, value := range ti.Arguments {
		attrs = append(attrs, slog.String("arg_"+key, value))
	}

	return attrs
}

// NewToolInvocation creates a ToolInvocation with timing started and a
// fresh invocation ID. Call Complete when the tool operation finishes.
func NewToolInvocation(tool string) *ToolInvocation {
	return &ToolInvocation{
		InvocationID: uuid.NewString(),
		Tool:         tool,
		StartTime:    time.Now(),
	}
}

// WithOperation sets the bridge operation name.
func (ti *ToolInvocation) WithOperation(operation string) *ToolInvocation {
	ti.Operation = operation
	return ti
}

// WithMutating marks the invocation as a database mutation.
func (ti *ToolInvocation) WithMutating(mutating bool) *ToolInvocation {
	ti.Mutating = mutating
	return ti
}

// WithArguments attaches a sanitized argument summary.
func (ti *ToolInvocation) WithArguments(args map[string]string) *ToolInvocation {
	ti.Arguments = args
	return ti
}

// WithSpanContext extracts trace context from the current span.
func (ti *ToolInvocation) WithSpanContext(ctx context.Context) *ToolInvocation {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		ti.TraceID = span.SpanContext().TraceID().String()
		ti.SpanID = span.SpanContext().SpanID().String()
	}
	return ti
}

// Complete marks the invocation as completed and calculates the duration.
// Returns the same ToolInvocation for method chaining.
func (ti *ToolInvocation) Complete(success bool, err error) *ToolInvocation {
	ti.Duration = time.Since(ti.StartTime)
	ti.Success = success
	if err != nil {
		ti.Error = err.Error()
	}
	return ti
}

// CompleteWithError marks the invocation as failed with the given error.
func (ti *ToolInvocation) CompleteWithError(err error) *ToolInvocation {
	return ti.Complete(false, err)
}

// CompleteSuccess marks the invocation as successful.
func (ti *ToolInvocation) CompleteSuccess() *ToolInvocation {
	return ti.Complete(true, nil)
}

// AuditLogger provides structured audit logging for tool invocations.
type AuditLogger struct {
	logger           *slog.Logger
	includeArguments bool
	enabled          bool
}

// NewAuditLogger creates an AuditLogger with argument logging disabled.
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:  logger,
		enabled: true,
	}
}

// NewAuditLoggerWithConfig creates an AuditLogger from config.
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:           logger,
		includeArguments: config.IncludeArguments,
		enabled:          config.Enabled,
	}
}

// IncludeArguments reports whether argument summaries are logged.
func (al *AuditLogger) IncludeArguments() bool {
	return al.includeArguments
}

// SetEnabled sets whether audit logging is enabled.
func (al *AuditLogger) SetEnabled(enabled bool) {
	al.enabled = enabled
}

// LogToolInvocation emits the audit event for a completed invocation.
// Task names and notes only appear when argument logging is enabled.
func (al *AuditLogger) LogToolInvocation(ti *ToolInvocation) {
	if !al.enabled {
		return
	}

	if !al.includeArguments {
		ti.Arguments = nil
	}

	attrs := ti.LogAttrs()
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}

	if ti.Success {
		al.logger.Info("tool_executed", args...)
	} else {
		al.logger.Warn("tool_failed", args...)
	}
}
