package common

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"omnibridge/internal/instrumentation"
	"omnibridge/internal/omnifocus"
	"omnibridge/internal/server"
)

// ToolInfo describes a tool for instrumentation purposes.
type ToolInfo struct {
	// Name is the registered tool name, e.g. "omnifocus_add_task".
	Name string

	// Operation is the bridge operation the tool performs, e.g. "add_task".
	Operation string

	// Mutating marks tools that change the task database.
	Mutating bool
}

// InstrumentedToolHandler wraps a tool handler with metrics recording and
// audit logging. Each call produces one tool invocation metric sample and,
// when audit logging is configured, one audit event.
//
// Usage:
//
//	s.AddTool(tool, common.InstrumentedToolHandler(info, sc, handler))
func InstrumentedToolHandler(
	info ToolInfo,
	sc *server.ServerContext,
	handler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error),
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()

		if metrics == nil && auditLogger == nil {
			return handler(ctx, request)
		}

		start := time.Now()
		invocation := instrumentation.NewToolInvocation(info.Name).
			WithOperation(info.Operation).
			WithMutating(info.Mutating).
			WithSpanContext(ctx)

		if auditLogger != nil && auditLogger.IncludeArguments() {
			invocation.WithArguments(instrumentation.SummarizeArguments(request.GetArguments()))
		}

		result, err := handler(ctx, request)
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		if err != nil || (result != nil && result.IsError) {
			status = instrumentation.StatusError
			if err != nil {
				invocation.CompleteWithError(err)
				invocation.ErrorKind = string(omnifocus.KindOf(err))
			} else {
				invocation.Complete(false, nil)
			}
		} else {
			invocation.CompleteSuccess()
		}

		if metrics != nil {
			metrics.RecordToolInvocation(ctx, info.Name, status, duration)
		}
		if auditLogger != nil {
			auditLogger.LogToolInvocation(invocation)
		}

		return result, err
	}
}

// failurePayload is the structured failure body returned at the tool
// boundary. Kind and Retryable let callers react without parsing the
// message text.
type failurePayload struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	Retryable bool   `json:"retryable"`
}

// ToolError converts an error into an MCP tool failure result carrying
// the bridge error classification and retryability. The handler error
// return stays nil so the client receives a structured failure instead
// of a protocol error.
func ToolError(err error) (*mcp.CallToolResult, error) {
	payload := failurePayload{Error: err.Error()}

	var bridgeErr *omnifocus.Error
	if errors.As(err, &bridgeErr) {
		payload.Kind = string(bridgeErr.Kind)
		payload.Retryable = bridgeErr.Retryable()
	}

	body, marshalErr := json.MarshalIndent(payload, "", "  ")
	if marshalErr != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultError(string(body)), nil
}
