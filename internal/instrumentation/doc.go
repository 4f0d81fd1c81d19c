// Package instrumentation provides OpenTelemetry instrumentation for the
// omnibridge MCP server.
//
// This package enables observability through:
//   - OpenTelemetry metrics for MCP tool invocations and host script runs
//   - Distributed tracing for tool and bridge operations
//   - Prometheus metrics export via /metrics endpoint on a dedicated port
//   - OTLP export support for modern observability platforms
//   - Audit logging with per-invocation correlation IDs
//
// # Metrics
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of tool execution durations
//
// Host Script Metrics:
//   - omnifocus_script_executions_total: Counter of host script executions by status
//   - omnifocus_script_duration_seconds: Histogram of script execution durations
//   - omnifocus_script_queue_wait_seconds: Histogram of execution queue wait times
//
// # Tracing
//
// Spans are created for MCP tool invocations (tool.<name>) and host
// script executions (omnifocus.<operation>).
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: omnibridge)
//   - AUDIT_LOGGING_ENABLED: Enable/disable audit events (default: true)
//   - AUDIT_LOGGING_INCLUDE_ARGUMENTS: Include tool arguments in audit events (default: false)
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
//		ServiceName:    "omnibridge",
//		ServiceVersion: "0.1.0",
//		Enabled:        true,
//	})
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	recorder := provider.Metrics()
//	recorder.RecordToolInvocation(ctx, "omnifocus_add_task", "success", time.Since(start))
package instrumentation
