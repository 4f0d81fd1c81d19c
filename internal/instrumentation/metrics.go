package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrStatus = "status"
	attrTool   = "tool"
)

// Metrics provides methods for recording observability metrics.
//
// Two metric families are exposed: MCP tool metrics, recorded per tool
// invocation at the server boundary, and host script metrics, recorded
// per osascript execution inside the bridge. A single tool call can
// produce zero or several script executions.
type Metrics struct {
	// MCP tool metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	// Host script metrics
	scriptExecutionsTotal metric.Int64Counter
	scriptDuration        metric.Float64Histogram
	scriptQueueWait       metric.Float64Histogram
}

// NewMetrics creates a Metrics instance with all instruments initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	m.scriptExecutionsTotal, err = meter.Int64Counter(
		"omnifocus_script_executions_total",
		metric.WithDescription("Total number of OmniFocus host script executions"),
		metric.WithUnit("{execution}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create omnifocus_script_executions_total counter: %w", err)
	}

	m.scriptDuration, err = meter.Float64Histogram(
		"omnifocus_script_duration_seconds",
		metric.WithDescription("OmniFocus host script execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create omnifocus_script_duration_seconds histogram: %w", err)
	}

	m.scriptQueueWait, err = meter.Float64Histogram(
		"omnifocus_script_queue_wait_seconds",
		metric.WithDescription("Time scripts spent waiting for the single-slot execution queue"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create omnifocus_script_queue_wait_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordToolInvocation records an MCP tool invocation with tool name,
// status ("success" or "error") and duration.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	if m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordScriptExecution records one host script execution. It implements
// the bridge executor's recorder interface. Status is one of the
// executor's execution status labels (success, timeout, script_error,
// unavailable).
func (m *Metrics) RecordScriptExecution(ctx context.Context, status string, queueWait, duration time.Duration) {
	if m.scriptExecutionsTotal == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrStatus, status),
	}

	m.scriptExecutionsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.scriptDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	m.scriptQueueWait.Record(ctx, queueWait.Seconds())
}
