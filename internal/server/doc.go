// Package server provides the MCP server context and its operational
// HTTP endpoints.
//
// ServerContext carries the OmniFocus bridge client, the read-only flag
// and the instrumentation hooks through the tool handlers, and owns the
// shutdown lifecycle.
//
// MetricsServer exposes Prometheus metrics on a dedicated port, separate
// from the MCP transport. HealthChecker provides liveness and readiness
// handlers suitable for Kubernetes probes or local supervision.
package server
