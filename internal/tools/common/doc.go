// Package common provides shared helpers for MCP tool handlers.
//
// The main entry point is InstrumentedToolHandler, which wraps a tool
// handler with metrics recording and audit logging so that individual
// tool packages do not repeat that plumbing.
package common
