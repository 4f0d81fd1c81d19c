// Package logging provides structured logging utilities for the
// automation bridge.
//
// This package centralizes logging patterns to ensure consistent,
// structured logging throughout the codebase using the standard
// library's slog package.
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "dump_database")
//	logger.Info("dump finished",
//	    logging.Status(logging.StatusSuccess),
//	    logging.Duration(elapsed))
//
// When the server speaks MCP over stdio, stdout belongs to the protocol;
// all logging must go to stderr.
package logging
