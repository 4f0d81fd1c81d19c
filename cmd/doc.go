// Package cmd implements the command-line interface for omnibridge.
//
// This package provides the following commands:
//   - serve: Start the MCP server exposing OmniFocus tools for AI assistants
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
