// Package omnifocus_tools registers the OmniFocus bridge tools with the
// MCP server.
//
// Query tools (inbox, flagged, forecast, completed-today, task lookups,
// filtering, perspectives, projects, tags, database dump) are always
// registered. Mutating tools (create, edit, remove, batch operations) are
// only registered when the server is not in read-only mode, so read-only
// clients never see them.
//
// Every handler is wrapped by common.InstrumentedToolHandler for metrics
// and audit logging, and every failure is returned as a structured
// payload carrying the bridge error kind and a retryable flag.
package omnifocus_tools
