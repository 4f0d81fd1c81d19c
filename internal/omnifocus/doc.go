// Package omnifocus provides the OmniFocus automation bridge.
//
// The bridge turns typed requests into OmniJS scripts, delivers them to
// the OmniFocus scripting host through osascript, and decodes the host's
// output into Go types. The package is organized as a pipeline:
//   - Script builders (script.go, transport.go) render validated requests
//     into self-contained OmniJS. Task creation prefers the compact
//     transport-text grammar and falls back to structured object
//     construction for values the grammar cannot carry.
//   - The Executor (executor.go) owns the osascript subprocess lifecycle:
//     one process per call, scripts fed on stdin, a hard deadline per
//     call, and a single-slot queue that serializes all host access.
//   - Decoders (decode.go) parse script output: JSON first, the script
//     error envelope mapped onto the error taxonomy, and a plain-text
//     fallback for status strings.
//   - The filter engine (filter.go) and perspective evaluator
//     (perspective.go) run in memory over decoded results, keeping query
//     logic out of generated scripts.
//
// Client ties the pipeline together and is the only type most callers
// need:
//
//	exec := omnifocus.NewExecutor(omnifocus.ExecutorConfig{})
//	client := omnifocus.NewClient(exec, logger)
//
//	tasks, err := client.InboxTasks(ctx)
//	if err != nil {
//	    if omnifocus.IsKind(err, omnifocus.KindHostUnavailable) {
//	        // OmniFocus or osascript is not available on this machine.
//	    }
//	    return err
//	}
//
// All errors returned by the package are *Error values carrying an
// ErrorKind; KindOf and IsKind classify them without unwrapping.
package omnifocus
