package instrumentation

import (
	"strconv"
	"unicode/utf8"
)

// Audit argument sanitization.
//
// Audit events may carry tool argument summaries. Task names and notes
// are free-form user text; unbounded values bloat log storage and leak
// more content than an audit trail needs. TruncateArgument caps every
// logged value.

// MaxArgumentLength is the longest argument value included in audit
// events.
const MaxArgumentLength = 120

// TruncateArgument caps s at MaxArgumentLength runes, appending an
// ellipsis marker when the value was cut.
func TruncateArgument(s string) string {
	if utf8.RuneCountInString(s) <= MaxArgumentLength {
		return s
	}
	runes := []rune(s)
	return string(runes[:MaxArgumentLength]) + "..."
}

// SummarizeArguments builds a sanitized string map from raw tool
// arguments: scalar values are rendered and truncated, composite values
// are reduced to a type marker. Use with AuditLogger argument logging.
func SummarizeArguments(args map[string]any) map[string]string {
	if len(args) == 0 {
		return nil
	}
	out := make(map[string]string, len(args))
	for key, value := range args {
		switch v := value.(type) {
		case string:
			out[key] = TruncateArgument(v)
		case bool:
			out[key] = strconv.FormatBool(v)
		case float64:
			out[key] = strconv.FormatFloat(v, 'g', -1, 64)
		case nil:
			out[key] = ""
		case []any:
			out[key] = "[list]"
		default:
			out[key] = "[object]"
		}
	}
	return out
}
