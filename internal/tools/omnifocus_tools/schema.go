package omnifocus_tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"omnibridge/internal/omnifocus"
)

// batchTaskSchema validates one item of a batch task creation request
// before any script generation happens. Schema failures are validation
// errors; nothing reaches the host.
const batchTaskSchema = `{
  "type": "object",
  "required": ["name"],
  "additionalProperties": false,
  "properties": {
    "name":       {"type": "string", "minLength": 1},
    "note":       {"type": "string"},
    "project":    {"type": "string"},
    "context":    {"type": "string"},
    "due_date":   {"type": "string"},
    "defer_date": {"type": "string"},
    "flagged":    {"type": "boolean"},
    "tags":       {"type": "array", "items": {"type": "string", "minLength": 1}}
  }
}`

var batchTaskSchemaLoader = gojsonschema.NewStringLoader(batchTaskSchema)

// parsedBatchTask is one item of a batch creation request after schema
// validation. Err is set when the item failed validation; the item keeps
// its slot in the batch so siblings are processed either way.
type parsedBatchTask struct {
	Label string
	Input omnifocus.TaskInput
	Err   error
}

// parseBatchTaskInputs decodes the "tasks" argument of a batch creation
// request. It accepts an array of task objects or a JSON-encoded string
// of the same shape. Only request-level shape errors (missing, empty,
// not an array) abort the call; a schema failure is recorded on its item
// and the rest of the batch still runs.
func parseBatchTaskInputs(raw interface{}) ([]parsedBatchTask, error) {
	items, err := batchTaskItems(raw)
	if err != nil {
		return nil, err
	}

	parsed := make([]parsedBatchTask, 0, len(items))
	for i, item := range items {
		parsed = append(parsed, parseBatchTaskItem(i, item))
	}
	return parsed, nil
}

// parseBatchTaskItem validates one item against the schema and decodes it.
func parseBatchTaskItem(index int, item interface{}) parsedBatchTask {
	p := parsedBatchTask{Label: batchItemLabel(index, item)}

	result, err := gojsonschema.Validate(batchTaskSchemaLoader, gojsonschema.NewGoLoader(item))
	if err != nil {
		p.Err = fmt.Errorf("tasks[%d]: %w", index, err)
		return p
	}
	if !result.Valid() {
		p.Err = fmt.Errorf("tasks[%d]: %s", index, schemaErrors(result))
		return p
	}

	// The schema guarantees the shape, so the round-trip cannot fail.
	body, err := json.Marshal(item)
	if err != nil {
		p.Err = fmt.Errorf("tasks[%d]: %w", index, err)
		return p
	}
	if err := json.Unmarshal(body, &p.Input); err != nil {
		p.Err = fmt.Errorf("tasks[%d]: %w", index, err)
		return p
	}
	return p
}

// batchItemLabel identifies an item in per-item results. Invalid items
// may lack a usable name, so the positional form stands in.
func batchItemLabel(index int, item interface{}) string {
	if m, ok := item.(map[string]interface{}); ok {
		if name, ok := m["name"].(string); ok && name != "" {
			return name
		}
	}
	return fmt.Sprintf("tasks[%d]", index)
}

// batchTaskItems normalizes the tasks argument into a slice of items.
func batchTaskItems(raw interface{}) ([]interface{}, error) {
	switch v := raw.(type) {
	case nil:
		return nil, fmt.Errorf("tasks is required")
	case []interface{}:
		if len(v) == 0 {
			return nil, fmt.Errorf("tasks cannot be empty")
		}
		return v, nil
	case string:
		var items []interface{}
		if err := json.Unmarshal([]byte(v), &items); err != nil {
			return nil, fmt.Errorf("tasks must be a JSON array of task objects: %w", err)
		}
		if len(items) == 0 {
			return nil, fmt.Errorf("tasks cannot be empty")
		}
		return items, nil
	default:
		return nil, fmt.Errorf("tasks must be an array of task objects")
	}
}

// schemaErrors flattens validation results into one message.
func schemaErrors(result *gojsonschema.Result) string {
	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return strings.Join(msgs, "; ")
}
