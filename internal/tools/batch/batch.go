package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Result statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result represents the outcome of a single item in a batch. ID carries
// whatever identifies the item to the caller: a task identifier for
// completion batches, the task name for creation batches.
type Result struct {
	ID     string `json:"id"`
	Status string `json:"status"` // "success" or "error"
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
	// Retryable is set on errors that may succeed if the same item is
	// resubmitted (host timeouts and host script faults).
	Retryable bool `json:"retryable,omitempty"`
}

// BatchResult aggregates the per-item results of a batch operation.
type BatchResult struct {
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Results    []Result `json:"results"`
}

// ParseStringOrArray parses a parameter that can be a single string, an
// array of strings, or a JSON-encoded array of strings. MCP clients
// disagree on how they send list arguments, so all three shapes are
// accepted.
func ParseStringOrArray(param interface{}, paramName string) ([]string, error) {
	if param == nil {
		return nil, fmt.Errorf("%s is required", paramName)
	}

	var result []string

	switch v := param.(type) {
	case string:
		if v == "" {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		if strings.HasPrefix(strings.TrimSpace(v), "[") {
			var arr []string
			if err := json.Unmarshal([]byte(v), &arr); err == nil {
				return validateStrings(arr, paramName)
			}
		}
		result = []string{v}
	case []interface{}:
		if len(v) == 0 {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		for i, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string", paramName, i)
			}
			if str == "" {
				return nil, fmt.Errorf("%s[%d] cannot be empty", paramName, i)
			}
			result = append(result, str)
		}
	default:
		return nil, fmt.Errorf("%s must be a string or array of strings", paramName)
	}

	return result, nil
}

func validateStrings(arr []string, paramName string) ([]string, error) {
	if len(arr) == 0 {
		return nil, fmt.Errorf("%s cannot be empty", paramName)
	}
	for i, s := range arr {
		if s == "" {
			return nil, fmt.Errorf("%s[%d] cannot be empty", paramName, i)
		}
	}
	return arr, nil
}

// FormatResults creates a formatted JSON string from batch results.
func FormatResults(results []Result) string {
	br := BatchResult{
		Total:   len(results),
		Results: results,
	}

	for _, r := range results {
		if r.Status == StatusSuccess {
			br.Successful++
		} else {
			br.Failed++
		}
	}

	jsonBytes, _ := json.MarshalIndent(br, "", "  ")
	return string(jsonBytes)
}

// ProcessBatch executes fn on each item in order and collects per-item
// results. Items are processed sequentially; the automation host cannot
// run scripts concurrently anyway. One failing item never aborts the
// batch, but context cancellation does: remaining items are marked as
// errors without being attempted.
func ProcessBatch(ctx context.Context, ids []string, fn func(id string) (string, error)) []Result {
	results := make([]Result, 0, len(ids))

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			for _, rest := range ids[i:] {
				results = append(results, Result{
					ID:     rest,
					Status: StatusError,
					Error:  "batch canceled: " + err.Error(),
				})
			}
			break
		}

		res, err := fn(id)
		results = append(results, ResultFor(id, res, err))
	}

	return results
}

// ResultFor builds the Result for one processed item. Errors exposing a
// Retryable() method (bridge errors do) mark the result retryable so the
// caller can resubmit just the failed subset.
func ResultFor(id, res string, err error) Result {
	if err == nil {
		return NewSuccessResult(id, res)
	}
	var retryable interface{ Retryable() bool }
	if errors.As(err, &retryable) && retryable.Retryable() {
		return NewRetryableErrorResult(id, err)
	}
	return NewErrorResult(id, err)
}

// NewSuccessResult creates a success result.
func NewSuccessResult(id, message string) Result {
	return Result{
		ID:     id,
		Status: StatusSuccess,
		Result: message,
	}
}

// NewErrorResult creates an error result.
func NewErrorResult(id string, err error) Result {
	return Result{
		ID:     id,
		Status: StatusError,
		Error:  err.Error(),
	}
}

// NewRetryableErrorResult creates an error result flagged as retryable.
func NewRetryableErrorResult(id string, err error) Result {
	return Result{
		ID:        id,
		Status:    StatusError,
		Error:     err.Error(),
		Retryable: true,
	}
}
