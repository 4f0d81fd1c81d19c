package omnifocus

import (
	"encoding/json"
	"strings"
)

// The decoder's primary path is JSON. Non-JSON output is not an error by
// itself: some operations intentionally return plain status strings. The
// typed helpers below fail with a parse error only where a structured
// shape is required and no plain-text fallback applies.

// errorEnvelope is the script-level fault shape produced by the try/catch
// wrapper and by explicit "not found" returns inside the generated scripts.
type errorEnvelope struct {
	Error string `json:"error"`
}

// envelopeError inspects trimmed script output for an error envelope and
// maps it onto the taxonomy: "not found" messages become NotFound, every
// other script-reported fault is a host script error with the host's text
// preserved verbatim. Returns nil when the output is not an envelope.
func envelopeError(op, trimmed string) error {
	if !strings.HasPrefix(trimmed, "{") {
		return nil
	}
	var env errorEnvelope
	if err := json.Unmarshal([]byte(trimmed), &env); err != nil || env.Error == "" {
		return nil
	}
	kind := KindHostScript
	if strings.Contains(strings.ToLower(env.Error), "not found") {
		kind = KindNotFound
	}
	return &Error{Kind: kind, Op: op, Message: "script reported an error", Detail: env.Error}
}

// decodeJSON unmarshals trimmed output into v after the envelope check.
func decodeJSON(op, raw string, v any) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return newError(KindParse, op, "host returned no output")
	}
	if err := envelopeError(op, trimmed); err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(trimmed), v); err != nil {
		e := newError(KindParse, op, "host output is not the expected JSON shape")
		e.Detail = trimmed
		e.Err = err
		return e
	}
	return nil
}

// DecodeTasks decodes a JSON array of task records.
func DecodeTasks(op, raw string) ([]Task, error) {
	var tasks []Task
	if err := decodeJSON(op, raw, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// DecodeTask decodes a single task record.
func DecodeTask(op, raw string) (Task, error) {
	var task Task
	if err := decodeJSON(op, raw, &task); err != nil {
		return Task{}, err
	}
	return task, nil
}

// DecodeProjects decodes a JSON array of project records.
func DecodeProjects(op, raw string) ([]Project, error) {
	var projects []Project
	if err := decodeJSON(op, raw, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// DecodeTags decodes a JSON array of tag records.
func DecodeTags(op, raw string) ([]Tag, error) {
	var tags []Tag
	if err := decodeJSON(op, raw, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// DecodePerspectives decodes a JSON array of perspective records.
func DecodePerspectives(op, raw string) ([]Perspective, error) {
	var perspectives []Perspective
	if err := decodeJSON(op, raw, &perspectives); err != nil {
		return nil, err
	}
	return perspectives, nil
}

// DecodeDump decodes the database dump.
func DecodeDump(op, raw string) (*DatabaseDump, error) {
	var dump DatabaseDump
	if err := decodeJSON(op, raw, &dump); err != nil {
		return nil, err
	}
	return &dump, nil
}

// DecodeStatus decodes the outcome of a mutating operation. JSON
// `{id, name}` is the primary shape; anything else falls back to the
// trimmed raw text as an opaque status string.
func DecodeStatus(op, raw string) (StatusResult, error) {
	trimmed := strings.TrimSpace(raw)
	if err := envelopeError(op, trimmed); err != nil {
		return StatusResult{}, err
	}
	var res StatusResult
	if err := json.Unmarshal([]byte(trimmed), &res); err == nil && (res.ID != "" || res.Name != "") {
		return res, nil
	}
	return StatusResult{Text: trimmed}, nil
}
