package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
)

var _ Logger = (*SlogAdapter)(nil)

func captureAdapter(t *testing.T) (*SlogAdapter, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewSlogAdapter(logger), &buf
}

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var record map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("log output is not one JSON record: %v\n%s", err, buf.String())
	}
	return record
}

func TestSlogAdapterPassesAttributeHelpers(t *testing.T) {
	adapter, buf := captureAdapter(t)

	adapter.Info("host script executed",
		Operation("add_task"),
		Duration(0),
		"queue_wait", "0s",
	)

	record := lastRecord(t, buf)
	if record["msg"] != "host script executed" {
		t.Errorf("msg = %v, want host script executed", record["msg"])
	}
	if record[KeyOperation] != "add_task" {
		t.Errorf("%s = %v, want add_task", KeyOperation, record[KeyOperation])
	}
	if _, ok := record[KeyDuration]; !ok {
		t.Errorf("record lacks %s attribute: %v", KeyDuration, record)
	}
}

func TestSlogAdapterLevels(t *testing.T) {
	adapter, buf := captureAdapter(t)

	tests := []struct {
		level string
		log   func(msg string, args ...interface{})
	}{
		{"DEBUG", adapter.Debug},
		{"INFO", adapter.Info},
		{"WARN", adapter.Warn},
		{"ERROR", adapter.Error},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf.Reset()
			tt.log("queue drained")

			record := lastRecord(t, buf)
			if record["level"] != tt.level {
				t.Errorf("level = %v, want %s", record["level"], tt.level)
			}
		})
	}
}

func TestSlogAdapterWithBoundOperation(t *testing.T) {
	adapter, buf := captureAdapter(t)
	bound := NewSlogAdapter(WithOperation(adapter.Unwrap(), "dump_database"))

	bound.Warn("host script timed out", "timeout", "25s")

	record := lastRecord(t, buf)
	if record[KeyOperation] != "dump_database" {
		t.Errorf("%s = %v, want dump_database", KeyOperation, record[KeyOperation])
	}

	// The original adapter stays unbound.
	buf.Reset()
	adapter.Info("metrics server started")
	if _, ok := lastRecord(t, buf)[KeyOperation]; ok {
		t.Error("unbound adapter must not carry the operation attribute")
	}
}

func TestSlogAdapterErrAttribute(t *testing.T) {
	adapter, buf := captureAdapter(t)

	adapter.Error("host process could not be started", Err(errors.New("no such file")))
	record := lastRecord(t, buf)
	if record[KeyError] != "no such file" {
		t.Errorf("%s = %v, want no such file", KeyError, record[KeyError])
	}

	buf.Reset()
	adapter.Info("shutdown complete", Err(nil))
	if _, ok := lastRecord(t, buf)[KeyError]; ok {
		t.Error("Err(nil) must not emit an error attribute")
	}
}

func TestNewSlogAdapterNilFallsBack(t *testing.T) {
	adapter := NewSlogAdapter(nil)
	if adapter.Unwrap() == nil {
		t.Fatal("nil logger must fall back to slog.Default")
	}
}
