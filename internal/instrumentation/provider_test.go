package instrumentation

import (
	"context"
	"testing"
)

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{
		ServiceName: "omnibridge-test",
		Enabled:     false,
	})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}

	if provider.Enabled() {
		t.Error("Enabled() = true, want false")
	}
	if provider.Metrics() == nil {
		t.Error("disabled provider must still return a no-op metrics recorder")
	}
	if provider.Tracer("test") == nil {
		t.Error("disabled provider must return a noop tracer")
	}
	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewProvider_Prometheus(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, Config{
		ServiceName:     "omnibridge-test",
		ServiceVersion:  "0.0.1",
		Enabled:         true,
		MetricsExporter: ExporterPrometheus,
		TracingExporter: ExporterNone,
	})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	defer func() {
		_ = provider.Shutdown(ctx)
	}()

	if !provider.Enabled() {
		t.Error("Enabled() = false, want true")
	}
	if provider.Metrics() == nil {
		t.Fatal("Metrics() returned nil")
	}
	if provider.PrometheusHandler() == nil {
		t.Error("PrometheusHandler() should be set for prometheus exporter")
	}
	if provider.Tracer("test") == nil {
		t.Error("Tracer() returned nil")
	}
}

func TestNewProvider_UnsupportedExporter(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{
		ServiceName:     "omnibridge-test",
		Enabled:         true,
		MetricsExporter: "graphite",
	})
	if err == nil {
		t.Fatal("expected error for unsupported exporter")
	}
}

func TestNewProvider_ScriptRecorderIntegration(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, Config{
		ServiceName:     "omnibridge-test",
		Enabled:         true,
		MetricsExporter: ExporterPrometheus,
		TracingExporter: ExporterNone,
	})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	defer func() {
		_ = provider.Shutdown(ctx)
	}()

	// The metrics recorder doubles as the bridge executor's recorder.
	recorder := provider.Metrics()
	recorder.RecordScriptExecution(ctx, "success", 0, 0)
}
