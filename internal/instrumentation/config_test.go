package instrumentation

import (
	"strings"
	"testing"
)

// clearInstrumentationEnv blanks every variable DefaultConfig reads so a
// test observes the built-in defaults. The env helpers treat an empty
// value as unset.
func clearInstrumentationEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OTEL_SERVICE_NAME",
		"OTEL_SERVICE_INSTANCE_ID",
		"HOSTNAME",
		"INSTRUMENTATION_ENABLED",
		"METRICS_EXPORTER",
		"TRACING_EXPORTER",
		"OTEL_EXPORTER_OTLP_ENDPOINT",
		"OTEL_EXPORTER_OTLP_INSECURE",
		"OTEL_TRACES_SAMPLER_ARG",
		"PROMETHEUS_ENDPOINT",
		"AUDIT_LOGGING_ENABLED",
		"AUDIT_LOGGING_INCLUDE_ARGUMENTS",
		"AUDIT_LOGGING_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	clearInstrumentationEnv(t)

	config := DefaultConfig()

	if config.ServiceName != "omnibridge" {
		t.Errorf("ServiceName = %q, want omnibridge", config.ServiceName)
	}
	if !config.Enabled {
		t.Error("instrumentation must be enabled by default")
	}
	if config.MetricsExporter != ExporterPrometheus {
		t.Errorf("MetricsExporter = %q, want %q", config.MetricsExporter, ExporterPrometheus)
	}
	if config.TracingExporter != ExporterNone {
		t.Errorf("TracingExporter = %q, want %q", config.TracingExporter, ExporterNone)
	}
	if config.TraceSamplingRate != 0.1 {
		t.Errorf("TraceSamplingRate = %f, want 0.1", config.TraceSamplingRate)
	}
	if config.PrometheusEndpoint != "/metrics" {
		t.Errorf("PrometheusEndpoint = %q, want /metrics", config.PrometheusEndpoint)
	}

	// Audit logging is on by default, argument capture is not: arguments
	// carry task names and notes.
	if !config.AuditLogging.Enabled {
		t.Error("audit logging must be enabled by default")
	}
	if config.AuditLogging.IncludeArguments {
		t.Error("argument capture must be opt-in")
	}
}

func TestDefaultConfigFromEnv(t *testing.T) {
	clearInstrumentationEnv(t)
	t.Setenv("OTEL_SERVICE_NAME", "bridge-dev")
	t.Setenv("INSTRUMENTATION_ENABLED", "false")
	t.Setenv("METRICS_EXPORTER", ExporterStdout)
	t.Setenv("TRACING_EXPORTER", ExporterStdout)
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.5")
	t.Setenv("AUDIT_LOGGING_INCLUDE_ARGUMENTS", "true")

	config := DefaultConfig()

	if config.ServiceName != "bridge-dev" {
		t.Errorf("ServiceName = %q, want bridge-dev", config.ServiceName)
	}
	if config.Enabled {
		t.Error("INSTRUMENTATION_ENABLED=false must disable instrumentation")
	}
	if config.MetricsExporter != ExporterStdout {
		t.Errorf("MetricsExporter = %q, want %q", config.MetricsExporter, ExporterStdout)
	}
	if config.TracingExporter != ExporterStdout {
		t.Errorf("TracingExporter = %q, want %q", config.TracingExporter, ExporterStdout)
	}
	if config.TraceSamplingRate != 0.5 {
		t.Errorf("TraceSamplingRate = %f, want 0.5", config.TraceSamplingRate)
	}
	if !config.AuditLogging.IncludeArguments {
		t.Error("AUDIT_LOGGING_INCLUDE_ARGUMENTS=true must enable argument capture")
	}
}

func TestDefaultConfigIgnoresMalformedEnv(t *testing.T) {
	clearInstrumentationEnv(t)
	t.Setenv("INSTRUMENTATION_ENABLED", "not-a-bool")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "not-a-float")

	config := DefaultConfig()

	if !config.Enabled {
		t.Error("malformed bool must keep the default")
	}
	if config.TraceSamplingRate != 0.1 {
		t.Errorf("malformed float must keep the default, got %f", config.TraceSamplingRate)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name: "otlp tracing with endpoint",
			mutate: func(c *Config) {
				c.TracingExporter = ExporterOTLP
				c.OTLPEndpoint = "localhost:4318"
			},
		},
		{
			name:    "negative sampling rate",
			mutate:  func(c *Config) { c.TraceSamplingRate = -0.5 },
			wantErr: "sampling rate",
		},
		{
			name:    "sampling rate above one",
			mutate:  func(c *Config) { c.TraceSamplingRate = 1.5 },
			wantErr: "sampling rate",
		},
		{
			name:    "unknown metrics exporter",
			mutate:  func(c *Config) { c.MetricsExporter = "graphite" },
			wantErr: "invalid metrics exporter",
		},
		{
			name:    "unknown tracing exporter",
			mutate:  func(c *Config) { c.TracingExporter = "jaeger" },
			wantErr: "invalid tracing exporter",
		},
		{
			name:    "otlp tracing without endpoint",
			mutate:  func(c *Config) { c.TracingExporter = ExporterOTLP },
			wantErr: "OTLP endpoint is required",
		},
		{
			name: "otlp metrics without endpoint",
			mutate: func(c *Config) {
				c.MetricsExporter = ExporterOTLP
			},
			wantErr: "OTLP endpoint is required",
		},
	}

	clearInstrumentationEnv(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(&config)

			err := config.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}
