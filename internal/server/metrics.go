package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"omnibridge/internal/instrumentation"
)

// Metrics server defaults.
const (
	DefaultMetricsAddr = ":9090"

	DefaultMetricsReadTimeout  = 10 * time.Second
	DefaultMetricsWriteTimeout = 10 * time.Second
	DefaultMetricsIdleTimeout  = 60 * time.Second

	// DefaultShutdownTimeout bounds graceful server shutdown.
	DefaultShutdownTimeout = 30 * time.Second
)

// MetricsServerConfig holds configuration for the metrics server.
type MetricsServerConfig struct {
	// Addr is the address to bind the metrics server to (e.g., ":9090").
	Addr string

	// Enabled determines whether the metrics server should be started.
	Enabled bool

	// InstrumentationProvider provides the Prometheus metrics handler.
	InstrumentationProvider *instrumentation.Provider

	// Health optionally registers liveness and readiness endpoints on the
	// same listener.
	Health *HealthChecker
}

// MetricsServer serves Prometheus metrics on a port separate from the MCP
// transport.
type MetricsServer struct {
	httpServer *http.Server
	addr       string
	health     *HealthChecker
}

// NewMetricsServer creates a metrics server. The server exposes /metrics
// for Prometheus scraping and, when a HealthChecker is configured, the
// health probe endpoints.
func NewMetricsServer(config MetricsServerConfig) (*MetricsServer, error) {
	if config.Addr == "" {
		config.Addr = DefaultMetricsAddr
	}

	if config.InstrumentationProvider == nil {
		return nil, fmt.Errorf("instrumentation provider is required for metrics server")
	}

	if !config.InstrumentationProvider.Enabled() {
		return nil, fmt.Errorf("instrumentation provider is not enabled")
	}

	return &MetricsServer{
		addr:   config.Addr,
		health: config.Health,
	}, nil
}

// Start starts the metrics server and blocks until it stops. Call in a
// goroutine for non-blocking operation.
func (s *MetricsServer) Start() error {
	return s.StartWithReadySignal(nil)
}

// StartWithReadySignal starts the metrics server and closes ready once
// the listener is bound. It blocks until the server stops.
func (s *MetricsServer) StartWithReadySignal(ready chan<- struct{}) error {
	mux := http.NewServeMux()

	// The OpenTelemetry prometheus exporter registers into the global
	// Prometheus registry, which promhttp.Handler() exposes.
	mux.Handle("/metrics", promhttp.Handler())

	if s.health != nil {
		s.health.RegisterHealthEndpoints(mux)
	} else {
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
	}

	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: DefaultMetricsReadTimeout,
		WriteTimeout:      DefaultMetricsWriteTimeout,
		IdleTimeout:       DefaultMetricsIdleTimeout,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to bind metrics listener on %s: %w", s.addr, err)
	}
	// With a ":0" address the bound port is only known now.
	s.addr = listener.Addr().String()
	if ready != nil {
		close(ready)
	}

	slog.Info("starting metrics server", "addr", s.addr)
	return s.httpServer.Serve(listener)
}

// Shutdown gracefully shuts down the metrics server.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		slog.Info("shutting down metrics server")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Addr returns the metrics listen address. Once the server has started
// it reflects the actually bound address.
func (s *MetricsServer) Addr() string {
	return s.addr
}
