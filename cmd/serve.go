package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"omnibridge/internal/instrumentation"
	"omnibridge/internal/logging"
	"omnibridge/internal/omnifocus"
	"omnibridge/internal/server"
	"omnibridge/internal/tools/omnifocus_tools"
)

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

// ServeConfig holds the serve command configuration after flag and
// environment resolution.
type ServeConfig struct {
	Transport     string
	HTTPAddr      string
	ReadOnly      bool
	Debug         bool
	ScriptTimeout time.Duration
	OsascriptPath string
	Metrics       MetricsConfig
}

func newServeCmd() *cobra.Command {
	var config ServeConfig

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server exposing OmniFocus tools
for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport

Safety Mode:
  With --read-only, mutating tools (task and project creation, edits,
  removals, batch operations) are not registered at all. Query tools
  remain available.

Requirements:
  The server talks to OmniFocus through the macOS osascript host.
  OmniFocus must be installed; the host launches it on demand.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolveMetricsEnv(cmd, &config.Metrics)
			return runServe(config)
		},
	}

	cmd.Flags().StringVar(&config.Transport, "transport", "stdio", "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&config.HTTPAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&config.ReadOnly, "read-only", false, "Disable mutating tools; only queries are registered")
	cmd.Flags().BoolVar(&config.Debug, "debug", false, "Enable debug logging")
	cmd.Flags().DurationVar(&config.ScriptTimeout, "timeout", omnifocus.DefaultTimeout, "Deadline for a single automation script execution")
	cmd.Flags().StringVar(&config.OsascriptPath, "osascript", omnifocus.DefaultHostBin, "Path to the osascript binary")
	cmd.Flags().BoolVar(&config.Metrics.Enabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&config.Metrics.Addr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

// resolveMetricsEnv applies metrics environment variables when the
// corresponding flags were not set explicitly.
func resolveMetricsEnv(cmd *cobra.Command, config *MetricsConfig) {
	if !cmd.Flags().Changed("metrics-enabled") {
		if v := os.Getenv("METRICS_ENABLED"); v == "false" {
			config.Enabled = false
		}
	}
	if !cmd.Flags().Changed("metrics-addr") {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			config.Addr = addr
		}
	}
}

func runServe(config ServeConfig) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Stdout belongs to the MCP protocol on stdio; all logging goes to
	// stderr regardless of transport.
	setupLogging(config.Debug)
	log := logging.NewSlogAdapter(slog.Default())

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			log.Error("instrumentation shutdown failed", "error", err)
		}
	}()

	// Build the automation bridge: executor, then client. The metrics
	// recorder observes every host script execution.
	exec := omnifocus.NewExecutor(omnifocus.ExecutorConfig{
		Bin:      config.OsascriptPath,
		Timeout:  config.ScriptTimeout,
		Logger:   slog.Default(),
		Recorder: provider.Metrics(),
	})
	client := omnifocus.NewClient(exec, slog.Default())

	serverContext := server.NewServerContext(shutdownCtx, client, config.ReadOnly)
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			log.Error("server context shutdown failed", "error", err)
		}
	}()

	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(nil, instrConfig.AuditLogging))
	}

	// Create MCP server
	mcpSrv := mcpserver.NewMCPServer("omnibridge", version,
		mcpserver.WithToolCapabilities(true),
	)

	if err := omnifocus_tools.RegisterOmniFocusTools(mcpSrv, serverContext, config.ReadOnly); err != nil {
		return fmt.Errorf("failed to register OmniFocus tools: %w", err)
	}

	if config.ReadOnly {
		log.Info("starting in read-only mode; mutating tools are not registered")
	}

	// Start metrics server if enabled and not in stdio mode. In stdio mode
	// the process lifetime is tied to the client; a listener would outlive
	// its usefulness.
	var metricsServer *server.MetricsServer
	if config.Transport != "stdio" && config.Metrics.Enabled && provider.Enabled() {
		healthChecker := server.NewHealthChecker(serverContext)

		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    config.Metrics.Addr,
			Enabled:                 true,
			InstrumentationProvider: provider,
			Health:                  healthChecker,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		// Confirm the listener bound before continuing.
		metricsReady := make(chan struct{})
		metricsErr := make(chan error, 1)
		go func() {
			if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && err != http.ErrServerClosed {
				metricsErr <- err
			}
			close(metricsErr)
		}()

		select {
		case <-metricsReady:
			log.Info("metrics server started", "addr", metricsServer.Addr())
		case err := <-metricsErr:
			return fmt.Errorf("metrics server failed to start: %w", err)
		case <-time.After(5 * time.Second):
			return fmt.Errorf("metrics server startup timed out")
		}

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				log.Error("metrics server shutdown failed", "error", err)
			}
		}()
	}

	// Start the appropriate server based on transport type
	switch config.Transport {
	case "stdio":
		return runStdioServer(mcpSrv)
	case "streamable-http":
		log.Info("starting MCP server", logging.Transport(config.Transport), "addr", config.HTTPAddr)
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, config.HTTPAddr)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", config.Transport)
	}
}

// setupLogging directs slog output to stderr at the requested level.
func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, addr string) error {
	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv)

	mux := http.NewServeMux()
	mux.Handle("/mcp", streamable)

	healthChecker := server.NewHealthChecker(sc)
	healthChecker.RegisterHealthEndpoints(mux)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received, stopping HTTP server")
		healthChecker.SetReady(false)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
	}

	slog.Info("HTTP server stopped")
	return nil
}
