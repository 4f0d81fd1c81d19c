package server

import (
	"context"
	"sync"

	"omnibridge/internal/instrumentation"
	"omnibridge/internal/omnifocus"
)

// ServerContext holds the shared state of the MCP server: the OmniFocus
// bridge client, the instrumentation hooks, and the shutdown lifecycle.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	client   *omnifocus.Client
	readOnly bool

	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new server context around the bridge client.
func NewServerContext(ctx context.Context, client *omnifocus.Client, readOnly bool) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)

	return &ServerContext{
		ctx:      shutdownCtx,
		cancel:   cancel,
		client:   client,
		readOnly: readOnly,
	}
}

// Context returns the server's lifecycle context. It is canceled on
// shutdown.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Client returns the OmniFocus bridge client.
func (sc *ServerContext) Client() *omnifocus.Client {
	return sc.client
}

// ReadOnly reports whether mutating tools are disabled.
func (sc *ServerContext) ReadOnly() bool {
	return sc.readOnly
}

// SetMetrics attaches tool invocation metrics. May be left unset when
// instrumentation is disabled.
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
}

// Metrics returns the attached metrics, or nil.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetAuditLogger attaches the audit logger.
func (sc *ServerContext) SetAuditLogger(l *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = l
}

// AuditLogger returns the attached audit logger, or nil.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// IsShutdown returns whether the server has been shut down.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown cancels the lifecycle context. Safe to call more than once.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
