package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// Health status values reported by the probe endpoints.
const (
	healthStatusOK           = "ok"
	healthStatusNotReady     = "not ready"
	healthStatusShuttingDown = "shutting down"
)

// HealthChecker provides liveness and readiness endpoints.
type HealthChecker struct {
	ready atomic.Bool
	sc    *ServerContext
	start time.Time
}

// NewHealthChecker creates a HealthChecker. The server starts ready.
func NewHealthChecker(sc *ServerContext) *HealthChecker {
	h := &HealthChecker{
		sc:    sc,
		start: time.Now(),
	}
	h.ready.Store(true)
	return h
}

// SetReady sets the readiness state of the server.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady returns whether the server is ready to receive traffic.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

func (h *HealthChecker) shuttingDown() bool {
	return h.sc != nil && h.sc.IsShutdown()
}

// HealthResponse is the JSON body of the probe endpoints.
type HealthResponse struct {
	Status string            `json:"status"`
	Uptime string            `json:"uptime,omitempty"`
	Checks map[string]string `json:"checks,omitempty"`
}

func writeHealth(w http.ResponseWriter, code int, resp HealthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}

// LivenessHandler serves /healthz. Liveness only asserts the process is
// running and responsive.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeHealth(w, http.StatusOK, HealthResponse{Status: healthStatusOK})
	})
}

// ReadinessHandler serves /readyz. Readiness reports whether the server
// should receive traffic: it fails while shutting down or when readiness
// has been withdrawn.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		checks := make(map[string]string)
		allOK := true

		if h.ready.Load() {
			checks["ready"] = healthStatusOK
		} else {
			checks["ready"] = healthStatusNotReady
			allOK = false
		}

		if h.shuttingDown() {
			checks["shutdown"] = healthStatusShuttingDown
			allOK = false
		} else {
			checks["shutdown"] = healthStatusOK
		}

		resp := HealthResponse{Checks: checks}
		if allOK {
			resp.Status = healthStatusOK
			writeHealth(w, http.StatusOK, resp)
		} else {
			resp.Status = healthStatusNotReady
			writeHealth(w, http.StatusServiceUnavailable, resp)
		}
	})
}

// DetailedHealthHandler serves /healthz/detailed with uptime included.
func (h *HealthChecker) DetailedHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		resp := HealthResponse{
			Status: healthStatusOK,
			Uptime: time.Since(h.start).Truncate(time.Second).String(),
		}

		switch {
		case !h.ready.Load():
			resp.Status = healthStatusNotReady
			writeHealth(w, http.StatusServiceUnavailable, resp)
		case h.shuttingDown():
			resp.Status = healthStatusShuttingDown
			writeHealth(w, http.StatusServiceUnavailable, resp)
		default:
			writeHealth(w, http.StatusOK, resp)
		}
	})
}

// RegisterHealthEndpoints registers the probe endpoints on mux.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.Handle("/healthz", h.LivenessHandler())
	mux.Handle("/readyz", h.ReadinessHandler())
	mux.Handle("/healthz/detailed", h.DetailedHealthHandler())
}
