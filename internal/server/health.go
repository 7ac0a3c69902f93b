package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// Health status constants for health check responses.
const (
	healthStatusOK           = "ok"
	healthStatusNotReady     = "not ready"
	healthStatusShuttingDown = "shutting down"
	healthStatusNoAccounts   = "no accounts configured"
)

// HealthChecker serves liveness and readiness endpoints for the HTTP transport.
type HealthChecker struct {
	ready         atomic.Bool
	serverContext *ServerContext
	startTime     time.Time
}

// NewHealthChecker creates a HealthChecker that starts out ready.
func NewHealthChecker(sc *ServerContext) *HealthChecker {
	h := &HealthChecker{
		serverContext: sc,
		startTime:     time.Now(),
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

// HealthResponse represents the JSON response for health endpoints.
type HealthResponse struct {
	Status   string            `json:"status"`
	Checks   map[string]string `json:"checks,omitempty"`
	Accounts int               `json:"accounts,omitempty"`
	Uptime   string            `json:"uptime,omitempty"`
}

// LivenessHandler returns the /healthz handler. It only reports that the
// process is serving.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeHealth(w, http.StatusOK, HealthResponse{Status: healthStatusOK})
	})
}

// ReadinessHandler returns the /readyz handler. The server is ready when it
// is not shutting down and at least one account has credentials.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		resp := h.check()
		code := http.StatusOK
		if resp.Status != healthStatusOK {
			code = http.StatusServiceUnavailable
		}
		writeHealth(w, code, resp)
	})
}

func (h *HealthChecker) check() HealthResponse {
	resp := HealthResponse{
		Status: healthStatusOK,
		Checks: make(map[string]string),
		Uptime: time.Since(h.startTime).Truncate(time.Second).String(),
	}

	if h.ready.Load() {
		resp.Checks["ready"] = healthStatusOK
	} else {
		resp.Checks["ready"] = healthStatusNotReady
		resp.Status = healthStatusNotReady
	}

	if h.serverContext == nil {
		return resp
	}

	if h.serverContext.IsShutdown() {
		resp.Checks["shutdown"] = healthStatusShuttingDown
		resp.Status = healthStatusNotReady
	} else {
		resp.Checks["shutdown"] = healthStatusOK
	}

	accounts, err := h.serverContext.Accounts()
	switch {
	case err != nil:
		resp.Checks["accounts"] = err.Error()
		resp.Status = healthStatusNotReady
	case len(accounts) == 0:
		resp.Checks["accounts"] = healthStatusNoAccounts
		resp.Status = healthStatusNotReady
	default:
		resp.Checks["accounts"] = healthStatusOK
		resp.Accounts = len(accounts)
	}
	return resp
}

// RegisterHealthEndpoints registers health check endpoints on the given mux.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.Handle("/healthz", h.LivenessHandler())
	mux.Handle("/readyz", h.ReadinessHandler())
}

func writeHealth(w http.ResponseWriter, code int, resp HealthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
