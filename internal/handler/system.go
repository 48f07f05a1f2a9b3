package handler

import (
	"context"
	"net/http"
	"time"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type SystemHandler struct {
	name      string
	version   string
	database  Pinger
	cache     Pinger
	logger    Logger
	startTime time.Time
}

// NewSystemHandler creates a SystemHandler. cache may be nil when no shared
// cache is configured.
func NewSystemHandler(name, version string, database, cache Pinger, log Logger) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		database:  database,
		cache:     cache,
		logger:    log,
		startTime: time.Now(),
	}
}

type bannerResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// Root handles GET / with the service banner.
func (h *SystemHandler) Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, bannerResponse{
		Message: h.name,
		Version: h.version,
		Endpoints: map[string]string{
			"users":             "/users",
			"transactions":      "/transactions",
			"report":            "/report",
			"report/by-country": "/report/by-country",
			"health":            "/health",
			"ready":             "/ready",
		},
	})
}

// Health is the liveness probe.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
	})
}

type dependencyStatus struct {
	Status    string `json:"status"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// Ready checks the database and, when configured, the cache. Only the
// database decides readiness; a cache outage reports degraded.
func (h *SystemHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	deps := map[string]dependencyStatus{"database": h.check(ctx, "database", h.database)}
	status, code := "ready", http.StatusOK
	if deps["database"].Status != "operational" {
		status, code = "unavailable", http.StatusServiceUnavailable
	}
	if h.cache != nil {
		deps["cache"] = h.check(ctx, "cache", h.cache)
		if deps["cache"].Status != "operational" && code == http.StatusOK {
			status = "degraded"
		}
	}

	respondJSON(w, code, map[string]interface{}{
		"status":       status,
		"dependencies": deps,
	})
}

func (h *SystemHandler) check(ctx context.Context, name string, p Pinger) dependencyStatus {
	start := time.Now()
	err := p.Ping(ctx)
	st := dependencyStatus{Status: "operational", LatencyMs: time.Since(start).Milliseconds()}
	if err != nil {
		h.logger.Error("Dependency ping failed", map[string]interface{}{
			"dependency": name,
			"error":      err.Error(),
		})
		st.Status = "outage"
		st.Error = err.Error()
	}
	return st
}
