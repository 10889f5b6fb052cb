package handler

import (
	"context"
	"net/http"
	"time"
)

// Pinger checks connectivity of a backing dependency
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	db    Pinger
	cache Pinger
}

// NewHealthHandler creates a new health handler. The cache pinger is optional.
func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{
		db:    db,
		cache: cache,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks"`
	Uptime  string            `json:"uptime,omitempty"`
}

var startTime = time.Now()

// GetHealth handles GET /health
// Basic health check - returns 200 OK if service is running
func GetHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
		Uptime:  time.Since(startTime).String(),
		Checks:  map[string]string{},
	}

	respondJSON(w, response, http.StatusOK)
}

// GetHealthDetailed handles GET /health/detailed
// Detailed health check - includes database and cache connectivity
func (h *HealthHandler) GetHealthDetailed(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	status := "ok"

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		checks["database"] = "unhealthy: " + err.Error()
		status = "degraded"
	} else {
		checks["database"] = "healthy"
	}

	// Cache is a soft dependency; the dashboard recomputes on a miss.
	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			checks["cache"] = "unhealthy: " + err.Error()
		} else {
			checks["cache"] = "healthy"
		}
	}

	checks["api"] = "healthy"

	httpStatus := http.StatusOK
	if status == "degraded" {
		httpStatus = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:  status,
		Version: "1.0.0",
		Uptime:  time.Since(startTime).String(),
		Checks:  checks,
	}

	respondJSON(w, response, httpStatus)
}

// GetReadiness handles GET /health/ready
// Readiness probe for Kubernetes - checks if service is ready to accept traffic
func (h *HealthHandler) GetReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		respondError(w, "database not ready", http.StatusServiceUnavailable)
		return
	}

	respondJSON(w, map[string]string{"status": "ready"}, http.StatusOK)
}

// GetLiveness handles GET /health/live
// Liveness probe for Kubernetes - checks if service is alive
func GetLiveness(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "alive"}, http.StatusOK)
}
