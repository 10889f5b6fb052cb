package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/avaldes/walletbook/internal/module/dashboard"
	"github.com/avaldes/walletbook/internal/transport/httpapi/middleware"
)

// DashboardServiceInterface defines the aggregation operations used by DashboardHandler
type DashboardServiceInterface interface {
	GetDashboard(ctx context.Context, clientID uuid.UUID, year int, month *time.Month) (*dashboard.Dashboard, error)
}

// DashboardHandler handles dashboard aggregation requests
type DashboardHandler struct {
	service DashboardServiceInterface
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardServiceInterface) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// GetDashboard handles GET /dashboard
// Query parameters: year (defaults to the current year) and month (1-12,
// omitted means the whole year).
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	query := r.URL.Query()

	year := time.Now().UTC().Year()
	if raw := query.Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(w, "invalid year", http.StatusBadRequest)
			return
		}
		year = parsed
	}

	var month *time.Month
	if raw := query.Get("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 12 {
			respondError(w, "invalid month (use 1-12)", http.StatusBadRequest)
			return
		}
		m := time.Month(parsed)
		month = &m
	}

	result, err := h.service.GetDashboard(r.Context(), clientID, year, month)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, result, http.StatusOK)
}
