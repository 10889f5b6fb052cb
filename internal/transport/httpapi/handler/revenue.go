package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avaldes/walletbook/internal/ledger"
	"github.com/avaldes/walletbook/internal/transport/httpapi/middleware"
)

// RevenueServiceInterface defines the revenue operations used by RevenueHandler
type RevenueServiceInterface interface {
	CreateRevenue(ctx context.Context, clientID uuid.UUID, in ledger.EventInput) (*ledger.Revenue, error)
	UpdateRevenue(ctx context.Context, clientID uuid.UUID, id uuid.UUID, upd ledger.EventUpdate) (*ledger.Revenue, error)
	DeleteRevenue(ctx context.Context, clientID uuid.UUID, id uuid.UUID) error
	GetRevenue(ctx context.Context, clientID uuid.UUID, id uuid.UUID) (*ledger.Revenue, error)
	ListRevenues(ctx context.Context, clientID uuid.UUID, f ledger.EventFilter) ([]*ledger.Revenue, error)
}

// RevenueHandler handles revenue-related HTTP requests
type RevenueHandler struct {
	service RevenueServiceInterface
}

// NewRevenueHandler creates a new revenue handler
func NewRevenueHandler(service RevenueServiceInterface) *RevenueHandler {
	return &RevenueHandler{service: service}
}

// CreateRevenue handles POST /revenues
func (h *RevenueHandler) CreateRevenue(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	in, msg, ok := parseEventInput(req)
	if !ok {
		respondError(w, msg, http.StatusBadRequest)
		return
	}

	created, err := h.service.CreateRevenue(r.Context(), clientID, in)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, created, http.StatusCreated)
}

// ListRevenues handles GET /revenues
func (h *RevenueHandler) ListRevenues(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	f, msg, ok := parseEventFilter(r)
	if !ok {
		respondError(w, msg, http.StatusBadRequest)
		return
	}

	revenues, err := h.service.ListRevenues(r.Context(), clientID, f)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, EventListResponse{Events: revenues, Total: len(revenues)}, http.StatusOK)
}

// GetRevenue handles GET /revenues/{id}
func (h *RevenueHandler) GetRevenue(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "invalid revenue ID", http.StatusBadRequest)
		return
	}

	revenue, err := h.service.GetRevenue(r.Context(), clientID, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, revenue, http.StatusOK)
}

// UpdateRevenue handles PUT /revenues/{id}
func (h *RevenueHandler) UpdateRevenue(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "invalid revenue ID", http.StatusBadRequest)
		return
	}

	var req UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	upd, msg, ok := parseEventUpdate(req)
	if !ok {
		respondError(w, msg, http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateRevenue(r.Context(), clientID, id, upd)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, updated, http.StatusOK)
}

// DeleteRevenue handles DELETE /revenues/{id}
func (h *RevenueHandler) DeleteRevenue(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "invalid revenue ID", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteRevenue(r.Context(), clientID, id); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
