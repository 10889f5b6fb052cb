package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avaldes/walletbook/internal/ledger"
	"github.com/avaldes/walletbook/internal/transport/httpapi/middleware"
	"github.com/avaldes/walletbook/pkg/money"
)

// eventDateLayout is the wire format for event dates.
const eventDateLayout = "2006-01-02"

// ExpenseServiceInterface defines the expense operations used by ExpenseHandler
type ExpenseServiceInterface interface {
	CreateExpense(ctx context.Context, clientID uuid.UUID, in ledger.EventInput) (*ledger.Expense, error)
	UpdateExpense(ctx context.Context, clientID uuid.UUID, id uuid.UUID, upd ledger.EventUpdate) (*ledger.Expense, error)
	DeleteExpense(ctx context.Context, clientID uuid.UUID, id uuid.UUID) error
	GetExpense(ctx context.Context, clientID uuid.UUID, id uuid.UUID) (*ledger.Expense, error)
	ListExpenses(ctx context.Context, clientID uuid.UUID, f ledger.EventFilter) ([]*ledger.Expense, error)
}

// ExpenseHandler handles expense-related HTTP requests
type ExpenseHandler struct {
	service ExpenseServiceInterface
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(service ExpenseServiceInterface) *ExpenseHandler {
	return &ExpenseHandler{service: service}
}

// CreateEventRequest represents an expense or revenue creation request
type CreateEventRequest struct {
	WalletID    string `json:"wallet_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Amount      string `json:"amount"`               // decimal string, e.g. "12.34"
	EventDate   string `json:"event_date,omitempty"` // "2006-01-02", defaults to today
}

// UpdateEventRequest represents a partial expense or revenue update.
// Omitted fields keep their stored values.
type UpdateEventRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Amount      *string `json:"amount,omitempty"`
	EventDate   *string `json:"event_date,omitempty"`
}

// EventListResponse represents a list of expenses or revenues
type EventListResponse struct {
	Events interface{} `json:"events"`
	Total  int         `json:"total"`
}

// parseEventInput converts a CreateEventRequest into a ledger.EventInput.
func parseEventInput(req CreateEventRequest) (ledger.EventInput, string, bool) {
	walletID, err := uuid.Parse(req.WalletID)
	if err != nil {
		return ledger.EventInput{}, "invalid wallet ID", false
	}

	amount, err := money.Parse(req.Amount)
	if err != nil {
		return ledger.EventInput{}, "invalid amount format", false
	}

	eventDate := time.Now()
	if req.EventDate != "" {
		eventDate, err = time.Parse(eventDateLayout, req.EventDate)
		if err != nil {
			return ledger.EventInput{}, "invalid event_date format (use YYYY-MM-DD)", false
		}
	}

	return ledger.EventInput{
		WalletID:    walletID,
		Name:        req.Name,
		Description: req.Description,
		Amount:      amount,
		EventDate:   eventDate,
	}, "", true
}

// parseEventUpdate converts an UpdateEventRequest into a ledger.EventUpdate.
func parseEventUpdate(req UpdateEventRequest) (ledger.EventUpdate, string, bool) {
	upd := ledger.EventUpdate{
		Name:        req.Name,
		Description: req.Description,
	}

	if req.Amount != nil {
		amount, err := money.Parse(*req.Amount)
		if err != nil {
			return ledger.EventUpdate{}, "invalid amount format", false
		}
		upd.Amount = &amount
	}

	if req.EventDate != nil {
		eventDate, err := time.Parse(eventDateLayout, *req.EventDate)
		if err != nil {
			return ledger.EventUpdate{}, "invalid event_date format (use YYYY-MM-DD)", false
		}
		upd.EventDate = &eventDate
	}

	return upd, "", true
}

// parseEventFilter builds a ledger.EventFilter from query parameters.
func parseEventFilter(r *http.Request) (ledger.EventFilter, string, bool) {
	var f ledger.EventFilter
	query := r.URL.Query()

	if walletID := query.Get("wallet_id"); walletID != "" {
		id, err := uuid.Parse(walletID)
		if err != nil {
			return ledger.EventFilter{}, "invalid wallet_id", false
		}
		f.WalletID = &id
	}

	f.IncludeDeleted = query.Get("include_deleted") == "true"

	return f, "", true
}

// CreateExpense handles POST /expenses
func (h *ExpenseHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
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

	created, err := h.service.CreateExpense(r.Context(), clientID, in)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, created, http.StatusCreated)
}

// ListExpenses handles GET /expenses
func (h *ExpenseHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
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

	expenses, err := h.service.ListExpenses(r.Context(), clientID, f)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, EventListResponse{Events: expenses, Total: len(expenses)}, http.StatusOK)
}

// GetExpense handles GET /expenses/{id}
func (h *ExpenseHandler) GetExpense(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "invalid expense ID", http.StatusBadRequest)
		return
	}

	expense, err := h.service.GetExpense(r.Context(), clientID, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, expense, http.StatusOK)
}

// UpdateExpense handles PUT /expenses/{id}
func (h *ExpenseHandler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "invalid expense ID", http.StatusBadRequest)
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

	updated, err := h.service.UpdateExpense(r.Context(), clientID, id, upd)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, updated, http.StatusOK)
}

// DeleteExpense handles DELETE /expenses/{id}
func (h *ExpenseHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "invalid expense ID", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteExpense(r.Context(), clientID, id); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
