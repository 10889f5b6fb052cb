package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/avaldes/walletbook/internal/ledger"
	"github.com/avaldes/walletbook/internal/transport/httpapi/middleware"
	"github.com/avaldes/walletbook/pkg/money"
)

// TransferServiceInterface defines the transfer operations used by TransferHandler.
// Reversal stays an engine primitive without a route of its own.
type TransferServiceInterface interface {
	CreateTransfer(ctx context.Context, clientID uuid.UUID, in ledger.TransferInput) (*ledger.Transfer, error)
	ListTransfers(ctx context.Context, clientID uuid.UUID, f ledger.EventFilter) ([]*ledger.Transfer, error)
}

// TransferHandler handles transfer-related HTTP requests
type TransferHandler struct {
	service TransferServiceInterface
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(service TransferServiceInterface) *TransferHandler {
	return &TransferHandler{service: service}
}

// CreateTransferRequest represents the transfer creation request
type CreateTransferRequest struct {
	FromWalletID string `json:"from_wallet_id"`
	ToWalletID   string `json:"to_wallet_id"`
	Amount       string `json:"amount"` // decimal string, e.g. "40.00"
	Description  string `json:"description,omitempty"`
}

// TransferListResponse represents a list of transfers
type TransferListResponse struct {
	Transfers []*ledger.Transfer `json:"transfers"`
	Total     int                `json:"total"`
}

// CreateTransfer handles POST /transfers
func (h *TransferHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	fromID, err := uuid.Parse(req.FromWalletID)
	if err != nil {
		respondError(w, "invalid from_wallet_id", http.StatusBadRequest)
		return
	}

	toID, err := uuid.Parse(req.ToWalletID)
	if err != nil {
		respondError(w, "invalid to_wallet_id", http.StatusBadRequest)
		return
	}

	amount, err := money.Parse(req.Amount)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	created, err := h.service.CreateTransfer(r.Context(), clientID, ledger.TransferInput{
		FromWalletID: fromID,
		ToWalletID:   toID,
		Amount:       amount,
		Description:  req.Description,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, created, http.StatusCreated)
}

// ListTransfers handles GET /transfers
func (h *TransferHandler) ListTransfers(w http.ResponseWriter, r *http.Request) {
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

	transfers, err := h.service.ListTransfers(r.Context(), clientID, f)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, TransferListResponse{Transfers: transfers, Total: len(transfers)}, http.StatusOK)
}
