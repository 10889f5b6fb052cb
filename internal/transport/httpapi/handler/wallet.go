package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avaldes/walletbook/internal/ledger"
	"github.com/avaldes/walletbook/internal/platform/wallet"
	"github.com/avaldes/walletbook/internal/transport/httpapi/middleware"
	"github.com/avaldes/walletbook/pkg/money"
)

// WalletServiceInterface defines the wallet read/create operations used by WalletHandler
type WalletServiceInterface interface {
	Create(ctx context.Context, clientID uuid.UUID, name, description string, initialBalance money.Amount) (*wallet.Wallet, error)
	GetByID(ctx context.Context, id uuid.UUID, clientID uuid.UUID) (*wallet.Wallet, error)
	List(ctx context.Context, clientID uuid.UUID) ([]*wallet.Wallet, error)
}

// WalletLedgerInterface defines the balance mutation operations used by WalletHandler
type WalletLedgerInterface interface {
	AdjustWallet(ctx context.Context, clientID uuid.UUID, walletID uuid.UUID, amount money.Amount, description string) (*ledger.Adjustment, error)
	ListAdjustments(ctx context.Context, clientID uuid.UUID, walletID uuid.UUID) ([]*ledger.Adjustment, error)
	DeleteWallet(ctx context.Context, clientID uuid.UUID, walletID uuid.UUID) error
}

// WalletHandler handles wallet-related HTTP requests. Reads go through the
// wallet service; anything that moves a balance goes through the ledger.
type WalletHandler struct {
	wallets WalletServiceInterface
	ledger  WalletLedgerInterface
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(wallets WalletServiceInterface, ledgerSvc WalletLedgerInterface) *WalletHandler {
	return &WalletHandler{
		wallets: wallets,
		ledger:  ledgerSvc,
	}
}

// CreateWalletRequest represents the wallet creation request
type CreateWalletRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	InitialBalance string `json:"initial_balance,omitempty"` // decimal string, e.g. "100.00"
}

// AdjustWalletRequest represents a direct balance correction request
type AdjustWalletRequest struct {
	Amount      string `json:"amount"` // signed decimal string, e.g. "-3.50"
	Description string `json:"description,omitempty"`
}

// WalletListResponse represents a list of wallets
type WalletListResponse struct {
	Wallets []*wallet.Wallet `json:"wallets"`
	Total   int              `json:"total"`
}

// CreateWallet handles POST /wallets
func (h *WalletHandler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	initial := money.Zero
	if req.InitialBalance != "" {
		var err error
		initial, err = money.Parse(req.InitialBalance)
		if err != nil {
			respondServiceError(w, err)
			return
		}
	}

	created, err := h.wallets.Create(r.Context(), clientID, req.Name, req.Description, initial)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, created, http.StatusCreated)
}

// ListWallets handles GET /wallets
func (h *WalletHandler) ListWallets(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	wallets, err := h.wallets.List(r.Context(), clientID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, WalletListResponse{Wallets: wallets, Total: len(wallets)}, http.StatusOK)
}

// GetWallet handles GET /wallets/{id}
func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "invalid wallet ID", http.StatusBadRequest)
		return
	}

	found, err := h.wallets.GetByID(r.Context(), id, clientID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, found, http.StatusOK)
}

// DeleteWallet handles DELETE /wallets/{id}
func (h *WalletHandler) DeleteWallet(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "invalid wallet ID", http.StatusBadRequest)
		return
	}

	if err := h.ledger.DeleteWallet(r.Context(), clientID, id); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AdjustWallet handles POST /wallets/{id}/adjust
func (h *WalletHandler) AdjustWallet(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "invalid wallet ID", http.StatusBadRequest)
		return
	}

	var req AdjustWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	amount, err := money.Parse(req.Amount)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	adj, err := h.ledger.AdjustWallet(r.Context(), clientID, id, amount, req.Description)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, adj, http.StatusCreated)
}

// ListAdjustments handles GET /wallets/{id}/adjustments
func (h *WalletHandler) ListAdjustments(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "invalid wallet ID", http.StatusBadRequest)
		return
	}

	adjustments, err := h.ledger.ListAdjustments(r.Context(), clientID, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, map[string]interface{}{
		"adjustments": adjustments,
		"total":       len(adjustments),
	}, http.StatusOK)
}
