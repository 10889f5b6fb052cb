package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avaldes/walletbook/internal/ledger"
	"github.com/avaldes/walletbook/internal/platform/client"
	"github.com/avaldes/walletbook/internal/platform/wallet"
	apperrors "github.com/avaldes/walletbook/internal/shared/errors"
	"github.com/avaldes/walletbook/pkg/money"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response without a machine code
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, ErrorResponse{Error: message}, statusCode)
}

// respondServiceError maps domain sentinel errors onto HTTP status plus a
// stable machine code. Anything unrecognized is a 500 with no detail leaked.
func respondServiceError(w http.ResponseWriter, err error) {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		respondJSON(w, ErrorResponse{Error: appErr.Message, Code: appErr.Code}, statusForCode(appErr.Code))
		return
	}

	switch {
	case errors.Is(err, wallet.ErrWalletNotFound),
		errors.Is(err, ledger.ErrExpenseNotFound),
		errors.Is(err, ledger.ErrRevenueNotFound),
		errors.Is(err, ledger.ErrTransferNotFound),
		errors.Is(err, client.ErrClientNotFound):
		respondJSON(w, ErrorResponse{Error: err.Error(), Code: apperrors.ErrCodeNotFound}, http.StatusNotFound)

	case errors.Is(err, wallet.ErrNotWalletOwner),
		errors.Is(err, ledger.ErrNotEventOwner):
		respondJSON(w, ErrorResponse{Error: err.Error(), Code: apperrors.ErrCodeForbidden}, http.StatusForbidden)

	case errors.Is(err, ledger.ErrInsufficientBalance):
		respondJSON(w, ErrorResponse{Error: err.Error(), Code: apperrors.ErrCodeInsufficientBalance}, http.StatusBadRequest)

	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, money.ErrInvalidAmount):
		respondJSON(w, ErrorResponse{Error: err.Error(), Code: apperrors.ErrCodeInvalidAmount}, http.StatusBadRequest)

	case errors.Is(err, ledger.ErrEventDeleted),
		errors.Is(err, ledger.ErrSameWalletTransfer),
		errors.Is(err, ledger.ErrZeroAdjustment),
		errors.Is(err, ledger.ErrWalletHasExpenses):
		respondJSON(w, ErrorResponse{Error: err.Error(), Code: apperrors.ErrCodeInvalidOperation}, http.StatusBadRequest)

	case errors.Is(err, ledger.ErrMissingEventName),
		errors.Is(err, wallet.ErrMissingWalletName),
		errors.Is(err, wallet.ErrWalletNameTooLong),
		errors.Is(err, wallet.ErrNegativeInitialBalance),
		errors.Is(err, wallet.ErrInvalidClientID),
		errors.Is(err, client.ErrMissingName),
		errors.Is(err, client.ErrInvalidEmail),
		errors.Is(err, client.ErrPasswordTooShort):
		respondJSON(w, ErrorResponse{Error: err.Error(), Code: apperrors.ErrCodeValidation}, http.StatusBadRequest)

	case errors.Is(err, wallet.ErrDuplicateWalletName),
		errors.Is(err, client.ErrClientAlreadyExists):
		respondJSON(w, ErrorResponse{Error: err.Error(), Code: apperrors.ErrCodeConflict}, http.StatusConflict)

	case errors.Is(err, client.ErrInvalidPassword):
		respondJSON(w, ErrorResponse{Error: "invalid email or password", Code: apperrors.ErrCodeUnauthorized}, http.StatusUnauthorized)

	default:
		respondJSON(w, ErrorResponse{Error: "internal server error", Code: apperrors.ErrCodeInternal}, http.StatusInternalServerError)
	}
}

func statusForCode(code string) int {
	switch code {
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeForbidden:
		return http.StatusForbidden
	case apperrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrCodeConflict:
		return http.StatusConflict
	case apperrors.ErrCodeInsufficientBalance,
		apperrors.ErrCodeInvalidAmount,
		apperrors.ErrCodeInvalidOperation,
		apperrors.ErrCodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
