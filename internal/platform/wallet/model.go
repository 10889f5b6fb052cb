package wallet

import (
	"time"

	"github.com/google/uuid"

	"github.com/avaldes/walletbook/pkg/money"
)

// Wallet is a named balance bucket owned by one client. Balance is a
// materialized running total: it is kept in sync with the set of non-deleted
// monetary events by the ledger engine and never recomputed on read.
type Wallet struct {
	ID          uuid.UUID    `json:"id"`
	ClientID    uuid.UUID    `json:"client_id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Balance     money.Amount `json:"balance"`
	Deleted     bool         `json:"deleted"`
	DeletedAt   *time.Time   `json:"deleted_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// ValidateCreate validates wallet fields for creation
func (w *Wallet) ValidateCreate() error {
	if w.ClientID == uuid.Nil {
		return ErrInvalidClientID
	}

	if w.Name == "" {
		return ErrMissingWalletName
	}

	if len(w.Name) > 100 {
		return ErrWalletNameTooLong
	}

	if w.Balance.IsNegative() {
		return ErrNegativeInitialBalance
	}

	return nil
}

// MarkDeleted flags the wallet as soft-deleted.
func (w *Wallet) MarkDeleted(at time.Time) {
	w.Deleted = true
	w.DeletedAt = &at
	w.UpdatedAt = at
}
