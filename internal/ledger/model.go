package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/avaldes/walletbook/pkg/money"
)

// Expense is a monetary event debiting a single wallet.
type Expense struct {
	ID          uuid.UUID    `json:"id"`
	ClientID    uuid.UUID    `json:"client_id"`
	WalletID    uuid.UUID    `json:"wallet_id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Amount      money.Amount `json:"amount"`
	EventDate   time.Time    `json:"event_date"`
	Deleted     bool         `json:"deleted"`
	DeletedAt   *time.Time   `json:"deleted_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Revenue is a monetary event crediting a single wallet.
type Revenue struct {
	ID          uuid.UUID    `json:"id"`
	ClientID    uuid.UUID    `json:"client_id"`
	WalletID    uuid.UUID    `json:"wallet_id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Amount      money.Amount `json:"amount"`
	EventDate   time.Time    `json:"event_date"`
	Deleted     bool         `json:"deleted"`
	DeletedAt   *time.Time   `json:"deleted_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Transfer is one atomic debit+credit pair between two wallets of the same
// client. Transfers are not mutable after creation; reversal soft-deletes
// the record and swaps the debit and credit back.
type Transfer struct {
	ID           uuid.UUID    `json:"id"`
	ClientID     uuid.UUID    `json:"client_id"`
	FromWalletID uuid.UUID    `json:"from_wallet_id"`
	ToWalletID   uuid.UUID    `json:"to_wallet_id"`
	Amount       money.Amount `json:"amount"`
	Description  string       `json:"description,omitempty"`
	Deleted      bool         `json:"deleted"`
	DeletedAt    *time.Time   `json:"deleted_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Adjustment is a direct signed balance correction on one wallet. Positive
// amounts credit, negative amounts debit. Recorded so the materialized
// balance stays auditable against the event history.
type Adjustment struct {
	ID          uuid.UUID    `json:"id"`
	ClientID    uuid.UUID    `json:"client_id"`
	WalletID    uuid.UUID    `json:"wallet_id"`
	Amount      money.Amount `json:"amount"`
	Description string       `json:"description,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// EventInput carries the caller-provided fields for creating an expense or
// revenue. Amount is already parsed; the engine enforces positivity.
type EventInput struct {
	WalletID    uuid.UUID
	Name        string
	Description string
	Amount      money.Amount
	EventDate   time.Time
}

// EventUpdate carries a partial update for an expense or revenue. Nil fields
// keep their stored values; in particular a nil Amount means "amount
// unchanged" and produces a zero balance delta.
type EventUpdate struct {
	Name        *string
	Description *string
	Amount      *money.Amount
	EventDate   *time.Time
}

// TransferInput carries the caller-provided fields for creating a transfer.
type TransferInput struct {
	FromWalletID uuid.UUID
	ToWalletID   uuid.UUID
	Amount       money.Amount
	Description  string
}

// EventFilter narrows expense/revenue/transfer listings. The zero value
// lists all undeleted events of a client.
type EventFilter struct {
	WalletID       *uuid.UUID
	IncludeDeleted bool
}
