package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/avaldes/walletbook/internal/platform/wallet"
	"github.com/avaldes/walletbook/pkg/money"
)

// WalletStore is the slice of the wallet store the engine mutates through.
// GetWalletForUpdate acquires the per-wallet exclusive mutation right for the
// duration of the surrounding transaction (a row-level lock in Postgres, the
// repository mutex in memory), so read-validate-write sequences against one
// wallet are serialized.
type WalletStore interface {
	GetWalletForUpdate(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error)
	SetWalletBalance(ctx context.Context, id uuid.UUID, balance money.Amount) error
	SoftDeleteWallet(ctx context.Context, id uuid.UUID) error
}

// EventStore persists the monetary event records.
type EventStore interface {
	CreateExpense(ctx context.Context, e *Expense) error
	GetExpense(ctx context.Context, id uuid.UUID) (*Expense, error)
	UpdateExpense(ctx context.Context, e *Expense) error
	ListExpenses(ctx context.Context, clientID uuid.UUID, f EventFilter) ([]*Expense, error)
	ListExpensesByWallet(ctx context.Context, walletID uuid.UUID) ([]*Expense, error)

	CreateRevenue(ctx context.Context, r *Revenue) error
	GetRevenue(ctx context.Context, id uuid.UUID) (*Revenue, error)
	UpdateRevenue(ctx context.Context, r *Revenue) error
	ListRevenues(ctx context.Context, clientID uuid.UUID, f EventFilter) ([]*Revenue, error)

	CreateTransfer(ctx context.Context, t *Transfer) error
	GetTransfer(ctx context.Context, id uuid.UUID) (*Transfer, error)
	UpdateTransfer(ctx context.Context, t *Transfer) error
	ListTransfers(ctx context.Context, clientID uuid.UUID, f EventFilter) ([]*Transfer, error)

	CreateAdjustment(ctx context.Context, a *Adjustment) error
	ListAdjustments(ctx context.Context, clientID uuid.UUID, walletID uuid.UUID) ([]*Adjustment, error)
}

// Repository is the persistence contract of the balance mutation engine.
// BeginTx returns a derived context carrying the transaction; every store
// call made with that context joins it. A mutation is visible either in full
// or not at all.
type Repository interface {
	WalletStore
	EventStore

	BeginTx(ctx context.Context) (context.Context, error)
	CommitTx(ctx context.Context) error
	RollbackTx(ctx context.Context) error
}

// LedgerEvent describes a committed balance movement for the outbound feed.
type LedgerEvent struct {
	Kind     string       `json:"kind"` // e.g. "expense.created"
	ClientID uuid.UUID    `json:"client_id"`
	WalletID uuid.UUID    `json:"wallet_id"`
	EventID  uuid.UUID    `json:"event_id"`
	Amount   money.Amount `json:"amount"`
}

// Publisher receives LedgerEvents after a successful commit. Publishing is
// best-effort: a failed publish never rolls back a committed mutation.
type Publisher interface {
	PublishLedgerEvent(ctx context.Context, ev LedgerEvent) error
}
