package wallet

import (
	"context"

	"github.com/google/uuid"

	"github.com/avaldes/walletbook/pkg/money"
)

// Repository defines the interface for wallet data access. SetBalance is the
// single point through which stored balances change; callers never write the
// balance field directly.
type Repository interface {
	// Create creates a new wallet
	Create(ctx context.Context, w *Wallet) error

	// GetByID retrieves a wallet by ID, deleted or not
	GetByID(ctx context.Context, id uuid.UUID) (*Wallet, error)

	// GetByClientID retrieves wallets for a client, newest first
	GetByClientID(ctx context.Context, clientID uuid.UUID, includeDeleted bool) ([]*Wallet, error)

	// SetBalance replaces the materialized balance of a wallet
	SetBalance(ctx context.Context, id uuid.UUID, balance money.Amount) error

	// SoftDelete marks a wallet deleted without removing the record
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// ExistsByClientAndName checks if a live wallet with the name exists
	ExistsByClientAndName(ctx context.Context, clientID uuid.UUID, name string) (bool, error)
}
