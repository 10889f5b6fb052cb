package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avaldes/walletbook/pkg/money"
)

// Service provides business logic for wallet reads and creation. Balance
// mutation and soft-deletion policy belong to the ledger engine, which owns
// the transactional apply step.
type Service struct {
	repo Repository
}

// NewService creates a new wallet service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create creates a new wallet for a client, empty or with an initial balance.
func (s *Service) Create(ctx context.Context, clientID uuid.UUID, name, description string, initialBalance money.Amount) (*Wallet, error) {
	now := time.Now()
	w := &Wallet{
		ID:          uuid.New(),
		ClientID:    clientID,
		Name:        name,
		Description: description,
		Balance:     initialBalance,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := w.ValidateCreate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByClientAndName(ctx, clientID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check wallet existence: %w", err)
	}
	if exists {
		return nil, ErrDuplicateWalletName
	}

	if err := s.repo.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	return w, nil
}

// GetByID retrieves a wallet by ID and validates client ownership. The
// record is fetched first, so a wallet owned by someone else surfaces as an
// ownership error, not a missing record.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, clientID uuid.UUID) (*Wallet, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if w.ClientID != clientID {
		return nil, ErrNotWalletOwner
	}

	return w, nil
}

// List retrieves all non-deleted wallets for a client
func (s *Service) List(ctx context.Context, clientID uuid.UUID) ([]*Wallet, error) {
	wallets, err := s.repo.GetByClientID(ctx, clientID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}

	return wallets, nil
}
