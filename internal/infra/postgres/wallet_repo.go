package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avaldes/walletbook/internal/platform/wallet"
	"github.com/avaldes/walletbook/pkg/money"
)

// WalletRepository implements the wallet repository using PostgreSQL.
// Balances are stored as BIGINT cents.
type WalletRepository struct {
	pool *pgxpool.Pool
}

// NewWalletRepository creates a new PostgreSQL wallet repository
func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{pool: pool}
}

// Create creates a new wallet
func (r *WalletRepository) Create(ctx context.Context, w *wallet.Wallet) error {
	query := `
		INSERT INTO wallets (id, client_id, name, description, balance_cents, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		w.ID,
		w.ClientID,
		w.Name,
		w.Description,
		w.Balance.Cents(),
		w.CreatedAt,
		w.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return wallet.ErrDuplicateWalletName
		}
		return fmt.Errorf("failed to create wallet: %w", err)
	}

	return nil
}

// GetByID retrieves a wallet by ID, deleted or not
func (r *WalletRepository) GetByID(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error) {
	query := `
		SELECT id, client_id, name, description, balance_cents, deleted, deleted_at, created_at, updated_at
		FROM wallets
		WHERE id = $1
	`

	w, err := scanWallet(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, wallet.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	return w, nil
}

// GetByClientID retrieves wallets for a client, newest first
func (r *WalletRepository) GetByClientID(ctx context.Context, clientID uuid.UUID, includeDeleted bool) ([]*wallet.Wallet, error) {
	query := `
		SELECT id, client_id, name, description, balance_cents, deleted, deleted_at, created_at, updated_at
		FROM wallets
		WHERE client_id = $1
	`
	if !includeDeleted {
		query += " AND NOT deleted"
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query wallets: %w", err)
	}
	defer rows.Close()

	var wallets []*wallet.Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wallet: %w", err)
		}
		wallets = append(wallets, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wallets: %w", err)
	}

	return wallets, nil
}

// SetBalance replaces the materialized balance of a wallet
func (r *WalletRepository) SetBalance(ctx context.Context, id uuid.UUID, balance money.Amount) error {
	query := `UPDATE wallets SET balance_cents = $1, updated_at = $2 WHERE id = $3`

	result, err := r.pool.Exec(ctx, query, balance.Cents(), time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set wallet balance: %w", err)
	}
	if result.RowsAffected() == 0 {
		return wallet.ErrWalletNotFound
	}

	return nil
}

// SoftDelete marks a wallet deleted without removing the record
func (r *WalletRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE wallets
		SET deleted = TRUE, deleted_at = $1, updated_at = $1
		WHERE id = $2 AND NOT deleted
	`

	result, err := r.pool.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to soft delete wallet: %w", err)
	}
	if result.RowsAffected() == 0 {
		return wallet.ErrWalletNotFound
	}

	return nil
}

// ExistsByClientAndName checks if a live wallet with the name exists
func (r *WalletRepository) ExistsByClientAndName(ctx context.Context, clientID uuid.UUID, name string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM wallets WHERE client_id = $1 AND name = $2 AND NOT deleted)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, clientID, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check wallet existence: %w", err)
	}

	return exists, nil
}

func scanWallet(row pgx.Row) (*wallet.Wallet, error) {
	w := &wallet.Wallet{}
	var cents int64

	err := row.Scan(
		&w.ID,
		&w.ClientID,
		&w.Name,
		&w.Description,
		&cents,
		&w.Deleted,
		&w.DeletedAt,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	w.Balance = money.FromCents(cents)
	return w, nil
}
