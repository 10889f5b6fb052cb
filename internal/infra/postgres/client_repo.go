package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avaldes/walletbook/internal/platform/client"
)

// ClientRepository implements the client repository using PostgreSQL
type ClientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository creates a new PostgreSQL client repository
func NewClientRepository(pool *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

// Create creates a new client
func (r *ClientRepository) Create(ctx context.Context, c *client.Client) error {
	query := `
		INSERT INTO clients (id, name, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		c.ID,
		c.Name,
		c.Email,
		c.PasswordHash,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return client.ErrClientAlreadyExists
		}
		return fmt.Errorf("failed to create client: %w", err)
	}

	return nil
}

// GetByID retrieves a client by ID
func (r *ClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	query := `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM clients
		WHERE id = $1
	`

	c := &client.Client{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.PasswordHash,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, client.ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	return c, nil
}

// GetByEmail retrieves a client by email
func (r *ClientRepository) GetByEmail(ctx context.Context, email string) (*client.Client, error) {
	query := `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM clients
		WHERE email = $1
	`

	c := &client.Client{}
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.PasswordHash,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, client.ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client by email: %w", err)
	}

	return c, nil
}

// Exists checks if a client with the given email exists
func (r *ClientRepository) Exists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM clients WHERE email = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check client existence: %w", err)
	}

	return exists, nil
}
