package client

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for client persistence operations
type Repository interface {
	// Create creates a new client
	Create(ctx context.Context, c *Client) error

	// GetByID retrieves a client by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Client, error)

	// GetByEmail retrieves a client by email
	GetByEmail(ctx context.Context, email string) (*Client, error)

	// Exists checks if a client with the given email exists
	Exists(ctx context.Context, email string) (bool, error)
}
