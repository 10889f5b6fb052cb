// Package memory provides in-memory repository implementations backed by
// maps and slices. They are used by unit tests and local development; the
// postgres package is the production counterpart.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/avaldes/walletbook/internal/platform/client"
)

// ClientRepository is an in-memory implementation of client.Repository.
type ClientRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*client.Client
	byEmail map[string]*client.Client
}

// NewClientRepository creates an empty in-memory client repository.
func NewClientRepository() *ClientRepository {
	return &ClientRepository{
		byID:    make(map[uuid.UUID]*client.Client),
		byEmail: make(map[string]*client.Client),
	}
}

// Create stores a new client.
func (r *ClientRepository) Create(ctx context.Context, c *client.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[c.Email]; ok {
		return client.ErrClientAlreadyExists
	}

	stored := *c
	r.byID[stored.ID] = &stored
	r.byEmail[stored.Email] = &stored
	return nil
}

// GetByID retrieves a client by ID.
func (r *ClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return nil, client.ErrClientNotFound
	}
	out := *c
	return &out, nil
}

// GetByEmail retrieves a client by email.
func (r *ClientRepository) GetByEmail(ctx context.Context, email string) (*client.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byEmail[email]
	if !ok {
		return nil, client.ErrClientNotFound
	}
	out := *c
	return &out, nil
}

// Exists checks whether a client with the email is registered.
func (r *ClientRepository) Exists(ctx context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byEmail[email]
	return ok, nil
}
