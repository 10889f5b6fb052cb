package client

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service handles client identity logic: registration, authentication and
// profile resolution.
type Service struct {
	repo Repository
}

// NewService creates a new client service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register registers a new client profile
func (s *Service) Register(ctx context.Context, name, email, password string) (*Client, error) {
	c := &Client{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if c.Name == "" {
		return nil, ErrMissingName
	}
	if err := c.ValidateEmail(); err != nil {
		return nil, err
	}

	exists, err := s.repo.Exists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check if client exists: %w", err)
	}
	if exists {
		return nil, ErrClientAlreadyExists
	}

	if err := c.SetPassword(password); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return c, nil
}

// Login authenticates a client with email and password
func (s *Service) Login(ctx context.Context, email, password string) (*Client, error) {
	c, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if err == ErrClientNotFound {
			// Don't reveal whether the email is registered
			return nil, ErrInvalidPassword
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	if err := c.CheckPassword(password); err != nil {
		return nil, err
	}

	return c, nil
}

// GetByID retrieves a client by ID. A missing profile is a plain not-found
// condition, not an authentication failure.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Client, error) {
	return s.repo.GetByID(ctx, id)
}
