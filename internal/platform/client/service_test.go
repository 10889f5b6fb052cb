package client_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avaldes/walletbook/internal/infra/memory"
	"github.com/avaldes/walletbook/internal/platform/client"
)

func newService() *client.Service {
	return client.NewService(memory.NewClientRepository())
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	c, err := svc.Register(ctx, "Ada", "ada@example.com", "correct-horse")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, c.ID)
	assert.Equal(t, "ada@example.com", c.Email)
	assert.NotEmpty(t, c.PasswordHash)
	assert.NotEqual(t, "correct-horse", c.PasswordHash)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, "Ada Again", "ada@example.com", "another-pass")
		assert.ErrorIs(t, err, client.ErrClientAlreadyExists)
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := svc.Register(ctx, "Bob", "not-an-email", "password123")
		assert.ErrorIs(t, err, client.ErrInvalidEmail)
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := svc.Register(ctx, "", "bob@example.com", "password123")
		assert.ErrorIs(t, err, client.ErrMissingName)
	})

	t.Run("short password", func(t *testing.T) {
		_, err := svc.Register(ctx, "Bob", "bob@example.com", "short")
		assert.ErrorIs(t, err, client.ErrPasswordTooShort)
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	registered, err := svc.Register(ctx, "Ada", "ada@example.com", "correct-horse")
	require.NoError(t, err)

	c, err := svc.Login(ctx, "ada@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, c.ID)

	_, err = svc.Login(ctx, "ada@example.com", "wrong-password")
	assert.ErrorIs(t, err, client.ErrInvalidPassword)

	// Unknown email reads the same as a bad password.
	_, err = svc.Login(ctx, "ghost@example.com", "whatever-pass")
	assert.ErrorIs(t, err, client.ErrInvalidPassword)
}

func TestService_GetByID(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	registered, err := svc.Register(ctx, "Ada", "ada@example.com", "correct-horse")
	require.NoError(t, err)

	c, err := svc.GetByID(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", c.Name)

	_, err = svc.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, client.ErrClientNotFound)
}
