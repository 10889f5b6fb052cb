package client

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Client is the owner of wallets and monetary events. The HTTP boundary
// resolves the authenticated caller to a Client exactly once; everything
// below that point works with the client ID.
type Client struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate validates the client
func (c *Client) Validate() error {
	if c.Name == "" {
		return ErrMissingName
	}

	if err := c.ValidateEmail(); err != nil {
		return err
	}

	if c.PasswordHash == "" {
		return ErrInvalidPasswordHash
	}

	return nil
}

// ValidateEmail validates only the email field
func (c *Client) ValidateEmail() error {
	if c.Email == "" || !isValidEmail(c.Email) {
		return ErrInvalidEmail
	}
	return nil
}

// SetPassword hashes and sets the client's password
func (c *Client) SetPassword(password string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	c.PasswordHash = string(hash)
	return nil
}

// CheckPassword checks if the provided password matches the stored hash
func (c *Client) CheckPassword(password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password))
	if err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return ErrInvalidPassword
		}
		return fmt.Errorf("failed to check password: %w", err)
	}
	return nil
}

// isValidEmail checks if the email format is valid
func isValidEmail(email string) bool {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	return emailRegex.MatchString(email)
}
