package wallet

import "errors"

var (
	// Validation errors
	ErrInvalidClientID        = errors.New("invalid client ID")
	ErrMissingWalletName      = errors.New("wallet name is required")
	ErrWalletNameTooLong      = errors.New("wallet name exceeds 100 characters")
	ErrNegativeInitialBalance = errors.New("initial balance cannot be negative")
	ErrDuplicateWalletName    = errors.New("wallet name already exists for this client")

	// Repository errors
	ErrWalletNotFound = errors.New("wallet not found")
	ErrWalletDeleted  = errors.New("wallet is deleted")
	ErrNotWalletOwner = errors.New("wallet belongs to another client")
)
