package ledger

import "errors"

// Validation errors
var (
	ErrInvalidAmount      = errors.New("amount must be a positive fixed-point decimal")
	ErrZeroAdjustment     = errors.New("adjustment amount cannot be zero")
	ErrMissingEventName   = errors.New("event name is required")
	ErrSameWalletTransfer = errors.New("cannot transfer to the same wallet")
)

// Lookup and ownership errors
var (
	ErrExpenseNotFound  = errors.New("expense not found")
	ErrRevenueNotFound  = errors.New("revenue not found")
	ErrTransferNotFound = errors.New("transfer not found")
	ErrNotEventOwner    = errors.New("event belongs to another client")
)

// State errors
var (
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrEventDeleted        = errors.New("event is already deleted")
	ErrWalletHasExpenses   = errors.New("wallet still has undeleted expenses")
)
