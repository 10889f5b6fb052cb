package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/avaldes/walletbook/internal/ledger"
	"github.com/avaldes/walletbook/internal/platform/wallet"
	"github.com/avaldes/walletbook/pkg/money"
)

// MonthlyTotal is one month's aggregate for a client within a year.
type MonthlyTotal struct {
	Month time.Month
	Total money.Amount
}

// LedgerReader is the read-only slice of the event store the aggregation
// engine consumes. Every method counts undeleted events only. Ranges are
// half-open [from, to); the *Through variants are inclusive of asOf.
type LedgerReader interface {
	SumExpenses(ctx context.Context, clientID uuid.UUID, from, to time.Time) (money.Amount, error)
	SumRevenues(ctx context.Context, clientID uuid.UUID, from, to time.Time) (money.Amount, error)

	SumExpensesThrough(ctx context.Context, clientID uuid.UUID, asOf time.Time) (money.Amount, error)
	SumRevenuesThrough(ctx context.Context, clientID uuid.UUID, asOf time.Time) (money.Amount, error)

	MonthlyExpenseTotals(ctx context.Context, clientID uuid.UUID, year int) ([]MonthlyTotal, error)
	MonthlyRevenueTotals(ctx context.Context, clientID uuid.UUID, year int) ([]MonthlyTotal, error)

	TopExpenses(ctx context.Context, clientID uuid.UUID, from, to time.Time, limit int) ([]*ledger.Expense, error)
	TopRevenues(ctx context.Context, clientID uuid.UUID, from, to time.Time, limit int) ([]*ledger.Revenue, error)
}

// WalletReader provides the wallet snapshot.
type WalletReader interface {
	GetByClientID(ctx context.Context, clientID uuid.UUID, includeDeleted bool) ([]*wallet.Wallet, error)
}

// Cache is an optional read-through cache for the assembled dashboard.
// Dashboard reads tolerate at most one in-flight mutation of staleness, so
// entries carry a short TTL and are dropped eagerly when a client mutates.
type Cache interface {
	GetDashboard(ctx context.Context, key string) (*Dashboard, bool)
	SetDashboard(ctx context.Context, key string, d *Dashboard, ttl time.Duration)
	InvalidateClient(ctx context.Context, clientID uuid.UUID) error
}
