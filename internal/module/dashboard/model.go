package dashboard

import (
	"time"

	"github.com/google/uuid"

	"github.com/avaldes/walletbook/pkg/money"
)

// Summary holds the period flow totals. Balance here is
// revenue minus expense for the period, independent of any wallet's
// materialized balance.
type Summary struct {
	TotalRevenue money.Amount `json:"total_revenues"`
	TotalExpense money.Amount `json:"total_expenses"`
	Balance      money.Amount `json:"balance"`
	Period       string       `json:"period"` // "2025" or "2025-3"
}

// MonthTotal is one month's rollup entry, labelled "2006-01".
type MonthTotal struct {
	Month string       `json:"month"`
	Total money.Amount `json:"total"`
}

// MonthlyComparison holds the per-month rollups for a year, month ascending,
// months without events omitted.
type MonthlyComparison struct {
	Expenses []MonthTotal `json:"expenses"`
	Revenues []MonthTotal `json:"revenues"`
}

// WalletSummary is the (id, name, balance) snapshot of one live wallet.
type WalletSummary struct {
	ID      uuid.UUID    `json:"id"`
	Name    string       `json:"name"`
	Balance money.Amount `json:"balance"`
}

// HistoricalPoint is a reconstructed point-in-time balance: the cumulative
// revenue minus expense of everything dated at or before the snapshot.
type HistoricalPoint struct {
	Month   string       `json:"month"` // "2006-01" of the snapshot's month
	Balance money.Amount `json:"balance"`
}

// TopEvent is one entry of a top-N listing.
type TopEvent struct {
	ID     uuid.UUID    `json:"id"`
	Name   string       `json:"name"`
	Amount money.Amount `json:"amount"`
	Date   time.Time    `json:"date"`
}

// Dashboard is the full aggregation read model for one client and period.
type Dashboard struct {
	Summary           Summary           `json:"summary"`
	MonthlyComparison MonthlyComparison `json:"monthly_comparison"`
	Wallets           []WalletSummary   `json:"wallets_summary"`
	HistoricalBalance []HistoricalPoint `json:"historical_balance"`
	TopExpenses       []TopEvent        `json:"top_expenses"`
	TopRevenues       []TopEvent        `json:"top_revenues"`
}
