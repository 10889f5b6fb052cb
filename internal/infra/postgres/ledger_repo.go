package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avaldes/walletbook/internal/ledger"
	"github.com/avaldes/walletbook/internal/module/dashboard"
	"github.com/avaldes/walletbook/internal/platform/wallet"
	"github.com/avaldes/walletbook/pkg/money"
)

// LedgerRepository implements ledger.Repository and the dashboard reader
// using PostgreSQL. Transactions are carried in the context: BeginTx stores a
// pgx.Tx, and every method routes through it when present, so the engine's
// mutation sequences run on one connection.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new PostgreSQL ledger repository
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

type ctxKey string

const txContextKey ctxKey = "ledger_tx"

// BeginTx starts a new database transaction and stores it in the context
func (r *LedgerRepository) BeginTx(ctx context.Context) (context.Context, error) {
	if tx := r.getTxFromContext(ctx); tx != nil {
		return ctx, fmt.Errorf("transaction already in progress")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return ctx, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return context.WithValue(ctx, txContextKey, tx), nil
}

// CommitTx commits the database transaction from the context
func (r *LedgerRepository) CommitTx(ctx context.Context) error {
	tx := r.getTxFromContext(ctx)
	if tx == nil {
		return fmt.Errorf("no transaction in context")
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// RollbackTx rolls back the database transaction from the context
func (r *LedgerRepository) RollbackTx(ctx context.Context) error {
	tx := r.getTxFromContext(ctx)
	if tx == nil {
		return fmt.Errorf("no transaction in context")
	}

	if err := tx.Rollback(ctx); err != nil {
		if errors.Is(err, pgx.ErrTxClosed) {
			return nil
		}
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	return nil
}

func (r *LedgerRepository) getTxFromContext(ctx context.Context) pgx.Tx {
	if tx, ok := ctx.Value(txContextKey).(pgx.Tx); ok {
		return tx
	}
	return nil
}

// getQueryer returns the transaction if one exists in context, otherwise the
// pool, so every method works both inside and outside transactions.
func (r *LedgerRepository) getQueryer(ctx context.Context) interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
} {
	if tx := r.getTxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

// Wallet store operations

// GetWalletForUpdate retrieves a wallet row under SELECT ... FOR UPDATE, so
// concurrent mutations of the same wallet serialize on the row lock.
func (r *LedgerRepository) GetWalletForUpdate(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error) {
	query := `
		SELECT id, client_id, name, description, balance_cents, deleted, deleted_at, created_at, updated_at
		FROM wallets
		WHERE id = $1
		FOR UPDATE
	`

	q := r.getQueryer(ctx)
	w, err := scanWallet(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, wallet.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to lock wallet: %w", err)
	}

	return w, nil
}

// SetWalletBalance replaces the materialized balance of a wallet
func (r *LedgerRepository) SetWalletBalance(ctx context.Context, id uuid.UUID, balance money.Amount) error {
	query := `UPDATE wallets SET balance_cents = $1, updated_at = $2 WHERE id = $3`

	q := r.getQueryer(ctx)
	result, err := q.Exec(ctx, query, balance.Cents(), time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set wallet balance: %w", err)
	}
	if result.RowsAffected() == 0 {
		return wallet.ErrWalletNotFound
	}

	return nil
}

// SoftDeleteWallet marks a wallet deleted
func (r *LedgerRepository) SoftDeleteWallet(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE wallets
		SET deleted = TRUE, deleted_at = $1, updated_at = $1
		WHERE id = $2 AND NOT deleted
	`

	q := r.getQueryer(ctx)
	result, err := q.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to soft delete wallet: %w", err)
	}
	if result.RowsAffected() == 0 {
		return wallet.ErrWalletNotFound
	}

	return nil
}

// Expense operations

// CreateExpense inserts an expense record
func (r *LedgerRepository) CreateExpense(ctx context.Context, e *ledger.Expense) error {
	query := `
		INSERT INTO expenses (id, client_id, wallet_id, name, description, amount_cents, event_date, deleted, deleted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	q := r.getQueryer(ctx)
	_, err := q.Exec(ctx, query,
		e.ID,
		e.ClientID,
		e.WalletID,
		e.Name,
		e.Description,
		e.Amount.Cents(),
		e.EventDate,
		e.Deleted,
		e.DeletedAt,
		e.CreatedAt,
		e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}

	return nil
}

// GetExpense retrieves an expense by ID, deleted or not
func (r *LedgerRepository) GetExpense(ctx context.Context, id uuid.UUID) (*ledger.Expense, error) {
	query := eventSelect("expenses") + ` WHERE id = $1`

	q := r.getQueryer(ctx)
	e, err := scanExpense(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return e, nil
}

// UpdateExpense writes back all mutable fields of an expense
func (r *LedgerRepository) UpdateExpense(ctx context.Context, e *ledger.Expense) error {
	query := `
		UPDATE expenses
		SET name = $1, description = $2, amount_cents = $3, event_date = $4,
		    deleted = $5, deleted_at = $6, updated_at = $7
		WHERE id = $8
	`

	q := r.getQueryer(ctx)
	result, err := q.Exec(ctx, query,
		e.Name,
		e.Description,
		e.Amount.Cents(),
		e.EventDate,
		e.Deleted,
		e.DeletedAt,
		e.UpdatedAt,
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ledger.ErrExpenseNotFound
	}

	return nil
}

// ListExpenses lists a client's expenses, newest event first
func (r *LedgerRepository) ListExpenses(ctx context.Context, clientID uuid.UUID, f ledger.EventFilter) ([]*ledger.Expense, error) {
	query := eventSelect("expenses") + ` WHERE client_id = $1`
	args := []any{clientID}

	if !f.IncludeDeleted {
		query += " AND NOT deleted"
	}
	if f.WalletID != nil {
		query += fmt.Sprintf(" AND wallet_id = $%d", len(args)+1)
		args = append(args, *f.WalletID)
	}
	query += " ORDER BY event_date DESC, created_at DESC"

	q := r.getQueryer(ctx)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*ledger.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	return expenses, nil
}

// ListExpensesByWallet lists the undeleted expenses referencing a wallet
func (r *LedgerRepository) ListExpensesByWallet(ctx context.Context, walletID uuid.UUID) ([]*ledger.Expense, error) {
	query := eventSelect("expenses") + ` WHERE wallet_id = $1 AND NOT deleted ORDER BY created_at ASC`

	q := r.getQueryer(ctx)
	rows, err := q.Query(ctx, query, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to query wallet expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*ledger.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	return expenses, nil
}

// Revenue operations

// CreateRevenue inserts a revenue record
func (r *LedgerRepository) CreateRevenue(ctx context.Context, rev *ledger.Revenue) error {
	query := `
		INSERT INTO revenues (id, client_id, wallet_id, name, description, amount_cents, event_date, deleted, deleted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	q := r.getQueryer(ctx)
	_, err := q.Exec(ctx, query,
		rev.ID,
		rev.ClientID,
		rev.WalletID,
		rev.Name,
		rev.Description,
		rev.Amount.Cents(),
		rev.EventDate,
		rev.Deleted,
		rev.DeletedAt,
		rev.CreatedAt,
		rev.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create revenue: %w", err)
	}

	return nil
}

// GetRevenue retrieves a revenue by ID, deleted or not
func (r *LedgerRepository) GetRevenue(ctx context.Context, id uuid.UUID) (*ledger.Revenue, error) {
	query := eventSelect("revenues") + ` WHERE id = $1`

	q := r.getQueryer(ctx)
	rev, err := scanRevenue(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrRevenueNotFound
		}
		return nil, fmt.Errorf("failed to get revenue: %w", err)
	}

	return rev, nil
}

// UpdateRevenue writes back all mutable fields of a revenue
func (r *LedgerRepository) UpdateRevenue(ctx context.Context, rev *ledger.Revenue) error {
	query := `
		UPDATE revenues
		SET name = $1, description = $2, amount_cents = $3, event_date = $4,
		    deleted = $5, deleted_at = $6, updated_at = $7
		WHERE id = $8
	`

	q := r.getQueryer(ctx)
	result, err := q.Exec(ctx, query,
		rev.Name,
		rev.Description,
		rev.Amount.Cents(),
		rev.EventDate,
		rev.Deleted,
		rev.DeletedAt,
		rev.UpdatedAt,
		rev.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update revenue: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ledger.ErrRevenueNotFound
	}

	return nil
}

// ListRevenues lists a client's revenues, newest event first
func (r *LedgerRepository) ListRevenues(ctx context.Context, clientID uuid.UUID, f ledger.EventFilter) ([]*ledger.Revenue, error) {
	query := eventSelect("revenues") + ` WHERE client_id = $1`
	args := []any{clientID}

	if !f.IncludeDeleted {
		query += " AND NOT deleted"
	}
	if f.WalletID != nil {
		query += fmt.Sprintf(" AND wallet_id = $%d", len(args)+1)
		args = append(args, *f.WalletID)
	}
	query += " ORDER BY event_date DESC, created_at DESC"

	q := r.getQueryer(ctx)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query revenues: %w", err)
	}
	defer rows.Close()

	var revenues []*ledger.Revenue
	for rows.Next() {
		rev, err := scanRevenue(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan revenue: %w", err)
		}
		revenues = append(revenues, rev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating revenues: %w", err)
	}

	return revenues, nil
}

// Transfer operations

// CreateTransfer inserts a transfer record
func (r *LedgerRepository) CreateTransfer(ctx context.Context, t *ledger.Transfer) error {
	query := `
		INSERT INTO transfers (id, client_id, from_wallet_id, to_wallet_id, amount_cents, description, deleted, deleted_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	q := r.getQueryer(ctx)
	_, err := q.Exec(ctx, query,
		t.ID,
		t.ClientID,
		t.FromWalletID,
		t.ToWalletID,
		t.Amount.Cents(),
		t.Description,
		t.Deleted,
		t.DeletedAt,
		t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transfer: %w", err)
	}

	return nil
}

// GetTransfer retrieves a transfer by ID, deleted or not
func (r *LedgerRepository) GetTransfer(ctx context.Context, id uuid.UUID) (*ledger.Transfer, error) {
	query := `
		SELECT id, client_id, from_wallet_id, to_wallet_id, amount_cents, description, deleted, deleted_at, created_at
		FROM transfers
		WHERE id = $1
	`

	q := r.getQueryer(ctx)
	t, err := scanTransfer(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrTransferNotFound
		}
		return nil, fmt.Errorf("failed to get transfer: %w", err)
	}

	return t, nil
}

// UpdateTransfer writes back the soft-deletion state of a transfer
func (r *LedgerRepository) UpdateTransfer(ctx context.Context, t *ledger.Transfer) error {
	query := `UPDATE transfers SET deleted = $1, deleted_at = $2 WHERE id = $3`

	q := r.getQueryer(ctx)
	result, err := q.Exec(ctx, query, t.Deleted, t.DeletedAt, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update transfer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ledger.ErrTransferNotFound
	}

	return nil
}

// ListTransfers lists a client's transfers, newest first
func (r *LedgerRepository) ListTransfers(ctx context.Context, clientID uuid.UUID, f ledger.EventFilter) ([]*ledger.Transfer, error) {
	query := `
		SELECT id, client_id, from_wallet_id, to_wallet_id, amount_cents, description, deleted, deleted_at, created_at
		FROM transfers
		WHERE client_id = $1
	`
	args := []any{clientID}

	if !f.IncludeDeleted {
		query += " AND NOT deleted"
	}
	if f.WalletID != nil {
		query += fmt.Sprintf(" AND (from_wallet_id = $%d OR to_wallet_id = $%d)", len(args)+1, len(args)+1)
		args = append(args, *f.WalletID)
	}
	query += " ORDER BY created_at DESC"

	q := r.getQueryer(ctx)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transfers: %w", err)
	}
	defer rows.Close()

	var transfers []*ledger.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transfer: %w", err)
		}
		transfers = append(transfers, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transfers: %w", err)
	}

	return transfers, nil
}

// Adjustment operations

// CreateAdjustment inserts an adjustment record
func (r *LedgerRepository) CreateAdjustment(ctx context.Context, a *ledger.Adjustment) error {
	query := `
		INSERT INTO adjustments (id, client_id, wallet_id, amount_cents, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	q := r.getQueryer(ctx)
	_, err := q.Exec(ctx, query,
		a.ID,
		a.ClientID,
		a.WalletID,
		a.Amount.Cents(),
		a.Description,
		a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create adjustment: %w", err)
	}

	return nil
}

// ListAdjustments lists a wallet's adjustments, newest first
func (r *LedgerRepository) ListAdjustments(ctx context.Context, clientID uuid.UUID, walletID uuid.UUID) ([]*ledger.Adjustment, error) {
	query := `
		SELECT id, client_id, wallet_id, amount_cents, description, created_at
		FROM adjustments
		WHERE client_id = $1 AND wallet_id = $2
		ORDER BY created_at DESC
	`

	q := r.getQueryer(ctx)
	rows, err := q.Query(ctx, query, clientID, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to query adjustments: %w", err)
	}
	defer rows.Close()

	var adjustments []*ledger.Adjustment
	for rows.Next() {
		a := &ledger.Adjustment{}
		var cents int64
		if err := rows.Scan(&a.ID, &a.ClientID, &a.WalletID, &cents, &a.Description, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan adjustment: %w", err)
		}
		a.Amount = money.FromCents(cents)
		adjustments = append(adjustments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating adjustments: %w", err)
	}

	return adjustments, nil
}

// Dashboard reader operations. Aggregation runs in SQL so the engine never
// pages event rows through application memory.

// SumExpenses sums undeleted expense amounts dated within [from, to)
func (r *LedgerRepository) SumExpenses(ctx context.Context, clientID uuid.UUID, from, to time.Time) (money.Amount, error) {
	return r.sumEvents(ctx, "expenses", clientID, from, to)
}

// SumRevenues sums undeleted revenue amounts dated within [from, to)
func (r *LedgerRepository) SumRevenues(ctx context.Context, clientID uuid.UUID, from, to time.Time) (money.Amount, error) {
	return r.sumEvents(ctx, "revenues", clientID, from, to)
}

func (r *LedgerRepository) sumEvents(ctx context.Context, table string, clientID uuid.UUID, from, to time.Time) (money.Amount, error) {
	query := fmt.Sprintf(`
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM %s
		WHERE client_id = $1 AND NOT deleted AND event_date >= $2 AND event_date < $3
	`, table)

	var cents int64
	if err := r.pool.QueryRow(ctx, query, clientID, from, to).Scan(&cents); err != nil {
		return 0, fmt.Errorf("failed to sum %s: %w", table, err)
	}

	return money.FromCents(cents), nil
}

// SumExpensesThrough sums undeleted expense amounts dated at or before asOf
func (r *LedgerRepository) SumExpensesThrough(ctx context.Context, clientID uuid.UUID, asOf time.Time) (money.Amount, error) {
	return r.sumEventsThrough(ctx, "expenses", clientID, asOf)
}

// SumRevenuesThrough sums undeleted revenue amounts dated at or before asOf
func (r *LedgerRepository) SumRevenuesThrough(ctx context.Context, clientID uuid.UUID, asOf time.Time) (money.Amount, error) {
	return r.sumEventsThrough(ctx, "revenues", clientID, asOf)
}

func (r *LedgerRepository) sumEventsThrough(ctx context.Context, table string, clientID uuid.UUID, asOf time.Time) (money.Amount, error) {
	query := fmt.Sprintf(`
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM %s
		WHERE client_id = $1 AND NOT deleted AND event_date <= $2
	`, table)

	var cents int64
	if err := r.pool.QueryRow(ctx, query, clientID, asOf).Scan(&cents); err != nil {
		return 0, fmt.Errorf("failed to sum %s: %w", table, err)
	}

	return money.FromCents(cents), nil
}

// MonthlyExpenseTotals groups a year's undeleted expenses by event month
func (r *LedgerRepository) MonthlyExpenseTotals(ctx context.Context, clientID uuid.UUID, year int) ([]dashboard.MonthlyTotal, error) {
	return r.monthlyTotals(ctx, "expenses", clientID, year)
}

// MonthlyRevenueTotals groups a year's undeleted revenues by event month
func (r *LedgerRepository) MonthlyRevenueTotals(ctx context.Context, clientID uuid.UUID, year int) ([]dashboard.MonthlyTotal, error) {
	return r.monthlyTotals(ctx, "revenues", clientID, year)
}

func (r *LedgerRepository) monthlyTotals(ctx context.Context, table string, clientID uuid.UUID, year int) ([]dashboard.MonthlyTotal, error) {
	query := fmt.Sprintf(`
		SELECT EXTRACT(MONTH FROM event_date)::int AS month, SUM(amount_cents)
		FROM %s
		WHERE client_id = $1 AND NOT deleted AND EXTRACT(YEAR FROM event_date) = $2
		GROUP BY month
		ORDER BY month ASC
	`, table)

	rows, err := r.pool.Query(ctx, query, clientID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly totals: %w", err)
	}
	defer rows.Close()

	var totals []dashboard.MonthlyTotal
	for rows.Next() {
		var month int
		var cents int64
		if err := rows.Scan(&month, &cents); err != nil {
			return nil, fmt.Errorf("failed to scan monthly total: %w", err)
		}
		totals = append(totals, dashboard.MonthlyTotal{Month: time.Month(month), Total: money.FromCents(cents)})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly totals: %w", err)
	}

	return totals, nil
}

// TopExpenses returns the largest undeleted expenses in [from, to),
// descending by amount, oldest insert first on ties
func (r *LedgerRepository) TopExpenses(ctx context.Context, clientID uuid.UUID, from, to time.Time, limit int) ([]*ledger.Expense, error) {
	query := eventSelect("expenses") + `
		WHERE client_id = $1 AND NOT deleted AND event_date >= $2 AND event_date < $3
		ORDER BY amount_cents DESC, created_at ASC
		LIMIT $4
	`

	rows, err := r.pool.Query(ctx, query, clientID, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*ledger.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top expenses: %w", err)
	}

	return expenses, nil
}

// TopRevenues returns the largest undeleted revenues in [from, to)
func (r *LedgerRepository) TopRevenues(ctx context.Context, clientID uuid.UUID, from, to time.Time, limit int) ([]*ledger.Revenue, error) {
	query := eventSelect("revenues") + `
		WHERE client_id = $1 AND NOT deleted AND event_date >= $2 AND event_date < $3
		ORDER BY amount_cents DESC, created_at ASC
		LIMIT $4
	`

	rows, err := r.pool.Query(ctx, query, clientID, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top revenues: %w", err)
	}
	defer rows.Close()

	var revenues []*ledger.Revenue
	for rows.Next() {
		rev, err := scanRevenue(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan revenue: %w", err)
		}
		revenues = append(revenues, rev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top revenues: %w", err)
	}

	return revenues, nil
}

// Scan helpers

func eventSelect(table string) string {
	return fmt.Sprintf(`
		SELECT id, client_id, wallet_id, name, description, amount_cents, event_date, deleted, deleted_at, created_at, updated_at
		FROM %s
	`, table)
}

func scanExpense(row pgx.Row) (*ledger.Expense, error) {
	e := &ledger.Expense{}
	var cents int64

	err := row.Scan(
		&e.ID,
		&e.ClientID,
		&e.WalletID,
		&e.Name,
		&e.Description,
		&cents,
		&e.EventDate,
		&e.Deleted,
		&e.DeletedAt,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Amount = money.FromCents(cents)
	return e, nil
}

func scanRevenue(row pgx.Row) (*ledger.Revenue, error) {
	rev := &ledger.Revenue{}
	var cents int64

	err := row.Scan(
		&rev.ID,
		&rev.ClientID,
		&rev.WalletID,
		&rev.Name,
		&rev.Description,
		&cents,
		&rev.EventDate,
		&rev.Deleted,
		&rev.DeletedAt,
		&rev.CreatedAt,
		&rev.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	rev.Amount = money.FromCents(cents)
	return rev, nil
}

func scanTransfer(row pgx.Row) (*ledger.Transfer, error) {
	t := &ledger.Transfer{}
	var cents int64

	err := row.Scan(
		&t.ID,
		&t.ClientID,
		&t.FromWalletID,
		&t.ToWalletID,
		&cents,
		&t.Description,
		&t.Deleted,
		&t.DeletedAt,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Amount = money.FromCents(cents)
	return t, nil
}
