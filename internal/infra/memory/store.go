package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avaldes/walletbook/internal/ledger"
	"github.com/avaldes/walletbook/internal/module/dashboard"
	"github.com/avaldes/walletbook/internal/platform/wallet"
	"github.com/avaldes/walletbook/pkg/money"
)

// ErrNoTransaction is returned when CommitTx or RollbackTx is called on a
// context that does not carry a transaction started by BeginTx.
var ErrNoTransaction = errors.New("no transaction in context")

type txKey struct{}

// Store is an in-memory implementation of wallet.Repository,
// ledger.Repository and the dashboard reader ports. A single mutex stands in
// for row locks: BeginTx acquires it and snapshots all state, so a
// transaction sees and mutates the store exclusively and RollbackTx restores
// the snapshot wholesale.
type Store struct {
	mu   sync.Mutex
	st   state
	snap *state
	inTx bool
}

type state struct {
	wallets     []*wallet.Wallet
	expenses    []*ledger.Expense
	revenues    []*ledger.Revenue
	transfers   []*ledger.Transfer
	adjustments []*ledger.Adjustment
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{}
}

// BeginTx locks the store and snapshots its state. The returned context must
// be used for every store call until CommitTx or RollbackTx.
func (s *Store) BeginTx(ctx context.Context) (context.Context, error) {
	if isTx(ctx) {
		return nil, errors.New("nested transactions are not supported")
	}
	s.mu.Lock()
	snap := s.st.clone()
	s.snap = &snap
	s.inTx = true
	return context.WithValue(ctx, txKey{}, true), nil
}

// CommitTx discards the snapshot and releases the store.
func (s *Store) CommitTx(ctx context.Context) error {
	if !isTx(ctx) || !s.inTx {
		return ErrNoTransaction
	}
	s.snap = nil
	s.inTx = false
	s.mu.Unlock()
	return nil
}

// RollbackTx restores the snapshot taken at BeginTx and releases the store.
// Calling it after CommitTx is a no-op.
func (s *Store) RollbackTx(ctx context.Context) error {
	if !isTx(ctx) || !s.inTx {
		return nil
	}
	s.st = *s.snap
	s.snap = nil
	s.inTx = false
	s.mu.Unlock()
	return nil
}

func isTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// enter takes the store lock for a standalone call. Inside a transaction the
// lock is already held, so it is a no-op.
func (s *Store) enter(ctx context.Context) func() {
	if isTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// ---- wallet.Repository ----

// Create stores a new wallet.
func (s *Store) Create(ctx context.Context, w *wallet.Wallet) error {
	defer s.enter(ctx)()

	s.st.wallets = append(s.st.wallets, copyWallet(w))
	return nil
}

// GetByID retrieves a wallet by ID, deleted or not.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error) {
	defer s.enter(ctx)()

	w := s.st.findWallet(id)
	if w == nil {
		return nil, wallet.ErrWalletNotFound
	}
	return copyWallet(w), nil
}

// GetByClientID retrieves a client's wallets, newest first.
func (s *Store) GetByClientID(ctx context.Context, clientID uuid.UUID, includeDeleted bool) ([]*wallet.Wallet, error) {
	defer s.enter(ctx)()

	var out []*wallet.Wallet
	for i := len(s.st.wallets) - 1; i >= 0; i-- {
		w := s.st.wallets[i]
		if w.ClientID != clientID {
			continue
		}
		if w.Deleted && !includeDeleted {
			continue
		}
		out = append(out, copyWallet(w))
	}
	return out, nil
}

// SetBalance replaces the materialized balance of a wallet.
func (s *Store) SetBalance(ctx context.Context, id uuid.UUID, balance money.Amount) error {
	defer s.enter(ctx)()

	w := s.st.findWallet(id)
	if w == nil {
		return wallet.ErrWalletNotFound
	}
	w.Balance = balance
	w.UpdatedAt = time.Now()
	return nil
}

// SoftDelete marks a wallet deleted.
func (s *Store) SoftDelete(ctx context.Context, id uuid.UUID) error {
	defer s.enter(ctx)()

	w := s.st.findWallet(id)
	if w == nil {
		return wallet.ErrWalletNotFound
	}
	w.MarkDeleted(time.Now())
	return nil
}

// ExistsByClientAndName checks if a live wallet with the name exists.
func (s *Store) ExistsByClientAndName(ctx context.Context, clientID uuid.UUID, name string) (bool, error) {
	defer s.enter(ctx)()

	for _, w := range s.st.wallets {
		if w.ClientID == clientID && w.Name == name && !w.Deleted {
			return true, nil
		}
	}
	return false, nil
}

// ---- ledger.WalletStore ----

// GetWalletForUpdate retrieves a wallet inside a transaction. The store-wide
// mutex held by the transaction is the lock.
func (s *Store) GetWalletForUpdate(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error) {
	return s.GetByID(ctx, id)
}

// SetWalletBalance replaces the materialized balance of a wallet.
func (s *Store) SetWalletBalance(ctx context.Context, id uuid.UUID, balance money.Amount) error {
	return s.SetBalance(ctx, id, balance)
}

// SoftDeleteWallet marks a wallet deleted.
func (s *Store) SoftDeleteWallet(ctx context.Context, id uuid.UUID) error {
	return s.SoftDelete(ctx, id)
}

// ---- ledger.EventStore: expenses ----

func (s *Store) CreateExpense(ctx context.Context, e *ledger.Expense) error {
	defer s.enter(ctx)()

	s.st.expenses = append(s.st.expenses, copyExpense(e))
	return nil
}

func (s *Store) GetExpense(ctx context.Context, id uuid.UUID) (*ledger.Expense, error) {
	defer s.enter(ctx)()

	for _, e := range s.st.expenses {
		if e.ID == id {
			return copyExpense(e), nil
		}
	}
	return nil, ledger.ErrExpenseNotFound
}

func (s *Store) UpdateExpense(ctx context.Context, e *ledger.Expense) error {
	defer s.enter(ctx)()

	for i, cur := range s.st.expenses {
		if cur.ID == e.ID {
			s.st.expenses[i] = copyExpense(e)
			return nil
		}
	}
	return ledger.ErrExpenseNotFound
}

func (s *Store) ListExpenses(ctx context.Context, clientID uuid.UUID, f ledger.EventFilter) ([]*ledger.Expense, error) {
	defer s.enter(ctx)()

	var out []*ledger.Expense
	for i := len(s.st.expenses) - 1; i >= 0; i-- {
		e := s.st.expenses[i]
		if e.ClientID != clientID {
			continue
		}
		if e.Deleted && !f.IncludeDeleted {
			continue
		}
		if f.WalletID != nil && e.WalletID != *f.WalletID {
			continue
		}
		out = append(out, copyExpense(e))
	}
	return out, nil
}

func (s *Store) ListExpensesByWallet(ctx context.Context, walletID uuid.UUID) ([]*ledger.Expense, error) {
	defer s.enter(ctx)()

	var out []*ledger.Expense
	for _, e := range s.st.expenses {
		if e.WalletID == walletID && !e.Deleted {
			out = append(out, copyExpense(e))
		}
	}
	return out, nil
}

// ---- ledger.EventStore: revenues ----

func (s *Store) CreateRevenue(ctx context.Context, r *ledger.Revenue) error {
	defer s.enter(ctx)()

	s.st.revenues = append(s.st.revenues, copyRevenue(r))
	return nil
}

func (s *Store) GetRevenue(ctx context.Context, id uuid.UUID) (*ledger.Revenue, error) {
	defer s.enter(ctx)()

	for _, r := range s.st.revenues {
		if r.ID == id {
			return copyRevenue(r), nil
		}
	}
	return nil, ledger.ErrRevenueNotFound
}

func (s *Store) UpdateRevenue(ctx context.Context, r *ledger.Revenue) error {
	defer s.enter(ctx)()

	for i, cur := range s.st.revenues {
		if cur.ID == r.ID {
			s.st.revenues[i] = copyRevenue(r)
			return nil
		}
	}
	return ledger.ErrRevenueNotFound
}

func (s *Store) ListRevenues(ctx context.Context, clientID uuid.UUID, f ledger.EventFilter) ([]*ledger.Revenue, error) {
	defer s.enter(ctx)()

	var out []*ledger.Revenue
	for i := len(s.st.revenues) - 1; i >= 0; i-- {
		r := s.st.revenues[i]
		if r.ClientID != clientID {
			continue
		}
		if r.Deleted && !f.IncludeDeleted {
			continue
		}
		if f.WalletID != nil && r.WalletID != *f.WalletID {
			continue
		}
		out = append(out, copyRevenue(r))
	}
	return out, nil
}

// ---- ledger.EventStore: transfers ----

func (s *Store) CreateTransfer(ctx context.Context, t *ledger.Transfer) error {
	defer s.enter(ctx)()

	s.st.transfers = append(s.st.transfers, copyTransfer(t))
	return nil
}

func (s *Store) GetTransfer(ctx context.Context, id uuid.UUID) (*ledger.Transfer, error) {
	defer s.enter(ctx)()

	for _, t := range s.st.transfers {
		if t.ID == id {
			return copyTransfer(t), nil
		}
	}
	return nil, ledger.ErrTransferNotFound
}

func (s *Store) UpdateTransfer(ctx context.Context, t *ledger.Transfer) error {
	defer s.enter(ctx)()

	for i, cur := range s.st.transfers {
		if cur.ID == t.ID {
			s.st.transfers[i] = copyTransfer(t)
			return nil
		}
	}
	return ledger.ErrTransferNotFound
}

func (s *Store) ListTransfers(ctx context.Context, clientID uuid.UUID, f ledger.EventFilter) ([]*ledger.Transfer, error) {
	defer s.enter(ctx)()

	var out []*ledger.Transfer
	for i := len(s.st.transfers) - 1; i >= 0; i-- {
		t := s.st.transfers[i]
		if t.ClientID != clientID {
			continue
		}
		if t.Deleted && !f.IncludeDeleted {
			continue
		}
		if f.WalletID != nil && t.FromWalletID != *f.WalletID && t.ToWalletID != *f.WalletID {
			continue
		}
		out = append(out, copyTransfer(t))
	}
	return out, nil
}

// ---- ledger.EventStore: adjustments ----

func (s *Store) CreateAdjustment(ctx context.Context, a *ledger.Adjustment) error {
	defer s.enter(ctx)()

	stored := *a
	s.st.adjustments = append(s.st.adjustments, &stored)
	return nil
}

func (s *Store) ListAdjustments(ctx context.Context, clientID uuid.UUID, walletID uuid.UUID) ([]*ledger.Adjustment, error) {
	defer s.enter(ctx)()

	var out []*ledger.Adjustment
	for i := len(s.st.adjustments) - 1; i >= 0; i-- {
		a := s.st.adjustments[i]
		if a.ClientID != clientID || a.WalletID != walletID {
			continue
		}
		stored := *a
		out = append(out, &stored)
	}
	return out, nil
}

// ---- dashboard.LedgerReader ----

func (s *Store) SumExpenses(ctx context.Context, clientID uuid.UUID, from, to time.Time) (money.Amount, error) {
	defer s.enter(ctx)()

	total := money.Zero
	for _, e := range s.st.expenses {
		if e.ClientID == clientID && !e.Deleted && inRange(e.EventDate, from, to) {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

func (s *Store) SumRevenues(ctx context.Context, clientID uuid.UUID, from, to time.Time) (money.Amount, error) {
	defer s.enter(ctx)()

	total := money.Zero
	for _, r := range s.st.revenues {
		if r.ClientID == clientID && !r.Deleted && inRange(r.EventDate, from, to) {
			total = total.Add(r.Amount)
		}
	}
	return total, nil
}

func (s *Store) SumExpensesThrough(ctx context.Context, clientID uuid.UUID, asOf time.Time) (money.Amount, error) {
	defer s.enter(ctx)()

	total := money.Zero
	for _, e := range s.st.expenses {
		if e.ClientID == clientID && !e.Deleted && !e.EventDate.After(asOf) {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

func (s *Store) SumRevenuesThrough(ctx context.Context, clientID uuid.UUID, asOf time.Time) (money.Amount, error) {
	defer s.enter(ctx)()

	total := money.Zero
	for _, r := range s.st.revenues {
		if r.ClientID == clientID && !r.Deleted && !r.EventDate.After(asOf) {
			total = total.Add(r.Amount)
		}
	}
	return total, nil
}

func (s *Store) MonthlyExpenseTotals(ctx context.Context, clientID uuid.UUID, year int) ([]dashboard.MonthlyTotal, error) {
	defer s.enter(ctx)()

	var totals [13]money.Amount
	var seen [13]bool
	for _, e := range s.st.expenses {
		if e.ClientID == clientID && !e.Deleted && e.EventDate.Year() == year {
			m := int(e.EventDate.Month())
			totals[m] = totals[m].Add(e.Amount)
			seen[m] = true
		}
	}
	return monthlyTotals(totals, seen), nil
}

func (s *Store) MonthlyRevenueTotals(ctx context.Context, clientID uuid.UUID, year int) ([]dashboard.MonthlyTotal, error) {
	defer s.enter(ctx)()

	var totals [13]money.Amount
	var seen [13]bool
	for _, r := range s.st.revenues {
		if r.ClientID == clientID && !r.Deleted && r.EventDate.Year() == year {
			m := int(r.EventDate.Month())
			totals[m] = totals[m].Add(r.Amount)
			seen[m] = true
		}
	}
	return monthlyTotals(totals, seen), nil
}

func (s *Store) TopExpenses(ctx context.Context, clientID uuid.UUID, from, to time.Time, limit int) ([]*ledger.Expense, error) {
	defer s.enter(ctx)()

	var out []*ledger.Expense
	for _, e := range s.st.expenses {
		if e.ClientID == clientID && !e.Deleted && inRange(e.EventDate, from, to) {
			out = append(out, copyExpense(e))
		}
	}
	// stable keeps insertion order on equal amounts
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].Amount.LessThan(out[i].Amount)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) TopRevenues(ctx context.Context, clientID uuid.UUID, from, to time.Time, limit int) ([]*ledger.Revenue, error) {
	defer s.enter(ctx)()

	var out []*ledger.Revenue
	for _, r := range s.st.revenues {
		if r.ClientID == clientID && !r.Deleted && inRange(r.EventDate, from, to) {
			out = append(out, copyRevenue(r))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].Amount.LessThan(out[i].Amount)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ---- internals ----

func (st *state) findWallet(id uuid.UUID) *wallet.Wallet {
	for _, w := range st.wallets {
		if w.ID == id {
			return w
		}
	}
	return nil
}

func (st *state) clone() state {
	out := state{
		wallets:     make([]*wallet.Wallet, len(st.wallets)),
		expenses:    make([]*ledger.Expense, len(st.expenses)),
		revenues:    make([]*ledger.Revenue, len(st.revenues)),
		transfers:   make([]*ledger.Transfer, len(st.transfers)),
		adjustments: make([]*ledger.Adjustment, len(st.adjustments)),
	}
	for i, w := range st.wallets {
		out.wallets[i] = copyWallet(w)
	}
	for i, e := range st.expenses {
		out.expenses[i] = copyExpense(e)
	}
	for i, r := range st.revenues {
		out.revenues[i] = copyRevenue(r)
	}
	for i, t := range st.transfers {
		out.transfers[i] = copyTransfer(t)
	}
	for i, a := range st.adjustments {
		stored := *a
		out.adjustments[i] = &stored
	}
	return out
}

func monthlyTotals(totals [13]money.Amount, seen [13]bool) []dashboard.MonthlyTotal {
	var out []dashboard.MonthlyTotal
	for m := 1; m <= 12; m++ {
		if seen[m] {
			out = append(out, dashboard.MonthlyTotal{Month: time.Month(m), Total: totals[m]})
		}
	}
	return out
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func copyWallet(w *wallet.Wallet) *wallet.Wallet {
	out := *w
	if w.DeletedAt != nil {
		at := *w.DeletedAt
		out.DeletedAt = &at
	}
	return &out
}

func copyExpense(e *ledger.Expense) *ledger.Expense {
	out := *e
	if e.DeletedAt != nil {
		at := *e.DeletedAt
		out.DeletedAt = &at
	}
	return &out
}

func copyRevenue(r *ledger.Revenue) *ledger.Revenue {
	out := *r
	if r.DeletedAt != nil {
		at := *r.DeletedAt
		out.DeletedAt = &at
	}
	return &out
}

func copyTransfer(t *ledger.Transfer) *ledger.Transfer {
	out := *t
	if t.DeletedAt != nil {
		at := *t.DeletedAt
		out.DeletedAt = &at
	}
	return &out
}
