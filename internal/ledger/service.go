package ledger

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avaldes/walletbook/internal/platform/wallet"
	"github.com/avaldes/walletbook/pkg/logger"
	"github.com/avaldes/walletbook/pkg/money"
)

// Service is the balance mutation engine. Every create/update/delete of a
// monetary event and the balance change it implies are applied inside one
// repository transaction: a fault between the two is never observable.
//
// Reversal rule: deleting an event reverses the amount currently stored on
// it, not the create-time amount. Updates already reconciled the wallet to
// the current amount, so delete stays the exact inverse of the most recent
// state.
type Service struct {
	repo          Repository
	publisher     Publisher
	log           *logger.Logger
	cascadeDelete bool
}

// Config holds engine configuration.
type Config struct {
	// CascadeWalletDelete selects the wallet deletion policy: false refuses
	// to delete a wallet that still has undeleted expenses, true soft-deletes
	// them (reversing their balance effect) before deleting the wallet.
	CascadeWalletDelete bool

	// Publisher, when set, receives an event after each committed mutation.
	Publisher Publisher
}

// NewService creates a new ledger service
func NewService(repo Repository, log *logger.Logger, cfg Config) *Service {
	return &Service{
		repo:          repo,
		publisher:     cfg.Publisher,
		log:           log,
		cascadeDelete: cfg.CascadeWalletDelete,
	}
}

// --- Expense operations ---

// CreateExpense records an expense and debits its wallet.
func (s *Service) CreateExpense(ctx context.Context, clientID uuid.UUID, in EventInput) (*Expense, error) {
	if err := validateEventInput(in); err != nil {
		return nil, err
	}

	now := time.Now()
	e := &Expense{
		ID:          uuid.New(),
		ClientID:    clientID,
		WalletID:    in.WalletID,
		Name:        in.Name,
		Description: in.Description,
		Amount:      in.Amount,
		EventDate:   in.EventDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.withTx(ctx, func(ctx context.Context) error {
		w, err := s.walletForMutation(ctx, clientID, in.WalletID)
		if err != nil {
			return err
		}

		if w.Balance.LessThan(in.Amount) {
			return ErrInsufficientBalance
		}

		if err := s.applyBalanceChange(ctx, w, in.Amount.Neg()); err != nil {
			return err
		}

		return s.repo.CreateExpense(ctx, e)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, LedgerEvent{Kind: "expense.created", ClientID: clientID, WalletID: e.WalletID, EventID: e.ID, Amount: e.Amount})
	return e, nil
}

// UpdateExpense applies a partial update to an expense. The wallet is
// debited or credited by the difference between old and new amount; the
// balance check is against that delta, matching the recorded behavior of
// the system this one replaces.
func (s *Service) UpdateExpense(ctx context.Context, clientID uuid.UUID, id uuid.UUID, upd EventUpdate) (*Expense, error) {
	if upd.Amount != nil && !upd.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var updated *Expense
	err := s.withTx(ctx, func(ctx context.Context) error {
		e, err := s.expenseForMutation(ctx, clientID, id)
		if err != nil {
			return err
		}

		// Acquire the wallet lock, then re-read the expense so concurrent
		// updates of the same event serialize on the wallet.
		w, err := s.walletForMutation(ctx, clientID, e.WalletID)
		if err != nil {
			return err
		}
		if e, err = s.expenseForMutation(ctx, clientID, id); err != nil {
			return err
		}

		newAmount := e.Amount
		if upd.Amount != nil {
			newAmount = *upd.Amount
		}

		delta := newAmount.Sub(e.Amount)
		if !delta.IsZero() {
			if w.Balance.LessThan(delta) {
				return ErrInsufficientBalance
			}
			if err := s.applyBalanceChange(ctx, w, delta.Neg()); err != nil {
				return err
			}
		}

		e.Amount = newAmount
		applyEventUpdate(&e.Name, &e.Description, &e.EventDate, upd)
		e.UpdatedAt = time.Now()

		if err := s.repo.UpdateExpense(ctx, e); err != nil {
			return err
		}

		updated = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, LedgerEvent{Kind: "expense.updated", ClientID: clientID, WalletID: updated.WalletID, EventID: updated.ID, Amount: updated.Amount})
	return updated, nil
}

// DeleteExpense soft-deletes an expense and credits its current amount back
// to the wallet. Deleting an already-deleted expense is rejected, never
// double-reversed.
func (s *Service) DeleteExpense(ctx context.Context, clientID uuid.UUID, id uuid.UUID) error {
	var deleted *Expense
	err := s.withTx(ctx, func(ctx context.Context) error {
		e, err := s.expenseForMutation(ctx, clientID, id)
		if err != nil {
			return err
		}

		w, err := s.walletForMutation(ctx, clientID, e.WalletID)
		if err != nil {
			return err
		}
		if e, err = s.expenseForMutation(ctx, clientID, id); err != nil {
			return err
		}

		if err := s.applyBalanceChange(ctx, w, e.Amount); err != nil {
			return err
		}

		now := time.Now()
		e.Deleted = true
		e.DeletedAt = &now
		e.UpdatedAt = now

		if err := s.repo.UpdateExpense(ctx, e); err != nil {
			return err
		}

		deleted = e
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, LedgerEvent{Kind: "expense.deleted", ClientID: clientID, WalletID: deleted.WalletID, EventID: deleted.ID, Amount: deleted.Amount})
	return nil
}

// GetExpense retrieves one expense with the ownership check applied.
func (s *Service) GetExpense(ctx context.Context, clientID uuid.UUID, id uuid.UUID) (*Expense, error) {
	e, err := s.repo.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.ClientID != clientID {
		return nil, ErrNotEventOwner
	}
	return e, nil
}

// ListExpenses lists a client's expenses, undeleted only unless asked.
func (s *Service) ListExpenses(ctx context.Context, clientID uuid.UUID, f EventFilter) ([]*Expense, error) {
	return s.repo.ListExpenses(ctx, clientID, f)
}

// --- Revenue operations ---

// CreateRevenue records a revenue and credits its wallet unconditionally
// once validated.
func (s *Service) CreateRevenue(ctx context.Context, clientID uuid.UUID, in EventInput) (*Revenue, error) {
	if err := validateEventInput(in); err != nil {
		return nil, err
	}

	now := time.Now()
	r := &Revenue{
		ID:          uuid.New(),
		ClientID:    clientID,
		WalletID:    in.WalletID,
		Name:        in.Name,
		Description: in.Description,
		Amount:      in.Amount,
		EventDate:   in.EventDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.withTx(ctx, func(ctx context.Context) error {
		w, err := s.walletForMutation(ctx, clientID, in.WalletID)
		if err != nil {
			return err
		}

		if err := s.applyBalanceChange(ctx, w, in.Amount); err != nil {
			return err
		}

		return s.repo.CreateRevenue(ctx, r)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, LedgerEvent{Kind: "revenue.created", ClientID: clientID, WalletID: r.WalletID, EventID: r.ID, Amount: r.Amount})
	return r, nil
}

// UpdateRevenue applies a partial update to a revenue, moving the wallet by
// the difference between old and new amount.
func (s *Service) UpdateRevenue(ctx context.Context, clientID uuid.UUID, id uuid.UUID, upd EventUpdate) (*Revenue, error) {
	if upd.Amount != nil && !upd.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var updated *Revenue
	err := s.withTx(ctx, func(ctx context.Context) error {
		r, err := s.revenueForMutation(ctx, clientID, id)
		if err != nil {
			return err
		}

		w, err := s.walletForMutation(ctx, clientID, r.WalletID)
		if err != nil {
			return err
		}
		if r, err = s.revenueForMutation(ctx, clientID, id); err != nil {
			return err
		}

		newAmount := r.Amount
		if upd.Amount != nil {
			newAmount = *upd.Amount
		}

		delta := newAmount.Sub(r.Amount)
		if !delta.IsZero() {
			if err := s.applyBalanceChange(ctx, w, delta); err != nil {
				return err
			}
		}

		r.Amount = newAmount
		applyEventUpdate(&r.Name, &r.Description, &r.EventDate, upd)
		r.UpdatedAt = time.Now()

		if err := s.repo.UpdateRevenue(ctx, r); err != nil {
			return err
		}

		updated = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, LedgerEvent{Kind: "revenue.updated", ClientID: clientID, WalletID: updated.WalletID, EventID: updated.ID, Amount: updated.Amount})
	return updated, nil
}

// DeleteRevenue soft-deletes a revenue and debits its current amount from
// the wallet. Fails if the wallet cannot cover the reversal: a balance is
// never allowed below zero.
func (s *Service) DeleteRevenue(ctx context.Context, clientID uuid.UUID, id uuid.UUID) error {
	var deleted *Revenue
	err := s.withTx(ctx, func(ctx context.Context) error {
		r, err := s.revenueForMutation(ctx, clientID, id)
		if err != nil {
			return err
		}

		w, err := s.walletForMutation(ctx, clientID, r.WalletID)
		if err != nil {
			return err
		}
		if r, err = s.revenueForMutation(ctx, clientID, id); err != nil {
			return err
		}

		if err := s.applyBalanceChange(ctx, w, r.Amount.Neg()); err != nil {
			return err
		}

		now := time.Now()
		r.Deleted = true
		r.DeletedAt = &now
		r.UpdatedAt = now

		if err := s.repo.UpdateRevenue(ctx, r); err != nil {
			return err
		}

		deleted = r
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, LedgerEvent{Kind: "revenue.deleted", ClientID: clientID, WalletID: deleted.WalletID, EventID: deleted.ID, Amount: deleted.Amount})
	return nil
}

// GetRevenue retrieves one revenue with the ownership check applied.
func (s *Service) GetRevenue(ctx context.Context, clientID uuid.UUID, id uuid.UUID) (*Revenue, error) {
	r, err := s.repo.GetRevenue(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.ClientID != clientID {
		return nil, ErrNotEventOwner
	}
	return r, nil
}

// ListRevenues lists a client's revenues, undeleted only unless asked.
func (s *Service) ListRevenues(ctx context.Context, clientID uuid.UUID, f EventFilter) ([]*Revenue, error) {
	return s.repo.ListRevenues(ctx, clientID, f)
}

// --- Transfer operations ---

// CreateTransfer atomically debits the source wallet, credits the
// destination wallet and records the transfer. Both wallet rows are locked
// in ascending wallet-id order regardless of transfer direction so opposing
// transfers cannot deadlock.
func (s *Service) CreateTransfer(ctx context.Context, clientID uuid.UUID, in TransferInput) (*Transfer, error) {
	if !in.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if in.FromWalletID == in.ToWalletID {
		return nil, ErrSameWalletTransfer
	}

	t := &Transfer{
		ID:           uuid.New(),
		ClientID:     clientID,
		FromWalletID: in.FromWalletID,
		ToWalletID:   in.ToWalletID,
		Amount:       in.Amount,
		Description:  in.Description,
		CreatedAt:    time.Now(),
	}

	err := s.withTx(ctx, func(ctx context.Context) error {
		from, to, err := s.walletPairForMutation(ctx, clientID, in.FromWalletID, in.ToWalletID)
		if err != nil {
			return err
		}

		if from.Balance.LessThan(in.Amount) {
			return ErrInsufficientBalance
		}

		if err := s.applyBalanceChange(ctx, from, in.Amount.Neg()); err != nil {
			return err
		}
		if err := s.applyBalanceChange(ctx, to, in.Amount); err != nil {
			return err
		}

		return s.repo.CreateTransfer(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, LedgerEvent{Kind: "transfer.created", ClientID: clientID, WalletID: t.FromWalletID, EventID: t.ID, Amount: t.Amount})
	return t, nil
}

// DeleteTransfer reverses a transfer: the destination wallet is debited and
// the source wallet credited, then the record is soft-deleted. There is no
// HTTP surface for this; it exists so reversal is a first-class engine
// primitive.
func (s *Service) DeleteTransfer(ctx context.Context, clientID uuid.UUID, id uuid.UUID) error {
	var deleted *Transfer
	err := s.withTx(ctx, func(ctx context.Context) error {
		t, err := s.transferForMutation(ctx, clientID, id)
		if err != nil {
			return err
		}

		from, to, err := s.walletPairForMutation(ctx, clientID, t.FromWalletID, t.ToWalletID)
		if err != nil {
			return err
		}
		if t, err = s.transferForMutation(ctx, clientID, id); err != nil {
			return err
		}

		if to.Balance.LessThan(t.Amount) {
			return ErrInsufficientBalance
		}

		if err := s.applyBalanceChange(ctx, to, t.Amount.Neg()); err != nil {
			return err
		}
		if err := s.applyBalanceChange(ctx, from, t.Amount); err != nil {
			return err
		}

		now := time.Now()
		t.Deleted = true
		t.DeletedAt = &now

		if err := s.repo.UpdateTransfer(ctx, t); err != nil {
			return err
		}

		deleted = t
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, LedgerEvent{Kind: "transfer.deleted", ClientID: clientID, WalletID: deleted.FromWalletID, EventID: deleted.ID, Amount: deleted.Amount})
	return nil
}

// ListTransfers lists a client's transfers, undeleted only unless asked.
func (s *Service) ListTransfers(ctx context.Context, clientID uuid.UUID, f EventFilter) ([]*Transfer, error) {
	return s.repo.ListTransfers(ctx, clientID, f)
}

// --- Adjustments ---

// AdjustWallet applies a direct signed correction to a wallet balance and
// records it. A debit larger than the balance is rejected.
func (s *Service) AdjustWallet(ctx context.Context, clientID uuid.UUID, walletID uuid.UUID, amount money.Amount, description string) (*Adjustment, error) {
	if amount.IsZero() {
		return nil, ErrZeroAdjustment
	}

	a := &Adjustment{
		ID:          uuid.New(),
		ClientID:    clientID,
		WalletID:    walletID,
		Amount:      amount,
		Description: description,
		CreatedAt:   time.Now(),
	}

	err := s.withTx(ctx, func(ctx context.Context) error {
		w, err := s.walletForMutation(ctx, clientID, walletID)
		if err != nil {
			return err
		}

		if err := s.applyBalanceChange(ctx, w, amount); err != nil {
			return err
		}

		return s.repo.CreateAdjustment(ctx, a)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, LedgerEvent{Kind: "adjustment.created", ClientID: clientID, WalletID: walletID, EventID: a.ID, Amount: a.Amount})
	return a, nil
}

// ListAdjustments lists a wallet's adjustments, newest first.
func (s *Service) ListAdjustments(ctx context.Context, clientID uuid.UUID, walletID uuid.UUID) ([]*Adjustment, error) {
	return s.repo.ListAdjustments(ctx, clientID, walletID)
}

// --- Wallet deletion ---

// DeleteWallet soft-deletes a wallet under the configured policy. Strict
// mode refuses while undeleted expenses reference the wallet; cascade mode
// soft-deletes those expenses first, reversing each one's balance effect,
// all in the same transaction.
func (s *Service) DeleteWallet(ctx context.Context, clientID uuid.UUID, walletID uuid.UUID) error {
	err := s.withTx(ctx, func(ctx context.Context) error {
		w, err := s.walletForMutation(ctx, clientID, walletID)
		if err != nil {
			return err
		}

		dependents, err := s.repo.ListExpensesByWallet(ctx, walletID)
		if err != nil {
			return fmt.Errorf("failed to list wallet expenses: %w", err)
		}

		if len(dependents) > 0 {
			if !s.cascadeDelete {
				return ErrWalletHasExpenses
			}

			now := time.Now()
			for _, e := range dependents {
				if err := s.applyBalanceChange(ctx, w, e.Amount); err != nil {
					return err
				}
				e.Deleted = true
				e.DeletedAt = &now
				e.UpdatedAt = now
				if err := s.repo.UpdateExpense(ctx, e); err != nil {
					return err
				}
			}
		}

		return s.repo.SoftDeleteWallet(ctx, walletID)
	})
	if err != nil {
		return err
	}

	s.publish(ctx, LedgerEvent{Kind: "wallet.deleted", ClientID: clientID, WalletID: walletID})
	return nil
}

// --- internals ---

// withTx runs fn inside a repository transaction, rolling back on any error.
func (s *Service) withTx(ctx context.Context, fn func(ctx context.Context) error) error {
	txCtx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = s.repo.RollbackTx(txCtx)
		}
	}()

	if err := fn(txCtx); err != nil {
		return err
	}

	if err := s.repo.CommitTx(txCtx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	committed = true
	return nil
}

// walletForMutation locks a wallet row and verifies it is live and owned by
// the acting client. Existence is checked on the fetched record, so a wallet
// owned by another client surfaces as an ownership error.
func (s *Service) walletForMutation(ctx context.Context, clientID, walletID uuid.UUID) (*wallet.Wallet, error) {
	w, err := s.repo.GetWalletForUpdate(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if w.ClientID != clientID {
		return nil, wallet.ErrNotWalletOwner
	}
	if w.Deleted {
		return nil, wallet.ErrWalletNotFound
	}
	return w, nil
}

// walletPairForMutation locks two wallet rows in ascending wallet-id order.
func (s *Service) walletPairForMutation(ctx context.Context, clientID, fromID, toID uuid.UUID) (from, to *wallet.Wallet, err error) {
	first, second := fromID, toID
	if bytes.Compare(second[:], first[:]) < 0 {
		first, second = second, first
	}

	a, err := s.walletForMutation(ctx, clientID, first)
	if err != nil {
		return nil, nil, err
	}
	b, err := s.walletForMutation(ctx, clientID, second)
	if err != nil {
		return nil, nil, err
	}

	if a.ID == fromID {
		return a, b, nil
	}
	return b, a, nil
}

// applyBalanceChange moves a locked wallet's balance by delta through the
// wallet store. The zero floor is enforced here for every path.
func (s *Service) applyBalanceChange(ctx context.Context, w *wallet.Wallet, delta money.Amount) error {
	newBalance := w.Balance.Add(delta)
	if newBalance.IsNegative() {
		return ErrInsufficientBalance
	}

	if err := s.repo.SetWalletBalance(ctx, w.ID, newBalance); err != nil {
		return fmt.Errorf("failed to set wallet balance: %w", err)
	}

	w.Balance = newBalance
	return nil
}

func (s *Service) expenseForMutation(ctx context.Context, clientID, id uuid.UUID) (*Expense, error) {
	e, err := s.repo.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.ClientID != clientID {
		return nil, ErrNotEventOwner
	}
	if e.Deleted {
		return nil, ErrEventDeleted
	}
	return e, nil
}

func (s *Service) revenueForMutation(ctx context.Context, clientID, id uuid.UUID) (*Revenue, error) {
	r, err := s.repo.GetRevenue(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.ClientID != clientID {
		return nil, ErrNotEventOwner
	}
	if r.Deleted {
		return nil, ErrEventDeleted
	}
	return r, nil
}

func (s *Service) transferForMutation(ctx context.Context, clientID, id uuid.UUID) (*Transfer, error) {
	t, err := s.repo.GetTransfer(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.ClientID != clientID {
		return nil, ErrNotEventOwner
	}
	if t.Deleted {
		return nil, ErrEventDeleted
	}
	return t, nil
}

func (s *Service) publish(ctx context.Context, ev LedgerEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishLedgerEvent(ctx, ev); err != nil && s.log != nil {
		s.log.WithError(err).Warn("failed to publish ledger event", "kind", ev.Kind)
	}
}

func validateEventInput(in EventInput) error {
	if in.Name == "" {
		return ErrMissingEventName
	}
	if !in.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func applyEventUpdate(name, description *string, date *time.Time, upd EventUpdate) {
	if upd.Name != nil {
		*name = *upd.Name
	}
	if upd.Description != nil {
		*description = *upd.Description
	}
	if upd.EventDate != nil {
		*date = *upd.EventDate
	}
}
