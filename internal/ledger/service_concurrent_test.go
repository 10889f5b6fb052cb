package ledger_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avaldes/walletbook/internal/ledger"
	"github.com/avaldes/walletbook/pkg/money"
)

// Concurrent expense creation against one wallet must admit exactly as many
// expenses as the balance covers, never overdrawing.
func TestConcurrentExpensesNeverOverdraw(t *testing.T) {
	ctx := context.Background()
	clientID := uuid.New()
	svc, store := newTestService(t, ledger.Config{})
	w := seedWallet(t, store, clientID, "Checking", "10.00")

	const attempts = 25
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateExpense(ctx, clientID, ledger.EventInput{
				WalletID:  w.ID,
				Name:      "Coffee",
				Amount:    money.MustParse("1.00"),
				EventDate: time.Now(),
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, ledger.ErrInsufficientBalance)
		}
	}

	assert.Equal(t, 10, succeeded)
	assert.True(t, walletBalance(t, store, w.ID).IsZero())

	list, err := svc.ListExpenses(ctx, clientID, ledger.EventFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 10)
}

// Opposing transfers between the same two wallets must finish without
// deadlock and conserve the total.
func TestOpposingTransfersConserveTotal(t *testing.T) {
	ctx := context.Background()
	clientID := uuid.New()
	svc, store := newTestService(t, ledger.Config{})
	w1 := seedWallet(t, store, clientID, "Checking", "100.00")
	w2 := seedWallet(t, store, clientID, "Savings", "100.00")

	const rounds = 20
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			_, _ = svc.CreateTransfer(ctx, clientID, ledger.TransferInput{
				FromWalletID: w1.ID,
				ToWalletID:   w2.ID,
				Amount:       money.MustParse("3.00"),
			})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			_, _ = svc.CreateTransfer(ctx, clientID, ledger.TransferInput{
				FromWalletID: w2.ID,
				ToWalletID:   w1.ID,
				Amount:       money.MustParse("5.00"),
			})
		}
	}()
	wg.Wait()

	b1 := walletBalance(t, store, w1.ID)
	b2 := walletBalance(t, store, w2.ID)
	assert.Equal(t, money.MustParse("200.00"), b1.Add(b2))
	assert.False(t, b1.IsNegative())
	assert.False(t, b2.IsNegative())
}
