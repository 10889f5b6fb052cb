package dashboard_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avaldes/walletbook/internal/infra/memory"
	"github.com/avaldes/walletbook/internal/ledger"
	"github.com/avaldes/walletbook/internal/module/dashboard"
	"github.com/avaldes/walletbook/internal/platform/wallet"
	"github.com/avaldes/walletbook/pkg/money"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func seedExpense(t *testing.T, store *memory.Store, clientID, walletID uuid.UUID, name, amount string, on time.Time) *ledger.Expense {
	t.Helper()
	e := &ledger.Expense{
		ID:        uuid.New(),
		ClientID:  clientID,
		WalletID:  walletID,
		Name:      name,
		Amount:    money.MustParse(amount),
		EventDate: on,
		CreatedAt: on,
		UpdatedAt: on,
	}
	require.NoError(t, store.CreateExpense(context.Background(), e))
	return e
}

func seedRevenue(t *testing.T, store *memory.Store, clientID, walletID uuid.UUID, name, amount string, on time.Time) *ledger.Revenue {
	t.Helper()
	r := &ledger.Revenue{
		ID:        uuid.New(),
		ClientID:  clientID,
		WalletID:  walletID,
		Name:      name,
		Amount:    money.MustParse(amount),
		EventDate: on,
		CreatedAt: on,
		UpdatedAt: on,
	}
	require.NoError(t, store.CreateRevenue(context.Background(), r))
	return r
}

func seedTestWallet(t *testing.T, store *memory.Store, clientID uuid.UUID, name, balance string) *wallet.Wallet {
	t.Helper()
	now := time.Now()
	w := &wallet.Wallet{
		ID:        uuid.New(),
		ClientID:  clientID,
		Name:      name,
		Balance:   money.MustParse(balance),
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, store.Create(context.Background(), w))
	return w
}

func TestPeriodSummary(t *testing.T) {
	ctx := context.Background()
	clientID := uuid.New()
	store := memory.NewStore()
	svc := dashboard.NewService(store, store, nil)
	w := seedTestWallet(t, store, clientID, "Checking", "0.00")

	seedRevenue(t, store, clientID, w.ID, "Salary Jan", "2500.00", date(2025, time.January, 25))
	seedRevenue(t, store, clientID, w.ID, "Salary Mar", "2500.00", date(2025, time.March, 25))
	seedExpense(t, store, clientID, w.ID, "Rent Mar", "900.00", date(2025, time.March, 1))
	seedExpense(t, store, clientID, w.ID, "Rent Dec 2024", "900.00", date(2024, time.December, 1))

	// another client's events never leak in
	other := uuid.New()
	ow := seedTestWallet(t, store, other, "Theirs", "0.00")
	seedRevenue(t, store, other, ow.ID, "Their salary", "9999.00", date(2025, time.March, 25))

	t.Run("whole year", func(t *testing.T) {
		got, err := svc.PeriodSummary(ctx, clientID, 2025, nil)
		require.NoError(t, err)
		assert.Equal(t, money.MustParse("5000.00"), got.TotalRevenue)
		assert.Equal(t, money.MustParse("900.00"), got.TotalExpense)
		assert.Equal(t, money.MustParse("4100.00"), got.Balance)
		assert.Equal(t, "2025", got.Period)
	})

	t.Run("single month", func(t *testing.T) {
		march := time.March
		got, err := svc.PeriodSummary(ctx, clientID, 2025, &march)
		require.NoError(t, err)
		assert.Equal(t, money.MustParse("2500.00"), got.TotalRevenue)
		assert.Equal(t, money.MustParse("900.00"), got.TotalExpense)
		assert.Equal(t, "2025-3", got.Period)
	})

	t.Run("deleted events are excluded", func(t *testing.T) {
		e := seedExpense(t, store, clientID, w.ID, "Mistake", "500.00", date(2025, time.March, 2))
		e.Deleted = true
		now := time.Now()
		e.DeletedAt = &now
		require.NoError(t, store.UpdateExpense(ctx, e))

		march := time.March
		got, err := svc.PeriodSummary(ctx, clientID, 2025, &march)
		require.NoError(t, err)
		assert.Equal(t, money.MustParse("900.00"), got.TotalExpense)
	})

	t.Run("empty period", func(t *testing.T) {
		got, err := svc.PeriodSummary(ctx, clientID, 1999, nil)
		require.NoError(t, err)
		assert.True(t, got.TotalRevenue.IsZero())
		assert.True(t, got.TotalExpense.IsZero())
		assert.True(t, got.Balance.IsZero())
	})
}

func TestMonthlyRollup(t *testing.T) {
	ctx := context.Background()
	clientID := uuid.New()
	store := memory.NewStore()
	svc := dashboard.NewService(store, store, nil)
	w := seedTestWallet(t, store, clientID, "Checking", "0.00")

	seedExpense(t, store, clientID, w.ID, "Rent Jan", "900.00", date(2025, time.January, 1))
	seedExpense(t, store, clientID, w.ID, "Food Jan", "250.00", date(2025, time.January, 15))
	seedExpense(t, store, clientID, w.ID, "Rent Apr", "900.00", date(2025, time.April, 1))
	seedRevenue(t, store, clientID, w.ID, "Salary Jan", "2500.00", date(2025, time.January, 25))

	got, err := svc.MonthlyRollup(ctx, clientID, 2025)
	require.NoError(t, err)

	// months without events are omitted, order ascending
	require.Len(t, got.Expenses, 2)
	assert.Equal(t, "2025-01", got.Expenses[0].Month)
	assert.Equal(t, money.MustParse("1150.00"), got.Expenses[0].Total)
	assert.Equal(t, "2025-04", got.Expenses[1].Month)
	assert.Equal(t, money.MustParse("900.00"), got.Expenses[1].Total)

	require.Len(t, got.Revenues, 1)
	assert.Equal(t, "2025-01", got.Revenues[0].Month)

	t.Run("rollup totals agree with the period summary", func(t *testing.T) {
		summary, err := svc.PeriodSummary(ctx, clientID, 2025, nil)
		require.NoError(t, err)

		total := money.Zero
		for _, m := range got.Expenses {
			total = total.Add(m.Total)
		}
		assert.Equal(t, summary.TotalExpense, total)

		total = money.Zero
		for _, m := range got.Revenues {
			total = total.Add(m.Total)
		}
		assert.Equal(t, summary.TotalRevenue, total)
	})
}

func TestHistoricalBalance(t *testing.T) {
	ctx := context.Background()
	clientID := uuid.New()
	store := memory.NewStore()
	svc := dashboard.NewService(store, store, nil)
	w := seedTestWallet(t, store, clientID, "Checking", "0.00")

	now := date(2025, time.June, 15)
	dashboard.SetNow(svc, func() time.Time { return now })

	// before every snapshot
	seedRevenue(t, store, clientID, w.ID, "Opening", "1000.00", date(2024, time.June, 1))
	// lands between the 150- and 120-day-old snapshots
	seedExpense(t, store, clientID, w.ID, "Rent", "300.00", date(2025, time.February, 1))
	// after every snapshot
	seedRevenue(t, store, clientID, w.ID, "Future", "500.00", date(2025, time.July, 1))

	points, err := svc.HistoricalBalance(ctx, clientID, 6)
	require.NoError(t, err)
	require.Len(t, points, 6)

	// oldest snapshot is now minus 150 days, labelled by its month
	assert.Equal(t, now.AddDate(0, 0, -150).Format("2006-01"), points[0].Month)
	assert.Equal(t, money.MustParse("1000.00"), points[0].Balance)

	// the expense shows up from the second snapshot on
	assert.Equal(t, money.MustParse("700.00"), points[1].Balance)

	// current point, future-dated events excluded
	assert.Equal(t, "2025-06", points[5].Month)
	assert.Equal(t, money.MustParse("700.00"), points[5].Balance)
}

func TestTopEvents(t *testing.T) {
	ctx := context.Background()
	clientID := uuid.New()
	store := memory.NewStore()
	svc := dashboard.NewService(store, store, nil)
	w := seedTestWallet(t, store, clientID, "Checking", "0.00")

	flight := seedExpense(t, store, clientID, w.ID, "Flight", "450.00", date(2025, time.March, 2))
	seedExpense(t, store, clientID, w.ID, "Rent", "900.00", date(2025, time.March, 1))
	hotel := seedExpense(t, store, clientID, w.ID, "Hotel", "450.00", date(2025, time.March, 3))
	seedExpense(t, store, clientID, w.ID, "Coffee", "4.50", date(2025, time.March, 4))

	t.Run("descending with stable ties", func(t *testing.T) {
		got, err := svc.TopExpenses(ctx, clientID, 2025, nil, 3)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "Rent", got[0].Name)
		// equal amounts keep insertion order
		assert.Equal(t, flight.ID, got[1].ID)
		assert.Equal(t, hotel.ID, got[2].ID)
	})

	t.Run("limit defaults to five", func(t *testing.T) {
		for i := 0; i < 4; i++ {
			seedExpense(t, store, clientID, w.ID, "Filler", "1.00", date(2025, time.March, 5))
		}
		got, err := svc.TopExpenses(ctx, clientID, 2025, nil, 0)
		require.NoError(t, err)
		assert.Len(t, got, 5)
	})

	t.Run("deleted events are excluded", func(t *testing.T) {
		e := seedExpense(t, store, clientID, w.ID, "Huge mistake", "99999.00", date(2025, time.March, 6))
		e.Deleted = true
		require.NoError(t, store.UpdateExpense(ctx, e))

		got, err := svc.TopExpenses(ctx, clientID, 2025, nil, 1)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Rent", got[0].Name)
	})

	t.Run("revenues rank independently", func(t *testing.T) {
		seedRevenue(t, store, clientID, w.ID, "Salary", "2500.00", date(2025, time.March, 25))
		seedRevenue(t, store, clientID, w.ID, "Bonus", "400.00", date(2025, time.March, 26))

		got, err := svc.TopRevenues(ctx, clientID, 2025, nil, 5)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Salary", got[0].Name)
	})
}

func TestWalletSnapshot(t *testing.T) {
	ctx := context.Background()
	clientID := uuid.New()
	store := memory.NewStore()
	svc := dashboard.NewService(store, store, nil)

	w1 := seedTestWallet(t, store, clientID, "Checking", "120.00")
	w2 := seedTestWallet(t, store, clientID, "Closed", "0.00")
	require.NoError(t, store.SoftDelete(ctx, w2.ID))

	got, err := svc.WalletSnapshot(ctx, clientID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, w1.ID, got[0].ID)
	assert.Equal(t, money.MustParse("120.00"), got[0].Balance)
}

func TestGetDashboard(t *testing.T) {
	ctx := context.Background()
	clientID := uuid.New()
	store := memory.NewStore()
	cache := &fakeCache{entries: map[string]*dashboard.Dashboard{}}
	svc := dashboard.NewService(store, store, cache)
	w := seedTestWallet(t, store, clientID, "Checking", "1600.00")

	seedRevenue(t, store, clientID, w.ID, "Salary", "2500.00", date(2025, time.March, 25))
	seedExpense(t, store, clientID, w.ID, "Rent", "900.00", date(2025, time.March, 1))

	march := time.March
	d, err := svc.GetDashboard(ctx, clientID, 2025, &march)
	require.NoError(t, err)
	assert.Equal(t, money.MustParse("1600.00"), d.Summary.Balance)
	require.Len(t, d.Wallets, 1)
	require.Len(t, d.TopExpenses, 1)
	require.Len(t, d.HistoricalBalance, dashboard.DefaultHistoryMonths)
	assert.Equal(t, 1, cache.sets)

	// second read is served from cache
	again, err := svc.GetDashboard(ctx, clientID, 2025, &march)
	require.NoError(t, err)
	assert.Same(t, d, again)
	assert.Equal(t, 1, cache.sets)
}

func TestCacheInvalidator(t *testing.T) {
	ctx := context.Background()
	clientID := uuid.New()
	cache := &fakeCache{entries: map[string]*dashboard.Dashboard{}}

	inv := dashboard.NewCacheInvalidator(cache)
	require.NoError(t, inv.PublishLedgerEvent(ctx, ledger.LedgerEvent{Kind: "expense.created", ClientID: clientID}))
	assert.Equal(t, []uuid.UUID{clientID}, cache.invalidated)
}

type fakeCache struct {
	entries     map[string]*dashboard.Dashboard
	sets        int
	invalidated []uuid.UUID
}

func (c *fakeCache) GetDashboard(_ context.Context, key string) (*dashboard.Dashboard, bool) {
	d, ok := c.entries[key]
	return d, ok
}

func (c *fakeCache) SetDashboard(_ context.Context, key string, d *dashboard.Dashboard, _ time.Duration) {
	c.entries[key] = d
	c.sets++
}

func (c *fakeCache) InvalidateClient(_ context.Context, clientID uuid.UUID) error {
	c.invalidated = append(c.invalidated, clientID)
	return nil
}
