package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avaldes/walletbook/internal/ledger"
)

const (
	// DefaultHistoryMonths is how many 30-day snapshots the dashboard shows.
	DefaultHistoryMonths = 6
	// DefaultTopN is how many top events of each kind the dashboard shows.
	DefaultTopN = 5

	cacheTTL = time.Minute
)

// Service is the aggregation engine. It only ever reads the event store;
// balances are never touched from here.
type Service struct {
	events  LedgerReader
	wallets WalletReader
	cache   Cache

	now func() time.Time
}

// NewService creates a new dashboard service. cache may be nil.
func NewService(events LedgerReader, wallets WalletReader, cache Cache) *Service {
	return &Service{
		events:  events,
		wallets: wallets,
		cache:   cache,
		now:     time.Now,
	}
}

// PeriodSummary sums undeleted expense and revenue amounts dated within the
// year (optionally narrowed to one month). The balance is the period flow,
// revenue minus expense.
func (s *Service) PeriodSummary(ctx context.Context, clientID uuid.UUID, year int, month *time.Month) (Summary, error) {
	from, to := periodRange(year, month)

	expense, err := s.events.SumExpenses(ctx, clientID, from, to)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to sum expenses: %w", err)
	}

	revenue, err := s.events.SumRevenues(ctx, clientID, from, to)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to sum revenues: %w", err)
	}

	period := fmt.Sprintf("%d", year)
	if month != nil {
		period = fmt.Sprintf("%d-%d", year, int(*month))
	}

	return Summary{
		TotalRevenue: revenue,
		TotalExpense: expense,
		Balance:      revenue.Sub(expense),
		Period:       period,
	}, nil
}

// MonthlyRollup groups a year's undeleted events by calendar month of their
// event date, month ascending.
func (s *Service) MonthlyRollup(ctx context.Context, clientID uuid.UUID, year int) (MonthlyComparison, error) {
	expenses, err := s.events.MonthlyExpenseTotals(ctx, clientID, year)
	if err != nil {
		return MonthlyComparison{}, fmt.Errorf("failed to roll up expenses: %w", err)
	}

	revenues, err := s.events.MonthlyRevenueTotals(ctx, clientID, year)
	if err != nil {
		return MonthlyComparison{}, fmt.Errorf("failed to roll up revenues: %w", err)
	}

	return MonthlyComparison{
		Expenses: labelMonths(year, expenses),
		Revenues: labelMonths(year, revenues),
	}, nil
}

// HistoricalBalance reconstructs a point-in-time balance for each of the
// last n months, walking backward from now in fixed 30-day steps (calendar
// month boundaries are deliberately not used). Each point is the cumulative
// revenue minus expense of all undeleted events dated at or before the
// snapshot. Points are returned oldest first, the current one last.
func (s *Service) HistoricalBalance(ctx context.Context, clientID uuid.UUID, nMonths int) ([]HistoricalPoint, error) {
	if nMonths <= 0 {
		nMonths = DefaultHistoryMonths
	}

	now := s.now()
	points := make([]HistoricalPoint, 0, nMonths)

	for i := nMonths - 1; i >= 0; i-- {
		snapshot := now.AddDate(0, 0, -30*i)

		revenue, err := s.events.SumRevenuesThrough(ctx, clientID, snapshot)
		if err != nil {
			return nil, fmt.Errorf("failed to sum revenues through %s: %w", snapshot.Format("2006-01-02"), err)
		}

		expense, err := s.events.SumExpensesThrough(ctx, clientID, snapshot)
		if err != nil {
			return nil, fmt.Errorf("failed to sum expenses through %s: %w", snapshot.Format("2006-01-02"), err)
		}

		points = append(points, HistoricalPoint{
			Month:   snapshot.Format("2006-01"),
			Balance: revenue.Sub(expense),
		})
	}

	return points, nil
}

// TopExpenses returns the n largest undeleted expenses in the period,
// descending by amount, insertion order on ties.
func (s *Service) TopExpenses(ctx context.Context, clientID uuid.UUID, year int, month *time.Month, n int) ([]TopEvent, error) {
	if n <= 0 {
		n = DefaultTopN
	}
	from, to := periodRange(year, month)

	expenses, err := s.events.TopExpenses(ctx, clientID, from, to, n)
	if err != nil {
		return nil, fmt.Errorf("failed to get top expenses: %w", err)
	}

	out := make([]TopEvent, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, TopEvent{ID: e.ID, Name: e.Name, Amount: e.Amount, Date: e.EventDate})
	}
	return out, nil
}

// TopRevenues returns the n largest undeleted revenues in the period.
func (s *Service) TopRevenues(ctx context.Context, clientID uuid.UUID, year int, month *time.Month, n int) ([]TopEvent, error) {
	if n <= 0 {
		n = DefaultTopN
	}
	from, to := periodRange(year, month)

	revenues, err := s.events.TopRevenues(ctx, clientID, from, to, n)
	if err != nil {
		return nil, fmt.Errorf("failed to get top revenues: %w", err)
	}

	out := make([]TopEvent, 0, len(revenues))
	for _, r := range revenues {
		out = append(out, TopEvent{ID: r.ID, Name: r.Name, Amount: r.Amount, Date: r.EventDate})
	}
	return out, nil
}

// WalletSnapshot returns (id, name, balance) for every live wallet of the
// client.
func (s *Service) WalletSnapshot(ctx context.Context, clientID uuid.UUID) ([]WalletSummary, error) {
	wallets, err := s.wallets.GetByClientID(ctx, clientID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}

	out := make([]WalletSummary, 0, len(wallets))
	for _, w := range wallets {
		out = append(out, WalletSummary{ID: w.ID, Name: w.Name, Balance: w.Balance})
	}
	return out, nil
}

// GetDashboard assembles the complete read model for one client and period,
// serving from cache when a fresh enough copy exists.
func (s *Service) GetDashboard(ctx context.Context, clientID uuid.UUID, year int, month *time.Month) (*Dashboard, error) {
	key := cacheKey(clientID, year, month)
	if s.cache != nil {
		if d, ok := s.cache.GetDashboard(ctx, key); ok {
			return d, nil
		}
	}

	summary, err := s.PeriodSummary(ctx, clientID, year, month)
	if err != nil {
		return nil, err
	}

	rollup, err := s.MonthlyRollup(ctx, clientID, year)
	if err != nil {
		return nil, err
	}

	wallets, err := s.WalletSnapshot(ctx, clientID)
	if err != nil {
		return nil, err
	}

	history, err := s.HistoricalBalance(ctx, clientID, DefaultHistoryMonths)
	if err != nil {
		return nil, err
	}

	topExpenses, err := s.TopExpenses(ctx, clientID, year, month, DefaultTopN)
	if err != nil {
		return nil, err
	}

	topRevenues, err := s.TopRevenues(ctx, clientID, year, month, DefaultTopN)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		Summary:           summary,
		MonthlyComparison: rollup,
		Wallets:           wallets,
		HistoricalBalance: history,
		TopExpenses:       topExpenses,
		TopRevenues:       topRevenues,
	}

	if s.cache != nil {
		s.cache.SetDashboard(ctx, key, d, cacheTTL)
	}

	return d, nil
}

// CacheInvalidator adapts the dashboard cache to the ledger's publisher
// port so any committed mutation drops the client's cached dashboards.
type CacheInvalidator struct {
	cache Cache
}

// NewCacheInvalidator creates a publisher that invalidates the cache.
func NewCacheInvalidator(cache Cache) *CacheInvalidator {
	return &CacheInvalidator{cache: cache}
}

// PublishLedgerEvent implements ledger.Publisher.
func (c *CacheInvalidator) PublishLedgerEvent(ctx context.Context, ev ledger.LedgerEvent) error {
	return c.cache.InvalidateClient(ctx, ev.ClientID)
}

// periodRange converts a year (optionally narrowed to a month) into a
// half-open UTC interval [from, to).
func periodRange(year int, month *time.Month) (time.Time, time.Time) {
	if month == nil {
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(1, 0, 0)
	}
	from := time.Date(year, *month, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

func labelMonths(year int, totals []MonthlyTotal) []MonthTotal {
	out := make([]MonthTotal, 0, len(totals))
	for _, t := range totals {
		out = append(out, MonthTotal{
			Month: time.Date(year, t.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01"),
			Total: t.Total,
		})
	}
	return out
}

func cacheKey(clientID uuid.UUID, year int, month *time.Month) string {
	m := 0
	if month != nil {
		m = int(*month)
	}
	return fmt.Sprintf("%s:%d:%d", clientID, year, m)
}
