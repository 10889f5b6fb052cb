package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avaldes/walletbook/internal/infra/memory"
	"github.com/avaldes/walletbook/internal/ledger"
	"github.com/avaldes/walletbook/internal/module/dashboard"
	"github.com/avaldes/walletbook/internal/platform/client"
	"github.com/avaldes/walletbook/internal/platform/wallet"
	"github.com/avaldes/walletbook/internal/transport/httpapi"
	"github.com/avaldes/walletbook/internal/transport/httpapi/handler"
	"github.com/avaldes/walletbook/internal/transport/httpapi/middleware"
	"github.com/avaldes/walletbook/pkg/logger"
)

// noopCache satisfies dashboard.Cache without caching anything.
type noopCache struct{}

func (noopCache) GetDashboard(ctx context.Context, key string) (*dashboard.Dashboard, bool) {
	return nil, false
}
func (noopCache) SetDashboard(ctx context.Context, key string, d *dashboard.Dashboard, ttl time.Duration) {
}
func (noopCache) InvalidateClient(ctx context.Context, clientID uuid.UUID) error { return nil }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	log := logger.New("test", io.Discard)
	store := memory.NewStore()

	clientSvc := client.NewService(memory.NewClientRepository())
	walletSvc := wallet.NewService(store)
	ledgerSvc := ledger.NewService(store, log, ledger.Config{})
	dashSvc := dashboard.NewService(store, store, noopCache{})

	jwtSvc := middleware.NewJWTService("test-secret")

	return httpapi.NewRouter(httpapi.Config{
		Logger:           log,
		AllowedOrigins:   []string{"*"},
		AuthHandler:      handler.NewAuthHandler(clientSvc, walletSvc, jwtSvc),
		WalletHandler:    handler.NewWalletHandler(walletSvc, ledgerSvc),
		ExpenseHandler:   handler.NewExpenseHandler(ledgerSvc),
		RevenueHandler:   handler.NewRevenueHandler(ledgerSvc),
		TransferHandler:  handler.NewTransferHandler(ledgerSvc),
		DashboardHandler: handler.NewDashboardHandler(dashSvc),
		JWTMiddleware:    middleware.JWTMiddleware(jwtSvc),
	})
}

// doRequest performs a JSON request against the router and returns the recorder.
func doRequest(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

// registerClient registers a fresh client and returns its auth token.
func registerClient(t *testing.T, h http.Handler, email string) string {
	t.Helper()

	rec := doRequest(t, h, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":     "Test Client",
		"email":    email,
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	decodeBody(t, rec, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// createWallet creates a wallet and returns its ID.
func createWallet(t *testing.T, h http.Handler, token, name, initial string) string {
	t.Helper()

	body := map[string]string{"name": name}
	if initial != "" {
		body["initial_balance"] = initial
	}

	rec := doRequest(t, h, http.MethodPost, "/api/v1/wallets", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &resp)
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

// walletBalance reads a wallet's balance over the API.
func walletBalance(t *testing.T, h http.Handler, token, id string) string {
	t.Helper()

	rec := doRequest(t, h, http.MethodGet, "/api/v1/wallets/"+id, token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Balance string `json:"balance"`
	}
	decodeBody(t, rec, &resp)
	return resp.Balance
}

func TestHealthEndpoints(t *testing.T) {
	h := newTestRouter(t)

	rec := doRequest(t, h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthFlow(t *testing.T) {
	h := newTestRouter(t)

	t.Run("register and login", func(t *testing.T) {
		token := registerClient(t, h, "flow@example.com")

		rec := doRequest(t, h, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email":    "flow@example.com",
			"password": "supersecret",
		})
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(t, h, http.MethodGet, "/api/v1/me", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var me struct {
			Email   string            `json:"email"`
			Wallets []json.RawMessage `json:"wallets"`
		}
		decodeBody(t, rec, &me)
		assert.Equal(t, "flow@example.com", me.Email)
		assert.Empty(t, me.Wallets)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		registerClient(t, h, "dupe@example.com")

		rec := doRequest(t, h, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
			"name":     "Other",
			"email":    "dupe@example.com",
			"password": "supersecret",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		registerClient(t, h, "locked@example.com")

		rec := doRequest(t, h, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email":    "locked@example.com",
			"password": "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown email does not reveal registration", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email":    "nobody@example.com",
			"password": "supersecret",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("protected routes require a token", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/v1/wallets", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = doRequest(t, h, http.MethodGet, "/api/v1/me", "not-a-token", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestWalletEndpoints(t *testing.T) {
	h := newTestRouter(t)
	token := registerClient(t, h, "wallets@example.com")

	t.Run("create list get delete", func(t *testing.T) {
		id := createWallet(t, h, token, "Checking", "100.00")
		assert.Equal(t, "100.00", walletBalance(t, h, token, id))

		rec := doRequest(t, h, http.MethodGet, "/api/v1/wallets", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var list struct {
			Total int `json:"total"`
		}
		decodeBody(t, rec, &list)
		assert.Equal(t, 1, list.Total)

		rec = doRequest(t, h, http.MethodDelete, "/api/v1/wallets/"+id, token, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = doRequest(t, h, http.MethodGet, "/api/v1/wallets", token, nil)
		decodeBody(t, rec, &list)
		assert.Equal(t, 0, list.Total)
	})

	t.Run("duplicate name conflicts", func(t *testing.T) {
		createWallet(t, h, token, "Savings", "")

		rec := doRequest(t, h, http.MethodPost, "/api/v1/wallets", token, map[string]string{"name": "Savings"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("invalid wallet id", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/v1/wallets/not-a-uuid", token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("another client's wallet is forbidden", func(t *testing.T) {
		id := createWallet(t, h, token, "Private", "50.00")

		other := registerClient(t, h, "intruder@example.com")
		rec := doRequest(t, h, http.MethodGet, "/api/v1/wallets/"+id, other, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("adjustments", func(t *testing.T) {
		id := createWallet(t, h, token, "Cash", "100.00")

		rec := doRequest(t, h, http.MethodPost, "/api/v1/wallets/"+id+"/adjust", token, map[string]string{
			"amount":      "-30.00",
			"description": "bank reconciliation",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, "70.00", walletBalance(t, h, token, id))

		rec = doRequest(t, h, http.MethodPost, "/api/v1/wallets/"+id+"/adjust", token, map[string]string{
			"amount": "0.00",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = doRequest(t, h, http.MethodGet, "/api/v1/wallets/"+id+"/adjustments", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var list struct {
			Total int `json:"total"`
		}
		decodeBody(t, rec, &list)
		assert.Equal(t, 1, list.Total)
	})
}

func TestExpenseEndpoints(t *testing.T) {
	h := newTestRouter(t)
	token := registerClient(t, h, "expenses@example.com")
	walletID := createWallet(t, h, token, "Spending", "100.00")

	newExpense := func(t *testing.T, amount string) string {
		t.Helper()
		rec := doRequest(t, h, http.MethodPost, "/api/v1/expenses", token, map[string]string{
			"wallet_id": walletID,
			"name":      "Groceries",
			"amount":    amount,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var resp struct {
			ID string `json:"id"`
		}
		decodeBody(t, rec, &resp)
		return resp.ID
	}

	t.Run("create debits the wallet", func(t *testing.T) {
		newExpense(t, "40.00")
		assert.Equal(t, "60.00", walletBalance(t, h, token, walletID))
	})

	t.Run("insufficient balance is rejected", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/api/v1/expenses", token, map[string]string{
			"wallet_id": walletID,
			"name":      "Too big",
			"amount":    "1000.00",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "60.00", walletBalance(t, h, token, walletID))
	})

	t.Run("missing name is a validation error", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/api/v1/expenses", token, map[string]string{
			"wallet_id": walletID,
			"amount":    "5.00",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed amount is rejected", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/api/v1/expenses", token, map[string]string{
			"wallet_id": walletID,
			"name":      "Bad amount",
			"amount":    "12.345",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("update applies the delta", func(t *testing.T) {
		id := newExpense(t, "20.00")
		assert.Equal(t, "40.00", walletBalance(t, h, token, walletID))

		rec := doRequest(t, h, http.MethodPut, "/api/v1/expenses/"+id, token, map[string]string{
			"amount": "10.00",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "50.00", walletBalance(t, h, token, walletID))
	})

	t.Run("delete credits the amount back", func(t *testing.T) {
		id := newExpense(t, "15.00")
		assert.Equal(t, "35.00", walletBalance(t, h, token, walletID))

		rec := doRequest(t, h, http.MethodDelete, "/api/v1/expenses/"+id, token, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "50.00", walletBalance(t, h, token, walletID))

		rec = doRequest(t, h, http.MethodDelete, "/api/v1/expenses/"+id, token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown expense is not found", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/v1/expenses/"+uuid.NewString(), token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRevenueEndpoints(t *testing.T) {
	h := newTestRouter(t)
	token := registerClient(t, h, "revenues@example.com")
	walletID := createWallet(t, h, token, "Income", "")

	t.Run("create credits the wallet", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/api/v1/revenues", token, map[string]string{
			"wallet_id":  walletID,
			"name":       "Salary",
			"amount":     "2500.00",
			"event_date": "2026-08-01",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, "2500.00", walletBalance(t, h, token, walletID))
	})

	t.Run("list", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/v1/revenues", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var list struct {
			Total int `json:"total"`
		}
		decodeBody(t, rec, &list)
		assert.Equal(t, 1, list.Total)
	})

	t.Run("bad event_date is rejected", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/api/v1/revenues", token, map[string]string{
			"wallet_id":  walletID,
			"name":       "Bonus",
			"amount":     "100.00",
			"event_date": "01/08/2026",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTransferEndpoints(t *testing.T) {
	h := newTestRouter(t)
	token := registerClient(t, h, "transfers@example.com")
	fromID := createWallet(t, h, token, "Source", "100.00")
	toID := createWallet(t, h, token, "Target", "50.00")

	t.Run("create moves the amount", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/api/v1/transfers", token, map[string]string{
			"from_wallet_id": fromID,
			"to_wallet_id":   toID,
			"amount":         "40.00",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, "60.00", walletBalance(t, h, token, fromID))
		assert.Equal(t, "90.00", walletBalance(t, h, token, toID))
	})

	t.Run("same wallet is rejected", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/api/v1/transfers", token, map[string]string{
			"from_wallet_id": fromID,
			"to_wallet_id":   fromID,
			"amount":         "10.00",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("insufficient source balance", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/api/v1/transfers", token, map[string]string{
			"from_wallet_id": fromID,
			"to_wallet_id":   toID,
			"amount":         "1000.00",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list shows the transfer", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/v1/transfers", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var list struct {
			Transfers []struct {
				ID     string `json:"id"`
				Amount string `json:"amount"`
			} `json:"transfers"`
		}
		decodeBody(t, rec, &list)
		require.Len(t, list.Transfers, 1)
		assert.Equal(t, "40.00", list.Transfers[0].Amount)
	})

	t.Run("no reversal route is exposed", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodDelete, "/api/v1/transfers/"+uuid.NewString(), token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDashboardEndpoint(t *testing.T) {
	h := newTestRouter(t)
	token := registerClient(t, h, "dashboard@example.com")
	walletID := createWallet(t, h, token, "Main", "")

	rec := doRequest(t, h, http.MethodPost, "/api/v1/revenues", token, map[string]string{
		"wallet_id": walletID,
		"name":      "Salary",
		"amount":    "100.00",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/api/v1/expenses", token, map[string]string{
		"wallet_id": walletID,
		"name":      "Groceries",
		"amount":    "30.00",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("current year summary", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/v1/dashboard", token, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp struct {
			Summary struct {
				TotalRevenues string `json:"total_revenues"`
				TotalExpenses string `json:"total_expenses"`
				Balance       string `json:"balance"`
			} `json:"summary"`
			Wallets []struct {
				Name string `json:"name"`
			} `json:"wallets_summary"`
		}
		decodeBody(t, rec, &resp)
		assert.Equal(t, "100.00", resp.Summary.TotalRevenues)
		assert.Equal(t, "30.00", resp.Summary.TotalExpenses)
		assert.Equal(t, "70.00", resp.Summary.Balance)
		require.Len(t, resp.Wallets, 1)
		assert.Equal(t, "Main", resp.Wallets[0].Name)
	})

	t.Run("invalid month", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/v1/dashboard?month=13", token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty month", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/v1/dashboard?year=1999&month=1", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Summary struct {
				TotalRevenues string `json:"total_revenues"`
				Period        string `json:"period"`
			} `json:"summary"`
		}
		decodeBody(t, rec, &resp)
		assert.Equal(t, "0.00", resp.Summary.TotalRevenues)
		assert.Equal(t, "1999-1", resp.Summary.Period)
	})
}
