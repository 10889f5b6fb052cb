package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/avaldes/walletbook/internal/transport/httpapi/handler"
	"github.com/avaldes/walletbook/internal/transport/httpapi/middleware"
	"github.com/avaldes/walletbook/pkg/logger"
)

// Config holds router configuration
type Config struct {
	Logger           *logger.Logger
	AllowedOrigins   []string
	AuthHandler      *handler.AuthHandler
	WalletHandler    *handler.WalletHandler
	ExpenseHandler   *handler.ExpenseHandler
	RevenueHandler   *handler.RevenueHandler
	TransferHandler  *handler.TransferHandler
	DashboardHandler *handler.DashboardHandler
	HealthHandler    *handler.HealthHandler
	JWTMiddleware    func(http.Handler) http.Handler
}

// NewRouter creates a new HTTP router
func NewRouter(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.RateLimit()) // Rate limiting: 100 req/s with burst of 20

	// Health check endpoints (no authentication required)
	r.Get("/health", handler.GetHealth)
	r.Get("/health/live", handler.GetLiveness)
	if cfg.HealthHandler != nil {
		r.Get("/health/ready", cfg.HealthHandler.GetReadiness)
		r.Get("/health/detailed", cfg.HealthHandler.GetHealthDetailed)
	}

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Auth routes (public - no authentication required)
		if cfg.AuthHandler != nil {
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
		}

		// Protected routes (require JWT authentication)
		if cfg.JWTMiddleware != nil {
			r.Group(func(r chi.Router) {
				r.Use(cfg.JWTMiddleware)

				if cfg.AuthHandler != nil {
					r.Get("/me", cfg.AuthHandler.Me)
				}

				// Wallet routes
				if cfg.WalletHandler != nil {
					r.Post("/wallets", cfg.WalletHandler.CreateWallet)
					r.Get("/wallets", cfg.WalletHandler.ListWallets)
					r.Get("/wallets/{id}", cfg.WalletHandler.GetWallet)
					r.Delete("/wallets/{id}", cfg.WalletHandler.DeleteWallet)
					r.Post("/wallets/{id}/adjust", cfg.WalletHandler.AdjustWallet)
					r.Get("/wallets/{id}/adjustments", cfg.WalletHandler.ListAdjustments)
				}

				// Expense routes
				if cfg.ExpenseHandler != nil {
					r.Post("/expenses", cfg.ExpenseHandler.CreateExpense)
					r.Get("/expenses", cfg.ExpenseHandler.ListExpenses)
					r.Get("/expenses/{id}", cfg.ExpenseHandler.GetExpense)
					r.Put("/expenses/{id}", cfg.ExpenseHandler.UpdateExpense)
					r.Delete("/expenses/{id}", cfg.ExpenseHandler.DeleteExpense)
				}

				// Revenue routes
				if cfg.RevenueHandler != nil {
					r.Post("/revenues", cfg.RevenueHandler.CreateRevenue)
					r.Get("/revenues", cfg.RevenueHandler.ListRevenues)
					r.Get("/revenues/{id}", cfg.RevenueHandler.GetRevenue)
					r.Put("/revenues/{id}", cfg.RevenueHandler.UpdateRevenue)
					r.Delete("/revenues/{id}", cfg.RevenueHandler.DeleteRevenue)
				}

				// Transfer routes
				if cfg.TransferHandler != nil {
					r.Post("/transfers", cfg.TransferHandler.CreateTransfer)
					r.Get("/transfers", cfg.TransferHandler.ListTransfers)
				}

				// Dashboard routes
				if cfg.DashboardHandler != nil {
					r.Get("/dashboard", cfg.DashboardHandler.GetDashboard)
				}
			})
		}
	})

	return r
}
