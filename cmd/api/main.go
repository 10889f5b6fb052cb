package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/avaldes/walletbook/internal/infra/amqp"
	"github.com/avaldes/walletbook/internal/infra/postgres"
	infraRedis "github.com/avaldes/walletbook/internal/infra/redis"
	"github.com/avaldes/walletbook/internal/ledger"
	"github.com/avaldes/walletbook/internal/module/dashboard"
	"github.com/avaldes/walletbook/internal/platform/client"
	"github.com/avaldes/walletbook/internal/platform/wallet"
	"github.com/avaldes/walletbook/internal/transport/httpapi"
	"github.com/avaldes/walletbook/internal/transport/httpapi/handler"
	"github.com/avaldes/walletbook/internal/transport/httpapi/middleware"
	"github.com/avaldes/walletbook/pkg/config"
	"github.com/avaldes/walletbook/pkg/logger"
)

func main() {
	// Create context that listens for termination signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewDefault(cfg.Env)
	log.Info("Starting WalletBook API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	// Run database migrations
	if err := postgres.Migrate(cfg.DatabaseURL); err != nil {
		log.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	log.Info("Database migrations applied")

	// Initialize database connection pool
	db, err := postgres.NewPool(ctx, postgres.Config{URL: cfg.DatabaseURL})
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("Database connection established")

	// Initialize Redis client for dashboard caching
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("Redis connection established")

	dashCache := infraRedis.NewCache(redisClient, log)

	// Initialize repositories
	clientRepo := postgres.NewClientRepository(db.Pool)
	walletRepo := postgres.NewWalletRepository(db.Pool)
	ledgerRepo := postgres.NewLedgerRepository(db.Pool)

	// Committed mutations fan out to the dashboard cache invalidator and,
	// when configured, to the AMQP event feed.
	publishers := ledger.MultiPublisher{dashboard.NewCacheInvalidator(dashCache)}

	if cfg.AMQPURL != "" {
		amqpPub, err := amqp.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, log)
		if err != nil {
			log.Error("Failed to connect to AMQP broker", "error", err)
			os.Exit(1)
		}
		defer amqpPub.Close()
		publishers = append(publishers, amqpPub)
		log.Info("AMQP event feed enabled", "exchange", cfg.AMQPExchange)
	} else {
		log.Warn("AMQP_URL not configured, event feed disabled")
	}

	// Initialize services
	clientSvc := client.NewService(clientRepo)
	jwtSvc := middleware.NewJWTService(cfg.JWTSecret)
	walletSvc := wallet.NewService(walletRepo)
	ledgerSvc := ledger.NewService(ledgerRepo, log, ledger.Config{
		CascadeWalletDelete: cfg.WalletDeleteCascade,
		Publisher:           publishers,
	})
	dashSvc := dashboard.NewService(ledgerRepo, walletRepo, dashCache)
	log.Info("Services initialized", "wallet_delete_cascade", cfg.WalletDeleteCascade)

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(clientSvc, walletSvc, jwtSvc)
	walletHandler := handler.NewWalletHandler(walletSvc, ledgerSvc)
	expenseHandler := handler.NewExpenseHandler(ledgerSvc)
	revenueHandler := handler.NewRevenueHandler(ledgerSvc)
	transferHandler := handler.NewTransferHandler(ledgerSvc)
	dashboardHandler := handler.NewDashboardHandler(dashSvc)
	healthHandler := handler.NewHealthHandler(db, dashCache)

	// Create HTTP router
	r := httpapi.NewRouter(httpapi.Config{
		Logger:           log,
		AllowedOrigins:   cfg.AllowedOrigins,
		AuthHandler:      authHandler,
		WalletHandler:    walletHandler,
		ExpenseHandler:   expenseHandler,
		RevenueHandler:   revenueHandler,
		TransferHandler:  transferHandler,
		DashboardHandler: dashboardHandler,
		HealthHandler:    healthHandler,
		JWTMiddleware:    middleware.JWTMiddleware(jwtSvc),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for termination signal
	<-ctx.Done()
	log.Info("Shutdown signal received")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped gracefully")
}
