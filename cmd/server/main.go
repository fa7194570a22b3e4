package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/yourorg/brokerage/internal/auth"
	"github.com/yourorg/brokerage/internal/catalog"
	"github.com/yourorg/brokerage/internal/config"
	"github.com/yourorg/brokerage/internal/execution"
	"github.com/yourorg/brokerage/internal/gateway"
	"github.com/yourorg/brokerage/internal/history"
	"github.com/yourorg/brokerage/internal/ledger"
	"github.com/yourorg/brokerage/internal/portfolio"
	pgRepo "github.com/yourorg/brokerage/internal/repository/postgres"
	redisRepo "github.com/yourorg/brokerage/internal/repository/redis"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	db, err := pgRepo.Connect(cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	if err != nil {
		logger.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	logger.Info("database connected")

	if err := pgRepo.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		logger.Error("failed to run migrations", "err", err)
		os.Exit(1)
	}
	logger.Info("migrations applied")

	redisClient, err := redisRepo.Connect(cfg.RedisURL)
	if err != nil {
		logger.Error("failed to connect to redis", "err", err)
		os.Exit(1)
	}
	logger.Info("redis connected")

	userRepo := pgRepo.NewUserRepo(db)
	portfolioRepo := pgRepo.NewPortfolioRepo(db)
	positionRepo := pgRepo.NewPositionRepo(db)
	orderRepo := pgRepo.NewOrderRepo(db)
	transactionRepo := pgRepo.NewTransactionRepo(db)
	catalogRepo := pgRepo.NewCatalogRepo(db)
	txRunner := pgRepo.NewTxRunner(db)
	catalogCache := redisRepo.NewCatalogCache(redisClient, cfg.CatalogCacheTTL)

	tokens := auth.NewTokenService(cfg.TokenSecret, cfg.TokenExpiry)

	ledgerSvc := ledger.NewService(txRunner, userRepo, transactionRepo)
	execSvc := execution.NewService(txRunner, userRepo, portfolioRepo, positionRepo, orderRepo, catalogRepo)
	portfolioSvc := portfolio.NewService(portfolioRepo, positionRepo, orderRepo)
	catalogSvc := catalog.NewService(catalogRepo, catalogCache)
	historySvc := history.NewService(transactionRepo, orderRepo)

	handlers := gateway.NewHandlers(
		userRepo, ledgerSvc, execSvc, portfolioSvc, catalogSvc, historySvc,
		tokens, cfg, logger,
	)
	router := gateway.NewRouter(handlers, tokens, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
	logger.Info("server stopped")
}
