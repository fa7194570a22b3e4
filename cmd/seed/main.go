// Seeds the catalog and a demo account for local development. Safe to
// run repeatedly: every insert is idempotent.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/yourorg/brokerage/internal/auth"
	"github.com/yourorg/brokerage/internal/config"
	pgRepo "github.com/yourorg/brokerage/internal/repository/postgres"
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
	if err := pgRepo.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		logger.Error("failed to run migrations", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := seed(ctx, db); err != nil {
		logger.Error("seeding failed", "err", err)
		os.Exit(1)
	}
	logger.Info("seed data created")
}

func seed(ctx context.Context, db *sqlx.DB) error {
	stocks := []struct {
		symbol    string
		quantity  int64
		unitValue string
	}{
		{"AAPL", 100, "175.50"},
		{"MSFT", 50, "325.25"},
		{"TSLA", 30, "250.75"},
		{"AMZN", 20, "150.30"},
		{"GOOGL", 15, "135.40"},
	}
	for _, s := range stocks {
		unitValue, err := decimal.NewFromString(s.unitValue)
		if err != nil {
			return err
		}
		_, err = db.ExecContext(ctx, `
			INSERT INTO stocks (id, symbol, quantity, unit_value)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (symbol) DO NOTHING`,
			uuid.New(), s.symbol, s.quantity, unitValue)
		if err != nil {
			return err
		}
	}

	brokers := []string{"Interactive Brokers", "Charles Schwab", "Fidelity Investments"}
	for _, name := range brokers {
		_, err := db.ExecContext(ctx, `
			INSERT INTO brokers (id, name)
			SELECT $1, $2
			WHERE NOT EXISTS (SELECT 1 FROM brokers WHERE name = $2)`,
			uuid.New(), name)
		if err != nil {
			return err
		}
	}

	hash, err := auth.HashPassword("123456")
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, balance)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO NOTHING`,
		uuid.New(), "john_doe", "example@example.dev", hash, decimal.NewFromInt(10000))
	if err != nil {
		return err
	}

	var userID uuid.UUID
	if err := db.GetContext(ctx, &userID,
		`SELECT id FROM users WHERE email = $1`, "example@example.dev"); err != nil {
		return err
	}

	portfolios := []string{"Retirement Account", "Trading Account", "Long-Term Holdings"}
	for _, name := range portfolios {
		_, err := db.ExecContext(ctx, `
			INSERT INTO portfolios (id, user_id, name)
			SELECT $1, $2, $3
			WHERE NOT EXISTS (
				SELECT 1 FROM portfolios WHERE user_id = $2 AND name = $3
			)`,
			uuid.New(), userID, name)
		if err != nil {
			return err
		}
	}
	return nil
}
