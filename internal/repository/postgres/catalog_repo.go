package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/yourorg/brokerage/internal/domain"
)

// CatalogRepo serves the read-only reference data: the stock catalog
// and the broker list. Nothing in the trading flows mutates either.
type CatalogRepo struct {
	db *sqlx.DB
}

func NewCatalogRepo(db *sqlx.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

func (r *CatalogRepo) ListStocks(ctx context.Context) ([]domain.Stock, error) {
	var stocks []domain.Stock
	err := r.db.SelectContext(ctx, &stocks, `SELECT * FROM stocks ORDER BY symbol`)
	if err != nil {
		return nil, err
	}
	return stocks, nil
}

func (r *CatalogRepo) ListBrokers(ctx context.Context) ([]domain.Broker, error) {
	var brokers []domain.Broker
	err := r.db.SelectContext(ctx, &brokers, `SELECT * FROM brokers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return brokers, nil
}

func (r *CatalogRepo) GetStockTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*domain.Stock, error) {
	var s domain.Stock
	err := tx.GetContext(ctx, &s, `SELECT * FROM stocks WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("stock %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return &s, nil
}

func (r *CatalogRepo) GetBrokerTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*domain.Broker, error) {
	var b domain.Broker
	err := tx.GetContext(ctx, &b, `SELECT * FROM brokers WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("broker %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return &b, nil
}
