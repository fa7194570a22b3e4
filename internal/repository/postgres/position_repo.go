package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/yourorg/brokerage/internal/domain"
)

type PositionRepo struct {
	db *sqlx.DB
}

func NewPositionRepo(db *sqlx.DB) *PositionRepo {
	return &PositionRepo{db: db}
}

func (r *PositionRepo) ListByPortfolio(ctx context.Context, portfolioID uuid.UUID) ([]domain.Position, error) {
	var positions []domain.Position
	err := r.db.SelectContext(ctx, &positions,
		`SELECT * FROM positions WHERE portfolio_id = $1 ORDER BY created_at`, portfolioID)
	if err != nil {
		return nil, err
	}
	return positions, nil
}

// GetForUpdateTx returns (nil, nil) when the (portfolio, stock) pair
// has no position yet.
func (r *PositionRepo) GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, portfolioID, stockID uuid.UUID) (*domain.Position, error) {
	var p domain.Position
	err := tx.GetContext(ctx, &p,
		`SELECT * FROM positions WHERE portfolio_id = $1 AND stock_id = $2 FOR UPDATE`,
		portfolioID, stockID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// UpsertBuyTx creates the position on the first buy into the pair and
// otherwise accumulates quantity and the weighted average price.
func (r *PositionRepo) UpsertBuyTx(ctx context.Context, tx *sqlx.Tx, portfolioID, stockID uuid.UUID, quantity int64, price decimal.Decimal) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO positions (id, portfolio_id, stock_id, quantity, avg_price)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (portfolio_id, stock_id) DO UPDATE SET
			quantity   = positions.quantity + EXCLUDED.quantity,
			avg_price  = ROUND((positions.quantity * positions.avg_price
			              + EXCLUDED.quantity * EXCLUDED.avg_price)
			             / (positions.quantity + EXCLUDED.quantity), 2),
			updated_at = NOW()`,
		uuid.New(), portfolioID, stockID, quantity, price)
	return err
}

func (r *PositionRepo) SetQuantityTx(ctx context.Context, tx *sqlx.Tx, portfolioID, stockID uuid.UUID, quantity int64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE positions SET quantity = $1, updated_at = NOW()
		 WHERE portfolio_id = $2 AND stock_id = $3`,
		quantity, portfolioID, stockID)
	return err
}

func (r *PositionRepo) DeleteTx(ctx context.Context, tx *sqlx.Tx, portfolioID, stockID uuid.UUID) error {
	_, err := tx.ExecContext(ctx,
		`DELETE FROM positions WHERE portfolio_id = $1 AND stock_id = $2`,
		portfolioID, stockID)
	return err
}
