package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/yourorg/brokerage/internal/domain"
)

type OrderRepo struct {
	db *sqlx.DB
}

func NewOrderRepo(db *sqlx.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

func (r *OrderRepo) InsertTx(ctx context.Context, tx *sqlx.Tx, o *domain.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO orders (id, portfolio_id, broker_id, stock_id, side, amount, quantity, state, executed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		o.ID, o.PortfolioID, o.BrokerID, o.StockID, o.Side, o.Amount, o.Quantity, o.State, o.ExecutedAt)
	return err
}

func (r *OrderRepo) ListByPortfolio(ctx context.Context, portfolioID uuid.UUID, side domain.OrderSide) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.SelectContext(ctx, &orders,
		`SELECT * FROM orders WHERE portfolio_id = $1 AND side = $2 ORDER BY executed_at DESC`,
		portfolioID, side)
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ListRecentBySide returns a user's most recent orders of one side,
// denormalized with the stock symbol and portfolio name at query time.
func (r *OrderRepo) ListRecentBySide(ctx context.Context, userID uuid.UUID, side domain.OrderSide, limit int) ([]domain.OrderHistory, error) {
	var entries []domain.OrderHistory
	err := r.db.SelectContext(ctx, &entries, `
		SELECT o.id, o.side, s.symbol, o.quantity, o.amount,
		       p.name AS portfolio_name, o.executed_at
		FROM orders o
		JOIN portfolios p ON p.id = o.portfolio_id
		JOIN stocks s ON s.id = o.stock_id
		WHERE p.user_id = $1 AND o.side = $2
		ORDER BY o.executed_at DESC
		LIMIT $3`,
		userID, side, limit)
	if err != nil {
		return nil, err
	}
	return entries, nil
}
