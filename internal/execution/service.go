// Package execution is the order engine: it validates ownership and
// funds, prices the trade from the catalog, and applies the balance
// change, the position change and the order record as one atomic unit.
package execution

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/yourorg/brokerage/internal/domain"
)

type TxRunner interface {
	RunInTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type UserStore interface {
	GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*domain.User, error)
	UpdateBalanceTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, balance decimal.Decimal) error
}

type PortfolioStore interface {
	GetOwnedTx(ctx context.Context, tx *sqlx.Tx, id, userID uuid.UUID) (*domain.Portfolio, error)
}

type PositionStore interface {
	GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, portfolioID, stockID uuid.UUID) (*domain.Position, error)
	UpsertBuyTx(ctx context.Context, tx *sqlx.Tx, portfolioID, stockID uuid.UUID, quantity int64, price decimal.Decimal) error
	SetQuantityTx(ctx context.Context, tx *sqlx.Tx, portfolioID, stockID uuid.UUID, quantity int64) error
	DeleteTx(ctx context.Context, tx *sqlx.Tx, portfolioID, stockID uuid.UUID) error
}

type OrderStore interface {
	InsertTx(ctx context.Context, tx *sqlx.Tx, o *domain.Order) error
}

type CatalogStore interface {
	GetStockTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*domain.Stock, error)
	GetBrokerTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*domain.Broker, error)
}

type Service struct {
	tx         TxRunner
	users      UserStore
	portfolios PortfolioStore
	positions  PositionStore
	orders     OrderStore
	catalog    CatalogStore
	now        func() time.Time
}

func NewService(
	tx TxRunner,
	users UserStore,
	portfolios PortfolioStore,
	positions PositionStore,
	orders OrderStore,
	catalog CatalogStore,
) *Service {
	return &Service{
		tx:         tx,
		users:      users,
		portfolios: portfolios,
		positions:  positions,
		orders:     orders,
		catalog:    catalog,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

type Result struct {
	OrderID    uuid.UUID
	NewBalance decimal.Decimal
}

// PlaceBuyOrder debits price*quantity from the user's balance, upserts
// the position and records a completed buy order. It fails before any
// mutation when the portfolio is not the caller's, the stock is
// unknown, or funds are insufficient.
func (s *Service) PlaceBuyOrder(ctx context.Context, userID, portfolioID, stockID uuid.UUID, brokerID *uuid.UUID, quantity int64) (*Result, error) {
	return s.place(ctx, domain.SideBuy, userID, portfolioID, stockID, brokerID, quantity)
}

// PlaceSellOrder credits price*quantity to the user's balance,
// decrements the position (deleting it at zero) and records a
// completed sell order. Selling more shares than the portfolio holds
// is rejected.
func (s *Service) PlaceSellOrder(ctx context.Context, userID, portfolioID, stockID uuid.UUID, brokerID *uuid.UUID, quantity int64) (*Result, error) {
	return s.place(ctx, domain.SideSell, userID, portfolioID, stockID, brokerID, quantity)
}

func (s *Service) place(ctx context.Context, side domain.OrderSide, userID, portfolioID, stockID uuid.UUID, brokerID *uuid.UUID, quantity int64) (*Result, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be greater than zero: %w", domain.ErrInvalidArgument)
	}

	var result Result
	err := s.tx.RunInTx(ctx, func(tx *sqlx.Tx) error {
		user, err := s.users.GetForUpdateTx(ctx, tx, userID)
		if err != nil {
			return err
		}
		if _, err := s.portfolios.GetOwnedTx(ctx, tx, portfolioID, userID); err != nil {
			return err
		}
		stock, err := s.catalog.GetStockTx(ctx, tx, stockID)
		if err != nil {
			return err
		}
		if brokerID != nil {
			if _, err := s.catalog.GetBrokerTx(ctx, tx, *brokerID); err != nil {
				return err
			}
		}

		total := stock.UnitValue.Mul(decimal.NewFromInt(quantity))

		var newBalance decimal.Decimal
		switch side {
		case domain.SideBuy:
			if user.Balance.LessThan(total) {
				return domain.ErrInsufficientFunds
			}
			newBalance = user.Balance.Sub(total)
			if err := s.positions.UpsertBuyTx(ctx, tx, portfolioID, stockID, quantity, stock.UnitValue); err != nil {
				return fmt.Errorf("upsert position: %w", err)
			}
		case domain.SideSell:
			pos, err := s.positions.GetForUpdateTx(ctx, tx, portfolioID, stockID)
			if err != nil {
				return fmt.Errorf("get position: %w", err)
			}
			if pos == nil || pos.Quantity < quantity {
				return domain.ErrInsufficientShares
			}
			newBalance = user.Balance.Add(total)
			remaining := pos.Quantity - quantity
			if remaining == 0 {
				if err := s.positions.DeleteTx(ctx, tx, portfolioID, stockID); err != nil {
					return fmt.Errorf("delete position: %w", err)
				}
			} else {
				if err := s.positions.SetQuantityTx(ctx, tx, portfolioID, stockID, remaining); err != nil {
					return fmt.Errorf("update position: %w", err)
				}
			}
		}

		if err := s.users.UpdateBalanceTx(ctx, tx, userID, newBalance); err != nil {
			return fmt.Errorf("update balance: %w", err)
		}

		order := &domain.Order{
			ID:          uuid.New(),
			PortfolioID: portfolioID,
			BrokerID:    brokerID,
			StockID:     stockID,
			Side:        side,
			Amount:      total,
			Quantity:    quantity,
			State:       domain.StateCompleted,
			ExecutedAt:  s.now(),
		}
		if err := s.orders.InsertTx(ctx, tx, order); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		result = Result{OrderID: order.ID, NewBalance: newBalance}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
