// Package history merges a user's cash transactions and trade orders
// into one recency-ordered view.
package history

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yourorg/brokerage/internal/domain"
)

const defaultLimit = 10

type TransactionStore interface {
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Transaction, error)
}

type OrderStore interface {
	ListRecentBySide(ctx context.Context, userID uuid.UUID, side domain.OrderSide, limit int) ([]domain.OrderHistory, error)
}

type Service struct {
	transactions TransactionStore
	orders       OrderStore
}

func NewService(transactions TransactionStore, orders OrderStore) *Service {
	return &Service{transactions: transactions, orders: orders}
}

type TransactionRecord struct {
	ID          int64           `json:"id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Timestamp   time.Time       `json:"timestamp"`
}

type History struct {
	Transactions []TransactionRecord   `json:"transactions"`
	Orders       []domain.OrderHistory `json:"orders"`
}

// GetHistory returns up to limit most-recent transactions and up to
// limit most-recent orders. Buy and sell orders are each limited
// independently, merged, re-sorted by timestamp descending and
// truncated to limit again.
func (s *Service) GetHistory(ctx context.Context, userID uuid.UUID, limit int) (*History, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	transactions, err := s.transactions.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	buys, err := s.orders.ListRecentBySide(ctx, userID, domain.SideBuy, limit)
	if err != nil {
		return nil, fmt.Errorf("list buy orders: %w", err)
	}
	sells, err := s.orders.ListRecentBySide(ctx, userID, domain.SideSell, limit)
	if err != nil {
		return nil, fmt.Errorf("list sell orders: %w", err)
	}

	records := make([]TransactionRecord, 0, len(transactions))
	for _, t := range transactions {
		kind := "deposit"
		if t.Amount.IsNegative() {
			kind = "withdrawal"
		}
		records = append(records, TransactionRecord{
			ID:          t.ID,
			Type:        kind,
			Amount:      t.Amount.Abs(),
			Description: "funds transfer",
			Timestamp:   t.CreatedAt,
		})
	}

	orders := make([]domain.OrderHistory, 0, len(buys)+len(sells))
	orders = append(orders, buys...)
	orders = append(orders, sells...)
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].ExecutedAt.After(orders[j].ExecutedAt)
	})
	if len(orders) > limit {
		orders = orders[:limit]
	}

	return &History{Transactions: records, Orders: orders}, nil
}
