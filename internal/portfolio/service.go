// Package portfolio manages the ownership-scoped collections of named
// portfolios and assembles them with their positions and orders for
// listing.
package portfolio

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/yourorg/brokerage/internal/domain"
)

type Store interface {
	Create(ctx context.Context, p *domain.Portfolio) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Portfolio, error)
	Rename(ctx context.Context, id, userID uuid.UUID, newName string) error
}

type PositionStore interface {
	ListByPortfolio(ctx context.Context, portfolioID uuid.UUID) ([]domain.Position, error)
}

type OrderStore interface {
	ListByPortfolio(ctx context.Context, portfolioID uuid.UUID, side domain.OrderSide) ([]domain.Order, error)
}

type Service struct {
	portfolios Store
	positions  PositionStore
	orders     OrderStore
}

func NewService(portfolios Store, positions PositionStore, orders OrderStore) *Service {
	return &Service{portfolios: portfolios, positions: positions, orders: orders}
}

// View is one portfolio with its positions and order records eagerly
// attached.
type View struct {
	ID         uuid.UUID         `json:"id"`
	Name       string            `json:"name"`
	Positions  []domain.Position `json:"stocks"`
	BuyOrders  []domain.Order    `json:"buy_orders"`
	SellOrders []domain.Order    `json:"sell_orders"`
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]View, error) {
	portfolios, err := s.portfolios.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list portfolios: %w", err)
	}
	views := make([]View, 0, len(portfolios))
	for _, p := range portfolios {
		positions, err := s.positions.ListByPortfolio(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("list positions: %w", err)
		}
		buys, err := s.orders.ListByPortfolio(ctx, p.ID, domain.SideBuy)
		if err != nil {
			return nil, fmt.Errorf("list buy orders: %w", err)
		}
		sells, err := s.orders.ListByPortfolio(ctx, p.ID, domain.SideSell)
		if err != nil {
			return nil, fmt.Errorf("list sell orders: %w", err)
		}
		views = append(views, View{
			ID:         p.ID,
			Name:       p.Name,
			Positions:  positions,
			BuyOrders:  buys,
			SellOrders: sells,
		})
	}
	return views, nil
}

// Create does not enforce name uniqueness; duplicate names across
// calls are accepted.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, name string) (*domain.Portfolio, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("portfolio name is required: %w", domain.ErrInvalidArgument)
	}
	p := &domain.Portfolio{UserID: userID, Name: name}
	if err := s.portfolios.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create portfolio: %w", err)
	}
	return p, nil
}

func (s *Service) Rename(ctx context.Context, userID, portfolioID uuid.UUID, newName string) error {
	if strings.TrimSpace(newName) == "" {
		return fmt.Errorf("portfolio name is required: %w", domain.ErrInvalidArgument)
	}
	return s.portfolios.Rename(ctx, portfolioID, userID, newName)
}
