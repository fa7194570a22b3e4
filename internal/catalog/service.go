// Package catalog serves the read-only stock and broker reference
// data through a cache-aside layer: redis first, Postgres on a miss,
// with cache failures degrading silently to the store.
package catalog

import (
	"context"

	"github.com/yourorg/brokerage/internal/domain"
)

type Store interface {
	ListStocks(ctx context.Context) ([]domain.Stock, error)
	ListBrokers(ctx context.Context) ([]domain.Broker, error)
}

type Cache interface {
	GetStocks(ctx context.Context) ([]domain.Stock, bool)
	SetStocks(ctx context.Context, stocks []domain.Stock)
	GetBrokers(ctx context.Context) ([]domain.Broker, bool)
	SetBrokers(ctx context.Context, brokers []domain.Broker)
}

type Service struct {
	store Store
	cache Cache
}

func NewService(store Store, cache Cache) *Service {
	return &Service{store: store, cache: cache}
}

func (s *Service) ListStocks(ctx context.Context) ([]domain.Stock, error) {
	if stocks, ok := s.cache.GetStocks(ctx); ok {
		return stocks, nil
	}
	stocks, err := s.store.ListStocks(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetStocks(ctx, stocks)
	return stocks, nil
}

func (s *Service) ListBrokers(ctx context.Context) ([]domain.Broker, error) {
	if brokers, ok := s.cache.GetBrokers(ctx); ok {
		return brokers, nil
	}
	brokers, err := s.store.ListBrokers(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetBrokers(ctx, brokers)
	return brokers, nil
}
