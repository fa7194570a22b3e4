package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourorg/brokerage/internal/domain"
)

type fakeStore struct {
	stocks  []domain.Stock
	brokers []domain.Broker
	calls   int
	err     error
}

func (f *fakeStore) ListStocks(ctx context.Context) ([]domain.Stock, error) {
	f.calls++
	return f.stocks, f.err
}

func (f *fakeStore) ListBrokers(ctx context.Context) ([]domain.Broker, error) {
	f.calls++
	return f.brokers, f.err
}

type fakeCache struct {
	stocks  []domain.Stock
	brokers []domain.Broker
	sets    int
}

func (f *fakeCache) GetStocks(ctx context.Context) ([]domain.Stock, bool) {
	return f.stocks, f.stocks != nil
}

func (f *fakeCache) SetStocks(ctx context.Context, stocks []domain.Stock) {
	f.stocks = stocks
	f.sets++
}

func (f *fakeCache) GetBrokers(ctx context.Context) ([]domain.Broker, bool) {
	return f.brokers, f.brokers != nil
}

func (f *fakeCache) SetBrokers(ctx context.Context, brokers []domain.Broker) {
	f.brokers = brokers
	f.sets++
}

func TestListStocksPopulatesCacheOnMiss(t *testing.T) {
	store := &fakeStore{stocks: []domain.Stock{
		{ID: uuid.New(), Symbol: "AAPL", UnitValue: decimal.NewFromFloat(175.50)},
	}}
	cache := &fakeCache{}
	svc := NewService(store, cache)

	got, err := svc.ListStocks(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, store.calls)
	assert.Equal(t, 1, cache.sets)

	// Second read is served from the cache.
	got, err = svc.ListStocks(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "AAPL", got[0].Symbol)
	assert.Equal(t, 1, store.calls)
}

func TestListBrokersPopulatesCacheOnMiss(t *testing.T) {
	store := &fakeStore{brokers: []domain.Broker{{ID: uuid.New(), Name: "Interactive Brokers"}}}
	cache := &fakeCache{}
	svc := NewService(store, cache)

	got, err := svc.ListBrokers(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = svc.ListBrokers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Interactive Brokers", got[0].Name)
	assert.Equal(t, 1, store.calls)
}

func TestListStocksStoreError(t *testing.T) {
	storeErr := errors.New("connection refused")
	store := &fakeStore{err: storeErr}
	svc := NewService(store, &fakeCache{})

	_, err := svc.ListStocks(context.Background())
	assert.ErrorIs(t, err, storeErr)
}
