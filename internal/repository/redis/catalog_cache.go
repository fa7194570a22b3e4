package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yourorg/brokerage/internal/domain"
)

const (
	keyStocks  = "catalog:stocks"
	keyBrokers = "catalog:brokers"
)

// CatalogCache holds the full stock and broker lists as JSON blobs
// with a TTL. Every failure is treated as a miss; the caller falls
// through to Postgres.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{client: client, ttl: ttl}
}

func (c *CatalogCache) GetStocks(ctx context.Context) ([]domain.Stock, bool) {
	val, err := c.client.Get(ctx, keyStocks).Bytes()
	if err != nil {
		return nil, false
	}
	var stocks []domain.Stock
	if err := json.Unmarshal(val, &stocks); err != nil {
		return nil, false
	}
	return stocks, true
}

func (c *CatalogCache) SetStocks(ctx context.Context, stocks []domain.Stock) {
	data, err := json.Marshal(stocks)
	if err != nil {
		return
	}
	c.client.Set(ctx, keyStocks, data, c.ttl)
}

func (c *CatalogCache) GetBrokers(ctx context.Context) ([]domain.Broker, bool) {
	val, err := c.client.Get(ctx, keyBrokers).Bytes()
	if err != nil {
		return nil, false
	}
	var brokers []domain.Broker
	if err := json.Unmarshal(val, &brokers); err != nil {
		return nil, false
	}
	return brokers, true
}

func (c *CatalogCache) SetBrokers(ctx context.Context, brokers []domain.Broker) {
	data, err := json.Marshal(brokers)
	if err != nil {
		return
	}
	c.client.Set(ctx, keyBrokers, data, c.ttl)
}
