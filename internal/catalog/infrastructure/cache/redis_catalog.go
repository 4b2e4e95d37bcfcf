// Package cache decorates the catalog with a Redis read-through layer.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/comanda-app/comanda/internal/catalog/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	productKeyPrefix = "catalog:product:"
	listKey          = "catalog:available"
)

// RedisCatalog wraps a catalog source with a Redis cache. Prices change
// rarely, so cache failures fall through to the source instead of failing
// the request.
type RedisCatalog struct {
	client *redis.Client
	lookup domain.Lookup
	list   domain.Catalog
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisCatalog creates a new Redis-backed catalog decorator.
func NewRedisCatalog(client *redis.Client, lookup domain.Lookup, list domain.Catalog, ttl time.Duration, logger *slog.Logger) *RedisCatalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisCatalog{
		client: client,
		lookup: lookup,
		list:   list,
		ttl:    ttl,
		logger: logger,
	}
}

// FindByID returns the product, or (nil, nil) when absent. Only hits the
// source on a cache miss.
func (c *RedisCatalog) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	key := productKeyPrefix + id.String()

	cached, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var product domain.Product
		if err := json.Unmarshal(cached, &product); err == nil {
			return &product, nil
		}
	} else if err != redis.Nil {
		c.logger.Warn("catalog cache read failed", "key", key, "error", err)
	}

	product, err := c.lookup.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}

	c.store(ctx, key, product)
	return product, nil
}

// ListAvailable lists active products, served from cache when possible.
func (c *RedisCatalog) ListAvailable(ctx context.Context) ([]domain.Product, error) {
	cached, err := c.client.Get(ctx, listKey).Bytes()
	if err == nil {
		var products []domain.Product
		if err := json.Unmarshal(cached, &products); err == nil {
			return products, nil
		}
	} else if err != redis.Nil {
		c.logger.Warn("catalog cache read failed", "key", listKey, "error", err)
	}

	products, err := c.list.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}

	c.store(ctx, listKey, products)
	return products, nil
}

// Invalidate drops the cached listing, forcing the next read to hit the source.
func (c *RedisCatalog) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, listKey).Err()
}

func (c *RedisCatalog) store(ctx context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("catalog cache write failed", "key", key, "error", err)
	}
}
