package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lojatech/precifica/internal/model"
	"github.com/lojatech/precifica/internal/storage/cache"
)

const cacheKeyPrefix = "precifica:feed:"

var _ Client = (*CachedClient)(nil)

// CachedClient caches feed responses in Redis per date with a short TTL.
// Cache failures degrade to a direct fetch; the feed stays reachable even
// when Redis is down.
type CachedClient struct {
	inner  Client
	store  cache.Store
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedClient(inner Client, store cache.Store, ttl time.Duration, logger *slog.Logger) *CachedClient {
	return &CachedClient{
		inner:  inner,
		store:  store,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "catalog_cache")),
	}
}

func (c *CachedClient) FetchProducts(ctx context.Context, date string) ([]model.Product, error) {
	key := cacheKey(date)

	if cached, err := c.store.Get(ctx, key); err == nil {
		var products []model.Product
		if err := json.Unmarshal([]byte(cached), &products); err == nil {
			return products, nil
		}
		c.logger.WarnContext(ctx, "discarding undecodable feed cache entry", slog.String("key", key))
	} else if !errors.Is(err, cache.ErrMiss) {
		c.logger.WarnContext(ctx, "feed cache read failed", slog.Any("error", err))
	}

	products, err := c.inner.FetchProducts(ctx, date)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(products); err == nil {
		if err := c.store.Set(ctx, key, string(encoded), c.ttl); err != nil {
			c.logger.WarnContext(ctx, "feed cache write failed", slog.Any("error", err))
		}
	}

	return products, nil
}

func cacheKey(date string) string {
	if date == "" {
		date = "latest"
	}
	return fmt.Sprintf("%s%s", cacheKeyPrefix, date)
}
