package postgres

import (
	"context"
	"errors"
	"strconv"
	"time"

	"acc-notifications/internal/common/logger"
	"acc-notifications/internal/common/metrics"

	"github.com/redis/go-redis/v9"
)

const catalogKeyPrefix = "notification_type:"

type catalogSource interface {
	NotificationTypeID(ctx context.Context, identifier string) (int, error)
}

// CatalogCache is a read-through Redis cache over the notification type catalog. Redis
// failures fall through to the source.
type CatalogCache struct {
	source catalogSource
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCatalogCache(source catalogSource, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CatalogCache {
	return &CatalogCache{source: source, redis: rdb, ttl: ttl, logger: log}
}

func (c *CatalogCache) NotificationTypeID(ctx context.Context, identifier string) (int, error) {
	key := catalogKeyPrefix + identifier

	val, err := c.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		if id, convErr := strconv.Atoi(val); convErr == nil {
			metrics.CatalogCacheRequests.WithLabelValues("hit").Inc()
			return id, nil
		}
		metrics.CatalogCacheRequests.WithLabelValues("error").Inc()
	case errors.Is(err, redis.Nil):
		metrics.CatalogCacheRequests.WithLabelValues("miss").Inc()
	default:
		metrics.CatalogCacheRequests.WithLabelValues("error").Inc()
		c.logger.Warn("Catalog cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	id, err := c.source.NotificationTypeID(ctx, identifier)
	if err != nil {
		return 0, err
	}

	if err := c.redis.Set(ctx, key, id, c.ttl).Err(); err != nil {
		c.logger.Warn("Catalog cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
	return id, nil
}

// CachedStore serves catalog lookups from the cache and everything else from Postgres.
type CachedStore struct {
	*Store
	catalog *CatalogCache
}

func NewCachedStore(store *Store, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedStore {
	return &CachedStore{Store: store, catalog: NewCatalogCache(store, rdb, ttl, log)}
}

func (s *CachedStore) NotificationTypeID(ctx context.Context, identifier string) (int, error) {
	return s.catalog.NotificationTypeID(ctx, identifier)
}
