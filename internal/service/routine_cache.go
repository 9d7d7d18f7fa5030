package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/poly-routine-api/internal/models"
	appErrors "github.com/noah-isme/poly-routine-api/pkg/errors"
)

// CacheStore abstracts the backing store for cached entry lists.
type CacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// RoutineCache caches fetched entry lists keyed by the canonical filter
// tuple. Invalidation is event-driven (after a successful save); the TTL is
// only a backstop against keys orphaned by missed invalidations.
type RoutineCache struct {
	store   CacheStore
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
	enabled bool
}

// NewRoutineCache constructs the filtered read cache.
func NewRoutineCache(store CacheStore, metrics *MetricsService, ttl time.Duration, logger *zap.Logger, enabled bool) *RoutineCache {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoutineCache{store: store, metrics: metrics, ttl: ttl, logger: logger, enabled: enabled}
}

// Enabled indicates whether caching is active.
func (c *RoutineCache) Enabled() bool {
	return c != nil && c.enabled && c.store != nil
}

// Get returns the cached entry list for the filter; the second value is
// false on a miss. Store failures degrade to a miss.
func (c *RoutineCache) Get(ctx context.Context, filter models.FilterContext) ([]models.TimetableEntry, bool) {
	if !c.Enabled() {
		return nil, false
	}
	key := filter.CacheKey()
	var entries []models.TimetableEntry
	start := time.Now()
	err := c.store.Get(ctx, key, &entries)
	duration := time.Since(start)
	if err != nil {
		c.metrics.RecordCacheOperation(false, duration)
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			c.logger.Warn("routine cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	c.metrics.RecordCacheOperation(true, duration)
	return entries, true
}

// Put stores the entry list under the filter's canonical key.
func (c *RoutineCache) Put(ctx context.Context, filter models.FilterContext, entries []models.TimetableEntry) {
	if !c.Enabled() {
		return
	}
	key := filter.CacheKey()
	start := time.Now()
	err := c.store.Set(ctx, key, entries, c.ttl)
	c.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		c.logger.Warn("routine cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// InvalidateByFilter removes every cached entry list whose key matches the
// partial filter; unset fields are wildcards, so a save under one shift also
// evicts the overlapping lists cached under other filter combinations.
func (c *RoutineCache) InvalidateByFilter(ctx context.Context, partial models.PartialFilter) error {
	if !c.Enabled() {
		return nil
	}
	pattern := partial.Pattern()
	if err := c.store.DeleteByPattern(ctx, pattern); err != nil {
		c.logger.Warn("routine cache invalidate failed", zap.String("pattern", pattern), zap.Error(err))
		return err
	}
	return nil
}
