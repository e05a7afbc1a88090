// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"jobtrack_backend/internal/feature/applications/domain/entity"
	"jobtrack_backend/internal/feature/applications/usecase"
)

// DefaultStatsTTL is used when a non-positive TTL is configured.
const DefaultStatsTTL = 5 * time.Minute

// CachingApplicationRepository decorates an ApplicationRepository with a Redis
// cache of per-user status counts. Every successful write by a user drops that
// user's cached counts, so a stats read never outlives the next mutation.
type CachingApplicationRepository struct {
	inner     usecase.ApplicationRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.ApplicationRepository = (*CachingApplicationRepository)(nil)

// NewCachingApplicationRepository wraps inner. If ttl is 0, it defaults to 5 minutes.
// If namespace is empty, it uses "stats". A nil rdb disables caching.
func NewCachingApplicationRepository(rdb *redis.Client, ttl time.Duration, inner usecase.ApplicationRepository, namespace string) *CachingApplicationRepository {
	if ttl <= 0 {
		ttl = DefaultStatsTTL
	}
	if namespace == "" {
		namespace = "stats"
	}
	return &CachingApplicationRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// CountByStatus returns cached counts when present, otherwise loads and caches them.
func (c *CachingApplicationRepository) CountByStatus(ctx context.Context, userID uint) (map[entity.Status]int64, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.CountByStatus(ctx, userID)
	}

	key := c.cacheKey(userID)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out map[entity.Status]int64
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.CountByStatus(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	return out, nil
}

func (c *CachingApplicationRepository) Create(ctx context.Context, app *entity.Application) error {
	if err := c.inner.Create(ctx, app); err != nil {
		return err
	}
	c.invalidate(ctx, app.UserID)
	return nil
}

func (c *CachingApplicationRepository) UpdateOwned(ctx context.Context, userID, id uint, patch entity.Patch, now time.Time) (*entity.Application, error) {
	app, err := c.inner.UpdateOwned(ctx, userID, id, patch, now)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, userID)
	return app, nil
}

func (c *CachingApplicationRepository) DeleteOwned(ctx context.Context, userID, id uint) error {
	if err := c.inner.DeleteOwned(ctx, userID, id); err != nil {
		return err
	}
	c.invalidate(ctx, userID)
	return nil
}

func (c *CachingApplicationRepository) ListByUser(ctx context.Context, userID uint, filter entity.ListFilter) ([]entity.Application, error) {
	return c.inner.ListByUser(ctx, userID, filter)
}

func (c *CachingApplicationRepository) FindByID(ctx context.Context, id uint) (*entity.Application, error) {
	return c.inner.FindByID(ctx, id)
}

func (c *CachingApplicationRepository) FindOwned(ctx context.Context, userID, id uint) (*entity.Application, error) {
	return c.inner.FindOwned(ctx, userID, id)
}

func (c *CachingApplicationRepository) ListFollowUpsBetween(ctx context.Context, userID uint, from, to time.Time) ([]entity.Application, error) {
	return c.inner.ListFollowUpsBetween(ctx, userID, from, to)
}

// invalidate drops the cached counts of userID. Best effort: the write already succeeded.
func (c *CachingApplicationRepository) invalidate(ctx context.Context, userID uint) {
	if c.rdb == nil {
		return
	}
	_ = c.rdb.Del(ctx, c.cacheKey(userID)).Err()
}

func (c *CachingApplicationRepository) cacheKey(userID uint) string {
	return fmt.Sprintf("%s:%d", c.namespace, userID)
}
