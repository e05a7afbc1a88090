// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	appadapters "jobtrack_backend/internal/feature/applications/adapters"
	appusecase "jobtrack_backend/internal/feature/applications/usecase"
	"jobtrack_backend/internal/platform/cache"
)

// NewApplicationRepository creates an ApplicationRepository implementation.
// If Redis is available, the gorm repository is wrapped with the stats cache.
// Otherwise, every read goes to the database.
func NewApplicationRepository(db *gorm.DB, rdb *redis.Client, statsTTL time.Duration) appusecase.ApplicationRepository {
	repo := appadapters.NewApplicationRepository(db)
	if rdb != nil {
		return cache.NewCachingApplicationRepository(rdb, statsTTL, repo, "stats")
	}
	return repo
}
