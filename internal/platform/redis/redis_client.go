// Package redis builds the optional Redis client used by the stats cache.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Config は Redis 接続設定です。
type Config struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient は Redis に接続して疎通を確認します。
// Addr が空の場合はキャッシュ無効として nil, nil を返します。
func NewRedisClient(ctx context.Context, cfg Config, logger *zap.Logger) (*redis.Client, error) {
	if cfg.Addr == "" {
		logger.Info("Redis not configured, stats cache disabled")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 接続確認
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("Redis connection failed", zap.String("address", cfg.Addr), zap.Error(err))
		_ = rdb.Close()
		return nil, err
	}

	logger.Info("Redis connection successful", zap.String("address", cfg.Addr))
	return rdb, nil
}
