// Package router builds the gin route table.
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apphandler "jobtrack_backend/internal/feature/applications/transport/handler"
	authhandler "jobtrack_backend/internal/feature/auth/transport/handler"
	platformhandler "jobtrack_backend/internal/platform/http/handler"
	"jobtrack_backend/internal/platform/http/middleware"
)

// Config holds the HTTP edge settings.
type Config struct {
	// CORSAllowedOrigins が空の場合はすべてのオリジンを許可します。
	CORSAllowedOrigins []string
	AuthRateLimitRPS   float64
	AuthRateLimitBurst int
}

// NewRouter wires middleware and routes. guard is the access guard for bearer-protected routes.
func NewRouter(cfg Config, logger *zap.Logger, health *platformhandler.HealthHandler,
	authHandler *authhandler.AuthHandler, apps *apphandler.ApplicationHandler, guard gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.AccessLog(logger),
		cors.New(corsConfig(cfg.CORSAllowedOrigins)),
	)

	// 認証不要
	// 導通確認用
	r.GET("/healthz", health.Health)
	r.HEAD("/healthz", health.Health)

	api := r.Group("/api")

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.AuthRateLimitRPS,
		Burst:             cfg.AuthRateLimitBurst,
	})
	auth := api.Group("/auth")
	{
		// 新規ユーザー登録
		auth.POST("/register", limiter.Middleware(), authHandler.Register)
		// ログイン（JWT 発行）
		auth.POST("/login", limiter.Middleware(), authHandler.Login)
		auth.GET("/me", guard, authHandler.Me)
	}

	// 認証必須のルート
	applications := api.Group("/applications", guard)
	{
		applications.POST("", apps.Create)
		applications.GET("", apps.List)
		// 固定パスは :id より先に登録
		applications.GET("/stats", apps.Stats)
		applications.GET("/upcoming-followups", apps.UpcomingFollowUps)
		applications.GET("/:id", apps.Get)
		applications.PUT("/:id", apps.Update)
		applications.DELETE("/:id", apps.Delete)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
