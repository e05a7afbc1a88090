package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"jobtrack_backend/internal/app/di"
	"jobtrack_backend/internal/app/router"
	"jobtrack_backend/internal/config"
	apphandler "jobtrack_backend/internal/feature/applications/transport/handler"
	appusecase "jobtrack_backend/internal/feature/applications/usecase"
	authadapters "jobtrack_backend/internal/feature/auth/adapters"
	authhandler "jobtrack_backend/internal/feature/auth/transport/handler"
	authusecase "jobtrack_backend/internal/feature/auth/usecase"
	followupadapters "jobtrack_backend/internal/feature/followup/adapters"
	followupusecase "jobtrack_backend/internal/feature/followup/usecase"
	"jobtrack_backend/internal/platform/db"
	platformhandler "jobtrack_backend/internal/platform/http/handler"
	jwtmw "jobtrack_backend/internal/platform/jwt"
	"jobtrack_backend/internal/platform/logging"
	"jobtrack_backend/internal/platform/redis"
	"jobtrack_backend/internal/platform/scheduler"
	"jobtrack_backend/internal/platform/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	gdb, err := db.OpenDB(di.DBConfig(cfg), logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}

	// Redis（任意）
	var rdb *redisv9.Client
	if tmp, err := redis.NewRedisClient(ctx, di.RedisConfig(cfg), logger); err != nil {
		logger.Warn("redis unavailable, running without stats cache", zap.Error(err))
	} else {
		rdb = tmp
	}

	// Repository
	userRepo := authadapters.NewUserRepository(gdb)
	appRepo := di.NewApplicationRepository(gdb, rdb, cfg.StatsCacheTTL)
	reminderRepo := followupadapters.NewReminderRepository(gdb)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, jwtmw.NewGenerator(cfg.JWTSecret, cfg.JWTExpiration))
	appUC := appusecase.NewApplicationUsecase(appRepo, nil)
	scanUC := followupusecase.NewScanUsecase(reminderRepo, di.NewNotifier(cfg, logger), logger, nil)

	// Handler
	guard := jwtmw.AuthRequired(jwtmw.NewVerifier(cfg.JWTSecret), authUC, logger)
	engine := router.NewRouter(
		router.Config{
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
			AuthRateLimitRPS:   cfg.AuthRateLimitRPS,
			AuthRateLimitBurst: cfg.AuthRateLimitBurst,
		},
		logger,
		platformhandler.NewHealthHandler(sqlDB, logger),
		authhandler.NewAuthHandler(authUC, logger),
		apphandler.NewApplicationHandler(appUC, logger),
		guard,
	)

	srv := server.New(engine, di.ServerConfig(cfg), logger)

	// 停止は登録の逆順: scheduler → redis → db
	srv.OnShutdown("database", func(context.Context) error { return sqlDB.Close() })
	if rdb != nil {
		srv.OnShutdown("redis", func(context.Context) error { return rdb.Close() })
	}

	if cfg.FollowUpEnabled {
		sched := scheduler.New(logger)
		if err := sched.Register("followup", cfg.FollowUpSchedule, func(ctx context.Context) error {
			_, err := scanUC.Run(ctx)
			return err
		}); err != nil {
			return err
		}
		sched.Start()
		srv.OnShutdown("scheduler", sched.Stop)
		logger.Info("follow-up scheduler started", zap.String("schedule", cfg.FollowUpSchedule))
	}

	logger.Info("server starting",
		zap.Int("port", cfg.Port),
		zap.String("env", cfg.AppEnv),
		zap.String("db_driver", cfg.DBDriver),
		zap.Bool("stats_cache", rdb != nil),
		zap.Duration("jwt_expiration", cfg.JWTExpiration),
	)
	return srv.Run(ctx)
}
