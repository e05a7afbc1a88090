// Command followup runs a single follow-up reminder scan and exits.
// It is meant for an external scheduler when the server's built-in job is disabled.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"jobtrack_backend/internal/app/di"
	"jobtrack_backend/internal/config"
	followupadapters "jobtrack_backend/internal/feature/followup/adapters"
	followupusecase "jobtrack_backend/internal/feature/followup/usecase"
	"jobtrack_backend/internal/platform/db"
	"jobtrack_backend/internal/platform/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "followup:", err)
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

	gdb, err := db.OpenDB(di.DBConfig(cfg), logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	uc := followupusecase.NewScanUsecase(
		followupadapters.NewReminderRepository(gdb),
		di.NewNotifier(cfg, logger),
		logger,
		nil,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	res, err := uc.Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("follow-up scan ok",
		zap.Int("found", res.Found),
		zap.Int("notified", res.Notified),
		zap.Int("failed", res.Failed),
	)
	return nil
}
