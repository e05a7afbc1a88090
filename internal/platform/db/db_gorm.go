// Package db opens the gorm connection (PostgreSQL or SQLite) and migrates the schema.
package db

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	appadapters "jobtrack_backend/internal/feature/applications/adapters"
	"jobtrack_backend/internal/feature/auth/domain/entity"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// retryInterval は接続リトライの間隔です。
var retryInterval = 3 * time.Second

// Config holds database connection settings.
type Config struct {
	Driver      string
	DatabaseURL string

	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	SQLitePath string

	RunMigrations  bool
	ConnectTimeout time.Duration
}

// Opener opens a gorm connection for a DSN. Tests replace it.
type Opener func(dsn string) (*gorm.DB, error)

// BuildDSN constructs the PostgreSQL DSN. DATABASE_URL wins when set.
// Sessions are pinned to UTC so timestamps compare the same on every driver.
func BuildDSN(cfg Config) string {
	if cfg.DatabaseURL != "" {
		return cfg.DatabaseURL
	}
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, sslmode)
}

// ConnectWithRetry attempts to connect to the database with retry logic.
// It retries every few seconds until the timeout is reached.
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener, logger *zap.Logger) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for attempt := 1; ; attempt++ {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %v: %w", timeout, err)
		}
		logger.Warn("DB connect failed, retrying", zap.Int("attempt", attempt), zap.Error(err))
		time.Sleep(retryInterval)
	}
}

func gormConfig(logger *zap.Logger) *gorm.Config {
	return &gorm.Config{
		Logger: NewGormLogger(logger),
		// 一意制約違反などを gorm.ErrDuplicatedKey に変換する
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}
}

// OpenDB connects with the configured driver and migrates when enabled.
func OpenDB(cfg Config, logger *zap.Logger) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch cfg.Driver {
	case DriverPostgres:
		db, err = ConnectWithRetry(BuildDSN(cfg), cfg.ConnectTimeout, func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), gormConfig(logger))
		}, logger)
	case DriverSQLite, "":
		db, err = gorm.Open(sqlite.Open(cfg.SQLitePath), gormConfig(logger))
		if err == nil && isMemory(cfg.SQLitePath) {
			// ":memory:" はコネクションごとに別DBになる
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				sqlDB.SetMaxOpenConns(1)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported DB driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	logger.Info("database ready", zap.String("driver", db.Dialector.Name()), zap.Bool("migrated", cfg.RunMigrations))
	return db, nil
}

// Migrate creates or updates the users and applications tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&entity.User{},
		&appadapters.ApplicationModel{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

func isMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}
