package di

import (
	"jobtrack_backend/internal/config"
	"jobtrack_backend/internal/platform/db"
	"jobtrack_backend/internal/platform/redis"
	"jobtrack_backend/internal/platform/server"
)

// DBConfig maps the environment configuration onto the database package.
func DBConfig(cfg *config.Config) db.Config {
	return db.Config{
		Driver:         cfg.DBDriver,
		DatabaseURL:    cfg.DatabaseURL,
		Host:           cfg.DBHost,
		Port:           cfg.DBPort,
		User:           cfg.DBUser,
		Password:       cfg.DBPassword,
		Name:           cfg.DBName,
		SSLMode:        cfg.DBSSLMode,
		SQLitePath:     cfg.SQLitePath,
		RunMigrations:  cfg.RunMigrations,
		ConnectTimeout: cfg.DBConnectTimeout,
	}
}

func RedisConfig(cfg *config.Config) redis.Config {
	return redis.Config{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}
}

func ServerConfig(cfg *config.Config) server.Config {
	return server.Config{
		Port:            cfg.Port,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}
}
