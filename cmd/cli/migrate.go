package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/akeren/resfi-api/config"
	"github.com/akeren/resfi-api/internal/log"
	"github.com/akeren/resfi-api/pkg/migrations"
	"github.com/akeren/resfi-api/pkg/utils"
	_ "github.com/lib/pq"
)

func runMigrations(logger *log.Logger, direction string) error {
	dsn, err := config.BuildDSNFromEnv(logger, config.DefaultDBConfig())
	if err != nil {
		return err
	}

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("Failed to close SQL DB after migration", "error", err.Error())
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	cfg := migrations.Config{
		Dir:    utils.GetEnvTrimmedOrDefault("MIGRATIONS_DIR", "migrations"),
		Logger: logger,
	}

	if err := migrations.Run(ctx, sqlDB, cfg, migrations.Direction(direction)); err != nil {
		return err
	}

	logger.Info("Database migrations completed", "direction", direction)
	return nil
}
