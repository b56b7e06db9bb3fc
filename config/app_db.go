package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/akeren/resfi-api/internal/log"
	"github.com/akeren/resfi-api/pkg/retry"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type DBConfig struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	SSLMode         string // default "require"
	Retry           *retry.Config
}

func DefaultDBConfig() *DBConfig {
	return &DBConfig{
		MaxIdleConns:    10,
		MaxOpenConns:    50,
		ConnMaxLifetime: 5 * time.Minute,
		SSLMode:         "require",
		Retry:           retry.DefaultConfig(),
	}
}

// NewDatabase opens the Postgres pool and waits for it with exponential backoff.
// Driver errors are translated so unique violations surface as gorm.ErrDuplicatedKey.
func NewDatabase(ctx context.Context, logger *log.Logger, cfg *DBConfig) (*gorm.DB, error) {
	if cfg == nil {
		cfg = DefaultDBConfig()
	}

	dsn, err := BuildDSNFromEnv(logger, cfg)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		logger.Error("Failed to get database instance", "error", err)
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	attempt := 0
	err = retry.NewExponentialBackoff(cfg.Retry).Execute(ctx, func(ctx context.Context) error {
		attempt++
		pingErr := sqlDB.PingContext(ctx)
		if pingErr != nil {
			logger.Warn("Database ping failed", "attempt", attempt, "error", pingErr)
		}
		return pingErr
	})
	if err != nil {
		_ = sqlDB.Close()
		logger.Error("Database unreachable", "error", err)
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	logger.Info("Database connection established successfully")
	return gdb, nil
}

// BuildDSNFromEnv prefers APP_DATABASE_URL and otherwise assembles a DSN from
// the POSTGRES_* variables. SUPABASE_SERVICE_ROLE_KEY stands in for a missing
// POSTGRES_PASSWORD.
func BuildDSNFromEnv(logger *log.Logger, cfg *DBConfig) (string, error) {
	if appDatabaseURL := sanitizeEnv(GetValueFromEnvironmentVariable("APP_DATABASE_URL", "")); appDatabaseURL != "" {
		logger.Info("Using APP_DATABASE_URL for database connection")
		return appDatabaseURL, nil
	}

	p := getDatabaseEnvParams()
	if p.ssl == "" {
		p.ssl = cfg.SSLMode
	}

	var missing []string
	if p.host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if p.port == "" {
		missing = append(missing, "POSTGRES_PORT")
	}
	if p.user == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if p.dbName == "" {
		missing = append(missing, "POSTGRES_DB_NAME")
	}

	if len(missing) > 0 {
		logger.Error("Missing required database environment variables", "missing_vars", strings.Join(missing, ", "))
		return "", fmt.Errorf("missing required database env vars: %s", strings.Join(missing, ", "))
	}

	port, err := strconv.Atoi(p.port)
	if err != nil {
		logger.Error("Invalid POSTGRES_PORT", "error", err)
		return "", fmt.Errorf("invalid POSTGRES_PORT %q: %w", p.port, err)
	}

	logger.Info("Connecting to database",
		"host", p.host,
		"port", port,
		"user", p.user,
		"dbname", p.dbName,
		"sslmode", p.ssl,
	)

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.host, port, p.user, p.pass, p.dbName, p.ssl,
	), nil
}

type databaseEnvParams struct {
	host, port, user, pass, dbName, ssl string
}

func getDatabaseEnvParams() databaseEnvParams {
	pass := sanitizeEnv(GetValueFromEnvironmentVariable("POSTGRES_PASSWORD", ""))
	if pass == "" {
		pass = sanitizeEnv(GetValueFromEnvironmentVariable("SUPABASE_SERVICE_ROLE_KEY", ""))
	}

	return databaseEnvParams{
		host:   sanitizeEnv(GetValueFromEnvironmentVariable("POSTGRES_HOST", "")),
		port:   sanitizeEnv(GetValueFromEnvironmentVariable("POSTGRES_PORT", "5432")),
		user:   sanitizeEnv(GetValueFromEnvironmentVariable("POSTGRES_USER", "")),
		pass:   pass,
		dbName: sanitizeEnv(GetValueFromEnvironmentVariable("POSTGRES_DB_NAME", "")),
		ssl:    sanitizeEnv(GetValueFromEnvironmentVariable("POSTGRES_SSLMODE", "")),
	}
}

func sanitizeEnv(v string) string {
	s := strings.TrimSpace(v)

	if len(s) >= 2 && ((s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'')) {
		s = s[1 : len(s)-1]
	}

	return s
}

func AutoMigrate(logger *log.Logger, db *gorm.DB, models ...interface{}) error {
	if db == nil {
		logger.Error("Cannot migrate: db is empty")
		return fmt.Errorf("cannot migrate: db is empty")
	}

	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Database migration failed", "error", err)
		return fmt.Errorf("auto-migrate failed: %w", err)
	}

	logger.Info("Database migration completed successfully")

	return nil
}

func CloseDatabase(db *gorm.DB, logger *log.Logger) {
	if db == nil {
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Failed to get SQL DB instance", "error", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("Failed to close database", "error", err)
	} else {
		logger.Info("Database closed successfully")
	}
}
