package migrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

type migrator interface {
	Up() error
	Down() error
	Close() (sourceErr error, databaseErr error)
}

var driverFactory = func(db *sql.DB, cfg Config) (database.Driver, error) {
	return postgres.WithInstance(db, &postgres.Config{MigrationsTable: cfg.MigrationsTable})
}

var migratorFactory = func(sourceURL string, driver database.Driver) (migrator, error) {
	return migrate.NewWithDatabaseInstance(sourceURL, "postgres", driver)
}

type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type Config struct {
	Dir             string
	MigrationsTable string
	Logger          Logger
}

func (cfg *Config) applyDefaults() {
	if strings.TrimSpace(cfg.Dir) == "" {
		cfg.Dir = "migrations"
	}
	if strings.TrimSpace(cfg.MigrationsTable) == "" {
		cfg.MigrationsTable = "schema_migrations"
	}
}

func (cfg *Config) info(msg string, args ...any) {
	if cfg.Logger != nil {
		cfg.Logger.Info(msg, args...)
	}
}

func (cfg *Config) warn(msg string, args ...any) {
	if cfg.Logger != nil {
		cfg.Logger.Warn(msg, args...)
	}
}

// Up applies every pending migration in cfg.Dir.
func Up(ctx context.Context, db *sql.DB, cfg Config) error {
	return Run(ctx, db, cfg, DirectionUp)
}

// Down reverts every applied migration. Intended for local resets only.
func Down(ctx context.Context, db *sql.DB, cfg Config) error {
	return Run(ctx, db, cfg, DirectionDown)
}

func Run(ctx context.Context, db *sql.DB, cfg Config, direction Direction) error {
	if db == nil {
		return fmt.Errorf("migrations: db is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if direction != DirectionUp && direction != DirectionDown {
		return fmt.Errorf("migrations: unknown direction %q", direction)
	}

	cfg.applyDefaults()

	absDir, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return fmt.Errorf("migrations: resolve dir: %w", err)
	}

	// ToSlash keeps Windows paths valid inside a file:// URL.
	sourceURL := (&url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(absDir),
	}).String()

	driver, err := driverFactory(db, cfg)
	if err != nil {
		return fmt.Errorf("migrations: postgres driver: %w", err)
	}

	m, err := migratorFactory(sourceURL, driver)
	if err != nil {
		return fmt.Errorf("migrations: init: %w", err)
	}

	var closeOnce sync.Once
	closeMigrator := func() {
		closeOnce.Do(func() {
			srcErr, dbErr := m.Close()
			if srcErr != nil {
				cfg.warn("Migrations source close error", "error", srcErr)
			}
			if dbErr != nil {
				cfg.warn("Migrations db close error", "error", dbErr)
			}
		})
	}
	defer closeMigrator()

	cfg.info("Running SQL migrations", "dir", absDir, "table", cfg.MigrationsTable, "direction", direction)

	errCh := make(chan error, 1)
	go func() {
		if direction == DirectionDown {
			errCh <- m.Down()
			return
		}
		errCh <- m.Up()
	}()

	select {
	case <-ctx.Done():
		// migrate has no context support; closing is the only way to interrupt it.
		closeMigrator()
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, migrate.ErrNoChange) {
			cfg.info("No migrations to apply")
			return nil
		}
		if err != nil {
			return fmt.Errorf("migrations: %s: %w", direction, err)
		}
	}

	cfg.info("Migrations applied successfully", "direction", direction)
	return nil
}
