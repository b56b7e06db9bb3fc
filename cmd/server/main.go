package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/akeren/resfi-api/config"
	"github.com/akeren/resfi-api/domain"
	"github.com/akeren/resfi-api/internal/log"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := log.NewLoggerWithJSONOutput()

	logger.Info("ResFi API server starting")

	appConfig, err := config.LoadApplicationConfiguration(logger, wantsAutoMigrate(os.Args[1:]))
	if err != nil {
		logger.Error("Failed to load application configuration", "error", err.Error())
		os.Exit(1)
	}

	domain.SetupCoreDomain(appConfig)

	if err := serve(appConfig); err != nil {
		logger.Error("Server error", "error", err)
		appConfig.Cleanup()
		os.Exit(1)
	}

	appConfig.Cleanup()
	logger.Info("Graceful shutdown completed")
}

func wantsAutoMigrate(args []string) bool {
	for _, arg := range args {
		switch strings.ToLower(arg) {
		case "--auto-migrate", "-m":
			return true
		}
	}
	return false
}

// serve blocks until SIGINT/SIGTERM or a listener failure.
func serve(appConfig *config.ApplicationConfig) error {
	logger := appConfig.Logger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server")
		if err := appConfig.RouterService.RunHTTPServer(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutdown signal received, shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := appConfig.RouterService.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
		return nil
	}

	logger.Info("HTTP server shut down gracefully")
	return nil
}
