package config

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/akeren/resfi-api/config/router"
	"github.com/akeren/resfi-api/internal/log"
	"github.com/akeren/resfi-api/internal/models"
	"github.com/akeren/resfi-api/pkg/constants"
	"github.com/akeren/resfi-api/pkg/events"
	"github.com/akeren/resfi-api/pkg/factory"
	"github.com/akeren/resfi-api/pkg/utils"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationConfig owns the process-wide handles. Cache and EventPublisher
// stay nil interfaces when not configured.
type ApplicationConfig struct {
	DB              *gorm.DB
	DocStoreClient  *mongo.Client
	DocStore        *mongo.Database
	RouterService   *router.RouterService
	Logger          *log.Logger
	Cache           Cache
	EventPublisher  events.Publisher
	Config          *AppConfig
	TracingShutdown func(context.Context) error
}

type AppConfig struct {
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RequestTimeout    time.Duration
	CORSOrigins       []string
}

func NewAppConfig() *AppConfig {
	config := &AppConfig{
		RateLimitRequests: constants.DefaultRateLimitRequests,
		RateLimitWindow:   constants.DefaultRateLimitWindow(),
		RequestTimeout:    30 * time.Second,
		CORSOrigins:       utils.SplitCSV(utils.GetEnvTrimmedOrDefault("CORS_ORIGINS", "*")),
	}

	if reqStr := os.Getenv("RATE_LIMIT_REQUESTS"); reqStr != "" {
		if parsed, err := strconv.Atoi(reqStr); err == nil && parsed > 0 {
			config.RateLimitRequests = parsed
		}
	}

	if winStr := os.Getenv("RATE_LIMIT_WINDOW"); winStr != "" {
		if parsed, err := time.ParseDuration(winStr); err == nil && parsed > 0 {
			config.RateLimitWindow = parsed
		}
	}

	if timeoutStr := os.Getenv("REQUEST_TIMEOUT"); timeoutStr != "" {
		if parsed, err := time.ParseDuration(timeoutStr); err == nil && parsed > 0 {
			config.RequestTimeout = parsed
		}
	}

	if len(config.CORSOrigins) == 0 {
		config.CORSOrigins = []string{"*"}
	}

	return config
}

func (ac *ApplicationConfig) Cleanup() {
	if ac.TracingShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ac.TracingShutdown(ctx); err != nil {
			ac.Logger.Error("Failed to shutdown tracer provider", "error", err)
		}
	}

	if ac.RouterService != nil {
		ac.RouterService.Cleanup()
	}

	if ac.DB != nil {
		CloseDatabase(ac.DB, ac.Logger)
	}

	DisconnectDocStore(ac.DocStoreClient, ac.Logger)

	if ac.Cache != nil {
		_ = CloseCache(ac.Cache, ac.Logger)
	}

	ClosePublisher(ac.EventPublisher, ac.Logger)

	ac.Logger.Info("Application cleanup completed")
}

func LoadApplicationConfiguration(logger *log.Logger, autoMigrate bool) (*ApplicationConfig, error) {
	InitializeEnvFile(logger)

	if autoMigrate {
		appEnv := GetAppEnv()
		if err := ValidateAutoMigrateAllowed(appEnv); err != nil {
			return nil, err
		}
		if appEnv == "" {
			logger.Warn("APP_ENV not set; allowing --auto-migrate as development")
		}
	}

	ac := &ApplicationConfig{Logger: logger}

	tracingShutdown, err := SetupTracing(logger)
	if err != nil {
		return nil, err
	}
	ac.TracingShutdown = tracingShutdown

	startupCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := NewDatabase(startupCtx, logger, DefaultDBConfig())
	if err != nil {
		ac.Cleanup()
		return nil, err
	}
	ac.DB = db

	if autoMigrate {
		if err := AutoMigrate(logger, db, models.ModelRegistry...); err != nil {
			ac.Cleanup()
			return nil, err
		}
	}

	if docCfg := NewDocStoreConfig(); docCfg.IsConfigured() {
		client, database, err := docCfg.Connect(startupCtx, logger)
		if err != nil {
			ac.Cleanup()
			return nil, err
		}
		ac.DocStoreClient = client
		ac.DocStore = database
	} else {
		logger.Warn("Document store is not configured; status routes disabled")
	}

	ac.Config = NewAppConfig()

	var limiterFactory *factory.DefaultRateLimiterFactory
	if cache := NewCacheConfig().NewCacheOrNil(logger); cache != nil {
		ac.Cache = cache
		limiterFactory = factory.NewDefaultRateLimiterFactory(cache, logger)
	} else {
		limiterFactory = factory.NewDefaultRateLimiterFactory(nil, logger)
	}

	if publisher := NewEventsConfig().NewPublisherOrNil(logger); publisher != nil {
		ac.EventPublisher = publisher
	}

	ac.RouterService = router.CreateRouterService(logger, limiterFactory, &router.RouterConfig{
		RateLimitRequests: ac.Config.RateLimitRequests,
		RateLimitWindow:   ac.Config.RateLimitWindow,
		RequestTimeout:    ac.Config.RequestTimeout,
		CORSOrigins:       ac.Config.CORSOrigins,
	})

	logger.Info("Application configuration loaded successfully",
		"document_store", ac.DocStore != nil,
		"distributed_rate_limit", limiterFactory.Distributed(),
		"events", ac.EventPublisher != nil,
	)

	return ac, nil
}
