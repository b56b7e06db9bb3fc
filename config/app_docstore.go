package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akeren/resfi-api/internal/log"
	"github.com/akeren/resfi-api/pkg/retry"
	"github.com/akeren/resfi-api/pkg/utils"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var ErrDocStoreNotConfigured = errors.New("document store is not configured (MONGO_URL and DB_NAME are required)")

type DocStoreConfig struct {
	URL            string
	Database       string
	ConnectTimeout time.Duration
	Retry          *retry.Config
}

func NewDocStoreConfig() *DocStoreConfig {
	return &DocStoreConfig{
		URL:            sanitizeEnv(utils.GetEnvTrimmed("MONGO_URL")),
		Database:       sanitizeEnv(utils.GetEnvTrimmed("DB_NAME")),
		ConnectTimeout: 10 * time.Second,
		Retry:          retry.DefaultConfig(),
	}
}

func (dc *DocStoreConfig) IsConfigured() bool {
	return dc.URL != "" && dc.Database != ""
}

// Connect dials MongoDB and waits for a primary with exponential backoff.
func (dc *DocStoreConfig) Connect(ctx context.Context, logger *log.Logger) (*mongo.Client, *mongo.Database, error) {
	if !dc.IsConfigured() {
		logger.Error("Document store configuration is missing")
		return nil, nil, ErrDocStoreNotConfigured
	}

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(dc.URL).
		SetConnectTimeout(dc.ConnectTimeout).
		SetServerSelectionTimeout(dc.ConnectTimeout))
	if err != nil {
		logger.Error("Failed to create document store client", "error", err)
		return nil, nil, fmt.Errorf("connect document store: %w", err)
	}

	attempt := 0
	err = retry.NewExponentialBackoff(dc.Retry).Execute(ctx, func(ctx context.Context) error {
		attempt++
		pingErr := client.Ping(ctx, readpref.Primary())
		if pingErr != nil {
			logger.Warn("Document store ping failed", "attempt", attempt, "error", pingErr)
		}
		return pingErr
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("document store ping failed: %w", err)
	}

	logger.Info("Document store connected", "database", dc.Database)
	return client, client.Database(dc.Database), nil
}

func DisconnectDocStore(client *mongo.Client, logger *log.Logger) {
	if client == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		logger.Error("Failed to disconnect document store", "error", err)
		return
	}

	logger.Info("Document store disconnected")
}
