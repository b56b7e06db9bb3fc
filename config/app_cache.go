package config

import (
	"context"
	"errors"
	"os"
	"strconv"

	"github.com/akeren/resfi-api/internal/log"
	pkgredis "github.com/akeren/resfi-api/pkg/redis"
	"github.com/akeren/resfi-api/pkg/utils"
)

// Cache is the optional shared Redis. It backs distributed rate limiting.
type Cache interface {
	Ping(ctx context.Context) error
	Close() error
}

var ErrCacheNotConfigured = errors.New("cache host is not configured")

type CacheConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func NewCacheConfig() *CacheConfig {
	db, err := strconv.Atoi(utils.GetEnvOrDefault("REDIS_DB", "0"))
	if err != nil || db < 0 {
		db = 0
	}

	return &CacheConfig{
		Host:     os.Getenv("REDIS_HOST"),
		Port:     utils.GetEnvOrDefault("REDIS_PORT", "6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	}
}

func (cc *CacheConfig) IsConfigured() bool {
	return cc.Host != ""
}

func (cc *CacheConfig) NewCache(logger *log.Logger) (*pkgredis.RedisCache, error) {
	if !cc.IsConfigured() {
		return nil, ErrCacheNotConfigured
	}

	cache, err := pkgredis.NewRedisCache(&pkgredis.Config{
		Host:     cc.Host,
		Port:     cc.Port,
		Password: cc.Password,
		DB:       cc.DB,
	})
	if err != nil {
		logger.Error("Failed to create Cache (Redis)", "error", err)
		return nil, err
	}

	logger.Info("Cache (Redis) connected successfully", "addr", cc.Host+":"+cc.Port)
	return cache, nil
}

// NewCacheOrNil never fails startup; without Redis the limiters stay in-process.
func (cc *CacheConfig) NewCacheOrNil(logger *log.Logger) *pkgredis.RedisCache {
	if !cc.IsConfigured() {
		logger.Info("Cache (Redis) is not configured; proceeding without external cache")
		return nil
	}

	cache, err := cc.NewCache(logger)
	if err != nil {
		logger.Warn("Proceeding without external cache", "error", err)
		return nil
	}

	return cache
}

func CloseCache(cache Cache, logger *log.Logger) error {
	if cache == nil {
		return nil
	}

	if err := cache.Close(); err != nil {
		logger.Error("Failed to close cache", "error", err)
		return err
	}

	logger.Info("Cache connection closed")
	return nil
}
