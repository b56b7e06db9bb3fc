package factory

import (
	"time"

	"github.com/akeren/resfi-api/pkg/ratelimit"
	"github.com/go-redis/redis/v8"
)

type RedisClientProvider interface {
	GetClient() *redis.Client
}

// RateLimiterFactory builds limiters that share one backing store, so a route
// override gets the same Redis-or-memory choice as the global limiter.
type RateLimiterFactory interface {
	CreateRateLimiter(requests int, window time.Duration) ratelimit.RateLimiter
	Distributed() bool
}

type DefaultRateLimiterFactory struct {
	redis  *redis.Client
	logger ratelimit.Logger
}

// NewDefaultRateLimiterFactory accepts any cache; only caches exposing a Redis
// client enable the distributed limiter.
func NewDefaultRateLimiterFactory(cache any, logger ratelimit.Logger) *DefaultRateLimiterFactory {
	var redisClient *redis.Client
	if provider, ok := cache.(RedisClientProvider); ok && provider != nil {
		redisClient = provider.GetClient()
	}

	return &DefaultRateLimiterFactory{redis: redisClient, logger: logger}
}

func NewRedisRateLimiterFactory(client *redis.Client, logger ratelimit.Logger) *DefaultRateLimiterFactory {
	return &DefaultRateLimiterFactory{redis: client, logger: logger}
}

func (f *DefaultRateLimiterFactory) CreateRateLimiter(requests int, window time.Duration) ratelimit.RateLimiter {
	return ratelimit.NewRateLimiter(&ratelimit.RateLimitConfig{
		Requests: requests,
		Window:   window,
		Redis:    f.redis,
		Logger:   f.logger,
	})
}

func (f *DefaultRateLimiterFactory) Distributed() bool {
	return f.redis != nil
}
