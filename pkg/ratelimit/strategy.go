package ratelimit

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/time/rate"
)

type Logger interface {
	Error(msg string, args ...any)
}

// RateLimiter decides whether the caller identified by key is over its budget.
type RateLimiter interface {
	GetLimitDetails() (int, time.Duration)
	IsLimited(ctx context.Context, key string) (bool, error)
	Close() error
}

// RateLimitConfig holds configuration for rate limiting.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	Redis    *redis.Client // nil selects the in-memory limiter
	Logger   Logger
}

// NewRateLimiter picks the Redis sliding window when a client is configured
// and a per-process token bucket otherwise.
func NewRateLimiter(config *RateLimitConfig) RateLimiter {
	if config.Redis != nil {
		return NewRedisRateLimiter(config.Redis, config.Requests, config.Window, config.Logger)
	}
	return NewInMemoryRateLimiter(config.Requests, config.Window)
}

// InMemoryRateLimiter keeps one token bucket per key.
type InMemoryRateLimiter struct {
	requests int
	window   time.Duration

	mu       sync.Mutex
	buckets  map[string]*bucket
	sweepCnt uint64
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewInMemoryRateLimiter(requests int, window time.Duration) *InMemoryRateLimiter {
	return &InMemoryRateLimiter{
		requests: requests,
		window:   window,
		buckets:  make(map[string]*bucket),
	}
}

func (r *InMemoryRateLimiter) GetLimitDetails() (int, time.Duration) {
	return r.requests, r.window
}

func (r *InMemoryRateLimiter) IsLimited(_ context.Context, key string) (bool, error) {
	if key == "" {
		key = "__empty__"
	}

	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.buckets[key]
	if !ok {
		perSecond := float64(r.requests) / r.window.Seconds()
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(perSecond), r.requests)}
		r.buckets[key] = b
	}
	b.lastSeen = now

	// Sweep idle keys every 1024 calls so the map stays bounded.
	r.sweepCnt++
	if r.sweepCnt%1024 == 0 {
		cutoff := now.Add(-2 * r.window)
		for k, v := range r.buckets {
			if v.lastSeen.Before(cutoff) {
				delete(r.buckets, k)
			}
		}
	}

	return !b.limiter.AllowN(now, 1), nil
}

func (r *InMemoryRateLimiter) Close() error {
	return nil
}

// slidingWindow returns 1 when the key already holds `limit` hits inside the window.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
if redis.call('ZCARD', key) >= limit then
	return 1
end

redis.call('ZADD', key, now, ARGV[5])
redis.call('EXPIRE', key, ttl)
return 0
`)

// RedisRateLimiter shares a sliding window across every API instance.
type RedisRateLimiter struct {
	client    *redis.Client
	requests  int
	window    time.Duration
	keyPrefix string
	logger    Logger
}

func NewRedisRateLimiter(client *redis.Client, requests int, window time.Duration, logger Logger) *RedisRateLimiter {
	return &RedisRateLimiter{
		client:    client,
		requests:  requests,
		window:    window,
		keyPrefix: "ratelimit:",
		logger:    logger,
	}
}

func (r *RedisRateLimiter) GetLimitDetails() (int, time.Duration) {
	return r.requests, r.window
}

func (r *RedisRateLimiter) IsLimited(ctx context.Context, key string) (bool, error) {
	fullKey := key
	if !strings.HasPrefix(key, r.keyPrefix) {
		fullKey = r.keyPrefix + key
	}

	windowSeconds := int64(r.window.Seconds())
	if windowSeconds < 1 {
		windowSeconds = 1
	}

	res, err := slidingWindow.Run(ctx, r.client, []string{fullKey},
		time.Now().Unix(), windowSeconds, r.requests, 2*windowSeconds, newMemberID(),
	).Int64()
	if err != nil {
		if r.logger != nil {
			r.logger.Error("Redis rate limit script execution failed", "key", fullKey, "error", err)
		}
		return false, fmt.Errorf("rate limiter Redis error: %w", err)
	}

	return res == 1, nil
}

// Close is a no-op: the Redis client belongs to the application config.
func (r *RedisRateLimiter) Close() error {
	return nil
}

func newMemberID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
