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

// Logger is the minimal logging surface the limiters need.
type Logger interface {
	Error(msg string, args ...interface{})
}

// RateLimiter is the strategy interface for request rate limiting.
type RateLimiter interface {
	GetLimitDetails() (int, time.Duration)
	IsLimited(key string) (bool, error)
	Close() error
}

// Config selects the limiter implementation: Redis when a client is
// provided, in-memory otherwise.
type Config struct {
	Requests int
	Window   time.Duration
	Redis    *redis.Client
	Logger   Logger
}

// New creates a rate limiter for the given configuration.
func New(cfg *Config) RateLimiter {
	if cfg.Redis != nil {
		return NewRedisRateLimiter(cfg.Redis, cfg.Requests, cfg.Window, cfg.Logger)
	}

	return NewInMemoryRateLimiter(cfg.Requests, cfg.Window)
}

// InMemoryRateLimiter applies a token bucket per key. Suitable for a single
// instance only.
type InMemoryRateLimiter struct {
	requests int
	window   time.Duration

	mu       sync.Mutex
	limiters map[string]*keyedLimiter
	ops      uint64
}

type keyedLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewInMemoryRateLimiter(requests int, window time.Duration) *InMemoryRateLimiter {
	return &InMemoryRateLimiter{
		requests: requests,
		window:   window,
		limiters: make(map[string]*keyedLimiter),
	}
}

func (r *InMemoryRateLimiter) GetLimitDetails() (int, time.Duration) {
	return r.requests, r.window
}

func (r *InMemoryRateLimiter) IsLimited(key string) (bool, error) {
	if key == "" {
		key = "__empty__"
	}

	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	k, ok := r.limiters[key]
	if !ok {
		perSecond := float64(r.requests) / r.window.Seconds()
		k = &keyedLimiter{
			limiter:  rate.NewLimiter(rate.Limit(perSecond), r.requests),
			lastSeen: now,
		}
		r.limiters[key] = k
	} else {
		k.lastSeen = now
	}

	// Opportunistic cleanup so the key map cannot grow without bound.
	r.ops++
	if r.ops%1024 == 0 {
		cutoff := now.Add(-2 * r.window)
		for key, entry := range r.limiters {
			if entry.lastSeen.Before(cutoff) {
				delete(r.limiters, key)
			}
		}
	}

	return !k.limiter.Allow(), nil
}

func (r *InMemoryRateLimiter) Close() error {
	return nil
}

// RedisRateLimiter applies a sliding window per key across instances.
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

// slidingWindowScript atomically trims, counts and records requests for a key.
const slidingWindowScript = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local expire = tonumber(ARGV[4])
local memberId = ARGV[5]

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)

local count = redis.call('ZCARD', key)
if count >= limit then
	return 1
end

redis.call('ZADD', key, now, memberId)
redis.call('EXPIRE', key, expire)
return 0
`

func (r *RedisRateLimiter) IsLimited(key string) (bool, error) {
	ctx := context.Background()

	fullKey := key
	if r.keyPrefix != "" && !strings.HasPrefix(key, r.keyPrefix) {
		fullKey = r.keyPrefix + key
	}

	result, err := r.client.Eval(ctx, slidingWindowScript,
		[]string{fullKey},
		time.Now().Unix(),
		int64(r.window.Seconds()),
		r.requests,
		int64((r.window * 2).Seconds()),
		uniqueMemberID(),
	).Result()
	if err != nil {
		if r.logger != nil {
			r.logger.Error("Redis rate limit script failed", "key", fullKey, "error", err)
		}
		return false, fmt.Errorf("rate limiter Redis error: %w", err)
	}

	return result.(int64) == 1, nil
}

// Close is a no-op; the Redis client is owned by the application config.
func (r *RedisRateLimiter) Close() error {
	return nil
}

func uniqueMemberID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)

	return hex.EncodeToString(bytes)
}
