package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go-interview-scheduler/internal/delivery/http/response"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Custom key extractor (default: user ID, else IP)
	KeyFunc func(*gin.Context) string
	// Key prefix for Redis
	KeyPrefix string
	// Whether to fail closed (reject) when Redis is unavailable
	FailClosed bool
}

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = TTL in seconds
// Returns: [current_count, ttl_remaining]
var rateLimitScript = goredis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`)

// DefaultRateLimitConfig limits each caller to limit requests per window
func DefaultRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	if limit <= 0 {
		limit = 100
	}
	if window <= 0 {
		window = time.Minute
	}
	return RateLimitConfig{
		Limit:     limit,
		Window:    window,
		KeyPrefix: "rl:api:",
		KeyFunc: func(c *gin.Context) string {
			if id := c.GetString(userIDKey); id != "" {
				return "user:" + id
			}
			return "ip:" + c.ClientIP()
		},
	}
}

// ExportRateLimitConfig is the stricter budget for calendar exports
func ExportRateLimitConfig() RateLimitConfig {
	cfg := DefaultRateLimitConfig(10, time.Minute)
	cfg.KeyPrefix = "rl:export:"
	return cfg
}

// memoryLimiter is the per-process token bucket used when Redis is unavailable
type memoryLimiter struct {
	mu       sync.Mutex
	limiters map[string]*visitor
	limit    rate.Limit
	burst    int
	idle     time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newMemoryLimiter(cfg RateLimitConfig) *memoryLimiter {
	return &memoryLimiter{
		limiters: make(map[string]*visitor),
		limit:    rate.Every(cfg.Window / time.Duration(cfg.Limit)),
		burst:    cfg.Limit,
		idle:     3 * cfg.Window,
	}
}

// allow reports whether key may proceed and how many requests it has left.
func (m *memoryLimiter) allow(key string, now time.Time) (bool, int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.limiters[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(m.limit, m.burst)}
		m.limiters[key] = v
	}
	v.lastSeen = now

	// Opportunistic cleanup of idle callers
	if len(m.limiters) > 10000 {
		for k, other := range m.limiters {
			if now.Sub(other.lastSeen) > m.idle {
				delete(m.limiters, k)
			}
		}
	}

	allowed := v.limiter.AllowN(now, 1)
	return allowed, int(math.Max(0, math.Floor(v.limiter.TokensAt(now))))
}

// RateLimitMiddleware uses a fixed Redis window when rdb is set and falls back to
// an in-memory token bucket when it is nil or failing.
func RateLimitMiddleware(cfg RateLimitConfig, rdb *goredis.Client, log *zap.Logger) gin.HandlerFunc {
	fallback := newMemoryLimiter(cfg)

	return func(c *gin.Context) {
		key := cfg.KeyPrefix + cfg.KeyFunc(c)
		now := time.Now()

		var (
			allowed   bool
			remaining int
			resetAt   = now.Add(cfg.Window)
		)

		useMemory := rdb == nil
		if rdb != nil {
			count, reset, err := checkRateLimitRedis(c.Request.Context(), rdb, key, cfg)
			if err != nil {
				log.Warn("rate limit store unavailable", zap.String("key", key), zap.Error(err))
				if cfg.FailClosed {
					response.Error(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", nil)
					c.Abort()
					return
				}
				useMemory = true
			} else {
				allowed = count <= cfg.Limit
				remaining = cfg.Limit - count
				resetAt = reset
			}
		}
		if useMemory {
			allowed, remaining = fallback.allow(key, now)
		}
		if remaining < 0 {
			remaining = 0
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

		if !allowed {
			retryAfter := int(time.Until(resetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			log.Info("rate limit triggered",
				zap.String("key", key),
				zap.String("route", c.FullPath()),
				zap.String("request_id", c.GetString(requestIDKey)),
			)
			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// checkRateLimitRedis checks rate limit using Redis with atomic Lua script
func checkRateLimitRedis(ctx context.Context, client *goredis.Client, key string, cfg RateLimitConfig) (int, time.Time, error) {
	ttlSeconds := int(cfg.Window.Seconds())

	result, err := rateLimitScript.Run(ctx, client, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	// Parse result [count, ttl]
	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}

	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)

	return int(count), time.Now().Add(time.Duration(ttl) * time.Second), nil
}
