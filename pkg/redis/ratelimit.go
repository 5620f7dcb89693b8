package redis

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter implements sliding window rate limiting using Redis
// ⭐ SSOT: 레이트 리밋은 여기서만
type RateLimiter struct {
	client *Client
	prefix string
}

// RateLimitConfig defines rate limit parameters
type RateLimitConfig struct {
	Key    string        // Unique identifier (e.g., "api:10.0.0.1")
	Limit  int           // Maximum requests allowed
	Window time.Duration // Time window
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(client *Client, prefix string) *RateLimiter {
	return &RateLimiter{
		client: client,
		prefix: prefix,
	}
}

// slidingWindow trims the window, then admits the request if under limit.
// KEYS[1]=zset key; ARGV: now_ms, window_start_ms, limit, window_ms, member
var slidingWindow = redis.NewScript(`
	redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', ARGV[2])
	local count = redis.call('ZCARD', KEYS[1])
	local limit = tonumber(ARGV[3])
	if count < limit then
		redis.call('ZADD', KEYS[1], ARGV[1], ARGV[5])
		redis.call('PEXPIRE', KEYS[1], ARGV[4])
		return {1, limit - count - 1}
	end
	return {0, 0}
`)

// seq keeps zset members unique within one millisecond
var seq atomic.Uint64

// Allow checks if a request is allowed under the rate limit
// Returns (allowed, remaining, error)
func (r *RateLimiter) Allow(ctx context.Context, cfg RateLimitConfig) (bool, int, error) {
	if !r.client.Enabled() {
		// Redis 비활성 시 전부 허용
		return true, cfg.Limit, nil
	}

	key := fmt.Sprintf("%s:ratelimit:%s", r.prefix, cfg.Key)
	now := time.Now().UnixMilli()
	member := fmt.Sprintf("%d-%d", now, seq.Add(1))

	res, err := slidingWindow.Run(ctx, r.client.Redis(), []string{key},
		now, now-cfg.Window.Milliseconds(), cfg.Limit, cfg.Window.Milliseconds(), member,
	).Int64Slice()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit script failed: %w", err)
	}

	return res[0] == 1, int(res[1]), nil
}

// APIRateLimit returns the shared per-client limit for the HTTP API
// (perSecond requests averaged over a one-minute window)
func APIRateLimit(client string, perSecond float64) RateLimitConfig {
	return RateLimitConfig{
		Key:    "api:" + client,
		Limit:  int(perSecond * 60),
		Window: time.Minute,
	}
}
