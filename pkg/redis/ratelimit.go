package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/wonny/squadpick/pkg/config"
)

// slidingWindow trims the window, counts it, and records the request when under the limit
var slidingWindow = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])
	local member = ARGV[5]

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local count = redis.call('ZCARD', key)

	if count < limit then
		redis.call('ZADD', key, now, member)
		redis.call('PEXPIRE', key, window_ms)
		return {1, limit - count - 1}
	else
		return {0, 0}
	end
`)

// RateLimiter implements sliding window rate limiting using Redis
// ⭐ SSOT: 레이트 리밋은 여기서만
type RateLimiter struct {
	client *Client
	prefix string
}

// RateLimitConfig defines rate limit parameters
type RateLimitConfig struct {
	Key    string        // bucket name, e.g. "auth" or "api"
	Limit  int           // Maximum requests allowed
	Window time.Duration // Time window
}

// For scopes the bucket to one client (usually the remote IP)
func (c RateLimitConfig) For(client string) RateLimitConfig {
	c.Key = c.Key + ":" + client
	return c
}

// AuthRateLimit is the budget for register and login
func AuthRateLimit(cfg config.RateLimitConfig) RateLimitConfig {
	return RateLimitConfig{Key: "auth", Limit: cfg.AuthLimit, Window: cfg.AuthWindow}
}

// APIRateLimit is the budget for every /api route
func APIRateLimit(cfg config.RateLimitConfig) RateLimitConfig {
	return RateLimitConfig{Key: "api", Limit: cfg.APILimit, Window: cfg.APIWindow}
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(client *Client, prefix string) *RateLimiter {
	return &RateLimiter{
		client: client,
		prefix: prefix,
	}
}

// Allow checks if a request is allowed under the rate limit
// Returns (allowed, remaining, error)
func (r *RateLimiter) Allow(ctx context.Context, cfg RateLimitConfig) (bool, int, error) {
	slot, err := r.Acquire(ctx, cfg)
	return slot.Allowed, slot.Remaining, err
}

// Slot is the outcome of one Acquire call. Member identifies the recorded
// request so it can be released again.
type Slot struct {
	Allowed   bool
	Remaining int
	Member    string
}

// Acquire records one request in the window when it fits the limit
func (r *RateLimiter) Acquire(ctx context.Context, cfg RateLimitConfig) (Slot, error) {
	if !r.client.Enabled() {
		// Redis 비활성화 시 전부 허용
		return Slot{Allowed: true, Remaining: cfg.Limit}, nil
	}

	now := time.Now().UnixMilli()
	windowStart := now - cfg.Window.Milliseconds()
	member := uuid.NewString()

	result, err := slidingWindow.Run(ctx, r.client.Redis(), []string{r.key(cfg)},
		now,
		windowStart,
		cfg.Limit,
		cfg.Window.Milliseconds(),
		member,
	).Int64Slice()
	if err != nil {
		return Slot{}, fmt.Errorf("rate limit script failed: %w", err)
	}

	slot := Slot{Allowed: result[0] == 1, Remaining: int(result[1])}
	if slot.Allowed {
		slot.Member = member
	}
	return slot, nil
}

// Release removes a recorded request from the window, giving its slot back
func (r *RateLimiter) Release(ctx context.Context, cfg RateLimitConfig, member string) error {
	if !r.client.Enabled() || member == "" {
		return nil
	}
	if err := r.client.Redis().ZRem(ctx, r.key(cfg), member).Err(); err != nil {
		return fmt.Errorf("release rate limit slot: %w", err)
	}
	return nil
}

func (r *RateLimiter) key(cfg RateLimitConfig) string {
	return fmt.Sprintf("%s:ratelimit:%s", r.prefix, cfg.Key)
}
