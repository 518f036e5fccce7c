package api

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/squadpick/internal/api/handlers"
	"github.com/wonny/squadpick/internal/metrics"
	"github.com/wonny/squadpick/pkg/logger"
	"github.com/wonny/squadpick/pkg/redis"
)

// Limiter decides whether one more request from key fits the budget.
// When allowed, refund gives the slot back; it is never nil.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, refund func(), err error)
}

func noRefund() {}

// redisLimiter shares a sliding window across API instances
type redisLimiter struct {
	rl  *redis.RateLimiter
	cfg redis.RateLimitConfig
}

// NewRedisLimiter enforces cfg through the redis sliding window
func NewRedisLimiter(rl *redis.RateLimiter, cfg redis.RateLimitConfig) Limiter {
	return &redisLimiter{rl: rl, cfg: cfg}
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (bool, func(), error) {
	cfg := l.cfg.For(key)
	slot, err := l.rl.Acquire(ctx, cfg)
	if err != nil || !slot.Allowed {
		return false, noRefund, err
	}
	return true, func() {
		// 응답 후 호출됨: 요청 취소와 무관하게 반환
		_ = l.rl.Release(context.WithoutCancel(ctx), cfg, slot.Member)
	}, nil
}

// localLimiter keeps one token bucket per key in process memory
type localLimiter struct {
	mu      sync.Mutex
	every   rate.Limit
	burst   int
	idle    time.Duration
	buckets map[string]*bucket
	swept   time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLocalLimiter allows limit requests per window per key, refilling evenly
func NewLocalLimiter(limit int, window time.Duration) Limiter {
	if limit <= 0 {
		limit = 1
	}
	return &localLimiter{
		every:   rate.Every(window / time.Duration(limit)),
		burst:   limit,
		idle:    window,
		buckets: make(map[string]*bucket),
		swept:   time.Now(),
	}
}

func (l *localLimiter) Allow(_ context.Context, key string) (bool, func(), error) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.swept) > l.idle {
		// a bucket idle for a whole window is full again
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) > l.idle {
				delete(l.buckets, k)
			}
		}
		l.swept = now
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.every, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	res := b.limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, noRefund, nil
	}
	if res.DelayFrom(now) > 0 {
		res.CancelAt(now)
		return false, noRefund, nil
	}
	// refund must cancel at the reservation time
	return true, func() { res.CancelAt(now) }, nil
}

// clientIP returns the remote host without the port
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// rateLimitMiddleware answers 429 once the caller's IP exhausts the bucket.
// With skipSuccessful set, requests answered below 400 give their slot back,
// so only failed attempts count. Limiter failures let the request through.
func rateLimitMiddleware(name string, limiter Limiter, message string, skipSuccessful bool, rec *metrics.Recorder, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, refund, err := limiter.Allow(r.Context(), clientIP(r))
			if err != nil {
				logger.FromContext(r.Context(), log).WithError(err).Warn("Rate limiter unavailable")
			} else if !allowed {
				rec.RateLimited(name)
				handlers.RespondMessage(w, http.StatusTooManyRequests, message)
				return
			}

			if !skipSuccessful || err != nil {
				next.ServeHTTP(w, r)
				return
			}

			sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sr, r)
			if sr.status < http.StatusBadRequest {
				refund()
			}
		})
	}
}
