package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/AnshRaj112/journal-backend/pkg/clientip"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// RateLimitKeyPrefix is the Redis key prefix for rate limiting
	RateLimitKeyPrefix = "ratelimit:"

	DefaultRateLimitRequests = 100
	DefaultRateLimitWindow   = time.Minute
)

// RedisRateLimiter is a fixed-window per-IP limit shared by every instance
// that talks to the same Redis. Requests are let through when Redis fails.
type RedisRateLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
	ip     clientip.Resolver
	logger *zap.SugaredLogger
}

func NewRedisRateLimiter(rdb *redis.Client, limit int, window time.Duration, ip clientip.Resolver, logger *zap.SugaredLogger) *RedisRateLimiter {
	if limit <= 0 {
		limit = DefaultRateLimitRequests
	}
	if window <= 0 {
		window = DefaultRateLimitWindow
	}
	return &RedisRateLimiter{rdb: rdb, limit: limit, window: window, ip: resolverOrDefault(ip), logger: logger}
}

func (l *RedisRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		key := RateLimitKeyPrefix + l.ip(r)

		count, err := l.rdb.Incr(ctx, key).Result()
		if err == nil && count == 1 {
			// first request opens the window
			err = l.rdb.Expire(ctx, key, l.window).Err()
		}
		if err != nil {
			l.logger.Warnw("rate limit unavailable, allowing request", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.limit))
		if count > int64(l.limit) {
			w.Header().Set("X-RateLimit-Remaining", "0")
			retry := l.window
			if ttl, err := l.rdb.TTL(ctx, key).Result(); err == nil && ttl > 0 {
				retry = ttl
			}
			tooManyRequests(w, "Rate limit exceeded. Please try again later.", retry)
			return
		}
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(int64(l.limit)-count, 10))
		next.ServeHTTP(w, r)
	})
}
