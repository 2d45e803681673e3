package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/AnshRaj112/journal-backend/pkg/clientip"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRedisRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	h := NewRedisRateLimiter(rdb, 2, time.Minute, clientip.RealClientIP, zap.NewNop().Sugar()).Middleware(okHandler)

	rr := serve(h, http.MethodGet, "/api/entries")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "2", rr.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", rr.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, time.Minute, mr.TTL(RateLimitKeyPrefix+"203.0.113.7"))

	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/api/entries").Code)

	rr = serve(h, http.MethodGet, "/api/entries")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "60", rr.Header().Get("Retry-After"))

	other := serve(h, http.MethodGet, "/api/entries", func(r *http.Request) { r.RemoteAddr = "198.51.100.2:1" })
	assert.Equal(t, http.StatusOK, other.Code)

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/api/entries").Code)
}

func TestRedisRateLimiter_KeysOnForwardedClient(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	h := NewRedisRateLimiter(rdb, 1, time.Minute, clientip.For(true), zap.NewNop().Sugar()).Middleware(okHandler)
	rr := serve(h, http.MethodGet, "/api/entries", func(r *http.Request) { r.Header.Set("X-Real-IP", "192.0.2.9") })

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, mr.Exists(RateLimitKeyPrefix+"192.0.2.9"))
	assert.False(t, mr.Exists(RateLimitKeyPrefix+"203.0.113.7"))
}

func TestRedisRateLimiterFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	mr.Close()

	h := NewRedisRateLimiter(rdb, 1, time.Minute, nil, zap.NewNop().Sugar()).Middleware(okHandler)
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/api/entries").Code)
	}
}
