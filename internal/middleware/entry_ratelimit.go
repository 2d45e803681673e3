package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/AnshRaj112/journal-backend/pkg/clientip"
	"golang.org/x/time/rate"
)

// Entry write limits: identified callers 30/min burst 20, anonymous callers
// (placeholder-owned creates) 10/min burst 5.
const (
	entryWriteAuthRPS    = 0.5
	entryWriteAuthBurst  = 20
	entryWriteAnonRPS    = 0.17
	entryWriteAnonBurst  = 5
	entryWriteRetryAfter = 6 * time.Second
)

// EntryWriteLimiter limits mutating entry requests. Identified callers are
// keyed by owner id, anonymous ones by IP. Reads pass straight through.
type EntryWriteLimiter struct {
	ip   clientip.Resolver
	auth *KeyedLimiter
	anon *KeyedLimiter
}

func NewEntryWriteLimiter(ip clientip.Resolver) *EntryWriteLimiter {
	return &EntryWriteLimiter{
		ip:   resolverOrDefault(ip),
		auth: NewKeyedLimiter(rate.Limit(entryWriteAuthRPS), entryWriteAuthBurst, limiterTTL),
		anon: NewKeyedLimiter(rate.Limit(entryWriteAnonRPS), entryWriteAnonBurst, limiterTTL),
	}
}

// Run sweeps idle buckets until ctx is done.
func (l *EntryWriteLimiter) Run(ctx context.Context) {
	go l.auth.Run(ctx, limiterCleanupInterval)
	l.anon.Run(ctx, limiterCleanupInterval)
}

// Middleware must run after Identity.
func (l *EntryWriteLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		limiter, key := l.anon, "anon:"+l.ip(r)
		if owner := OwnerID(r.Context()); owner != "" {
			limiter, key = l.auth, "owner:"+owner
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.Burst()))
		if !limiter.Allow(key) {
			w.Header().Set("X-RateLimit-Remaining", "0")
			tooManyRequests(w, "Too many journal writes. Please slow down.", entryWriteRetryAfter)
			return
		}
		next.ServeHTTP(w, r)
	})
}
