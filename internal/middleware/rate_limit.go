// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package middleware

import (
	"context"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/linuxfoundation/lfx-v2-newsletter-service/pkg/constants"
)

const (
	limiterIdleTTL         = 10 * time.Minute
	limiterCleanupInterval = time.Minute
)

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter keeps one token bucket per client address
type RateLimiter struct {
	limit       rate.Limit
	burst       int
	limiters    map[string]*clientLimiter
	lastCleanup time.Time
	now         func() time.Time
	mu          sync.Mutex
}

// NewRateLimiter creates a limiter allowing rps requests per second with the given burst per client.
// A non positive rps disables limiting.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limit:    rate.Limit(rps),
		burst:    burst,
		limiters: make(map[string]*clientLimiter),
		now:      time.Now,
	}
}

// Enabled reports whether requests are limited at all
func (l *RateLimiter) Enabled() bool {
	return l != nil && l.limit > 0
}

// Allow consumes one token for key and reports whether the request may proceed.
// The second value is how long the caller should wait before retrying.
func (l *RateLimiter) Allow(key string) (bool, time.Duration) {
	if !l.Enabled() {
		return true, 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evictIdleLocked(now)

	entry, ok := l.limiters[key]
	if !ok {
		entry = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = entry
	}
	entry.lastAccess = now

	reservation := entry.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, time.Second
	}
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// evictIdleLocked drops limiters nobody used recently. l.mu must be held.
func (l *RateLimiter) evictIdleLocked(now time.Time) {
	if now.Sub(l.lastCleanup) < limiterCleanupInterval {
		return
	}
	l.lastCleanup = now

	for key, entry := range l.limiters {
		if now.Sub(entry.lastAccess) > limiterIdleTTL {
			delete(l.limiters, key)
		}
	}
}

// size returns the number of tracked clients
func (l *RateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// RateLimitMiddleware rejects callers that exceed their token bucket with 429
func RateLimitMiddleware(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			ctx := context.WithValue(r.Context(), constants.ClientIPContextKey, ip)
			r = r.WithContext(ctx)

			if allowed, wait := limiter.Allow(ip); !allowed {
				slog.WarnContext(ctx, "rate limit exceeded",
					"method", r.Method,
					"path", r.URL.Path,
				)
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				writeJSONError(w, http.StatusTooManyRequests, "too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the host part of the connection's remote address
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
