package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"rental-booking/internal/handler/httperr"
	"rental-booking/internal/pkg/clock"
	"rental-booking/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const defaultLimiterIdleTTL = 10 * time.Minute

var errRateLimited = errors.New("rate limit exceeded")

type callerBucket struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// RateLimiter keeps one token bucket per caller. Authenticated requests are
// keyed by user id, anonymous ones by client IP. Buckets idle for longer than
// IdleTTL are dropped by Sweep.
type RateLimiter struct {
	buckets sync.Map // map[string]*callerBucket
	cfg     config.RateLimitConfig
	clock   clock.Clock
	idleTTL time.Duration
}

func NewRateLimiter(cfg config.RateLimitConfig, clk clock.Clock) *RateLimiter {
	idle := cfg.IdleTTL
	if idle <= 0 {
		idle = defaultLimiterIdleTTL
	}
	return &RateLimiter{cfg: cfg, clock: clk, idleTTL: idle}
}

func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.bucketFor(callerKey(c)).Allow() {
			c.Header("Retry-After", "1")
			httperr.AbortWithCode(c, http.StatusTooManyRequests, httperr.CodeRateLimited, errRateLimited, "Too many requests", nil)
			return
		}
		c.Next()
	}
}

func (l *RateLimiter) bucketFor(key string) *rate.Limiter {
	now := l.clock.Now().UnixNano()
	if v, ok := l.buckets.Load(key); ok {
		b := v.(*callerBucket)
		b.lastSeen.Store(now)
		return b.limiter
	}

	burst := l.cfg.Burst
	if burst <= 0 {
		burst = 5
	}

	b := &callerBucket{limiter: rate.NewLimiter(rate.Limit(l.cfg.RPS), burst)}
	b.lastSeen.Store(now)
	actual, _ := l.buckets.LoadOrStore(key, b)
	stored := actual.(*callerBucket)
	stored.lastSeen.Store(now)
	return stored.limiter
}

// Sweep drops idle buckets and returns how many it removed. A dropped
// caller starts again with a full burst.
func (l *RateLimiter) Sweep() int {
	cutoff := l.clock.Now().Add(-l.idleTTL).UnixNano()
	removed := 0
	l.buckets.Range(func(key, v any) bool {
		if v.(*callerBucket).lastSeen.Load() < cutoff {
			l.buckets.CompareAndDelete(key, v)
			removed++
		}
		return true
	})
	return removed
}

// Run sweeps every half IdleTTL until ctx is done.
func (l *RateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(l.idleTTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := l.Sweep(); n > 0 {
				slog.Debug("evicted idle rate limiters", "count", n)
			}
		}
	}
}

func callerKey(c *gin.Context) string {
	if id, ok := GetUserID(c); ok {
		return "user:" + id.String()
	}
	return "ip:" + c.ClientIP()
}
