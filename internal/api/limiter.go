package api

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/nekogravitycat/shareit-backend/internal/config"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
)

const defaultLimiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanoseconds
}

// rateLimiter keeps one token bucket per client IP. Buckets idle for longer
// than the configured TTL are swept while serving requests.
type rateLimiter struct {
	limiters  sync.Map
	cfg       config.RateLimitConfig
	clock     clock.Clock
	idleTTL   time.Duration
	lastSweep atomic.Int64
}

func newRateLimiter(cfg config.RateLimitConfig, clk clock.Clock) *rateLimiter {
	idle := cfg.IdleTTL
	if idle <= 0 {
		idle = defaultLimiterIdleTTL
	}
	l := &rateLimiter{cfg: cfg, clock: clk, idleTTL: idle}
	l.lastSweep.Store(clk.Now().UnixNano())
	return l
}

func (l *rateLimiter) getLimiter(key string, now time.Time) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		if cl, ok := v.(*clientLimiter); ok {
			cl.lastSeen.Store(now.UnixNano())
			return cl.limiter
		}
	}

	burst := l.cfg.Burst
	if burst <= 0 {
		burst = 5
	}

	cl := &clientLimiter{limiter: rate.NewLimiter(rate.Limit(l.cfg.RPS), burst)}
	cl.lastSeen.Store(now.UnixNano())
	actual, loaded := l.limiters.LoadOrStore(key, cl)
	if loaded {
		if actualCl, ok := actual.(*clientLimiter); ok {
			actualCl.lastSeen.Store(now.UnixNano())
			return actualCl.limiter
		}
	}
	return cl.limiter
}

// sweep drops idle buckets at most once per half TTL; only the caller that
// wins the swap walks the map.
func (l *rateLimiter) sweep(now time.Time) {
	last := l.lastSweep.Load()
	if now.UnixNano()-last < int64(l.idleTTL/2) {
		return
	}
	if !l.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}

	cutoff := now.Add(-l.idleTTL).UnixNano()
	l.limiters.Range(func(key, v any) bool {
		if cl, ok := v.(*clientLimiter); !ok || cl.lastSeen.Load() < cutoff {
			l.limiters.Delete(key)
		}
		return true
	})
}

func (l *rateLimiter) size() int {
	n := 0
	l.limiters.Range(func(any, any) bool {
		n++
		return true
	})
	return n
}

// Middleware rejects requests beyond the client's budget with 429.
// A non-positive RPS disables limiting.
func (l *rateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.cfg.RPS <= 0 {
			c.Next()
			return
		}
		now := l.clock.Now()
		l.sweep(now)
		if !l.getLimiter(c.ClientIP(), now).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
