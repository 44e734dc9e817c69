package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/srvalle/contract-pro/pkg/logger"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	limit    rate.Limit
	burst    int
	window   time.Duration
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows n requests per window for each client, refilled
// continuously
func NewRateLimiter(n int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*clientLimiter),
		limit:    rate.Every(window / time.Duration(n)),
		burst:    n,
		window:   window,
	}
}

// Allow reports whether key may make a request now
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	cl, ok := l.limiters[key]
	if !ok {
		l.prune(now)
		cl = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

// prune drops buckets idle for longer than a window; a full bucket holds
// no state worth keeping.
func (l *RateLimiter) prune(now time.Time) {
	for key, cl := range l.limiters {
		if now.Sub(cl.lastSeen) > l.window {
			delete(l.limiters, key)
		}
	}
}

// RetryAfter is the time until a drained bucket holds one request again
func (l *RateLimiter) RetryAfter() time.Duration {
	return l.window / time.Duration(l.burst)
}

// RateLimit middleware limits requests per IP. Rejected requests carry a
// Retry-After header in whole seconds.
func RateLimit(n int, window time.Duration) gin.HandlerFunc {
	limiter := NewRateLimiter(n, window)
	retryAfter := strconv.Itoa(int(math.Ceil(limiter.RetryAfter().Seconds())))

	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		if !limiter.Allow(clientIP) {
			logger.Warn(c.Request.Context(), "rate limit exceeded", "client_ip", clientIP, "route", c.FullPath())

			c.Header("Retry-After", retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			return
		}

		c.Next()
	}
}
