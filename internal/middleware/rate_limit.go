package middleware

import (
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/edulearn/backend/internal/pkg/apperrors"
	"github.com/edulearn/backend/internal/pkg/logger"
)

// maxTrackedClients bounds the limiter map; it is reset when exceeded
const maxTrackedClients = 10000

// limiterCache is a rate limiter cache with double-check locking.
type limiterCache struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
}

func newLimiterCache(rps float64, burst int) *limiterCache {
	return &limiterCache{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

// get returns the rate limiter for a specific key, creating one if needed.
func (lc *limiterCache) get(key string) *rate.Limiter {
	lc.mu.RLock()
	limiter, exists := lc.limiters[key]
	lc.mu.RUnlock()

	if exists {
		return limiter
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()

	if limiter, exists = lc.limiters[key]; exists {
		return limiter
	}
	if len(lc.limiters) >= maxTrackedClients {
		lc.limiters = make(map[string]*rate.Limiter)
	}

	limiter = rate.NewLimiter(lc.rate, lc.burst)
	lc.limiters[key] = limiter
	return limiter
}

// LoginRateLimiter throttles credential checks per client IP
type LoginRateLimiter struct {
	cache *limiterCache
}

// NewLoginRateLimiter allows perMinute attempts per IP with the given burst.
// perMinute <= 0 disables throttling.
func NewLoginRateLimiter(perMinute float64, burst int) *LoginRateLimiter {
	if perMinute <= 0 {
		return &LoginRateLimiter{}
	}
	if burst < 1 {
		burst = 1
	}
	return &LoginRateLimiter{cache: newLimiterCache(perMinute/60, burst)}
}

// Middleware rejects requests over the limit with 429
func (rl *LoginRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.cache == nil {
			c.Next()
			return
		}
		ip := c.ClientIP()
		if !rl.cache.get(ip).Allow() {
			logger.Warn().Str("ip", ip).Str("path", c.Request.URL.Path).Msg("Login rate limit exceeded")
			HandleAPIError(c, apperrors.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
