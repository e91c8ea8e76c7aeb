package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// resetInterval bounds per-IP limiter map growth; the map is dropped
// wholesale once the interval elapses, on the next request.
const resetInterval = 5 * time.Minute

// RateLimiterConfig holds configuration for inbound request rate limiting.
type RateLimiterConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

// DefaultRateLimiterConfig returns the default inbound limits.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerSecond: 10,
		BurstSize:         20,
	}
}

// IPRateLimiter tracks rate limiters per client IP. Stale entries are
// cleared on access rather than by a background goroutine, so limiters
// need no lifecycle management.
type IPRateLimiter struct {
	limiters  map[string]*rate.Limiter
	mu        sync.Mutex
	config    RateLimiterConfig
	lastReset time.Time
}

// NewIPRateLimiter creates a new IP-based rate limiter.
func NewIPRateLimiter(config RateLimiterConfig) *IPRateLimiter {
	return &IPRateLimiter{
		limiters:  make(map[string]*rate.Limiter),
		config:    config,
		lastReset: time.Now(),
	}
}

// GetLimiter returns the rate limiter for the given IP, creating one on
// first sight. The whole map is discarded once resetInterval has passed.
func (rl *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if time.Since(rl.lastReset) >= resetInterval {
		rl.limiters = make(map[string]*rate.Limiter)
		rl.lastReset = time.Now()
	}

	limiter, exists := rl.limiters[ip]
	if !exists {
		limiter = rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.BurstSize)
		rl.limiters[ip] = limiter
	}
	return limiter
}

// RateLimitMiddleware applies per-IP rate limiting to inbound requests.
func RateLimitMiddleware(config ...RateLimiterConfig) gin.HandlerFunc {
	cfg := DefaultRateLimiterConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	limiter := NewIPRateLimiter(cfg)

	return func(c *gin.Context) {
		if !limiter.GetLimiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
