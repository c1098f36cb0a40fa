package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/vhvplatform/go-property-automation/internal/metrics"
	"golang.org/x/time/rate"
)

// OrgRateLimiter manages rate limiters per organization
type OrgRateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
}

// NewOrgRateLimiter creates a new per-organization rate limiter
func NewOrgRateLimiter(rps float64, burst int) *OrgRateLimiter {
	return &OrgRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

// GetLimiter returns the rate limiter for a specific organization
func (rl *OrgRateLimiter) GetLimiter(orgID string) *rate.Limiter {
	rl.mu.RLock()
	limiter, exists := rl.limiters[orgID]
	rl.mu.RUnlock()

	if !exists {
		rl.mu.Lock()
		// Double-check after acquiring write lock
		limiter, exists = rl.limiters[orgID]
		if !exists {
			limiter = rate.NewLimiter(rl.rate, rl.burst)
			rl.limiters[orgID] = limiter
		}
		rl.mu.Unlock()
	}

	return limiter
}

// RateLimitMiddleware creates a rate limiting middleware. It must run after
// TenancyMiddleware so the organization ID is already in context.
func RateLimitMiddleware(rl *OrgRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID := GetOrgID(c)
		if orgID == "" {
			c.Next()
			return
		}

		limiter := rl.GetLimiter(orgID)
		if !limiter.Allow() {
			metrics.RateLimitExceeded.WithLabelValues(orgID).Inc()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
