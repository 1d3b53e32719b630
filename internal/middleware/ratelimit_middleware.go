package middleware

import (
	"github.com/chengtian/temple-backend/internal/errors"
	"github.com/chengtian/temple-backend/internal/ratelimit"
	"github.com/gin-gonic/gin"
)

// RateLimit counts requests per client address. Limiter failures let the
// request through.
func RateLimit(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			GetLoggerFromContext(c).Error("Rate limiter failed", err)
			c.Next()
			return
		}
		if !allowed {
			GetLoggerFromContext(c).Warn("Rate limit exceeded")
			errors.TooManyRequests(c)
			return
		}
		c.Next()
	}
}
