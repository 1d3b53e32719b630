package middleware

import (
	"github.com/chengtian/temple-backend/internal/app/model"
	"github.com/chengtian/temple-backend/internal/errors"
	"github.com/gin-gonic/gin"
)

// Unavailable answers every request with a 500 naming the missing subsystem.
// The router installs it in front of routes whose dependencies are not
// configured.
func Unavailable(reason string) gin.HandlerFunc {
	return func(c *gin.Context) {
		GetLoggerFromContext(c).Warn("Subsystem unavailable", map[string]interface{}{
			"reason": reason,
		})
		errors.Unavailable(c, reason)
	}
}

// ValidateID rejects path parameters that are not generated identifiers.
func ValidateID(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !model.IsValidID(c.Param(param)) {
			errors.BadRequest(c, errors.MsgInvalidID)
			return
		}
		c.Next()
	}
}

// CORSMiddleware allows credentialed requests from the configured origins.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed && origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Vary", "Origin")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRFToken, X-Request-ID, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
