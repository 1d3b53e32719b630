package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/chengtian/temple-backend/internal/errors"
	"github.com/chengtian/temple-backend/internal/session"
	"github.com/gin-gonic/gin"
)

const (
	sessionContextKey  = "session"
	lineUserContextKey = "line_user_id"

	// CSRFHeader carries the token issued by /api/login and /api/session_check.
	CSRFHeader = "X-CSRFToken"
)

// SessionMiddleware resolves the visitor's session and makes it available to
// handlers. A cookie is written only when a new session id was minted.
func SessionMiddleware(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := manager.Resolve(c.Request)
		if s.IsNew() {
			if err := manager.WriteCookie(c.Writer, s); err != nil {
				GetLoggerFromContext(c).Error("Failed to write session cookie", err)
			}
		}
		c.Set(sessionContextKey, s)
		c.Next()
	}
}

// GetSession returns the session resolved by SessionMiddleware.
func GetSession(c *gin.Context) *session.Session {
	if v, exists := c.Get(sessionContextKey); exists {
		if s, ok := v.(*session.Session); ok {
			return s
		}
	}
	return nil
}

// SetSession replaces the request's session, used after rotation.
func SetSession(c *gin.Context, s *session.Session) {
	c.Set(sessionContextKey, s)
}

// IsAdmin reports whether the request's session carries the admin flag.
func IsAdmin(c *gin.Context) bool {
	s := GetSession(c)
	if s == nil {
		return false
	}
	v, ok, err := s.Get(c.Request.Context(), session.KeyAdmin)
	if err != nil {
		GetLoggerFromContext(c).Error("Failed to read session", err)
		return false
	}
	return ok && v == "1"
}

// RequireAdmin rejects requests whose session lacks the admin flag.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			GetLoggerFromContext(c).Warn("Admin access denied")
			errors.Forbidden(c, "")
			return
		}
		c.Next()
	}
}

// RequireCSRF checks the CSRF header on state-changing methods.
func RequireCSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		s := GetSession(c)
		header := c.GetHeader(CSRFHeader)
		if s == nil || header == "" {
			errors.Forbidden(c, errors.MsgCSRFInvalid)
			return
		}
		token, ok, err := s.Get(c.Request.Context(), session.KeyCSRFToken)
		if err != nil || !ok || subtle.ConstantTimeCompare([]byte(token), []byte(header)) != 1 {
			GetLoggerFromContext(c).Warn("CSRF token mismatch")
			errors.Forbidden(c, errors.MsgCSRFInvalid)
			return
		}
		c.Next()
	}
}

// RequireLineUser rejects requests without a LINE login in the session and
// exposes the LINE user id to handlers.
func RequireLineUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := GetSession(c)
		if s == nil {
			errors.Unauthorized(c, errors.MsgLineLoginNeeded)
			return
		}
		userID, ok, err := s.Get(c.Request.Context(), session.KeyLineUserID)
		if err != nil {
			GetLoggerFromContext(c).Error("Failed to read session", err)
			errors.InternalError(c, "")
			return
		}
		if !ok || userID == "" {
			errors.Unauthorized(c, errors.MsgLineLoginNeeded)
			return
		}
		c.Set(lineUserContextKey, userID)
		c.Next()
	}
}

// GetLineUserID returns the LINE user id set by RequireLineUser.
func GetLineUserID(c *gin.Context) (string, bool) {
	id := c.GetString(lineUserContextKey)
	return id, id != ""
}
