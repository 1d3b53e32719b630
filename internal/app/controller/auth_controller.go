package controller

import (
	"net/http"

	"github.com/chengtian/temple-backend/internal/app/service"
	apperrors "github.com/chengtian/temple-backend/internal/errors"
	"github.com/chengtian/temple-backend/internal/middleware"
	"github.com/chengtian/temple-backend/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthController handles the admin session.
type AuthController struct {
	authService service.AuthService
	sessions    *session.Manager
}

func NewAuthController(authService service.AuthService, sessions *session.Manager) *AuthController {
	return &AuthController{
		authService: authService,
		sessions:    sessions,
	}
}

type LoginRequest struct {
	Password string `json:"password"`
}

// Login checks the admin password and rotates the session id
// POST /api/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := ctrl.authService.Login(req.Password); err != nil {
		respondError(c, err, "Admin login")
		return
	}

	current, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	next, err := ctrl.sessions.Rotate(ctx, current)
	if err != nil {
		log.Error("Failed to rotate session", err)
		apperrors.InternalError(c, "")
		return
	}

	csrfToken := uuid.NewString()
	if err := next.Set(ctx, session.KeyAdmin, "1"); err != nil {
		log.Error("Failed to store admin flag", err)
		apperrors.InternalError(c, "")
		return
	}
	if err := next.Set(ctx, session.KeyCSRFToken, csrfToken); err != nil {
		log.Error("Failed to store csrf token", err)
		apperrors.InternalError(c, "")
		return
	}
	if err := ctrl.sessions.WriteCookie(c.Writer, next); err != nil {
		log.Error("Failed to write session cookie", err)
		apperrors.InternalError(c, "")
		return
	}
	middleware.SetSession(c, next)

	log.Info("Admin logged in")
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"csrfToken": csrfToken,
	})
}

// Logout destroys the whole session
// POST /api/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	sess, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	if err := sess.Destroy(c.Request.Context()); err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to destroy session", err)
	}
	ctrl.sessions.ClearCookie(c.Writer)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SessionCheck reports the admin flag and hands the console its CSRF token
// GET /api/session_check
func (ctrl *AuthController) SessionCheck(c *gin.Context) {
	if !middleware.IsAdmin(c) {
		c.JSON(http.StatusOK, gin.H{"logged_in": false})
		return
	}

	sess, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	token, found, err := sess.Get(ctx, session.KeyCSRFToken)
	if err != nil {
		respondError(c, err, "Read csrf token")
		return
	}
	if !found {
		token = uuid.NewString()
		if err := sess.Set(ctx, session.KeyCSRFToken, token); err != nil {
			respondError(c, err, "Store csrf token")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"logged_in": true,
		"csrfToken": token,
	})
}
