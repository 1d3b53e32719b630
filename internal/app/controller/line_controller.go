package controller

import (
	"net/http"
	"net/url"

	"github.com/chengtian/temple-backend/internal/app/service"
	apperrors "github.com/chengtian/temple-backend/internal/errors"
	"github.com/chengtian/temple-backend/internal/middleware"
	"github.com/chengtian/temple-backend/internal/session"
	"github.com/gin-gonic/gin"
)

// LineController handles LINE Login for visitors leaving feedback.
type LineController struct {
	lineAuth      service.LineAuthService
	sessions      *session.Manager
	loginRedirect string
}

func NewLineController(lineAuth service.LineAuthService, sessions *session.Manager, loginRedirect string) *LineController {
	return &LineController{
		lineAuth:      lineAuth,
		sessions:      sessions,
		loginRedirect: loginRedirect,
	}
}

// Login redirects to the LINE consent screen
// GET /api/line/login
func (ctrl *LineController) Login(c *gin.Context) {
	sess, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	authURL, err := ctrl.lineAuth.BeginLogin(c.Request.Context(), sess.ID())
	if err != nil {
		respondError(c, err, "Begin LINE login")
		return
	}
	c.Redirect(http.StatusFound, authURL)
}

// Callback completes the authorization code flow
// GET /api/line/callback?code=&state=
func (ctrl *LineController) Callback(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if reason := c.Query("error"); reason != "" {
		log.Warn("LINE login cancelled", map[string]interface{}{
			"error": reason,
		})
		c.Redirect(http.StatusFound, ctrl.redirectWith("login", "cancelled"))
		return
	}

	current, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	user, err := ctrl.lineAuth.CompleteLogin(ctx, current.ID(), c.Query("state"), c.Query("code"))
	if err != nil {
		respondError(c, err, "Complete LINE login")
		return
	}

	next, err := ctrl.sessions.Rotate(ctx, current)
	if err != nil {
		log.Error("Failed to rotate session", err)
		apperrors.InternalError(c, "")
		return
	}
	if err := next.Set(ctx, session.KeyLineUserID, user.LineID); err != nil {
		log.Error("Failed to store LINE user", err)
		apperrors.InternalError(c, "")
		return
	}
	if err := next.Set(ctx, session.KeyLineDisplayName, user.DisplayName); err != nil {
		log.Error("Failed to store LINE display name", err)
		apperrors.InternalError(c, "")
		return
	}
	if err := ctrl.sessions.WriteCookie(c.Writer, next); err != nil {
		log.Error("Failed to write session cookie", err)
		apperrors.InternalError(c, "")
		return
	}
	middleware.SetSession(c, next)

	c.Redirect(http.StatusFound, ctrl.loginRedirect)
}

func (ctrl *LineController) redirectWith(key, value string) string {
	target, err := url.Parse(ctrl.loginRedirect)
	if err != nil {
		return ctrl.loginRedirect
	}
	q := target.Query()
	q.Set(key, value)
	target.RawQuery = q.Encode()
	return target.String()
}

// Me returns the LINE identity held by the session
// GET /api/user/me
func (ctrl *LineController) Me(c *gin.Context) {
	sess, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	lineID, _ := middleware.GetLineUserID(c)
	displayName, _, err := sess.Get(c.Request.Context(), session.KeyLineDisplayName)
	if err != nil {
		respondError(c, err, "Read LINE profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"lineId":      lineID,
		"displayName": displayName,
	})
}

// Logout forgets the LINE identity but keeps the rest of the session
// POST /api/user/logout
func (ctrl *LineController) Logout(c *gin.Context) {
	sess, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	if err := sess.Delete(c.Request.Context(), session.KeyLineUserID, session.KeyLineDisplayName); err != nil {
		respondError(c, err, "LINE logout")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
