package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 표준 에러 응답 구조
type ErrorResponse struct {
	Error string `json:"error"`
}

// RespondWithError writes {"error": message} and aborts the chain.
func RespondWithError(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{Error: message})
}

func orDefault(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}

func BadRequest(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, orDefault(message, MsgInvalidInput))
}

func Unauthorized(c *gin.Context, message string) {
	RespondWithError(c, http.StatusUnauthorized, orDefault(message, MsgUnauthorized))
}

func Forbidden(c *gin.Context, message string) {
	RespondWithError(c, http.StatusForbidden, orDefault(message, MsgForbidden))
}

func NotFound(c *gin.Context, message string) {
	RespondWithError(c, http.StatusNotFound, orDefault(message, MsgNotFound))
}

func Conflict(c *gin.Context, message string) {
	RespondWithError(c, http.StatusConflict, orDefault(message, MsgConflict))
}

func TooManyRequests(c *gin.Context) {
	RespondWithError(c, http.StatusTooManyRequests, MsgTooManyRequests)
}

func InternalError(c *gin.Context, message string) {
	RespondWithError(c, http.StatusInternalServerError, orDefault(message, MsgInternal))
}

// Unavailable reports a subsystem that was disabled by missing configuration.
func Unavailable(c *gin.Context, reason string) {
	RespondWithError(c, http.StatusInternalServerError, reason)
}
