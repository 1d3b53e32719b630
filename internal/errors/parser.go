package errors

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo 에러 정보 구조
type ErrorInfo struct {
	Status  int
	Message string
}

// ParseError maps a storage error to a status and a user-facing message.
// Driver details are never exposed.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Status: http.StatusInternalServerError, Message: MsgInternal}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Status: http.StatusNotFound, Message: getNotFoundMessage(context)}
	}

	errLower := strings.ToLower(err.Error())

	// PostgreSQL 23505 / SQLite UNIQUE
	if strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint") {
		return ErrorInfo{Status: http.StatusConflict, Message: MsgAlreadyExists}
	}

	if strings.Contains(errLower, "null value") || strings.Contains(errLower, "not null constraint") {
		return ErrorInfo{Status: http.StatusBadRequest, Message: "缺少必填欄位"}
	}

	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{Status: http.StatusInternalServerError, Message: "外部服務連線失敗，請稍後再試"}
	}

	return ErrorInfo{Status: http.StatusInternalServerError, Message: MsgInternal}
}

func getNotFoundMessage(context string) string {
	switch {
	case strings.Contains(context, "order"):
		return "找不到訂單"
	case strings.Contains(context, "feedback"):
		return "找不到回饋資料"
	case strings.Contains(context, "product"):
		return "找不到商品"
	case strings.Contains(context, "announcement"):
		return "找不到公告"
	case strings.Contains(context, "faq"):
		return "找不到常見問題"
	case strings.Contains(context, "link"):
		return "找不到連結"
	}
	return MsgNotFound
}

// ParseAndRespond 에러를 파싱하여 응답 반환
func ParseAndRespond(c interface {
	AbortWithStatusJSON(int, interface{})
}, err error, context string) {
	info := ParseError(err, context)
	c.AbortWithStatusJSON(info.Status, ErrorResponse{Error: info.Message})
}
