package controller

import (
	"errors"
	"net/http"

	"github.com/chengtian/temple-backend/internal/app/service"
	apperrors "github.com/chengtian/temple-backend/internal/errors"
	"github.com/chengtian/temple-backend/internal/middleware"
	"github.com/chengtian/temple-backend/internal/session"
	"github.com/gin-gonic/gin"
)

// 검증 실패 시 응답 메시지
const (
	msgCaptchaWrong       = "驗證碼錯誤"
	msgConsentRequired    = "請勾選同意個人資料使用"
	msgTrackingRequired   = "請輸入物流單號"
	msgEmailRequired      = "請輸入收件信箱"
	msgOrderInvalid       = "訂單資料不完整"
	msgFeedbackInvalid    = "請填寫完整的回饋內容"
	msgShipmentInvalid    = "請填寫姓名與衣物資料"
	msgProductInvalid     = "請填寫商品名稱與正確價格"
	msgContentInvalid     = "請填寫完整內容"
	msgFAQCategoryInvalid = "分類只能輸入中文"
	msgFundInvalid        = "金額不可為負數"
	msgWrongPassword      = "密碼錯誤"
	msgLineStateInvalid   = "登入狀態已失效，請重新登入"
	msgUploadTypeInvalid  = "只允許上傳圖片 (JPEG, PNG, GIF, WEBP)"
)

// serviceErrors maps domain errors to a status and message. Anything missing
// falls through to the storage error parser.
var serviceErrors = []struct {
	err     error
	status  int
	message string
}{
	{service.ErrOrderNotFound, http.StatusNotFound, "找不到訂單"},
	{service.ErrFeedbackNotFound, http.StatusNotFound, "找不到回饋資料"},
	{service.ErrProductNotFound, http.StatusNotFound, "找不到商品"},
	{service.ErrAnnouncementNotFound, http.StatusNotFound, "找不到公告"},
	{service.ErrFAQNotFound, http.StatusNotFound, "找不到常見問題"},
	{service.ErrLinkNotFound, http.StatusNotFound, "找不到連結"},

	{service.ErrInvalidOrderTransition, http.StatusConflict, apperrors.MsgConflict},
	{service.ErrInvalidFeedbackTransition, http.StatusConflict, apperrors.MsgConflict},

	{service.ErrInvalidOrder, http.StatusBadRequest, msgOrderInvalid},
	{service.ErrTrackingNumberRequired, http.StatusBadRequest, msgTrackingRequired},
	{service.ErrOrderEmailMissing, http.StatusBadRequest, msgEmailRequired},
	{service.ErrFeedbackConsentRequired, http.StatusBadRequest, msgConsentRequired},
	{service.ErrInvalidFeedback, http.StatusBadRequest, msgFeedbackInvalid},
	{service.ErrInvalidShipment, http.StatusBadRequest, msgShipmentInvalid},
	{service.ErrCaptchaInvalid, http.StatusBadRequest, msgCaptchaWrong},
	{service.ErrInvalidProduct, http.StatusBadRequest, msgProductInvalid},
	{service.ErrInvalidDate, http.StatusBadRequest, apperrors.MsgInvalidDate},
	{service.ErrInvalidContent, http.StatusBadRequest, msgContentInvalid},
	{service.ErrInvalidFAQCategory, http.StatusBadRequest, msgFAQCategoryInvalid},
	{service.ErrInvalidFundSettings, http.StatusBadRequest, msgFundInvalid},

	{service.ErrLineLoginRequired, http.StatusUnauthorized, apperrors.MsgLineLoginNeeded},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, msgWrongPassword},
	{service.ErrInvalidLineState, http.StatusBadRequest, msgLineStateInvalid},
	{service.ErrAdminDisabled, http.StatusInternalServerError, apperrors.MsgAdminDisabled},
	{service.ErrLineDisabled, http.StatusInternalServerError, apperrors.MsgLineUnavailable},
}

// respondError writes the response for err and logs it at a level matching
// the status.
func respondError(c *gin.Context, err error, action string) {
	log := middleware.GetLoggerFromContext(c)
	for _, known := range serviceErrors {
		if errors.Is(err, known.err) {
			if known.status >= http.StatusInternalServerError {
				log.Error(action+" failed", err)
			} else {
				log.Warn(action+" rejected", map[string]interface{}{
					"error": err.Error(),
				})
			}
			apperrors.RespondWithError(c, known.status, known.message)
			return
		}
	}

	log.Error(action+" failed", err)
	apperrors.ParseAndRespond(c, err, action)
}

// bindJSON decodes the body into req, answering 400 on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid request body", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, "")
		return false
	}
	return true
}

// sessionOrAbort returns the request session. It is missing only when the
// router was assembled without the session middleware.
func sessionOrAbort(c *gin.Context) (*session.Session, bool) {
	s := middleware.GetSession(c)
	if s == nil {
		middleware.GetLoggerFromContext(c).Error("Session middleware not installed", nil)
		apperrors.InternalError(c, "")
		return nil, false
	}
	return s, true
}
