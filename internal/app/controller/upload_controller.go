package controller

import (
	"errors"
	"net/http"

	apperrors "github.com/chengtian/temple-backend/internal/errors"
	"github.com/chengtian/temple-backend/internal/middleware"
	"github.com/chengtian/temple-backend/internal/storage"
	"github.com/gin-gonic/gin"
)

type UploadController struct {
	storage storage.Presigner
}

func NewUploadController(storage storage.Presigner) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// GeneratePresignedURL returns a direct-to-S3 upload URL for a product image
// POST /api/upload/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req GeneratePresignedURLRequest
	if !bindJSON(c, &req) {
		return
	}

	response, err := ctrl.storage.PresignUpload(c.Request.Context(), req.Filename, req.ContentType, storage.ProductFolder)
	if err != nil {
		if errors.Is(err, storage.ErrContentTypeNotAllowed) || errors.Is(err, storage.ErrFilenameRequired) {
			log.Warn("Rejected upload request", map[string]interface{}{
				"content_type": req.ContentType,
			})
			apperrors.BadRequest(c, msgUploadTypeInvalid)
			return
		}
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename": req.Filename,
		})
		apperrors.InternalError(c, "")
		return
	}

	log.Info("Presigned URL generated", map[string]interface{}{
		"key": response.Key,
	})
	c.JSON(http.StatusOK, response)
}
