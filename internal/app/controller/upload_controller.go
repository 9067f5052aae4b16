package controller

import (
	"context"
	"errors"
	"net/http"

	apperrors "github.com/belugagoods/storefront-backend/internal/errors"
	"github.com/belugagoods/storefront-backend/internal/middleware"
	"github.com/belugagoods/storefront-backend/internal/storage"
	"github.com/gin-gonic/gin"
)

// Uploader signs direct-to-bucket uploads.
type Uploader interface {
	PresignUpload(ctx context.Context, folder, filename, contentType string) (*storage.PresignedUpload, error)
}

type UploadController struct {
	uploader Uploader
}

func NewUploadController(uploader Uploader) *UploadController {
	return &UploadController{
		uploader: uploader,
	}
}

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required"`
	Folder      string `json:"folder"` // products, previews, community, templates
}

// GeneratePresignedURL generates a presigned URL for uploading files to S3 (Admin only)
// POST /api/admin/uploads/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if ctrl.uploader == nil {
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.InternalConfigError, "파일 저장소가 설정되지 않았습니다")
		return
	}

	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	folder := req.Folder
	if folder == "" {
		folder = "products"
	}

	upload, err := ctrl.uploader.PresignUpload(c.Request.Context(), folder, req.Filename, req.ContentType)
	if err != nil {
		if errors.Is(err, storage.ErrUnknownFolder) || errors.Is(err, storage.ErrContentTypeRefused) {
			log.Warn("Rejected upload request", map[string]interface{}{
				"folder":       folder,
				"content_type": req.ContentType,
			})
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "허용되지 않는 파일 형식입니다")
			return
		}
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"folder": folder,
		})
		apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.InternalExternalAPI, "업로드 URL을 만들 수 없습니다")
		return
	}

	log.Info("Presigned URL generated successfully", map[string]interface{}{
		"folder": folder,
		"key":    upload.Key,
	})
	c.JSON(http.StatusOK, upload)
}
