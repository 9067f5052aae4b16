package controller

import (
	"errors"
	"net/http"

	"github.com/belugagoods/storefront-backend/internal/app/service"
	apperrors "github.com/belugagoods/storefront-backend/internal/errors"
	"github.com/belugagoods/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type TemplateController struct {
	templateService service.TemplateService
}

func NewTemplateController(templateService service.TemplateService) *TemplateController {
	return &TemplateController{templateService: templateService}
}

func (ctrl *TemplateController) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTemplateNotFound):
		apperrors.NotFound(c, apperrors.TemplateNotFound, "템플릿을 찾을 수 없습니다")
	case errors.Is(err, service.ErrInvalidTemplateBadge):
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "status는 HOT 또는 NEW만 가능합니다")
	case errors.Is(err, service.ErrTemplateUnavailable):
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.TemplateUnavailable, "지금은 다운로드할 수 없습니다")
	default:
		middleware.GetLoggerFromContext(c).Error("Template request failed", err, nil)
		apperrors.RespondWithDBError(c, err, "템플릿")
	}
}

// ListTemplates
// GET /api/templates?status=HOT|NEW
func (ctrl *TemplateController) ListTemplates(c *gin.Context) {
	templates, err := ctrl.templateService.ListTemplates(c.Query("status"))
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"templates": templates,
		"count":     len(templates),
	})
}

// GetTemplate
// GET /api/templates/:id
func (ctrl *TemplateController) GetTemplate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tmpl, err := ctrl.templateService.GetTemplate(id)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"template": tmpl})
}

// DownloadTemplate returns a short-lived link and counts the download
// POST /api/templates/:id/download
func (ctrl *TemplateController) DownloadTemplate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	link, err := ctrl.templateService.Download(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

// CreateTemplate (Admin only)
// POST /api/templates
func (ctrl *TemplateController) CreateTemplate(c *gin.Context) {
	var req service.TemplateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	tmpl, err := ctrl.templateService.CreateTemplate(req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	middleware.GetLoggerFromContext(c).Info("Template created", map[string]interface{}{
		"template_id": tmpl.ID,
	})
	c.JSON(http.StatusCreated, gin.H{"template": tmpl})
}
