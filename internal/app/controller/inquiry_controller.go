package controller

import (
	"net/http"

	"github.com/belugagoods/storefront-backend/internal/app/service"
	apperrors "github.com/belugagoods/storefront-backend/internal/errors"
	"github.com/belugagoods/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type InquiryController struct {
	inquiryService service.InquiryService
}

func NewInquiryController(inquiryService service.InquiryService) *InquiryController {
	return &InquiryController{inquiryService: inquiryService}
}

// SubmitInquiry stores a contact form message
// POST /api/inquiries
func (ctrl *InquiryController) SubmitInquiry(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req service.InquiryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	inquiry, err := ctrl.inquiryService.Submit(req)
	if err != nil {
		log.Error("Failed to save inquiry", err, nil)
		apperrors.RespondWithDBError(c, err, "문의")
		return
	}

	log.Info("Inquiry received", map[string]interface{}{
		"inquiry_id": inquiry.ID,
	})
	c.JSON(http.StatusCreated, gin.H{
		"message": "Inquiry received",
		"id":      inquiry.ID,
	})
}
