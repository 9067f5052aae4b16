package controller

import (
	"errors"
	"net/http"

	"github.com/belugagoods/storefront-backend/internal/app/service"
	apperrors "github.com/belugagoods/storefront-backend/internal/errors"
	"github.com/belugagoods/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{reviewService: reviewService}
}

func (ctrl *ReviewController) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "상품을 찾을 수 없습니다")
	case errors.Is(err, service.ErrInvalidRating):
		apperrors.BadRequest(c, apperrors.ReviewInvalidRating, "평점은 1~5 사이여야 합니다")
	default:
		middleware.GetLoggerFromContext(c).Error("Review request failed", err, nil)
		apperrors.RespondWithDBError(c, err, "리뷰")
	}
}

// ListReviews
// GET /api/products/:id/reviews?page=&page_size=
func (ctrl *ReviewController) ListReviews(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var q pageQuery
	if !bindQuery(c, &q) {
		return
	}

	page, err := ctrl.reviewService.ListReviews(productID, q.Page, q.PageSize)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// CreateReview
// POST /api/products/:id/reviews
func (ctrl *ReviewController) CreateReview(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.ReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	review, err := ctrl.reviewService.CreateReview(productID, userID, req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	middleware.GetLoggerFromContext(c).Info("Review created", map[string]interface{}{
		"product_id": productID,
		"user_id":    userID,
		"rating":     review.Rating,
	})
	c.JSON(http.StatusCreated, gin.H{"review": review})
}
