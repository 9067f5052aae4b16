package service

import (
	"errors"
	"strings"

	"github.com/belugagoods/storefront-backend/internal/app/model"
	"github.com/belugagoods/storefront-backend/internal/app/repository"
	"github.com/belugagoods/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

type ReviewInput struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

type ReviewPage struct {
	Reviews  []model.ProductReview `json:"reviews"`
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
}

type ReviewService interface {
	ListReviews(productID uint, page, pageSize int) (*ReviewPage, error)
	CreateReview(productID, userID uint, input ReviewInput) (*model.ProductReview, error)
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, productRepo: productRepo}
}

func (s *reviewService) ListReviews(productID uint, page, pageSize int) (*ReviewPage, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	page, pageSize = normalizePage(page, pageSize)
	reviews, total, err := s.reviewRepo.FindByProductID(productID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []model.ProductReview{}
	}
	return &ReviewPage{Reviews: reviews, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *reviewService) CreateReview(productID, userID uint, input ReviewInput) (*model.ProductReview, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrInvalidRating
	}

	review := &model.ProductReview{
		ProductID: productID,
		UserID:    userID,
		Rating:    input.Rating,
		Comment:   strings.TrimSpace(input.Comment),
	}
	if err := s.reviewRepo.Create(review); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	logger.Info("Review created", map[string]interface{}{
		"review_id":  review.ID,
		"product_id": productID,
		"rating":     review.Rating,
	})
	return review, nil
}
