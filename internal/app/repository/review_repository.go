package repository

import (
	"github.com/belugagoods/storefront-backend/internal/app/model"
	"github.com/belugagoods/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	FindByProductID(productID uint, limit, offset int) ([]model.ProductReview, int64, error)
	Create(review *model.ProductReview) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) FindByProductID(productID uint, limit, offset int) ([]model.ProductReview, int64, error) {
	query := r.db.Model(&model.ProductReview{}).Where("product_id = ?", productID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count product reviews", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, 0, err
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var reviews []model.ProductReview
	if err := query.Preload("User").Order("created_at DESC").Order("id DESC").Find(&reviews).Error; err != nil {
		logger.Error("Failed to find product reviews", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, 0, err
	}
	return reviews, total, nil
}

// Create inserts the review and bumps the product's review_count in one transaction.
func (r *reviewRepository) Create(review *model.ProductReview) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("User").Create(review).Error; err != nil {
			logger.Error("Failed to create product review", err, map[string]interface{}{
				"product_id": review.ProductID,
				"user_id":    review.UserID,
			})
			return err
		}

		res := tx.Model(&model.Product{}).
			Where("id = ?", review.ProductID).
			UpdateColumn("review_count", gorm.Expr("review_count + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
