package repository

import (
	"github.com/belugagoods/storefront-backend/internal/app/model"
	"github.com/belugagoods/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type InquiryRepository interface {
	Create(inquiry *model.Inquiry) error
}

type inquiryRepository struct {
	db *gorm.DB
}

func NewInquiryRepository(db *gorm.DB) InquiryRepository {
	return &inquiryRepository{db: db}
}

func (r *inquiryRepository) Create(inquiry *model.Inquiry) error {
	if err := r.db.Create(inquiry).Error; err != nil {
		logger.Error("Failed to create inquiry", err, map[string]interface{}{
			"email": inquiry.Email,
		})
		return err
	}
	return nil
}
