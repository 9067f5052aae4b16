package repository

import (
	"github.com/belugagoods/storefront-backend/internal/app/model"
	"gorm.io/gorm"
)

type DesignRepository interface {
	Create(design *model.Design) error
	FindByID(id uint) (*model.Design, error)
	Save(design *model.Design) error
}

type designRepository struct {
	db *gorm.DB
}

func NewDesignRepository(db *gorm.DB) DesignRepository {
	return &designRepository{db: db}
}

func (r *designRepository) Create(design *model.Design) error {
	return r.db.Create(design).Error
}

func (r *designRepository) FindByID(id uint) (*model.Design, error) {
	var design model.Design
	if err := r.db.First(&design, id).Error; err != nil {
		return nil, err
	}
	return &design, nil
}

func (r *designRepository) Save(design *model.Design) error {
	return r.db.Save(design).Error
}
