package repository

import (
	"github.com/belugagoods/storefront-backend/internal/app/model"
	"github.com/belugagoods/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	FindAll(includeInactive bool) ([]model.Category, error)
	FindByID(id uint) (*model.Category, error)
	FindBySlug(slug string) (*model.Category, error)
	Create(category *model.Category) error
	Update(category *model.Category) error
	Delete(id uint) error
	FindSubcategory(id uint) (*model.Subcategory, error)
	CreateSubcategory(sub *model.Subcategory) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) FindAll(includeInactive bool) ([]model.Category, error) {
	query := r.db.Preload("Subcategories", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC, id ASC")
	}).Order("sort_order ASC, id ASC")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var categories []model.Category
	if err := query.Find(&categories).Error; err != nil {
		logger.Error("Failed to list categories", err)
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindByID(id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.Preload("Subcategories").First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindBySlug(slug string) (*model.Category, error) {
	var category model.Category
	if err := r.db.Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) Create(category *model.Category) error {
	logger.Debug("Creating category in database", map[string]interface{}{
		"slug": category.Slug,
	})
	if err := r.db.Create(category).Error; err != nil {
		logger.Error("Failed to create category in database", err, map[string]interface{}{
			"slug": category.Slug,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) Update(category *model.Category) error {
	return r.db.Omit("Subcategories").Save(category).Error
}

func (r *categoryRepository) Delete(id uint) error {
	result := r.db.Delete(&model.Category{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete category", result.Error, map[string]interface{}{
			"category_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *categoryRepository) FindSubcategory(id uint) (*model.Subcategory, error) {
	var sub model.Subcategory
	if err := r.db.First(&sub, id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *categoryRepository) CreateSubcategory(sub *model.Subcategory) error {
	if err := r.db.Create(sub).Error; err != nil {
		logger.Error("Failed to create subcategory in database", err, map[string]interface{}{
			"category_id": sub.CategoryID,
			"slug":        sub.Slug,
		})
		return err
	}
	return nil
}
