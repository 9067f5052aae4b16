package repository

import (
	"fmt"

	"github.com/belugagoods/storefront-backend/internal/app/model"
	"github.com/belugagoods/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductSort string

const (
	ProductSortNewest     ProductSort = "newest"
	ProductSortPriceAsc   ProductSort = "price_asc"
	ProductSortPriceDesc  ProductSort = "price_desc"
	ProductSortPopularity ProductSort = "popular"
)

// ParseProductSort falls back to newest for anything it does not know.
func ParseProductSort(s string) ProductSort {
	switch ProductSort(s) {
	case ProductSortPriceAsc, ProductSortPriceDesc, ProductSortPopularity:
		return ProductSort(s)
	}
	return ProductSortNewest
}

type ProductFilter struct {
	CategoryID    *uint
	SubcategoryID *uint
	Featured      *bool
	Search        string
	SortBy        ProductSort
	Limit         int
	Offset        int
}

type ProductRepository interface {
	FindAll() ([]model.Product, error)
	FindWithFilter(filter ProductFilter) ([]model.Product, int64, error)
	FindByID(id uint) (*model.Product, error)
	Create(product *model.Product) error
	Update(product *model.Product) error
	Delete(id uint) error
	ToggleLike(productID, userID uint) (liked bool, likeCount int, err error)
	IsLiked(productID, userID uint) (bool, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) FindAll() ([]model.Product, error) {
	var products []model.Product
	if err := r.db.Preload("Category").Preload("Subcategory").Order("id ASC").Find(&products).Error; err != nil {
		logger.Error("Failed to list all products", err)
		return nil, err
	}
	return products, nil
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, int64, error) {
	logger.Debug("Finding products with filter", map[string]interface{}{
		"category_id":    filter.CategoryID,
		"subcategory_id": filter.SubcategoryID,
		"featured":       filter.Featured,
		"search":         filter.Search,
		"sort_by":        filter.SortBy,
		"limit":          filter.Limit,
		"offset":         filter.Offset,
	})

	query := r.db.Model(&model.Product{})

	if filter.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filter.CategoryID)
	}
	if filter.SubcategoryID != nil {
		query = query.Where("products.subcategory_id = ?", *filter.SubcategoryID)
	}
	if filter.Featured != nil {
		query = query.Where("products.is_featured = ?", *filter.Featured)
	}
	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		query = query.Where(
			"products.name LIKE ? OR products.name_ko LIKE ? OR products.description LIKE ? OR products.description_ko LIKE ?",
			like, like, like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count products with filter", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, 0, err
	}

	switch filter.SortBy {
	case ProductSortPriceAsc:
		query = query.Order("products.base_price ASC")
	case ProductSortPriceDesc:
		query = query.Order("products.base_price DESC")
	case ProductSortPopularity:
		query = query.Order("products.like_count DESC").Order("products.review_count DESC")
	}
	query = query.Order("products.created_at DESC").Order("products.id DESC")

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.Preload("Category").Preload("Subcategory").Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, 0, err
	}

	logger.Debug("Products found with filter", map[string]interface{}{
		"count": len(products),
		"total": total,
	})
	return products, total, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.Preload("Category").Preload("Subcategory").First(&product, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find product by ID", err, map[string]interface{}{
				"product_id": id,
			})
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":        product.Name,
		"category_id": product.CategoryID,
	})
	if err := r.db.Omit("Category", "Subcategory").Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name": product.Name,
		})
		return err
	}
	return nil
}

func (r *productRepository) Update(product *model.Product) error {
	if err := r.db.Omit("Category", "Subcategory").Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) Delete(id uint) error {
	result := r.db.Delete(&model.Product{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete product", result.Error, map[string]interface{}{
			"product_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ToggleLike adds the user's like or takes it back, keeping like_count in
// step with the product_likes rows.
func (r *productRepository) ToggleLike(productID, userID uint) (bool, int, error) {
	var liked bool
	var product model.Product
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&product, productID).Error; err != nil {
			return err
		}

		res := tx.Where("product_id = ? AND user_id = ?", productID, userID).Delete(&model.ProductLike{})
		if res.Error != nil {
			return res.Error
		}

		delta := -1
		if res.RowsAffected == 0 {
			if err := tx.Create(&model.ProductLike{ProductID: productID, UserID: userID}).Error; err != nil {
				return err
			}
			delta = 1
			liked = true
		}

		if err := tx.Model(&model.Product{}).
			Where("id = ?", productID).
			UpdateColumn("like_count", gorm.Expr("like_count + ?", delta)).
			Error; err != nil {
			return err
		}

		return tx.Select("like_count").First(&product, productID).Error
	})
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to toggle product like", err, map[string]interface{}{
				"product_id": productID,
				"user_id":    userID,
			})
		}
		return false, 0, err
	}
	return liked, product.LikeCount, nil
}

func (r *productRepository) IsLiked(productID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.ProductLike{}).
		Where("product_id = ? AND user_id = ?", productID, userID).
		Count(&count).Error
	return count > 0, err
}
