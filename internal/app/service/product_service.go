package service

import (
	"errors"
	"strings"

	"github.com/belugagoods/storefront-backend/internal/app/model"
	"github.com/belugagoods/storefront-backend/internal/app/repository"
	"github.com/belugagoods/storefront-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrInvalidPrice        = errors.New("price must not be negative")
	ErrSubcategoryMismatch = errors.New("subcategory does not belong to the category")
)

type ProductListQuery struct {
	CategoryID    *uint  `form:"category_id"`
	SubcategoryID *uint  `form:"subcategory_id"`
	Featured      *bool  `form:"featured"`
	Search        string `form:"search"`
	Sort          string `form:"sort"`
	Page          int    `form:"page"`
	PageSize      int    `form:"page_size"`
}

type ProductPage struct {
	Products []model.Product `json:"products"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

type ProductInput struct {
	Name                 string          `json:"name" binding:"required,max=200"`
	NameKo               string          `json:"name_ko" binding:"required,max=200"`
	Description          string          `json:"description"`
	DescriptionKo        string          `json:"description_ko"`
	BasePrice            decimal.Decimal `json:"base_price"`
	CategoryID           uint            `json:"category_id" binding:"required"`
	SubcategoryID        *uint           `json:"subcategory_id"`
	ImageURL             string          `json:"image_url"`
	IsFeatured           bool            `json:"is_featured"`
	CustomizationOptions datatypes.JSON  `json:"customization_options"`
}

// ProductPatch carries only the fields an admin changed.
type ProductPatch struct {
	Name                 *string          `json:"name" binding:"omitempty,max=200"`
	NameKo               *string          `json:"name_ko" binding:"omitempty,max=200"`
	Description          *string          `json:"description"`
	DescriptionKo        *string          `json:"description_ko"`
	BasePrice            *decimal.Decimal `json:"base_price"`
	CategoryID           *uint            `json:"category_id"`
	SubcategoryID        *uint            `json:"subcategory_id"`
	ImageURL             *string          `json:"image_url"`
	IsFeatured           *bool            `json:"is_featured"`
	CustomizationOptions datatypes.JSON   `json:"customization_options"`
}

type ProductService interface {
	ListProducts(query ProductListQuery) (*ProductPage, error)
	GetProductByID(id uint) (*model.Product, error)
	CreateProduct(input ProductInput) (*model.Product, error)
	UpdateProduct(id uint, patch ProductPatch) (*model.Product, error)
	DeleteProduct(id uint) error
	ToggleLike(productID, userID uint) (bool, int, error)
	AllProducts() ([]model.Product, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

func (s *productService) ListProducts(query ProductListQuery) (*ProductPage, error) {
	page, size := normalizePage(query.Page, query.PageSize)

	products, total, err := s.productRepo.FindWithFilter(repository.ProductFilter{
		CategoryID:    query.CategoryID,
		SubcategoryID: query.SubcategoryID,
		Featured:      query.Featured,
		Search:        strings.TrimSpace(query.Search),
		SortBy:        repository.ParseProductSort(query.Sort),
		Limit:         size,
		Offset:        (page - 1) * size,
	})
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []model.Product{}
	}

	return &ProductPage{Products: products, Total: total, Page: page, PageSize: size}, nil
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// checkTaxonomy verifies the category exists and, when given, that the
// subcategory hangs off it.
func (s *productService) checkTaxonomy(categoryID uint, subcategoryID *uint) error {
	if _, err := s.categoryRepo.FindByID(categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	if subcategoryID == nil {
		return nil
	}
	sub, err := s.categoryRepo.FindSubcategory(*subcategoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubcategoryNotFound
		}
		return err
	}
	if sub.CategoryID != categoryID {
		return ErrSubcategoryMismatch
	}
	return nil
}

func (s *productService) CreateProduct(input ProductInput) (*model.Product, error) {
	if input.BasePrice.IsNegative() {
		return nil, ErrInvalidPrice
	}
	if err := s.checkTaxonomy(input.CategoryID, input.SubcategoryID); err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:                 strings.TrimSpace(input.Name),
		NameKo:               strings.TrimSpace(input.NameKo),
		Description:          input.Description,
		DescriptionKo:        input.DescriptionKo,
		BasePrice:            input.BasePrice.Round(2),
		CategoryID:           input.CategoryID,
		SubcategoryID:        input.SubcategoryID,
		ImageURL:             input.ImageURL,
		IsFeatured:           input.IsFeatured,
		CustomizationOptions: input.CustomizationOptions,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return product, nil
}

func (s *productService) UpdateProduct(id uint, patch ProductPatch) (*model.Product, error) {
	product, err := s.GetProductByID(id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		product.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.NameKo != nil {
		product.NameKo = strings.TrimSpace(*patch.NameKo)
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.DescriptionKo != nil {
		product.DescriptionKo = *patch.DescriptionKo
	}
	if patch.BasePrice != nil {
		if patch.BasePrice.IsNegative() {
			return nil, ErrInvalidPrice
		}
		product.BasePrice = patch.BasePrice.Round(2)
	}
	if patch.ImageURL != nil {
		product.ImageURL = *patch.ImageURL
	}
	if patch.IsFeatured != nil {
		product.IsFeatured = *patch.IsFeatured
	}
	if patch.CustomizationOptions != nil {
		product.CustomizationOptions = patch.CustomizationOptions
	}

	if patch.CategoryID != nil || patch.SubcategoryID != nil {
		if patch.CategoryID != nil && *patch.CategoryID != product.CategoryID {
			product.CategoryID = *patch.CategoryID
			product.SubcategoryID = nil
		}
		if patch.SubcategoryID != nil {
			product.SubcategoryID = patch.SubcategoryID
		}
		if err := s.checkTaxonomy(product.CategoryID, product.SubcategoryID); err != nil {
			return nil, err
		}
		product.Category = nil
		product.Subcategory = nil
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return s.GetProductByID(id)
}

func (s *productService) DeleteProduct(id uint) error {
	if err := s.productRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	logger.Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})
	return nil
}

func (s *productService) ToggleLike(productID, userID uint) (bool, int, error) {
	liked, count, err := s.productRepo.ToggleLike(productID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, 0, ErrProductNotFound
		}
		return false, 0, err
	}
	return liked, count, nil
}

func (s *productService) AllProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}
