package controller

import (
	"errors"
	"net/http"

	"github.com/belugagoods/storefront-backend/internal/app/service"
	apperrors "github.com/belugagoods/storefront-backend/internal/errors"
	"github.com/belugagoods/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

func (ctrl *CategoryController) respondError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		apperrors.NotFound(c, apperrors.CategoryNotFound, "카테고리를 찾을 수 없습니다")
	case errors.Is(err, service.ErrInvalidSlug):
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "슬러그를 만들 수 없는 이름입니다")
	default:
		middleware.GetLoggerFromContext(c).Error("Category request failed", err, map[string]interface{}{
			"action": action,
		})
		apperrors.RespondWithDBError(c, err, action)
	}
}

// ListCategories returns active categories with their subcategories
// GET /api/categories
func (ctrl *CategoryController) ListCategories(c *gin.Context) {
	categories, err := ctrl.categoryService.ListCategories(false)
	if err != nil {
		ctrl.respondError(c, err, "카테고리 조회")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

// CreateCategory (Admin only)
// POST /api/categories
func (ctrl *CategoryController) CreateCategory(c *gin.Context) {
	var req service.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	category, err := ctrl.categoryService.CreateCategory(req)
	if err != nil {
		ctrl.respondError(c, err, "카테고리 생성")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Category created", map[string]interface{}{
		"category_id": category.ID,
		"slug":        category.Slug,
	})
	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// CreateSubcategory (Admin only)
// POST /api/categories/:id/subcategories
func (ctrl *CategoryController) CreateSubcategory(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.SubcategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	sub, err := ctrl.categoryService.CreateSubcategory(categoryID, req)
	if err != nil {
		ctrl.respondError(c, err, "하위 카테고리 생성")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"subcategory": sub})
}
