package controller

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/belugagoods/storefront-backend/internal/app/service"
	apperrors "github.com/belugagoods/storefront-backend/internal/errors"
	"github.com/belugagoods/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ProductController struct {
	productService service.ProductService
	sheet          *service.ProductSheet
}

func NewProductController(productService service.ProductService, sheet *service.ProductSheet) *ProductController {
	return &ProductController{
		productService: productService,
		sheet:          sheet,
	}
}

func (ctrl *ProductController) respondError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "상품을 찾을 수 없습니다")
	case errors.Is(err, service.ErrCategoryNotFound):
		apperrors.NotFound(c, apperrors.CategoryNotFound, "카테고리를 찾을 수 없습니다")
	case errors.Is(err, service.ErrSubcategoryNotFound), errors.Is(err, service.ErrSubcategoryMismatch):
		apperrors.BadRequest(c, apperrors.SubcategoryMismatch, "카테고리에 속하지 않는 하위 카테고리입니다")
	case errors.Is(err, service.ErrInvalidPrice):
		apperrors.BadRequest(c, apperrors.ProductInvalidPrice, "가격은 0 이상이어야 합니다")
	default:
		middleware.GetLoggerFromContext(c).Error("Product request failed", err, map[string]interface{}{
			"action": action,
		})
		apperrors.RespondWithDBError(c, err, action)
	}
}

// ListProducts returns a filtered page of products
// GET /api/products?category_id=&subcategory_id=&featured=&search=&sort=&page=&page_size=
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	var query service.ProductListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	page, err := ctrl.productService.ListProducts(query)
	if err != nil {
		ctrl.respondError(c, err, "상품 조회")
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetProduct returns a product by ID
// GET /api/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.GetProductByID(id)
	if err != nil {
		ctrl.respondError(c, err, "상품 조회")
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// CreateProduct (Admin only)
// POST /api/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	var req service.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	product, err := ctrl.productService.CreateProduct(req)
	if err != nil {
		ctrl.respondError(c, err, "상품 생성")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Product created", map[string]interface{}{
		"product_id": product.ID,
	})
	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// UpdateProduct applies a partial update (Admin only)
// PATCH /api/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.ProductPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	product, err := ctrl.productService.UpdateProduct(id, req)
	if err != nil {
		ctrl.respondError(c, err, "상품 수정")
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// DeleteProduct (Admin only)
// DELETE /api/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteProduct(id); err != nil {
		ctrl.respondError(c, err, "상품 삭제")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// ToggleLike
// POST /api/products/:id/like
func (ctrl *ProductController) ToggleLike(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	liked, likes, err := ctrl.productService.ToggleLike(id, userID)
	if err != nil {
		ctrl.respondError(c, err, "좋아요")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"liked":      liked,
		"like_count": likes,
	})
}

// ExportProducts downloads every product as a spreadsheet (Admin only)
// GET /api/admin/products/export
func (ctrl *ProductController) ExportProducts(c *gin.Context) {
	filename := fmt.Sprintf("products-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)

	if err := ctrl.sheet.Export(c.Writer); err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to export products", err, nil)
		_ = c.Error(err)
	}
}

// ImportProducts creates products from an uploaded spreadsheet (Admin only)
// POST /api/admin/products/import (multipart field "file")
func (ctrl *ProductController) ImportProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "업로드할 파일이 필요합니다")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		log.Error("Failed to open uploaded sheet", err, nil)
		apperrors.InternalError(c, "")
		return
	}
	defer file.Close()

	result, err := ctrl.sheet.Import(file)
	if err != nil {
		log.Warn("Product import failed", map[string]interface{}{
			"filename": fileHeader.Filename,
			"error":    err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ProductImportFailed, "엑셀 파일을 읽을 수 없습니다")
		return
	}

	log.Info("Products imported", map[string]interface{}{
		"created": result.Created,
		"skipped": result.Skipped,
	})
	c.JSON(http.StatusOK, result)
}
