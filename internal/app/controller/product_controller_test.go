package controller

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/belugagoods/storefront-backend/internal/app/model"
	"github.com/belugagoods/storefront-backend/internal/app/repository"
	"github.com/belugagoods/storefront-backend/internal/app/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type productFixture struct {
	db       *gorm.DB
	ctrl     *ProductController
	category *model.Category
	user     *model.User
}

func setupProductFixture(t *testing.T) *productFixture {
	t.Helper()
	testDB := setupTestDB(t)
	productRepo := repository.NewProductRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)

	return &productFixture{
		db: testDB,
		ctrl: NewProductController(
			service.NewProductService(productRepo, categoryRepo),
			service.NewProductSheet(productRepo, categoryRepo),
		),
		category: seedCategory(t, testDB, "stationery", "stickers"),
		user:     seedUser(t, testDB, "shopper", false),
	}
}

func (f *productFixture) router() *gin.Engine {
	router := newTestRouter()
	router.Use(identity(testClientID, f.user.ID, f.user.Role()))
	router.GET("/api/products", f.ctrl.ListProducts)
	router.GET("/api/products/:id", f.ctrl.GetProduct)
	router.POST("/api/products", f.ctrl.CreateProduct)
	router.PATCH("/api/products/:id", f.ctrl.UpdateProduct)
	router.DELETE("/api/products/:id", f.ctrl.DeleteProduct)
	router.POST("/api/products/:id/like", f.ctrl.ToggleLike)
	router.GET("/api/admin/products/export", f.ctrl.ExportProducts)
	router.POST("/api/admin/products/import", f.ctrl.ImportProducts)
	return router
}

func TestProductController_ListAndGet(t *testing.T) {
	f := setupProductFixture(t)
	seedProduct(t, f.db, f.category.ID, "sticker", 5500)
	mug := seedProduct(t, f.db, f.category.ID, "mug", 15000)
	router := f.router()

	w := doJSON(router, http.MethodGet, "/api/products?sort=price_desc", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var page service.ProductPage
	decode(t, w, &page)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Products, 2)
	assert.Equal(t, "mug", page.Products[0].Name)

	w = doJSON(router, http.MethodGet, "/api/products?search=stick", nil)
	decode(t, w, &page)
	assert.Equal(t, int64(1), page.Total)

	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/products/%d", mug.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/api/products/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductController_CreateUpdateDelete(t *testing.T) {
	f := setupProductFixture(t)
	router := f.router()

	w := doJSON(router, http.MethodPost, "/api/products", gin.H{
		"name": "Beluga Tote", "name_ko": "벨루가 에코백",
		"base_price": "19000", "category_id": f.category.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Product model.Product `json:"product"`
	}
	decode(t, w, &created)

	w = doJSON(router, http.MethodPost, "/api/products", gin.H{
		"name": "Ghost", "name_ko": "유령", "base_price": "1000", "category_id": 9999,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	path := fmt.Sprintf("/api/products/%d", created.Product.ID)
	w = doJSON(router, http.MethodPatch, path, gin.H{"is_featured": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(router, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(router, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductController_ToggleLike(t *testing.T) {
	f := setupProductFixture(t)
	product := seedProduct(t, f.db, f.category.ID, "sticker", 5500)
	router := f.router()
	path := fmt.Sprintf("/api/products/%d/like", product.ID)

	var resp struct {
		Liked     bool `json:"liked"`
		LikeCount int  `json:"like_count"`
	}
	decode(t, doJSON(router, http.MethodPost, path, nil), &resp)
	assert.True(t, resp.Liked)
	assert.Equal(t, 1, resp.LikeCount)

	decode(t, doJSON(router, http.MethodPost, path, nil), &resp)
	assert.False(t, resp.Liked)
	assert.Equal(t, 0, resp.LikeCount)
}

func TestProductController_ExportImport(t *testing.T) {
	f := setupProductFixture(t)
	seedProduct(t, f.db, f.category.ID, "sticker", 5500)
	router := f.router()

	w := doJSON(router, http.MethodGet, "/api/admin/products/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "products-")

	exported, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	rows, err := exported.GetRows("Products")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "stationery", rows[1][5])

	// 두 번째 행은 존재하지 않는 카테고리
	book := excelize.NewFile()
	sheet := book.GetSheetName(0)
	require.NoError(t, book.SetSheetRow(sheet, "A1", &[]interface{}{"name", "name_ko", "description", "description_ko", "base_price", "category_slug", "subcategory_slug", "image_url", "is_featured"}))
	require.NoError(t, book.SetSheetRow(sheet, "A2", &[]interface{}{"Pin", "핀", "", "", "4,500", "stationery", "stickers", "", "true"}))
	require.NoError(t, book.SetSheetRow(sheet, "A3", &[]interface{}{"Lost", "", "", "", "1000", "nowhere", "", "", ""}))
	var sheetBuf bytes.Buffer
	require.NoError(t, book.Write(&sheetBuf))

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", "products.xlsx")
	require.NoError(t, err)
	_, err = part.Write(sheetBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/products/import", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result service.ImportResult
	decode(t, w, &result)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Skipped)

	w = doJSON(router, http.MethodPost, "/api/admin/products/import", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
