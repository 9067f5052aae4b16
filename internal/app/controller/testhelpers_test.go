package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/belugagoods/storefront-backend/internal/app/model"
	"github.com/belugagoods/storefront-backend/internal/clientstate"
	"github.com/belugagoods/storefront-backend/internal/db"
	"github.com/belugagoods/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testClientID = "2b1f0c1e-7a52-4a4e-9d0e-3f1c0de0a001"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	return testDB
}

func newTestStore(t *testing.T) *clientstate.Store {
	t.Helper()
	backend, err := clientstate.NewBoltBackend(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	store := clientstate.NewStore(backend, nil)
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// identity stands in for the auth and client-id middleware. A zero userID
// leaves the request anonymous.
func identity(clientID string, userID uint, role model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		if clientID != "" {
			c.Set(middleware.ClientIDKey, clientID)
		}
		if userID != 0 {
			c.Set(middleware.UserIDKey, userID)
			c.Set(middleware.UserRoleKey, role)
		}
		c.Next()
	}
}

func seedUser(t *testing.T, testDB *gorm.DB, username string, admin bool) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		Email:        fmt.Sprintf("%s@example.com", username),
		PasswordHash: "hash",
		IsAdmin:      admin,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func seedCategory(t *testing.T, testDB *gorm.DB, slug string, subSlugs ...string) *model.Category {
	t.Helper()
	category := &model.Category{Name: slug, NameKo: slug, Slug: slug, IsActive: true}
	for _, sub := range subSlugs {
		category.Subcategories = append(category.Subcategories, model.Subcategory{Name: sub, NameKo: sub, Slug: sub})
	}
	require.NoError(t, testDB.Create(category).Error)
	return category
}

func seedProduct(t *testing.T, testDB *gorm.DB, categoryID uint, name string, price int64) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:       name,
		NameKo:     name + " (ko)",
		BasePrice:  decimal.NewFromInt(price),
		CategoryID: categoryID,
		ImageURL:   "https://example.com/" + name + ".png",
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func doJSON(router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}
