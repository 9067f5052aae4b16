package service

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/belugagoods/storefront-backend/internal/app/model"
	"github.com/belugagoods/storefront-backend/internal/clientstate"
	"github.com/belugagoods/storefront-backend/internal/db"
	"github.com/belugagoods/storefront-backend/internal/events"
	"github.com/belugagoods/storefront-backend/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func seedUser(t *testing.T, testDB *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, Email: fmt.Sprintf("%s@example.com", username), PasswordHash: "hashed"}
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

func newTestStore(t *testing.T, bus *events.Bus) *clientstate.Store {
	t.Helper()
	backend, err := clientstate.NewBoltBackend(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	store := clientstate.NewStore(backend, bus)
	t.Cleanup(func() { store.Close() })
	return store
}

func testutilGather(m *metrics.Metrics, expected string, names ...string) error {
	return testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), names...)
}
