package repository

import (
	"fmt"
	"testing"

	"github.com/belugagoods/storefront-backend/internal/app/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTestUser(t *testing.T, testDB *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		Email:        fmt.Sprintf("%s@example.com", username),
		PasswordHash: "hashed",
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func createTestCategory(t *testing.T, testDB *gorm.DB, slug string) *model.Category {
	t.Helper()
	category := &model.Category{
		Name:     slug,
		NameKo:   slug,
		Slug:     slug,
		IsActive: true,
		Subcategories: []model.Subcategory{
			{Name: slug + " mini", NameKo: slug + " 미니", Slug: "mini"},
		},
	}
	require.NoError(t, testDB.Create(category).Error)
	return category
}

func createTestProduct(t *testing.T, testDB *gorm.DB, categoryID uint, name string, price int64) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:       name,
		NameKo:     name + " 한글",
		BasePrice:  decimal.NewFromInt(price),
		CategoryID: categoryID,
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}
