package db

import (
	"testing"

	"github.com/belugagoods/storefront-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedCategories_Idempotent(t *testing.T) {
	testDB, err := SetupTestDB()
	require.NoError(t, err)
	defer CleanupTestDB(testDB)

	require.NoError(t, SeedCategories(testDB))
	require.NoError(t, SeedCategories(testDB))

	var categories []model.Category
	require.NoError(t, testDB.Preload("Subcategories").Order("sort_order").Find(&categories).Error)
	require.Len(t, categories, len(categorySeeds))
	assert.Equal(t, "stickers", categories[0].Slug)
	assert.Len(t, categories[0].Subcategories, 2)

	require.NoError(t, TruncateAllTables(testDB))
	var count int64
	testDB.Model(&model.Category{}).Count(&count)
	assert.Zero(t, count)
}
