package repository

import (
	"testing"

	"github.com/belugagoods/storefront-backend/internal/app/model"
	"github.com/belugagoods/storefront-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCategoryTest(t *testing.T) (*gorm.DB, CategoryRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	return testDB, NewCategoryRepository(testDB)
}

func TestCategoryRepository_FindAllWithSubcategories(t *testing.T) {
	testDB, repo := setupCategoryTest(t)
	defer db.CleanupTestDB(testDB)

	createTestCategory(t, testDB, "stickers")
	inactive := createTestCategory(t, testDB, "retired")
	require.NoError(t, testDB.Model(inactive).Update("is_active", false).Error)

	active, err := repo.FindAll(false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "stickers", active[0].Slug)
	assert.Len(t, active[0].Subcategories, 1)

	all, err := repo.FindAll(true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCategoryRepository_CreateSubcategory(t *testing.T) {
	testDB, repo := setupCategoryTest(t)
	defer db.CleanupTestDB(testDB)

	category := createTestCategory(t, testDB, "stickers")

	sub := &model.Subcategory{CategoryID: category.ID, Name: "Holographic", NameKo: "홀로그램", Slug: "holo"}
	require.NoError(t, repo.CreateSubcategory(sub))
	assert.NotZero(t, sub.ID)

	dup := &model.Subcategory{CategoryID: category.ID, Name: "Holo 2", NameKo: "홀로 2", Slug: "holo"}
	assert.Error(t, repo.CreateSubcategory(dup))

	found, err := repo.FindByID(category.ID)
	require.NoError(t, err)
	assert.Len(t, found.Subcategories, 2)
}

func TestCategoryRepository_DuplicateSlug(t *testing.T) {
	testDB, repo := setupCategoryTest(t)
	defer db.CleanupTestDB(testDB)

	require.NoError(t, repo.Create(&model.Category{Name: "Mugs", NameKo: "머그", Slug: "mugs"}))
	assert.Error(t, repo.Create(&model.Category{Name: "Mugs 2", NameKo: "머그 2", Slug: "mugs"}))

	found, err := repo.FindBySlug("mugs")
	require.NoError(t, err)
	assert.Equal(t, "Mugs", found.Name)
}

func TestCategoryRepository_Delete(t *testing.T) {
	testDB, repo := setupCategoryTest(t)
	defer db.CleanupTestDB(testDB)

	category := createTestCategory(t, testDB, "stickers")
	require.NoError(t, repo.Delete(category.ID))

	_, err := repo.FindByID(category.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.Delete(category.ID), gorm.ErrRecordNotFound)
}
