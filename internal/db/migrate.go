package db

import (
	"github.com/belugagoods/storefront-backend/internal/app/model"
	"github.com/belugagoods/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every table in migration order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Category{},
		&model.Subcategory{},
		&model.Product{},
		&model.ProductReview{},
		&model.ProductLike{},
		&model.Order{},
		&model.CommunityPost{},
		&model.PostLike{},
		&model.CommunityComment{},
		&model.BelugaTemplate{},
		&model.Design{},
		&model.Inquiry{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := SeedCategories(DB); err != nil {
		logger.Error("Failed to seed categories during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

type categorySeed struct {
	category model.Category
	subs     []model.Subcategory
}

// 카테고리 분류 체계 (상품 필터링에 필요)
var categorySeeds = []categorySeed{
	{
		category: model.Category{Name: "Stickers", NameKo: "스티커", Slug: "stickers", IsActive: true, SortOrder: 1},
		subs: []model.Subcategory{
			{Name: "Die-cut", NameKo: "다이컷", Slug: "die-cut", SortOrder: 1},
			{Name: "Sticker Sheets", NameKo: "스티커 시트", Slug: "sheets", SortOrder: 2},
		},
	},
	{
		category: model.Category{Name: "Keyrings", NameKo: "키링", Slug: "keyrings", IsActive: true, SortOrder: 2},
		subs: []model.Subcategory{
			{Name: "Acrylic", NameKo: "아크릴", Slug: "acrylic", SortOrder: 1},
			{Name: "Plush", NameKo: "인형", Slug: "plush", SortOrder: 2},
		},
	},
	{
		category: model.Category{Name: "Mugs & Tumblers", NameKo: "머그컵/텀블러", Slug: "drinkware", IsActive: true, SortOrder: 3},
		subs: []model.Subcategory{
			{Name: "Mugs", NameKo: "머그컵", Slug: "mugs", SortOrder: 1},
			{Name: "Tumblers", NameKo: "텀블러", Slug: "tumblers", SortOrder: 2},
		},
	},
	{
		category: model.Category{Name: "Apparel", NameKo: "의류", Slug: "apparel", IsActive: true, SortOrder: 4},
		subs: []model.Subcategory{
			{Name: "T-shirts", NameKo: "티셔츠", Slug: "t-shirts", SortOrder: 1},
			{Name: "Eco Bags", NameKo: "에코백", Slug: "eco-bags", SortOrder: 2},
		},
	},
	{
		category: model.Category{Name: "Stationery", NameKo: "문구", Slug: "stationery", IsActive: true, SortOrder: 5},
		subs: []model.Subcategory{
			{Name: "Notebooks", NameKo: "노트", Slug: "notebooks", SortOrder: 1},
			{Name: "Postcards", NameKo: "엽서", Slug: "postcards", SortOrder: 2},
		},
	},
}

// SeedCategories inserts the category tree once.
func SeedCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Categories already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, seed := range categorySeeds {
			category := seed.category
			category.Subcategories = append([]model.Subcategory(nil), seed.subs...)
			if err := tx.Create(&category).Error; err != nil {
				return err
			}
		}
		logger.Info("Categories seeded", map[string]interface{}{
			"count": len(categorySeeds),
		})
		return nil
	})
}
