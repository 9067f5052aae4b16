package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Product struct {
	ID                   uint            `gorm:"primarykey" json:"id"`
	Name                 string          `gorm:"size:200;not null" json:"name"`
	NameKo               string          `gorm:"size:200;not null" json:"name_ko"`
	Description          string          `gorm:"type:text" json:"description"`
	DescriptionKo        string          `gorm:"type:text" json:"description_ko"`
	BasePrice            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"base_price"`
	CategoryID           uint            `gorm:"not null;index" json:"category_id"`
	SubcategoryID        *uint           `gorm:"index" json:"subcategory_id,omitempty"`
	ImageURL             string          `json:"image_url"`
	IsFeatured           bool            `gorm:"default:false;index" json:"is_featured"`
	LikeCount            int             `gorm:"default:0" json:"like_count"`
	ReviewCount          int             `gorm:"default:0" json:"review_count"`
	CustomizationOptions datatypes.JSON  `json:"customization_options,omitempty"` // 색상/사이즈 등 선택 옵션
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
	DeletedAt            gorm.DeletedAt  `gorm:"index" json:"-"`

	Category    *Category    `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Subcategory *Subcategory `gorm:"foreignKey:SubcategoryID" json:"subcategory,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// PriceWon is the base price rounded to whole won, the unit carts use.
func (p *Product) PriceWon() int64 {
	return p.BasePrice.Round(0).IntPart()
}

type ProductReview struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	ProductID uint           `gorm:"not null;index" json:"product_id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Rating    int            `gorm:"not null;check:chk_product_reviews_rating,rating >= 1 AND rating <= 5" json:"rating"`
	Comment   string         `gorm:"type:text" json:"comment"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (ProductReview) TableName() string {
	return "product_reviews"
}

// ProductLike is one user's like. The pair is unique; Product.LikeCount
// mirrors the number of rows.
type ProductLike struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_product_likes_pair" json:"product_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_product_likes_pair" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (ProductLike) TableName() string {
	return "product_likes"
}
