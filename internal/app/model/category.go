package model

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	NameKo      string         `gorm:"size:100;not null" json:"name_ko"`
	Slug        string         `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Description string         `gorm:"type:text" json:"description"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	SortOrder   int            `gorm:"default:0" json:"sort_order"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Subcategories []Subcategory `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"subcategories,omitempty"`
}

func (Category) TableName() string {
	return "categories"
}

// Subcategory narrows a category. Products point at it by id.
type Subcategory struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CategoryID uint      `gorm:"not null;uniqueIndex:idx_subcategories_category_slug" json:"category_id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	NameKo     string    `gorm:"size:100;not null" json:"name_ko"`
	Slug       string    `gorm:"size:100;not null;uniqueIndex:idx_subcategories_category_slug" json:"slug"`
	SortOrder  int       `gorm:"default:0" json:"sort_order"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Subcategory) TableName() string {
	return "subcategories"
}
