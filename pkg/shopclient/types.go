package shopclient

import (
	"github.com/shopspring/decimal"
)

type Category struct {
	ID            uint          `json:"id"`
	Name          string        `json:"name"`
	NameKo        string        `json:"name_ko"`
	Slug          string        `json:"slug"`
	IsActive      bool          `json:"is_active"`
	Subcategories []Subcategory `json:"subcategories,omitempty"`
}

type Subcategory struct {
	ID         uint   `json:"id"`
	CategoryID uint   `json:"category_id"`
	Name       string `json:"name"`
	NameKo     string `json:"name_ko"`
	Slug       string `json:"slug"`
}

type Product struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	NameKo        string          `json:"name_ko"`
	Description   string          `json:"description"`
	DescriptionKo string          `json:"description_ko"`
	BasePrice     decimal.Decimal `json:"base_price"`
	CategoryID    uint            `json:"category_id"`
	SubcategoryID *uint           `json:"subcategory_id,omitempty"`
	ImageURL      string          `json:"image_url"`
	IsFeatured    bool            `json:"is_featured"`
	LikeCount     int             `json:"like_count"`
	ReviewCount   int             `json:"review_count"`
}

type ProductPage struct {
	Products []Product `json:"products"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}

type ProductQuery struct {
	CategoryID    uint
	SubcategoryID uint
	Featured      *bool
	Search        string
	Sort          string
	Page          int
	PageSize      int
}

type ProductInput struct {
	Name          string          `json:"name"`
	NameKo        string          `json:"name_ko"`
	Description   string          `json:"description,omitempty"`
	DescriptionKo string          `json:"description_ko,omitempty"`
	BasePrice     decimal.Decimal `json:"base_price"`
	CategoryID    uint            `json:"category_id"`
	SubcategoryID *uint           `json:"subcategory_id,omitempty"`
	ImageURL      string          `json:"image_url,omitempty"`
	IsFeatured    bool            `json:"is_featured"`
}

// ProductPatch carries only the fields to change; nil means unchanged.
type ProductPatch struct {
	Name          *string          `json:"name,omitempty"`
	NameKo        *string          `json:"name_ko,omitempty"`
	Description   *string          `json:"description,omitempty"`
	DescriptionKo *string          `json:"description_ko,omitempty"`
	BasePrice     *decimal.Decimal `json:"base_price,omitempty"`
	ImageURL      *string          `json:"image_url,omitempty"`
	IsFeatured    *bool            `json:"is_featured,omitempty"`
}

func (p ProductPatch) apply(product *Product) {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.NameKo != nil {
		product.NameKo = *p.NameKo
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.DescriptionKo != nil {
		product.DescriptionKo = *p.DescriptionKo
	}
	if p.BasePrice != nil {
		product.BasePrice = *p.BasePrice
	}
	if p.ImageURL != nil {
		product.ImageURL = *p.ImageURL
	}
	if p.IsFeatured != nil {
		product.IsFeatured = *p.IsFeatured
	}
}

type User struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
	Points   int    `json:"points"`
}

type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type Session struct {
	User   User   `json:"user"`
	Tokens Tokens `json:"tokens"`
}

type CartItem struct {
	ID        uint              `json:"id"`
	ProductID uint              `json:"product_id,omitempty"`
	Name      string            `json:"name"`
	NameKo    string            `json:"name_ko"`
	Price     int64             `json:"price"`
	Quantity  int               `json:"quantity"`
	Image     string            `json:"image,omitempty"`
	Options   map[string]string `json:"options,omitempty"`
	Selected  bool              `json:"selected"`
}

type CartSummary struct {
	Subtotal      int64 `json:"subtotal"`
	ShippingFee   int64 `json:"shipping_fee"`
	Total         int64 `json:"total"`
	SelectedCount int   `json:"selected_count"`
	ItemCount     int   `json:"item_count"`
	Quantity      int   `json:"quantity"`
}

type Cart struct {
	Items       []CartItem  `json:"items"`
	Summary     CartSummary `json:"summary"`
	AllSelected bool        `json:"all_selected"`
}

type ShippingAddress struct {
	RecipientName string `json:"recipient_name"`
	Phone         string `json:"phone"`
	ZipCode       string `json:"zip_code"`
	Address1      string `json:"address1"`
	Address2      string `json:"address2,omitempty"`
	Memo          string `json:"memo,omitempty"`
}

type Order struct {
	ID          uint   `json:"id"`
	OrderNumber string `json:"order_number"`
	UserID      uint   `json:"user_id"`
	Status      string `json:"status"`
	Subtotal    int64  `json:"subtotal"`
	ShippingFee int64  `json:"shipping_fee"`
	TotalAmount int64  `json:"total_amount"`
}

type AdminStatus struct {
	Enabled       bool `json:"enabled"`
	Authenticated bool `json:"authenticated"`
}
