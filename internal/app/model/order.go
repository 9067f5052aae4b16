package model

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OrderStatus string // 주문 상태 코드

const (
	OrderStatusPending   OrderStatus = "pending"   // 주문 접수
	OrderStatusPaid      OrderStatus = "paid"      // 결제 완료
	OrderStatusPreparing OrderStatus = "preparing" // 제작 중
	OrderStatusShipped   OrderStatus = "shipped"   // 배송 중
	OrderStatusDelivered OrderStatus = "delivered" // 배송 완료
	OrderStatusCancelled OrderStatus = "cancelled" // 주문 취소
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:      {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
}

// ParseOrderStatus accepts only the closed set of statuses.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch st := OrderStatus(s); st {
	case OrderStatusPending, OrderStatusPaid, OrderStatusPreparing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// CanTransitionTo reports whether an admin may move an order from s to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ShippingAddress 배송지 (주문 시점 스냅샷)
type ShippingAddress struct {
	RecipientName string `json:"recipient_name" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	ZipCode       string `json:"zip_code" binding:"required"`
	Address1      string `json:"address1" binding:"required"`
	Address2      string `json:"address2"`
	Memo          string `json:"memo,omitempty"`
}

// OrderLine 주문 항목 (장바구니 항목 스냅샷)
type OrderLine struct {
	ProductID uint              `json:"product_id,omitempty"`
	Name      string            `json:"name"`
	NameKo    string            `json:"name_ko"`
	Price     int64             `json:"price"`
	Quantity  int               `json:"quantity"`
	Image     string            `json:"image,omitempty"`
	Options   map[string]string `json:"options,omitempty"`
}

type Order struct {
	ID              uint                                `gorm:"primarykey" json:"id"`                             // 주문 ID
	OrderNumber     string                              `gorm:"size:40;uniqueIndex;not null" json:"order_number"` // 주문 번호
	UserID          uint                                `gorm:"not null;index" json:"user_id"`                    // 주문자 ID
	Status          OrderStatus                         `gorm:"type:varchar(20);default:'pending'" json:"status"` // 주문 상태
	Subtotal        int64                               `gorm:"not null" json:"subtotal"`                         // 상품 금액 (원)
	ShippingFee     int64                               `gorm:"not null" json:"shipping_fee"`                     // 배송비 (원)
	TotalAmount     int64                               `gorm:"not null" json:"total_amount"`                     // 총 결제 금액 (원)
	ShippingAddress datatypes.JSONType[ShippingAddress] `json:"shipping_address"`                                 // 배송지
	OrderItems      datatypes.JSONType[[]OrderLine]     `gorm:"column:order_items" json:"order_items"`            // 주문 항목
	CreatedAt       time.Time                           `json:"created_at"`                                       // 생성 시각
	UpdatedAt       time.Time                           `json:"updated_at"`                                       // 수정 시각
	DeletedAt       gorm.DeletedAt                      `gorm:"index" json:"-"`                                   // 삭제 시각(소프트 삭제)

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"` // 주문자 정보
}

func (Order) TableName() string {
	return "orders"
}
