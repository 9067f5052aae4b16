package model

import "time"

type InquiryStatus string

const (
	InquiryStatusOpen     InquiryStatus = "open"
	InquiryStatusAnswered InquiryStatus = "answered"
)

// Inquiry 문의하기 폼 접수 내역
type Inquiry struct {
	ID        uint          `gorm:"primarykey" json:"id"`
	Name      string        `gorm:"size:100;not null" json:"name"`
	Email     string        `gorm:"size:255;not null" json:"email"`
	Subject   string        `gorm:"size:200;not null" json:"subject"`
	Message   string        `gorm:"type:text;not null" json:"message"`
	Status    InquiryStatus `gorm:"type:varchar(20);default:'open'" json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

func (Inquiry) TableName() string {
	return "inquiries"
}
