package model

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// TemplateStatus 템플릿 배지
type TemplateStatus string

const (
	TemplateStatusNone TemplateStatus = ""
	TemplateStatusHot  TemplateStatus = "HOT"
	TemplateStatusNew  TemplateStatus = "NEW"
)

// ParseTemplateStatus normalizes badge input. The legacy Korean labels
// "인기" and "신규" map to HOT and NEW.
func ParseTemplateStatus(s string) (TemplateStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return TemplateStatusNone, nil
	case "HOT", "인기":
		return TemplateStatusHot, nil
	case "NEW", "신규":
		return TemplateStatusNew, nil
	}
	return "", fmt.Errorf("unknown template status %q", s)
}

// BelugaTemplate 다운로드 가능한 디자인 템플릿
type BelugaTemplate struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Title       string         `gorm:"size:200;not null" json:"title"`
	TitleKo     string         `gorm:"size:200;not null" json:"title_ko"`
	Description string         `gorm:"type:text" json:"description"`
	Format      string         `gorm:"size:20;not null" json:"format"`            // PNG, PSD, AI, PDF
	FileKey     string         `gorm:"size:500" json:"-"`                         // S3 object key
	PreviewURL  string         `json:"preview_url"`
	Downloads   int            `gorm:"default:0;index" json:"downloads"`
	Status      TemplateStatus `gorm:"type:varchar(10);default:''" json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (BelugaTemplate) TableName() string {
	return "beluga_templates"
}
