package model

import (
	"fmt"
	"time"

	"github.com/belugagoods/storefront-backend/internal/editor"
	"gorm.io/datatypes"
)

// Design 에디터 작업물. 요소 배치는 JSON 으로 저장
type Design struct {
	ID                  uint                                 `gorm:"primarykey" json:"id"`
	ClientID            string                               `gorm:"size:64;not null;index" json:"-"`
	UserID              *uint                                `gorm:"index" json:"user_id,omitempty"`
	ProductID           *uint                                `gorm:"index" json:"product_id,omitempty"`
	Name                string                               `gorm:"size:200" json:"name"`
	CanvasWidth         float64                              `gorm:"not null" json:"canvas_width"`
	CanvasHeight        float64                              `gorm:"not null" json:"canvas_height"`
	RotationAwareBounds bool                                 `gorm:"default:false" json:"rotation_aware_bounds"`
	Elements            datatypes.JSONType[[]editor.Element] `json:"elements"`
	CreatedAt           time.Time                            `json:"created_at"`
	UpdatedAt           time.Time                            `json:"updated_at"`
}

func (Design) TableName() string {
	return "designs"
}

// Document rebuilds the editable document from the stored columns.
func (d *Design) Document() *editor.Document {
	elements := d.Elements.Data()
	if elements == nil {
		elements = []editor.Element{}
	}
	return &editor.Document{
		Canvas: editor.Canvas{
			Width:               d.CanvasWidth,
			Height:              d.CanvasHeight,
			RotationAwareBounds: d.RotationAwareBounds,
		},
		Elements: elements,
	}
}

// LoadDocument is Document checked against the editor invariants, for
// rows whose JSON may have been written by something else.
func (d *Design) LoadDocument() (*editor.Document, error) {
	doc := d.Document()
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("design %d: %w", d.ID, err)
	}
	return doc, nil
}

// SetElements stores the document's elements back on the row.
func (d *Design) SetElements(doc *editor.Document) {
	d.Elements = datatypes.NewJSONType(doc.Elements)
}
