package editor

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrElementNotFound = errors.New("element not found")
	ErrUnknownOp       = errors.New("unknown element operation")
	ErrInvalidDocument = errors.New("invalid design document")
)

// Op names a server-side element mutation.
type Op string

const (
	OpMove             Op = "move"
	OpResize           Op = "resize"
	OpRotate           Op = "rotate"
	OpFlip             Op = "flip"
	OpToggleAspectLock Op = "toggle_aspect_lock"
	OpDelete           Op = "delete"
)

// Operation is one mutation applied to an element. X and Y are the new
// top-left for move; DX and DY are the handle travel for resize.
type Operation struct {
	Op     Op      `json:"op" binding:"required"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
	Handle Handle  `json:"handle"`
	Axis   string  `json:"axis"`
}

// Document is a canvas and the elements placed on it, in z-order.
type Document struct {
	Canvas   Canvas    `json:"canvas"`
	Elements []Element `json:"elements"`
}

func NewDocument(canvas Canvas) (*Document, error) {
	if err := canvas.Validate(); err != nil {
		return nil, err
	}
	return &Document{Canvas: canvas, Elements: []Element{}}, nil
}

func (d *Document) index(id string) int {
	for i := range d.Elements {
		if d.Elements[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns a pointer into the document, or nil.
func (d *Document) Find(id string) *Element {
	if i := d.index(id); i >= 0 {
		return &d.Elements[i]
	}
	return nil
}

// AddImage places a new image scaled to fit the canvas at its natural aspect
// ratio, centered, with the aspect lock on.
func (d *Document) AddImage(id, src string, naturalWidth, naturalHeight float64) (Element, error) {
	if naturalWidth <= 0 || naturalHeight <= 0 {
		return Element{}, ErrInvalidImage
	}

	scale := math.Min(1, math.Min(d.Canvas.Width/naturalWidth, d.Canvas.Height/naturalHeight))
	w, h := naturalWidth*scale, naturalHeight*scale
	if short := math.Min(w, h); short < MinSize {
		grow := MinSize / short
		w, h = w*grow, h*grow
	}
	if w > d.Canvas.Width+epsilon || h > d.Canvas.Height+epsilon {
		return Element{}, ErrImageTooNarrow
	}

	el := Element{
		ID:          id,
		Src:         src,
		X:           (d.Canvas.Width - w) / 2,
		Y:           (d.Canvas.Height - h) / 2,
		Width:       w,
		Height:      h,
		AspectLock:  true,
		AspectRatio: naturalWidth / naturalHeight,
	}
	d.Elements = append(d.Elements, el)
	return el, nil
}

// Remove deletes an element.
func (d *Document) Remove(id string) error {
	i := d.index(id)
	if i < 0 {
		return ErrElementNotFound
	}
	d.Elements = append(d.Elements[:i], d.Elements[i+1:]...)
	return nil
}

// Apply runs op against element id and returns the element afterwards along
// with whether it changed. A deleted element is returned as it was.
func (d *Document) Apply(id string, op Operation) (Element, bool, error) {
	el := d.Find(id)
	if el == nil {
		return Element{}, false, ErrElementNotFound
	}

	before := *el
	switch op.Op {
	case OpMove:
		el.MoveTo(d.Canvas, op.X, op.Y)
	case OpResize:
		if _, err := el.Resize(d.Canvas, op.Handle, op.DX, op.DY); err != nil {
			return before, false, err
		}
	case OpRotate:
		el.Rotate(d.Canvas)
	case OpFlip:
		if err := el.Flip(op.Axis); err != nil {
			return before, false, err
		}
	case OpToggleAspectLock:
		el.SetAspectLock(!el.AspectLock)
	case OpDelete:
		if err := d.Remove(id); err != nil {
			return before, false, err
		}
		return before, true, nil
	default:
		return before, false, fmt.Errorf("%w: %q", ErrUnknownOp, op.Op)
	}
	return *el, *el != before, nil
}

// Validate checks the canvas and every element, for documents loaded from storage.
func (d *Document) Validate() error {
	if err := d.Canvas.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	seen := make(map[string]bool, len(d.Elements))
	for i := range d.Elements {
		el := &d.Elements[i]
		if seen[el.ID] {
			return fmt.Errorf("%w: duplicate element id %q", ErrInvalidDocument, el.ID)
		}
		seen[el.ID] = true
		if !el.Valid(d.Canvas) {
			return fmt.Errorf("%w: element %q is outside the canvas or below the minimum size", ErrInvalidDocument, el.ID)
		}
	}
	return nil
}
