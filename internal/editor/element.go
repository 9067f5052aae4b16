// Package editor implements placement geometry for images on a design
// canvas: drag, resize by handle, quarter-turn rotation, flips and aspect lock.
package editor

import (
	"errors"
	"math"
)

// MinSize is the smallest width or height an element may have.
const MinSize = 20.0

const epsilon = 1e-9

var (
	ErrInvalidCanvas  = errors.New("canvas dimensions must be at least 20")
	ErrInvalidImage   = errors.New("image dimensions must be positive")
	ErrImageTooNarrow = errors.New("image cannot fit the canvas at the minimum size")
	ErrInvalidHandle  = errors.New("unknown resize handle")
	ErrInvalidAxis    = errors.New("flip axis must be x or y")
)

// Canvas bounds every element. With RotationAwareBounds the drag clamp uses
// the rotated bounding box instead of the unrotated rectangle.
type Canvas struct {
	Width               float64 `json:"width"`
	Height              float64 `json:"height"`
	RotationAwareBounds bool    `json:"rotation_aware_bounds,omitempty"`
}

// rotated reports whether e must be clamped by its rotated bounding box.
func (c Canvas) rotated(e *Element) bool {
	return c.RotationAwareBounds && e.Rotation%180 != 0
}

func (c Canvas) Validate() error {
	if c.Width < MinSize || c.Height < MinSize {
		return ErrInvalidCanvas
	}
	return nil
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Element is one placed image. X and Y are the top-left of the unrotated
// rectangle; Rotation is in degrees, always a multiple of 90 in [0, 360).
type Element struct {
	ID          string  `json:"id"`
	Src         string  `json:"src"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Rotation    int     `json:"rotation"`
	AspectLock  bool    `json:"aspect_lock"`
	AspectRatio float64 `json:"aspect_ratio"`
	FlipX       bool    `json:"flip_x"`
	FlipY       bool    `json:"flip_y"`
}

// Handle names a resize grip by compass direction.
type Handle string

const (
	HandleNW Handle = "nw"
	HandleN  Handle = "n"
	HandleNE Handle = "ne"
	HandleE  Handle = "e"
	HandleSE Handle = "se"
	HandleS  Handle = "s"
	HandleSW Handle = "sw"
	HandleW  Handle = "w"
)

func (h Handle) Valid() bool {
	switch h {
	case HandleNW, HandleN, HandleNE, HandleE, HandleSE, HandleS, HandleSW, HandleW:
		return true
	}
	return false
}

func (h Handle) left() bool   { return h == HandleNW || h == HandleW || h == HandleSW }
func (h Handle) right() bool  { return h == HandleNE || h == HandleE || h == HandleSE }
func (h Handle) top() bool    { return h == HandleNW || h == HandleN || h == HandleNE }
func (h Handle) bottom() bool { return h == HandleSW || h == HandleS || h == HandleSE }

// Corner reports whether the handle moves both axes.
func (h Handle) Corner() bool {
	return h == HandleNW || h == HandleNE || h == HandleSE || h == HandleSW
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// BoundingBox is the axis-aligned box of the rectangle rotated about its center.
func (e *Element) BoundingBox() Rect {
	theta := float64(e.Rotation) * math.Pi / 180
	cos, sin := math.Abs(math.Cos(theta)), math.Abs(math.Sin(theta))
	bw := e.Width*cos + e.Height*sin
	bh := e.Width*sin + e.Height*cos
	cx, cy := e.X+e.Width/2, e.Y+e.Height/2
	return Rect{X: cx - bw/2, Y: cy - bh/2, Width: bw, Height: bh}
}

// Ratio returns the locked aspect ratio, falling back to the current shape.
func (e *Element) Ratio() float64 {
	if e.AspectRatio > 0 {
		return e.AspectRatio
	}
	return e.Width / e.Height
}

// MoveTo places the top-left at (x, y), clamped so the element stays inside
// the canvas.
func (e *Element) MoveTo(canvas Canvas, x, y float64) {
	if !canvas.rotated(e) {
		e.X = clamp(x, 0, canvas.Width-e.Width)
		e.Y = clamp(y, 0, canvas.Height-e.Height)
		return
	}

	box := e.BoundingBox()
	cx := clampCenter(x+e.Width/2, box.Width, canvas.Width)
	cy := clampCenter(y+e.Height/2, box.Height, canvas.Height)
	e.X = cx - e.Width/2
	e.Y = cy - e.Height/2
}

func clampCenter(c, extent, limit float64) float64 {
	if extent >= limit {
		return limit / 2
	}
	return clamp(c, extent/2, limit-extent/2)
}

// Resize drags handle by (dx, dy) and reports whether anything changed.
// Unlocked, each axis resizes independently. Locked, only corners resize:
// width drives, height follows the ratio, and the opposite corner stays put.
// A locked resize with no size satisfying the ratio, the minimum and the
// canvas at once is a no-op.
func (e *Element) Resize(canvas Canvas, handle Handle, dx, dy float64) (bool, error) {
	if !handle.Valid() {
		return false, ErrInvalidHandle
	}
	if !canvas.rotated(e) {
		return e.resize(canvas, handle, dx, dy), nil
	}

	// Sizes are computed on the unrotated rectangle, then the rotated box is
	// re-clamped; a result whose box cannot fit is dropped.
	before := *e
	if !e.resize(canvas, handle, dx, dy) {
		return false, nil
	}
	box := e.BoundingBox()
	if box.Width > canvas.Width+epsilon || box.Height > canvas.Height+epsilon {
		*e = before
		return false, nil
	}
	e.MoveTo(canvas, e.X, e.Y)
	return true, nil
}

func (e *Element) resize(canvas Canvas, handle Handle, dx, dy float64) bool {
	if e.AspectLock {
		if !handle.Corner() {
			return false
		}
		return e.resizeLocked(canvas, handle, dx)
	}

	before := *e
	if handle.right() {
		e.Width = clamp(e.Width+dx, MinSize, canvas.Width-e.X)
	}
	if handle.left() {
		right := e.X + e.Width
		e.Width = clamp(e.Width-dx, MinSize, right)
		e.X = right - e.Width
	}
	if handle.bottom() {
		e.Height = clamp(e.Height+dy, MinSize, canvas.Height-e.Y)
	}
	if handle.top() {
		bottom := e.Y + e.Height
		e.Height = clamp(e.Height-dy, MinSize, bottom)
		e.Y = bottom - e.Height
	}
	return *e != before
}

func (e *Element) resizeLocked(canvas Canvas, handle Handle, dx float64) bool {
	ratio := e.Ratio()
	right, bottom := e.X+e.Width, e.Y+e.Height

	desired := e.Width + dx
	maxW := canvas.Width - e.X
	if handle.left() {
		desired = e.Width - dx
		maxW = right
	}
	maxH := canvas.Height - e.Y
	if handle.top() {
		maxH = bottom
	}

	maxW = math.Min(maxW, maxH*ratio)
	minW := math.Max(MinSize, MinSize*ratio)
	if minW > maxW+epsilon {
		return false
	}

	w := clamp(desired, minW, maxW)
	h := w / ratio
	if math.Abs(w-e.Width) < epsilon && math.Abs(h-e.Height) < epsilon {
		return false
	}

	e.Width, e.Height = w, h
	if handle.left() {
		e.X = right - w
	}
	if handle.top() {
		e.Y = bottom - h
	}
	return true
}

// Rotate turns the element a quarter turn clockwise. Under rotation-aware
// bounds the element is re-clamped, and a turn whose box cannot fit the
// canvas is refused.
func (e *Element) Rotate(canvas Canvas) bool {
	before := *e
	e.Rotation = (e.Rotation + 90) % 360
	if canvas.rotated(e) {
		box := e.BoundingBox()
		if box.Width > canvas.Width+epsilon || box.Height > canvas.Height+epsilon {
			*e = before
			return false
		}
	}
	e.MoveTo(canvas, e.X, e.Y)
	return true
}

// Flip mirrors the element along axis "x" (horizontal) or "y" (vertical).
func (e *Element) Flip(axis string) error {
	switch axis {
	case "x", "":
		e.FlipX = !e.FlipX
	case "y":
		e.FlipY = !e.FlipY
	default:
		return ErrInvalidAxis
	}
	return nil
}

// SetAspectLock turns the lock on or off. Turning it on fixes the ratio to
// the current size.
func (e *Element) SetAspectLock(on bool) {
	e.AspectLock = on
	if on {
		e.AspectRatio = e.Width / e.Height
	}
}

// Valid checks the element against the canvas: minimum size, bounds and a
// quarter-turn rotation.
func (e *Element) Valid(canvas Canvas) bool {
	if e.Width < MinSize-epsilon || e.Height < MinSize-epsilon {
		return false
	}
	if e.Rotation < 0 || e.Rotation >= 360 || e.Rotation%90 != 0 {
		return false
	}
	box := Rect{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height}
	if canvas.rotated(e) {
		box = e.BoundingBox()
	}
	return box.X >= -epsilon && box.Y >= -epsilon &&
		box.X+box.Width <= canvas.Width+epsilon &&
		box.Y+box.Height <= canvas.Height+epsilon
}
