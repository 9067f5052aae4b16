package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCanvas = Canvas{Width: 400, Height: 300}

func box(x, y, w, h float64) Element {
	return Element{ID: "el", X: x, Y: y, Width: w, Height: h}
}

func TestMoveTo_ClampsToCanvas(t *testing.T) {
	tests := []struct {
		name  string
		x, y  float64
		wantX float64
		wantY float64
	}{
		{name: "inside", x: 50, y: 60, wantX: 50, wantY: 60},
		{name: "negative", x: -30, y: -1, wantX: 0, wantY: 0},
		{name: "past far edge", x: 390, y: 290, wantX: 300, wantY: 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := box(0, 0, 100, 50)
			el.MoveTo(testCanvas, tt.x, tt.y)
			assert.Equal(t, tt.wantX, el.X)
			assert.Equal(t, tt.wantY, el.Y)
		})
	}
}

func TestMoveTo_IgnoresRotationByDefault(t *testing.T) {
	el := box(0, 0, 200, 40)
	el.Rotation = 90
	el.MoveTo(testCanvas, 0, 0)
	assert.Equal(t, 0.0, el.X)
	assert.Equal(t, 0.0, el.Y)
}

func TestMoveTo_RotationAwareBounds(t *testing.T) {
	canvas := Canvas{Width: 400, Height: 300, RotationAwareBounds: true}
	el := box(0, 0, 200, 40)
	el.Rotation = 90

	el.MoveTo(canvas, -1000, -1000)
	bb := el.BoundingBox()
	assert.InDelta(t, 0, bb.X, 1e-9)
	assert.InDelta(t, 0, bb.Y, 1e-9)
	assert.InDelta(t, 40, bb.Width, 1e-9)
	assert.InDelta(t, 200, bb.Height, 1e-9)
	assert.True(t, el.Valid(canvas))

	el.MoveTo(canvas, 1000, 1000)
	bb = el.BoundingBox()
	assert.InDelta(t, 400, bb.X+bb.Width, 1e-9)
	assert.InDelta(t, 300, bb.Y+bb.Height, 1e-9)
}

func TestResize_Unlocked(t *testing.T) {
	tests := []struct {
		name   string
		handle Handle
		dx, dy float64
		want   Element
	}{
		{name: "east grows", handle: HandleE, dx: 30, want: box(100, 100, 130, 50)},
		{name: "east clamps to canvas", handle: HandleE, dx: 500, want: box(100, 100, 300, 50)},
		{name: "west keeps right edge", handle: HandleW, dx: -40, want: box(60, 100, 140, 50)},
		{name: "west clamps to zero", handle: HandleW, dx: -500, want: box(0, 100, 200, 50)},
		{name: "south min size", handle: HandleS, dy: -100, want: box(100, 100, 100, 20)},
		{name: "north keeps bottom", handle: HandleN, dy: 10, want: box(100, 110, 100, 40)},
		{name: "se independent axes", handle: HandleSE, dx: 10, dy: 70, want: box(100, 100, 110, 120)},
		{name: "nw min size", handle: HandleNW, dx: 200, dy: 200, want: box(180, 130, 20, 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := box(100, 100, 100, 50)
			changed, err := el.Resize(testCanvas, tt.handle, tt.dx, tt.dy)
			require.NoError(t, err)
			assert.True(t, changed)
			assert.Equal(t, tt.want, el)
		})
	}
}

func TestResize_LockedCornerKeepsRatio(t *testing.T) {
	handles := []Handle{HandleNW, HandleNE, HandleSE, HandleSW}
	deltas := []float64{-500, -80, -3, 0.5, 17, 64, 900}

	for _, h := range handles {
		for _, dx := range deltas {
			el := box(120, 90, 80, 40)
			el.SetAspectLock(true)

			_, err := el.Resize(testCanvas, h, dx, 0)
			require.NoError(t, err)

			assert.InDelta(t, 2.0, el.Width/el.Height, 1e-9, "handle %s dx %v", h, dx)
			assert.GreaterOrEqual(t, el.Height, MinSize-1e-9)
			assert.GreaterOrEqual(t, el.Width, MinSize-1e-9)
			assert.True(t, el.Valid(testCanvas), "handle %s dx %v: %+v", h, dx, el)
		}
	}
}

func TestResize_LockedAnchorsOppositeCorner(t *testing.T) {
	el := box(120, 90, 80, 40)
	el.SetAspectLock(true)

	changed, err := el.Resize(testCanvas, HandleNW, -20, 0)
	require.NoError(t, err)
	require.True(t, changed)

	assert.InDelta(t, 200, el.X+el.Width, 1e-9)
	assert.InDelta(t, 130, el.Y+el.Height, 1e-9)
	assert.InDelta(t, 100, el.Width, 1e-9)
	assert.InDelta(t, 50, el.Height, 1e-9)
}

func TestResize_LockedEdgeHandleIsNoop(t *testing.T) {
	el := box(100, 100, 80, 40)
	el.SetAspectLock(true)
	before := el

	for _, h := range []Handle{HandleN, HandleE, HandleS, HandleW} {
		changed, err := el.Resize(testCanvas, h, 25, 25)
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, before, el)
	}
}

func TestResize_LockedInfeasibleIsNoop(t *testing.T) {
	// At ratio 10 the minimum height forces a width of 200, but only 150 fits.
	canvas := Canvas{Width: 250, Height: 300}
	el := Element{ID: "strip", X: 100, Y: 10, Width: 100, Height: 10, AspectLock: true, AspectRatio: 10}
	before := el

	changed, err := el.Resize(canvas, HandleSE, 5, 0)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, before, el)
}

func TestResize_InvalidHandle(t *testing.T) {
	el := box(0, 0, 50, 50)
	_, err := el.Resize(testCanvas, Handle("up"), 1, 1)
	assert.ErrorIs(t, err, ErrInvalidHandle)
}

func TestResize_NeverBelowMinOrOutside(t *testing.T) {
	deltas := []float64{-1000, -50, -1, 0, 1, 50, 1000}
	for _, h := range []Handle{HandleNW, HandleN, HandleNE, HandleE, HandleSE, HandleS, HandleSW, HandleW} {
		for _, dx := range deltas {
			for _, dy := range deltas {
				el := box(150, 100, 60, 60)
				_, err := el.Resize(testCanvas, h, dx, dy)
				require.NoError(t, err)
				assert.True(t, el.Valid(testCanvas), "handle %s (%v,%v): %+v", h, dx, dy, el)
			}
		}
	}
}

func TestRotate(t *testing.T) {
	el := box(10, 10, 50, 50)
	for _, want := range []int{90, 180, 270, 0} {
		assert.True(t, el.Rotate(testCanvas))
		assert.Equal(t, want, el.Rotation)
	}
}

func TestRotate_RotationAwareRefusesOversizedTurn(t *testing.T) {
	canvas := Canvas{Width: 400, Height: 100, RotationAwareBounds: true}
	el := box(0, 20, 300, 60)

	assert.False(t, el.Rotate(canvas))
	assert.Equal(t, 0, el.Rotation)
}

func TestFlip(t *testing.T) {
	el := box(0, 0, 50, 50)
	require.NoError(t, el.Flip("x"))
	require.NoError(t, el.Flip("y"))
	assert.True(t, el.FlipX)
	assert.True(t, el.FlipY)
	require.NoError(t, el.Flip("x"))
	assert.False(t, el.FlipX)
	assert.ErrorIs(t, el.Flip("z"), ErrInvalidAxis)
}

func TestSetAspectLock_UsesCurrentSize(t *testing.T) {
	el := box(0, 0, 90, 30)
	el.SetAspectLock(true)
	assert.InDelta(t, 3.0, el.AspectRatio, 1e-9)

	el.SetAspectLock(false)
	_, err := el.Resize(testCanvas, HandleE, 30, 0)
	require.NoError(t, err)
	el.SetAspectLock(true)
	assert.InDelta(t, 4.0, el.AspectRatio, 1e-9)
}
