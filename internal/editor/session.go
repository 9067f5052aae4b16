package editor

import (
	"errors"
	"sync"
)

var (
	ErrInteractionActive = errors.New("another drag or resize is in progress")
	ErrNoInteraction     = errors.New("no drag or resize in progress")
)

type interactionKind int

const (
	interactionDrag interactionKind = iota + 1
	interactionResize
)

type interaction struct {
	kind      interactionKind
	elementID string
	handle    Handle
	startX    float64
	startY    float64
	start     Element
}

// Session drives pointer interactions on a document. At most one drag or
// resize is active at a time across all elements.
type Session struct {
	mu     sync.Mutex
	doc    *Document
	active *interaction
}

func NewSession(doc *Document) *Session {
	return &Session{doc: doc}
}

// Active reports whether a drag or resize is in progress.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active != nil
}

func (s *Session) begin(kind interactionKind, elementID string, handle Handle, px, py float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		return ErrInteractionActive
	}
	el := s.doc.Find(elementID)
	if el == nil {
		return ErrElementNotFound
	}
	s.active = &interaction{kind: kind, elementID: elementID, handle: handle, startX: px, startY: py, start: *el}
	return nil
}

// BeginDrag starts dragging an element from pointer position (px, py).
func (s *Session) BeginDrag(elementID string, px, py float64) error {
	return s.begin(interactionDrag, elementID, "", px, py)
}

// BeginResize starts resizing an element by handle from pointer position (px, py).
func (s *Session) BeginResize(elementID string, handle Handle, px, py float64) error {
	if !handle.Valid() {
		return ErrInvalidHandle
	}
	return s.begin(interactionResize, elementID, handle, px, py)
}

// PointerMove updates the active interaction. Geometry is always computed
// from the state at pointer-down, so clamped moves do not accumulate drift
// and moving back to the start point restores the starting geometry. A
// resize that has no valid result for this pointer position leaves the
// element at its pointer-down state.
func (s *Session) PointerMove(px, py float64) (Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return Element{}, ErrNoInteraction
	}
	el := s.doc.Find(s.active.elementID)
	if el == nil {
		s.active = nil
		return Element{}, ErrElementNotFound
	}

	next := s.active.start
	dx, dy := px-s.active.startX, py-s.active.startY
	switch s.active.kind {
	case interactionDrag:
		next.MoveTo(s.doc.Canvas, s.active.start.X+dx, s.active.start.Y+dy)
	case interactionResize:
		if _, err := next.Resize(s.doc.Canvas, s.active.handle, dx, dy); err != nil {
			return *el, err
		}
	}
	*el = next
	return next, nil
}

// Document returns the document the session edits.
func (s *Session) Document() *Document {
	return s.doc
}

// ElementID returns the element of the active interaction, or "".
func (s *Session) ElementID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return ""
	}
	return s.active.elementID
}

// PointerUp ends the active interaction.
func (s *Session) PointerUp() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return ErrNoInteraction
	}
	s.active = nil
	return nil
}
