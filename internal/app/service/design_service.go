package service

import (
	"errors"
	"sync"
	"time"

	"github.com/belugagoods/storefront-backend/internal/app/model"
	"github.com/belugagoods/storefront-backend/internal/app/repository"
	"github.com/belugagoods/storefront-backend/internal/editor"
	"github.com/google/uuid"
)

var ErrDesignNotFound = errors.New("design not found")

type DesignInput struct {
	Name                string  `json:"name" binding:"max=200"`
	ProductID           *uint   `json:"product_id"`
	CanvasWidth         float64 `json:"canvas_width" binding:"required,gte=20"`
	CanvasHeight        float64 `json:"canvas_height" binding:"required,gte=20"`
	RotationAwareBounds bool    `json:"rotation_aware_bounds"`
}

type ImageInput struct {
	Src           string  `json:"src" binding:"required"`
	NaturalWidth  float64 `json:"natural_width" binding:"required,gt=0"`
	NaturalHeight float64 `json:"natural_height" binding:"required,gt=0"`
}

// Interaction actions, sent as pointer events arrive.
const (
	ActionBeginDrag   = "begin_drag"
	ActionBeginResize = "begin_resize"
	ActionMove        = "move"
	ActionEnd         = "end"
)

// InteractionInput is one pointer event. ElementID and Handle are read on
// begin only; X and Y are canvas pointer coordinates.
type InteractionInput struct {
	Action    string        `json:"action" binding:"required,oneof=begin_drag begin_resize move end"`
	ElementID string        `json:"element_id"`
	Handle    editor.Handle `json:"handle"`
	X         float64       `json:"x"`
	Y         float64       `json:"y"`
}

// interactionTimeout frees a design whose client never sent "end".
const interactionTimeout = 30 * time.Second

type activeSession struct {
	session *editor.Session
	touched time.Time
}

type ElementResult struct {
	Element editor.Element `json:"element"`
	Changed bool           `json:"changed"`
	Design  *model.Design  `json:"design"`
}

// DesignService stores editor documents. Designs belong to the client that
// created them; other clients get ErrDesignNotFound.
type DesignService interface {
	CreateDesign(clientID string, userID *uint, input DesignInput) (*model.Design, error)
	GetDesign(clientID string, id uint) (*model.Design, error)
	AddImage(clientID string, id uint, input ImageInput) (*ElementResult, error)
	ApplyOperation(clientID string, id uint, elementID string, op editor.Operation) (*ElementResult, error)
	Interact(clientID string, id uint, input InteractionInput) (*ElementResult, error)
}

type designService struct {
	repo repository.DesignRepository

	mu       sync.Mutex
	sessions map[uint]*activeSession
	now      func() time.Time
}

func NewDesignService(repo repository.DesignRepository) DesignService {
	return &designService{
		repo:     repo,
		sessions: make(map[uint]*activeSession),
		now:      time.Now,
	}
}

// activeLocked returns the live interaction on a design, dropping an
// abandoned one. s.mu must be held.
func (s *designService) activeLocked(id uint) *activeSession {
	active, ok := s.sessions[id]
	if !ok {
		return nil
	}
	if s.now().Sub(active.touched) > interactionTimeout {
		delete(s.sessions, id)
		return nil
	}
	return active
}

func (s *designService) CreateDesign(clientID string, userID *uint, input DesignInput) (*model.Design, error) {
	canvas := editor.Canvas{
		Width:               input.CanvasWidth,
		Height:              input.CanvasHeight,
		RotationAwareBounds: input.RotationAwareBounds,
	}
	doc, err := editor.NewDocument(canvas)
	if err != nil {
		return nil, err
	}

	design := &model.Design{
		ClientID:            clientID,
		UserID:              userID,
		ProductID:           input.ProductID,
		Name:                input.Name,
		CanvasWidth:         canvas.Width,
		CanvasHeight:        canvas.Height,
		RotationAwareBounds: canvas.RotationAwareBounds,
	}
	design.SetElements(doc)
	if err := s.repo.Create(design); err != nil {
		return nil, err
	}
	return design, nil
}

func (s *designService) GetDesign(clientID string, id uint) (*model.Design, error) {
	design, err := s.repo.FindByID(id)
	if err != nil {
		return nil, notFoundAs(err, ErrDesignNotFound)
	}
	if design.ClientID != clientID {
		return nil, ErrDesignNotFound
	}
	return design, nil
}

func (s *designService) AddImage(clientID string, id uint, input ImageInput) (*ElementResult, error) {
	design, err := s.GetDesign(clientID, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeLocked(id) != nil {
		return nil, editor.ErrInteractionActive
	}

	doc, err := design.LoadDocument()
	if err != nil {
		return nil, err
	}
	el, err := doc.AddImage(uuid.NewString(), input.Src, input.NaturalWidth, input.NaturalHeight)
	if err != nil {
		return nil, err
	}

	design.SetElements(doc)
	if err := s.repo.Save(design); err != nil {
		return nil, err
	}
	return &ElementResult{Element: el, Changed: true, Design: design}, nil
}

// ApplyOperation runs one editor operation server-side and persists the
// result only when something changed. It is refused while a drag or resize
// is in progress on the design.
func (s *designService) ApplyOperation(clientID string, id uint, elementID string, op editor.Operation) (*ElementResult, error) {
	design, err := s.GetDesign(clientID, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeLocked(id) != nil {
		return nil, editor.ErrInteractionActive
	}

	doc, err := design.LoadDocument()
	if err != nil {
		return nil, err
	}
	el, changed, err := doc.Apply(elementID, op)
	if err != nil {
		return nil, err
	}

	if changed {
		design.SetElements(doc)
		if err := s.repo.Save(design); err != nil {
			return nil, err
		}
	}
	return &ElementResult{Element: el, Changed: changed, Design: design}, nil
}

// Interact feeds one pointer event into the design's editor session. One
// drag or resize may be active per design; every move is persisted.
func (s *designService) Interact(clientID string, id uint, input InteractionInput) (*ElementResult, error) {
	design, err := s.GetDesign(clientID, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	active := s.activeLocked(id)

	switch input.Action {
	case ActionBeginDrag, ActionBeginResize:
		if active != nil {
			return nil, editor.ErrInteractionActive
		}
		doc, err := design.LoadDocument()
		if err != nil {
			return nil, err
		}
		session := editor.NewSession(doc)
		if input.Action == ActionBeginDrag {
			err = session.BeginDrag(input.ElementID, input.X, input.Y)
		} else {
			err = session.BeginResize(input.ElementID, input.Handle, input.X, input.Y)
		}
		if err != nil {
			return nil, err
		}
		s.sessions[id] = &activeSession{session: session, touched: s.now()}
		return &ElementResult{Element: *doc.Find(input.ElementID), Design: design}, nil

	case ActionMove:
		if active == nil {
			return nil, editor.ErrNoInteraction
		}
		doc := active.session.Document()
		before := doc.Find(active.session.ElementID())
		var previous editor.Element
		if before != nil {
			previous = *before
		}
		el, err := active.session.PointerMove(input.X, input.Y)
		if err != nil {
			if errors.Is(err, editor.ErrElementNotFound) {
				delete(s.sessions, id)
			}
			return nil, err
		}
		active.touched = s.now()

		changed := el != previous
		if changed {
			design.SetElements(doc)
			if err := s.repo.Save(design); err != nil {
				return nil, err
			}
		}
		return &ElementResult{Element: el, Changed: changed, Design: design}, nil

	case ActionEnd:
		if active == nil {
			return nil, editor.ErrNoInteraction
		}
		elementID := active.session.ElementID()
		_ = active.session.PointerUp()
		delete(s.sessions, id)
		result := &ElementResult{Design: design}
		if doc, err := design.LoadDocument(); err == nil {
			if el := doc.Find(elementID); el != nil {
				result.Element = *el
			}
		}
		return result, nil
	}
	return nil, editor.ErrUnknownOp
}
