package controller

import (
	"errors"
	"net/http"

	"github.com/belugagoods/storefront-backend/internal/app/service"
	"github.com/belugagoods/storefront-backend/internal/editor"
	apperrors "github.com/belugagoods/storefront-backend/internal/errors"
	"github.com/belugagoods/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type DesignController struct {
	designService service.DesignService
}

func NewDesignController(designService service.DesignService) *DesignController {
	return &DesignController{designService: designService}
}

func (ctrl *DesignController) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDesignNotFound):
		apperrors.NotFound(c, apperrors.DesignNotFound, "디자인을 찾을 수 없습니다")
	case errors.Is(err, editor.ErrElementNotFound):
		apperrors.NotFound(c, apperrors.DesignElementNotFound, "요소를 찾을 수 없습니다")
	case errors.Is(err, editor.ErrInvalidCanvas):
		apperrors.BadRequest(c, apperrors.DesignInvalidCanvas, "캔버스는 20px 이상이어야 합니다")
	case errors.Is(err, editor.ErrUnknownOp), errors.Is(err, editor.ErrInvalidHandle), errors.Is(err, editor.ErrInvalidAxis):
		apperrors.BadRequest(c, apperrors.DesignInvalidOp, "잘못된 편집 동작입니다")
	case errors.Is(err, editor.ErrInteractionActive):
		apperrors.Conflict(c, apperrors.DesignInteractionActive, "다른 편집 동작이 진행 중입니다")
	case errors.Is(err, editor.ErrNoInteraction):
		apperrors.Conflict(c, apperrors.DesignNoInteraction, "진행 중인 편집 동작이 없습니다")
	case errors.Is(err, editor.ErrInvalidDocument):
		middleware.GetLoggerFromContext(c).Error("Stored design is invalid", err, nil)
		apperrors.InternalError(c, "디자인 데이터가 손상되었습니다")
	case errors.Is(err, editor.ErrInvalidImage), errors.Is(err, editor.ErrImageTooNarrow):
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "이미지를 캔버스에 배치할 수 없습니다")
	default:
		middleware.GetLoggerFromContext(c).Error("Design request failed", err, nil)
		apperrors.RespondWithDBError(c, err, "디자인")
	}
}

// CreateDesign starts an empty canvas owned by the client
// POST /api/designs
func (ctrl *DesignController) CreateDesign(c *gin.Context) {
	clientID, ok := requireClientID(c)
	if !ok {
		return
	}

	var req service.DesignInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	var userID *uint
	if id, ok := middleware.GetUserID(c); ok {
		userID = &id
	}

	design, err := ctrl.designService.CreateDesign(clientID, userID, req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"design": design})
}

// GetDesign
// GET /api/designs/:id
func (ctrl *DesignController) GetDesign(c *gin.Context) {
	clientID, ok := requireClientID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	design, err := ctrl.designService.GetDesign(clientID, id)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"design": design})
}

// AddImage places an uploaded image on the canvas
// POST /api/designs/:id/elements
func (ctrl *DesignController) AddImage(c *gin.Context) {
	clientID, ok := requireClientID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.ImageInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	result, err := ctrl.designService.AddImage(clientID, id, req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// ApplyOperation moves, resizes, rotates, flips, locks or deletes an element
// POST /api/designs/:id/elements/:elementId/ops
func (ctrl *DesignController) ApplyOperation(c *gin.Context) {
	clientID, ok := requireClientID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var op editor.Operation
	if err := c.ShouldBindJSON(&op); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	result, err := ctrl.designService.ApplyOperation(clientID, id, c.Param("elementId"), op)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Interact streams pointer events for a drag or resize: begin_drag or
// begin_resize, any number of move, then end
// POST /api/designs/:id/interaction
func (ctrl *DesignController) Interact(c *gin.Context) {
	clientID, ok := requireClientID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.InteractionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	result, err := ctrl.designService.Interact(clientID, id, req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
