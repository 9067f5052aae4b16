package controller

import (
	"errors"
	"net/http"

	"github.com/belugagoods/storefront-backend/internal/app/service"
	"github.com/belugagoods/storefront-backend/internal/cart"
	apperrors "github.com/belugagoods/storefront-backend/internal/errors"
	"github.com/belugagoods/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type UpdateCartItemRequest struct {
	// 0 이하는 무시됨
	Quantity int `json:"quantity"`
}

func (ctrl *CartController) respond(c *gin.Context, status int, view *service.CartView, err error) {
	if err == nil {
		c.JSON(status, view)
		return
	}

	switch {
	case errors.Is(err, service.ErrCartItemNotFound):
		apperrors.NotFound(c, apperrors.CartItemNotFound, "장바구니 항목을 찾을 수 없습니다")
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "상품을 찾을 수 없습니다")
	case errors.Is(err, cart.ErrInvalidQuantity):
		apperrors.BadRequest(c, apperrors.CartInvalidQuantity, "수량은 1개 이상이어야 합니다")
	case errors.Is(err, cart.ErrAmountTooLarge):
		apperrors.BadRequest(c, apperrors.CartInvalidQuantity, "주문 가능한 수량을 초과했습니다")
	default:
		middleware.GetLoggerFromContext(c).Error("Cart request failed", err, map[string]interface{}{
			"client_id": middleware.GetClientID(c),
		})
		apperrors.InternalError(c, "")
	}
}

// GetCart
// GET /api/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	clientID, ok := requireClientID(c)
	if !ok {
		return
	}
	view, err := ctrl.cartService.GetCart(c.Request.Context(), clientID)
	ctrl.respond(c, http.StatusOK, view, err)
}

// AddToCart
// POST /api/cart
func (ctrl *CartController) AddToCart(c *gin.Context) {
	clientID, ok := requireClientID(c)
	if !ok {
		return
	}

	var req service.AddToCartInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	view, err := ctrl.cartService.AddToCart(c.Request.Context(), clientID, req)
	ctrl.respond(c, http.StatusOK, view, err)
}

// UpdateCartItem
// PUT /api/cart/:id
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
	clientID, ok := requireClientID(c)
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	view, err := ctrl.cartService.UpdateQuantity(c.Request.Context(), clientID, itemID, req.Quantity)
	ctrl.respond(c, http.StatusOK, view, err)
}

// RemoveFromCart
// DELETE /api/cart/:id
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	clientID, ok := requireClientID(c)
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	view, err := ctrl.cartService.RemoveFromCart(c.Request.Context(), clientID, itemID)
	ctrl.respond(c, http.StatusOK, view, err)
}

// ToggleSelection
// PATCH /api/cart/:id/select
func (ctrl *CartController) ToggleSelection(c *gin.Context) {
	clientID, ok := requireClientID(c)
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	view, err := ctrl.cartService.ToggleSelection(c.Request.Context(), clientID, itemID)
	ctrl.respond(c, http.StatusOK, view, err)
}

// ToggleSelectAll
// POST /api/cart/select-all
func (ctrl *CartController) ToggleSelectAll(c *gin.Context) {
	clientID, ok := requireClientID(c)
	if !ok {
		return
	}
	view, err := ctrl.cartService.ToggleSelectAll(c.Request.Context(), clientID)
	ctrl.respond(c, http.StatusOK, view, err)
}

// ClearCart
// DELETE /api/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	clientID, ok := requireClientID(c)
	if !ok {
		return
	}
	view, err := ctrl.cartService.ClearCart(c.Request.Context(), clientID)
	ctrl.respond(c, http.StatusOK, view, err)
}
