package controller

import (
	"errors"
	"net/http"

	"github.com/belugagoods/storefront-backend/internal/app/model"
	"github.com/belugagoods/storefront-backend/internal/app/service"
	apperrors "github.com/belugagoods/storefront-backend/internal/errors"
	"github.com/belugagoods/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type adminOrderQuery struct {
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

func (ctrl *OrderController) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		apperrors.NotFound(c, apperrors.OrderNotFound, "주문을 찾을 수 없습니다")
	case errors.Is(err, service.ErrNoItemsSelected):
		apperrors.BadRequest(c, apperrors.OrderNoItemsSelected, "주문할 상품을 선택해주세요")
	case errors.Is(err, service.ErrInvalidOrderStatus):
		apperrors.BadRequest(c, apperrors.OrderInvalidStatus, "잘못된 주문 상태입니다")
	case errors.Is(err, service.ErrInvalidStatusTransition):
		apperrors.Conflict(c, apperrors.OrderInvalidTransition, "현재 상태에서 변경할 수 없습니다")
	default:
		middleware.GetLoggerFromContext(c).Error("Order request failed", err, nil)
		apperrors.RespondWithDBError(c, err, "주문")
	}
}

// ownerOrAdmin allows a user to read only their own orders unless they are
// an admin.
func ownerOrAdmin(c *gin.Context, ownerID uint) bool {
	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)
	if userID == ownerID || role == model.RoleAdmin {
		return true
	}
	apperrors.Forbidden(c, "다른 사용자의 주문은 볼 수 없습니다")
	return false
}

// GetOrders returns the current user's orders
// GET /api/orders
func (ctrl *OrderController) GetOrders(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	orders, err := ctrl.orderService.GetUserOrders(userID)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetUserOrders
// GET /api/orders/:userId
func (ctrl *OrderController) GetUserOrders(c *gin.Context) {
	ownerID, ok := parseIDParam(c, "userId")
	if !ok || !ownerOrAdmin(c, ownerID) {
		return
	}

	orders, err := ctrl.orderService.GetUserOrders(ownerID)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrder
// GET /api/orders/:userId/:orderId
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	ownerID, ok := parseIDParam(c, "userId")
	if !ok || !ownerOrAdmin(c, ownerID) {
		return
	}
	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}

	order, err := ctrl.orderService.GetOrderByID(ownerID, orderID)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// CreateOrder checks out the selected cart lines
// POST /api/orders
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	clientID, ok := requireClientID(c)
	if !ok {
		return
	}

	var req service.CheckoutInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	order, cartView, err := ctrl.orderService.CreateOrderFromCart(c.Request.Context(), userID, clientID, req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	username, _ := middleware.GetUsername(c)
	log.Info("Order created successfully", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"username":     username,
	})

	c.JSON(http.StatusCreated, gin.H{
		"order": order,
		"cart":  cartView,
	})
}

// ListOrders (Admin only)
// GET /api/admin/orders?status=&page=&page_size=
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	var q adminOrderQuery
	if !bindQuery(c, &q) {
		return
	}

	orders, total, err := ctrl.orderService.ListOrders(q.Status, q.Page, q.PageSize)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
	})
}

// UpdateOrderStatus (Admin only)
// PATCH /api/admin/orders/:id/status
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	order, err := ctrl.orderService.UpdateOrderStatus(orderID, req.Status)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	middleware.GetLoggerFromContext(c).Info("Order status updated", map[string]interface{}{
		"order_id": orderID,
		"status":   order.Status,
	})
	c.JSON(http.StatusOK, gin.H{"order": order})
}
