package service

import (
	"context"
	"errors"
	"sort"

	"github.com/belugagoods/storefront-backend/internal/app/model"
	"github.com/belugagoods/storefront-backend/internal/app/repository"
	"github.com/belugagoods/storefront-backend/internal/cart"
	"github.com/belugagoods/storefront-backend/internal/clientstate"
	"github.com/belugagoods/storefront-backend/internal/metrics"
	"github.com/belugagoods/storefront-backend/pkg/logger"
	"github.com/belugagoods/storefront-backend/pkg/util"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrNoItemsSelected         = errors.New("no cart items selected")
	ErrInvalidOrderStatus      = errors.New("invalid order status")
	ErrInvalidStatusTransition = errors.New("order status transition not allowed")
)

type CheckoutInput struct {
	ShippingAddress model.ShippingAddress `json:"shipping_address"`
}

type OrderService interface {
	CreateOrderFromCart(ctx context.Context, userID uint, clientID string, input CheckoutInput) (*model.Order, *CartView, error)
	GetUserOrders(userID uint) ([]model.Order, error)
	GetOrderByID(userID, orderID uint) (*model.Order, error)
	ListOrders(status string, page, pageSize int) ([]model.Order, int64, error)
	UpdateOrderStatus(orderID uint, status string) (*model.Order, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	store     *clientstate.Store
	numbers   *util.OrderNumberGenerator
	metrics   *metrics.Metrics
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	store *clientstate.Store,
	numbers *util.OrderNumberGenerator,
	m *metrics.Metrics,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		store:     store,
		numbers:   numbers,
		metrics:   m,
	}
}

// CreateOrderFromCart claims the selected cart lines in one cart
// transaction, then places the order for them. Concurrent checkouts of the
// same client serialize on the cart, so a line is ordered at most once. If
// the order cannot be stored the claimed lines go back into the cart.
func (s *orderService) CreateOrderFromCart(ctx context.Context, userID uint, clientID string, input CheckoutInput) (*model.Order, *CartView, error) {
	var claimed []cart.Item
	remaining, err := s.store.UpdateCart(ctx, clientID, func(c *cart.Cart) error {
		claimed = c.RemoveSelected()
		if len(claimed) == 0 {
			return ErrNoItemsSelected
		}
		return nil
	})
	if errors.Is(err, ErrNoItemsSelected) {
		s.metrics.Checkout("empty")
		return nil, nil, err
	}
	if err != nil {
		s.metrics.Checkout("error")
		return nil, nil, err
	}

	summary := cart.Calculate(claimed)
	lines := make([]model.OrderLine, 0, len(claimed))
	for _, item := range claimed {
		lines = append(lines, model.OrderLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			NameKo:    item.NameKo,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Image:     item.Image,
			Options:   item.Options,
		})
	}

	order := &model.Order{
		OrderNumber:     s.numbers.Next(),
		UserID:          userID,
		Status:          model.OrderStatusPending,
		Subtotal:        summary.Subtotal,
		ShippingFee:     summary.ShippingFee,
		TotalAmount:     summary.Total,
		ShippingAddress: datatypes.NewJSONType(input.ShippingAddress),
		OrderItems:      datatypes.NewJSONType(lines),
	}
	if err := s.orderRepo.Create(order); err != nil {
		s.metrics.Checkout("error")
		s.restoreClaimed(ctx, clientID, claimed)
		return nil, nil, err
	}
	s.metrics.Checkout("success")

	logger.Info("Order created from cart", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"user_id":      userID,
		"total_amount": order.TotalAmount,
	})
	return order, newCartView(remaining), nil
}

// restoreClaimed puts lines taken for a failed order back into the cart,
// selected and in id order.
func (s *orderService) restoreClaimed(ctx context.Context, clientID string, claimed []cart.Item) {
	_, err := s.store.UpdateCart(ctx, clientID, func(c *cart.Cart) error {
		c.Items = append(c.Items, claimed...)
		sort.SliceStable(c.Items, func(i, j int) bool { return c.Items[i].ID < c.Items[j].ID })
		c.Normalize()
		return nil
	})
	if err != nil {
		logger.Error("Failed to restore cart after checkout failure", err, map[string]interface{}{
			"client_id": clientID,
			"items":     len(claimed),
		})
	}
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	orders, err := s.orderRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, nil
}

func (s *orderService) GetOrderByID(userID, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) ListOrders(status string, page, pageSize int) ([]model.Order, int64, error) {
	page, pageSize = normalizePage(page, pageSize)
	filter := repository.OrderFilter{Limit: pageSize, Offset: (page - 1) * pageSize}
	if status != "" {
		st, err := model.ParseOrderStatus(status)
		if err != nil {
			return nil, 0, ErrInvalidOrderStatus
		}
		filter.Status = &st
	}

	orders, total, err := s.orderRepo.FindAll(filter)
	if err != nil {
		return nil, 0, err
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, total, nil
}

func (s *orderService) UpdateOrderStatus(orderID uint, status string) (*model.Order, error) {
	next, err := model.ParseOrderStatus(status)
	if err != nil {
		return nil, ErrInvalidOrderStatus
	}

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if !order.Status.CanTransitionTo(next) {
		logger.Warn("Rejected order status transition", map[string]interface{}{
			"order_id": orderID,
			"from":     order.Status,
			"to":       next,
		})
		return nil, ErrInvalidStatusTransition
	}

	if err := s.orderRepo.UpdateStatus(orderID, order.Status, next); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// someone else moved it first
			return nil, ErrInvalidStatusTransition
		}
		return nil, err
	}

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": orderID,
		"from":     order.Status,
		"to":       next,
	})
	order.Status = next
	return order, nil
}
