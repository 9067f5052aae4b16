package service

import (
	"context"
	"errors"

	"github.com/belugagoods/storefront-backend/internal/cart"
	"github.com/belugagoods/storefront-backend/internal/clientstate"
	"github.com/belugagoods/storefront-backend/internal/metrics"
	"github.com/belugagoods/storefront-backend/pkg/logger"
)

var ErrCartItemNotFound = cart.ErrItemNotFound

// CartView is the cart as the storefront renders it: items plus the totals
// of the current selection.
type CartView struct {
	Items       []cart.Item  `json:"items"`
	Summary     cart.Summary `json:"summary"`
	AllSelected bool         `json:"all_selected"`
}

func newCartView(c *cart.Cart) *CartView {
	items := c.Items
	if items == nil {
		items = []cart.Item{}
	}
	return &CartView{
		Items:       items,
		Summary:     c.Totals(),
		AllSelected: c.AllSelected(),
	}
}

type AddToCartInput struct {
	ProductID uint              `json:"product_id" binding:"required"`
	Quantity  int               `json:"quantity" binding:"required,min=1"`
	Options   map[string]string `json:"options"`
}

type CartService interface {
	GetCart(ctx context.Context, clientID string) (*CartView, error)
	AddToCart(ctx context.Context, clientID string, input AddToCartInput) (*CartView, error)
	UpdateQuantity(ctx context.Context, clientID string, itemID uint, quantity int) (*CartView, error)
	RemoveFromCart(ctx context.Context, clientID string, itemID uint) (*CartView, error)
	ToggleSelection(ctx context.Context, clientID string, itemID uint) (*CartView, error)
	ToggleSelectAll(ctx context.Context, clientID string) (*CartView, error)
	ClearCart(ctx context.Context, clientID string) (*CartView, error)
}

type cartService struct {
	store    *clientstate.Store
	products ProductService
	metrics  *metrics.Metrics
}

func NewCartService(store *clientstate.Store, products ProductService, m *metrics.Metrics) CartService {
	return &cartService{store: store, products: products, metrics: m}
}

func (s *cartService) GetCart(ctx context.Context, clientID string) (*CartView, error) {
	c, err := s.store.LoadCart(ctx, clientID)
	if err != nil {
		logger.Error("Failed to load cart", err, map[string]interface{}{
			"client_id": clientID,
		})
		return nil, err
	}
	return newCartView(c), nil
}

func (s *cartService) mutate(ctx context.Context, clientID, action string, fn func(*cart.Cart) error) (*CartView, error) {
	c, err := s.store.UpdateCart(ctx, clientID, fn)
	if err != nil {
		if !errors.Is(err, cart.ErrItemNotFound) && !errors.Is(err, cart.ErrInvalidQuantity) &&
			!errors.Is(err, cart.ErrAmountTooLarge) {
			logger.Error("Failed to update cart", err, map[string]interface{}{
				"client_id": clientID,
				"action":    action,
			})
		}
		return nil, err
	}
	s.metrics.CartMutation(action)
	return newCartView(c), nil
}

// AddToCart snapshots the product's current name, price and image into the
// cart line.
func (s *cartService) AddToCart(ctx context.Context, clientID string, input AddToCartInput) (*CartView, error) {
	product, err := s.products.GetProductByID(input.ProductID)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, clientID, "add", func(c *cart.Cart) error {
		_, err := c.Add(cart.Item{
			ProductID: product.ID,
			Name:      product.Name,
			NameKo:    product.NameKo,
			Price:     product.PriceWon(),
			Quantity:  input.Quantity,
			Image:     product.ImageURL,
			Options:   input.Options,
		})
		return err
	})
}

func (s *cartService) UpdateQuantity(ctx context.Context, clientID string, itemID uint, quantity int) (*CartView, error) {
	return s.mutate(ctx, clientID, "quantity", func(c *cart.Cart) error {
		_, err := c.UpdateQuantity(itemID, quantity)
		return err
	})
}

func (s *cartService) RemoveFromCart(ctx context.Context, clientID string, itemID uint) (*CartView, error) {
	return s.mutate(ctx, clientID, "remove", func(c *cart.Cart) error {
		return c.Remove(itemID)
	})
}

func (s *cartService) ToggleSelection(ctx context.Context, clientID string, itemID uint) (*CartView, error) {
	return s.mutate(ctx, clientID, "select", func(c *cart.Cart) error {
		_, err := c.ToggleSelection(itemID)
		return err
	})
}

func (s *cartService) ToggleSelectAll(ctx context.Context, clientID string) (*CartView, error) {
	return s.mutate(ctx, clientID, "select_all", func(c *cart.Cart) error {
		c.ToggleSelectAll()
		return nil
	})
}

func (s *cartService) ClearCart(ctx context.Context, clientID string) (*CartView, error) {
	return s.mutate(ctx, clientID, "clear", func(c *cart.Cart) error {
		c.Clear()
		return nil
	})
}
