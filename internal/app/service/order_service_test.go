package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/belugagoods/storefront-backend/internal/app/model"
	"github.com/belugagoods/storefront-backend/internal/app/repository"
	"github.com/belugagoods/storefront-backend/internal/cart"
	"github.com/belugagoods/storefront-backend/internal/clientstate"
	"github.com/belugagoods/storefront-backend/internal/metrics"
	"github.com/belugagoods/storefront-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAddress = model.ShippingAddress{
	RecipientName: "김벨루",
	Phone:         "010-1234-5678",
	ZipCode:       "06236",
	Address1:      "서울시 강남구 테헤란로 1",
}

func setupOrderServiceTest(t *testing.T) (OrderService, *clientstate.Store, *model.User, *metrics.Metrics) {
	testDB := setupTestDB(t)
	store := newTestStore(t, nil)
	numbers, err := util.NewOrderNumberGenerator(1)
	require.NoError(t, err)
	m := metrics.New()

	svc := NewOrderService(repository.NewOrderRepository(testDB), store, numbers, m)
	return svc, store, seedUser(t, testDB, "buyer"), m
}

func TestOrderService_CreateOrderFromCart_Seed(t *testing.T) {
	svc, store, user, _ := setupOrderServiceTest(t)
	ctx := context.Background()

	order, remaining, err := svc.CreateOrderFromCart(ctx, user.ID, "client-1", CheckoutInput{ShippingAddress: testAddress})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(order.OrderNumber, "BG"))
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, int64(38300), order.Subtotal)
	assert.Equal(t, int64(3000), order.ShippingFee)
	assert.Equal(t, int64(41300), order.TotalAmount)
	assert.Len(t, order.OrderItems.Data(), 3)
	assert.Equal(t, "김벨루", order.ShippingAddress.Data().RecipientName)

	require.NotNil(t, remaining)
	assert.Empty(t, remaining.Items)

	persisted, err := store.LoadCart(ctx, "client-1")
	require.NoError(t, err)
	assert.Empty(t, persisted.Items)
}

func TestOrderService_CreateOrderFromCart_OnlySelected(t *testing.T) {
	svc, store, user, _ := setupOrderServiceTest(t)
	ctx := context.Background()

	// keep only the mug selected
	_, err := store.UpdateCart(ctx, "client-1", func(c *cart.Cart) error {
		if _, err := c.ToggleSelection(1); err != nil {
			return err
		}
		_, err := c.ToggleSelection(2)
		return err
	})
	require.NoError(t, err)

	order, remaining, err := svc.CreateOrderFromCart(ctx, user.ID, "client-1", CheckoutInput{ShippingAddress: testAddress})
	require.NoError(t, err)
	assert.Equal(t, int64(15000), order.Subtotal)
	assert.Equal(t, int64(3000), order.ShippingFee)
	assert.Equal(t, int64(18000), order.TotalAmount)

	require.Len(t, remaining.Items, 2)
	for _, item := range remaining.Items {
		assert.NotEqual(t, uint(3), item.ID)
		assert.False(t, item.Selected)
	}
}

func TestOrderService_CreateOrderFromCart_NothingSelected(t *testing.T) {
	svc, store, user, m := setupOrderServiceTest(t)
	ctx := context.Background()

	_, err := store.UpdateCart(ctx, "client-1", func(c *cart.Cart) error {
		c.ToggleSelectAll()
		return nil
	})
	require.NoError(t, err)

	_, _, err = svc.CreateOrderFromCart(ctx, user.ID, "client-1", CheckoutInput{ShippingAddress: testAddress})
	assert.ErrorIs(t, err, ErrNoItemsSelected)

	expected := `
# HELP beluga_checkouts_total Checkout attempts by outcome.
# TYPE beluga_checkouts_total counter
beluga_checkouts_total{outcome="empty"} 1
`
	assert.NoError(t, testutilGather(m, expected, "beluga_checkouts_total"))

	persisted, err := store.LoadCart(ctx, "client-1")
	require.NoError(t, err)
	assert.Len(t, persisted.Items, 3)
}

func TestOrderService_CreateOrderFromCart_ConcurrentCheckout(t *testing.T) {
	svc, store, user, m := setupOrderServiceTest(t)
	ctx := context.Background()
	_, err := store.LoadCart(ctx, "client-1")
	require.NoError(t, err)

	const attempts = 8
	var (
		wg        sync.WaitGroup
		succeeded int32
		empty     int32
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := svc.CreateOrderFromCart(ctx, user.ID, "client-1", CheckoutInput{ShippingAddress: testAddress})
			switch {
			case err == nil:
				atomic.AddInt32(&succeeded, 1)
			case errors.Is(err, ErrNoItemsSelected):
				atomic.AddInt32(&empty, 1)
			default:
				t.Errorf("unexpected checkout error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded)
	assert.Equal(t, int32(attempts-1), empty)

	orders, err := svc.GetUserOrders(user.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(41300), orders[0].TotalAmount)

	expected := `
# HELP beluga_checkouts_total Checkout attempts by outcome.
# TYPE beluga_checkouts_total counter
beluga_checkouts_total{outcome="empty"} 7
beluga_checkouts_total{outcome="success"} 1
`
	assert.NoError(t, testutilGather(m, expected, "beluga_checkouts_total"))
}

type failingOrderRepo struct {
	repository.OrderRepository
}

func (failingOrderRepo) Create(*model.Order) error {
	return errors.New("insert failed")
}

func TestOrderService_CreateOrderFromCart_RestoresCartOnFailure(t *testing.T) {
	store := newTestStore(t, nil)
	numbers, err := util.NewOrderNumberGenerator(1)
	require.NoError(t, err)
	svc := NewOrderService(failingOrderRepo{}, store, numbers, metrics.New())
	ctx := context.Background()

	// 머그컵 선택 해제
	_, err = store.UpdateCart(ctx, "client-1", func(c *cart.Cart) error {
		_, err := c.ToggleSelection(3)
		return err
	})
	require.NoError(t, err)

	_, _, err = svc.CreateOrderFromCart(ctx, 1, "client-1", CheckoutInput{ShippingAddress: testAddress})
	require.Error(t, err)

	restored, err := store.LoadCart(ctx, "client-1")
	require.NoError(t, err)
	require.Len(t, restored.Items, 3)
	for i, item := range restored.Items {
		assert.Equal(t, uint(i+1), item.ID)
	}
	assert.False(t, restored.Items[2].Selected)
	assert.Equal(t, int64(23300), restored.Totals().Subtotal)
	assert.Equal(t, uint(4), restored.NextID)
}

func TestOrderService_GetOrders(t *testing.T) {
	svc, _, user, _ := setupOrderServiceTest(t)
	ctx := context.Background()

	order, _, err := svc.CreateOrderFromCart(ctx, user.ID, "client-1", CheckoutInput{ShippingAddress: testAddress})
	require.NoError(t, err)

	orders, err := svc.GetUserOrders(user.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	found, err := svc.GetOrderByID(user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, found.OrderNumber)

	_, err = svc.GetOrderByID(user.ID+1, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = svc.GetOrderByID(user.ID, 999)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	none, err := svc.GetUserOrders(user.ID + 1)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	svc, _, user, _ := setupOrderServiceTest(t)
	ctx := context.Background()

	order, _, err := svc.CreateOrderFromCart(ctx, user.ID, "client-1", CheckoutInput{ShippingAddress: testAddress})
	require.NoError(t, err)

	_, err = svc.UpdateOrderStatus(order.ID, "refunded")
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)

	_, err = svc.UpdateOrderStatus(order.ID, "shipped")
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	for _, next := range []string{"paid", "preparing", "shipped", "delivered"} {
		updated, err := svc.UpdateOrderStatus(order.ID, next)
		require.NoError(t, err, next)
		assert.Equal(t, model.OrderStatus(next), updated.Status)
	}

	_, err = svc.UpdateOrderStatus(order.ID, "cancelled")
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	_, err = svc.UpdateOrderStatus(999, "paid")
	assert.ErrorIs(t, err, ErrOrderNotFound)

	orders, total, err := svc.ListOrders("delivered", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, orders, 1)

	_, _, err = svc.ListOrders("lost", 1, 10)
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)
}
