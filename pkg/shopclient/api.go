package shopclient

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// ListCategories
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var resp struct {
		Categories []Category `json:"categories"`
	}
	if err := c.get(ctx, categoriesPath, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

// ListProducts
func (c *Client) ListProducts(ctx context.Context, query ProductQuery) (*ProductPage, error) {
	var page ProductPage
	if err := c.get(ctx, productsPath, query.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetProduct
func (c *Client) GetProduct(ctx context.Context, id uint) (*Product, error) {
	var resp struct {
		Product Product `json:"product"`
	}
	if err := c.get(ctx, productPath(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Product, nil
}

// CreateProduct requires an admin session or admin token.
func (c *Client) CreateProduct(ctx context.Context, input ProductInput) (*Product, error) {
	var resp struct {
		Product Product `json:"product"`
	}
	if err := c.send(ctx, http.MethodPost, productsPath, input, &resp); err != nil {
		return nil, err
	}
	c.Invalidate(productsPath)
	return &resp.Product, nil
}

// UpdateProduct requires an admin session or admin token.
func (c *Client) UpdateProduct(ctx context.Context, id uint, patch ProductPatch) (*Product, error) {
	var resp struct {
		Product Product `json:"product"`
	}
	if err := c.send(ctx, http.MethodPatch, productPath(id), patch, &resp); err != nil {
		return nil, err
	}
	c.Invalidate(productsPath)
	return &resp.Product, nil
}

// DeleteProduct requires an admin session or admin token.
func (c *Client) DeleteProduct(ctx context.Context, id uint) error {
	if err := c.send(ctx, http.MethodDelete, productPath(id), nil, nil); err != nil {
		return err
	}
	c.Invalidate(productsPath)
	return nil
}

// UpdateProductOptimistic applies patch to every cached copy of the product
// before the request goes out. On failure the cached copies are restored
// and the error returned; on success the product prefix is invalidated so
// the next read re-fetches.
func (c *Client) UpdateProductOptimistic(ctx context.Context, id uint, patch ProductPatch) (*Product, error) {
	snapshot := c.patchCached(id, patch)

	product, err := c.UpdateProduct(ctx, id, patch)
	if err != nil {
		for key, original := range snapshot {
			c.cache.Add(key, original)
		}
		return nil, err
	}
	return product, nil
}

// patchCached rewrites cached detail and list entries that contain product
// id and returns the original bytes by key.
func (c *Client) patchCached(id uint, patch ProductPatch) map[string][]byte {
	snapshot := map[string][]byte{}
	detail := productPath(id)

	for _, key := range c.cache.Keys() {
		k, ok := key.(string)
		if !ok || !strings.HasPrefix(k, productsPath) {
			continue
		}
		raw, ok := c.cache.Peek(k)
		if !ok {
			continue
		}
		original := raw.([]byte)

		var patched []byte
		switch {
		case k == detail:
			var resp struct {
				Product Product `json:"product"`
			}
			if json.Unmarshal(original, &resp) != nil {
				continue
			}
			patch.apply(&resp.Product)
			patched, _ = json.Marshal(resp)
		case k == productsPath || strings.HasPrefix(k, productsPath+"?"):
			var page ProductPage
			if json.Unmarshal(original, &page) != nil {
				continue
			}
			found := false
			for i := range page.Products {
				if page.Products[i].ID == id {
					patch.apply(&page.Products[i])
					found = true
				}
			}
			if !found {
				continue
			}
			patched, _ = json.Marshal(page)
		default:
			continue
		}

		if patched != nil {
			snapshot[k] = original
			c.cache.Add(k, patched)
		}
	}
	return snapshot
}

// Login stores the access token for later calls.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	var session Session
	err := c.send(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &session)
	if err != nil {
		return nil, err
	}
	c.SetToken(session.Tokens.AccessToken)
	return &session, nil
}

// Register creates an account and logs in with it.
func (c *Client) Register(ctx context.Context, username, email, password string) (*Session, error) {
	var session Session
	err := c.send(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"username":         username,
		"email":            email,
		"password":         password,
		"password_confirm": password,
	}, &session)
	if err != nil {
		return nil, err
	}
	c.SetToken(session.Tokens.AccessToken)
	return &session, nil
}

// Logout revokes the current token server-side and forgets it.
func (c *Client) Logout(ctx context.Context) error {
	err := c.send(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	c.SetToken("")
	return err
}

// Me
func (c *Client) Me(ctx context.Context) (*User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := c.send(ctx, http.MethodGet, "/api/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func cartItemPath(id uint) string {
	return "/api/cart/" + strconv.FormatUint(uint64(id), 10)
}

// GetCart
func (c *Client) GetCart(ctx context.Context) (*Cart, error) {
	var cart Cart
	if err := c.send(ctx, http.MethodGet, "/api/cart", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddToCart
func (c *Client) AddToCart(ctx context.Context, productID uint, quantity int, options map[string]string) (*Cart, error) {
	var cart Cart
	err := c.send(ctx, http.MethodPost, "/api/cart", map[string]interface{}{
		"product_id": productID,
		"quantity":   quantity,
		"options":    options,
	}, &cart)
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpdateCartQuantity; quantities below 1 leave the item unchanged.
func (c *Client) UpdateCartQuantity(ctx context.Context, itemID uint, quantity int) (*Cart, error) {
	var cart Cart
	if err := c.send(ctx, http.MethodPut, cartItemPath(itemID), map[string]int{"quantity": quantity}, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// RemoveCartItem
func (c *Client) RemoveCartItem(ctx context.Context, itemID uint) (*Cart, error) {
	var cart Cart
	if err := c.send(ctx, http.MethodDelete, cartItemPath(itemID), nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// ToggleCartSelection
func (c *Client) ToggleCartSelection(ctx context.Context, itemID uint) (*Cart, error) {
	var cart Cart
	if err := c.send(ctx, http.MethodPatch, cartItemPath(itemID)+"/select", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// ToggleSelectAll
func (c *Client) ToggleSelectAll(ctx context.Context) (*Cart, error) {
	var cart Cart
	if err := c.send(ctx, http.MethodPost, "/api/cart/select-all", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// Checkout orders the selected cart items and returns the remaining cart.
func (c *Client) Checkout(ctx context.Context, address ShippingAddress) (*Order, *Cart, error) {
	var resp struct {
		Order Order `json:"order"`
		Cart  Cart  `json:"cart"`
	}
	err := c.send(ctx, http.MethodPost, "/api/orders", map[string]interface{}{
		"shipping_address": address,
	}, &resp)
	if err != nil {
		return nil, nil, err
	}
	return &resp.Order, &resp.Cart, nil
}

// AdminLogin opens an admin session; the cookie is kept for later calls.
func (c *Client) AdminLogin(ctx context.Context, password string) error {
	return c.send(ctx, http.MethodPost, "/api/admin/login", map[string]string{"password": password}, nil)
}

// AdminLogout
func (c *Client) AdminLogout(ctx context.Context) error {
	return c.send(ctx, http.MethodPost, "/api/admin/logout", nil, nil)
}

// AdminStatus
func (c *Client) AdminStatus(ctx context.Context) (*AdminStatus, error) {
	var status AdminStatus
	if err := c.send(ctx, http.MethodGet, "/api/admin/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
