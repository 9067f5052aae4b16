// Package cart holds the shopping cart state machine: per-item quantity and
// selection, and the totals derived from the selected items.
package cart

import (
	"errors"
	"maps"
	"math"
)

const (
	// FreeShippingThreshold is the selected subtotal (won) at which shipping is free.
	FreeShippingThreshold int64 = 50000
	// ShippingFee is charged below the threshold, including for an empty selection.
	ShippingFee int64 = 3000
)

var (
	ErrItemNotFound    = errors.New("cart item not found")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrAmountTooLarge  = errors.New("cart amount out of range")
)

// Item is one cart line. Price is in won.
type Item struct {
	ID        uint              `json:"id"`
	ProductID uint              `json:"product_id,omitempty"`
	Name      string            `json:"name"`
	NameKo    string            `json:"name_ko"`
	Price     int64             `json:"price"`
	Quantity  int               `json:"quantity"`
	Image     string            `json:"image,omitempty"`
	Options   map[string]string `json:"options,omitempty"`
	Selected  bool              `json:"selected"`
}

// LineTotal is price times quantity.
func (i Item) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}

// maxAmount leaves room for the shipping fee on top of any subtotal.
const maxAmount = math.MaxInt64 - ShippingFee

// checkedLineTotal is LineTotal that reports overflow instead of wrapping.
func (i Item) checkedLineTotal() (int64, bool) {
	if i.Price < 0 || i.Quantity < 0 {
		return 0, false
	}
	if i.Price != 0 && int64(i.Quantity) > maxAmount/i.Price {
		return 0, false
	}
	return i.LineTotal(), true
}

// CheckAmounts verifies that every line total, the sum of all line totals and
// the total quantity fit, whatever is selected later.
func (c *Cart) CheckAmounts() error {
	var sum int64
	quantity := 0
	for _, item := range c.Items {
		line, ok := item.checkedLineTotal()
		if !ok || line > maxAmount-sum {
			return ErrAmountTooLarge
		}
		sum += line
		if item.Quantity > math.MaxInt32-quantity {
			return ErrAmountTooLarge
		}
		quantity += item.Quantity
	}
	return nil
}

// Cart is the persisted cart record. NextID is the id the next added item gets.
type Cart struct {
	Items  []Item `json:"items"`
	NextID uint   `json:"next_id"`
}

// Summary is derived from the selected items only.
type Summary struct {
	Subtotal      int64 `json:"subtotal"`
	ShippingFee   int64 `json:"shipping_fee"`
	Total         int64 `json:"total"`
	SelectedCount int   `json:"selected_count"`
	ItemCount     int   `json:"item_count"`
	Quantity      int   `json:"quantity"`
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{Items: []Item{}, NextID: 1}
}

// SampleItems is the cart a client sees before it has ever persisted one.
func SampleItems() []Item {
	return []Item{
		{ID: 1, Name: "Beluga Keyring", NameKo: "벨루가 키링", Price: 8900, Quantity: 2, Selected: true},
		{ID: 2, Name: "Beluga Sticker", NameKo: "벨루가 스티커", Price: 5500, Quantity: 1, Selected: true},
		{ID: 3, Name: "Beluga Mug", NameKo: "벨루가 머그컵", Price: 15000, Quantity: 1, Selected: true},
	}
}

// NewSample returns a cart seeded with SampleItems.
func NewSample() *Cart {
	c := &Cart{Items: SampleItems()}
	c.Normalize()
	return c
}

// Normalize repairs a decoded cart: nil slices, NextID below the highest id,
// and quantities that fell under 1.
func (c *Cart) Normalize() {
	if c.Items == nil {
		c.Items = []Item{}
	}
	var maxID uint
	for i := range c.Items {
		if c.Items[i].ID > maxID {
			maxID = c.Items[i].ID
		}
		if c.Items[i].Quantity < 1 {
			c.Items[i].Quantity = 1
		}
	}
	if c.NextID <= maxID {
		c.NextID = maxID + 1
	}
}

func (c *Cart) index(id uint) int {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// Get returns a copy of the item with id.
func (c *Cart) Get(id uint) (Item, bool) {
	if i := c.index(id); i >= 0 {
		return c.Items[i], true
	}
	return Item{}, false
}

// Add appends item as a new selected line, or merges its quantity into an
// existing line for the same product and options. It returns the resulting line.
func (c *Cart) Add(item Item) (Item, error) {
	if item.Quantity < 1 {
		return Item{}, ErrInvalidQuantity
	}
	if item.Price < 0 {
		return Item{}, ErrInvalidPrice
	}
	c.Normalize()

	if item.ProductID != 0 {
		for i := range c.Items {
			existing := &c.Items[i]
			if existing.ProductID == item.ProductID && maps.Equal(existing.Options, item.Options) {
				before := *existing
				existing.Quantity += item.Quantity
				existing.Selected = true
				if existing.Quantity < before.Quantity || c.CheckAmounts() != nil {
					*existing = before
					return Item{}, ErrAmountTooLarge
				}
				return *existing, nil
			}
		}
	}

	item.ID = c.NextID
	item.Selected = true
	c.Items = append(c.Items, item)
	if err := c.CheckAmounts(); err != nil {
		c.Items = c.Items[:len(c.Items)-1]
		return Item{}, err
	}
	c.NextID++
	return item, nil
}

// UpdateQuantity sets the quantity of an item. Quantities below 1 are
// ignored and report false. There is no fixed maximum, but a quantity whose
// amounts no longer fit in int64 won is rejected with ErrAmountTooLarge.
func (c *Cart) UpdateQuantity(id uint, quantity int) (bool, error) {
	i := c.index(id)
	if i < 0 {
		return false, ErrItemNotFound
	}
	if quantity <= 0 {
		return false, nil
	}
	previous := c.Items[i].Quantity
	c.Items[i].Quantity = quantity
	if err := c.CheckAmounts(); err != nil {
		c.Items[i].Quantity = previous
		return false, err
	}
	return true, nil
}

// Remove deletes an item. Selection lives on the item, so it goes too.
func (c *Cart) Remove(id uint) error {
	i := c.index(id)
	if i < 0 {
		return ErrItemNotFound
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return nil
}

// ToggleSelection flips the selection of one item and returns the new state.
func (c *Cart) ToggleSelection(id uint) (bool, error) {
	i := c.index(id)
	if i < 0 {
		return false, ErrItemNotFound
	}
	c.Items[i].Selected = !c.Items[i].Selected
	return c.Items[i].Selected, nil
}

// AllSelected reports whether every item is selected. An empty cart is not.
func (c *Cart) AllSelected() bool {
	if len(c.Items) == 0 {
		return false
	}
	for _, item := range c.Items {
		if !item.Selected {
			return false
		}
	}
	return true
}

// ToggleSelectAll deselects everything when all items are selected and
// selects everything otherwise. Applied twice it restores an all-selected or
// none-selected cart; a partial selection becomes all-selected then none.
func (c *Cart) ToggleSelectAll() {
	selectAll := !c.AllSelected()
	for i := range c.Items {
		c.Items[i].Selected = selectAll
	}
}

// Selected returns the selected items in cart order.
func (c *Cart) Selected() []Item {
	selected := make([]Item, 0, len(c.Items))
	for _, item := range c.Items {
		if item.Selected {
			selected = append(selected, item)
		}
	}
	return selected
}

// RemoveSelected drops every selected item and returns them.
func (c *Cart) RemoveSelected() []Item {
	removed := make([]Item, 0, len(c.Items))
	kept := make([]Item, 0, len(c.Items))
	for _, item := range c.Items {
		if item.Selected {
			removed = append(removed, item)
		} else {
			kept = append(kept, item)
		}
	}
	c.Items = kept
	return removed
}

// Clear empties the cart but keeps the id sequence.
func (c *Cart) Clear() {
	c.Items = []Item{}
}

// TotalQuantity is the sum of quantities over all items, selected or not.
func (c *Cart) TotalQuantity() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// Totals computes the summary of the cart's current selection.
func (c *Cart) Totals() Summary {
	s := Calculate(c.Items)
	s.ItemCount = len(c.Items)
	s.Quantity = c.TotalQuantity()
	return s
}

// Calculate prices the selected items of items. It does not depend on order.
func Calculate(items []Item) Summary {
	var s Summary
	for _, item := range items {
		if !item.Selected {
			continue
		}
		s.Subtotal += item.LineTotal()
		s.SelectedCount++
	}
	s.ShippingFee = ShippingFeeFor(s.Subtotal)
	s.Total = s.Subtotal + s.ShippingFee
	return s
}

// ShippingFeeFor returns the fee charged for a subtotal.
func ShippingFeeFor(subtotal int64) int64 {
	if subtotal >= FreeShippingThreshold {
		return 0
	}
	return ShippingFee
}

// Clone returns a deep copy.
func (c *Cart) Clone() *Cart {
	out := &Cart{NextID: c.NextID, Items: make([]Item, len(c.Items))}
	for i, item := range c.Items {
		item.Options = maps.Clone(item.Options)
		out.Items[i] = item
	}
	return out
}
