package cart

import (
	"github.com/google/uuid"

	"github.com/pukpuklouis/blackliving-backend/internal/pricing"
	"github.com/pukpuklouis/blackliving-backend/pkg/types"
)

// LineItem is one product/variant entry in a cart. PriceCents is the
// authoritative catalog price captured when the item was added.
type LineItem struct {
	ProductID  uuid.UUID  `json:"productId"`
	VariantID  *uuid.UUID `json:"variantId,omitempty"`
	Name       string     `json:"name"`
	PriceCents int        `json:"price"`
	Quantity   int        `json:"quantity"`
	InStock    bool       `json:"inStock"`
}

// CustomerInfo is the checkout contact captured on the session.
type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Cart holds the persisted session state. Only these fields are ever
// serialized; every derived amount is recomputed on read.
type Cart struct {
	Token    string                 `json:"token"`
	Items    []LineItem             `json:"items"`
	Customer *CustomerInfo          `json:"customer,omitempty"`
	Address  *types.ShippingAddress `json:"address,omitempty"`
}

func sameIdentity(a LineItem, productID uuid.UUID, variantID *uuid.UUID) bool {
	if a.ProductID != productID {
		return false
	}
	if a.VariantID == nil || variantID == nil {
		return a.VariantID == nil && variantID == nil
	}
	return *a.VariantID == *variantID
}

// AddItem merges by (product, variant) identity. An existing entry gains one
// unit of quantity; a new entry is appended with quantity 1.
func (c *Cart) AddItem(item LineItem) {
	for i := range c.Items {
		if sameIdentity(c.Items[i], item.ProductID, item.VariantID) {
			c.Items[i].Quantity++
			return
		}
	}
	item.Quantity = 1
	c.Items = append(c.Items, item)
}

// RemoveItem drops the matching entry entirely. Absent entries are a no-op.
func (c *Cart) RemoveItem(productID uuid.UUID, variantID *uuid.UUID) {
	for i := range c.Items {
		if sameIdentity(c.Items[i], productID, variantID) {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the entry's quantity. A quantity at or below zero
// removes the entry, matching the storefront's behavior.
func (c *Cart) UpdateQuantity(productID uuid.UUID, variantID *uuid.UUID, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID, variantID)
		return
	}
	for i := range c.Items {
		if sameIdentity(c.Items[i], productID, variantID) {
			c.Items[i].Quantity = quantity
			return
		}
	}
}

// ItemCount is the sum of quantities across entries.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// SubtotalCents is the sum of price * quantity across entries.
func (c *Cart) SubtotalCents() int {
	subtotal := 0
	for _, item := range c.Items {
		subtotal += item.PriceCents * item.Quantity
	}
	return subtotal
}

// ShippingFeeCents derives the fee from the current subtotal and destination.
func (c *Cart) ShippingFeeCents(cfg types.LogisticsConfig) int {
	return pricing.Calculate(c.SubtotalCents(), cfg, c.Address)
}

// TotalCents is subtotal plus shipping, recomputed on every call.
func (c *Cart) TotalCents(cfg types.LogisticsConfig) int {
	return c.SubtotalCents() + c.ShippingFeeCents(cfg)
}

// HasOutOfStockItems reports whether any entry was flagged unavailable.
func (c *Cart) HasOutOfStockItems() bool {
	for _, item := range c.Items {
		if !item.InStock {
			return true
		}
	}
	return false
}

// ClearItems drops the line items while keeping customer info and address,
// which persist across a successful checkout for convenience.
func (c *Cart) ClearItems() {
	c.Items = nil
}
