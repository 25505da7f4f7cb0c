package cart

import (
	"github.com/google/uuid"

	"github.com/pukpuklouis/blackliving-backend/pkg/types"
)

// AddItemInput identifies the catalog entry being added.
type AddItemInput struct {
	ProductID uuid.UUID  `json:"productId" validate:"required"`
	VariantID *uuid.UUID `json:"variantId,omitempty"`
}

// UpdateQuantityInput sets an absolute quantity for one entry.
type UpdateQuantityInput struct {
	ProductID uuid.UUID  `json:"productId" validate:"required"`
	VariantID *uuid.UUID `json:"variantId,omitempty"`
	Quantity  int        `json:"quantity"`
}

// RemoveItemInput identifies the entry to drop.
type RemoveItemInput struct {
	ProductID uuid.UUID  `json:"productId" validate:"required"`
	VariantID *uuid.UUID `json:"variantId,omitempty"`
}

// CheckoutInfoInput captures contact and destination ahead of submission.
type CheckoutInfoInput struct {
	Customer CustomerInfo          `json:"customer"`
	Address  types.ShippingAddress `json:"address"`
}

// Snapshot is the wire view of a cart. The derived amounts are computed at
// read time from the current logistics configuration and never stored.
type Snapshot struct {
	Token            string                 `json:"token"`
	Items            []LineItem             `json:"items"`
	Customer         *CustomerInfo          `json:"customer,omitempty"`
	Address          *types.ShippingAddress `json:"address,omitempty"`
	ItemCount        int                    `json:"itemCount"`
	SubtotalCents    int                    `json:"subtotal"`
	ShippingFeeCents int                    `json:"shippingFee"`
	TotalCents       int                    `json:"total"`
}
