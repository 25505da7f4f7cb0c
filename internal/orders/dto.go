package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/pukpuklouis/blackliving-backend/pkg/db/models"
	"github.com/pukpuklouis/blackliving-backend/pkg/enums"
	"github.com/pukpuklouis/blackliving-backend/pkg/gomypay"
	"github.com/pukpuklouis/blackliving-backend/pkg/types"
)

// CustomerInput is the checkout contact submitted with an order.
type CustomerInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// SubmittedItem identifies one cart entry at submission time. Prices are
// resolved server side; the client never supplies them here.
type SubmittedItem struct {
	ProductID uuid.UUID  `json:"productId"`
	VariantID *uuid.UUID `json:"variantId,omitempty"`
	Quantity  int        `json:"quantity"`
}

// SubmitInput is the order submission payload. The client-computed amounts
// are cross-checked against the server's own computation and rejected on
// mismatch rather than trusted.
type SubmitInput struct {
	CartToken        string                 `json:"-"`
	Customer         CustomerInput          `json:"customerInfo"`
	Items            []SubmittedItem        `json:"items"`
	SubtotalCents    int                    `json:"subtotalAmount"`
	ShippingFeeCents int                    `json:"shippingFee"`
	TotalCents       int                    `json:"totalAmount"`
	PaymentMethod    string                 `json:"paymentMethod"`
	Notes            *string                `json:"notes,omitempty"`
	ShippingAddress  *types.ShippingAddress `json:"shippingAddress,omitempty"`
}

// SubmitResult reports the created order and, when the method chains into the
// gateway, how the payment flow continued. PaymentStatus initiation_failed
// with a nil Payment descriptor means the order exists but the gateway call
// did not go through.
type SubmitResult struct {
	OrderNo       string              `json:"orderNumber"`
	PaymentStatus enums.PaymentStatus `json:"paymentStatus"`
	Payment       *gomypay.Descriptor `json:"payment,omitempty"`
}

// LineItemView is the wire shape of one order line.
type LineItemView struct {
	ProductID      uuid.UUID  `json:"productId"`
	VariantID      *uuid.UUID `json:"variantId,omitempty"`
	Name           string     `json:"name"`
	UnitPriceCents int        `json:"unitPrice"`
	Quantity       int        `json:"quantity"`
	LineTotalCents int        `json:"lineTotal"`
}

// OrderView is the wire shape of an order.
type OrderView struct {
	OrderNo          string                 `json:"orderNumber"`
	CustomerName     string                 `json:"customerName"`
	CustomerEmail    string                 `json:"customerEmail"`
	CustomerPhone    string                 `json:"customerPhone"`
	ShippingAddress  *types.ShippingAddress `json:"shippingAddress,omitempty"`
	SubtotalCents    int                    `json:"subtotal"`
	ShippingFeeCents int                    `json:"shippingFee"`
	TotalCents       int                    `json:"total"`
	PaymentMethod    enums.PaymentMethod    `json:"paymentMethod"`
	PaymentStatus    enums.PaymentStatus    `json:"paymentStatus"`
	Status           enums.OrderStatus      `json:"status"`
	Notes            *string                `json:"notes,omitempty"`
	Items            []LineItemView         `json:"items"`
	CreatedAt        time.Time              `json:"createdAt"`
}

func toOrderView(o models.Order) OrderView {
	view := OrderView{
		OrderNo:          o.OrderNo,
		CustomerName:     o.CustomerName,
		CustomerEmail:    o.CustomerEmail,
		CustomerPhone:    o.CustomerPhone,
		ShippingAddress:  o.ShippingAddress,
		SubtotalCents:    o.SubtotalCents,
		ShippingFeeCents: o.ShippingFeeCents,
		TotalCents:       o.TotalCents,
		PaymentMethod:    o.PaymentMethod,
		PaymentStatus:    o.PaymentStatus,
		Status:           o.Status,
		Notes:            o.Notes,
		CreatedAt:        o.CreatedAt,
	}
	for _, item := range o.Items {
		view.Items = append(view.Items, LineItemView{
			ProductID:      item.ProductID,
			VariantID:      item.VariantID,
			Name:           item.Name,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			LineTotalCents: item.LineTotalCents,
		})
	}
	return view
}
