package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	pkgerrors "github.com/pukpuklouis/blackliving-backend/pkg/errors"
	"github.com/pukpuklouis/blackliving-backend/pkg/types"
)

// logisticsProvider supplies the current logistic_settings for fee derivation.
type logisticsProvider interface {
	Logistics(ctx context.Context) (types.LogisticsConfig, error)
}

// catalogResolver looks up the authoritative name, price, and availability of
// a product or variant.
type catalogResolver interface {
	ResolveItem(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (name string, priceCents int, inStock bool, err error)
}

// sessionStore abstracts the Redis persistence for tests.
type sessionStore interface {
	Load(ctx context.Context, token string) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
	Delete(ctx context.Context, token string) error
}

// Service owns the session cart lifecycle.
type Service interface {
	Get(ctx context.Context, token string) (*Snapshot, error)
	AddItem(ctx context.Context, token string, input AddItemInput) (*Snapshot, error)
	UpdateQuantity(ctx context.Context, token string, input UpdateQuantityInput) (*Snapshot, error)
	RemoveItem(ctx context.Context, token string, input RemoveItemInput) (*Snapshot, error)
	SetCheckoutInfo(ctx context.Context, token string, input CheckoutInfoInput) (*Snapshot, error)
	Clear(ctx context.Context, token string) (*Snapshot, error)
}

type service struct {
	store     sessionStore
	catalog   catalogResolver
	logistics logisticsProvider
}

// NewService builds the cart service with the required dependencies.
func NewService(store sessionStore, catalog catalogResolver, logistics logisticsProvider) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart session store required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog resolver required")
	}
	if logistics == nil {
		return nil, fmt.Errorf("logistics provider required")
	}
	return &service{
		store:     store,
		catalog:   catalog,
		logistics: logistics,
	}, nil
}

// loadOrCreate returns the session cart, minting a fresh token when the
// caller has none yet. New carts are not persisted until a mutation happens.
func (s *service) loadOrCreate(ctx context.Context, token string) (*Cart, error) {
	if token == "" {
		return &Cart{Token: uuid.NewString()}, nil
	}
	c, err := s.store.Load(ctx, token)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return &Cart{Token: token}, nil
	}
	return c, nil
}

func (s *service) snapshot(ctx context.Context, c *Cart) (*Snapshot, error) {
	cfg, err := s.logistics.Logistics(ctx)
	if err != nil {
		return nil, err
	}
	items := c.Items
	if items == nil {
		items = []LineItem{}
	}
	return &Snapshot{
		Token:            c.Token,
		Items:            items,
		Customer:         c.Customer,
		Address:          c.Address,
		ItemCount:        c.ItemCount(),
		SubtotalCents:    c.SubtotalCents(),
		ShippingFeeCents: c.ShippingFeeCents(cfg),
		TotalCents:       c.TotalCents(cfg),
	}, nil
}

func (s *service) Get(ctx context.Context, token string) (*Snapshot, error) {
	c, err := s.loadOrCreate(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.snapshot(ctx, c)
}

func (s *service) AddItem(ctx context.Context, token string, input AddItemInput) (*Snapshot, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	c, err := s.loadOrCreate(ctx, token)
	if err != nil {
		return nil, err
	}

	name, priceCents, inStock, err := s.catalog.ResolveItem(ctx, input.ProductID, input.VariantID)
	if err != nil {
		return nil, err
	}

	c.AddItem(LineItem{
		ProductID:  input.ProductID,
		VariantID:  input.VariantID,
		Name:       name,
		PriceCents: priceCents,
		InStock:    inStock,
	})

	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}
	return s.snapshot(ctx, c)
}

func (s *service) UpdateQuantity(ctx context.Context, token string, input UpdateQuantityInput) (*Snapshot, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	c, err := s.loadOrCreate(ctx, token)
	if err != nil {
		return nil, err
	}

	c.UpdateQuantity(input.ProductID, input.VariantID, input.Quantity)

	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}
	return s.snapshot(ctx, c)
}

func (s *service) RemoveItem(ctx context.Context, token string, input RemoveItemInput) (*Snapshot, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	c, err := s.loadOrCreate(ctx, token)
	if err != nil {
		return nil, err
	}

	c.RemoveItem(input.ProductID, input.VariantID)

	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}
	return s.snapshot(ctx, c)
}

func (s *service) SetCheckoutInfo(ctx context.Context, token string, input CheckoutInfoInput) (*Snapshot, error) {
	c, err := s.loadOrCreate(ctx, token)
	if err != nil {
		return nil, err
	}

	customer := input.Customer
	c.Customer = &customer
	if !input.Address.IsZero() {
		address := input.Address
		c.Address = &address
	}

	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}
	return s.snapshot(ctx, c)
}

func (s *service) Clear(ctx context.Context, token string) (*Snapshot, error) {
	c, err := s.loadOrCreate(ctx, token)
	if err != nil {
		return nil, err
	}

	c.ClearItems()

	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}
	return s.snapshot(ctx, c)
}
