package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/pukpuklouis/blackliving-backend/pkg/errors"
	"github.com/pukpuklouis/blackliving-backend/pkg/types"
)

type stubStore struct {
	carts map[string]*Cart
}

func newStubStore() *stubStore {
	return &stubStore{carts: map[string]*Cart{}}
}

func (s *stubStore) Load(_ context.Context, token string) (*Cart, error) {
	c, ok := s.carts[token]
	if !ok {
		return nil, nil
	}
	copied := *c
	copied.Items = append([]LineItem(nil), c.Items...)
	return &copied, nil
}

func (s *stubStore) Save(_ context.Context, c *Cart) error {
	copied := *c
	copied.Items = append([]LineItem(nil), c.Items...)
	s.carts[c.Token] = &copied
	return nil
}

func (s *stubStore) Delete(_ context.Context, token string) error {
	delete(s.carts, token)
	return nil
}

type stubCatalog struct {
	items map[uuid.UUID]struct {
		name    string
		price   int
		inStock bool
	}
}

func (s *stubCatalog) ResolveItem(_ context.Context, productID uuid.UUID, _ *uuid.UUID) (string, int, bool, error) {
	item, ok := s.items[productID]
	if !ok {
		return "", 0, false, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return item.name, item.price, item.inStock, nil
}

type stubLogistics struct {
	cfg types.LogisticsConfig
}

func (s *stubLogistics) Logistics(context.Context) (types.LogisticsConfig, error) {
	return s.cfg, nil
}

func newTestService(t *testing.T) (Service, *stubStore, uuid.UUID) {
	t.Helper()
	store := newStubStore()
	productID := uuid.New()
	catalog := &stubCatalog{items: map[uuid.UUID]struct {
		name    string
		price   int
		inStock bool
	}{
		productID: {name: "Queen Hybrid", price: 89900, inStock: true},
	}}
	logistics := &stubLogistics{cfg: types.LogisticsConfig{
		BaseFeeCents:               1500,
		FreeShippingThresholdCents: 30000,
	}}

	svc, err := NewService(store, catalog, logistics)
	require.NoError(t, err)
	return svc, store, productID
}

func TestServiceGetMintsTokenForNewSession(t *testing.T) {
	svc, store, _ := newTestService(t)

	snap, err := svc.Get(context.Background(), "")
	require.NoError(t, err)
	assert.NotEmpty(t, snap.Token)
	assert.Empty(t, snap.Items)
	assert.Zero(t, snap.SubtotalCents)
	// Reads never persist an empty session.
	assert.Empty(t, store.carts)
}

func TestServiceAddItemUsesCatalogPriceAndMerges(t *testing.T) {
	svc, store, productID := newTestService(t)
	ctx := context.Background()

	snap, err := svc.AddItem(ctx, "tok", AddItemInput{ProductID: productID})
	require.NoError(t, err)
	snap, err = svc.AddItem(ctx, "tok", AddItemInput{ProductID: productID})
	require.NoError(t, err)

	require.Len(t, snap.Items, 1)
	assert.Equal(t, 2, snap.Items[0].Quantity)
	assert.Equal(t, 89900, snap.Items[0].PriceCents)
	assert.Equal(t, "Queen Hybrid", snap.Items[0].Name)
	assert.Equal(t, 179800, snap.SubtotalCents)
	assert.Equal(t, 0, snap.ShippingFeeCents) // above the threshold
	assert.Equal(t, snap.SubtotalCents+snap.ShippingFeeCents, snap.TotalCents)
	assert.Contains(t, store.carts, "tok")
}

func TestServiceAddItemUnknownProduct(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.AddItem(context.Background(), "tok", AddItemInput{ProductID: uuid.New()})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestServiceUpdateQuantityZeroRemoves(t *testing.T) {
	svc, _, productID := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "tok", AddItemInput{ProductID: productID})
	require.NoError(t, err)

	snap, err := svc.UpdateQuantity(ctx, "tok", UpdateQuantityInput{ProductID: productID, Quantity: 0})
	require.NoError(t, err)
	assert.Empty(t, snap.Items)
}

func TestServiceSetCheckoutInfoPersists(t *testing.T) {
	svc, _, productID := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "tok", AddItemInput{ProductID: productID})
	require.NoError(t, err)

	snap, err := svc.SetCheckoutInfo(ctx, "tok", CheckoutInfoInput{
		Customer: CustomerInfo{Name: "Lin Mei", Email: "lin@example.com", Phone: "0912345678"},
		Address:  types.ShippingAddress{City: "花蓮縣", District: "花蓮市"},
	})
	require.NoError(t, err)
	require.NotNil(t, snap.Customer)
	assert.Equal(t, "Lin Mei", snap.Customer.Name)
	require.NotNil(t, snap.Address)
	assert.Equal(t, "花蓮縣", snap.Address.City)
}

func TestServiceClearKeepsCheckoutInfo(t *testing.T) {
	svc, _, productID := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "tok", AddItemInput{ProductID: productID})
	require.NoError(t, err)
	_, err = svc.SetCheckoutInfo(ctx, "tok", CheckoutInfoInput{
		Customer: CustomerInfo{Name: "Lin Mei", Email: "lin@example.com", Phone: "0912345678"},
	})
	require.NoError(t, err)

	snap, err := svc.Clear(ctx, "tok")
	require.NoError(t, err)
	assert.Empty(t, snap.Items)
	require.NotNil(t, snap.Customer)
	assert.Equal(t, "Lin Mei", snap.Customer.Name)
}

func TestNewServiceValidatesDependencies(t *testing.T) {
	_, err := NewService(nil, &stubCatalog{}, &stubLogistics{})
	assert.Error(t, err)
	_, err = NewService(newStubStore(), nil, &stubLogistics{})
	assert.Error(t, err)
	_, err = NewService(newStubStore(), &stubCatalog{}, nil)
	assert.Error(t, err)
}
