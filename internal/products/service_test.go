package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pukpuklouis/blackliving-backend/pkg/db/models"
	pkgerrors "github.com/pukpuklouis/blackliving-backend/pkg/errors"
	"github.com/pukpuklouis/blackliving-backend/pkg/pagination"
)

type stubRepo struct {
	products map[uuid.UUID]*models.Product
	variants map[uuid.UUID]*models.ProductVariant
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		products: map[uuid.UUID]*models.Product{},
		variants: map[uuid.UUID]*models.ProductVariant{},
	}
}

func (s *stubRepo) WithTx(*gorm.DB) Repository { return s }

func (s *stubRepo) Create(_ context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	for i := range product.Variants {
		if product.Variants[i].ID == uuid.Nil {
			product.Variants[i].ID = uuid.New()
		}
		product.Variants[i].ProductID = product.ID
		s.variants[product.Variants[i].ID] = &product.Variants[i]
	}
	s.products[product.ID] = product
	return product, nil
}

func (s *stubRepo) Update(_ context.Context, id uuid.UUID, updates map[string]any) error {
	product, ok := s.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["stock_qty"]; ok {
		product.StockQty = v.(int)
	}
	if v, ok := updates["price_cents"]; ok {
		product.PriceCents = v.(int)
	}
	if v, ok := updates["is_active"]; ok {
		product.IsActive = v.(bool)
	}
	return nil
}

func (s *stubRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.products, id)
	return nil
}

func (s *stubRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func (s *stubRepo) FindBySlug(_ context.Context, slug string) (*models.Product, error) {
	for _, product := range s.products {
		if product.Slug == slug {
			return product, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) FindVariant(_ context.Context, variantID uuid.UUID) (*models.ProductVariant, error) {
	variant, ok := s.variants[variantID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return variant, nil
}

func (s *stubRepo) ListActive(context.Context) ([]models.Product, error) {
	var items []models.Product
	for _, product := range s.products {
		if product.IsActive {
			items = append(items, *product)
		}
	}
	return items, nil
}

func (s *stubRepo) ListPaged(context.Context, *pagination.Cursor, int) ([]models.Product, error) {
	var items []models.Product
	for _, product := range s.products {
		items = append(items, *product)
	}
	return items, nil
}

func seedStub(t *testing.T, repo *stubRepo) *models.Product {
	t.Helper()
	product, err := repo.Create(context.Background(), &models.Product{
		Slug:       "queen-hybrid",
		Name:       "Queen Hybrid",
		PriceCents: 89900,
		StockQty:   3,
		IsActive:   true,
		Variants: []models.ProductVariant{
			{Name: "King", SKU: "QH-K", PriceCents: 109900, StockQty: 1, IsActive: true},
			{Name: "Sold Out", SKU: "QH-S", PriceCents: 99900, StockQty: 0, IsActive: true},
		},
	})
	require.NoError(t, err)
	return product
}

func TestResolveItemProductLevel(t *testing.T) {
	repo := newStubRepo()
	product := seedStub(t, repo)
	svc, err := NewService(repo)
	require.NoError(t, err)

	name, price, inStock, err := svc.ResolveItem(context.Background(), product.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "Queen Hybrid", name)
	assert.Equal(t, 89900, price)
	assert.True(t, inStock)
}

func TestResolveItemVariantPriceWins(t *testing.T) {
	repo := newStubRepo()
	product := seedStub(t, repo)
	svc, err := NewService(repo)
	require.NoError(t, err)

	variantID := product.Variants[0].ID
	name, price, inStock, err := svc.ResolveItem(context.Background(), product.ID, &variantID)
	require.NoError(t, err)
	assert.Equal(t, "Queen Hybrid - King", name)
	assert.Equal(t, 109900, price)
	assert.True(t, inStock)
}

func TestResolveItemOutOfStockVariant(t *testing.T) {
	repo := newStubRepo()
	product := seedStub(t, repo)
	svc, err := NewService(repo)
	require.NoError(t, err)

	variantID := product.Variants[1].ID
	_, _, inStock, err := svc.ResolveItem(context.Background(), product.ID, &variantID)
	require.NoError(t, err)
	assert.False(t, inStock)
}

func TestResolveItemVariantProductMismatch(t *testing.T) {
	repo := newStubRepo()
	product := seedStub(t, repo)
	other, err := repo.Create(context.Background(), &models.Product{
		Slug: "other", Name: "Other", PriceCents: 100, IsActive: true,
		Variants: []models.ProductVariant{{Name: "X", SKU: "O-X", PriceCents: 100, StockQty: 1, IsActive: true}},
	})
	require.NoError(t, err)

	svc, err := NewService(repo)
	require.NoError(t, err)

	foreign := other.Variants[0].ID
	_, _, _, err = svc.ResolveItem(context.Background(), product.ID, &foreign)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestGetBySlugHidesInactive(t *testing.T) {
	repo := newStubRepo()
	product := seedStub(t, repo)
	svc, err := NewService(repo)
	require.NoError(t, err)

	view, err := svc.GetBySlug(context.Background(), "queen-hybrid")
	require.NoError(t, err)
	assert.Equal(t, product.ID, view.ID)
	// The sold-out variant still lists, flagged unavailable.
	require.Len(t, view.Variants, 2)
	assert.False(t, view.Variants[1].InStock)

	require.NoError(t, repo.Update(context.Background(), product.ID, map[string]any{"is_active": false}))
	_, err = svc.GetBySlug(context.Background(), "queen-hybrid")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestCreateRejectsNegativePrice(t *testing.T) {
	svc, err := NewService(newStubRepo())
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateProductInput{Slug: "x", Name: "X", PriceCents: -1})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestUpdateUnknownProduct(t *testing.T) {
	svc, err := NewService(newStubRepo())
	require.NoError(t, err)

	name := "New Name"
	_, err = svc.Update(context.Background(), uuid.New(), UpdateProductInput{Name: &name})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
