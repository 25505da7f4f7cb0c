package products

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pukpuklouis/blackliving-backend/pkg/db/models"
	"github.com/pukpuklouis/blackliving-backend/pkg/pagination"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	productsTable := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  slug TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  description TEXT,
  category TEXT,
  price_cents INTEGER NOT NULL,
  compare_at_price_cents INTEGER,
  stock_qty INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  featured_image TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	variantsTable := `
CREATE TABLE IF NOT EXISTS product_variants (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  sku TEXT NOT NULL UNIQUE,
  price_cents INTEGER NOT NULL,
  stock_qty INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(productsTable).Error)
	require.NoError(t, conn.Exec(variantsTable).Error)
	return conn
}

func seedProduct(t *testing.T, conn *gorm.DB, slug string, createdAt time.Time) *models.Product {
	t.Helper()
	product := &models.Product{
		Slug:       slug,
		Name:       "Mattress " + slug,
		PriceCents: 89900,
		StockQty:   5,
		IsActive:   true,
		CreatedAt:  createdAt,
	}
	require.NoError(t, conn.Create(product).Error)
	return product
}

func TestRepositoryCreateAndFind(t *testing.T) {
	conn := setupProductsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	product := &models.Product{
		Slug:       "queen-hybrid",
		Name:       "Queen Hybrid",
		PriceCents: 89900,
		StockQty:   3,
		IsActive:   true,
		Variants: []models.ProductVariant{
			{Name: "Queen", SKU: "QH-Q", PriceCents: 89900, StockQty: 3, IsActive: true},
			{Name: "King", SKU: "QH-K", PriceCents: 109900, StockQty: 1, IsActive: true},
		},
	}
	created, err := repo.Create(ctx, product)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	bySlug, err := repo.FindBySlug(ctx, "queen-hybrid")
	require.NoError(t, err)
	assert.Equal(t, created.ID, bySlug.ID)
	assert.Len(t, bySlug.Variants, 2)

	variant, err := repo.FindVariant(ctx, created.Variants[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "QH-Q", variant.SKU)
}

func TestRepositoryListActiveExcludesInactive(t *testing.T) {
	conn := setupProductsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	seedProduct(t, conn, "active-one", time.Now())
	inactive := seedProduct(t, conn, "retired", time.Now())
	require.NoError(t, conn.Model(&models.Product{}).Where("id = ?", inactive.ID).Update("is_active", false).Error)

	items, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "active-one", items[0].Slug)
}

func TestRepositoryListPagedWalksCursor(t *testing.T) {
	conn := setupProductsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedProduct(t, conn, fmt.Sprintf("model-%d", i), base.Add(time.Duration(i)*time.Minute))
	}

	first, err := repo.ListPaged(ctx, nil, 3)
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Equal(t, "model-4", first[0].Slug)

	cursor := &pagination.Cursor{CreatedAt: first[2].CreatedAt, ID: first[2].ID}
	second, err := repo.ListPaged(ctx, cursor, 3)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, "model-1", second[0].Slug)
	assert.Equal(t, "model-0", second[1].Slug)
}

func TestRepositoryUpdateAndDelete(t *testing.T) {
	conn := setupProductsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	product := seedProduct(t, conn, "firm-king", time.Now())

	require.NoError(t, repo.Update(ctx, product.ID, map[string]any{"price_cents": 99900, "stock_qty": 0}))

	reloaded, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 99900, reloaded.PriceCents)
	assert.Zero(t, reloaded.StockQty)

	require.NoError(t, repo.Delete(ctx, product.ID))
	_, err = repo.FindByID(ctx, product.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
