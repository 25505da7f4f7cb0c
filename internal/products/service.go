package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pukpuklouis/blackliving-backend/pkg/db"
	"github.com/pukpuklouis/blackliving-backend/pkg/db/models"
	pkgerrors "github.com/pukpuklouis/blackliving-backend/pkg/errors"
	"github.com/pukpuklouis/blackliving-backend/pkg/pagination"
)

// Service defines catalog operations for the storefront and the admin API.
type Service interface {
	List(ctx context.Context) ([]ProductView, error)
	GetBySlug(ctx context.Context, slug string) (*ProductView, error)
	ListAdmin(ctx context.Context, params pagination.Params) ([]ProductView, string, error)
	Create(ctx context.Context, input CreateProductInput) (*ProductView, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductView, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ResolveItem(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (name string, priceCents int, inStock bool, err error)
}

type service struct {
	repo Repository
}

// NewService builds the catalog service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]ProductView, error) {
	items, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	views := make([]ProductView, 0, len(items))
	for _, item := range items {
		views = append(views, toProductView(item))
	}
	return views, nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*ProductView, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product slug required")
	}

	product, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	view := toProductView(*product)
	return &view, nil
}

func (s *service) ListAdmin(ctx context.Context, params pagination.Params) ([]ProductView, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	items, err := s.repo.ListPaged(ctx, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	next := ""
	if len(items) > limit {
		last := items[limit-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		items = items[:limit]
	}

	views := make([]ProductView, 0, len(items))
	for _, item := range items {
		views = append(views, toProductView(item))
	}
	return views, next, nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*ProductView, error) {
	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product slug required")
	}
	if input.PriceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	product := &models.Product{
		Slug:                slug,
		Name:                input.Name,
		Description:         input.Description,
		Category:            input.Category,
		PriceCents:          input.PriceCents,
		CompareAtPriceCents: input.CompareAtPriceCents,
		StockQty:            input.StockQty,
		IsActive:            active,
		FeaturedImage:       input.FeaturedImage,
	}
	for _, v := range input.Variants {
		variantActive := true
		if v.IsActive != nil {
			variantActive = *v.IsActive
		}
		product.Variants = append(product.Variants, models.ProductVariant{
			Name:       v.Name,
			SKU:        v.SKU,
			PriceCents: v.PriceCents,
			StockQty:   v.StockQty,
			IsActive:   variantActive,
		})
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product slug or variant sku already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	view := toProductView(*created)
	return &view, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductView, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.PriceCents != nil {
		if *input.PriceCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
		}
		updates["price_cents"] = *input.PriceCents
	}
	if input.CompareAtPriceCents != nil {
		updates["compare_at_price_cents"] = *input.CompareAtPriceCents
	}
	if input.StockQty != nil {
		if *input.StockQty < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock quantity must be non-negative")
		}
		updates["stock_qty"] = *input.StockQty
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if input.FeaturedImage != nil {
		updates["featured_image"] = *input.FeaturedImage
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload product")
	}
	view := toProductView(*product)
	return &view, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

// ResolveItem returns the authoritative name, price, and availability for a
// product or one of its variants. Carts and order submission both rely on
// this instead of any client-provided pricing.
func (s *service) ResolveItem(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (string, int, bool, error) {
	if productID == uuid.Nil {
		return "", 0, false, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", 0, false, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return "", 0, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if variantID == nil {
		inStock := product.IsActive && product.StockQty > 0
		return product.Name, product.PriceCents, inStock, nil
	}

	variant, err := s.repo.FindVariant(ctx, *variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", 0, false, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return "", 0, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
	}
	if variant.ProductID != product.ID {
		return "", 0, false, pkgerrors.New(pkgerrors.CodeValidation, "variant does not belong to product")
	}

	name := fmt.Sprintf("%s - %s", product.Name, variant.Name)
	inStock := product.IsActive && variant.IsActive && variant.StockQty > 0
	return name, variant.PriceCents, inStock, nil
}
