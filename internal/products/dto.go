package products

import (
	"github.com/google/uuid"

	"github.com/pukpuklouis/blackliving-backend/pkg/db/models"
)

// VariantInput describes one size/firmness option on a product write.
type VariantInput struct {
	Name       string `json:"name" validate:"required"`
	SKU        string `json:"sku" validate:"required"`
	PriceCents int    `json:"price" validate:"gte=0"`
	StockQty   int    `json:"stockQty" validate:"gte=0"`
	IsActive   *bool  `json:"isActive,omitempty"`
}

// CreateProductInput is the admin payload for a new catalog entry.
type CreateProductInput struct {
	Slug                string         `json:"slug" validate:"required"`
	Name                string         `json:"name" validate:"required"`
	Description         string         `json:"description"`
	Category            string         `json:"category"`
	PriceCents          int            `json:"price" validate:"gte=0"`
	CompareAtPriceCents *int           `json:"compareAtPrice,omitempty"`
	StockQty            int            `json:"stockQty" validate:"gte=0"`
	IsActive            *bool          `json:"isActive,omitempty"`
	FeaturedImage       *string        `json:"featuredImage,omitempty"`
	Variants            []VariantInput `json:"variants,omitempty" validate:"dive"`
}

// UpdateProductInput carries partial updates; nil fields are left untouched.
type UpdateProductInput struct {
	Name                *string `json:"name,omitempty"`
	Description         *string `json:"description,omitempty"`
	Category            *string `json:"category,omitempty"`
	PriceCents          *int    `json:"price,omitempty" validate:"omitempty,gte=0"`
	CompareAtPriceCents *int    `json:"compareAtPrice,omitempty"`
	StockQty            *int    `json:"stockQty,omitempty" validate:"omitempty,gte=0"`
	IsActive            *bool   `json:"isActive,omitempty"`
	FeaturedImage       *string `json:"featuredImage,omitempty"`
}

// VariantView is the wire shape of one variant.
type VariantView struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	SKU        string    `json:"sku"`
	PriceCents int       `json:"price"`
	InStock    bool      `json:"inStock"`
}

// ProductView is the wire shape of one catalog entry.
type ProductView struct {
	ID                  uuid.UUID     `json:"id"`
	Slug                string        `json:"slug"`
	Name                string        `json:"name"`
	Description         string        `json:"description,omitempty"`
	Category            string        `json:"category,omitempty"`
	PriceCents          int           `json:"price"`
	CompareAtPriceCents *int          `json:"compareAtPrice,omitempty"`
	InStock             bool          `json:"inStock"`
	FeaturedImage       *string       `json:"featuredImage,omitempty"`
	Variants            []VariantView `json:"variants,omitempty"`
}

func toProductView(p models.Product) ProductView {
	view := ProductView{
		ID:                  p.ID,
		Slug:                p.Slug,
		Name:                p.Name,
		Description:         p.Description,
		Category:            p.Category,
		PriceCents:          p.PriceCents,
		CompareAtPriceCents: p.CompareAtPriceCents,
		InStock:             p.IsActive && p.StockQty > 0,
		FeaturedImage:       p.FeaturedImage,
	}
	for _, v := range p.Variants {
		if !v.IsActive {
			continue
		}
		view.Variants = append(view.Variants, VariantView{
			ID:         v.ID,
			Name:       v.Name,
			SKU:        v.SKU,
			PriceCents: v.PriceCents,
			InStock:    v.StockQty > 0,
		})
	}
	return view
}
