package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/elegantjewelry/jewelbox-backend/pkg/db/models"
)

// ProductDTO is the transport shape for catalog listings.
type ProductDTO struct {
	ID                  uuid.UUID `json:"id"`
	Slug                string    `json:"slug"`
	Name                string    `json:"name"`
	Description         *string   `json:"description,omitempty"`
	Category            string    `json:"category"`
	PriceCents          int64     `json:"price_cents"`
	CompareAtPriceCents *int64    `json:"compare_at_price_cents,omitempty"`
	Stock               int       `json:"stock"`
	Images              []string  `json:"images"`
	IsActive            bool      `json:"is_active"`
	IsFeatured          bool      `json:"is_featured"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// CreateProductDTO holds the fields admins provide when adding a listing.
type CreateProductDTO struct {
	Slug                string
	Name                string
	Description         *string
	Category            string
	PriceCents          int64
	CompareAtPriceCents *int64
	Stock               int
	Images              []string
	IsActive            *bool
	IsFeatured          bool
}

// UpdateProductDTO carries partial updates; nil fields are left untouched.
type UpdateProductDTO struct {
	Name                *string
	Description         *string
	Category            *string
	PriceCents          *int64
	CompareAtPriceCents *int64
	Stock               *int
	Images              []string
	IsActive            *bool
	IsFeatured          *bool
}

func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:                  p.ID,
		Slug:                p.Slug,
		Name:                p.Name,
		Description:         p.Description,
		Category:            p.Category,
		PriceCents:          p.PriceCents,
		CompareAtPriceCents: p.CompareAtPriceCents,
		Stock:               p.Stock,
		Images:              append([]string(nil), p.Images...),
		IsActive:            p.IsActive,
		IsFeatured:          p.IsFeatured,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

func FromModels(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

func (c CreateProductDTO) ToModel() *models.Product {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}
	images := c.Images
	if images == nil {
		images = []string{}
	}
	return &models.Product{
		Slug:                c.Slug,
		Name:                c.Name,
		Description:         c.Description,
		Category:            c.Category,
		PriceCents:          c.PriceCents,
		CompareAtPriceCents: c.CompareAtPriceCents,
		Stock:               c.Stock,
		Images:              pq.StringArray(images),
		IsActive:            isActive,
		IsFeatured:          c.IsFeatured,
	}
}
