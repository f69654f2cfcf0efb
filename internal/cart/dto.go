package cart

import (
	"github.com/google/uuid"

	"github.com/elegantjewelry/jewelbox-backend/pkg/db/models"
)

// ItemDTO is one cart line as shown to the storefront.
type ItemDTO struct {
	ProductID      uuid.UUID `json:"product_id"`
	Slug           string    `json:"slug"`
	Name           string    `json:"name"`
	Image          string    `json:"image,omitempty"`
	Variant        *string   `json:"variant,omitempty"`
	Quantity       int       `json:"quantity"`
	Stock          int       `json:"stock"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	LineTotalCents int64     `json:"line_total_cents"`
}

// CartDTO is the full cart payload with the running subtotal.
type CartDTO struct {
	Items         []ItemDTO `json:"items"`
	ItemCount     int       `json:"item_count"`
	SubtotalCents int64     `json:"subtotal_cents"`
}

// AddItemDTO captures the add-to-cart inputs.
type AddItemDTO struct {
	ProductID uuid.UUID
	Quantity  int
	Variant   *string
}

func itemFromModel(line *models.CartItem) ItemDTO {
	item := ItemDTO{
		ProductID:      line.ProductID,
		Variant:        line.Variant,
		Quantity:       line.Quantity,
		UnitPriceCents: line.UnitPriceCents,
		LineTotalCents: int64(line.Quantity) * line.UnitPriceCents,
	}
	if line.Product != nil {
		item.Slug = line.Product.Slug
		item.Name = line.Product.Name
		item.Stock = line.Product.Stock
		if len(line.Product.Images) > 0 {
			item.Image = line.Product.Images[0]
		}
	}
	return item
}

func buildCart(lines []models.CartItem) CartDTO {
	cart := CartDTO{Items: make([]ItemDTO, 0, len(lines))}
	for i := range lines {
		item := itemFromModel(&lines[i])
		cart.Items = append(cart.Items, item)
		cart.ItemCount += item.Quantity
		cart.SubtotalCents += item.LineTotalCents
	}
	return cart
}
