package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/elegantjewelry/jewelbox-backend/pkg/db/models"
	"github.com/elegantjewelry/jewelbox-backend/pkg/enums"
	"github.com/elegantjewelry/jewelbox-backend/pkg/types"
)

// ItemDTO is a frozen order line as returned to clients.
type ItemDTO struct {
	ProductID      *uuid.UUID `json:"product_id,omitempty"`
	Name           string     `json:"name"`
	Image          *string    `json:"image,omitempty"`
	Variant        *string    `json:"variant,omitempty"`
	UnitPriceCents int64      `json:"unit_price_cents"`
	Quantity       int        `json:"quantity"`
	TotalCents     int64      `json:"total_cents"`
}

// OrderDTO is the transport shape for order history and detail views.
type OrderDTO struct {
	ID              uuid.UUID            `json:"id"`
	OrderNumber     int64                `json:"order_number"`
	UserID          uuid.UUID            `json:"user_id"`
	Status          enums.OrderStatus    `json:"status"`
	Email           string               `json:"email"`
	ShippingAddress types.Address        `json:"shipping_address"`
	BillingAddress  types.Address        `json:"billing_address"`
	ShippingMethod  enums.ShippingMethod `json:"shipping_method"`
	PaymentMethod   enums.PaymentMethod  `json:"payment_method"`
	CouponCode      *string              `json:"coupon_code,omitempty"`
	SubtotalCents   int64                `json:"subtotal_cents"`
	ShippingCents   int64                `json:"shipping_cents"`
	TaxCents        int64                `json:"tax_cents"`
	DiscountCents   int64                `json:"discount_cents"`
	TotalCents      int64                `json:"total_cents"`
	Items           []ItemDTO            `json:"items"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	items := make([]ItemDTO, 0, len(o.Items))
	for i := range o.Items {
		item := o.Items[i]
		items = append(items, ItemDTO{
			ProductID:      item.ProductID,
			Name:           item.Name,
			Image:          item.Image,
			Variant:        item.Variant,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			TotalCents:     item.TotalCents,
		})
	}
	return &OrderDTO{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		Status:          o.Status,
		Email:           o.Email,
		ShippingAddress: o.ShippingAddress,
		BillingAddress:  o.BillingAddress,
		ShippingMethod:  o.ShippingMethod,
		PaymentMethod:   o.PaymentMethod,
		CouponCode:      o.CouponCode,
		SubtotalCents:   o.SubtotalCents,
		ShippingCents:   o.ShippingCents,
		TaxCents:        o.TaxCents,
		DiscountCents:   o.DiscountCents,
		TotalCents:      o.TotalCents,
		Items:           items,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func FromModels(rows []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
