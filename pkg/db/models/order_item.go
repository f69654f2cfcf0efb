package models

import (
	"github.com/google/uuid"
)

// OrderItem is a frozen product snapshot belonging to an Order.
type OrderItem struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      *uuid.UUID `gorm:"column:product_id;type:uuid"`
	Name           string     `gorm:"column:name;not null"`
	Image          *string    `gorm:"column:image"`
	UnitPriceCents int64      `gorm:"column:unit_price_cents;not null"`
	Quantity       int        `gorm:"column:quantity;not null"`
	Variant        *string    `gorm:"column:variant;type:jsonb"`
	TotalCents     int64      `gorm:"column:total_cents;not null"`
}
