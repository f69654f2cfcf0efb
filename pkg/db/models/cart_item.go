package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem persists a shopper's saved line with a unit price snapshot.
type CartItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_cart_user_product"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_cart_user_product"`
	Quantity       int       `gorm:"column:quantity;not null"`
	UnitPriceCents int64     `gorm:"column:unit_price_cents;not null"`
	Variant        *string   `gorm:"column:variant;type:jsonb"`
	Product        *Product  `gorm:"foreignKey:ProductID"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
