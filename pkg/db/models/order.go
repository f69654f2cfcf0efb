package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/elegantjewelry/jewelbox-backend/pkg/enums"
	"github.com/elegantjewelry/jewelbox-backend/pkg/types"
)

// Order captures a submitted checkout with immutable money snapshots.
type Order struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber     int64                `gorm:"column:order_number;not null;uniqueIndex;autoIncrement"`
	UserID          uuid.UUID            `gorm:"column:user_id;type:uuid;not null;index"`
	Status          enums.OrderStatus    `gorm:"column:status;not null;default:pending"`
	Email           string               `gorm:"column:email;not null"`
	ShippingAddress types.Address        `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	BillingAddress  types.Address        `gorm:"column:billing_address;type:jsonb;serializer:json"`
	ShippingMethod  enums.ShippingMethod `gorm:"column:shipping_method;not null"`
	PaymentMethod   enums.PaymentMethod  `gorm:"column:payment_method;not null"`
	CouponCode      *string              `gorm:"column:coupon_code"`
	SubtotalCents   int64                `gorm:"column:subtotal_cents;not null"`
	ShippingCents   int64                `gorm:"column:shipping_cents;not null"`
	TaxCents        int64                `gorm:"column:tax_cents;not null"`
	DiscountCents   int64                `gorm:"column:discount_cents;not null;default:0"`
	TotalCents      int64                `gorm:"column:total_cents;not null"`
	PaymentRef      *string              `gorm:"column:payment_ref"`
	Items           []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
