package payloads

import (
	"time"

	"github.com/elegantjewelry/jewelbox-backend/pkg/enums"
	"github.com/google/uuid"
)

// OrderPlacedEvent signals a checkout converted into an order.
type OrderPlacedEvent struct {
	OrderID        uuid.UUID            `json:"order_id"`
	OrderNumber    int64                `json:"order_number"`
	UserID         uuid.UUID            `json:"user_id"`
	Email          string               `json:"email"`
	ShippingMethod enums.ShippingMethod `json:"shipping_method"`
	PaymentMethod  enums.PaymentMethod  `json:"payment_method"`
	CouponCode     *string              `json:"coupon_code,omitempty"`
	TotalCents     int64                `json:"total_cents"`
	PlacedAt       time.Time            `json:"placed_at"`
}

// OrderStatusChangedEvent is emitted whenever staff moves an order along its lifecycle.
type OrderStatusChangedEvent struct {
	OrderID    uuid.UUID         `json:"order_id"`
	UserID     uuid.UUID         `json:"user_id"`
	FromStatus enums.OrderStatus `json:"from_status"`
	ToStatus   enums.OrderStatus `json:"to_status"`
	ChangedAt  time.Time         `json:"changed_at"`
}

// CouponRedeemedEvent records a coupon consumed during order submission.
type CouponRedeemedEvent struct {
	CouponID      uuid.UUID `json:"coupon_id"`
	Code          string    `json:"code"`
	OrderID       uuid.UUID `json:"order_id"`
	DiscountCents int64     `json:"discount_cents"`
	RedeemedAt    time.Time `json:"redeemed_at"`
}
