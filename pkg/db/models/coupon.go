package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/elegantjewelry/jewelbox-backend/pkg/enums"
)

// Coupon represents a discount code redeemable at checkout.
type Coupon struct {
	ID               uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code             string           `gorm:"column:code;not null;uniqueIndex"`
	Kind             enums.CouponKind `gorm:"column:kind;not null"`
	Value            int64            `gorm:"column:value;not null"`
	MinSubtotalCents int64            `gorm:"column:min_subtotal_cents;not null;default:0"`
	StartsAt         *time.Time       `gorm:"column:starts_at"`
	ExpiresAt        *time.Time       `gorm:"column:expires_at"`
	UsageLimit       int              `gorm:"column:usage_limit;not null;default:0"`
	UsedCount        int              `gorm:"column:used_count;not null;default:0"`
	IsActive         bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt        time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
