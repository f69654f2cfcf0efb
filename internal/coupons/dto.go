package coupons

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/elegantjewelry/jewelbox-backend/pkg/db/models"
	"github.com/elegantjewelry/jewelbox-backend/pkg/enums"
)

// CouponDTO is the admin-facing transport shape.
type CouponDTO struct {
	ID               uuid.UUID        `json:"id"`
	Code             string           `json:"code"`
	Kind             enums.CouponKind `json:"kind"`
	Value            int64            `json:"value"`
	MinSubtotalCents int64            `json:"min_subtotal_cents"`
	StartsAt         *time.Time       `json:"starts_at,omitempty"`
	ExpiresAt        *time.Time       `json:"expires_at,omitempty"`
	UsageLimit       int              `json:"usage_limit"`
	UsedCount        int              `json:"used_count"`
	IsActive         bool             `json:"is_active"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// AppliedCoupon is the result of evaluating a code against a subtotal.
type AppliedCoupon struct {
	CouponID      uuid.UUID        `json:"coupon_id"`
	Code          string           `json:"code"`
	Kind          enums.CouponKind `json:"kind"`
	Value         int64            `json:"value"`
	DiscountCents int64            `json:"discount_cents"`
}

// CreateCouponDTO holds the fields admins provide for a new code.
type CreateCouponDTO struct {
	Code             string
	Kind             enums.CouponKind
	Value            int64
	MinSubtotalCents int64
	StartsAt         *time.Time
	ExpiresAt        *time.Time
	UsageLimit       int
	IsActive         *bool
}

// UpdateCouponDTO carries partial updates; nil fields are left untouched.
type UpdateCouponDTO struct {
	Value            *int64
	MinSubtotalCents *int64
	StartsAt         *time.Time
	ExpiresAt        *time.Time
	UsageLimit       *int
	IsActive         *bool
}

func FromModel(c *models.Coupon) *CouponDTO {
	if c == nil {
		return nil
	}
	return &CouponDTO{
		ID:               c.ID,
		Code:             c.Code,
		Kind:             c.Kind,
		Value:            c.Value,
		MinSubtotalCents: c.MinSubtotalCents,
		StartsAt:         c.StartsAt,
		ExpiresAt:        c.ExpiresAt,
		UsageLimit:       c.UsageLimit,
		UsedCount:        c.UsedCount,
		IsActive:         c.IsActive,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func FromModels(rows []models.Coupon) []CouponDTO {
	out := make([]CouponDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

func (c CreateCouponDTO) ToModel() *models.Coupon {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}
	return &models.Coupon{
		Code:             strings.ToUpper(strings.TrimSpace(c.Code)),
		Kind:             c.Kind,
		Value:            c.Value,
		MinSubtotalCents: c.MinSubtotalCents,
		StartsAt:         c.StartsAt,
		ExpiresAt:        c.ExpiresAt,
		UsageLimit:       c.UsageLimit,
		IsActive:         isActive,
	}
}
