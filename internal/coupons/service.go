package coupons

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/elegantjewelry/jewelbox-backend/pkg/db"
	"github.com/elegantjewelry/jewelbox-backend/pkg/db/models"
	pkgerrors "github.com/elegantjewelry/jewelbox-backend/pkg/errors"
	"github.com/elegantjewelry/jewelbox-backend/pkg/enums"
	"github.com/elegantjewelry/jewelbox-backend/pkg/pagination"
)

type repository interface {
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Coupon, error)
	Create(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Coupon, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params pagination.Params) ([]models.Coupon, int64, error)
	IncrementUsage(ctx context.Context, id uuid.UUID) (int64, error)
}

// Service evaluates discount codes at checkout and exposes admin CRUD.
type Service interface {
	Evaluate(ctx context.Context, code string, subtotalCents int64) (*AppliedCoupon, error)
	List(ctx context.Context, params pagination.Params) ([]CouponDTO, pagination.Meta, error)
	Create(ctx context.Context, dto CreateCouponDTO) (*CouponDTO, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdateCouponDTO) (*CouponDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo repository
	now  func() time.Time
}

func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// Evaluate checks the code against the subtotal and returns the discount it
// would grant. It does not consume a use; Redeem does that on order placement.
func (s *service) Evaluate(ctx context.Context, code string, subtotalCents int64) (*AppliedCoupon, error) {
	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup coupon")
	}

	now := s.now()
	switch {
	case !coupon.IsActive:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "coupon is not active")
	case coupon.StartsAt != nil && now.Before(*coupon.StartsAt):
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "coupon is not active yet")
	case coupon.ExpiresAt != nil && !now.Before(*coupon.ExpiresAt):
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "coupon has expired")
	case coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "coupon usage limit reached")
	case subtotalCents < coupon.MinSubtotalCents:
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("order subtotal must be at least %d cents", coupon.MinSubtotalCents))
	}

	return &AppliedCoupon{
		CouponID:      coupon.ID,
		Code:          coupon.Code,
		Kind:          coupon.Kind,
		Value:         coupon.Value,
		DiscountCents: DiscountCents(coupon.Kind, coupon.Value, subtotalCents),
	}, nil
}

// DiscountCents computes the discount a coupon grants against a subtotal.
// The result never exceeds the subtotal.
func DiscountCents(kind enums.CouponKind, value, subtotalCents int64) int64 {
	var discount int64
	switch kind {
	case enums.CouponKindPercentage:
		discount = decimal.NewFromInt(subtotalCents).
			Mul(decimal.NewFromInt(value)).
			Div(decimal.NewFromInt(100)).
			Round(0).
			IntPart()
	case enums.CouponKindFixed:
		discount = value
	}
	if discount > subtotalCents {
		return subtotalCents
	}
	if discount < 0 {
		return 0
	}
	return discount
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]CouponDTO, pagination.Meta, error) {
	rows, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list coupons")
	}
	return FromModels(rows), pagination.BuildMeta(params, total), nil
}

func (s *service) Create(ctx context.Context, dto CreateCouponDTO) (*CouponDTO, error) {
	if strings.TrimSpace(dto.Code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}
	if !dto.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "kind must be percentage or fixed")
	}
	if err := validateValue(dto.Kind, dto.Value); err != nil {
		return nil, err
	}
	if dto.MinSubtotalCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min_subtotal_cents must not be negative")
	}
	if dto.UsageLimit < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "usage_limit must not be negative")
	}
	if dto.StartsAt != nil && dto.ExpiresAt != nil && !dto.StartsAt.Before(*dto.ExpiresAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "starts_at must be before expires_at")
	}

	coupon, err := s.repo.Create(ctx, dto.ToModel())
	if err != nil {
		if db.IsUniqueViolation(err, "idx_coupons_code") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "code already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create coupon")
	}
	return FromModel(coupon), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, dto UpdateCouponDTO) (*CouponDTO, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup coupon")
	}

	updates := map[string]any{}
	if dto.Value != nil {
		if err := validateValue(existing.Kind, *dto.Value); err != nil {
			return nil, err
		}
		updates["value"] = *dto.Value
	}
	if dto.MinSubtotalCents != nil {
		if *dto.MinSubtotalCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "min_subtotal_cents must not be negative")
		}
		updates["min_subtotal_cents"] = *dto.MinSubtotalCents
	}
	if dto.StartsAt != nil {
		updates["starts_at"] = *dto.StartsAt
	}
	if dto.ExpiresAt != nil {
		updates["expires_at"] = *dto.ExpiresAt
	}
	if dto.UsageLimit != nil {
		if *dto.UsageLimit < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "usage_limit must not be negative")
		}
		updates["usage_limit"] = *dto.UsageLimit
	}
	if dto.IsActive != nil {
		updates["is_active"] = *dto.IsActive
	}

	coupon, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update coupon")
	}
	return FromModel(coupon), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup coupon")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete coupon")
	}
	return nil
}

func validateValue(kind enums.CouponKind, value int64) error {
	switch kind {
	case enums.CouponKindPercentage:
		if value < 1 || value > 100 {
			return pkgerrors.New(pkgerrors.CodeValidation, "percentage value must be between 1 and 100")
		}
	case enums.CouponKindFixed:
		if value < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "fixed value must be a positive amount in cents")
		}
	}
	return nil
}
