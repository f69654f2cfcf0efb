package coupons

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/elegantjewelry/jewelbox-backend/pkg/db/models"
	"github.com/elegantjewelry/jewelbox-backend/pkg/pagination"
)

// Repository persists discount codes.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByCode loads a coupon by its case-insensitive code.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&coupon).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// FindByID loads a coupon by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.WithContext(ctx).First(&coupon, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &coupon, nil
}

// Create inserts a new coupon.
func (r *Repository) Create(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error) {
	if err := r.db.WithContext(ctx).Create(coupon).Error; err != nil {
		return nil, err
	}
	return coupon, nil
}

// Update persists the provided column changes and returns the fresh row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Coupon, error) {
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).
			Model(&models.Coupon{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

// Delete removes the coupon.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Coupon{}, "id = ?", id).Error
}

// List pages through all coupons, newest first.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.Coupon, int64, error) {
	params = params.Normalize()

	query := r.db.WithContext(ctx).Model(&models.Coupon{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Coupon
	err := query.
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// IncrementUsage bumps used_count while enforcing the usage limit. A zero
// usage_limit means unlimited. The returned count is zero when the coupon is
// exhausted or missing.
func (r *Repository) IncrementUsage(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("id = ? AND (usage_limit = 0 OR used_count < usage_limit)", id).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	return res.RowsAffected, res.Error
}

// IncrementUsageTx is IncrementUsage scoped to an open transaction.
func (r *Repository) IncrementUsageTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
	return r.WithTx(tx).IncrementUsage(ctx, id)
}
