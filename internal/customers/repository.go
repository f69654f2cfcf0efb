package customers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/elegantjewelry/jewelbox-backend/pkg/db/models"
	"github.com/elegantjewelry/jewelbox-backend/pkg/enums"
	"github.com/elegantjewelry/jewelbox-backend/pkg/pagination"
)

// Repository reads customer accounts plus their order aggregates.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type orderStats struct {
	UserID     uuid.UUID `gorm:"column:user_id"`
	OrderCount int64     `gorm:"column:order_count"`
	SpendCents int64     `gorm:"column:spend_cents"`
}

// List pages through customer accounts, optionally matching a search term
// against email or name.
func (r *Repository) List(ctx context.Context, search string, params pagination.Params) ([]models.User, int64, error) {
	params = params.Normalize()

	query := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ?", enums.UserRoleCustomer)
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("email LIKE ? OR first_name LIKE ? OR last_name LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.User
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

// FindByID loads a single customer account.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("role = ?", enums.UserRoleCustomer).
		First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// OrderStats aggregates order count and lifetime spend per customer.
// Cancelled orders do not count toward either number.
func (r *Repository) OrderStats(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]orderStats, error) {
	stats := map[uuid.UUID]orderStats{}
	if len(userIDs) == 0 {
		return stats, nil
	}

	var rows []orderStats
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("user_id, COUNT(*) AS order_count, COALESCE(SUM(total_cents), 0) AS spend_cents").
		Where("user_id IN ?", userIDs).
		Where("status <> ?", enums.OrderStatusCancelled).
		Group("user_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		stats[row.UserID] = row
	}
	return stats, nil
}

// SetActive flips the account's active flag.
func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND role = ?", id, enums.UserRoleCustomer).
		UpdateColumn("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
