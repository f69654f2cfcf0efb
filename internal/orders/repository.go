package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/elegantjewelry/jewelbox-backend/pkg/db/models"
	"github.com/elegantjewelry/jewelbox-backend/pkg/enums"
	"github.com/elegantjewelry/jewelbox-backend/pkg/pagination"
)

// ListFilters narrow the admin order listing.
type ListFilters struct {
	Status *enums.OrderStatus
	UserID *uuid.UUID
}

// Repository persists orders and their frozen line items.
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

// Create inserts the order together with its items.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// CreateTx is Create scoped to an open transaction.
func (r *Repository) CreateTx(ctx context.Context, tx *gorm.DB, order *models.Order) (*models.Order, error) {
	return r.WithTx(tx).Create(ctx, order)
}

// FindByID loads an order with its items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser pages through one customer's orders, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, int64, error) {
	return r.list(ctx, ListFilters{UserID: &userID}, params)
}

// List pages through all orders with optional filters. Admin only.
func (r *Repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Order, int64, error) {
	return r.list(ctx, filters, params)
}

func (r *Repository) list(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Order, int64, error) {
	params = params.Normalize()

	query := r.db.WithContext(ctx).Model(&models.Order{})
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Order
	err := query.
		Preload("Items").
		Order("created_at DESC").
		Order("order_number DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// UpdateStatus moves the order to the given status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// UpdateStatusTx is UpdateStatus scoped to an open transaction.
func (r *Repository) UpdateStatusTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, status enums.OrderStatus) error {
	return r.WithTx(tx).UpdateStatus(ctx, id, status)
}
