package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/elegantjewelry/jewelbox-backend/pkg/db/models"
)

// Repository persists cart lines keyed by (user, product).
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

// ListByUser loads the user's cart lines with their products preloaded.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

// FindLine loads a single cart line for the user/product pair.
func (r *Repository) FindLine(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Upsert inserts the line or, on conflict with an existing user/product pair,
// replaces its quantity, price snapshot, and variant.
func (r *Repository) Upsert(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"quantity", "unit_price_cents", "variant", "updated_at",
			}),
		}).
		Create(item).Error
}

// UpdateQuantity sets the line quantity and refreshes the price snapshot.
func (r *Repository) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int, unitPriceCents int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Updates(map[string]any{
			"quantity":         quantity,
			"unit_price_cents": unitPriceCents,
		})
	return res.RowsAffected, res.Error
}

// DeleteLine removes one product from the user's cart.
func (r *Repository) DeleteLine(ctx context.Context, userID, productID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

// Clear drops every line in the user's cart.
func (r *Repository) Clear(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error
}

// ClearTx is Clear scoped to an open transaction.
func (r *Repository) ClearTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	return r.WithTx(tx).Clear(ctx, userID)
}
