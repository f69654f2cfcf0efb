package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/elegantjewelry/jewelbox-backend/pkg/db/models"
)

// Repository wires together catalog persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
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

// FindByID loads a product by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySlug loads a product by its URL slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Create inserts a new listing.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update persists the provided column changes and returns the fresh row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Product, error) {
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).
			Model(&models.Product{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

// Delete removes the listing.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// CountOrderReferences reports how many order lines point at the product.
func (r *Repository) CountOrderReferences(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("product_id = ?", id).
		Count(&count).Error
	return count, err
}

// List pages through the catalog with the provided filters.
func (r *Repository) List(ctx context.Context, input ListInput) ([]models.Product, int64, error) {
	params := input.Pagination.Normalize()

	query := r.db.WithContext(ctx).Model(&models.Product{})
	if !input.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if category := strings.TrimSpace(input.Filters.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if input.Filters.PriceMinCents != nil {
		query = query.Where("price_cents >= ?", *input.Filters.PriceMinCents)
	}
	if input.Filters.PriceMaxCents != nil {
		query = query.Where("price_cents <= ?", *input.Filters.PriceMaxCents)
	}
	if input.Filters.Featured != nil {
		query = query.Where("is_featured = ?", *input.Filters.Featured)
	}
	if q := strings.TrimSpace(input.Filters.Query); q != "" {
		like := "%" + q + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch input.Sort {
	case SortPriceAsc:
		query = query.Order("price_cents ASC")
	case SortPriceDesc:
		query = query.Order("price_cents DESC")
	case SortName:
		query = query.Order("name ASC")
	default:
		query = query.Order("created_at DESC")
	}

	var rows []models.Product
	err := query.
		Order("id DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// DecrementStock atomically reduces stock, refusing to go below zero.
// The returned count is zero when the product is missing or out of stock.
func (r *Repository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	return res.RowsAffected, res.Error
}

// DecrementStockTx is DecrementStock scoped to an open transaction.
func (r *Repository) DecrementStockTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, qty int) (int64, error) {
	return r.WithTx(tx).DecrementStock(ctx, id, qty)
}

// FindByIDs loads multiple products in one round trip.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Product
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error
	return rows, err
}
