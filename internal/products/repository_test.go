package products

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/elegantjewelry/jewelbox-backend/pkg/db"
	"github.com/elegantjewelry/jewelbox-backend/pkg/db/models"
	"github.com/elegantjewelry/jewelbox-backend/pkg/pagination"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  slug TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  description TEXT,
  category TEXT NOT NULL,
  price_cents INTEGER NOT NULL,
  compare_at_price_cents INTEGER,
  stock INTEGER NOT NULL DEFAULT 0,
  images TEXT NOT NULL DEFAULT '{}',
  is_active INTEGER NOT NULL DEFAULT 1,
  is_featured INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(products).Error)
	require.NoError(t, conn.Exec("DELETE FROM products").Error)
	return conn
}

func seedProduct(t *testing.T, conn *gorm.DB, slug, category string, priceCents int64, stock int, active, featured bool) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:         uuid.New(),
		Slug:       slug,
		Name:       "Product " + slug,
		Category:   category,
		PriceCents: priceCents,
		Stock:      stock,
		Images:     []string{},
		IsActive:   active,
		IsFeatured: featured,
	}
	require.NoError(t, conn.Create(product).Error)
	return product
}

func TestRepositoryFindBySlug(t *testing.T) {
	conn := setupProductsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	seeded := seedProduct(t, conn, "emerald-pendant", "necklaces", 24999, 4, true, false)

	found, err := repo.FindBySlug(ctx, "emerald-pendant")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, found.ID)
	assert.Equal(t, int64(24999), found.PriceCents)

	_, err = repo.FindBySlug(ctx, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryCreateDuplicateSlug(t *testing.T) {
	conn := setupProductsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	seedProduct(t, conn, "gold-band", "rings", 9999, 10, true, false)

	_, err := repo.Create(ctx, &models.Product{
		ID:       uuid.New(),
		Slug:     "gold-band",
		Name:     "Another Gold Band",
		Category: "rings",
		Images:   []string{},
	})
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, ""))
}

func TestRepositoryListFilters(t *testing.T) {
	conn := setupProductsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	seedProduct(t, conn, "ruby-ring", "rings", 19999, 3, true, true)
	seedProduct(t, conn, "silver-ring", "rings", 4999, 8, true, false)
	seedProduct(t, conn, "pearl-necklace", "necklaces", 8999, 2, true, false)
	seedProduct(t, conn, "retired-ring", "rings", 2999, 0, false, false)

	rows, total, err := repo.List(ctx, ListInput{Filters: ListFilters{Category: "rings"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, rows, 2)

	rows, total, err = repo.List(ctx, ListInput{Filters: ListFilters{Category: "rings"}, IncludeInactive: true})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, rows, 3)

	minPrice := int64(5000)
	rows, total, err = repo.List(ctx, ListInput{Filters: ListFilters{PriceMinCents: &minPrice}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, row := range rows {
		assert.GreaterOrEqual(t, row.PriceCents, minPrice)
	}

	featured := true
	_, total, err = repo.List(ctx, ListInput{Filters: ListFilters{Featured: &featured}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = repo.List(ctx, ListInput{Filters: ListFilters{Query: "pearl"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestRepositoryListPagination(t *testing.T) {
	conn := setupProductsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		seedProduct(t, conn, fmt.Sprintf("stud-%02d", i), "earrings", 1000+int64(i), 5, true, false)
	}

	rows, total, err := repo.List(ctx, ListInput{Pagination: pagination.Params{Page: 1}})
	require.NoError(t, err)
	assert.Equal(t, int64(15), total)
	assert.Len(t, rows, pagination.DefaultLimit)

	rows, total, err = repo.List(ctx, ListInput{Pagination: pagination.Params{Page: 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(15), total)
	assert.Len(t, rows, 3)
}

func TestRepositoryDecrementStock(t *testing.T) {
	conn := setupProductsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	product := seedProduct(t, conn, "tennis-bracelet", "bracelets", 59999, 5, true, false)

	affected, err := repo.DecrementStock(ctx, product.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	fresh, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.Stock)

	affected, err = repo.DecrementStock(ctx, product.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	fresh, err = repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.Stock)
}

func TestRepositoryUpdateAndDelete(t *testing.T) {
	conn := setupProductsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	product := seedProduct(t, conn, "charm-anklet", "anklets", 3499, 7, true, false)

	updated, err := repo.Update(ctx, product.ID, map[string]any{
		"name":        "Charm Anklet Deluxe",
		"price_cents": int64(3999),
	})
	require.NoError(t, err)
	assert.Equal(t, "Charm Anklet Deluxe", updated.Name)
	assert.Equal(t, int64(3999), updated.PriceCents)

	require.NoError(t, repo.Delete(ctx, product.ID))
	_, err = repo.FindByID(ctx, product.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListSorting(t *testing.T) {
	conn := setupProductsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	seedProduct(t, conn, "ruby-ring", "rings", 9900, 5, true, false)
	seedProduct(t, conn, "amber-ring", "rings", 1900, 5, true, false)
	seedProduct(t, conn, "pearl-ring", "rings", 4900, 5, true, false)

	rows, _, err := repo.List(ctx, ListInput{Sort: SortPriceAsc})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "amber-ring", rows[0].Slug)
	assert.Equal(t, "ruby-ring", rows[2].Slug)

	rows, _, err = repo.List(ctx, ListInput{Sort: SortName})
	require.NoError(t, err)
	assert.Equal(t, "Product amber-ring", rows[0].Name)
}
