package cart

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/elegantjewelry/jewelbox-backend/pkg/db/models"
	pkgerrors "github.com/elegantjewelry/jewelbox-backend/pkg/errors"
	"github.com/elegantjewelry/jewelbox-backend/pkg/logger"
)

type stubCartRepo struct {
	lines map[uuid.UUID]*models.CartItem
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{lines: map[uuid.UUID]*models.CartItem{}}
}

func (s *stubCartRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var out []models.CartItem
	for _, line := range s.lines {
		if line.UserID == userID {
			out = append(out, *line)
		}
	}
	return out, nil
}

func (s *stubCartRepo) FindLine(_ context.Context, userID, productID uuid.UUID) (*models.CartItem, error) {
	for _, line := range s.lines {
		if line.UserID == userID && line.ProductID == productID {
			copied := *line
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) Upsert(_ context.Context, item *models.CartItem) error {
	for id, line := range s.lines {
		if line.UserID == item.UserID && line.ProductID == item.ProductID {
			item.ID = id
			item.Product = line.Product
			s.lines[id] = item
			return nil
		}
	}
	s.lines[item.ID] = item
	return nil
}

func (s *stubCartRepo) UpdateQuantity(_ context.Context, userID, productID uuid.UUID, quantity int, unitPriceCents int64) (int64, error) {
	for _, line := range s.lines {
		if line.UserID == userID && line.ProductID == productID {
			line.Quantity = quantity
			line.UnitPriceCents = unitPriceCents
			return 1, nil
		}
	}
	return 0, nil
}

func (s *stubCartRepo) DeleteLine(_ context.Context, userID, productID uuid.UUID) (int64, error) {
	for id, line := range s.lines {
		if line.UserID == userID && line.ProductID == productID {
			delete(s.lines, id)
			return 1, nil
		}
	}
	return 0, nil
}

func (s *stubCartRepo) Clear(_ context.Context, userID uuid.UUID) error {
	for id, line := range s.lines {
		if line.UserID == userID {
			delete(s.lines, id)
		}
	}
	return nil
}

// attach links each line to its product, mirroring the Preload the real
// repository performs.
func (s *stubCartRepo) attach(products map[uuid.UUID]*models.Product) {
	for _, line := range s.lines {
		line.Product = products[line.ProductID]
	}
}

type stubProducts struct {
	products map[uuid.UUID]*models.Product
}

func (s *stubProducts) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{Output: io.Discard})
}

func newTestService(t *testing.T) (Service, *stubCartRepo, *stubProducts) {
	t.Helper()
	repo := newStubCartRepo()
	products := &stubProducts{products: map[uuid.UUID]*models.Product{}}
	svc, err := NewService(repo, products, testLogger())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, repo, products
}

func activeProduct(priceCents int64, stock int) *models.Product {
	return &models.Product{
		ID:         uuid.New(),
		Slug:       "stud-earrings",
		Name:       "Stud Earrings",
		Category:   "earrings",
		PriceCents: priceCents,
		Stock:      stock,
		IsActive:   true,
	}
}

func TestAddItemClampsToStock(t *testing.T) {
	svc, repo, products := newTestService(t)
	product := activeProduct(2500, 3)
	products.products[product.ID] = product

	userID := uuid.New()
	_, err := svc.AddItem(context.Background(), userID, AddItemDTO{ProductID: product.ID, Quantity: 10})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	line, err := repo.FindLine(context.Background(), userID, product.ID)
	if err != nil {
		t.Fatalf("FindLine: %v", err)
	}
	if line.Quantity != 3 {
		t.Fatalf("expected quantity clamped to 3, got %d", line.Quantity)
	}
	if line.UnitPriceCents != 2500 {
		t.Fatalf("expected snapshot 2500, got %d", line.UnitPriceCents)
	}
}

func TestAddItemMergesExistingLine(t *testing.T) {
	svc, repo, products := newTestService(t)
	product := activeProduct(2500, 10)
	products.products[product.ID] = product

	userID := uuid.New()
	ctx := context.Background()
	if _, err := svc.AddItem(ctx, userID, AddItemDTO{ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("first AddItem: %v", err)
	}
	if _, err := svc.AddItem(ctx, userID, AddItemDTO{ProductID: product.ID, Quantity: 3}); err != nil {
		t.Fatalf("second AddItem: %v", err)
	}

	line, err := repo.FindLine(ctx, userID, product.ID)
	if err != nil {
		t.Fatalf("FindLine: %v", err)
	}
	if line.Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %d", line.Quantity)
	}
}

func TestAddItemOutOfStock(t *testing.T) {
	svc, _, products := newTestService(t)
	product := activeProduct(2500, 0)
	products.products[product.ID] = product

	_, err := svc.AddItem(context.Background(), uuid.New(), AddItemDTO{ProductID: product.ID, Quantity: 1})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict for out of stock, got %v", err)
	}
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.AddItem(context.Background(), uuid.New(), AddItemDTO{ProductID: uuid.New(), Quantity: 1})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	svc, repo, products := newTestService(t)
	product := activeProduct(2500, 10)
	products.products[product.ID] = product

	userID := uuid.New()
	ctx := context.Background()
	if _, err := svc.AddItem(ctx, userID, AddItemDTO{ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	repo.attach(products.products)

	cart, err := svc.UpdateQuantity(ctx, userID, product.ID, 0)
	if err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(cart.Items))
	}
}

func TestGetRefreshesPriceSnapshot(t *testing.T) {
	svc, repo, products := newTestService(t)
	product := activeProduct(2500, 10)
	products.products[product.ID] = product

	userID := uuid.New()
	ctx := context.Background()
	if _, err := svc.AddItem(ctx, userID, AddItemDTO{ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	product.PriceCents = 2900
	repo.attach(products.products)

	cart, err := svc.Get(ctx, userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(cart.Items))
	}
	if cart.Items[0].UnitPriceCents != 2900 {
		t.Fatalf("expected refreshed snapshot 2900, got %d", cart.Items[0].UnitPriceCents)
	}
	if cart.SubtotalCents != 5800 {
		t.Fatalf("expected subtotal 5800, got %d", cart.SubtotalCents)
	}
}

func TestGetDropsInactiveProducts(t *testing.T) {
	svc, repo, products := newTestService(t)
	product := activeProduct(2500, 10)
	products.products[product.ID] = product

	userID := uuid.New()
	ctx := context.Background()
	if _, err := svc.AddItem(ctx, userID, AddItemDTO{ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	product.IsActive = false
	repo.attach(products.products)

	cart, err := svc.Get(ctx, userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected stale line dropped, got %d items", len(cart.Items))
	}
	if _, err := repo.FindLine(ctx, userID, product.ID); err == nil {
		t.Fatal("expected line deleted from repo")
	}
}
