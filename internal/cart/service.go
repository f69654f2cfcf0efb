package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/elegantjewelry/jewelbox-backend/pkg/db/models"
	pkgerrors "github.com/elegantjewelry/jewelbox-backend/pkg/errors"
	"github.com/elegantjewelry/jewelbox-backend/pkg/logger"
)

type cartRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	FindLine(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error)
	Upsert(ctx context.Context, item *models.CartItem) error
	UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int, unitPriceCents int64) (int64, error)
	DeleteLine(ctx context.Context, userID, productID uuid.UUID) (int64, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type productReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service manages the per-user shopping cart.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	AddItem(ctx context.Context, userID uuid.UUID, dto AddItemDTO) (*CartDTO, error)
	UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo     cartRepository
	products productReader
	logg     *logger.Logger
}

func NewService(repo cartRepository, products productReader, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, products: products, logg: logg}, nil
}

// Get returns the cart with price snapshots refreshed against the live
// catalog. Lines whose product disappeared or went inactive are dropped.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	lines, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}

	kept := make([]models.CartItem, 0, len(lines))
	for i := range lines {
		line := lines[i]
		if line.Product == nil || !line.Product.IsActive {
			if _, err := s.repo.DeleteLine(ctx, userID, line.ProductID); err != nil {
				warnCtx := s.logg.WithFields(ctx, map[string]any{
					"product_id": line.ProductID.String(),
					"error":      err.Error(),
				})
				s.logg.Warn(warnCtx, "drop stale cart line failed")
			}
			continue
		}
		if line.UnitPriceCents != line.Product.PriceCents {
			line.UnitPriceCents = line.Product.PriceCents
			if _, err := s.repo.UpdateQuantity(ctx, userID, line.ProductID, line.Quantity, line.UnitPriceCents); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "refresh cart price")
			}
		}
		kept = append(kept, line)
	}

	cart := buildCart(kept)
	return &cart, nil
}

func (s *service) AddItem(ctx context.Context, userID uuid.UUID, dto AddItemDTO) (*CartDTO, error) {
	product, err := s.loadSellable(ctx, dto.ProductID)
	if err != nil {
		return nil, err
	}
	if product.Stock <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "product is out of stock")
	}

	quantity := dto.Quantity
	if existing, err := s.repo.FindLine(ctx, userID, dto.ProductID); err == nil {
		quantity += existing.Quantity
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart line")
	}
	quantity = clampQuantity(quantity, product.Stock)

	line := &models.CartItem{
		ID:             uuid.New(),
		UserID:         userID,
		ProductID:      dto.ProductID,
		Quantity:       quantity,
		UnitPriceCents: product.PriceCents,
		Variant:        dto.Variant,
	}
	if err := s.repo.Upsert(ctx, line); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save cart line")
	}
	return s.Get(ctx, userID)
}

func (s *service) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, productID)
	}

	product, err := s.loadSellable(ctx, productID)
	if err != nil {
		return nil, err
	}
	quantity = clampQuantity(quantity, product.Stock)

	affected, err := s.repo.UpdateQuantity(ctx, userID, productID, quantity, product.PriceCents)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart line")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return s.Get(ctx, userID)
}

func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartDTO, error) {
	affected, err := s.repo.DeleteLine(ctx, userID, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart line")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return s.Get(ctx, userID)
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}
	return nil
}

func (s *service) loadSellable(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

// Quantities always land between one and the available stock.
func clampQuantity(quantity, stock int) int {
	if quantity < 1 {
		return 1
	}
	if quantity > stock {
		return stock
	}
	return quantity
}
