package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/elegantjewelry/jewelbox-backend/pkg/db"
	"github.com/elegantjewelry/jewelbox-backend/pkg/db/models"
	pkgerrors "github.com/elegantjewelry/jewelbox-backend/pkg/errors"
	"github.com/elegantjewelry/jewelbox-backend/pkg/pagination"
)

type repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountOrderReferences(ctx context.Context, id uuid.UUID) (int64, error)
	List(ctx context.Context, input ListInput) ([]models.Product, int64, error)
}

// Service exposes catalog reads for the storefront and CRUD for admins.
type Service interface {
	List(ctx context.Context, input ListInput) ([]ProductDTO, pagination.Meta, error)
	GetBySlug(ctx context.Context, slug string) (*ProductDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	Create(ctx context.Context, dto CreateProductDTO) (*ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdateProductDTO) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo repository
}

// NewService builds a catalog service backed by the provided repository.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, input ListInput) ([]ProductDTO, pagination.Meta, error) {
	sort, err := ParseSort(input.Sort)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sort")
	}
	input.Sort = sort

	rows, total, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return FromModels(rows), pagination.BuildMeta(input.Pagination, total), nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*ProductDTO, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	product, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return FromModel(product), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}
	return FromModel(product), nil
}

func (s *service) Create(ctx context.Context, dto CreateProductDTO) (*ProductDTO, error) {
	if strings.TrimSpace(dto.Slug) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	if strings.TrimSpace(dto.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if dto.PriceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_cents must not be negative")
	}
	if dto.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
	}

	product, err := s.repo.Create(ctx, dto.ToModel())
	if err != nil {
		if db.IsUniqueViolation(err, "idx_products_slug") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return FromModel(product), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, dto UpdateProductDTO) (*ProductDTO, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}

	updates := map[string]any{}
	if dto.Name != nil {
		if strings.TrimSpace(*dto.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be empty")
		}
		updates["name"] = *dto.Name
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if dto.Category != nil {
		updates["category"] = *dto.Category
	}
	if dto.PriceCents != nil {
		if *dto.PriceCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_cents must not be negative")
		}
		updates["price_cents"] = *dto.PriceCents
	}
	if dto.CompareAtPriceCents != nil {
		updates["compare_at_price_cents"] = *dto.CompareAtPriceCents
	}
	if dto.Stock != nil {
		if *dto.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
		}
		updates["stock"] = *dto.Stock
	}
	if dto.Images != nil {
		updates["images"] = dto.Images
	}
	if dto.IsActive != nil {
		updates["is_active"] = *dto.IsActive
	}
	if dto.IsFeatured != nil {
		updates["is_featured"] = *dto.IsFeatured
	}

	product, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	return FromModel(product), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}
	refs, err := s.repo.CountOrderReferences(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check order references")
	}
	// Products already sold stay on record for order history; they are only
	// deactivated so the storefront stops listing them.
	if refs > 0 {
		if _, err := s.repo.Update(ctx, id, map[string]any{"is_active": false}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deactivate product")
		}
		return nil
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	return nil
}
