package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/elegantjewelry/jewelbox-backend/pkg/db/models"
	pkgerrors "github.com/elegantjewelry/jewelbox-backend/pkg/errors"
	"github.com/elegantjewelry/jewelbox-backend/pkg/pagination"
)

type repository interface {
	List(ctx context.Context, search string, params pagination.Params) ([]models.User, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	OrderStats(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]orderStats, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// Service backs the admin customer directory.
type Service interface {
	List(ctx context.Context, search string, params pagination.Params) ([]CustomerDTO, pagination.Meta, error)
	Get(ctx context.Context, id uuid.UUID) (*CustomerDTO, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*CustomerDTO, error)
}

type service struct {
	repo repository
}

func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, search string, params pagination.Params) ([]CustomerDTO, pagination.Meta, error) {
	rows, total, err := s.repo.List(ctx, strings.TrimSpace(search), params)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list customers")
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	stats, err := s.repo.OrderStats(ctx, ids)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregate customer orders")
	}

	result := make([]CustomerDTO, 0, len(rows))
	for i := range rows {
		result = append(result, fromModel(&rows[i], stats[rows[i].ID]))
	}
	return result, pagination.BuildMeta(params, total), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CustomerDTO, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	stats, err := s.repo.OrderStats(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregate customer orders")
	}
	dto := fromModel(user, stats[id])
	return &dto, nil
}

func (s *service) SetActive(ctx context.Context, id uuid.UUID, active bool) (*CustomerDTO, error) {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update customer")
	}
	return s.Get(ctx, id)
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup customer")
	}
	return user, nil
}
