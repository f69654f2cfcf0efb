package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/elegantjewelry/jewelbox-backend/pkg/db/models"
	pkgerrors "github.com/elegantjewelry/jewelbox-backend/pkg/errors"
	"github.com/elegantjewelry/jewelbox-backend/pkg/enums"
	"github.com/elegantjewelry/jewelbox-backend/pkg/outbox"
	"github.com/elegantjewelry/jewelbox-backend/pkg/outbox/payloads"
	"github.com/elegantjewelry/jewelbox-backend/pkg/pagination"
)

type repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, int64, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Order, int64, error)
	UpdateStatusTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, status enums.OrderStatus) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service exposes order history for customers and lifecycle management for staff.
type Service interface {
	GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]OrderDTO, pagination.Meta, error)
	Get(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]OrderDTO, pagination.Meta, error)
	UpdateStatus(ctx context.Context, actor outbox.ActorRef, orderID uuid.UUID, next enums.OrderStatus) (*OrderDTO, error)
	CancelForUser(ctx context.Context, actor outbox.ActorRef, userID, orderID uuid.UUID) (*OrderDTO, error)
}

type service struct {
	repo   repository
	tx     txRunner
	events eventEmitter
	now    func() time.Time
}

func NewService(repo repository, tx txRunner, events eventEmitter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	return &service{repo: repo, tx: tx, events: events, now: time.Now}, nil
}

func (s *service) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	// Orders belonging to someone else look like they do not exist.
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return FromModel(order), nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]OrderDTO, pagination.Meta, error) {
	rows, total, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return FromModels(rows), pagination.BuildMeta(params, total), nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return FromModel(order), nil
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]OrderDTO, pagination.Meta, error) {
	rows, total, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return FromModels(rows), pagination.BuildMeta(params, total), nil
}

func (s *service) UpdateStatus(ctx context.Context, actor outbox.ActorRef, orderID uuid.UUID, next enums.OrderStatus) (*OrderDTO, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, next))
	}

	from := order.Status
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.UpdateStatusTx(ctx, tx, orderID, next); err != nil {
			return err
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.OutboxEventOrderStatusChanged,
			AggregateType: enums.OutboxAggregateOrder,
			AggregateID:   orderID,
			Actor:         &actor,
			Version:       1,
			Data: payloads.OrderStatusChangedEvent{
				OrderID:    orderID,
				UserID:     order.UserID,
				FromStatus: from,
				ToStatus:   next,
				ChangedAt:  s.now(),
			},
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
	}

	order.Status = next
	return FromModel(order), nil
}

func (s *service) CancelForUser(ctx context.Context, actor outbox.ActorRef, userID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	// Customers may only back out before payment is captured. Anything later
	// goes through support and the staff status endpoint.
	if order.Status != enums.OrderStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order in status %s can no longer be cancelled", order.Status))
	}

	from := order.Status
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.UpdateStatusTx(ctx, tx, orderID, enums.OrderStatusCancelled); err != nil {
			return err
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.OutboxEventOrderStatusChanged,
			AggregateType: enums.OutboxAggregateOrder,
			AggregateID:   orderID,
			Actor:         &actor,
			Version:       1,
			Data: payloads.OrderStatusChangedEvent{
				OrderID:    orderID,
				UserID:     order.UserID,
				FromStatus: from,
				ToStatus:   enums.OrderStatusCancelled,
				ChangedAt:  s.now(),
			},
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancel order")
	}

	order.Status = enums.OrderStatusCancelled
	return FromModel(order), nil
}

func (s *service) load(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup order")
	}
	return order, nil
}
