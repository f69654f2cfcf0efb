package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/elegantjewelry/jewelbox-backend/api/middleware"
	ordersvc "github.com/elegantjewelry/jewelbox-backend/internal/orders"
	"github.com/elegantjewelry/jewelbox-backend/pkg/enums"
	pkgerrors "github.com/elegantjewelry/jewelbox-backend/pkg/errors"
	"github.com/elegantjewelry/jewelbox-backend/pkg/outbox"
	"github.com/elegantjewelry/jewelbox-backend/pkg/pagination"
)

type stubOrderService struct {
	order       *ordersvc.OrderDTO
	orders      []ordersvc.OrderDTO
	meta        pagination.Meta
	err         error
	lastFilters ordersvc.ListFilters
	lastActor   outbox.ActorRef
	lastStatus  enums.OrderStatus
	lastOrderID uuid.UUID
	lastUserID  uuid.UUID
}

func (s *stubOrderService) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*ordersvc.OrderDTO, error) {
	s.lastUserID = userID
	s.lastOrderID = orderID
	return s.order, s.err
}

func (s *stubOrderService) ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]ordersvc.OrderDTO, pagination.Meta, error) {
	s.lastUserID = userID
	return s.orders, s.meta, s.err
}

func (s *stubOrderService) Get(ctx context.Context, orderID uuid.UUID) (*ordersvc.OrderDTO, error) {
	s.lastOrderID = orderID
	return s.order, s.err
}

func (s *stubOrderService) List(ctx context.Context, filters ordersvc.ListFilters, params pagination.Params) ([]ordersvc.OrderDTO, pagination.Meta, error) {
	s.lastFilters = filters
	return s.orders, s.meta, s.err
}

func (s *stubOrderService) UpdateStatus(ctx context.Context, actor outbox.ActorRef, orderID uuid.UUID, next enums.OrderStatus) (*ordersvc.OrderDTO, error) {
	s.lastActor = actor
	s.lastOrderID = orderID
	s.lastStatus = next
	return s.order, s.err
}

func (s *stubOrderService) CancelForUser(ctx context.Context, actor outbox.ActorRef, userID, orderID uuid.UUID) (*ordersvc.OrderDTO, error) {
	s.lastActor = actor
	s.lastUserID = userID
	s.lastOrderID = orderID
	return s.order, s.err
}

func TestOrdersListReturnsHistory(t *testing.T) {
	service := &stubOrderService{
		orders: []ordersvc.OrderDTO{
			{ID: uuid.New(), OrderNumber: 1042, Status: enums.OrderStatusPaid},
		},
		meta: pagination.Meta{Page: 1, Limit: 20, TotalItems: 1, TotalPages: 1},
	}
	handler := OrdersList(service, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/orders", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data struct {
			Orders     []ordersvc.OrderDTO `json:"orders"`
			Pagination pagination.Meta     `json:"pagination"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Orders) != 1 || envelope.Data.Orders[0].OrderNumber != 1042 {
		t.Fatalf("unexpected orders payload %+v", envelope.Data.Orders)
	}
	if envelope.Data.Pagination.TotalItems != 1 {
		t.Fatalf("pagination meta missing")
	}
}

func TestOrdersListMissingUserContext(t *testing.T) {
	handler := OrdersList(&stubOrderService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestOrderDetailScopesToCaller(t *testing.T) {
	orderID := uuid.New()
	service := &stubOrderService{order: &ordersvc.OrderDTO{ID: orderID, OrderNumber: 7}}
	handler := OrderDetail(service, nil)

	req := authedRequest(http.MethodGet, "/api/v1/orders/"+orderID.String(), "")
	req = withURLParam(req, "orderId", orderID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if service.lastOrderID != orderID {
		t.Fatalf("order id not forwarded, got %s", service.lastOrderID)
	}
	if service.lastUserID == uuid.Nil {
		t.Fatalf("user id not taken from context")
	}
}

func TestOrderDetailRejectsBadID(t *testing.T) {
	handler := OrderDetail(&stubOrderService{}, nil)

	req := authedRequest(http.MethodGet, "/api/v1/orders/not-a-uuid", "")
	req = withURLParam(req, "orderId", "not-a-uuid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestOrderCancelBuildsActorFromContext(t *testing.T) {
	orderID := uuid.New()
	service := &stubOrderService{
		order: &ordersvc.OrderDTO{ID: orderID, Status: enums.OrderStatusCancelled},
	}
	handler := OrderCancel(service, nil)

	req := authedRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/cancel", "")
	req = withURLParam(req, "orderId", orderID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if service.lastActor.UserID != service.lastUserID {
		t.Fatalf("cancel actor should be the caller")
	}
	if service.lastActor.Role != string(enums.UserRoleCustomer) {
		t.Fatalf("unexpected actor role %q", service.lastActor.Role)
	}
}

func TestOrderCancelPropagatesStateConflict(t *testing.T) {
	orderID := uuid.New()
	service := &stubOrderService{
		err: pkgerrors.New(pkgerrors.CodeStateConflict, "only pending orders can be cancelled"),
	}
	handler := OrderCancel(service, nil)

	req := authedRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/cancel", "")
	req = withURLParam(req, "orderId", orderID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}

func TestAdminOrdersListParsesFilters(t *testing.T) {
	customerID := uuid.New()
	service := &stubOrderService{meta: pagination.Meta{Page: 1, Limit: 20}}
	handler := AdminOrdersList(service, nil)

	target := "/api/admin/v1/orders?status=shipped&user_id=" + customerID.String()
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, target, ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if service.lastFilters.Status == nil || *service.lastFilters.Status != enums.OrderStatusShipped {
		t.Fatalf("status filter not forwarded: %+v", service.lastFilters)
	}
	if service.lastFilters.UserID == nil || *service.lastFilters.UserID != customerID {
		t.Fatalf("user filter not forwarded: %+v", service.lastFilters)
	}
}

func TestAdminOrdersListRejectsUnknownStatus(t *testing.T) {
	handler := AdminOrdersList(&stubOrderService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/admin/v1/orders?status=refunded", ""))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminOrderUpdateStatusForwardsTransition(t *testing.T) {
	orderID := uuid.New()
	adminID := uuid.New()
	service := &stubOrderService{
		order: &ordersvc.OrderDTO{ID: orderID, Status: enums.OrderStatusShipped},
	}
	handler := AdminOrderUpdateStatus(service, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/orders/"+orderID.String()+"/status", strings.NewReader(`{"status":"shipped"}`))
	ctx := middleware.WithUserID(req.Context(), adminID.String())
	ctx = middleware.WithRole(ctx, string(enums.UserRoleAdmin))
	req = withURLParam(req.WithContext(ctx), "orderId", orderID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if service.lastStatus != enums.OrderStatusShipped {
		t.Fatalf("status not forwarded, got %q", service.lastStatus)
	}
	if service.lastActor.UserID != adminID || service.lastActor.Role != string(enums.UserRoleAdmin) {
		t.Fatalf("unexpected actor %+v", service.lastActor)
	}
}

func TestAdminOrderUpdateStatusRejectsUnknownValue(t *testing.T) {
	orderID := uuid.New()
	handler := AdminOrderUpdateStatus(&stubOrderService{}, nil)

	req := authedRequest(http.MethodPost, "/api/admin/v1/orders/"+orderID.String()+"/status", `{"status":"teleported"}`)
	req = withURLParam(req, "orderId", orderID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
