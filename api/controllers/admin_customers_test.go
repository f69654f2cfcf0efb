package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	customersvc "github.com/elegantjewelry/jewelbox-backend/internal/customers"
	pkgerrors "github.com/elegantjewelry/jewelbox-backend/pkg/errors"
	"github.com/elegantjewelry/jewelbox-backend/pkg/pagination"
)

type stubCustomerService struct {
	customer   *customersvc.CustomerDTO
	customers  []customersvc.CustomerDTO
	meta       pagination.Meta
	err        error
	lastSearch string
	lastID     uuid.UUID
	lastActive bool
}

func (s *stubCustomerService) List(ctx context.Context, search string, params pagination.Params) ([]customersvc.CustomerDTO, pagination.Meta, error) {
	s.lastSearch = search
	return s.customers, s.meta, s.err
}

func (s *stubCustomerService) Get(ctx context.Context, id uuid.UUID) (*customersvc.CustomerDTO, error) {
	s.lastID = id
	return s.customer, s.err
}

func (s *stubCustomerService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*customersvc.CustomerDTO, error) {
	s.lastID = id
	s.lastActive = active
	return s.customer, s.err
}

func TestAdminCustomersListForwardsSearch(t *testing.T) {
	service := &stubCustomerService{
		customers: []customersvc.CustomerDTO{{ID: uuid.New(), Email: "pearl@example.com"}},
		meta:      pagination.Meta{Page: 1, Limit: 20, TotalItems: 1, TotalPages: 1},
	}
	handler := AdminCustomersList(service, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/admin/v1/customers?q=pearl", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if service.lastSearch != "pearl" {
		t.Fatalf("search not forwarded, got %q", service.lastSearch)
	}

	var envelope struct {
		Data struct {
			Customers []customersvc.CustomerDTO `json:"customers"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Customers) != 1 {
		t.Fatalf("customers missing from payload")
	}
}

func TestAdminCustomerDetailNotFound(t *testing.T) {
	customerID := uuid.New()
	service := &stubCustomerService{err: pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")}
	handler := AdminCustomerDetail(service, nil)

	req := authedRequest(http.MethodGet, "/api/admin/v1/customers/"+customerID.String(), "")
	req = withURLParam(req, "customerId", customerID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestAdminCustomerSetActiveDeactivates(t *testing.T) {
	customerID := uuid.New()
	service := &stubCustomerService{
		customer: &customersvc.CustomerDTO{ID: customerID, IsActive: false},
	}
	handler := AdminCustomerSetActive(service, nil)

	req := authedRequest(http.MethodPost, "/api/admin/v1/customers/"+customerID.String()+"/active", `{"active":false}`)
	req = withURLParam(req, "customerId", customerID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if service.lastID != customerID || service.lastActive {
		t.Fatalf("deactivation not forwarded")
	}
}

func TestAdminCustomerSetActiveRequiresFlag(t *testing.T) {
	customerID := uuid.New()
	handler := AdminCustomerSetActive(&stubCustomerService{}, nil)

	req := authedRequest(http.MethodPost, "/api/admin/v1/customers/"+customerID.String()+"/active", `{}`)
	req = withURLParam(req, "customerId", customerID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
