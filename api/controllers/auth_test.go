package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/elegantjewelry/jewelbox-backend/internal/auth"
	"github.com/elegantjewelry/jewelbox-backend/internal/users"
	"github.com/elegantjewelry/jewelbox-backend/pkg/enums"
	pkgerrors "github.com/elegantjewelry/jewelbox-backend/pkg/errors"
)

type stubAuthService struct {
	login    *auth.LoginResponse
	refresh  *auth.RefreshResponse
	err      error
	loggedID string
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return s.login, s.err
}

func (s *stubAuthService) AdminLogin(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return s.login, s.err
}

func (s *stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.RefreshResponse, error) {
	return s.refresh, s.err
}

func (s *stubAuthService) Logout(ctx context.Context, accessID string) error {
	s.loggedID = accessID
	return s.err
}

func TestAuthLoginSetsTokenHeader(t *testing.T) {
	service := &stubAuthService{
		login: &auth.LoginResponse{
			AccessToken:  "access-token",
			RefreshToken: "refresh-token",
			User: &users.UserDTO{
				ID:    uuid.New(),
				Email: "shopper@example.com",
				Role:  enums.UserRoleCustomer,
			},
		},
	}
	handler := AuthLogin(service, nil)

	body := `{"email":"shopper@example.com","password":"velvet-lining"}`
	req := authedRequest(http.MethodPost, "/api/v1/auth/login", body)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Header().Get("X-JB-Token"); got != "access-token" {
		t.Fatalf("token header not set, got %q", got)
	}

	var envelope struct {
		Data auth.LoginResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.User == nil || envelope.Data.User.Email != "shopper@example.com" {
		t.Fatalf("profile missing from login response")
	}
}

func TestAuthLoginRejectsMalformedEmail(t *testing.T) {
	handler := AuthLogin(&stubAuthService{}, nil)

	body := `{"email":"not-an-email","password":"velvet-lining"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/auth/login", body))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAuthLoginPropagatesUnauthorized(t *testing.T) {
	service := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	handler := AuthLogin(service, nil)

	body := `{"email":"shopper@example.com","password":"wrong"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/auth/login", body))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRefreshRotatesPair(t *testing.T) {
	service := &stubAuthService{
		refresh: &auth.RefreshResponse{AccessToken: "next-access", RefreshToken: "next-refresh"},
	}
	handler := AuthRefresh(service, nil)

	body := `{"access_token":"old-access","refresh_token":"old-refresh"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/auth/refresh", body))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Header().Get("X-JB-Token"); got != "next-access" {
		t.Fatalf("rotated token header not set, got %q", got)
	}
}

func TestAuthLogoutRequiresBearerToken(t *testing.T) {
	handler := AuthLogout(&stubAuthService{}, testJWTConfig(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
