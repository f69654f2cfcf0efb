package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/elegantjewelry/jewelbox-backend/pkg/config"
)

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "controller-test-secret",
		Issuer:            "jewelbox-test",
		ExpirationMinutes: 15,
	}
}
