package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/elegantjewelry/jewelbox-backend/api/responses"
	"github.com/elegantjewelry/jewelbox-backend/api/validators"
	couponsvc "github.com/elegantjewelry/jewelbox-backend/internal/coupons"
	"github.com/elegantjewelry/jewelbox-backend/pkg/enums"
	pkgerrors "github.com/elegantjewelry/jewelbox-backend/pkg/errors"
	"github.com/elegantjewelry/jewelbox-backend/pkg/logger"
)

// AdminCouponsList pages through every coupon.
func AdminCouponsList(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, meta, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"coupons":    rows,
			"pagination": meta,
		})
	}
}

type createCouponRequest struct {
	Code             string     `json:"code" validate:"required,min=2,max=40"`
	Kind             string     `json:"kind" validate:"required"`
	Value            int64      `json:"value" validate:"required,min=1"`
	MinSubtotalCents int64      `json:"min_subtotal_cents" validate:"min=0"`
	StartsAt         *time.Time `json:"starts_at,omitempty"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	UsageLimit       int        `json:"usage_limit" validate:"min=0"`
	IsActive         *bool      `json:"is_active,omitempty"`
}

// AdminCouponCreate registers a new discount code.
func AdminCouponCreate(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		var body createCouponRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := enums.ParseCouponKind(strings.TrimSpace(body.Kind))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid coupon kind"))
			return
		}

		coupon, err := svc.Create(r.Context(), couponsvc.CreateCouponDTO{
			Code:             body.Code,
			Kind:             kind,
			Value:            body.Value,
			MinSubtotalCents: body.MinSubtotalCents,
			StartsAt:         body.StartsAt,
			ExpiresAt:        body.ExpiresAt,
			UsageLimit:       body.UsageLimit,
			IsActive:         body.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, coupon)
	}
}

type updateCouponRequest struct {
	Value            *int64     `json:"value,omitempty" validate:"omitempty,min=1"`
	MinSubtotalCents *int64     `json:"min_subtotal_cents,omitempty" validate:"omitempty,min=0"`
	StartsAt         *time.Time `json:"starts_at,omitempty"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	UsageLimit       *int       `json:"usage_limit,omitempty" validate:"omitempty,min=0"`
	IsActive         *bool      `json:"is_active,omitempty"`
}

// AdminCouponUpdate applies a partial update to a coupon.
func AdminCouponUpdate(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(chi.URLParam(r, "couponId"), "couponId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateCouponRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		coupon, err := svc.Update(r.Context(), id, couponsvc.UpdateCouponDTO{
			Value:            body.Value,
			MinSubtotalCents: body.MinSubtotalCents,
			StartsAt:         body.StartsAt,
			ExpiresAt:        body.ExpiresAt,
			UsageLimit:       body.UsageLimit,
			IsActive:         body.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, coupon)
	}
}

// AdminCouponDelete removes a coupon.
func AdminCouponDelete(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(chi.URLParam(r, "couponId"), "couponId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
