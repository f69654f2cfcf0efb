package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/elegantjewelry/jewelbox-backend/api/middleware"
	"github.com/elegantjewelry/jewelbox-backend/api/responses"
	"github.com/elegantjewelry/jewelbox-backend/api/validators"
	ordersvc "github.com/elegantjewelry/jewelbox-backend/internal/orders"
	"github.com/elegantjewelry/jewelbox-backend/pkg/enums"
	pkgerrors "github.com/elegantjewelry/jewelbox-backend/pkg/errors"
	"github.com/elegantjewelry/jewelbox-backend/pkg/logger"
	"github.com/elegantjewelry/jewelbox-backend/pkg/outbox"
)

// AdminOrdersList pages through every order, optionally by status or customer.
func AdminOrdersList(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filters ordersvc.ListFilters
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			filters.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("user_id")); raw != "" {
			userID, err := validators.ParseUUIDParam(raw, "user_id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			filters.UserID = &userID
		}

		rows, meta, err := svc.List(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"orders":     rows,
			"pagination": meta,
		})
	}
}

// AdminOrderDetail loads any order by id.
func AdminOrderDetail(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := validators.ParseUUIDParam(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminOrderUpdateStatus moves an order through its lifecycle.
func AdminOrderUpdateStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := validators.ParseUUIDParam(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		next, err := enums.ParseOrderStatus(strings.TrimSpace(body.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		actorID, _ := uuid.Parse(middleware.UserIDFromContext(r.Context()))
		actor := outbox.ActorRef{
			UserID: actorID,
			Role:   middleware.RoleFromContext(r.Context()),
		}

		order, err := svc.UpdateStatus(r.Context(), actor, orderID, next)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}
