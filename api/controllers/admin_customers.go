package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/elegantjewelry/jewelbox-backend/api/responses"
	"github.com/elegantjewelry/jewelbox-backend/api/validators"
	customersvc "github.com/elegantjewelry/jewelbox-backend/internal/customers"
	pkgerrors "github.com/elegantjewelry/jewelbox-backend/pkg/errors"
	"github.com/elegantjewelry/jewelbox-backend/pkg/logger"
)

// AdminCustomersList pages through customer accounts with order aggregates.
func AdminCustomersList(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		search := validators.SanitizeString(r.URL.Query().Get("q"), 120)

		rows, meta, err := svc.List(r.Context(), search, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"customers":  rows,
			"pagination": meta,
		})
	}
}

// AdminCustomerDetail returns one customer profile.
func AdminCustomerDetail(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(chi.URLParam(r, "customerId"), "customerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, customer)
	}
}

type setCustomerActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// AdminCustomerSetActive toggles whether an account may sign in.
func AdminCustomerSetActive(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(chi.URLParam(r, "customerId"), "customerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body setCustomerActiveRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.SetActive(r.Context(), id, *body.Active)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, customer)
	}
}
