package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/elegantjewelry/jewelbox-backend/api/responses"
	"github.com/elegantjewelry/jewelbox-backend/api/validators"
	productsvc "github.com/elegantjewelry/jewelbox-backend/internal/products"
	pkgerrors "github.com/elegantjewelry/jewelbox-backend/pkg/errors"
	"github.com/elegantjewelry/jewelbox-backend/pkg/logger"
	"github.com/elegantjewelry/jewelbox-backend/pkg/pagination"
)

// ProductsList serves the storefront catalog with filters and sorting.
func ProductsList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		input, err := catalogListInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, meta, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"products":   rows,
			"pagination": meta,
		})
	}
}

// ProductDetail serves a single active product by its slug.
func ProductDetail(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		slug := validators.SanitizeString(chi.URLParam(r, "slug"), 120)
		product, err := svc.GetBySlug(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func catalogListInput(r *http.Request) (productsvc.ListInput, error) {
	params, err := validators.ParsePagination(r)
	if err != nil {
		return productsvc.ListInput{}, err
	}

	priceMin, err := validators.ParseQueryInt64(r, "price_min_cents")
	if err != nil {
		return productsvc.ListInput{}, err
	}
	priceMax, err := validators.ParseQueryInt64(r, "price_max_cents")
	if err != nil {
		return productsvc.ListInput{}, err
	}
	featured, err := validators.ParseQueryBool(r, "featured")
	if err != nil {
		return productsvc.ListInput{}, err
	}
	sort, err := productsvc.ParseSort(r.URL.Query().Get("sort"))
	if err != nil {
		return productsvc.ListInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sort")
	}

	return productsvc.ListInput{
		Filters: productsvc.ListFilters{
			Category:      validators.SanitizeString(r.URL.Query().Get("category"), 80),
			PriceMinCents: priceMin,
			PriceMaxCents: priceMax,
			Featured:      featured,
			Query:         validators.SanitizeString(r.URL.Query().Get("q"), 120),
		},
		Pagination: pagination.Params{Page: params.Page, Limit: params.Limit},
		Sort:       sort,
	}, nil
}
