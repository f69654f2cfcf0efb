package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/elegantjewelry/jewelbox-backend/api/responses"
	"github.com/elegantjewelry/jewelbox-backend/api/validators"
	productsvc "github.com/elegantjewelry/jewelbox-backend/internal/products"
	pkgerrors "github.com/elegantjewelry/jewelbox-backend/pkg/errors"
	"github.com/elegantjewelry/jewelbox-backend/pkg/logger"
)

// AdminProductsList lists the catalog for staff, inactive rows included.
func AdminProductsList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
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
		input.IncludeInactive = true

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

// AdminProductDetail loads one listing by id, active or not.
func AdminProductDetail(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

type createProductRequest struct {
	Slug                string   `json:"slug" validate:"required,max=120"`
	Name                string   `json:"name" validate:"required,max=200"`
	Description         *string  `json:"description,omitempty"`
	Category            string   `json:"category" validate:"required,max=80"`
	PriceCents          int64    `json:"price_cents" validate:"required,min=1"`
	CompareAtPriceCents *int64   `json:"compare_at_price_cents,omitempty" validate:"omitempty,min=1"`
	Stock               int      `json:"stock" validate:"min=0"`
	Images              []string `json:"images,omitempty"`
	IsActive            *bool    `json:"is_active,omitempty"`
	IsFeatured          bool     `json:"is_featured"`
}

// AdminProductCreate adds a new listing.
func AdminProductCreate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), productsvc.CreateProductDTO{
			Slug:                strings.TrimSpace(body.Slug),
			Name:                strings.TrimSpace(body.Name),
			Description:         body.Description,
			Category:            strings.TrimSpace(body.Category),
			PriceCents:          body.PriceCents,
			CompareAtPriceCents: body.CompareAtPriceCents,
			Stock:               body.Stock,
			Images:              body.Images,
			IsActive:            body.IsActive,
			IsFeatured:          body.IsFeatured,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

type updateProductRequest struct {
	Name                *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	Description         *string  `json:"description,omitempty"`
	Category            *string  `json:"category,omitempty" validate:"omitempty,max=80"`
	PriceCents          *int64   `json:"price_cents,omitempty" validate:"omitempty,min=1"`
	CompareAtPriceCents *int64   `json:"compare_at_price_cents,omitempty" validate:"omitempty,min=1"`
	Stock               *int     `json:"stock,omitempty" validate:"omitempty,min=0"`
	Images              []string `json:"images,omitempty"`
	IsActive            *bool    `json:"is_active,omitempty"`
	IsFeatured          *bool    `json:"is_featured,omitempty"`
}

// AdminProductUpdate applies a partial update to a listing.
func AdminProductUpdate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), id, productsvc.UpdateProductDTO{
			Name:                body.Name,
			Description:         body.Description,
			Category:            body.Category,
			PriceCents:          body.PriceCents,
			CompareAtPriceCents: body.CompareAtPriceCents,
			Stock:               body.Stock,
			Images:              body.Images,
			IsActive:            body.IsActive,
			IsFeatured:          body.IsFeatured,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// AdminProductDelete removes (or deactivates) a listing.
func AdminProductDelete(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(chi.URLParam(r, "productId"), "productId")
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
