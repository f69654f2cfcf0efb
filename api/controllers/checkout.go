package controllers

import (
	"net/http"
	"strings"

	"github.com/elegantjewelry/jewelbox-backend/api/middleware"
	"github.com/elegantjewelry/jewelbox-backend/api/responses"
	"github.com/elegantjewelry/jewelbox-backend/api/validators"
	checkoutsvc "github.com/elegantjewelry/jewelbox-backend/internal/checkout"
	"github.com/elegantjewelry/jewelbox-backend/pkg/enums"
	pkgerrors "github.com/elegantjewelry/jewelbox-backend/pkg/errors"
	"github.com/elegantjewelry/jewelbox-backend/pkg/logger"
	"github.com/elegantjewelry/jewelbox-backend/pkg/outbox"
)

// CheckoutStart opens (or resumes) the caller's checkout session.
func CheckoutStart(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := svc.Start(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, state)
	}
}

// CheckoutState returns the current wizard snapshot.
func CheckoutState(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := svc.GetState(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, state)
	}
}

type checkoutShippingRequest struct {
	Email       string `json:"email" validate:"required,email"`
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Phone       string `json:"phone" validate:"required,phonedigits"`
	Address     string `json:"address" validate:"required,min=5"`
	Apartment   string `json:"apartment"`
	City        string `json:"city" validate:"required,min=2"`
	State       string `json:"state" validate:"required,min=2"`
	ZipCode     string `json:"zip_code" validate:"required,min=5"`
	Country     string `json:"country" validate:"required,min=2"`
	SaveAddress bool   `json:"save_address"`
	Method      string `json:"method" validate:"required"`
}

// CheckoutShipping records the shipping step and advances to payment.
func CheckoutShipping(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body checkoutShippingRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParseShippingMethod(strings.TrimSpace(body.Method))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shipping method"))
			return
		}

		state, err := svc.SubmitShipping(r.Context(), userID, checkoutsvc.ShippingDetails{
			Email:       body.Email,
			FirstName:   body.FirstName,
			LastName:    body.LastName,
			Phone:       body.Phone,
			Address:     body.Address,
			Apartment:   body.Apartment,
			City:        body.City,
			State:       body.State,
			ZipCode:     body.ZipCode,
			Country:     body.Country,
			SaveAddress: body.SaveAddress,
			Method:      method,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, state)
	}
}

type checkoutPaymentRequest struct {
	Method           string `json:"method" validate:"required"`
	CardholderName   string `json:"cardholder_name" validate:"required,min=2"`
	CardLastFour     string `json:"card_last_four" validate:"omitempty,len=4"`
	SameAsShipping   bool   `json:"same_as_shipping"`
	AcceptTerms      bool   `json:"accept_terms"`
	BillingAddress   string `json:"billing_address"`
	BillingApartment string `json:"billing_apartment"`
	BillingCity      string `json:"billing_city"`
	BillingState     string `json:"billing_state"`
	BillingZipCode   string `json:"billing_zip_code"`
	BillingCountry   string `json:"billing_country"`
}

// CheckoutPayment records the payment step and advances to review.
func CheckoutPayment(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body checkoutPaymentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(strings.TrimSpace(body.Method))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		state, err := svc.SubmitPayment(r.Context(), userID, checkoutsvc.PaymentDetails{
			Method:           method,
			CardholderName:   body.CardholderName,
			CardLastFour:     body.CardLastFour,
			SameAsShipping:   body.SameAsShipping,
			AcceptTerms:      body.AcceptTerms,
			BillingAddress:   body.BillingAddress,
			BillingApartment: body.BillingApartment,
			BillingCity:      body.BillingCity,
			BillingState:     body.BillingState,
			BillingZipCode:   body.BillingZipCode,
			BillingCountry:   body.BillingCountry,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, state)
	}
}

type checkoutNavigateRequest struct {
	Step string `json:"step" validate:"required"`
}

// CheckoutNavigate moves back to an earlier wizard step.
func CheckoutNavigate(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body checkoutNavigateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		step, err := enums.ParseCheckoutStep(strings.TrimSpace(body.Step))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid checkout step"))
			return
		}

		state, err := svc.GoToStep(r.Context(), userID, step)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, state)
	}
}

type applyCouponRequest struct {
	Code string `json:"code" validate:"required,min=1,max=40"`
}

// CheckoutApplyCoupon attaches a coupon to the in-progress checkout.
func CheckoutApplyCoupon(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body applyCouponRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := svc.ApplyCoupon(r.Context(), userID, body.Code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, state)
	}
}

// CheckoutRemoveCoupon detaches the coupon from the in-progress checkout.
func CheckoutRemoveCoupon(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := svc.RemoveCoupon(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, state)
	}
}

// CheckoutSubmit converts the reviewed session into an order.
func CheckoutSubmit(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := outbox.ActorRef{
			UserID: userID,
			Role:   middleware.RoleFromContext(r.Context()),
		}
		email := middleware.EmailFromContext(r.Context())

		order, err := svc.Submit(r.Context(), actor, userID, email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
