package checkout

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/elegantjewelry/jewelbox-backend/internal/coupons"
	"github.com/elegantjewelry/jewelbox-backend/pkg/enums"
	pkgerrors "github.com/elegantjewelry/jewelbox-backend/pkg/errors"
	"github.com/elegantjewelry/jewelbox-backend/pkg/types"
	"github.com/elegantjewelry/jewelbox-backend/pkg/validate"
)

// ShippingDetails is the first wizard step's outcome: contact info plus the
// destination, mirroring the storefront shipping form field for field.
type ShippingDetails struct {
	Email       string               `json:"email" validate:"required,email"`
	FirstName   string               `json:"first_name" validate:"required"`
	LastName    string               `json:"last_name" validate:"required"`
	Phone       string               `json:"phone" validate:"required,phonedigits"`
	Address     string               `json:"address" validate:"required,min=5"`
	Apartment   string               `json:"apartment,omitempty"`
	City        string               `json:"city" validate:"required,min=2"`
	State       string               `json:"state" validate:"required,min=2"`
	ZipCode     string               `json:"zip_code" validate:"required,min=5"`
	Country     string               `json:"country" validate:"required,min=2"`
	SaveAddress bool                 `json:"save_address,omitempty"`
	Method      enums.ShippingMethod `json:"method" validate:"required"`
}

// Validate enforces the shipping form rules before the step may complete.
func (d ShippingDetails) Validate() error {
	if err := validate.Struct(&d); err != nil {
		return err
	}
	if !d.Method.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown shipping method")
	}
	return nil
}

// AddressSnapshot freezes the destination into the jsonb shape stored on
// orders. The contact name is assembled from the form's first and last name.
func (d ShippingDetails) AddressSnapshot() types.Address {
	var apartment *string
	if strings.TrimSpace(d.Apartment) != "" {
		apt := d.Apartment
		apartment = &apt
	}
	phone := d.Phone
	return types.Address{
		Name:      strings.TrimSpace(d.FirstName + " " + d.LastName),
		Line1:     d.Address,
		Apartment: apartment,
		City:      d.City,
		State:     d.State,
		ZipCode:   d.ZipCode,
		Country:   d.Country,
		Phone:     &phone,
	}
}

// PaymentDetails is the second wizard step's outcome. Card data never touches
// the session; the provider keeps the instrument and we keep at most the last
// four digits for display.
type PaymentDetails struct {
	Method           enums.PaymentMethod `json:"method" validate:"required"`
	CardholderName   string              `json:"cardholder_name" validate:"required,min=2"`
	CardLastFour     string              `json:"card_last_four,omitempty" validate:"omitempty,len=4"`
	SameAsShipping   bool                `json:"same_as_shipping"`
	AcceptTerms      bool                `json:"accept_terms"`
	BillingAddress   string              `json:"billing_address,omitempty"`
	BillingApartment string              `json:"billing_apartment,omitempty"`
	BillingCity      string              `json:"billing_city,omitempty"`
	BillingState     string              `json:"billing_state,omitempty"`
	BillingZipCode   string              `json:"billing_zip_code,omitempty"`
	BillingCountry   string              `json:"billing_country,omitempty"`
}

// Validate enforces the payment form rules. The billing group is conditional
// on same_as_shipping, so it is checked in code after the tag pass, with the
// same field-scoped detail shape.
func (d PaymentDetails) Validate() error {
	if err := validate.Struct(&d); err != nil {
		return err
	}
	if !d.Method.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}
	if !d.AcceptTerms {
		return pkgerrors.New(pkgerrors.CodeValidation, "terms must be accepted").
			WithDetails(map[string]string{"accept_terms": "must be accepted"})
	}
	if !d.SameAsShipping {
		details := map[string]string{}
		for field, value := range map[string]string{
			"billing_address":  d.BillingAddress,
			"billing_city":     d.BillingCity,
			"billing_state":    d.BillingState,
			"billing_zip_code": d.BillingZipCode,
			"billing_country":  d.BillingCountry,
		} {
			if strings.TrimSpace(value) == "" {
				details[field] = "is required"
			}
		}
		if len(details) > 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "billing address is incomplete").
				WithDetails(details)
		}
	}
	return nil
}

// Session is the in-progress checkout state stored in Redis per user.
type Session struct {
	UserID    uuid.UUID              `json:"user_id"`
	Step      enums.CheckoutStep     `json:"step"`
	Shipping  *ShippingDetails       `json:"shipping,omitempty"`
	Payment   *PaymentDetails        `json:"payment,omitempty"`
	Coupon    *coupons.AppliedCoupon `json:"coupon,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// BillingAddress resolves the billing address, falling back to the shipping
// destination when the shopper marked them as the same.
func (s *Session) BillingAddress() types.Address {
	if p := s.Payment; p != nil && !p.SameAsShipping {
		var apartment *string
		if strings.TrimSpace(p.BillingApartment) != "" {
			apt := p.BillingApartment
			apartment = &apt
		}
		return types.Address{
			Name:      p.CardholderName,
			Line1:     p.BillingAddress,
			Apartment: apartment,
			City:      p.BillingCity,
			State:     p.BillingState,
			ZipCode:   p.BillingZipCode,
			Country:   p.BillingCountry,
		}
	}
	if s.Shipping != nil {
		return s.Shipping.AddressSnapshot()
	}
	return types.Address{}
}

// CanNavigateTo reports whether the wizard allows jumping to the given step.
// Only the current step or earlier ones are reachable directly; forward moves
// happen by submitting the step forms.
func (s *Session) CanNavigateTo(step enums.CheckoutStep) bool {
	if !step.IsValid() {
		return false
	}
	return step.Ordinal() <= s.Step.Ordinal()
}

// ReadyToSubmit reports whether both wizard steps are complete.
func (s *Session) ReadyToSubmit() bool {
	return s.Shipping != nil && s.Payment != nil && s.Step == enums.CheckoutStepReview
}
