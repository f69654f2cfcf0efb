package enums

import "fmt"

// CheckoutStep identifies the active stage of the checkout wizard.
type CheckoutStep string

const (
	CheckoutStepShipping CheckoutStep = "shipping"
	CheckoutStepPayment  CheckoutStep = "payment"
	CheckoutStepReview   CheckoutStep = "review"
)

// checkoutStepOrdinals fixes the forward ordering of the wizard.
var checkoutStepOrdinals = map[CheckoutStep]int{
	CheckoutStepShipping: 1,
	CheckoutStepPayment:  2,
	CheckoutStepReview:   3,
}

// String implements fmt.Stringer.
func (s CheckoutStep) String() string {
	return string(s)
}

// Ordinal returns the 1-based position of the step, or 0 when unknown.
func (s CheckoutStep) Ordinal() int {
	return checkoutStepOrdinals[s]
}

// IsValid reports whether the value is a known CheckoutStep.
func (s CheckoutStep) IsValid() bool {
	_, ok := checkoutStepOrdinals[s]
	return ok
}

// ParseCheckoutStep converts raw input into a CheckoutStep.
func ParseCheckoutStep(value string) (CheckoutStep, error) {
	step := CheckoutStep(value)
	if !step.IsValid() {
		return "", fmt.Errorf("invalid checkout step %q", value)
	}
	return step, nil
}
