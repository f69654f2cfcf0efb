package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/paymentintent"

	"github.com/elegantjewelry/jewelbox-backend/pkg/enums"
)

// ChargeInput is the payment request assembled at submit time.
type ChargeInput struct {
	UserID      uuid.UUID
	Email       string
	Method      enums.PaymentMethod
	AmountCents int64
	Currency    string
}

// PaymentProcessor collects payment for a submitted checkout and returns a
// provider reference for the order record. Cancel voids a charge whose order
// could not be written, so a failed submit never strands the shopper's money.
type PaymentProcessor interface {
	Charge(ctx context.Context, input ChargeInput) (string, error)
	Cancel(ctx context.Context, paymentRef string) error
}

// StripeProcessor charges card payments through Stripe payment intents.
// Wallet methods settle through their own rails and only record a reference.
type StripeProcessor struct{}

func NewStripeProcessor() *StripeProcessor {
	return &StripeProcessor{}
}

func (p *StripeProcessor) Charge(ctx context.Context, input ChargeInput) (string, error) {
	if input.AmountCents <= 0 {
		return "", fmt.Errorf("charge amount must be positive")
	}

	switch input.Method {
	case enums.PaymentMethodCard:
		params := &stripe.PaymentIntentParams{
			Amount:       stripe.Int64(input.AmountCents),
			Currency:     stripe.String(strings.ToLower(input.Currency)),
			ReceiptEmail: stripe.String(input.Email),
			Description:  stripe.String("jewelbox order"),
		}
		params.Context = ctx
		params.AddMetadata("user_id", input.UserID.String())
		pi, err := paymentintent.New(params)
		if err != nil {
			return "", fmt.Errorf("create payment intent: %w", err)
		}
		return pi.ID, nil
	case enums.PaymentMethodPayPal, enums.PaymentMethodApplePay:
		// Wallet payments confirm client-side; keep a traceable reference.
		return fmt.Sprintf("%s_%s", input.Method, uuid.NewString()), nil
	default:
		return "", fmt.Errorf("unsupported payment method %q", input.Method)
	}
}

func (p *StripeProcessor) Cancel(ctx context.Context, paymentRef string) error {
	// Only payment intents are cancelable here; wallet references were never
	// captured server-side.
	if !strings.HasPrefix(paymentRef, "pi_") {
		return nil
	}
	params := &stripe.PaymentIntentCancelParams{
		CancellationReason: stripe.String(string(stripe.PaymentIntentCancellationReasonAbandoned)),
	}
	params.Context = ctx
	if _, err := paymentintent.Cancel(paymentRef, params); err != nil {
		return fmt.Errorf("cancel payment intent %s: %w", paymentRef, err)
	}
	return nil
}
