package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/elegantjewelry/jewelbox-backend/internal/cart"
	"github.com/elegantjewelry/jewelbox-backend/internal/coupons"
	"github.com/elegantjewelry/jewelbox-backend/internal/orders"
	"github.com/elegantjewelry/jewelbox-backend/pkg/config"
	"github.com/elegantjewelry/jewelbox-backend/pkg/db/models"
	pkgerrors "github.com/elegantjewelry/jewelbox-backend/pkg/errors"
	"github.com/elegantjewelry/jewelbox-backend/pkg/enums"
	"github.com/elegantjewelry/jewelbox-backend/pkg/logger"
	"github.com/elegantjewelry/jewelbox-backend/pkg/metrics"
	"github.com/elegantjewelry/jewelbox-backend/pkg/outbox"
	"github.com/elegantjewelry/jewelbox-backend/pkg/outbox/payloads"
)

type sessionStore interface {
	Load(ctx context.Context, userID string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, userID string) error
	AcquireSubmitLock(ctx context.Context, userID string) (bool, error)
	ReleaseSubmitLock(ctx context.Context, userID string) error
}

type cartReader interface {
	Get(ctx context.Context, userID uuid.UUID) (*cart.CartDTO, error)
}

type cartClearer interface {
	ClearTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

type couponEvaluator interface {
	Evaluate(ctx context.Context, code string, subtotalCents int64) (*coupons.AppliedCoupon, error)
}

type couponRedeemer interface {
	IncrementUsageTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error)
}

type stockKeeper interface {
	DecrementStockTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, qty int) (int64, error)
}

type orderWriter interface {
	CreateTx(ctx context.Context, tx *gorm.DB, order *models.Order) (*models.Order, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// State is the wizard snapshot returned to the storefront after every
// checkout mutation.
type State struct {
	Step            enums.CheckoutStep     `json:"step"`
	Shipping        *ShippingDetails       `json:"shipping,omitempty"`
	Payment         *PaymentDetails        `json:"payment,omitempty"`
	Coupon          *coupons.AppliedCoupon `json:"coupon,omitempty"`
	Cart            *cart.CartDTO          `json:"cart"`
	Totals          Totals                 `json:"totals"`
	ShippingOptions []ShippingOption       `json:"shipping_options"`
}

// Service drives the three-step checkout wizard and converts a finished
// session into an order.
type Service interface {
	Start(ctx context.Context, userID uuid.UUID) (*State, error)
	GetState(ctx context.Context, userID uuid.UUID) (*State, error)
	SubmitShipping(ctx context.Context, userID uuid.UUID, details ShippingDetails) (*State, error)
	SubmitPayment(ctx context.Context, userID uuid.UUID, details PaymentDetails) (*State, error)
	GoToStep(ctx context.Context, userID uuid.UUID, step enums.CheckoutStep) (*State, error)
	ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (*State, error)
	RemoveCoupon(ctx context.Context, userID uuid.UUID) (*State, error)
	Submit(ctx context.Context, actor outbox.ActorRef, userID uuid.UUID, email string) (*orders.OrderDTO, error)
}

// Deps bundles the collaborators the checkout service needs.
type Deps struct {
	Store      sessionStore
	Cart       cartReader
	CartRepo   cartClearer
	Coupons    couponEvaluator
	CouponRepo couponRedeemer
	Products   stockKeeper
	Orders     orderWriter
	Tx         txRunner
	Events     eventEmitter
	Payments   PaymentProcessor
	Metrics    *metrics.CheckoutMetrics
	Logger     *logger.Logger
	Checkout   config.CheckoutConfig
	StoreCfg   config.StoreConfig
}

type service struct {
	deps Deps
	now  func() time.Time
}

func NewService(deps Deps) (Service, error) {
	switch {
	case deps.Store == nil:
		return nil, fmt.Errorf("session store required")
	case deps.Cart == nil:
		return nil, fmt.Errorf("cart reader required")
	case deps.CartRepo == nil:
		return nil, fmt.Errorf("cart repository required")
	case deps.Coupons == nil:
		return nil, fmt.Errorf("coupon evaluator required")
	case deps.CouponRepo == nil:
		return nil, fmt.Errorf("coupon repository required")
	case deps.Products == nil:
		return nil, fmt.Errorf("product repository required")
	case deps.Orders == nil:
		return nil, fmt.Errorf("order repository required")
	case deps.Tx == nil:
		return nil, fmt.Errorf("transaction runner required")
	case deps.Events == nil:
		return nil, fmt.Errorf("event emitter required")
	case deps.Payments == nil:
		return nil, fmt.Errorf("payment processor required")
	case deps.Logger == nil:
		return nil, fmt.Errorf("logger required")
	}
	if deps.Checkout.SubmitTimeout <= 0 {
		deps.Checkout.SubmitTimeout = 30 * time.Second
	}
	if deps.StoreCfg.TaxRate <= 0 {
		deps.StoreCfg.TaxRate = 0.08
	}
	if deps.StoreCfg.Currency == "" {
		deps.StoreCfg.Currency = "USD"
	}
	return &service{deps: deps, now: time.Now}, nil
}

func (s *service) Start(ctx context.Context, userID uuid.UUID) (*State, error) {
	basket, err := s.deps.Cart.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(basket.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	session, err := s.deps.Store.Load(ctx, userID.String())
	if err != nil && !errors.Is(err, ErrNoSession) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load checkout session")
	}
	if session == nil {
		session = &Session{
			UserID:    userID,
			Step:      enums.CheckoutStepShipping,
			CreatedAt: s.now(),
		}
		if err := s.deps.Store.Save(ctx, session); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save checkout session")
		}
	}
	return s.buildState(ctx, session, basket)
}

func (s *service) GetState(ctx context.Context, userID uuid.UUID) (*State, error) {
	session, err := s.loadSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.buildState(ctx, session, nil)
}

func (s *service) SubmitShipping(ctx context.Context, userID uuid.UUID, details ShippingDetails) (*State, error) {
	session, err := s.loadSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	// Step data is read-only once the user advances; editing requires
	// navigating back, which rewinds session.Step.
	if session.Step != enums.CheckoutStepShipping {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "shipping details are locked; navigate back to edit them")
	}
	if err := details.Validate(); err != nil {
		return nil, err
	}

	session.Shipping = &details
	session.Step = enums.CheckoutStepPayment
	if err := s.deps.Store.Save(ctx, session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save checkout session")
	}
	return s.buildState(ctx, session, nil)
}

func (s *service) SubmitPayment(ctx context.Context, userID uuid.UUID, details PaymentDetails) (*State, error) {
	session, err := s.loadSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session.Shipping == nil || session.Step == enums.CheckoutStepShipping {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "complete the shipping step first")
	}
	if session.Step != enums.CheckoutStepPayment {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment details are locked; navigate back to edit them")
	}
	if err := details.Validate(); err != nil {
		return nil, err
	}
	if details.SameAsShipping {
		details.BillingAddress = ""
		details.BillingApartment = ""
		details.BillingCity = ""
		details.BillingState = ""
		details.BillingZipCode = ""
		details.BillingCountry = ""
	}

	session.Payment = &details
	session.Step = enums.CheckoutStepReview
	if err := s.deps.Store.Save(ctx, session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save checkout session")
	}
	return s.buildState(ctx, session, nil)
}

func (s *service) GoToStep(ctx context.Context, userID uuid.UUID, step enums.CheckoutStep) (*State, error) {
	session, err := s.loadSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !step.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown checkout step")
	}
	if !session.CanNavigateTo(step) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cannot skip ahead in checkout")
	}

	session.Step = step
	if err := s.deps.Store.Save(ctx, session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save checkout session")
	}
	return s.buildState(ctx, session, nil)
}

func (s *service) ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (*State, error) {
	session, err := s.loadSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	basket, err := s.deps.Cart.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	applied, err := s.deps.Coupons.Evaluate(ctx, code, basket.SubtotalCents)
	if err != nil {
		return nil, err
	}

	session.Coupon = applied
	if err := s.deps.Store.Save(ctx, session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save checkout session")
	}
	return s.buildState(ctx, session, basket)
}

func (s *service) RemoveCoupon(ctx context.Context, userID uuid.UUID) (*State, error) {
	session, err := s.loadSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	session.Coupon = nil
	if err := s.deps.Store.Save(ctx, session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save checkout session")
	}
	return s.buildState(ctx, session, nil)
}

// Submit converts the session into an order. The whole path runs under a
// per-user Redis lock and a hard timeout so double-clicks and stuck
// submissions cannot place two orders.
func (s *service) Submit(ctx context.Context, actor outbox.ActorRef, userID uuid.UUID, email string) (*orders.OrderDTO, error) {
	session, err := s.loadSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !session.ReadyToSubmit() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout is not ready to submit")
	}

	acquired, err := s.deps.Store.AcquireSubmitLock(ctx, userID.String())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire submit lock")
	}
	if !acquired {
		s.deps.Metrics.IncFailure("locked")
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "a submission is already in progress")
	}
	defer func() {
		if err := s.deps.Store.ReleaseSubmitLock(context.WithoutCancel(ctx), userID.String()); err != nil {
			s.deps.Logger.Warn(ctx, "release submit lock failed")
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, s.deps.Checkout.SubmitTimeout)
	defer cancel()

	start := s.now()
	defer func() {
		s.deps.Metrics.ObserveSubmit(session.Payment.Method.String(), time.Since(start))
	}()

	basket, err := s.deps.Cart.Get(ctx, userID)
	if err != nil {
		s.deps.Metrics.IncFailure("cart")
		return nil, err
	}
	if len(basket.Items) == 0 {
		s.deps.Metrics.IncFailure("cart")
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}

	// Re-check the coupon right before charging; it may have expired or hit
	// its limit while the shopper lingered on the review step.
	if session.Coupon != nil {
		applied, err := s.deps.Coupons.Evaluate(ctx, session.Coupon.Code, basket.SubtotalCents)
		if err != nil {
			s.deps.Metrics.IncFailure("coupon")
			return nil, err
		}
		session.Coupon = applied
	}

	totals := s.totalsFor(session, basket)

	// The shipping form's contact email wins over the account email so guests
	// checking out with a different inbox get their receipts.
	if session.Shipping.Email != "" {
		email = session.Shipping.Email
	}

	paymentRef, err := s.deps.Payments.Charge(ctx, ChargeInput{
		UserID:      userID,
		Email:       email,
		Method:      session.Payment.Method,
		AmountCents: totals.TotalCents,
		Currency:    s.deps.StoreCfg.Currency,
	})
	if err != nil {
		s.deps.Metrics.IncFailure("payment")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "collect payment")
	}

	order := s.orderFromSession(session, basket, totals, userID, email, paymentRef)

	err = s.deps.Tx.WithTx(ctx, func(tx *gorm.DB) error {
		for _, item := range basket.Items {
			affected, err := s.deps.Products.DecrementStockTx(ctx, tx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				return pkgerrors.New(pkgerrors.CodeStateConflict,
					fmt.Sprintf("insufficient stock for %s", item.Name))
			}
		}

		created, err := s.deps.Orders.CreateTx(ctx, tx, order)
		if err != nil {
			return err
		}
		order = created

		if session.Coupon != nil {
			affected, err := s.deps.CouponRepo.IncrementUsageTx(ctx, tx, session.Coupon.CouponID)
			if err != nil {
				return err
			}
			if affected == 0 {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "coupon usage limit reached")
			}
			if err := s.deps.Events.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.OutboxEventCouponRedeemed,
				AggregateType: enums.OutboxAggregateCoupon,
				AggregateID:   session.Coupon.CouponID,
				Actor:         &actor,
				Version:       1,
				Data: payloads.CouponRedeemedEvent{
					CouponID:      session.Coupon.CouponID,
					Code:          session.Coupon.Code,
					OrderID:       order.ID,
					DiscountCents: totals.DiscountCents,
					RedeemedAt:    s.now(),
				},
			}); err != nil {
				return err
			}
		}

		if err := s.deps.Events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.OutboxEventOrderPlaced,
			AggregateType: enums.OutboxAggregateOrder,
			AggregateID:   order.ID,
			Actor:         &actor,
			Version:       1,
			Data: payloads.OrderPlacedEvent{
				OrderID:        order.ID,
				OrderNumber:    order.OrderNumber,
				UserID:         userID,
				Email:          email,
				ShippingMethod: session.Shipping.Method,
				PaymentMethod:  session.Payment.Method,
				CouponCode:     order.CouponCode,
				TotalCents:     totals.TotalCents,
				PlacedAt:       s.now(),
			},
		}); err != nil {
			return err
		}

		return s.deps.CartRepo.ClearTx(ctx, tx, userID)
	})
	if err != nil {
		// The shopper was already charged; void the payment before surfacing
		// the failure so the money is not stranded.
		if cancelErr := s.deps.Payments.Cancel(context.WithoutCancel(ctx), paymentRef); cancelErr != nil {
			s.deps.Logger.Error(ctx, "void payment after failed order", cancelErr)
		}
		if appErr := pkgerrors.As(err); appErr != nil {
			s.deps.Metrics.IncFailure("stock")
			return nil, err
		}
		s.deps.Metrics.IncFailure("internal")
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "place order")
	}

	if err := s.deps.Store.Delete(ctx, userID.String()); err != nil {
		s.deps.Logger.Warn(ctx, "delete checkout session failed")
	}

	s.deps.Metrics.IncPlaced()
	logCtx := s.deps.Logger.WithFields(ctx, map[string]any{
		"order_id":     order.ID.String(),
		"order_number": order.OrderNumber,
		"total_cents":  totals.TotalCents,
	})
	s.deps.Logger.Info(logCtx, "order placed")

	return orders.FromModel(order), nil
}

func (s *service) loadSession(ctx context.Context, userID uuid.UUID) (*Session, error) {
	session, err := s.deps.Store.Load(ctx, userID.String())
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no checkout in progress")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load checkout session")
	}
	return session, nil
}

func (s *service) buildState(ctx context.Context, session *Session, basket *cart.CartDTO) (*State, error) {
	if basket == nil {
		var err error
		basket, err = s.deps.Cart.Get(ctx, session.UserID)
		if err != nil {
			return nil, err
		}
	}
	return &State{
		Step:            session.Step,
		Shipping:        session.Shipping,
		Payment:         session.Payment,
		Coupon:          session.Coupon,
		Cart:            basket,
		Totals:          s.totalsFor(session, basket),
		ShippingOptions: ShippingOptions(),
	}, nil
}

func (s *service) totalsFor(session *Session, basket *cart.CartDTO) Totals {
	var shippingCents int64
	if session.Shipping != nil {
		if price := ShippingPriceCents(session.Shipping.Method); price >= 0 {
			shippingCents = price
		}
	}
	var discountCents int64
	if session.Coupon != nil {
		discountCents = coupons.DiscountCents(session.Coupon.Kind, session.Coupon.Value, basket.SubtotalCents)
	}
	return ComputeTotals(basket.SubtotalCents, shippingCents, discountCents, s.deps.StoreCfg.TaxRate)
}

func (s *service) orderFromSession(session *Session, basket *cart.CartDTO, totals Totals, userID uuid.UUID, email, paymentRef string) *models.Order {
	items := make([]models.OrderItem, 0, len(basket.Items))
	for _, line := range basket.Items {
		productID := line.ProductID
		var image *string
		if line.Image != "" {
			img := line.Image
			image = &img
		}
		items = append(items, models.OrderItem{
			ProductID:      &productID,
			Name:           line.Name,
			Image:          image,
			Variant:        line.Variant,
			UnitPriceCents: line.UnitPriceCents,
			Quantity:       line.Quantity,
			TotalCents:     line.LineTotalCents,
		})
	}

	var couponCode *string
	if session.Coupon != nil {
		code := session.Coupon.Code
		couponCode = &code
	}

	return &models.Order{
		UserID:          userID,
		Status:          enums.OrderStatusPending,
		Email:           email,
		ShippingAddress: session.Shipping.AddressSnapshot(),
		BillingAddress:  session.BillingAddress(),
		ShippingMethod:  session.Shipping.Method,
		PaymentMethod:   session.Payment.Method,
		CouponCode:      couponCode,
		SubtotalCents:   totals.SubtotalCents,
		ShippingCents:   totals.ShippingCents,
		TaxCents:        totals.TaxCents,
		DiscountCents:   totals.DiscountCents,
		TotalCents:      totals.TotalCents,
		PaymentRef:      &paymentRef,
		Items:           items,
	}
}
