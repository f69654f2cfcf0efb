package checkout

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/elegantjewelry/jewelbox-backend/internal/cart"
	"github.com/elegantjewelry/jewelbox-backend/internal/coupons"
	"github.com/elegantjewelry/jewelbox-backend/pkg/config"
	"github.com/elegantjewelry/jewelbox-backend/pkg/db/models"
	pkgerrors "github.com/elegantjewelry/jewelbox-backend/pkg/errors"
	"github.com/elegantjewelry/jewelbox-backend/pkg/enums"
	"github.com/elegantjewelry/jewelbox-backend/pkg/logger"
	"github.com/elegantjewelry/jewelbox-backend/pkg/outbox"
)

type memSessionStore struct {
	sessions map[string]*Session
	locks    map[string]bool
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{
		sessions: map[string]*Session{},
		locks:    map[string]bool{},
	}
}

func (m *memSessionStore) Load(_ context.Context, userID string) (*Session, error) {
	if s, ok := m.sessions[userID]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, ErrNoSession
}

func (m *memSessionStore) Save(_ context.Context, session *Session) error {
	copied := *session
	m.sessions[session.UserID.String()] = &copied
	return nil
}

func (m *memSessionStore) Delete(_ context.Context, userID string) error {
	delete(m.sessions, userID)
	return nil
}

func (m *memSessionStore) AcquireSubmitLock(_ context.Context, userID string) (bool, error) {
	if m.locks[userID] {
		return false, nil
	}
	m.locks[userID] = true
	return true, nil
}

func (m *memSessionStore) ReleaseSubmitLock(_ context.Context, userID string) error {
	delete(m.locks, userID)
	return nil
}

type stubCartReader struct {
	cart *cart.CartDTO
	err  error
}

func (s *stubCartReader) Get(_ context.Context, _ uuid.UUID) (*cart.CartDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.cart, nil
}

type stubCartClearer struct {
	cleared bool
}

func (s *stubCartClearer) ClearTx(_ context.Context, _ *gorm.DB, _ uuid.UUID) error {
	s.cleared = true
	return nil
}

type stubCouponEval struct {
	applied *coupons.AppliedCoupon
	err     error
}

func (s *stubCouponEval) Evaluate(_ context.Context, _ string, subtotal int64) (*coupons.AppliedCoupon, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.applied == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	}
	applied := *s.applied
	applied.DiscountCents = coupons.DiscountCents(applied.Kind, applied.Value, subtotal)
	return &applied, nil
}

type stubCouponRedeemer struct {
	affected int64
	calls    int
}

func (s *stubCouponRedeemer) IncrementUsageTx(_ context.Context, _ *gorm.DB, _ uuid.UUID) (int64, error) {
	s.calls++
	return s.affected, nil
}

type stubStock struct {
	failFor map[uuid.UUID]bool
	calls   int
}

func (s *stubStock) DecrementStockTx(_ context.Context, _ *gorm.DB, id uuid.UUID, _ int) (int64, error) {
	s.calls++
	if s.failFor[id] {
		return 0, nil
	}
	return 1, nil
}

type stubOrderWriter struct {
	created *models.Order
}

func (s *stubOrderWriter) CreateTx(_ context.Context, _ *gorm.DB, order *models.Order) (*models.Order, error) {
	order.ID = uuid.New()
	order.OrderNumber = 1001
	s.created = order
	return order, nil
}

type stubTx struct{}

func (stubTx) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type stubEvents struct {
	events []outbox.DomainEvent
}

func (s *stubEvents) Emit(_ context.Context, _ *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

type stubPayments struct {
	ref      string
	err      error
	canceled []string
}

func (s *stubPayments) Charge(_ context.Context, _ ChargeInput) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.ref, nil
}

func (s *stubPayments) Cancel(_ context.Context, paymentRef string) error {
	s.canceled = append(s.canceled, paymentRef)
	return nil
}

type fixture struct {
	svc      Service
	store    *memSessionStore
	cart     *stubCartReader
	clearer  *stubCartClearer
	coupons  *stubCouponEval
	redeemer *stubCouponRedeemer
	stock    *stubStock
	orders   *stubOrderWriter
	events   *stubEvents
	payments *stubPayments
	userID   uuid.UUID
}

func filledCart() *cart.CartDTO {
	productID := uuid.New()
	return &cart.CartDTO{
		Items: []cart.ItemDTO{
			{
				ProductID:      productID,
				Name:           "Velvet Jewelry Box",
				Quantity:       2,
				Stock:          10,
				UnitPriceCents: 5000,
				LineTotalCents: 10000,
			},
		},
		ItemCount:     2,
		SubtotalCents: 10000,
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    newMemSessionStore(),
		cart:     &stubCartReader{cart: filledCart()},
		clearer:  &stubCartClearer{},
		coupons:  &stubCouponEval{},
		redeemer: &stubCouponRedeemer{affected: 1},
		stock:    &stubStock{failFor: map[uuid.UUID]bool{}},
		orders:   &stubOrderWriter{},
		events:   &stubEvents{},
		payments: &stubPayments{ref: "pi_test_123"},
		userID:   uuid.New(),
	}
	svc, err := NewService(Deps{
		Store:      f.store,
		Cart:       f.cart,
		CartRepo:   f.clearer,
		Coupons:    f.coupons,
		CouponRepo: f.redeemer,
		Products:   f.stock,
		Orders:     f.orders,
		Tx:         stubTx{},
		Events:     f.events,
		Payments:   f.payments,
		Logger:     logger.New(logger.Options{Output: io.Discard}),
		Checkout:   config.CheckoutConfig{},
		StoreCfg:   config.StoreConfig{TaxRate: 0.08, Currency: "USD"},
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	f.svc = svc
	return f
}

func testShipping() ShippingDetails {
	return ShippingDetails{
		Email:     "pat@example.com",
		FirstName: "Pat",
		LastName:  "Doe",
		Phone:     "512-555-0142",
		Address:   "12 Garnet Way",
		City:      "Austin",
		State:     "TX",
		ZipCode:   "78701",
		Country:   "US",
		Method:    enums.ShippingMethodStandard,
	}
}

func testPayment() PaymentDetails {
	return PaymentDetails{
		Method:         enums.PaymentMethodCard,
		CardholderName: "Pat Doe",
		SameAsShipping: true,
		AcceptTerms:    true,
	}
}

func validationDetails(t *testing.T, err error) map[string]string {
	t.Helper()
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := appErr.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", appErr.Details())
	}
	return details
}

func (f *fixture) advanceToReview(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	if _, err := f.svc.Start(ctx, f.userID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := f.svc.SubmitShipping(ctx, f.userID, testShipping()); err != nil {
		t.Fatalf("SubmitShipping: %v", err)
	}
	if _, err := f.svc.SubmitPayment(ctx, f.userID, testPayment()); err != nil {
		t.Fatalf("SubmitPayment: %v", err)
	}
}

func TestStartRequiresItems(t *testing.T) {
	f := newFixture(t)
	f.cart.cart = &cart.CartDTO{}

	_, err := f.svc.Start(context.Background(), f.userID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty cart, got %v", err)
	}
}

func TestStartCreatesSessionAtShippingStep(t *testing.T) {
	f := newFixture(t)

	state, err := f.svc.Start(context.Background(), f.userID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if state.Step != enums.CheckoutStepShipping {
		t.Fatalf("expected shipping step, got %s", state.Step)
	}
	if state.Totals.SubtotalCents != 10000 {
		t.Fatalf("expected subtotal 10000, got %d", state.Totals.SubtotalCents)
	}
	if len(state.ShippingOptions) != 3 {
		t.Fatalf("expected shipping menu in state, got %d options", len(state.ShippingOptions))
	}
}

func TestSubmitShippingAdvancesAndPrices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.svc.Start(ctx, f.userID); err != nil {
		t.Fatalf("Start: %v", err)
	}

	state, err := f.svc.SubmitShipping(ctx, f.userID, testShipping())
	if err != nil {
		t.Fatalf("SubmitShipping: %v", err)
	}
	if state.Step != enums.CheckoutStepPayment {
		t.Fatalf("expected payment step, got %s", state.Step)
	}
	if state.Totals.ShippingCents != 599 || state.Totals.TaxCents != 800 {
		t.Fatalf("unexpected totals %+v", state.Totals)
	}
	if state.Totals.TotalCents != 11399 {
		t.Fatalf("expected total 11399, got %d", state.Totals.TotalCents)
	}
}

func TestSubmitShippingRejectsShortFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.svc.Start(ctx, f.userID); err != nil {
		t.Fatalf("Start: %v", err)
	}

	details := testShipping()
	details.Address = "123"
	details.City = "X"
	details.ZipCode = "1"
	_, err := f.svc.SubmitShipping(ctx, f.userID, details)
	fields := validationDetails(t, err)
	for _, field := range []string{"address", "city", "zip_code"} {
		if fields[field] == "" {
			t.Errorf("expected a message for %s, got %v", field, fields)
		}
	}

	session := f.store.sessions[f.userID.String()]
	if session.Shipping != nil || session.Step != enums.CheckoutStepShipping {
		t.Fatalf("rejected form must not touch the session, got %+v", session)
	}
}

func TestSubmitShippingRequiresContact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.svc.Start(ctx, f.userID); err != nil {
		t.Fatalf("Start: %v", err)
	}

	details := testShipping()
	details.Email = "not-an-email"
	details.FirstName = ""
	details.Phone = "555-0142"
	_, err := f.svc.SubmitShipping(ctx, f.userID, details)
	fields := validationDetails(t, err)
	for _, field := range []string{"email", "first_name", "phone"} {
		if fields[field] == "" {
			t.Errorf("expected a message for %s, got %v", field, fields)
		}
	}
}

func TestSubmitShippingLockedAfterAdvance(t *testing.T) {
	f := newFixture(t)
	f.advanceToReview(t)

	edited := testShipping()
	edited.Address = "99 Opal Court"
	_, err := f.svc.SubmitShipping(context.Background(), f.userID, edited)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict past the shipping step, got %v", err)
	}

	session := f.store.sessions[f.userID.String()]
	if session.Shipping.Address != "12 Garnet Way" {
		t.Fatalf("stored shipping must be untouched, got %q", session.Shipping.Address)
	}
	if session.Step != enums.CheckoutStepReview {
		t.Fatalf("step must stay at review, got %s", session.Step)
	}
}

func TestSubmitShippingEditableAfterNavigateBack(t *testing.T) {
	f := newFixture(t)
	f.advanceToReview(t)
	ctx := context.Background()

	if _, err := f.svc.GoToStep(ctx, f.userID, enums.CheckoutStepShipping); err != nil {
		t.Fatalf("GoToStep: %v", err)
	}

	edited := testShipping()
	edited.Address = "99 Opal Court"
	state, err := f.svc.SubmitShipping(ctx, f.userID, edited)
	if err != nil {
		t.Fatalf("SubmitShipping after navigate back: %v", err)
	}
	if state.Shipping.Address != "99 Opal Court" {
		t.Fatalf("edited address not stored, got %q", state.Shipping.Address)
	}
	if state.Step != enums.CheckoutStepPayment {
		t.Fatalf("expected payment step after resubmit, got %s", state.Step)
	}
}

func TestSubmitPaymentRequiresShippingFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.svc.Start(ctx, f.userID); err != nil {
		t.Fatalf("Start: %v", err)
	}

	_, err := f.svc.SubmitPayment(ctx, f.userID, testPayment())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestSubmitPaymentLockedAtReview(t *testing.T) {
	f := newFixture(t)
	f.advanceToReview(t)

	details := testPayment()
	details.Method = enums.PaymentMethodPayPal
	_, err := f.svc.SubmitPayment(context.Background(), f.userID, details)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict past the payment step, got %v", err)
	}
	if f.store.sessions[f.userID.String()].Payment.Method != enums.PaymentMethodCard {
		t.Fatal("stored payment must be untouched")
	}
}

func TestSubmitPaymentRequiresAcceptedTerms(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.svc.Start(ctx, f.userID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := f.svc.SubmitShipping(ctx, f.userID, testShipping()); err != nil {
		t.Fatalf("SubmitShipping: %v", err)
	}

	details := testPayment()
	details.AcceptTerms = false
	_, err := f.svc.SubmitPayment(ctx, f.userID, details)
	fields := validationDetails(t, err)
	if fields["accept_terms"] == "" {
		t.Fatalf("expected accept_terms detail, got %v", fields)
	}

	session := f.store.sessions[f.userID.String()]
	if session.Payment != nil || session.Step != enums.CheckoutStepPayment {
		t.Fatalf("rejected form must not touch the session, got %+v", session)
	}
}

func TestSubmitPaymentRequiresCardholderName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.svc.Start(ctx, f.userID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := f.svc.SubmitShipping(ctx, f.userID, testShipping()); err != nil {
		t.Fatalf("SubmitShipping: %v", err)
	}

	details := testPayment()
	details.CardholderName = "P"
	_, err := f.svc.SubmitPayment(ctx, f.userID, details)
	fields := validationDetails(t, err)
	if fields["cardholder_name"] == "" {
		t.Fatalf("expected cardholder_name detail, got %v", fields)
	}
}

func TestSubmitPaymentBillingFieldsEachRequired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.svc.Start(ctx, f.userID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := f.svc.SubmitShipping(ctx, f.userID, testShipping()); err != nil {
		t.Fatalf("SubmitShipping: %v", err)
	}

	full := testPayment()
	full.SameAsShipping = false
	full.BillingAddress = "7 Coral Lane"
	full.BillingCity = "Dallas"
	full.BillingState = "TX"
	full.BillingZipCode = "75201"
	full.BillingCountry = "US"

	blank := map[string]func(*PaymentDetails){
		"billing_address":  func(d *PaymentDetails) { d.BillingAddress = "" },
		"billing_city":     func(d *PaymentDetails) { d.BillingCity = "" },
		"billing_state":    func(d *PaymentDetails) { d.BillingState = "" },
		"billing_zip_code": func(d *PaymentDetails) { d.BillingZipCode = "" },
		"billing_country":  func(d *PaymentDetails) { d.BillingCountry = "" },
	}
	for field, clear := range blank {
		details := full
		clear(&details)
		_, err := f.svc.SubmitPayment(ctx, f.userID, details)
		fields := validationDetails(t, err)
		if fields[field] == "" {
			t.Errorf("expected %s detail, got %v", field, fields)
		}
		if len(fields) != 1 {
			t.Errorf("expected only %s flagged, got %v", field, fields)
		}
	}

	state, err := f.svc.SubmitPayment(ctx, f.userID, full)
	if err != nil {
		t.Fatalf("SubmitPayment with full billing: %v", err)
	}
	if state.Step != enums.CheckoutStepReview {
		t.Fatalf("expected review step, got %s", state.Step)
	}
}

func TestGoToStepForwardRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.svc.Start(ctx, f.userID); err != nil {
		t.Fatalf("Start: %v", err)
	}

	_, err := f.svc.GoToStep(ctx, f.userID, enums.CheckoutStepReview)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict jumping forward, got %v", err)
	}
}

func TestGoToStepBackwardAllowed(t *testing.T) {
	f := newFixture(t)
	f.advanceToReview(t)

	state, err := f.svc.GoToStep(context.Background(), f.userID, enums.CheckoutStepShipping)
	if err != nil {
		t.Fatalf("GoToStep: %v", err)
	}
	if state.Step != enums.CheckoutStepShipping {
		t.Fatalf("expected shipping step, got %s", state.Step)
	}
}

func TestApplyCouponReflectsInTotals(t *testing.T) {
	f := newFixture(t)
	f.advanceToReview(t)
	f.coupons.applied = &coupons.AppliedCoupon{
		CouponID: uuid.New(),
		Code:     "SPRING20",
		Kind:     enums.CouponKindPercentage,
		Value:    20,
	}

	state, err := f.svc.ApplyCoupon(context.Background(), f.userID, "SPRING20")
	if err != nil {
		t.Fatalf("ApplyCoupon: %v", err)
	}
	if state.Totals.DiscountCents != 2000 {
		t.Fatalf("expected discount 2000, got %d", state.Totals.DiscountCents)
	}
	if state.Totals.TotalCents != 9399 {
		t.Fatalf("expected total 9399, got %d", state.Totals.TotalCents)
	}
}

func TestSubmitPlacesOrder(t *testing.T) {
	f := newFixture(t)
	f.advanceToReview(t)
	actor := outbox.ActorRef{UserID: f.userID, Role: enums.UserRoleCustomer.String()}

	order, err := f.svc.Submit(context.Background(), actor, f.userID, "shopper@example.com")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if order.TotalCents != 11399 {
		t.Fatalf("expected total 11399, got %d", order.TotalCents)
	}
	if order.Status != enums.OrderStatusPending {
		t.Fatalf("expected pending status, got %s", order.Status)
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 2 {
		t.Fatalf("unexpected order items %+v", order.Items)
	}
	if f.orders.created.Email != "pat@example.com" {
		t.Fatalf("expected shipping form email on order, got %q", f.orders.created.Email)
	}
	if f.orders.created.ShippingAddress.Name != "Pat Doe" {
		t.Fatalf("expected contact name on address, got %q", f.orders.created.ShippingAddress.Name)
	}
	if f.orders.created.PaymentRef == nil || *f.orders.created.PaymentRef != "pi_test_123" {
		t.Fatalf("expected payment ref recorded, got %v", f.orders.created.PaymentRef)
	}
	if !f.clearer.cleared {
		t.Fatal("expected cart cleared")
	}
	if _, ok := f.store.sessions[f.userID.String()]; ok {
		t.Fatal("expected session deleted after submit")
	}
	if f.store.locks[f.userID.String()] {
		t.Fatal("expected submit lock released")
	}

	if len(f.events.events) != 1 {
		t.Fatalf("expected 1 event without coupon, got %d", len(f.events.events))
	}
	if f.events.events[0].EventType != enums.OutboxEventOrderPlaced {
		t.Fatalf("unexpected event %s", f.events.events[0].EventType)
	}
}

func TestSubmitWithCouponRedeemsAndEmits(t *testing.T) {
	f := newFixture(t)
	f.advanceToReview(t)
	f.coupons.applied = &coupons.AppliedCoupon{
		CouponID: uuid.New(),
		Code:     "SPRING20",
		Kind:     enums.CouponKindPercentage,
		Value:    20,
	}
	if _, err := f.svc.ApplyCoupon(context.Background(), f.userID, "SPRING20"); err != nil {
		t.Fatalf("ApplyCoupon: %v", err)
	}
	actor := outbox.ActorRef{UserID: f.userID}

	order, err := f.svc.Submit(context.Background(), actor, f.userID, "shopper@example.com")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if order.DiscountCents != 2000 || order.TotalCents != 9399 {
		t.Fatalf("unexpected money fields %+v", order)
	}
	if f.redeemer.calls != 1 {
		t.Fatalf("expected coupon redeemed once, got %d", f.redeemer.calls)
	}
	if len(f.events.events) != 2 {
		t.Fatalf("expected coupon.redeemed and order.placed, got %d events", len(f.events.events))
	}
}

func TestSubmitRefusedWhenNotReady(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.svc.Start(ctx, f.userID); err != nil {
		t.Fatalf("Start: %v", err)
	}

	_, err := f.svc.Submit(ctx, outbox.ActorRef{UserID: f.userID}, f.userID, "shopper@example.com")
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestSubmitRefusedWhileLocked(t *testing.T) {
	f := newFixture(t)
	f.advanceToReview(t)
	f.store.locks[f.userID.String()] = true

	_, err := f.svc.Submit(context.Background(), outbox.ActorRef{UserID: f.userID}, f.userID, "shopper@example.com")
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict for concurrent submit, got %v", err)
	}
}

func TestSubmitOversellVoidsPayment(t *testing.T) {
	f := newFixture(t)
	f.advanceToReview(t)
	f.stock.failFor[f.cart.cart.Items[0].ProductID] = true

	_, err := f.svc.Submit(context.Background(), outbox.ActorRef{UserID: f.userID}, f.userID, "shopper@example.com")
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict on oversell, got %v", err)
	}
	if f.clearer.cleared {
		t.Fatal("cart must not be cleared on failed submit")
	}
	if len(f.payments.canceled) != 1 || f.payments.canceled[0] != "pi_test_123" {
		t.Fatalf("expected charge voided after failed order, got %v", f.payments.canceled)
	}
	if f.store.locks[f.userID.String()] {
		t.Fatal("expected submit lock released after failure")
	}
}

func TestSubmitPaymentFailure(t *testing.T) {
	f := newFixture(t)
	f.advanceToReview(t)
	f.payments.err = errors.New("card declined")

	_, err := f.svc.Submit(context.Background(), outbox.ActorRef{UserID: f.userID}, f.userID, "shopper@example.com")
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error on payment failure, got %v", err)
	}
	if f.orders.created != nil {
		t.Fatal("no order must be created when payment fails")
	}
	if len(f.payments.canceled) != 0 {
		t.Fatalf("nothing to void when the charge never happened, got %v", f.payments.canceled)
	}
}
