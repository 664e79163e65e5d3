package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/jcmexdev/sabor-storefront/internal/coordinator"
	"github.com/jcmexdev/sabor-storefront/internal/coordinator/sagalog"
	"github.com/jcmexdev/sabor-storefront/internal/pkg/cache"
	"github.com/jcmexdev/sabor-storefront/internal/pkg/metrics"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/ports"
)

const (
	orderNumberPrefix     = "SS"
	checkoutLockTTL       = 30 * time.Second
	idempotencyTTL        = 24 * time.Hour
	defaultPaymentTimeout = 10 * time.Second
)

// OrderEngine runs checkout and keeps orders in step with the payment provider.
type OrderEngine struct {
	orders     ports.OrderRepository
	carts      ports.CartRepository
	gateway    ports.PaymentGateway
	dispatcher ports.Dispatcher

	cache          cache.Cache
	journal        sagalog.Repository
	metrics        *metrics.ServerMetrics
	paymentTimeout time.Duration
	now            func() time.Time
}

type EngineOption func(*OrderEngine)

// WithCache enables the per-session checkout lock and idempotent replay.
func WithCache(c cache.Cache) EngineOption {
	return func(e *OrderEngine) { e.cache = c }
}

// WithJournal records every checkout step.
func WithJournal(j sagalog.Repository) EngineOption {
	return func(e *OrderEngine) { e.journal = j }
}

func WithMetrics(m *metrics.ServerMetrics) EngineOption {
	return func(e *OrderEngine) { e.metrics = m }
}

func WithPaymentTimeout(d time.Duration) EngineOption {
	return func(e *OrderEngine) {
		if d > 0 {
			e.paymentTimeout = d
		}
	}
}

func WithClock(now func() time.Time) EngineOption {
	return func(e *OrderEngine) { e.now = now }
}

func NewOrderEngine(
	orders ports.OrderRepository,
	carts ports.CartRepository,
	gateway ports.PaymentGateway,
	dispatcher ports.Dispatcher,
	opts ...EngineOption,
) *OrderEngine {
	e := &OrderEngine{
		orders:         orders,
		carts:          carts,
		gateway:        gateway,
		dispatcher:     dispatcher,
		paymentTimeout: defaultPaymentTimeout,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type CheckoutInput struct {
	SessionID      string
	Customer       entity.Customer
	PaymentMethod  entity.PaymentMethod
	IdempotencyKey string
}

// CheckoutResult is what the buyer needs to pay. It is also the value cached
// for idempotent replays.
type CheckoutResult struct {
	OrderID       int64                `json:"order_id"`
	OrderNumber   string               `json:"order_number"`
	TotalAmount   decimal.Decimal      `json:"total_amount"`
	PaymentMethod entity.PaymentMethod `json:"payment_method"`
	PaymentID     string               `json:"payment_id"`
	PaymentStatus entity.PaymentStatus `json:"payment_status"`
	PixQRCode     string               `json:"pix_qr_code,omitempty"`
	PixQRBase64   string               `json:"pix_qr_code_base64,omitempty"`
	TicketURL     string               `json:"ticket_url,omitempty"`
	BoletoURL     string               `json:"boleto_url,omitempty"`
	BoletoBarcode string               `json:"boleto_barcode,omitempty"`
	ExpiresAt     time.Time            `json:"expires_at"`
}

// Checkout turns the session's cart into an order with a payment attached.
//
// Once the order is committed it is never rolled back: a later payment
// failure leaves it pending without a payment id and the journal marks where
// it stopped. The cart is cleared as soon as the order exists.
func (e *OrderEngine) Checkout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	in.Customer.Normalize()
	if !in.PaymentMethod.Valid() {
		return nil, entity.ErrInvalidMethod
	}
	if err := in.Customer.ValidateForCheckout(); err != nil {
		return nil, err
	}
	if in.SessionID == "" {
		return nil, entity.Validationf("session id is required")
	}

	if res := e.replay(ctx, in); res != nil {
		slog.InfoContext(ctx, "checkout replayed", "order_number", res.OrderNumber, "idempotency_key", in.IdempotencyKey)
		return res, nil
	}

	items, err := e.carts.Items(ctx, in.SessionID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, entity.ErrEmptyCart
	}

	c := &checkout{
		engine: e,
		input:  in,
		number: e.newOrderNumber(),
	}
	defer c.releaseLock(context.WithoutCancel(ctx))

	steps := []coordinator.Step{
		newStep("reserve_session", c.reserveSession, c.releaseLock),
		newStep("place_order", c.placeOrder, nil),
		newStep("create_payment", c.createPayment, nil),
		newStep("attach_payment", c.attachPayment, nil),
	}
	err = coordinator.NewOrchestrator(c.number, steps, e.journal).
		WithPayload(c.payload()).
		Start(ctx)

	if c.order != nil && c.order.ID != 0 {
		e.clearCart(context.WithoutCancel(ctx), in.SessionID, c.number)
	}
	if err != nil {
		e.metrics.CheckoutDone(string(in.PaymentMethod), "failed")
		if c.order != nil && c.order.ID != 0 {
			slog.ErrorContext(ctx, "order committed without payment",
				"order_id", c.order.ID, "order_number", c.number, "error", err)
		}
		return nil, err
	}

	e.dispatcher.Dispatch(ctx, entity.NewNotification(entity.NotifyOrderConfirmation, c.order, string(c.order.PaymentStatus)))
	e.metrics.CheckoutDone(string(in.PaymentMethod), "success")

	res := c.result()
	e.remember(ctx, in, res)
	slog.InfoContext(ctx, "checkout completed",
		"order_id", res.OrderID, "order_number", res.OrderNumber,
		"payment_id", res.PaymentID, "total", res.TotalAmount.StringFixed(2))
	return res, nil
}

func (e *OrderEngine) newOrderNumber() string {
	return orderNumberPrefix + ulid.MustNew(ulid.Timestamp(e.now()), ulid.DefaultEntropy()).String()
}

func (e *OrderEngine) clearCart(ctx context.Context, sessionID, number string) {
	if err := e.carts.Clear(ctx, sessionID); err != nil {
		slog.ErrorContext(ctx, "cart clear after checkout failed", "order_number", number, "error", err)
	}
}

// replayKey scopes an idempotency key to the session that sent it, so a key
// reused by another session never returns someone else's checkout.
func (e *OrderEngine) replayKey(in CheckoutInput) string {
	return e.cache.GenerateKey("checkout", in.SessionID+":"+in.IdempotencyKey)
}

func (e *OrderEngine) replay(ctx context.Context, in CheckoutInput) *CheckoutResult {
	if e.cache == nil || in.IdempotencyKey == "" {
		return nil
	}
	raw, err := e.cache.Get(ctx, e.replayKey(in))
	if err != nil {
		slog.WarnContext(ctx, "idempotency lookup failed", "idempotency_key", in.IdempotencyKey, "error", err)
		return nil
	}
	if raw == "" {
		return nil
	}
	var res CheckoutResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return nil
	}
	return &res
}

func (e *OrderEngine) remember(ctx context.Context, in CheckoutInput, res *CheckoutResult) {
	if e.cache == nil || in.IdempotencyKey == "" {
		return
	}
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := e.cache.Set(ctx, e.replayKey(in), data, idempotencyTTL); err != nil {
		slog.WarnContext(ctx, "idempotency store failed", "idempotency_key", in.IdempotencyKey, "error", err)
	}
}

type PaymentStatusResult struct {
	PaymentID    string
	Status       entity.PaymentStatus
	StatusDetail string
	ApprovedAt   *time.Time
}

// CheckPaymentStatus asks the provider about the order's payment and records
// any change.
func (e *OrderEngine) CheckPaymentStatus(ctx context.Context, orderID int64) (*PaymentStatusResult, error) {
	o, err := e.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Payment.ID == "" {
		return nil, entity.ErrPaymentNotFound
	}

	callCtx, cancel := context.WithTimeout(ctx, e.paymentTimeout)
	defer cancel()
	state, err := e.gateway.GetPayment(callCtx, o.Payment.ID)
	if err != nil {
		return nil, err
	}

	if _, err := e.applyStatus(ctx, o, state.Status); err != nil {
		return nil, err
	}
	return &PaymentStatusResult{
		PaymentID:    state.ID,
		Status:       state.Status,
		StatusDetail: state.StatusDetail,
		ApprovedAt:   state.ApprovedAt,
	}, nil
}

// ApplyPaymentStatus records a payment status observed outside the polling
// path, such as a provider callback. It reports whether this call changed
// the stored status.
func (e *OrderEngine) ApplyPaymentStatus(ctx context.Context, orderID int64, status entity.PaymentStatus) (bool, error) {
	if !status.Valid() {
		return false, entity.Validationf("unknown payment status %q", status)
	}
	o, err := e.orders.GetOrder(ctx, orderID)
	if err != nil {
		return false, err
	}
	return e.applyStatus(ctx, o, status)
}

// applyStatus moves the stored status with a compare-and-set so that only one
// caller observes each transition; only that caller notifies.
func (e *OrderEngine) applyStatus(ctx context.Context, o *entity.Order, status entity.PaymentStatus) (bool, error) {
	if !status.Valid() {
		return false, entity.Gateway("payment status", fmt.Errorf("unknown status %q", status))
	}
	if status == o.PaymentStatus {
		return false, nil
	}

	swapped, err := e.orders.SwapPaymentStatus(ctx, o.ID, o.PaymentStatus, status)
	if err != nil || !swapped {
		return false, err
	}

	slog.InfoContext(ctx, "payment status changed",
		"order_id", o.ID, "order_number", o.OrderNumber, "from", o.PaymentStatus, "to", status)
	e.metrics.PaymentTransition(string(status))
	o.PaymentStatus = status

	if status == entity.PaymentApproved {
		e.dispatcher.Dispatch(ctx, entity.NewNotification(entity.NotifyStatusUpdate, o, string(status)))
	}
	return true, nil
}

// UpdateStatus moves an order along its lifecycle and tells the customer
// about the steps they care about.
func (e *OrderEngine) UpdateStatus(ctx context.Context, orderID int64, status entity.OrderStatus) (*entity.Order, error) {
	if !status.Valid() {
		return nil, entity.Validationf("unknown order status %q", status)
	}
	o, err := e.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: order %s cannot move from %s to %s", entity.ErrConflict, o.OrderNumber, o.Status, status)
	}
	if o.Status == status {
		return o, nil
	}

	if err := e.orders.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "order status changed",
		"order_id", o.ID, "order_number", o.OrderNumber, "from", o.Status, "to", status)
	o.Status = status

	if status.Notifies() {
		e.dispatcher.Dispatch(ctx, entity.NewNotification(entity.NotifyStatusUpdate, o, string(status)))
	}
	return o, nil
}

func (e *OrderEngine) GetOrder(ctx context.Context, id int64) (*entity.Order, error) {
	return e.orders.GetOrder(ctx, id)
}

func (e *OrderEngine) ListOrders(ctx context.Context) ([]entity.Order, error) {
	return e.orders.ListOrders(ctx)
}

// CheckoutLog returns the journal of the checkout that created the order.
func (e *OrderEngine) CheckoutLog(ctx context.Context, orderID int64) ([]sagalog.SagaLog, error) {
	o, err := e.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if e.journal == nil {
		return []sagalog.SagaLog{}, nil
	}
	entries, err := e.journal.List(ctx, o.OrderNumber)
	if err != nil {
		return nil, entity.Persistence("list checkout log", err)
	}
	return entries, nil
}

// checkout carries state between the steps of one Checkout call.
type checkout struct {
	engine *OrderEngine
	input  CheckoutInput
	number string

	locked bool
	order  *entity.Order
	intent *entity.PaymentIntent
}

func (c *checkout) lockKey() string {
	return c.engine.cache.GenerateKey("checkout-lock", c.input.SessionID)
}

// reserveSession takes a short lock so two checkouts of the same cart cannot
// interleave. Without a cache the lock is skipped.
func (c *checkout) reserveSession(ctx context.Context) error {
	if c.engine.cache == nil {
		return nil
	}
	ok, err := c.engine.cache.SetNX(ctx, c.lockKey(), c.number, checkoutLockTTL)
	if err != nil {
		slog.WarnContext(ctx, "checkout lock unavailable, continuing without it", "error", err)
		return nil
	}
	if !ok {
		return entity.ErrCheckoutInProgress
	}
	c.locked = true
	return nil
}

func (c *checkout) releaseLock(ctx context.Context) error {
	if !c.locked {
		return nil
	}
	c.locked = false
	if err := c.engine.cache.Delete(ctx, c.lockKey()); err != nil {
		return fmt.Errorf("release checkout lock: %w", err)
	}
	return nil
}

// placeOrder re-reads the cart under the lock and commits customer, order
// and items in one transaction.
func (c *checkout) placeOrder(ctx context.Context) error {
	items, err := c.engine.carts.Items(ctx, c.input.SessionID)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return entity.ErrEmptyCart
	}

	order := entity.NewOrder(c.number, c.input.PaymentMethod, items)
	customer := c.input.Customer
	if err := c.engine.orders.PlaceOrder(ctx, &customer, order); err != nil {
		return err
	}
	c.order = order
	return nil
}

func (c *checkout) createPayment(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.engine.paymentTimeout)
	defer cancel()

	first, last := c.order.Customer.SplitName()
	req := entity.PaymentRequest{
		Amount:      c.order.TotalAmount,
		Description: fmt.Sprintf("Pedido %s - Surreal Sabor", c.order.OrderNumber),
		Reference:   c.order.OrderNumber,
		Payer: entity.Payer{
			Email:     c.order.Customer.Email,
			FirstName: first,
			LastName:  last,
		},
	}

	var (
		intent *entity.PaymentIntent
		err    error
	)
	switch c.order.PaymentMethod {
	case entity.PaymentPix:
		intent, err = c.engine.gateway.CreateInstantPayment(ctx, req)
	case entity.PaymentBoleto:
		intent, err = c.engine.gateway.CreateDeferredPayment(ctx, req)
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, entity.ErrGateway) {
			return entity.Gateway("create payment", err)
		}
		return err
	}
	c.intent = intent
	return nil
}

func (c *checkout) attachPayment(ctx context.Context) error {
	details := c.intent.Details()
	if err := c.engine.orders.AttachPayment(ctx, c.order.ID, c.intent.Status, details); err != nil {
		return err
	}
	c.order.Payment = details
	c.order.PaymentStatus = c.intent.Status
	return nil
}

func (c *checkout) payload() string {
	data, _ := json.Marshal(map[string]any{
		"session_id":      c.input.SessionID,
		"customer_email":  c.input.Customer.Email,
		"payment_method":  c.input.PaymentMethod,
		"idempotency_key": c.input.IdempotencyKey,
	})
	return string(data)
}

func (c *checkout) result() *CheckoutResult {
	return &CheckoutResult{
		OrderID:       c.order.ID,
		OrderNumber:   c.order.OrderNumber,
		TotalAmount:   c.order.TotalAmount,
		PaymentMethod: c.order.PaymentMethod,
		PaymentID:     c.intent.ID,
		PaymentStatus: c.order.PaymentStatus,
		PixQRCode:     c.order.Payment.PixQRCode,
		PixQRBase64:   pixBase64(c.intent),
		TicketURL:     c.intent.TicketURL,
		BoletoURL:     c.order.Payment.BoletoURL,
		BoletoBarcode: c.order.Payment.BoletoBarcode,
		ExpiresAt:     c.intent.ExpiresAt,
	}
}

func pixBase64(intent *entity.PaymentIntent) string {
	if intent.Method != entity.PaymentPix {
		return ""
	}
	return intent.PixQRBase64
}

// step adapts a pair of funcs to coordinator.Step. A nil compensate marks a
// step whose effect is kept on failure.
type step struct {
	name       string
	execute    func(context.Context) error
	compensate func(context.Context) error
}

func newStep(name string, execute, compensate func(context.Context) error) *step {
	return &step{name: name, execute: execute, compensate: compensate}
}

func (s *step) Name() string { return s.name }

func (s *step) Execute(ctx context.Context) error { return s.execute(ctx) }

func (s *step) Compensate(ctx context.Context) error {
	if s.compensate == nil {
		return nil
	}
	return s.compensate(ctx)
}
