package service

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/sabor-storefront/internal/coordinator/sagalog"
	sagasqlite "github.com/jcmexdev/sabor-storefront/internal/coordinator/sagalog/sqlite"
	paymentservice "github.com/jcmexdev/sabor-storefront/internal/payment-service/app"
	"github.com/jcmexdev/sabor-storefront/internal/pkg/cache"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/ports"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/infra/adapters/notify"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/infra/adapters/payment"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/infra/sqlite"
)

// Seeded product ids and prices.
const (
	caldoVerde  = 1  // 22.50
	canjinha    = 2  // 21.90
	agua        = 10 // 4.00
	boloCenoura = 12 // 25.00
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type recordingDispatcher struct {
	mu   sync.Mutex
	sent []entity.Notification
}

func (d *recordingDispatcher) Dispatch(_ context.Context, n entity.Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, n)
}

func (d *recordingDispatcher) kinds() []entity.NotificationKind {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []entity.NotificationKind
	for _, n := range d.sent {
		out = append(out, n.Kind)
	}
	return out
}

type fixture struct {
	db         *sql.DB
	catalog    *sqlite.CatalogRepository
	carts      *sqlite.CartRepository
	customers  *sqlite.CustomerRepository
	orders     *sqlite.OrderRepository
	journal    *sagasqlite.Repository
	cache      cache.Cache
	clock      *clock
	dispatcher *recordingDispatcher
	engine     *OrderEngine
	cart       *CartService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "sabor.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.Seed(ctx, db))

	journal, err := sagasqlite.New(db)
	require.NoError(t, err)

	f := &fixture{
		db:         db,
		catalog:    sqlite.NewCatalogRepository(db),
		carts:      sqlite.NewCartRepository(db),
		customers:  sqlite.NewCustomerRepository(db),
		orders:     sqlite.NewOrderRepository(db),
		journal:    journal,
		cache:      cache.NewMemoryCache("storefront"),
		clock:      &clock{t: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)},
		dispatcher: &recordingDispatcher{},
	}
	sim := paymentservice.NewSimulator(cache.NewMemoryCache("payment"), paymentservice.WithClock(f.clock.now))
	f.engine = f.newEngine(payment.NewLocalGateway(sim), f.dispatcher)
	f.cart = NewCartService(f.carts, f.catalog)
	return f
}

func (f *fixture) newEngine(gw ports.PaymentGateway, d ports.Dispatcher) *OrderEngine {
	return NewOrderEngine(f.orders, f.carts, gw, d,
		WithCache(f.cache),
		WithJournal(f.journal),
		WithPaymentTimeout(time.Second),
	)
}

func (f *fixture) fillCart(t *testing.T, session string, lines map[int64]int) {
	t.Helper()
	for id, qty := range lines {
		require.NoError(t, f.cart.AddItem(context.Background(), session, id, qty))
	}
}

func customer() entity.Customer {
	return entity.Customer{
		FullName: "Ana Maria Souza",
		Email:    "Ana@Example.com ",
		Phone:    "11 99999-0000",
		Address:  "Rua das Flores, 10",
	}
}

func TestCheckoutPix(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(t, "s1", map[int64]int{caldoVerde: 1, canjinha: 1, agua: 1, boloCenoura: 1})

	res, err := f.engine.Checkout(ctx, CheckoutInput{SessionID: "s1", Customer: customer(), PaymentMethod: entity.PaymentPix})
	require.NoError(t, err)

	assert.True(t, res.TotalAmount.Equal(decimal.RequireFromString("73.40")), res.TotalAmount.String())
	assert.Equal(t, entity.PaymentPix, res.PaymentMethod)
	assert.Equal(t, entity.PaymentPending, res.PaymentStatus)
	assert.NotEmpty(t, res.PixQRCode)
	assert.NotEmpty(t, res.PaymentID)
	assert.Empty(t, res.BoletoURL)
	assert.Empty(t, res.BoletoBarcode)
	assert.Regexp(t, `^SS[0-9A-Z]{26}$`, res.OrderNumber)

	items, err := f.carts.Items(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, items)

	o, err := f.engine.GetOrder(ctx, res.OrderID)
	require.NoError(t, err)
	assert.Equal(t, res.PaymentID, o.Payment.ID)
	assert.Equal(t, "ana@example.com", o.Customer.Email)
	assert.Len(t, o.Items, 4)

	assert.Equal(t, []entity.NotificationKind{entity.NotifyOrderConfirmation}, f.dispatcher.kinds())

	log, err := f.engine.CheckoutLog(ctx, res.OrderID)
	require.NoError(t, err)
	require.NotEmpty(t, log)
	assert.Equal(t, sagalog.StatusCompleted, log[len(log)-1].Status)
}

func TestCheckoutBoleto(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, "s1", map[int64]int{caldoVerde: 2})

	res, err := f.engine.Checkout(context.Background(), CheckoutInput{SessionID: "s1", Customer: customer(), PaymentMethod: entity.PaymentBoleto})
	require.NoError(t, err)

	assert.True(t, res.TotalAmount.Equal(decimal.RequireFromString("45.00")))
	assert.Empty(t, res.PixQRCode)
	assert.NotEmpty(t, res.BoletoURL)
	assert.NotEmpty(t, res.BoletoBarcode)
	assert.True(t, f.clock.now().Add(72*time.Hour).Equal(res.ExpiresAt), res.ExpiresAt)
}

type failingNotifier struct{ calls int }

func (n *failingNotifier) Notify(context.Context, entity.Notification) error {
	n.calls++
	return errors.New("smtp unreachable")
}

func TestCheckoutClearsCartWhenNotificationFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	notifier := &failingNotifier{}
	dispatcher := notify.NewDispatcher(notifier, nil)
	sim := paymentservice.NewSimulator(nil, paymentservice.WithClock(f.clock.now))
	engine := f.newEngine(payment.NewLocalGateway(sim), dispatcher)

	f.fillCart(t, "s1", map[int64]int{canjinha: 1})
	res, err := engine.Checkout(ctx, CheckoutInput{SessionID: "s1", Customer: customer(), PaymentMethod: entity.PaymentPix})
	require.NoError(t, err)
	dispatcher.Wait()

	assert.Equal(t, 1, notifier.calls)
	items, err := f.carts.Items(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = engine.GetOrder(ctx, res.OrderID)
	assert.NoError(t, err)
}

func TestCheckoutUpdatesExistingCustomerInPlace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	existing := entity.Customer{FullName: "Ana Souza", Email: "ana@example.com", Phone: "old", Address: "old"}
	require.NoError(t, f.customers.CreateCustomer(ctx, &existing))

	f.fillCart(t, "s1", map[int64]int{agua: 1})
	_, err := f.engine.Checkout(ctx, CheckoutInput{SessionID: "s1", Customer: customer(), PaymentMethod: entity.PaymentPix})
	require.NoError(t, err)

	all, err := f.customers.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	got, err := f.customers.GetCustomerByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, got.ID)
	assert.Equal(t, "Ana Maria Souza", got.FullName)
	assert.Equal(t, "11 99999-0000", got.Phone)
	assert.Equal(t, "Rua das Flores, 10", got.Address)
}

func TestCheckoutSnapshotsLineTotals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ten := entity.Product{Name: "Dez", Price: decimal.RequireFromString("10.00"), CategoryID: 1, IsActive: true}
	five := entity.Product{Name: "Cinco", Price: decimal.RequireFromString("5.00"), CategoryID: 1, IsActive: true}
	require.NoError(t, f.catalog.CreateProduct(ctx, &ten))
	require.NoError(t, f.catalog.CreateProduct(ctx, &five))
	f.fillCart(t, "s1", map[int64]int{ten.ID: 2, five.ID: 3})

	res, err := f.engine.Checkout(ctx, CheckoutInput{SessionID: "s1", Customer: customer(), PaymentMethod: entity.PaymentBoleto})
	require.NoError(t, err)
	assert.True(t, res.TotalAmount.Equal(decimal.RequireFromString("35.00")))

	o, err := f.engine.GetOrder(ctx, res.OrderID)
	require.NoError(t, err)
	totals := map[int64]string{}
	for _, it := range o.Items {
		totals[it.ProductID] = it.TotalPrice.StringFixed(2)
	}
	assert.Equal(t, map[int64]string{ten.ID: "20.00", five.ID: "15.00"}, totals)

	// later price changes never reach the order
	ten.Price = decimal.RequireFromString("99.00")
	require.NoError(t, f.catalog.UpdateProduct(ctx, &ten))
	o, err = f.engine.GetOrder(ctx, res.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "35.00", o.TotalAmount.StringFixed(2))
}

func TestCheckPaymentStatusApprovesOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(t, "s1", map[int64]int{caldoVerde: 1})

	res, err := f.engine.Checkout(ctx, CheckoutInput{SessionID: "s1", Customer: customer(), PaymentMethod: entity.PaymentPix})
	require.NoError(t, err)

	st, err := f.engine.CheckPaymentStatus(ctx, res.OrderID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentPending, st.Status)
	assert.Nil(t, st.ApprovedAt)

	f.clock.advance(3 * time.Minute)
	for i := 0; i < 3; i++ {
		st, err = f.engine.CheckPaymentStatus(ctx, res.OrderID)
		require.NoError(t, err)
		assert.Equal(t, entity.PaymentApproved, st.Status)
		assert.Equal(t, res.PaymentID, st.PaymentID)
		require.NotNil(t, st.ApprovedAt)
	}

	o, err := f.engine.GetOrder(ctx, res.OrderID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentApproved, o.PaymentStatus)

	assert.Equal(t, []entity.NotificationKind{entity.NotifyOrderConfirmation, entity.NotifyStatusUpdate}, f.dispatcher.kinds())
	assert.Equal(t, "approved", f.dispatcher.sent[1].Status)
	assert.Equal(t, "ana@example.com", f.dispatcher.sent[1].CustomerEmail)
}

func TestConcurrentStatusChecksNotifyOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(t, "s1", map[int64]int{caldoVerde: 1})
	res, err := f.engine.Checkout(ctx, CheckoutInput{SessionID: "s1", Customer: customer(), PaymentMethod: entity.PaymentPix})
	require.NoError(t, err)
	f.clock.advance(5 * time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.engine.CheckPaymentStatus(ctx, res.OrderID)
		}()
	}
	wg.Wait()

	updates := 0
	for _, k := range f.dispatcher.kinds() {
		if k == entity.NotifyStatusUpdate {
			updates++
		}
	}
	assert.Equal(t, 1, updates)
}

func TestCheckoutValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(t, "s1", map[int64]int{caldoVerde: 1})

	missingPhone := customer()
	missingPhone.Phone = ""

	tests := []struct {
		name string
		in   CheckoutInput
	}{
		{"unknown method", CheckoutInput{SessionID: "s1", Customer: customer(), PaymentMethod: "card"}},
		{"missing phone", CheckoutInput{SessionID: "s1", Customer: missingPhone, PaymentMethod: entity.PaymentPix}},
		{"empty cart", CheckoutInput{SessionID: "other", Customer: customer(), PaymentMethod: entity.PaymentPix}},
		{"no session", CheckoutInput{Customer: customer(), PaymentMethod: entity.PaymentPix}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.Checkout(ctx, tt.in)
			assert.ErrorIs(t, err, entity.ErrValidation)
		})
	}

	orders, err := f.engine.ListOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
	customers, err := f.customers.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Empty(t, customers)
	assert.Empty(t, f.dispatcher.kinds())
}

type brokenGateway struct{ ports.PaymentGateway }

func (brokenGateway) CreateInstantPayment(context.Context, entity.PaymentRequest) (*entity.PaymentIntent, error) {
	return nil, entity.Gateway("create payment", errors.New("connection refused"))
}

func TestCheckoutKeepsOrderWhenPaymentFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	engine := f.newEngine(brokenGateway{}, f.dispatcher)
	f.fillCart(t, "s1", map[int64]int{caldoVerde: 1})

	_, err := engine.Checkout(ctx, CheckoutInput{SessionID: "s1", Customer: customer(), PaymentMethod: entity.PaymentPix})
	require.ErrorIs(t, err, entity.ErrGateway)

	orders, err := engine.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, entity.PaymentPending, orders[0].PaymentStatus)
	assert.Empty(t, orders[0].Payment.ID)

	items, err := f.carts.Items(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Empty(t, f.dispatcher.kinds())

	log, err := engine.CheckoutLog(ctx, orders[0].ID)
	require.NoError(t, err)
	last := log[len(log)-1]
	assert.Equal(t, sagalog.StatusFailed, last.Status)
	assert.Equal(t, "create_payment", last.CurrentStep)

	_, err = engine.CheckPaymentStatus(ctx, orders[0].ID)
	assert.ErrorIs(t, err, entity.ErrNotFound)

	// the lock was released, so the session can check out again
	lock, err := f.cache.Get(ctx, f.cache.GenerateKey("checkout-lock", "s1"))
	require.NoError(t, err)
	assert.Empty(t, lock)
}

func TestCheckoutRejectsConcurrentSessionCheckout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(t, "s1", map[int64]int{caldoVerde: 1})

	ok, err := f.cache.SetNX(ctx, f.cache.GenerateKey("checkout-lock", "s1"), "SSOTHER", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = f.engine.Checkout(ctx, CheckoutInput{SessionID: "s1", Customer: customer(), PaymentMethod: entity.PaymentPix})
	assert.ErrorIs(t, err, entity.ErrCheckoutInProgress)
	assert.ErrorIs(t, err, entity.ErrConflict)

	items, err := f.carts.Items(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, items, 1)

	lock, err := f.cache.Get(ctx, f.cache.GenerateKey("checkout-lock", "s1"))
	require.NoError(t, err)
	assert.Equal(t, "SSOTHER", lock)
}

func TestCheckoutReplaysIdempotencyKey(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(t, "s1", map[int64]int{caldoVerde: 1})
	in := CheckoutInput{SessionID: "s1", Customer: customer(), PaymentMethod: entity.PaymentPix, IdempotencyKey: "idem-1"}

	first, err := f.engine.Checkout(ctx, in)
	require.NoError(t, err)
	second, err := f.engine.Checkout(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, first.OrderNumber, second.OrderNumber)
	assert.Equal(t, first.PaymentID, second.PaymentID)
	assert.True(t, first.TotalAmount.Equal(second.TotalAmount))

	orders, err := f.engine.ListOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestIdempotencyKeyIsScopedToSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(t, "s1", map[int64]int{caldoVerde: 1})
	f.fillCart(t, "s2", map[int64]int{boloCenoura: 1})

	first, err := f.engine.Checkout(ctx, CheckoutInput{
		SessionID: "s1", Customer: customer(), PaymentMethod: entity.PaymentPix, IdempotencyKey: "k1",
	})
	require.NoError(t, err)

	other := customer()
	other.Email = "bruno@example.com"
	second, err := f.engine.Checkout(ctx, CheckoutInput{
		SessionID: "s2", Customer: other, PaymentMethod: entity.PaymentBoleto, IdempotencyKey: "k1",
	})
	require.NoError(t, err)

	assert.NotEqual(t, first.OrderNumber, second.OrderNumber)
	assert.NotEqual(t, first.PaymentID, second.PaymentID)
	assert.Equal(t, entity.PaymentBoleto, second.PaymentMethod)
	assert.Equal(t, "25.00", second.TotalAmount.StringFixed(2))

	items, err := f.carts.Items(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestApplyPaymentStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(t, "s1", map[int64]int{caldoVerde: 1})
	res, err := f.engine.Checkout(ctx, CheckoutInput{SessionID: "s1", Customer: customer(), PaymentMethod: entity.PaymentBoleto})
	require.NoError(t, err)

	changed, err := f.engine.ApplyPaymentStatus(ctx, res.OrderID, entity.PaymentApproved)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = f.engine.ApplyPaymentStatus(ctx, res.OrderID, entity.PaymentApproved)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = f.engine.ApplyPaymentStatus(ctx, res.OrderID, "paid")
	assert.ErrorIs(t, err, entity.ErrValidation)
	_, err = f.engine.ApplyPaymentStatus(ctx, 999, entity.PaymentApproved)
	assert.ErrorIs(t, err, entity.ErrNotFound)

	assert.Equal(t, []entity.NotificationKind{entity.NotifyOrderConfirmation, entity.NotifyStatusUpdate}, f.dispatcher.kinds())
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(t, "s1", map[int64]int{caldoVerde: 1})
	res, err := f.engine.Checkout(ctx, CheckoutInput{SessionID: "s1", Customer: customer(), PaymentMethod: entity.PaymentPix})
	require.NoError(t, err)

	o, err := f.engine.UpdateStatus(ctx, res.OrderID, entity.OrderConfirmed)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderConfirmed, o.Status)

	for _, s := range []entity.OrderStatus{entity.OrderPreparing, entity.OrderReady, entity.OrderDelivered} {
		_, err = f.engine.UpdateStatus(ctx, res.OrderID, s)
		require.NoError(t, err, s)
	}

	_, err = f.engine.UpdateStatus(ctx, res.OrderID, entity.OrderCancelled)
	assert.ErrorIs(t, err, entity.ErrConflict)
	_, err = f.engine.UpdateStatus(ctx, res.OrderID, "shipped")
	assert.ErrorIs(t, err, entity.ErrValidation)
	_, err = f.engine.UpdateStatus(ctx, 999, entity.OrderReady)
	assert.ErrorIs(t, err, entity.ErrNotFound)

	stored, err := f.engine.GetOrder(ctx, res.OrderID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderDelivered, stored.Status)

	// confirmed is silent; preparing, ready and delivered notify
	assert.Equal(t, []entity.NotificationKind{
		entity.NotifyOrderConfirmation,
		entity.NotifyStatusUpdate, entity.NotifyStatusUpdate, entity.NotifyStatusUpdate,
	}, f.dispatcher.kinds())
}
