package order

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bakehouse-backend/internal/config"
	"github.com/your-org/bakehouse-backend/internal/domain/cart"
	"github.com/your-org/bakehouse-backend/internal/domain/product"
	"github.com/your-org/bakehouse-backend/internal/domain/settings"
	"github.com/your-org/bakehouse-backend/internal/infrastructure/database/redis/redistest"
	"github.com/your-org/bakehouse-backend/internal/pkg/logger"
	"github.com/your-org/bakehouse-backend/internal/pkg/money"
	"github.com/your-org/bakehouse-backend/internal/pkg/testdb"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu      sync.Mutex
	placed  []string
	changes []Status
}

func (n *recordingNotifier) OrderPlaced(ctx context.Context, o *Order) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.placed = append(n.placed, o.OrderNumber)
	return nil
}

func (n *recordingNotifier) StatusChanged(ctx context.Context, o *Order, entry *StatusHistory) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = append(n.changes, entry.Status)
	return errors.New("smtp down") // failures must not surface
}

type fixture struct {
	db       *gorm.DB
	svc      *Service
	carts    *cart.Service
	catalog  *product.Service
	kv       *redistest.Client
	notifier *recordingNotifier
	cake     *product.Product
	cookies  *product.Product
	clock    time.Time
}

func newFixture(t *testing.T, policy string) *fixture {
	t.Helper()
	db := testdb.Open(t,
		&product.Category{}, &product.Product{}, &settings.WebsiteSettings{},
		&Order{}, &OrderItem{}, &StatusHistory{},
	)
	categories := product.DefaultCategories()
	require.NoError(t, db.Create(&categories).Error)

	cfg := &config.Config{
		App:   config.AppConfig{CurrencySymbol: "R"},
		Cart:  config.CartConfig{TTL: time.Hour},
		Order: config.OrderConfig{StatusPolicy: policy, IdempotencyTTL: time.Hour, PageLimit: 20},
	}
	log := logger.Discard()
	kv := redistest.New()
	catalog := product.NewService(db, cfg)
	settingsSvc := settings.NewService(db)
	carts := cart.NewService(kv, catalog, settingsSvc, cfg, log, nil)
	notifier := &recordingNotifier{}

	f := &fixture{
		db:       db,
		carts:    carts,
		catalog:  catalog,
		kv:       kv,
		notifier: notifier,
		clock:    time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(db, cfg, Dependencies{
		Carts:    carts,
		Settings: settingsSvc,
		Reserver: kv,
		Notifier: notifier,
		Logger:   log,
	})
	f.svc.now = func() time.Time {
		f.clock = f.clock.Add(time.Minute)
		return f.clock
	}

	ctx := context.Background()
	var err error
	f.cake, err = catalog.CreateProduct(ctx, &product.ProductCreateRequest{Name: "Cake A", Price: "R100.00", Image: "/a.png", Category: "cakes"})
	require.NoError(t, err)
	f.cookies, err = catalog.CreateProduct(ctx, &product.ProductCreateRequest{Name: "Cookies B", Price: "R50.00", Image: "/b.png", Category: "cookies"})
	require.NoError(t, err)
	return f
}

func (f *fixture) fillCart(t *testing.T, session string) {
	t.Helper()
	ctx := context.Background()
	for _, id := range []uint{f.cake.ID, f.cake.ID, f.cookies.ID} {
		_, err := f.carts.AddToCart(ctx, session, &cart.AddToCartRequest{ProductID: id})
		require.NoError(t, err)
	}
}

func validRequest(method DeliveryMethod) *CheckoutRequest {
	req := &CheckoutRequest{
		CustomerName:   "Thandi Mokoena",
		CustomerEmail:  "thandi@example.com",
		CustomerPhone:  "+27 82 555 0101",
		DeliveryMethod: method,
	}
	if method == DeliveryDelivery {
		req.DeliveryAddress = "12 Jacaranda Ave, Johannesburg"
	}
	return req
}

func (f *fixture) placeOrder(t *testing.T, userID uint) *Order {
	t.Helper()
	session := uuid.NewString()
	f.fillCart(t, session)
	order, _, err := f.svc.Checkout(context.Background(), Customer{UserID: &userID, Email: "thandi@example.com"}, session, validRequest(DeliveryPickup))
	require.NoError(t, err)
	return order
}

func TestCheckoutCreatesOrderFromCart(t *testing.T) {
	f := newFixture(t, config.StatusPolicyPermissive)
	ctx := context.Background()
	f.fillCart(t, "sess")
	userID := uint(7)

	order, replayed, err := f.svc.Checkout(ctx, Customer{UserID: &userID}, "sess", validRequest(DeliveryDelivery))
	require.NoError(t, err)
	assert.False(t, replayed)

	assert.Equal(t, StatusPlaced, order.Status)
	assert.Equal(t, PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, money.Amount(25000), order.Subtotal)
	assert.Equal(t, money.Amount(5000), order.DeliveryFee, "below the free delivery threshold")
	assert.Equal(t, money.Amount(30000), order.TotalAmount)
	assert.Regexp(t, `^TB-20260314-[0-9A-F]{8}$`, order.OrderNumber)

	stored, err := f.svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	assert.Equal(t, "Cake A", stored.Items[0].ProductName)
	assert.Equal(t, 2, stored.Items[0].Quantity)
	assert.Equal(t, money.Amount(10000), stored.Items[0].UnitPrice)
	assert.Equal(t, money.Amount(20000), stored.Items[0].TotalPrice)
	assert.Equal(t, "/b.png", stored.Items[1].ProductImage)
	assert.Equal(t, 3, stored.ItemCount())

	require.Len(t, stored.StatusHistory, 1)
	assert.Equal(t, StatusPlaced, stored.StatusHistory[0].Status)
	assert.Equal(t, "customer", stored.StatusHistory[0].ChangedBy)

	count, err := f.carts.GetItemCount(ctx, "sess")
	require.NoError(t, err)
	assert.Equal(t, 0, count, "cart is cleared after checkout")
	assert.Equal(t, []string{order.OrderNumber}, f.notifier.placed)
}

func TestCheckoutPickupHasNoDeliveryFee(t *testing.T) {
	f := newFixture(t, config.StatusPolicyPermissive)
	f.fillCart(t, "sess")

	req := validRequest(DeliveryPickup)
	req.DeliveryAddress = "ignored"
	order, _, err := f.svc.Checkout(context.Background(), Customer{}, "sess", req)
	require.NoError(t, err)

	assert.Equal(t, money.Amount(0), order.DeliveryFee)
	assert.Equal(t, order.Subtotal, order.TotalAmount)
	assert.Empty(t, order.DeliveryAddress)
	assert.Nil(t, order.UserID)
}

func TestCheckoutValidatesBeforeWriting(t *testing.T) {
	f := newFixture(t, config.StatusPolicyPermissive)
	ctx := context.Background()
	f.fillCart(t, "sess")

	req := validRequest(DeliveryDelivery)
	req.CustomerName = "  "
	req.CustomerEmail = "not-an-email"
	req.DeliveryAddress = ""

	_, _, err := f.svc.Checkout(ctx, Customer{}, "sess", req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "is required", verr.Fields["customer_name"])
	assert.Equal(t, "must be a valid email address", verr.Fields["customer_email"])
	assert.Equal(t, "is required", verr.Fields["delivery_address"])

	var orders int64
	require.NoError(t, f.db.Model(&Order{}).Count(&orders).Error)
	assert.Zero(t, orders)

	count, err := f.carts.GetItemCount(ctx, "sess")
	require.NoError(t, err)
	assert.Equal(t, 3, count, "cart untouched")
}

func TestCheckoutFallsBackToAccountEmail(t *testing.T) {
	f := newFixture(t, config.StatusPolicyPermissive)
	f.fillCart(t, "sess")

	req := validRequest(DeliveryPickup)
	req.CustomerEmail = ""
	order, _, err := f.svc.Checkout(context.Background(), Customer{Email: "acct@example.com"}, "sess", req)
	require.NoError(t, err)
	assert.Equal(t, "acct@example.com", order.CustomerEmail)
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	f := newFixture(t, config.StatusPolicyPermissive)

	_, _, err := f.svc.Checkout(context.Background(), Customer{}, "empty", validRequest(DeliveryPickup))
	assert.True(t, errors.Is(err, ErrEmptyCart))
}

func TestCheckoutIsIdempotent(t *testing.T) {
	f := newFixture(t, config.StatusPolicyPermissive)
	ctx := context.Background()
	f.fillCart(t, "sess")

	req := validRequest(DeliveryPickup)
	req.IdempotencyKey = "key-123"
	first, replayed, err := f.svc.Checkout(ctx, Customer{}, "sess", req)
	require.NoError(t, err)
	assert.False(t, replayed)

	retry := validRequest(DeliveryPickup)
	retry.IdempotencyKey = "key-123"
	second, replayed, err := f.svc.Checkout(ctx, Customer{}, "sess", retry)
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, first.ID, second.ID)

	var orders int64
	require.NoError(t, f.db.Model(&Order{}).Count(&orders).Error)
	assert.Equal(t, int64(1), orders)
}

func TestCheckoutInFlightKeyIsRejected(t *testing.T) {
	f := newFixture(t, config.StatusPolicyPermissive)
	f.fillCart(t, "sess")
	f.kv.Put(idempotencyPrefix+"busy", "pending")

	req := validRequest(DeliveryPickup)
	req.IdempotencyKey = "busy"
	_, _, err := f.svc.Checkout(context.Background(), Customer{}, "sess", req)
	assert.True(t, errors.Is(err, ErrCheckoutInProgress))
}

func TestCheckoutReleasesReservationOnFailure(t *testing.T) {
	f := newFixture(t, config.StatusPolicyPermissive)

	req := validRequest(DeliveryPickup)
	req.IdempotencyKey = "retry-me"
	_, _, err := f.svc.Checkout(context.Background(), Customer{}, "empty", req)
	require.True(t, errors.Is(err, ErrEmptyCart))

	_, held := f.kv.Raw(idempotencyPrefix + "retry-me")
	assert.False(t, held)
}

func TestCheckoutWithoutReservationStoreReplaysFromDatabase(t *testing.T) {
	f := newFixture(t, config.StatusPolicyPermissive)
	ctx := context.Background()
	reserver := redistest.New()
	reserver.SetDown(true)
	f.svc.reserver = reserver
	f.fillCart(t, "sess")

	req := validRequest(DeliveryPickup)
	req.IdempotencyKey = "no-redis"
	first, replayed, err := f.svc.Checkout(ctx, Customer{}, "sess", req)
	require.NoError(t, err)
	assert.False(t, replayed)

	f.fillCart(t, "sess")
	retry := validRequest(DeliveryPickup)
	retry.IdempotencyKey = "no-redis"
	second, replayed, err := f.svc.Checkout(ctx, Customer{}, "sess", retry)
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, first.ID, second.ID)

	var orders int64
	require.NoError(t, f.db.Model(&Order{}).Where("idempotency_key = ?", "no-redis").Count(&orders).Error)
	assert.Equal(t, int64(1), orders)
}

func TestOrderItemsAreSnapshots(t *testing.T) {
	f := newFixture(t, config.StatusPolicyPermissive)
	ctx := context.Background()
	order := f.placeOrder(t, 1)

	price := "R999.00"
	name := "Renamed Cake"
	_, err := f.catalog.UpdateProduct(ctx, f.cake.ID, &product.ProductUpdateRequest{Price: &price, Name: &name})
	require.NoError(t, err)

	stored, err := f.svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cake A", stored.Items[0].ProductName)
	assert.Equal(t, money.Amount(10000), stored.Items[0].UnitPrice)
}

func TestStatusUpdatesAppendHistoryInOrder(t *testing.T) {
	f := newFixture(t, config.StatusPolicyPermissive)
	ctx := context.Background()
	order := f.placeOrder(t, 1)

	_, err := f.svc.UpdateOrderStatus(ctx, order.ID, "preparing", "baker@teejay.co.za", "")
	require.NoError(t, err)
	updated, err := f.svc.UpdateOrderStatus(ctx, order.ID, "ready", "baker@teejay.co.za", "Boxed and labelled")
	require.NoError(t, err)
	assert.Equal(t, StatusReady, updated.Status)

	history, err := f.svc.GetStatusHistory(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)

	assert.Equal(t, StatusPlaced, history[0].Status)
	assert.Equal(t, StatusPreparing, history[1].Status)
	assert.Equal(t, StatusReady, history[2].Status)
	assert.Equal(t, "Status updated to preparing", history[1].Notes)
	assert.Equal(t, "Boxed and labelled", history[2].Notes)
	assert.Equal(t, "baker@teejay.co.za", history[2].ChangedBy)
	assert.True(t, history[1].Timestamp.Before(history[2].Timestamp))

	assert.Equal(t, []Status{StatusPreparing, StatusReady}, f.notifier.changes)
}

func TestUpdateStatusDefaultsChangedBy(t *testing.T) {
	f := newFixture(t, config.StatusPolicyPermissive)
	ctx := context.Background()
	order := f.placeOrder(t, 1)

	_, err := f.svc.UpdateOrderStatus(ctx, order.ID, "baking", "", "")
	require.NoError(t, err)

	history, err := f.svc.GetStatusHistory(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin", history[1].ChangedBy)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t, config.StatusPolicyPermissive)
	ctx := context.Background()
	order := f.placeOrder(t, 1)

	_, err := f.svc.UpdateOrderStatus(ctx, order.ID, "shipped", "admin@x", "")
	assert.True(t, errors.Is(err, ErrInvalidStatus))

	history, err := f.svc.GetStatusHistory(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	_, err = f.svc.UpdateOrderStatus(ctx, uuid.New(), "ready", "admin@x", "")
	assert.True(t, errors.Is(err, ErrOrderNotFound))
}

func TestPermissivePolicyAllowsAnyTransition(t *testing.T) {
	f := newFixture(t, config.StatusPolicyPermissive)
	ctx := context.Background()
	order := f.placeOrder(t, 1)

	for _, status := range []string{"completed", "placed", "cancelled", "baking", "baking"} {
		_, err := f.svc.UpdateOrderStatus(ctx, order.ID, status, "admin@x", "")
		require.NoError(t, err, status)
	}

	history, err := f.svc.GetStatusHistory(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, history, 6, "same-status updates still append")
}

func TestStrictPolicyGuardsTransitions(t *testing.T) {
	f := newFixture(t, config.StatusPolicyStrict)
	ctx := context.Background()
	order := f.placeOrder(t, 1)

	_, err := f.svc.UpdateOrderStatus(ctx, order.ID, "ready", "admin@x", "")
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	_, err = f.svc.UpdateOrderStatus(ctx, order.ID, "preparing", "admin@x", "")
	require.NoError(t, err)

	history, err := f.svc.GetStatusHistory(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestStatusHistoryIsAppendOnly(t *testing.T) {
	f := newFixture(t, config.StatusPolicyPermissive)
	ctx := context.Background()
	order := f.placeOrder(t, 1)

	history, err := f.svc.GetStatusHistory(ctx, order.ID)
	require.NoError(t, err)
	entry := history[0]

	err = f.db.Model(&StatusHistory{ID: entry.ID}).Update("notes", "rewritten").Error
	assert.True(t, errors.Is(err, ErrHistoryImmutable))

	err = f.db.Delete(&StatusHistory{ID: entry.ID}).Error
	assert.True(t, errors.Is(err, ErrHistoryImmutable))

	after, err := f.svc.GetStatusHistory(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, history, after)
}

func TestGetOrdersFiltersAndScopes(t *testing.T) {
	f := newFixture(t, config.StatusPolicyPermissive)
	ctx := context.Background()
	first := f.placeOrder(t, 1)
	second := f.placeOrder(t, 1)
	other := f.placeOrder(t, 2)

	_, err := f.svc.UpdateOrderStatus(ctx, second.ID, "baking", "admin@x", "")
	require.NoError(t, err)

	userID := uint(1)
	mine, err := f.svc.GetOrders(ctx, &OrderListRequest{UserID: &userID})
	require.NoError(t, err)
	require.Len(t, mine.Orders, 2)
	assert.Equal(t, second.ID, mine.Orders[0].ID, "newest first")
	assert.Equal(t, first.ID, mine.Orders[1].ID)
	assert.Len(t, mine.Orders[0].Items, 2)

	baking, err := f.svc.GetOrders(ctx, &OrderListRequest{Status: "baking"})
	require.NoError(t, err)
	require.Len(t, baking.Orders, 1)
	assert.Equal(t, second.ID, baking.Orders[0].ID)

	all, err := f.svc.GetOrders(ctx, &OrderListRequest{Status: "all", Search: "THANDI"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Pagination.Total)

	byID, err := f.svc.GetOrders(ctx, &OrderListRequest{Search: other.ID.String()[:8]})
	require.NoError(t, err)
	require.Len(t, byID.Orders, 1)
	assert.Equal(t, other.ID, byID.Orders[0].ID)

	_, err = f.svc.GetOrders(ctx, &OrderListRequest{Status: "lost"})
	assert.True(t, errors.Is(err, ErrInvalidStatus))

	_, err = f.svc.GetUserOrder(ctx, other.ID, 1)
	assert.True(t, errors.Is(err, ErrOrderNotFound))
	got, err := f.svc.GetUserOrder(ctx, other.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, other.ID, got.ID)
}

func TestUpdateNotes(t *testing.T) {
	f := newFixture(t, config.StatusPolicyPermissive)
	ctx := context.Background()
	order := f.placeOrder(t, 1)

	updated, err := f.svc.UpdateNotes(ctx, order.ID, "Call before delivery")
	require.NoError(t, err)
	assert.Equal(t, "Call before delivery", updated.AdminNotes)

	_, err = f.svc.UpdateNotes(ctx, uuid.New(), "x")
	assert.True(t, errors.Is(err, ErrOrderNotFound))
}

func TestStatusLabels(t *testing.T) {
	assert.Equal(t, "Ready for Collection/Delivery", StatusReady.Label())
	assert.Equal(t, "Order Placed", StatusPlaced.Label())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusOutForDelivery.IsTerminal())

	options := StatusOptions()
	require.Len(t, options, 9)
	assert.Equal(t, StatusQualityCheck, options[4].Value)
	assert.Equal(t, "Quality Check", options[4].Label)
}
