package session

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/hamadpass/khodarji-backend/internal/orders"
	"github.com/hamadpass/khodarji-backend/internal/storage"
	"github.com/hamadpass/khodarji-backend/internal/users"
	"github.com/hamadpass/khodarji-backend/pkg/config"
	"github.com/hamadpass/khodarji-backend/pkg/db"
	"github.com/hamadpass/khodarji-backend/pkg/enums"
	pkgerrors "github.com/hamadpass/khodarji-backend/pkg/errors"
	"github.com/hamadpass/khodarji-backend/pkg/latency"
	"github.com/hamadpass/khodarji-backend/pkg/types"
)

func newTestManager(t *testing.T) (*Manager, *storage.Store) {
	t.Helper()
	client, err := db.New(context.Background(), config.DBConfig{
		DSN:    "file::memory:",
		Driver: config.DBDriverSQLite,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.DB().AutoMigrate(&storage.Record{}))

	store := storage.New(client, nil)
	sim := latency.NewSimulator(0)

	usersSvc, err := users.NewService(store, sim)
	require.NoError(t, err)
	pricing, err := orders.NewPricing(config.CheckoutConfig{FreeDeliveryThreshold: "20", DeliveryFee: "2"})
	require.NoError(t, err)
	ordersSvc, err := orders.NewService(store, pricing, sim, nil)
	require.NoError(t, err)

	mgr, err := NewManager(store, usersSvc, ordersSvc, pricing, nil)
	require.NoError(t, err)
	return mgr, store
}

func product(id, priceStr string) types.Product {
	return types.Product{
		ID:       id,
		Name:     types.LocalizedString{En: "Tomatoes", Ar: "بندورة"},
		Category: enums.ProductCategoryVegetables,
		Price:    decimal.RequireFromString(priceStr),
		Unit:     "KG",
	}
}

func qty(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestAddToCartMergesQuantities(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()
	sess := mgr.Session(ctx, "s1")

	_, err := sess.AddToCart(ctx, product("v1", "0.65"), qty("1"))
	require.NoError(t, err)
	cart, err := sess.AddToCart(ctx, product("v1", "0.65"), qty("2"))
	require.NoError(t, err)

	require.Len(t, cart, 1)
	require.True(t, cart[0].Quantity.Equal(qty("3")))
	require.True(t, sess.Snapshot().CartOpen)
}

func TestAddToCartRejectsNonPositiveQuantity(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()
	sess := mgr.Session(ctx, "s1")

	_, err := sess.AddToCart(ctx, product("v1", "0.65"), qty("0"))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	require.Empty(t, sess.Snapshot().Cart)
}

func TestUpdateQuantityClampsToMinimum(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()
	sess := mgr.Session(ctx, "s1")

	_, err := sess.AddToCart(ctx, product("v1", "0.65"), qty("2"))
	require.NoError(t, err)

	cart, err := sess.UpdateQuantity(ctx, "v1", qty("0.1"))
	require.NoError(t, err)
	require.Len(t, cart, 1)
	require.True(t, cart[0].Quantity.Equal(qty("0.5")), "quantity %s", cart[0].Quantity)

	// Zero and negative also clamp; the line never disappears.
	cart, err = sess.UpdateQuantity(ctx, "v1", qty("-3"))
	require.NoError(t, err)
	require.Len(t, cart, 1)
	require.True(t, cart[0].Quantity.Equal(qty("0.5")))
}

func TestUpdateQuantityUnknownIDIsNoOp(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()
	sess := mgr.Session(ctx, "s1")

	_, err := sess.AddToCart(ctx, product("v1", "0.65"), qty("2"))
	require.NoError(t, err)

	cart, err := sess.UpdateQuantity(ctx, "nope", qty("5"))
	require.NoError(t, err)
	require.Len(t, cart, 1)
	require.True(t, cart[0].Quantity.Equal(qty("2")))
}

func TestRemoveFromCartMirrorsEmptyCart(t *testing.T) {
	mgr, store := newTestManager(t)
	ctx := context.Background()
	sess := mgr.Session(ctx, "s1")

	_, err := sess.AddToCart(ctx, product("v1", "0.65"), qty("2"))
	require.NoError(t, err)
	cart, err := sess.RemoveFromCart(ctx, "v1")
	require.NoError(t, err)
	require.Empty(t, cart)

	// The empty snapshot must be durable, not a deleted row.
	stored := []types.CartItem{{Product: product("ghost", "1")}}
	require.NoError(t, store.Read(ctx, storage.CartKey("s1"), &stored))
	require.Empty(t, stored)
}

func TestCartSurvivesRestart(t *testing.T) {
	mgr, store := newTestManager(t)
	ctx := context.Background()
	sess := mgr.Session(ctx, "s1")

	_, err := sess.AddToCart(ctx, product("v1", "0.65"), qty("2.5"))
	require.NoError(t, err)

	// A new manager over the same store simulates a process restart.
	fresh, err := NewManager(store, mgr.users, mgr.orders, mgr.pricing, nil)
	require.NoError(t, err)
	restored := fresh.Session(ctx, "s1").Snapshot()

	require.Len(t, restored.Cart, 1)
	require.Equal(t, "v1", restored.Cart[0].ID)
	require.True(t, restored.Cart[0].Quantity.Equal(qty("2.5")))
}

func TestIdentifyFailureLeavesStateUnchanged(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()
	sess := mgr.Session(ctx, "s1")

	_, err := sess.AddToCart(ctx, product("v1", "0.65"), qty("1"))
	require.NoError(t, err)

	user, err := sess.Identify(ctx, "12345")
	require.Nil(t, user)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	state := sess.Snapshot()
	require.Nil(t, state.User)
	require.Len(t, state.Cart, 1)
}

func TestIdentifiedUserSurvivesRestart(t *testing.T) {
	mgr, store := newTestManager(t)
	ctx := context.Background()
	sess := mgr.Session(ctx, "s1")

	user, err := sess.Identify(ctx, "791234567")
	require.NoError(t, err)
	require.Equal(t, enums.UserRoleAdmin, user.Role)

	fresh, err := NewManager(store, mgr.users, mgr.orders, mgr.pricing, nil)
	require.NoError(t, err)
	restored := fresh.Session(ctx, "s1").Snapshot()

	require.NotNil(t, restored.User)
	require.Equal(t, user.ID, restored.User.ID)
}

func TestLogoutKeepsCart(t *testing.T) {
	mgr, store := newTestManager(t)
	ctx := context.Background()
	sess := mgr.Session(ctx, "s1")

	_, err := sess.Identify(ctx, "791234567")
	require.NoError(t, err)
	_, err = sess.AddToCart(ctx, product("v1", "0.65"), qty("1"))
	require.NoError(t, err)

	require.NoError(t, sess.Logout(ctx))

	state := sess.Snapshot()
	require.Nil(t, state.User)
	require.Empty(t, state.Orders)
	require.Len(t, state.Cart, 1)

	// The durable binding is gone too.
	fresh, err := NewManager(store, mgr.users, mgr.orders, mgr.pricing, nil)
	require.NoError(t, err)
	restored := fresh.Session(ctx, "s1").Snapshot()
	require.Nil(t, restored.User)
	require.Len(t, restored.Cart, 1)
}

func TestPlaceOrderRejectsEmptyCart(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()
	sess := mgr.Session(ctx, "s1")

	order, err := sess.PlaceOrder(ctx, "791234567")
	require.Nil(t, order)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestPlaceOrderIdentifiesAnonymousCustomer(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()
	sess := mgr.Session(ctx, "s1")

	_, err := sess.AddToCart(ctx, product("v1", "0.65"), qty("2"))
	require.NoError(t, err)
	_, err = sess.AddToCart(ctx, product("v7", "0.45"), qty("3"))
	require.NoError(t, err)

	order, err := sess.PlaceOrder(ctx, "791234567")
	require.NoError(t, err)
	require.Equal(t, "791234567", order.CustomerPhone)
	require.True(t, order.Subtotal.Equal(qty("2.65")))
	require.True(t, order.Total.Equal(qty("4.65")))

	state := sess.Snapshot()
	require.NotNil(t, state.User)
	require.Empty(t, state.Cart)
	require.False(t, state.CartOpen)
	require.Equal(t, enums.StorefrontViewOrders, state.View)
	require.Len(t, state.Orders, 1)
	require.Equal(t, order.ID, state.Orders[0].ID)
}

func TestPlaceOrderReidentifiesOnDifferentPhone(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()
	sess := mgr.Session(ctx, "s1")

	_, err := sess.Identify(ctx, "791111111")
	require.NoError(t, err)

	_, err = sess.AddToCart(ctx, product("v1", "0.65"), qty("1"))
	require.NoError(t, err)

	order, err := sess.PlaceOrder(ctx, "792222222")
	require.NoError(t, err)
	require.Equal(t, "792222222", order.CustomerPhone)

	state := sess.Snapshot()
	require.NotNil(t, state.User)
	require.Equal(t, "792222222", state.User.Phone)
}

func TestPlaceOrderBlankPhoneKeepsCurrentUser(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()
	sess := mgr.Session(ctx, "s1")

	_, err := sess.Identify(ctx, "791111111")
	require.NoError(t, err)

	_, err = sess.AddToCart(ctx, product("v1", "0.65"), qty("1"))
	require.NoError(t, err)

	order, err := sess.PlaceOrder(ctx, "")
	require.NoError(t, err)
	require.Equal(t, "791111111", order.CustomerPhone)
}

func TestPlaceOrderFailureLeavesCartIntact(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()
	sess := mgr.Session(ctx, "s1")

	_, err := sess.AddToCart(ctx, product("v1", "0.65"), qty("2"))
	require.NoError(t, err)

	order, err := sess.PlaceOrder(ctx, "bad-phone")
	require.Nil(t, order)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	state := sess.Snapshot()
	require.Len(t, state.Cart, 1)
	require.Nil(t, state.User)
	require.Empty(t, state.Orders)
	require.True(t, state.CartOpen)
}

func TestPlaceOrderRejectsDoubleSubmit(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()
	sess := mgr.Session(ctx, "s1")

	_, err := sess.AddToCart(ctx, product("v1", "0.65"), qty("2"))
	require.NoError(t, err)

	sess.mu.Lock()
	sess.ordering = true
	sess.mu.Unlock()

	_, err = sess.PlaceOrder(ctx, "791234567")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestPlaceOrderPrependsNewestOrder(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()
	sess := mgr.Session(ctx, "s1")

	_, err := sess.AddToCart(ctx, product("v1", "0.65"), qty("2"))
	require.NoError(t, err)
	first, err := sess.PlaceOrder(ctx, "791234567")
	require.NoError(t, err)

	_, err = sess.AddToCart(ctx, product("v7", "0.45"), qty("1"))
	require.NoError(t, err)
	second, err := sess.PlaceOrder(ctx, "791234567")
	require.NoError(t, err)

	state := sess.Snapshot()
	require.Len(t, state.Orders, 2)
	require.Equal(t, second.ID, state.Orders[0].ID)
	require.Equal(t, first.ID, state.Orders[1].ID)
}

func TestTotalsFollowDeliveryRules(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()
	sess := mgr.Session(ctx, "s1")

	_, err := sess.AddToCart(ctx, product("v1", "0.65"), qty("2"))
	require.NoError(t, err)
	_, err = sess.AddToCart(ctx, product("v7", "0.45"), qty("3"))
	require.NoError(t, err)

	subtotal, fee, total := sess.Totals()
	require.True(t, subtotal.Equal(qty("2.65")))
	require.True(t, fee.Equal(qty("2")))
	require.True(t, total.Equal(qty("4.65")))

	_, err = sess.AddToCart(ctx, product("f8", "4.50"), qty("5"))
	require.NoError(t, err)

	_, fee, _ = sess.Totals()
	require.True(t, fee.IsZero())
}

func TestCorruptCartRestoresEmpty(t *testing.T) {
	mgr, store := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, storage.CartKey("s1"), "not-a-cart"))

	state := mgr.Session(ctx, "s1").Snapshot()
	require.Empty(t, state.Cart)
}
