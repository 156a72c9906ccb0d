package session

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/hamadpass/khodarji-backend/internal/storage"
	"github.com/hamadpass/khodarji-backend/pkg/enums"
	pkgerrors "github.com/hamadpass/khodarji-backend/pkg/errors"
	"github.com/hamadpass/khodarji-backend/pkg/types"
)

// minQuantity is the floor every cart line is clamped to. Quantities never
// drop an item from the cart; removal is always explicit.
var minQuantity = decimal.RequireFromString("0.5")

// State is a point-in-time snapshot of a session, safe to serialize.
type State struct {
	User     *types.User          `json:"user"`
	Cart     []types.CartItem     `json:"cart"`
	Orders   []types.Order        `json:"orders"`
	CartOpen bool                 `json:"cartOpen"`
	View     enums.StorefrontView `json:"view"`
}

// Session is one client's live storefront state. All methods are safe for
// concurrent use.
type Session struct {
	id  string
	mgr *Manager

	mu       sync.Mutex
	user     *types.User
	cart     []types.CartItem
	orders   []types.Order
	cartOpen bool
	view     enums.StorefrontView
	ordering bool
}

func newSession(id string, mgr *Manager) *Session {
	return &Session{id: id, mgr: mgr, view: enums.StorefrontViewHome}
}

// hydrate restores the cart and the identified user from the durable store.
// Each restore is independent; a corrupt or missing half degrades to empty
// rather than failing the whole session.
func (s *Session) hydrate(ctx context.Context) {
	var cart []types.CartItem
	if err := s.mgr.store.Read(ctx, storage.CartKey(s.id), &cart); err != nil {
		s.mgr.warn(ctx, "restore cart", err)
		cart = nil
	}

	var user *types.User
	if err := s.mgr.store.Read(ctx, storage.SessionUserKey(s.id), &user); err != nil {
		s.mgr.warn(ctx, "restore session user", err)
		user = nil
	}

	var history []types.Order
	if user != nil {
		restored, err := s.mgr.orders.List(ctx, user.Phone)
		if err != nil {
			s.mgr.warn(ctx, "restore order history", err)
		} else {
			history = restored
		}
	}

	s.mu.Lock()
	s.cart = cart
	s.user = user
	s.orders = history
	s.mu.Unlock()
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		User:     s.user,
		Cart:     append([]types.CartItem{}, s.cart...),
		Orders:   append([]types.Order{}, s.orders...),
		CartOpen: s.cartOpen,
		View:     s.view,
	}
}

// Totals derives the current cart amounts from the pricing rules. They are
// display values; the authoritative amounts are frozen when an order is
// placed.
func (s *Session) Totals() (subtotal, fee, total decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	subtotal = decimal.Zero
	for _, item := range s.cart {
		subtotal = subtotal.Add(item.Price.Mul(item.Quantity))
	}
	fee = s.mgr.pricing.DeliveryFee(subtotal)
	return subtotal, fee, subtotal.Add(fee)
}

// AddToCart merges the product into the cart, summing quantities for a
// product already present, and opens the cart panel.
func (s *Session) AddToCart(ctx context.Context, product types.Product, quantity decimal.Decimal) ([]types.CartItem, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	merged := false
	for i := range s.cart {
		if s.cart[i].ID == product.ID {
			s.cart[i].Quantity = s.cart[i].Quantity.Add(quantity)
			merged = true
			break
		}
	}
	if !merged {
		s.cart = append(s.cart, types.CartItem{Product: product, Quantity: quantity})
	}
	s.cartOpen = true

	if err := s.mirrorCartLocked(ctx); err != nil {
		return nil, err
	}
	return append([]types.CartItem{}, s.cart...), nil
}

// UpdateQuantity sets a cart line's quantity, clamped to the minimum. An id
// not in the cart is a no-op.
func (s *Session) UpdateQuantity(ctx context.Context, productID string, quantity decimal.Decimal) ([]types.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cart {
		if s.cart[i].ID != productID {
			continue
		}
		if quantity.LessThan(minQuantity) {
			quantity = minQuantity
		}
		s.cart[i].Quantity = quantity
		if err := s.mirrorCartLocked(ctx); err != nil {
			return nil, err
		}
		break
	}
	return append([]types.CartItem{}, s.cart...), nil
}

// RemoveFromCart drops a cart line. An id not in the cart is a no-op; even
// an emptied cart is mirrored so restarts see the removal.
func (s *Session) RemoveFromCart(ctx context.Context, productID string) ([]types.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]types.CartItem, 0, len(s.cart))
	for _, item := range s.cart {
		if item.ID != productID {
			kept = append(kept, item)
		}
	}
	if len(kept) != len(s.cart) {
		s.cart = kept
		if err := s.mirrorCartLocked(ctx); err != nil {
			return nil, err
		}
	}
	return append([]types.CartItem{}, s.cart...), nil
}

// SetCartOpen toggles the cart panel.
func (s *Session) SetCartOpen(open bool) {
	s.mu.Lock()
	s.cartOpen = open
	s.mu.Unlock()
}

// SetView switches the active storefront section.
func (s *Session) SetView(view enums.StorefrontView) error {
	if !view.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown view")
	}
	s.mu.Lock()
	s.view = view
	s.mu.Unlock()
	return nil
}

// Identify resolves the phone to a user and binds it to the session. On
// failure nothing changes.
func (s *Session) Identify(ctx context.Context, phone string) (*types.User, error) {
	user, err := s.mgr.users.SignIn(ctx, phone)
	if err != nil {
		return nil, err
	}

	history, err := s.mgr.orders.List(ctx, user.Phone)
	if err != nil {
		s.mgr.warn(ctx, "load order history", err)
		history = nil
	}

	if err := s.mgr.store.Write(ctx, storage.SessionUserKey(s.id), user); err != nil {
		s.mgr.warn(ctx, "persist session user", err)
	}

	s.mu.Lock()
	s.user = user
	s.orders = history
	s.mu.Unlock()
	return user, nil
}

// Logout unbinds the user and clears the order history, keeping the cart.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.mgr.store.Delete(ctx, storage.SessionUserKey(s.id)); err != nil {
		return err
	}

	s.mu.Lock()
	s.user = nil
	s.orders = nil
	s.mu.Unlock()
	return nil
}

// PlaceOrder runs the checkout pipeline: identify if needed, price and
// persist the order, then clear the cart and jump to the orders view. A
// second submission while one is in flight is rejected. On any failure the
// cart, user, and history are left exactly as they were.
func (s *Session) PlaceOrder(ctx context.Context, phone string) (*types.Order, error) {
	s.mu.Lock()
	if s.ordering {
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order already in progress")
	}
	if len(s.cart) == 0 {
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	s.ordering = true
	user := s.user
	items := append([]types.CartItem{}, s.cart...)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.ordering = false
		s.mu.Unlock()
	}()

	// Re-identify when the session is anonymous or the checkout phone
	// differs from the identified user; the order belongs to the phone the
	// customer typed. A blank phone keeps the current user.
	if user == nil || (phone != "" && user.Phone != phone) {
		identified, err := s.Identify(ctx, phone)
		if err != nil {
			return nil, err
		}
		user = identified
	}

	order, err := s.mgr.orders.Create(ctx, user.Phone, items)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.orders = append([]types.Order{*order}, s.orders...)
	s.cart = nil
	s.cartOpen = false
	s.view = enums.StorefrontViewOrders
	mirrorErr := s.mirrorCartLocked(ctx)
	s.mu.Unlock()

	if mirrorErr != nil {
		s.mgr.warn(ctx, "mirror cleared cart", mirrorErr)
	}
	return order, nil
}

// mirrorCartLocked writes the cart snapshot, empty included, so a restart
// restores exactly what the client last saw. Caller holds s.mu.
func (s *Session) mirrorCartLocked(ctx context.Context) error {
	items := s.cart
	if items == nil {
		items = []types.CartItem{}
	}
	return s.mgr.store.Write(ctx, storage.CartKey(s.id), items)
}
