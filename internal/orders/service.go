// Package orders implements the order lifecycle: pricing carts into
// immutable pending orders and walking them through the status machine.
package orders

import (
	"context"
	"fmt"

	"github.com/hamadpass/khodarji-backend/internal/storage"
	"github.com/hamadpass/khodarji-backend/pkg/enums"
	pkgerrors "github.com/hamadpass/khodarji-backend/pkg/errors"
	"github.com/hamadpass/khodarji-backend/pkg/latency"
	"github.com/hamadpass/khodarji-backend/pkg/metrics"
	"github.com/hamadpass/khodarji-backend/pkg/pagination"
	"github.com/hamadpass/khodarji-backend/pkg/types"
)

// Service exposes order reads and lifecycle mutations.
type Service interface {
	List(ctx context.Context, phone string) ([]types.Order, error)
	Page(ctx context.Context, phone string, params pagination.Params) ([]types.Order, string, error)
	Create(ctx context.Context, phone string, items []types.CartItem) (*types.Order, error)
	UpdateStatus(ctx context.Context, id string, status string) (*types.Order, error)
}

type collectionStore interface {
	Read(ctx context.Context, key string, dest any) error
	Write(ctx context.Context, key string, value any) error
}

type service struct {
	store   collectionStore
	pricing *Pricing
	sim     *latency.Simulator
	meter   *metrics.OrderMetrics
}

// NewService builds the order service over the durable store.
func NewService(store collectionStore, pricing *Pricing, sim *latency.Simulator, meter *metrics.OrderMetrics) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("storage required")
	}
	if pricing == nil {
		return nil, fmt.Errorf("pricing required")
	}
	return &service{store: store, pricing: pricing, sim: sim, meter: meter}, nil
}

// List returns stored orders, newest first. An empty phone returns every
// order; a phone filters to that customer's history.
func (s *service) List(ctx context.Context, phone string) ([]types.Order, error) {
	if err := s.sim.Wait(ctx, latency.OpGetOrders); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders interrupted")
	}

	var stored []types.Order
	if err := s.store.Read(ctx, storage.KeyOrders, &stored); err != nil {
		return nil, err
	}

	out := make([]types.Order, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		if phone == "" || stored[i].CustomerPhone == phone {
			out = append(out, stored[i])
		}
	}
	return out, nil
}

// Page returns one page of orders, newest first, along with the cursor for
// the next page. An empty cursor return means the listing is exhausted.
func (s *service) Page(ctx context.Context, phone string, params pagination.Params) ([]types.Order, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	all, err := s.List(ctx, phone)
	if err != nil {
		return nil, "", err
	}

	start := 0
	if cursor != nil {
		start = len(all)
		for i, order := range all {
			if order.ID == cursor.ID || order.CreatedAt.Before(cursor.CreatedAt) {
				start = i
				if order.ID == cursor.ID {
					start = i + 1
				}
				break
			}
		}
	}

	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	page := all[start:end]

	next := ""
	if end < len(all) && len(page) > 0 {
		last := page[len(page)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return page, next, nil
}

// Create prices the cart into a pending order and appends it to the ledger.
// Amounts are frozen at creation and never recomputed.
func (s *service) Create(ctx context.Context, phone string, items []types.CartItem) (*types.Order, error) {
	if err := s.sim.Wait(ctx, latency.OpCreateOrder); err != nil {
		s.meter.IncPlaced("interrupted")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order interrupted")
	}

	order, err := s.pricing.BuildFromCart(phone, items)
	if err != nil {
		s.meter.IncPlaced("rejected")
		return nil, err
	}

	var stored []types.Order
	if err := s.store.Read(ctx, storage.KeyOrders, &stored); err != nil {
		s.meter.IncPlaced("failed")
		return nil, err
	}
	stored = append(stored, *order)
	if err := s.store.Write(ctx, storage.KeyOrders, stored); err != nil {
		s.meter.IncPlaced("failed")
		return nil, err
	}

	s.meter.IncPlaced("placed")
	return order, nil
}

// UpdateStatus moves an order along the status machine. Illegal transitions,
// including any move out of a terminal state, are rejected without touching
// the ledger.
func (s *service) UpdateStatus(ctx context.Context, id string, status string) (*types.Order, error) {
	target, err := enums.ParseOrderStatus(status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	if err := s.sim.Wait(ctx, latency.OpUpdateOrderStatus); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status interrupted")
	}

	var stored []types.Order
	if err := s.store.Read(ctx, storage.KeyOrders, &stored); err != nil {
		return nil, err
	}

	for i := range stored {
		if stored[i].ID != id {
			continue
		}
		current := stored[i].Status
		if current == target {
			order := stored[i]
			return &order, nil
		}
		if !current.CanTransitionTo(target) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot move order from %s to %s", current, target))
		}
		stored[i].Status = target
		if err := s.store.Write(ctx, storage.KeyOrders, stored); err != nil {
			return nil, err
		}
		s.meter.IncTransition(target.String())
		order := stored[i]
		return &order, nil
	}

	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}
