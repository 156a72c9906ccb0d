// Package latency simulates backend latency so storefront clients can
// exercise their loading states. Disabled (scale 0) in production.
package latency

import (
	"context"
	"time"
)

// Op names a data-access operation with a simulated baseline delay.
type Op string

const (
	OpSignIn            Op = "sign_in"
	OpGetProducts       Op = "get_products"
	OpSaveProduct       Op = "save_product"
	OpDeleteProduct     Op = "delete_product"
	OpGetOrders         Op = "get_orders"
	OpCreateOrder       Op = "create_order"
	OpUpdateOrderStatus Op = "update_order_status"
)

var baselines = map[Op]time.Duration{
	OpSignIn:            800 * time.Millisecond,
	OpGetProducts:       500 * time.Millisecond,
	OpSaveProduct:       600 * time.Millisecond,
	OpDeleteProduct:     400 * time.Millisecond,
	OpGetOrders:         700 * time.Millisecond,
	OpCreateOrder:       1200 * time.Millisecond,
	OpUpdateOrderStatus: 500 * time.Millisecond,
}

// Simulator introduces per-operation delays scaled by a configured factor.
type Simulator struct {
	scale float64
}

// NewSimulator builds a simulator; scale <= 0 disables all delays.
func NewSimulator(scale float64) *Simulator {
	if scale < 0 {
		scale = 0
	}
	return &Simulator{scale: scale}
}

// Wait blocks for the operation's scaled baseline or until the context is
// canceled, whichever comes first.
func (s *Simulator) Wait(ctx context.Context, op Op) error {
	if s == nil || s.scale == 0 {
		return ctx.Err()
	}
	base, ok := baselines[op]
	if !ok {
		return ctx.Err()
	}

	d := time.Duration(float64(base) * s.scale)
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
