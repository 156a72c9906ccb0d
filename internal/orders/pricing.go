package orders

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hamadpass/khodarji-backend/pkg/config"
	"github.com/hamadpass/khodarji-backend/pkg/enums"
	pkgerrors "github.com/hamadpass/khodarji-backend/pkg/errors"
	"github.com/hamadpass/khodarji-backend/pkg/shortid"
	"github.com/hamadpass/khodarji-backend/pkg/types"
)

// Pricing holds the checkout amounts used to price new orders.
type Pricing struct {
	freeDeliveryThreshold decimal.Decimal
	deliveryFee           decimal.Decimal
}

// NewPricing parses the configured checkout amounts.
func NewPricing(cfg config.CheckoutConfig) (*Pricing, error) {
	threshold, err := decimal.NewFromString(cfg.FreeDeliveryThreshold)
	if err != nil {
		return nil, fmt.Errorf("parse free delivery threshold %q: %w", cfg.FreeDeliveryThreshold, err)
	}
	fee, err := decimal.NewFromString(cfg.DeliveryFee)
	if err != nil {
		return nil, fmt.Errorf("parse delivery fee %q: %w", cfg.DeliveryFee, err)
	}
	return &Pricing{freeDeliveryThreshold: threshold, deliveryFee: fee}, nil
}

// DeliveryFee returns the fee charged for the given subtotal: zero at or
// above the free-delivery threshold, the flat fee below it.
func (p *Pricing) DeliveryFee(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(p.freeDeliveryThreshold) {
		return decimal.Zero
	}
	return p.deliveryFee
}

// BuildFromCart prices a cart and freezes it into a new pending order. Every
// item is deep-copied so later catalog edits never rewrite order history.
func (p *Pricing) BuildFromCart(phone string, items []types.CartItem) (*types.Order, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	snapshot := make([]types.CartItem, len(items))
	subtotal := decimal.Zero
	for i, item := range items {
		copied := item
		if item.Description != nil {
			desc := *item.Description
			copied.Description = &desc
		}
		snapshot[i] = copied
		subtotal = subtotal.Add(item.Price.Mul(item.Quantity))
	}

	code, err := shortid.New()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order code")
	}

	fee := p.DeliveryFee(subtotal)
	return &types.Order{
		ID:            code,
		CustomerPhone: phone,
		Items:         snapshot,
		Subtotal:      subtotal,
		DeliveryFee:   fee,
		Total:         subtotal.Add(fee),
		Status:        enums.OrderStatusPending,
		CreatedAt:     time.Now().UTC(),
	}, nil
}
