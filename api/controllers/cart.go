package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/hamadpass/khodarji-backend/api/responses"
	"github.com/hamadpass/khodarji-backend/api/validators"
	"github.com/hamadpass/khodarji-backend/internal/catalog"
	"github.com/hamadpass/khodarji-backend/internal/session"
	pkgerrors "github.com/hamadpass/khodarji-backend/pkg/errors"
	"github.com/hamadpass/khodarji-backend/pkg/logger"
	"github.com/hamadpass/khodarji-backend/pkg/types"
)

type addCartItemRequest struct {
	ProductID string          `json:"productId" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity decimal.Decimal `json:"quantity" validate:"required"`
}

type cartPanelRequest struct {
	Open bool `json:"open"`
}

type cartResponse struct {
	Cart   []types.CartItem `json:"cart"`
	Totals cartTotals       `json:"totals"`
}

func cartPayload(sess *session.Session, items []types.CartItem) cartResponse {
	subtotal, fee, total := sess.Totals()
	return cartResponse{
		Cart:   items,
		Totals: cartTotals{Subtotal: subtotal, DeliveryFee: fee, Total: total},
	}
}

// AddCartItem resolves the product from the catalog and merges it into the
// session cart.
func AddCartItem(manager *session.Manager, catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body addCartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quantity := body.Quantity
		if quantity.IsZero() {
			quantity = decimal.NewFromInt(1)
		}

		products, err := catalogSvc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var product *types.Product
		for i := range products {
			if products[i].ID == body.ProductID {
				product = &products[i]
				break
			}
		}
		if product == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}

		sess, err := resolveSession(manager, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := sess.AddToCart(r.Context(), *product, quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartPayload(sess, cart))
	}
}

// UpdateCartItem sets a line's quantity, clamped to the store minimum.
func UpdateCartItem(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, err := resolveSession(manager, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := sess.UpdateQuantity(r.Context(), chi.URLParam(r, "productId"), body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartPayload(sess, cart))
	}
}

// RemoveCartItem drops a line from the cart.
func RemoveCartItem(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := resolveSession(manager, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := sess.RemoveFromCart(r.Context(), chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartPayload(sess, cart))
	}
}

// CartPanel opens or closes the cart drawer.
func CartPanel(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body cartPanelRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, err := resolveSession(manager, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess.SetCartOpen(body.Open)
		responses.WriteSuccess(w, map[string]bool{"cartOpen": body.Open})
	}
}
