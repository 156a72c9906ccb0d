package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/hamadpass/khodarji-backend/api/middleware"
	"github.com/hamadpass/khodarji-backend/api/responses"
	"github.com/hamadpass/khodarji-backend/api/validators"
	"github.com/hamadpass/khodarji-backend/internal/session"
	"github.com/hamadpass/khodarji-backend/pkg/enums"
	pkgerrors "github.com/hamadpass/khodarji-backend/pkg/errors"
	"github.com/hamadpass/khodarji-backend/pkg/logger"
	"github.com/hamadpass/khodarji-backend/pkg/types"
)

type identifyRequest struct {
	Phone string `json:"phone" validate:"required"`
}

type viewRequest struct {
	View string `json:"view" validate:"required"`
}

type cartTotals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	Total       decimal.Decimal `json:"total"`
}

type sessionStateResponse struct {
	User     *types.User          `json:"user"`
	Cart     []types.CartItem     `json:"cart"`
	Orders   []types.Order        `json:"orders"`
	CartOpen bool                 `json:"cartOpen"`
	View     enums.StorefrontView `json:"view"`
	Totals   cartTotals           `json:"totals"`
}

func stateResponse(sess *session.Session) sessionStateResponse {
	state := sess.Snapshot()
	subtotal, fee, total := sess.Totals()
	return sessionStateResponse{
		User:     state.User,
		Cart:     state.Cart,
		Orders:   state.Orders,
		CartOpen: state.CartOpen,
		View:     state.View,
		Totals:   cartTotals{Subtotal: subtotal, DeliveryFee: fee, Total: total},
	}
}

func resolveSession(manager *session.Manager, r *http.Request) (*session.Session, error) {
	id := middleware.SessionIDFromContext(r.Context())
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session missing from request context")
	}
	return manager.Session(r.Context(), id), nil
}

// SessionState returns the full storefront state for the caller's session.
func SessionState(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := resolveSession(manager, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stateResponse(sess))
	}
}

// SessionIdentify binds a phone number to the session, creating the user on
// first contact.
func SessionIdentify(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body identifyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, err := resolveSession(manager, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := sess.Identify(r.Context(), body.Phone); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stateResponse(sess))
	}
}

// SessionLogout unbinds the user, keeping the cart.
func SessionLogout(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := resolveSession(manager, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := sess.Logout(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stateResponse(sess))
	}
}

// SessionView switches the active storefront section.
func SessionView(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body viewRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, err := resolveSession(manager, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := sess.SetView(enums.StorefrontView(body.View)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stateResponse(sess))
	}
}
