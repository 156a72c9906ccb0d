package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hamadpass/khodarji-backend/api/middleware"
	"github.com/hamadpass/khodarji-backend/api/responses"
	"github.com/hamadpass/khodarji-backend/api/validators"
	"github.com/hamadpass/khodarji-backend/internal/orders"
	"github.com/hamadpass/khodarji-backend/internal/session"
	"github.com/hamadpass/khodarji-backend/pkg/enums"
	pkgerrors "github.com/hamadpass/khodarji-backend/pkg/errors"
	"github.com/hamadpass/khodarji-backend/pkg/logger"
	"github.com/hamadpass/khodarji-backend/pkg/pagination"
	"github.com/hamadpass/khodarji-backend/pkg/types"
)

type createOrderRequest struct {
	Phone string `json:"phone"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ListOrders returns the caller's order history. Admins see every order.
func ListOrders(manager *session.Manager, svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := resolveSession(manager, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		phone := ""
		if middleware.RoleFromContext(r.Context()) != enums.UserRoleAdmin.String() {
			state := sess.Snapshot()
			if state.User == nil {
				responses.WriteSuccess(w, []types.Order{})
				return
			}
			phone = state.User.Phone
		}

		params := pagination.Params{Cursor: r.URL.Query().Get("cursor")}
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, convErr := strconv.Atoi(raw)
			if convErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "limit must be an integer"))
				return
			}
			params.Limit = limit
		}

		page, next, err := svc.Page(r.Context(), phone, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if next != "" {
			w.Header().Set("X-Next-Cursor", next)
		}
		responses.WriteSuccess(w, page)
	}
}

// CreateOrder runs checkout for the session cart. Supplying a phone
// identifies the session (or switches it when the phone differs); leaving it
// blank keeps the current user.
func CreateOrder(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, err := resolveSession(manager, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := sess.PlaceOrder(r.Context(), body.Phone)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// UpdateOrderStatus advances an order along its lifecycle.
func UpdateOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.UpdateStatus(r.Context(), chi.URLParam(r, "orderId"), body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
