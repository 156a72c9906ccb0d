package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/hamadpass/khodarji-backend/internal/assistant"
	"github.com/hamadpass/khodarji-backend/internal/catalog"
	"github.com/hamadpass/khodarji-backend/internal/orders"
	"github.com/hamadpass/khodarji-backend/internal/session"
	"github.com/hamadpass/khodarji-backend/internal/storage"
	"github.com/hamadpass/khodarji-backend/internal/users"
	"github.com/hamadpass/khodarji-backend/pkg/config"
	"github.com/hamadpass/khodarji-backend/pkg/db"
	"github.com/hamadpass/khodarji-backend/pkg/latency"
	"github.com/hamadpass/khodarji-backend/pkg/logger"
)

const tokenHeader = "X-Khodarji-Token"

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev", Port: "8080"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "khodarji",
			ExpirationMinutes: 60,
		},
		Checkout: config.CheckoutConfig{FreeDeliveryThreshold: "20", DeliveryFee: "2"},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	client, err := db.New(context.Background(), config.DBConfig{
		DSN:    "file::memory:",
		Driver: config.DBDriverSQLite,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.DB().AutoMigrate(&storage.Record{}))

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	store := storage.New(client, nil)
	sim := latency.NewSimulator(0)

	usersSvc, err := users.NewService(store, sim)
	require.NoError(t, err)
	catalogSvc, err := catalog.NewService(store, sim, nil)
	require.NoError(t, err)
	pricing, err := orders.NewPricing(config.CheckoutConfig{FreeDeliveryThreshold: "20", DeliveryFee: "2"})
	require.NoError(t, err)
	ordersSvc, err := orders.NewService(store, pricing, sim, nil)
	require.NoError(t, err)
	manager, err := session.NewManager(store, usersSvc, ordersSvc, pricing, nil)
	require.NoError(t, err)

	return NewRouter(Deps{
		Config:         testConfig(),
		Logger:         logg,
		DB:             client,
		SessionManager: manager,
		Catalog:        catalogSvc,
		Orders:         ordersSvc,
		Assistant:      assistant.NewService(config.AssistantConfig{}),
	})
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(tokenHeader, token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var envelope map[string]json.RawMessage
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope), "body: %s", rec.Body.String())
	}
	return rec, envelope
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodGet, "/health/live", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "dev", rec.Header().Get("X-Khodarji-Env"))
}

func TestHealthReadyChecksDatabase(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodGet, "/health/ready", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionTokenMintedOnFirstContact(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodGet, "/api/v1/session", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get(tokenHeader))
}

func TestSessionTokenIsStableAcrossRequests(t *testing.T) {
	router := newTestRouter(t)

	first, _ := doJSON(t, router, http.MethodGet, "/api/v1/session", "", nil)
	token := first.Header().Get(tokenHeader)

	second, _ := doJSON(t, router, http.MethodGet, "/api/v1/session", token, nil)
	require.Equal(t, token, second.Header().Get(tokenHeader))
}

func TestListProductsSeedsCatalog(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doJSON(t, router, http.MethodGet, "/api/v1/products/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var products []map[string]any
	require.NoError(t, json.Unmarshal(envelope["data"], &products))
	require.Len(t, products, 30)
}

func TestListProductsFilters(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doJSON(t, router, http.MethodGet, "/api/v1/products/?category=fruits", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var products []map[string]any
	require.NoError(t, json.Unmarshal(envelope["data"], &products))
	require.NotEmpty(t, products)
	for _, p := range products {
		require.Equal(t, "fruits", p["category"])
	}

	rec, envelope = doJSON(t, router, http.MethodGet, "/api/v1/products/?q=tomato", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(envelope["data"], &products))
	require.NotEmpty(t, products)

	rec, _ = doJSON(t, router, http.MethodGet, "/api/v1/products/?category=dairy", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartAndCheckoutFlow(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodGet, "/api/v1/session", "", nil)
	token := rec.Header().Get(tokenHeader)
	require.NotEmpty(t, token)

	rec, envelope := doJSON(t, router, http.MethodPost, "/api/v1/cart/items", token,
		map[string]any{"productId": "v1", "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code, "add to cart")

	var cartData struct {
		Cart   []map[string]any       `json:"cart"`
		Totals map[string]json.Number `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(envelope["data"], &cartData))
	require.Len(t, cartData.Cart, 1)
	subtotal, err := decimal.NewFromString(cartData.Totals["subtotal"].String())
	require.NoError(t, err)
	require.True(t, subtotal.Equal(decimal.RequireFromString("1.3")), "subtotal %s", subtotal)

	rec, envelope = doJSON(t, router, http.MethodPost, "/api/v1/orders/", token,
		map[string]any{"phone": "791234567"})
	require.Equal(t, http.StatusCreated, rec.Code, "place order")

	var order map[string]any
	require.NoError(t, json.Unmarshal(envelope["data"], &order))
	require.Equal(t, "pending", order["status"])
	require.Equal(t, "791234567", order["customerPhone"])

	// The cart is cleared and the order shows in session state.
	rec, envelope = doJSON(t, router, http.MethodGet, "/api/v1/session", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var state struct {
		Cart   []map[string]any `json:"cart"`
		Orders []map[string]any `json:"orders"`
		View   string           `json:"view"`
	}
	require.NoError(t, json.Unmarshal(envelope["data"], &state))
	require.Empty(t, state.Cart)
	require.Len(t, state.Orders, 1)
	require.Equal(t, "orders", state.View)
}

func TestOrderWithEmptyCartRejected(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodGet, "/api/v1/session", "", nil)
	token := rec.Header().Get(tokenHeader)

	rec, _ = doJSON(t, router, http.MethodPost, "/api/v1/orders/", token,
		map[string]any{"phone": "791234567"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductMutationsRequireAdmin(t *testing.T) {
	router := newTestRouter(t)

	// Anonymous session.
	rec, _ := doJSON(t, router, http.MethodGet, "/api/v1/session", "", nil)
	token := rec.Header().Get(tokenHeader)

	body := map[string]any{
		"id":       "x1",
		"name":     map[string]string{"en": "Figs", "ar": "تين"},
		"category": "fruits",
		"price":    3.25,
		"unit":     "KG",
	}
	rec, _ = doJSON(t, router, http.MethodPost, "/api/v1/products/", token, body)
	require.Equal(t, http.StatusUnauthorized, rec.Code, "anonymous")

	// First identified user becomes admin.
	rec, _ = doJSON(t, router, http.MethodPost, "/api/v1/session/identify", token,
		map[string]string{"phone": "791234567"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, router, http.MethodPost, "/api/v1/products/", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, "admin create")

	// A later user is a plain customer and is rejected.
	rec, _ = doJSON(t, router, http.MethodGet, "/api/v1/session", "", nil)
	customerToken := rec.Header().Get(tokenHeader)
	rec, _ = doJSON(t, router, http.MethodPost, "/api/v1/session/identify", customerToken,
		map[string]string{"phone": "790000001"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, router, http.MethodPost, "/api/v1/products/", customerToken, body)
	require.Equal(t, http.StatusForbidden, rec.Code, "customer create")
}

func TestOrderStatusTransitions(t *testing.T) {
	router := newTestRouter(t)

	// Admin session with an order.
	rec, _ := doJSON(t, router, http.MethodGet, "/api/v1/session", "", nil)
	token := rec.Header().Get(tokenHeader)
	rec, _ = doJSON(t, router, http.MethodPost, "/api/v1/session/identify", token,
		map[string]string{"phone": "791234567"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, router, http.MethodPost, "/api/v1/cart/items", token,
		map[string]any{"productId": "v1", "quantity": 1})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, envelope := doJSON(t, router, http.MethodPost, "/api/v1/orders/", token, map[string]any{})
	require.Equal(t, http.StatusCreated, rec.Code)
	var order struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(envelope["data"], &order))

	rec, _ = doJSON(t, router, http.MethodPatch, "/api/v1/orders/"+order.ID+"/status", token,
		map[string]string{"status": "processing"})
	require.Equal(t, http.StatusOK, rec.Code)

	// Moving back to pending is not a legal transition.
	rec, _ = doJSON(t, router, http.MethodPatch, "/api/v1/orders/"+order.ID+"/status", token,
		map[string]string{"status": "pending"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAssistantDisabledWithoutKey(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodGet, "/api/v1/session", "", nil)
	token := rec.Header().Get(tokenHeader)

	rec, _ = doJSON(t, router, http.MethodPost, "/api/v1/assistant/chat", token,
		map[string]string{"message": "hello"})
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUnknownProductAddRejected(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodGet, "/api/v1/session", "", nil)
	token := rec.Header().Get(tokenHeader)

	rec, _ = doJSON(t, router, http.MethodPost, "/api/v1/cart/items", token,
		map[string]any{"productId": "nope", "quantity": 1})
	require.Equal(t, http.StatusNotFound, rec.Code)
}
