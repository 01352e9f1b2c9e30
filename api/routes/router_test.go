package routes

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillnotes/skillnotes-backend/internal/cart"
	"github.com/skillnotes/skillnotes-backend/internal/catalog"
	"github.com/skillnotes/skillnotes-backend/internal/checkout"
	"github.com/skillnotes/skillnotes-backend/internal/coupons"
	"github.com/skillnotes/skillnotes-backend/internal/notifications"
	"github.com/skillnotes/skillnotes-backend/internal/storage"
	pkgAuth "github.com/skillnotes/skillnotes-backend/pkg/auth"
	"github.com/skillnotes/skillnotes-backend/pkg/config"
	"github.com/skillnotes/skillnotes-backend/pkg/logger"
	"github.com/skillnotes/skillnotes-backend/pkg/metrics"
)

type testServer struct {
	handler http.Handler
	backend *storage.Memory
	cfg     *config.Config
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	ctx := context.Background()

	cfg := &config.Config{}
	cfg.App.Env = config.AppEnvDev
	cfg.App.RequireAuth = true
	cfg.Storage.Driver = "memory"
	cfg.JWT = config.JWTConfig{Secret: "test-secret", Issuer: "skillnotes"}
	cfg.Metrics.Enabled = true

	reg := prometheus.NewRegistry()
	cartMetrics := metrics.NewCartMetrics(reg)
	backend := storage.NewMemory()

	store, err := cart.NewStore(ctx, cart.Params{Storage: backend, Metrics: cartMetrics})
	require.NoError(t, err)
	products, err := catalog.Default()
	require.NoError(t, err)
	calc, err := checkout.NewCalculator(checkout.Params{
		Cart:     store,
		Coupons:  coupons.Builtin(),
		Notifier: notifications.NewContextNotifier(nil),
		Metrics:  cartMetrics,
	})
	require.NoError(t, err)

	handler := NewRouter(cfg, logger.Nop(), Deps{
		Storage:    backend,
		Cart:       store,
		Calculator: calc,
		Catalog:    products,
		Gatherer:   reg,
	})
	return testServer{handler: handler, backend: backend, cfg: cfg}
}

func (s testServer) do(t *testing.T, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp := httptest.NewRecorder()
	s.handler.ServeHTTP(resp, req)
	return resp
}

func (s testServer) bearer(t *testing.T) []string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(s.cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{UserID: "student-1"})
	require.NoError(t, err)
	return []string{"Authorization", "Bearer " + token}
}

type envelope struct {
	Data          map[string]any   `json:"data"`
	Notifications []map[string]any `json:"notifications"`
	Error         struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, resp *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env), resp.Body.String())
	return env
}

func TestHealthRoutes(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "dev", resp.Header().Get("X-SkillNotes-Env"))

	resp = s.do(t, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "memory", decode(t, resp).Data["storage"])
}

func TestCartFlowThroughRouter(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodPost, "/api/v1/cart/items/1", "")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	env := decode(t, resp)
	assert.Equal(t, float64(1), env.Data["item_count"])
	assert.Equal(t, "299", env.Data["subtotal"])
	require.Len(t, env.Notifications, 1)
	assert.Equal(t, "Added to cart!", env.Notifications[0]["message"])

	body := `{"id": 77, "title": "Compiler Design Notes", "price": 201, "category": "PDF", "fileType": "pdf"}`
	resp = s.do(t, http.MethodPost, "/api/v1/cart/items", body)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, "500", decode(t, resp).Data["subtotal"])

	resp = s.do(t, http.MethodPost, "/api/v1/cart/coupon", `{"code":"save20"}`)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	env = decode(t, resp)
	assert.Equal(t, "100", env.Data["discount"])
	assert.Equal(t, "400", env.Data["total"])
	coupon := env.Data["coupon"].(map[string]any)
	assert.Equal(t, "SAVE20", coupon["code"])
	assert.Equal(t, "20%", coupon["label"])

	resp = s.do(t, http.MethodGet, "/api/v1/products/77", "")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = s.do(t, http.MethodGet, "/api/v1/products/1", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, true, decode(t, resp).Data["in_cart"])

	resp = s.do(t, http.MethodPost, "/api/v1/checkout", "", s.bearer(t)...)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	env = decode(t, resp)
	assert.Equal(t, float64(2), env.Data["item_count"])
	assert.Equal(t, "400", env.Data["total"])
	require.Len(t, env.Notifications, 1)
	assert.Equal(t, "Purchase completed!", env.Notifications[0]["message"])

	resp = s.do(t, http.MethodGet, "/api/v1/cart", "")
	env = decode(t, resp)
	assert.Equal(t, float64(0), env.Data["item_count"])
	assert.Nil(t, env.Data["coupon"])

	resp = s.do(t, http.MethodGet, "/api/v1/purchases", "", s.bearer(t)...)
	require.Equal(t, http.StatusOK, resp.Code)
	summary := decode(t, resp).Data["summary"].(map[string]any)
	assert.Equal(t, float64(2), summary["count"])
	assert.Equal(t, "500", summary["total"])

	resp = s.do(t, http.MethodGet, "/api/v1/products/1", "")
	assert.Equal(t, true, decode(t, resp).Data["purchased"])
}

func TestCouponRejectionsMapToValidationErrors(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/v1/cart/items/1", "").Code)

	cases := []struct {
		code    string
		reason  string
		message string
	}{
		{code: "  ", reason: "empty_code", message: "Please enter a coupon code"},
		{code: "NOTREAL", reason: "invalid_code", message: "Invalid coupon code"},
		{code: "SAVE20", reason: "minimum_order_not_met", message: "Minimum order value of ₹500 required for this coupon"},
	}
	for _, tc := range cases {
		resp := s.do(t, http.MethodPost, "/api/v1/cart/coupon", `{"code":"`+tc.code+`"}`)
		require.Equal(t, http.StatusBadRequest, resp.Code, tc.code)
		env := decode(t, resp)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
		assert.Equal(t, tc.message, env.Error.Message)
		assert.Equal(t, tc.reason, env.Error.Details["reason"])
		require.Len(t, env.Notifications, 1)
		assert.Equal(t, "error", env.Notifications[0]["kind"])
	}
}

func TestCheckoutRequiresAuth(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodPost, "/api/v1/checkout", "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = s.do(t, http.MethodGet, "/api/v1/purchases", "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestCheckoutStorageFailure(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/v1/cart/items/2", "").Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/v1/cart/coupon", `{"code":"FLAT50"}`).Code)

	s.backend.FailWith(errors.New("disk full"))
	resp := s.do(t, http.MethodPost, "/api/v1/checkout", "", s.bearer(t)...)
	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
	env := decode(t, resp)
	assert.Equal(t, "DEPENDENCY_ERROR", env.Error.Code)
	require.Len(t, env.Notifications, 1)
	assert.Equal(t, "Purchase failed", env.Notifications[0]["message"])

	s.backend.FailWith(nil)
	env = decode(t, s.do(t, http.MethodGet, "/api/v1/cart", ""))
	assert.Equal(t, float64(1), env.Data["item_count"])
	assert.NotNil(t, env.Data["coupon"])
}

func TestAddItemValidation(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodPost, "/api/v1/cart/items", `{"title":"x","price":-1}`)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	details := decode(t, resp).Error.Details
	assert.Contains(t, details, "id")
	assert.Contains(t, details, "price")

	resp = s.do(t, http.MethodPost, "/api/v1/cart/items", `{"id":"1","title":"x","price":1,"bogus":true}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestRemoveItemAndClear(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/v1/cart/items/1", "").Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/v1/cart/items/2", "").Code)

	resp := s.do(t, http.MethodDelete, "/api/v1/cart/items/1", "")
	require.Equal(t, http.StatusOK, resp.Code)
	env := decode(t, resp)
	assert.Equal(t, float64(1), env.Data["item_count"])
	assert.Equal(t, "Removed from cart", env.Notifications[0]["message"])

	resp = s.do(t, http.MethodDelete, "/api/v1/cart", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, float64(0), decode(t, resp).Data["item_count"])
}

func TestProductsListFilters(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodGet, "/api/v1/products?category=pdf", "")
	require.Equal(t, http.StatusOK, resp.Code)
	var body struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Len(t, body.Data, 2)

	resp = s.do(t, http.MethodGet, "/api/v1/products?min_price=abc", "")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/v1/cart/items/1", "").Code)

	resp := s.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `cart_mutations_total{op="add",result="ok"} 1`)
}
