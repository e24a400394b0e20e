package order

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"eatery/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupOrderTestRouter(t *testing.T) (*gin.Engine, *fixture) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := newFixture(t, nil)
	h := NewHandler(f.orders, NewQRGenerator("https://eatery.example"))

	r := gin.New()
	session := r.Group("", middleware.RequireSession())
	session.POST("/cart/checkout", h.Checkout)
	session.GET("/orders", h.List)
	r.GET("/orders/:order_number", h.Get)
	r.GET("/orders/:order_number/qr", h.QRCode)
	r.PATCH("/orders/:order_number/status", h.UpdateStatus)
	return r, f
}

func call(r http.Handler, method, path, session string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.Header.Set(middleware.SessionHeader, session)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCheckoutEndpoint(t *testing.T) {
	r, f := setupOrderTestRouter(t)

	w := call(r, http.MethodPost, "/cart/checkout", "s1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Cart is empty")

	_, err := f.carts.Add(context.Background(), "s1", 1, 1, nil)
	require.NoError(t, err)

	w = call(r, http.MethodPost, "/cart/checkout", "s1", map[string]any{"customer_name": "Budi"})
	require.Equal(t, http.StatusCreated, w.Code)

	var body struct {
		Message string `json:"message"`
		Data    Order  `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Order created successfully", body.Message)
	assert.Equal(t, "Budi", *body.Data.CustomerName)

	w = call(r, http.MethodGet, "/orders/"+body.Data.OrderNumber, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = call(r, http.MethodGet, "/orders", "s1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), body.Data.OrderNumber)

	w = call(r, http.MethodGet, "/orders/"+body.Data.OrderNumber+"/qr", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	w = call(r, http.MethodPatch, "/orders/"+body.Data.OrderNumber+"/status", "", map[string]any{"status": "ready"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	w = call(r, http.MethodPatch, "/orders/"+body.Data.OrderNumber+"/status", "", map[string]any{"status": "preparing"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetUnknownOrder(t *testing.T) {
	r, _ := setupOrderTestRouter(t)

	w := call(r, http.MethodGet, "/orders/ORD-00000000-000000", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Order not found")

	w = call(r, http.MethodGet, "/orders/ORD-00000000-000000/qr", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
