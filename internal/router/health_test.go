package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eatery/internal/assistant"
	"eatery/internal/auth"
	"eatery/internal/cart"
	"eatery/internal/config"
	"eatery/internal/menu"
	"eatery/internal/middleware"
	"eatery/internal/order"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type zeroEmbedder struct{}

func (zeroEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{0, 0, 1}, nil
}

func newTestDependencies(t *testing.T) (Dependencies, *auth.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	menus := menu.NewInMemoryRepository()
	cartRepo := cart.NewInMemoryRepository(menus)
	carts := cart.NewService(cartRepo, menus)
	orders := order.NewService(order.NewInMemoryRepository(cartRepo), cartRepo, nil)
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	cfg := config.DefaultAssistant()
	engine := assistant.NewEngine(nil, zeroEmbedder{}, menus, assistant.NewDispatcher(carts, orders), cfg)

	return Dependencies{
		Auth:        auth.NewHandler(auth.NewService(auth.NewInMemoryUserRepository()), tokens, ""),
		Tokens:      tokens,
		Menus:       menu.NewHandler(menu.NewService(menus, zeroEmbedder{}, nil)),
		Carts:       cart.NewHandler(carts),
		Orders:      order.NewHandler(orders, order.NewQRGenerator("https://eatery.example")),
		Assistant:   assistant.NewHandler(assistant.NewService(engine, zeroEmbedder{}, menus, cfg)),
		CORSOrigins: []string{"http://localhost:3000"},
	}, tokens
}

func serve(r http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	d, _ := newTestDependencies(t)
	r := New(d)

	w := serve(r, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthCheckReportsStoreFailure(t *testing.T) {
	d, _ := newTestDependencies(t)
	d.Ping = func(ctx context.Context) error { return errors.New("connection refused") }
	r := New(d)

	w := serve(r, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestStaffRoutesRequireToken(t *testing.T) {
	d, tokens := newTestDependencies(t)
	r := New(d)

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodPost, "/menus/embeddings", nil).Code)

	token, err := tokens.Generate(&auth.User{ID: "staff-1", Role: auth.RoleStaff})
	require.NoError(t, err)
	w := serve(r, http.MethodPost, "/menus/embeddings", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestSessionRoutesRequireHeader(t *testing.T) {
	d, _ := newTestDependencies(t)
	r := New(d)

	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodGet, "/cart", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/cart", map[string]string{middleware.SessionHeader: "s1"}).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/menus", nil).Code)
}
