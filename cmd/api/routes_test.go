// AngelaMos | 2026
// routes_test.go

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/storefront/internal/admin"
	"github.com/carterperez-dev/storefront/internal/auth"
	"github.com/carterperez-dev/storefront/internal/cart"
	"github.com/carterperez-dev/storefront/internal/config"
	"github.com/carterperez-dev/storefront/internal/events"
	"github.com/carterperez-dev/storefront/internal/health"
	"github.com/carterperez-dev/storefront/internal/product"
	"github.com/carterperez-dev/storefront/internal/user"
)

type testApp struct {
	router http.Handler
	users  *user.Service
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := &config.Config{
		App: config.AppConfig{Name: "storefront", Environment: "test"},
		JWT: config.JWTConfig{
			Secret:      "0123456789abcdef0123456789abcdef",
			TokenExpire: time.Hour,
			Issuer:      "storefront",
			Audience:    "storefront-api",
		},
		Cookie: config.CookieConfig{Name: "token"},
		RateLimit: config.RateLimitConfig{
			Requests:     1000,
			Burst:        1000,
			Window:       time.Minute,
			AuthRequests: 1000,
			AuthBurst:    1000,
		},
		Media: config.MediaConfig{MaxUploadBytes: 1 << 20},
	}

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	require.NoError(t, err)

	store := newMemoryStore()
	userSvc := user.NewService(userRepo{store}, events.NopPublisher{})
	productSvc := product.NewService(productRepo{store})
	cartSvc := cart.NewService(cartRepo{store})

	a := &app{
		cfg:      cfg,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		auth:     auth.NewService(jwtManager, userSvc, nil, denylist{store}),
		users:    userSvc,
		products: productSvc,
		carts:    cartSvc,
		health:   health.NewHandler(),
		admin: admin.NewHandler(admin.HandlerConfig{
			Accounts: userSvc,
			Products: productSvc,
			Carts:    cartSvc,
		}),
	}

	router := chi.NewRouter()
	a.routes(router)

	return &testApp{router: router, users: userSvc}
}

func (ta *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ta.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func (ta *testApp) signup(t *testing.T, name, email string) auth.AuthResponse {
	t.Helper()

	rec := ta.do(t, http.MethodPost, "/api/v1/users/signup", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "123456",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[auth.AuthResponse](t, rec)
	require.NotEmpty(t, resp.ID)
	require.NotEmpty(t, resp.Token)
	return resp
}

func TestShoppingFlow(t *testing.T) {
	ta := newTestApp(t)

	shopper := ta.signup(t, "fprefect", "ford@betelgeuse.example")
	assert.Equal(t, user.RoleUser, shopper.Role)

	rec := ta.do(t, http.MethodGet, "/api/v1/cart", shopper.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"products":[]`)
	assert.Equal(t, shopper.ID, decode[cart.CartResponse](t, rec).User)

	owner := ta.signup(t, "zbeeblebrox", "zaphod@heartofgold.example")
	_, err := ta.users.Promote(context.Background(), owner.Email)
	require.NoError(t, err)

	towel := map[string]any{
		"name":        "Towel",
		"description": "The most massively useful thing an interstellar hitchhiker can have",
		"categories":  []string{"essentials"},
		"size":        "L",
		"price":       42,
		"mediaUrl":    "https://cdn.example.com/towel.png",
	}

	rec = ta.do(t, http.MethodPost, "/api/v1/products", shopper.Token, towel)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ta.do(t, http.MethodPost, "/api/v1/products", owner.Token, towel)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[product.ProductResponse](t, rec)

	rec = ta.do(t, http.MethodPut, "/api/v1/cart", shopper.Token,
		map[string]any{"productId": created.ID, "qty": 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ta.do(t, http.MethodPut, "/api/v1/cart", shopper.Token,
		map[string]any{"productId": created.ID, "qty": 2})
	require.Equal(t, http.StatusOK, rec.Code)

	c := decode[cart.CartResponse](t, rec)
	require.Len(t, c.Products, 1)
	assert.Equal(t, created.ID, c.Products[0].Product.ID)
	assert.Equal(t, 5, c.Products[0].Quantity)

	rec = ta.do(t, http.MethodGet, "/api/v1/products?page=1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[product.CatalogPage](t, rec)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 1, page.TotalPages)

	rec = ta.do(t, http.MethodGet, "/api/v1/cart/all", owner.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]cart.CartResponse](t, rec), 2)

	rec = ta.do(t, http.MethodDelete, "/api/v1/cart", shopper.Token,
		map[string]string{"productId": created.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[cart.CartResponse](t, rec).Products)
}

func TestBannedAccountLosesAccess(t *testing.T) {
	ta := newTestApp(t)

	shopper := ta.signup(t, "adent", "arthur@earth.example")
	owner := ta.signup(t, "trillian", "tricia@heartofgold.example")
	_, err := ta.users.Promote(context.Background(), owner.Email)
	require.NoError(t, err)

	rec := ta.do(t, http.MethodPost, "/api/v1/users/"+shopper.ID+"/ban-user", owner.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ta.do(t, http.MethodGet, "/api/v1/cart", shopper.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ta.do(t, http.MethodPost, "/api/v1/users/login", "", map[string]string{
		"email":    shopper.Email,
		"password": "123456",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestEmailsMatchExactly(t *testing.T) {
	ta := newTestApp(t)

	upper := ta.signup(t, "fprefect", "Ford@Example.com")
	lower := ta.signup(t, "ford", "ford@example.com")
	assert.NotEqual(t, upper.ID, lower.ID)
	assert.Equal(t, "Ford@Example.com", upper.Email)

	rec := ta.do(t, http.MethodPost, "/api/v1/users/login", "", map[string]string{
		"email":    "FORD@EXAMPLE.COM",
		"password": "123456",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ta.do(t, http.MethodPost, "/api/v1/users/login", "", map[string]string{
		"email":    "Ford@Example.com",
		"password": "123456",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, upper.ID, decode[auth.AuthResponse](t, rec).ID)
}

func TestSignupWithoutDisplayName(t *testing.T) {
	ta := newTestApp(t)

	rec := ta.do(t, http.MethodPost, "/api/v1/users/signup", "", map[string]string{
		"email":    "slartibartfast@magrathea.example",
		"password": "123456",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[auth.AuthResponse](t, rec)
	assert.Empty(t, resp.UserName)
	assert.Equal(t, "slartibartfast@magrathea.example", resp.Email)
}

func TestLogoutRevokesToken(t *testing.T) {
	ta := newTestApp(t)
	shopper := ta.signup(t, "marvin", "marvin@heartofgold.example")

	rec := ta.do(t, http.MethodGet, "/api/v1/auth/logout", shopper.Token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = ta.do(t, http.MethodGet, "/api/v1/cart", shopper.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPublicSurface(t *testing.T) {
	ta := newTestApp(t)

	tests := []struct {
		name     string
		method   string
		path     string
		wantCode int
	}{
		{"liveness", http.MethodGet, "/healthz", http.StatusOK},
		{"readiness without dependencies", http.MethodGet, "/readyz", http.StatusOK},
		{"empty catalog", http.MethodGet, "/api/v1/products", http.StatusOK},
		{"page past the end", http.MethodGet, "/api/v1/products?page=2", http.StatusBadRequest},
		{"cart requires token", http.MethodGet, "/api/v1/cart", http.StatusUnauthorized},
		{"admin requires token", http.MethodGet, "/api/v1/admin/stats", http.StatusUnauthorized},
		{"unknown product", http.MethodGet, "/api/v1/products/not-a-uuid", http.StatusNotFound},
		{"logout without token", http.MethodGet, "/api/v1/auth/logout", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ta.do(t, tt.method, tt.path, "", nil)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
		})
	}
}
