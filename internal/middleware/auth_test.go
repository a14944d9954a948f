// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/storefront/internal/core"
)

type stubVerifier struct {
	tokens map[string]string
	err    error
}

func (s stubVerifier) VerifyAccessToken(
	_ context.Context,
	token string,
) (*AccessTokenClaims, error) {
	if s.err != nil {
		return nil, s.err
	}
	id, ok := s.tokens[token]
	if !ok {
		return nil, fmt.Errorf("verify: %w", core.ErrTokenInvalid)
	}
	return &AccessTokenClaims{UserID: id, TokenID: "jti-" + id}, nil
}

type stubResolver map[string]*Principal

func (s stubResolver) ResolveAccount(
	_ context.Context,
	id string,
) (*Principal, error) {
	p, ok := s[id]
	if !ok {
		return nil, fmt.Errorf("resolve: %w", core.ErrNotFound)
	}
	return p, nil
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	core.OK(w, map[string]string{"user": GetUserID(r.Context())})
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body core.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error.Code
}

func TestAuthenticator(t *testing.T) {
	verifier := stubVerifier{tokens: map[string]string{
		"tok-user":   "u1",
		"tok-banned": "u2",
		"tok-ghost":  "u3",
	}}
	resolver := stubResolver{
		"u1": {ID: "u1", Role: "user"},
		"u2": {ID: "u2", Role: "user", IsBanned: true},
	}
	handler := Authenticator(verifier, resolver, "token")(http.HandlerFunc(okHandler))

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
		code   string
	}{
		{
			name:   "missing token",
			setup:  func(*http.Request) {},
			status: http.StatusUnauthorized,
			code:   core.CodeUnauthorized,
		},
		{
			name: "bearer header",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer tok-user")
			},
			status: http.StatusOK,
		},
		{
			name: "cookie",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "token", Value: "tok-user"})
			},
			status: http.StatusOK,
		},
		{
			name: "cookie wins over header",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "token", Value: "garbage"})
				r.Header.Set("Authorization", "Bearer tok-user")
			},
			status: http.StatusUnauthorized,
			code:   core.CodeTokenInvalid,
		},
		{
			name: "invalid token",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer nope")
			},
			status: http.StatusUnauthorized,
			code:   core.CodeTokenInvalid,
		},
		{
			name: "banned account",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer tok-banned")
			},
			status: http.StatusForbidden,
			code:   core.CodeAccountBanned,
		},
		{
			name: "deleted account",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer tok-ghost")
			},
			status: http.StatusUnauthorized,
			code:   core.CodeUnauthorized,
		},
		{
			name: "wrong scheme",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Basic tok-user")
			},
			status: http.StatusUnauthorized,
			code:   core.CodeUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/cart", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.code != "" {
				assert.Equal(t, tt.code, errorCode(t, rec))
			}
		})
	}
}

func TestAuthenticatorExpiredToken(t *testing.T) {
	verifier := stubVerifier{err: fmt.Errorf("verify: %w", core.ErrTokenExpired)}
	handler := Authenticator(verifier, stubResolver{}, "")(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer x")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, core.CodeTokenExpired, errorCode(t, rec))
}

func TestRequireRole(t *testing.T) {
	handler := RequireAdmin(http.HandlerFunc(okHandler))

	tests := []struct {
		name      string
		principal *Principal
		status    int
	}{
		{"no identity", nil, http.StatusUnauthorized},
		{"user", &Principal{ID: "u1", Role: "user"}, http.StatusForbidden},
		{"admin", &Principal{ID: "a1", Role: "admin"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/cart/all", nil)
			if tt.principal != nil {
				req = req.WithContext(WithPrincipal(req.Context(), tt.principal))
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestOptionalAuthNeverRejects(t *testing.T) {
	verifier := stubVerifier{tokens: map[string]string{"good": "u1"}}
	var seen *AccessTokenClaims
	handler := OptionalAuth(verifier, "token")(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			seen = GetClaims(r.Context())
			w.WriteHeader(http.StatusNoContent)
		},
	))

	req := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Nil(t, seen)

	req = httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "good"})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.NotNil(t, seen)
	assert.Equal(t, "u1", seen.UserID)
}
