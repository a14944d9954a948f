// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/storefront/internal/config"
	"github.com/carterperez-dev/storefront/internal/core"
	"github.com/carterperez-dev/storefront/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
	cookie    config.CookieConfig
}

func NewHandler(service *Service, cookie config.CookieConfig) *Handler {
	if cookie.Name == "" {
		cookie.Name = middleware.DefaultTokenCookie
	}

	return &Handler{
		service:   service,
		validator: core.NewValidator(),
		cookie:    cookie,
	}
}

// RegisterAccountRoutes mounts signup and login on the /users router.
func (h *Handler) RegisterAccountRoutes(
	r chi.Router,
	credentialLimiter func(http.Handler) http.Handler,
) {
	r.With(credentialLimiter).Post("/signup", h.Signup)
	r.With(credentialLimiter).Post("/login", h.Login)
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	credentialLimiter func(http.Handler) http.Handler,
	optionalAuth func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.With(credentialLimiter).Post("/google-authenticate", h.GoogleAuthenticate)
		r.With(optionalAuth).Get("/logout", h.Logout)
	})
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	req.Normalize()

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	sess, err := h.service.Signup(r.Context(), req)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.JSONError(w, core.DuplicateError("email"))
			return
		}
		core.JSONError(w, err)
		return
	}

	h.setTokenCookie(w, sess.Token)
	core.OK(w, sess.Response())
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	sess, err := h.service.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			core.JSONError(w, core.NewAppError(
				err,
				"invalid email or password",
				http.StatusNotFound,
				core.CodeNotFound,
			))
			return
		}
		core.JSONError(w, err)
		return
	}

	h.setTokenCookie(w, sess.Token)
	core.OK(w, sess.Response())
}

func (h *Handler) GoogleAuthenticate(w http.ResponseWriter, r *http.Request) {
	var req GoogleAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if req.Token() == "" {
		core.BadRequest(w, "id_token is required")
		return
	}

	sess, err := h.service.GoogleAuthenticate(r.Context(), req.Token())
	if err != nil {
		if errors.Is(err, core.ErrAccountBanned) {
			core.JSONError(w, core.BannedError())
			return
		}
		if errors.Is(err, core.ErrTokenInvalid) ||
			errors.Is(err, core.ErrTokenExpired) ||
			errors.Is(err, core.ErrUnauthorized) {
			core.JSONError(w, core.NewAppError(
				err,
				"not authorized",
				http.StatusUnauthorized,
				core.CodeUnauthorized,
			))
			return
		}
		core.JSONError(w, err)
		return
	}

	h.setTokenCookie(w, sess.Token)
	core.OK(w, TokenResponse{Token: sess.Token.Token})
}

// Logout always clears the cookie and answers 204. A presented valid token
// is also denylisted; a denylist failure is only logged.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearTokenCookie(w)

	if err := h.service.Logout(r.Context(), middleware.GetClaims(r.Context())); err != nil {
		slog.WarnContext(r.Context(), "token revocation failed", "error", err)
	}

	core.NoContent(w)
}

func (h *Handler) setTokenCookie(w http.ResponseWriter, token *IssuedToken) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token.Token,
		Path:     "/",
		Domain:   h.cookie.Domain,
		Expires:  token.ExpiresAt,
		MaxAge:   int(time.Until(token.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		Domain:   h.cookie.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
