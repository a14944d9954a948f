// AngelaMos | 2026
// handler.go

package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/storefront/internal/core"
	"github.com/carterperez-dev/storefront/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.GetCart)
		r.Put("/", h.AddProduct)
		r.Delete("/", h.RemoveProduct)

		r.With(adminOnly).Get("/all", h.ListAll)
	})
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.FindCart(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeCartError(w, err)
		return
	}

	core.OK(w, ToCartResponse(c))
}

func (h *Handler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req UpdateCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	c, err := h.service.AddProduct(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req.ProductID,
		req.Qty,
	)
	if err != nil {
		writeCartError(w, err)
		return
	}

	core.OK(w, ToCartResponse(c))
}

func (h *Handler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	var req RemoveFromCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	c, err := h.service.RemoveProduct(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req.ProductID,
	)
	if err != nil {
		writeCartError(w, err)
		return
	}

	core.OK(w, ToCartResponse(c))
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	carts, err := h.service.ListAll(r.Context())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToCartResponseList(carts))
}

func writeCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrProductNotFound):
		core.NotFound(w, "product")
	case errors.Is(err, ErrCartNotFound):
		core.NotFound(w, "cart")
	case errors.Is(err, ErrQuantityRange):
		core.BadRequest(w, "cart quantity out of range")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, fmt.Sprintf("qty must be between 1 and %d", MaxQuantity))
	default:
		core.JSONError(w, err)
	}
}
