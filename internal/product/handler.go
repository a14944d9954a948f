// AngelaMos | 2026
// handler.go

package product

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/storefront/internal/core"
)

const sniffLen = 512

type Handler struct {
	service        *Service
	validator      *validator.Validate
	maxUploadBytes int64
}

func NewHandler(service *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 5 << 20
	}
	return &Handler{
		service:        service,
		validator:      core.NewValidator(),
		maxUploadBytes: maxUploadBytes,
	}
}

// RegisterRoutes mounts the catalog on the /products router. Reads are
// public; writes sit behind the authenticator and the admin guard.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Get("/", h.Catalog)
	r.Get("/all", h.All)
	r.Get("/search", h.Search)
	r.Get("/{productID}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(authenticator, adminOnly)

		r.Post("/", h.Create)
		r.Put("/{productID}", h.Update)
		r.Delete("/{productID}", h.Delete)
		r.Post("/{productID}/media", h.UploadMedia)
	})
}

func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.Catalog(r.Context(), ParseCatalogQuery(r.URL.Query()))
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "page out of range")
			return
		}
		core.JSONError(w, err)
		return
	}

	core.OK(w, page)
}

func (h *Handler) All(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.All(r.Context())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToProductResponseList(products))
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	products, err := h.service.Search(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "q is required")
			return
		}
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToProductResponseList(products))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	p, err := h.service.Get(r.Context(), productID)
	if err != nil {
		writeProductError(w, err)
		return
	}

	core.OK(w, ToProductResponse(p))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	p, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeProductError(w, err)
		return
	}

	core.Created(w, ToProductResponse(p))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if req.Empty() {
		core.BadRequest(w, "no fields to update")
		return
	}

	p, err := h.service.Update(r.Context(), productID, req)
	if err != nil {
		writeProductError(w, err)
		return
	}

	core.OK(w, ToProductResponse(p))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), productID); err != nil {
		writeProductError(w, err)
		return
	}

	core.NoContent(w)
}

// UploadMedia accepts a multipart "file" field holding an image and
// replaces the product's mediaUrl with the stored object's URL.
func (h *Handler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		core.BadRequest(w, "file too large or malformed form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		core.BadRequest(w, "file is required")
		return
	}
	defer file.Close() //nolint:errcheck // read-only multipart part

	head := make([]byte, sniffLen)
	n, _ := file.Read(head)
	contentType := http.DetectContentType(head[:n])
	if !strings.HasPrefix(contentType, "image/") {
		core.BadRequest(w, "file must be an image")
		return
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		core.InternalServerError(w, err)
		return
	}

	p, err := h.service.AttachMedia(
		r.Context(),
		productID,
		header.Filename,
		contentType,
		file,
		header.Size,
	)
	if err != nil {
		if errors.Is(err, ErrMediaDisabled) {
			core.BadRequest(w, "media uploads are disabled")
			return
		}
		writeProductError(w, err)
		return
	}

	core.OK(w, ToProductResponse(p))
}

func productIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	productID := chi.URLParam(r, "productID")
	if !core.IsValidID(productID) {
		core.NotFound(w, "product")
		return "", false
	}
	return productID, true
}

func writeProductError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "product")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, "invalid product")
	default:
		core.JSONError(w, err)
	}
}
