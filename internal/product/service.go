// AngelaMos | 2026
// service.go

package product

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/storefront/internal/core"
	"github.com/carterperez-dev/storefront/internal/events"
)

var ErrMediaDisabled = fmt.Errorf("media storage is not configured: %w", core.ErrInvalidInput)

// SearchIndex mirrors the catalog for full-text search. It is kept in
// sync best-effort; the database stays the source of truth.
type SearchIndex interface {
	IndexProduct(ctx context.Context, p *Product) error
	RemoveProduct(ctx context.Context, id string) error
	SearchProducts(ctx context.Context, query string, limit int) ([]string, error)
}

type MediaStore interface {
	Upload(
		ctx context.Context,
		key, contentType string,
		body io.Reader,
		size int64,
	) (string, error)
}

type Service struct {
	repo   Repository
	search SearchIndex
	media  MediaStore
	events events.Publisher
}

type Option func(*Service)

func WithSearchIndex(idx SearchIndex) Option {
	return func(s *Service) { s.search = idx }
}

func WithMediaStore(store MediaStore) Option {
	return func(s *Service) { s.media = store }
}

func WithPublisher(pub events.Publisher) Option {
	return func(s *Service) { s.events = pub }
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, events: events.NopPublisher{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns one page of the filtered catalog ordered by name.
// Requesting a page past the last one is a client error; an empty
// catalog still has a valid page 1.
func (s *Service) Catalog(ctx context.Context, q CatalogQuery) (*CatalogPage, error) {
	ctx, span := core.StartSpan(ctx, "product.Catalog",
		attribute.Int("catalog.page", q.Page),
	)
	defer span.End()

	if q.Page < 1 {
		q.Page = 1
	}

	total, err := s.repo.Count(ctx, q.Filter)
	if err != nil {
		return nil, err
	}

	totalPages := core.TotalPages(total, PageSize)
	if q.Page > max(totalPages, 1) {
		return nil, fmt.Errorf(
			"catalog page %d of %d: %w",
			q.Page,
			totalPages,
			core.ErrInvalidInput,
		)
	}

	products, err := s.repo.Page(ctx, q.Filter, PageSize, (q.Page-1)*PageSize)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("catalog.total", total))

	return &CatalogPage{
		Items:      ToProductResponseList(products),
		TotalPages: totalPages,
		Page:       q.Page,
		Total:      total,
	}, nil
}

func (s *Service) All(ctx context.Context) ([]Product, error) {
	return s.repo.All(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx, Filter{})
}

func (s *Service) Create(ctx context.Context, req CreateProductRequest) (*Product, error) {
	p := &Product{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		Categories:   req.Categories,
		Variant:      req.Variant,
		Size:         req.Size,
		Price:        *req.Price,
		CountInStock: 1,
		MediaURL:     req.MediaURL,
	}
	if req.CountInStock != nil {
		p.CountInStock = *req.CountInStock
	}
	if p.Categories == nil {
		p.Categories = []string{}
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.index(ctx, p)

	return p, nil
}

func (s *Service) Update(
	ctx context.Context,
	id string,
	req UpdateProductRequest,
) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(p)

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.index(ctx, p)

	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.search != nil {
		if err := s.search.RemoveProduct(ctx, id); err != nil {
			slog.WarnContext(ctx, "search index removal failed",
				"product_id", id,
				"error", err,
			)
		}
	}

	events.Emit(ctx, s.events, events.New(events.ProductDeleted, id))

	return nil
}

// Search queries the search index and loads the hits from the database.
// Without a working index it degrades to a name or description substring
// match.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]Product, error) {
	ctx, span := core.StartSpan(ctx, "product.Search")
	defer span.End()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search: empty query: %w", core.ErrInvalidInput)
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}

	if s.search == nil {
		return s.repo.Page(ctx, Filter{Text: query}, limit, 0)
	}

	ids, err := s.search.SearchProducts(ctx, query, limit)
	if err != nil {
		slog.WarnContext(ctx, "search index query failed, using database",
			"query", query,
			"error", err,
		)
		core.SetSpanError(ctx, err)
		return s.repo.Page(ctx, Filter{Text: query}, limit, 0)
	}

	return s.repo.GetByIDs(ctx, ids)
}

// AttachMedia uploads an image and points the product's mediaUrl at it.
func (s *Service) AttachMedia(
	ctx context.Context,
	id, filename, contentType string,
	body io.Reader,
	size int64,
) (*Product, error) {
	if s.media == nil {
		return nil, ErrMediaDisabled
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	key := fmt.Sprintf(
		"products/%s/%s%s",
		id,
		uuid.New().String(),
		strings.ToLower(path.Ext(filename)),
	)

	url, err := s.media.Upload(ctx, key, contentType, body, size)
	if err != nil {
		return nil, fmt.Errorf("upload media: %w", err)
	}

	p, err := s.repo.SetMediaURL(ctx, id, url)
	if err != nil {
		return nil, err
	}

	s.index(ctx, p)

	return p, nil
}

func (s *Service) index(ctx context.Context, p *Product) {
	if s.search == nil {
		return
	}

	if err := s.search.IndexProduct(ctx, p); err != nil {
		slog.WarnContext(ctx, "search indexing failed",
			"product_id", p.ID,
			"error", err,
		)
	}
}
