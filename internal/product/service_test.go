// AngelaMos | 2026
// service_test.go

package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/storefront/internal/core"
	"github.com/carterperez-dev/storefront/internal/events"
)

// memoryRepository is an in-memory Repository ordered by (name, id).
type memoryRepository struct {
	mu       sync.Mutex
	products map[string]Product
}

func newMemoryRepository(products ...Product) *memoryRepository {
	m := &memoryRepository{products: make(map[string]Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *memoryRepository) Create(_ context.Context, p *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = *p
	return nil
}

func (m *memoryRepository) GetByID(_ context.Context, id string) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
	}
	return &p, nil
}

func (m *memoryRepository) GetByIDs(ctx context.Context, ids []string) ([]Product, error) {
	out := []Product{}
	for _, id := range ids {
		if p, err := m.GetByID(ctx, id); err == nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memoryRepository) Update(_ context.Context, p *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.ID]; !ok {
		return core.ErrNotFound
	}
	m.products[p.ID] = *p
	return nil
}

func (m *memoryRepository) SetMediaURL(_ context.Context, id, mediaURL string) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	p.MediaURL = mediaURL
	m.products[id] = p
	return &p, nil
}

func (m *memoryRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *memoryRepository) matching(f Filter) []Product {
	m.mu.Lock()
	defer m.mu.Unlock()

	contains := func(field, want string) bool {
		return want == "" || strings.Contains(strings.ToLower(field), strings.ToLower(want))
	}

	out := []Product{}
	for _, p := range m.products {
		category := f.Category == ""
		for _, c := range p.Categories {
			category = category || contains(c, f.Category)
		}
		text := f.Text == "" || contains(p.Name, f.Text) || contains(p.Description, f.Text)
		if text && contains(p.Name, f.Name) && contains(p.Variant, f.Variant) &&
			contains(p.Size, f.Size) && category {
			out = append(out, p)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *memoryRepository) Count(_ context.Context, f Filter) (int, error) {
	return len(m.matching(f)), nil
}

func (m *memoryRepository) Page(_ context.Context, f Filter, limit, offset int) ([]Product, error) {
	all := m.matching(f)
	if offset >= len(all) {
		return []Product{}, nil
	}
	return all[offset:min(offset+limit, len(all))], nil
}

func (m *memoryRepository) All(_ context.Context) ([]Product, error) {
	return m.matching(Filter{}), nil
}

type fakeIndex struct {
	indexed []string
	removed []string
	hits    []string
	err     error
}

func (f *fakeIndex) IndexProduct(_ context.Context, p *Product) error {
	f.indexed = append(f.indexed, p.ID)
	return f.err
}

func (f *fakeIndex) RemoveProduct(_ context.Context, id string) error {
	f.removed = append(f.removed, id)
	return f.err
}

func (f *fakeIndex) SearchProducts(_ context.Context, _ string, _ int) ([]string, error) {
	return f.hits, f.err
}

type fakeMedia struct {
	key         string
	contentType string
	body        string
}

func (f *fakeMedia) Upload(_ context.Context, key, contentType string, body io.Reader, _ int64) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.key, f.contentType, f.body = key, contentType, string(data)
	return "https://cdn.example.com/" + key, nil
}

type capturePublisher struct {
	published []events.Event
}

func (c *capturePublisher) Publish(_ context.Context, evt events.Event) error {
	c.published = append(c.published, evt)
	return nil
}

func (c *capturePublisher) Close() error { return nil }

func seedCatalog(n int) []Product {
	names := []string{"Towel", "Babel Fish", "Guide", "Gown", "Teapot", "Pan"}
	products := make([]Product, 0, n)
	for i := range n {
		products = append(products, Product{
			ID:         fmt.Sprintf("00000000-0000-0000-0000-%012d", i),
			Name:       names[i%len(names)],
			Categories: []string{"misc"},
			Size:       []string{"S", "M", "L"}[i%3],
			Price:      float64(i),
		})
	}
	return products
}

func TestService_CatalogPagesCoverSortedCatalog(t *testing.T) {
	for _, n := range []int{0, 1, 3, 4, 7, 9, 10} {
		t.Run(fmt.Sprintf("%d products", n), func(t *testing.T) {
			repo := newMemoryRepository(seedCatalog(n)...)
			svc := NewService(repo)
			ctx := context.Background()

			first, err := svc.Catalog(ctx, CatalogQuery{Page: 1})
			require.NoError(t, err)
			assert.Equal(t, core.TotalPages(n, PageSize), first.TotalPages)

			var seen []string
			for page := 1; page <= max(first.TotalPages, 1); page++ {
				result, err := svc.Catalog(ctx, CatalogQuery{Page: page})
				require.NoError(t, err)
				assert.LessOrEqual(t, len(result.Items), PageSize)
				for _, item := range result.Items {
					seen = append(seen, item.ID)
				}
			}

			all, _ := repo.All(ctx)
			want := make([]string, 0, len(all))
			for _, p := range all {
				want = append(want, p.ID)
			}
			assert.Equal(t, want, append([]string{}, seen...))

			_, err = svc.Catalog(ctx, CatalogQuery{Page: max(first.TotalPages, 1) + 1})
			assert.ErrorIs(t, err, core.ErrInvalidInput)
		})
	}
}

func TestService_CatalogFilters(t *testing.T) {
	repo := newMemoryRepository(seedCatalog(9)...)
	svc := NewService(repo)

	result, err := svc.Catalog(context.Background(), CatalogQuery{
		Filter: Filter{Name: "to", Size: "s"},
		Page:   0,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	for _, item := range result.Items {
		assert.Contains(t, strings.ToLower(item.Name), "to")
		assert.Equal(t, "S", item.Size)
	}
}

func TestService_CreateDefaultsAndIndexes(t *testing.T) {
	repo := newMemoryRepository()
	idx := &fakeIndex{}
	svc := NewService(repo, WithSearchIndex(idx))

	price := 9.5
	p, err := svc.Create(context.Background(), CreateProductRequest{
		Name:        "  Towel ",
		Description: "Never leave without it",
		Price:       &price,
		MediaURL:    "https://cdn.example.com/towel.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "Towel", p.Name)
	assert.Equal(t, 1, p.CountInStock)
	assert.NotNil(t, p.Categories)
	assert.Equal(t, []string{p.ID}, idx.indexed)
}

func TestService_UpdateIndexFailureIsNotFatal(t *testing.T) {
	repo := newMemoryRepository(seedCatalog(1)...)
	idx := &fakeIndex{err: errors.New("es down")}
	svc := NewService(repo, WithSearchIndex(idx))

	name := "Renamed"
	p, err := svc.Update(context.Background(), seedCatalog(1)[0].ID, UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", p.Name)
	assert.Equal(t, float64(0), p.Price)
}

func TestService_DeleteRemovesAndEmits(t *testing.T) {
	id := seedCatalog(1)[0].ID
	repo := newMemoryRepository(seedCatalog(1)...)
	idx := &fakeIndex{}
	pub := &capturePublisher{}
	svc := NewService(repo, WithSearchIndex(idx), WithPublisher(pub))

	require.NoError(t, svc.Delete(context.Background(), id))
	assert.Equal(t, []string{id}, idx.removed)
	require.Len(t, pub.published, 1)
	assert.Equal(t, events.ProductDeleted, pub.published[0].Type)

	assert.ErrorIs(t, svc.Delete(context.Background(), id), core.ErrNotFound)
}

func TestService_Search(t *testing.T) {
	catalog := seedCatalog(6)

	t.Run("empty query", func(t *testing.T) {
		_, err := NewService(newMemoryRepository()).Search(context.Background(), "  ", 10)
		assert.ErrorIs(t, err, core.ErrInvalidInput)
	})

	t.Run("index hits keep ranking", func(t *testing.T) {
		idx := &fakeIndex{hits: []string{catalog[2].ID, catalog[0].ID}}
		svc := NewService(newMemoryRepository(catalog...), WithSearchIndex(idx))

		products, err := svc.Search(context.Background(), "guide", 0)
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, catalog[2].ID, products[0].ID)
	})

	t.Run("falls back to name match", func(t *testing.T) {
		svc := NewService(newMemoryRepository(catalog...))

		products, err := svc.Search(context.Background(), "babel", 5)
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Babel Fish", products[0].Name)
	})

	t.Run("index failure uses database", func(t *testing.T) {
		withDescription := append([]Product{}, catalog...)
		withDescription[3].Description = "Dressing gown, pocket holds a towel"
		idx := &fakeIndex{err: errors.New("search: index_not_found_exception")}
		svc := NewService(newMemoryRepository(withDescription...), WithSearchIndex(idx))

		products, err := svc.Search(context.Background(), "towel", 10)
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "Gown", products[0].Name)
		assert.Equal(t, "Towel", products[1].Name)
	})
}

func TestService_AttachMedia(t *testing.T) {
	id := seedCatalog(1)[0].ID

	t.Run("disabled", func(t *testing.T) {
		svc := NewService(newMemoryRepository(seedCatalog(1)...))
		_, err := svc.AttachMedia(context.Background(), id, "a.png", "image/png", strings.NewReader("x"), 1)
		assert.ErrorIs(t, err, ErrMediaDisabled)
		assert.ErrorIs(t, err, core.ErrInvalidInput)
	})

	t.Run("uploads under product prefix", func(t *testing.T) {
		store := &fakeMedia{}
		svc := NewService(newMemoryRepository(seedCatalog(1)...), WithMediaStore(store))

		p, err := svc.AttachMedia(context.Background(), id, "Photo.PNG", "image/png", strings.NewReader("img"), 3)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(store.key, "products/"+id+"/"))
		assert.True(t, strings.HasSuffix(store.key, ".png"))
		assert.Equal(t, "img", store.body)
		assert.Equal(t, "https://cdn.example.com/"+store.key, p.MediaURL)
	})

	t.Run("unknown product", func(t *testing.T) {
		store := &fakeMedia{}
		svc := NewService(newMemoryRepository(), WithMediaStore(store))
		_, err := svc.AttachMedia(context.Background(), id, "a.png", "image/png", strings.NewReader("x"), 1)
		assert.ErrorIs(t, err, core.ErrNotFound)
		assert.Empty(t, store.key)
	})
}
