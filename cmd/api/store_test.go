// AngelaMos | 2026
// store_test.go

package main

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/storefront/internal/cart"
	"github.com/carterperez-dev/storefront/internal/core"
	"github.com/carterperez-dev/storefront/internal/product"
	"github.com/carterperez-dev/storefront/internal/user"
)

// memoryStore backs the user, product and cart repositories with one set
// of maps so signup creates the cart the cart routes later read.
type memoryStore struct {
	mu       sync.Mutex
	users    map[string]*user.User
	products map[string]*product.Product
	carts    map[string]*cart.Cart
	lines    map[string]map[string]int
	revoked  map[string]time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:    make(map[string]*user.User),
		products: make(map[string]*product.Product),
		carts:    make(map[string]*cart.Cart),
		lines:    make(map[string]map[string]int),
		revoked:  make(map[string]time.Time),
	}
}

type userRepo struct{ s *memoryStore }

func (r userRepo) CreateWithCart(_ context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
	}

	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	stored := *u
	r.s.users[u.ID] = &stored
	r.s.carts[u.ID] = &cart.Cart{ID: uuid.New().String(), UserID: u.ID, CreatedAt: now, UpdatedAt: now}
	return nil
}

func (r userRepo) find(match func(*user.User) bool) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if match(u) {
			found := *u
			return &found, nil
		}
	}
	return nil, core.ErrNotFound
}

func (r userRepo) GetByID(_ context.Context, id string) (*user.User, error) {
	return r.find(func(u *user.User) bool { return u.ID == id })
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	return r.find(func(u *user.User) bool { return u.Email == email })
}

func (r userRepo) GetByGoogleID(_ context.Context, googleID string) (*user.User, error) {
	return r.find(func(u *user.User) bool { return u.GoogleID != nil && *u.GoogleID == googleID })
}

func (r userRepo) mutate(id string, fn func(*user.User)) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	fn(u)
	u.UpdatedAt = time.Now()
	updated := *u
	return &updated, nil
}

func (r userRepo) Update(_ context.Context, u *user.User) error {
	_, err := r.mutate(u.ID, func(stored *user.User) { *stored = *u })
	return err
}

func (r userRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	_, err := r.mutate(id, func(u *user.User) { u.PasswordHash = passwordHash })
	return err
}

func (r userRepo) UpdateRole(_ context.Context, id, role string) error {
	_, err := r.mutate(id, func(u *user.User) { u.Role = role })
	return err
}

func (r userRepo) LinkGoogle(_ context.Context, id, googleID, image string) error {
	_, err := r.mutate(id, func(u *user.User) {
		u.GoogleID = &googleID
		u.Image = image
	})
	return err
}

func (r userRepo) SetBanned(_ context.Context, id string, banned bool) (*user.User, error) {
	return r.mutate(id, func(u *user.User) { u.IsBanned = banned })
}

func (r userRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return core.ErrNotFound
	}
	delete(r.s.users, id)
	if c, ok := r.s.carts[id]; ok {
		delete(r.s.lines, c.ID)
		delete(r.s.carts, id)
	}
	return nil
}

func (r userRepo) List(_ context.Context, params user.ListUsersParams) ([]user.User, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	all := make([]user.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Email < all[j].Email })

	start := min(params.Offset(), len(all))
	end := min(start+params.PageSize, len(all))
	return all[start:end], len(all), nil
}

func (r userRepo) Stats(context.Context) (*user.Stats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stats := &user.Stats{Total: len(r.s.users)}
	for _, u := range r.s.users {
		if u.IsBanned {
			stats.Banned++
		}
		if u.IsAdmin() {
			stats.Admins++
		}
	}
	return stats, nil
}

type productRepo struct{ s *memoryStore }

func (r productRepo) Create(_ context.Context, p *product.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	stored := *p
	r.s.products[p.ID] = &stored
	return nil
}

func (r productRepo) GetByID(_ context.Context, id string) (*product.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	found := *p
	return &found, nil
}

func (r productRepo) GetByIDs(_ context.Context, ids []string) ([]product.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	found := make([]product.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			found = append(found, *p)
		}
	}
	return found, nil
}

func (r productRepo) Update(_ context.Context, p *product.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[p.ID]; !ok {
		return core.ErrNotFound
	}
	p.UpdatedAt = time.Now()
	stored := *p
	r.s.products[p.ID] = &stored
	return nil
}

func (r productRepo) SetMediaURL(_ context.Context, id, mediaURL string) (*product.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	p.MediaURL = mediaURL
	updated := *p
	return &updated, nil
}

func (r productRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[id]; !ok {
		return core.ErrNotFound
	}
	delete(r.s.products, id)
	for _, lines := range r.s.lines {
		delete(lines, id)
	}
	return nil
}

// sorted ignores filters; the end-to-end flow only pages the full catalog.
func (r productRepo) sorted() []product.Product {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	all := make([]product.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		all = append(all, *p)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].ID < all[j].ID
	})
	return all
}

func (r productRepo) Count(context.Context, product.Filter) (int, error) {
	return len(r.sorted()), nil
}

func (r productRepo) Page(_ context.Context, _ product.Filter, limit, offset int) ([]product.Product, error) {
	all := r.sorted()
	start := min(offset, len(all))
	end := min(start+limit, len(all))
	return all[start:end], nil
}

func (r productRepo) All(context.Context) ([]product.Product, error) {
	return r.sorted(), nil
}

type cartRepo struct{ s *memoryStore }

func (r cartRepo) FindByUser(_ context.Context, userID string) (*cart.Cart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.carts[userID]
	if !ok {
		return nil, cart.ErrCartNotFound
	}
	return r.s.snapshot(c), nil
}

func (r cartRepo) AddItem(_ context.Context, userID, productID string, qty int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.carts[userID]
	if !ok {
		return cart.ErrCartNotFound
	}
	if _, ok := r.s.products[productID]; !ok {
		return cart.ErrProductNotFound
	}

	if r.s.lines[c.ID] == nil {
		r.s.lines[c.ID] = make(map[string]int)
	}
	r.s.lines[c.ID][productID] += qty
	return nil
}

func (r cartRepo) RemoveItem(_ context.Context, userID, productID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if c, ok := r.s.carts[userID]; ok {
		delete(r.s.lines[c.ID], productID)
	}
	return nil
}

func (r cartRepo) ListAll(context.Context) ([]cart.Cart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	carts := make([]cart.Cart, 0, len(r.s.carts))
	for _, c := range r.s.carts {
		carts = append(carts, *r.s.snapshot(c))
	}
	return carts, nil
}

func (r cartRepo) Count(context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.carts), nil
}

// snapshot must be called with mu held.
func (s *memoryStore) snapshot(c *cart.Cart) *cart.Cart {
	out := *c
	out.Lines = []cart.Line{}
	for productID, qty := range s.lines[c.ID] {
		if p, ok := s.products[productID]; ok {
			out.Lines = append(out.Lines, cart.Line{Product: *p, Quantity: qty})
		}
	}
	sort.Slice(out.Lines, func(i, j int) bool {
		return out.Lines[i].Product.Name < out.Lines[j].Product.Name
	})
	return &out
}

type denylist struct{ s *memoryStore }

func (d denylist) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	d.s.revoked[tokenID] = expiresAt
	return nil
}

func (d denylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	_, ok := d.s.revoked[tokenID]
	return ok, nil
}
