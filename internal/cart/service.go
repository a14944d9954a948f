// AngelaMos | 2026
// service.go

package cart

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/storefront/internal/core"
)

// MaxQuantity caps a single merge request.
const MaxQuantity = 10000

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) FindCart(ctx context.Context, userID string) (*Cart, error) {
	return s.repo.FindByUser(ctx, userID)
}

// AddProduct merges qty units of a product into the account's cart and
// returns the cart as it stands afterwards.
func (s *Service) AddProduct(
	ctx context.Context,
	userID, productID string,
	qty int,
) (*Cart, error) {
	ctx, span := core.StartSpan(ctx, "cart.AddProduct",
		attribute.String("product.id", productID),
		attribute.Int("cart.qty", qty),
	)
	defer span.End()

	if qty < 1 || qty > MaxQuantity {
		return nil, fmt.Errorf("add product: qty %d: %w", qty, core.ErrInvalidInput)
	}
	if !core.IsValidID(productID) {
		return nil, ErrProductNotFound
	}

	if err := s.repo.AddItem(ctx, userID, productID, qty); err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	c, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("cart.total_items", c.TotalItems()))

	return c, nil
}

// RemoveProduct drops the product's line if present. Removing a product
// that is not in the cart is not an error.
func (s *Service) RemoveProduct(ctx context.Context, userID, productID string) (*Cart, error) {
	if core.IsValidID(productID) {
		if err := s.repo.RemoveItem(ctx, userID, productID); err != nil {
			return nil, err
		}
	}

	return s.repo.FindByUser(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context) ([]Cart, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
