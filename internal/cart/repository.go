// AngelaMos | 2026
// repository.go

package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/storefront/internal/core"
)

var (
	ErrCartNotFound    = fmt.Errorf("cart: %w", core.ErrNotFound)
	ErrProductNotFound = fmt.Errorf("product: %w", core.ErrNotFound)
	ErrQuantityRange   = fmt.Errorf("cart quantity out of range: %w", core.ErrInvalidInput)
)

type Repository interface {
	FindByUser(ctx context.Context, userID string) (*Cart, error)
	AddItem(ctx context.Context, userID, productID string, qty int) error
	RemoveItem(ctx context.Context, userID, productID string) error
	ListAll(ctx context.Context) ([]Cart, error)
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const lineColumns = `ci.cart_id, ci.quantity,
		       p.id, p.name, p.description, p.categories, p.variant, p.size,
		       p.price, p.count_in_stock, p.media_url, p.created_at, p.updated_at`

func (r *repository) FindByUser(ctx context.Context, userID string) (*Cart, error) {
	query := `
		SELECT id, user_id, created_at, updated_at
		FROM carts
		WHERE user_id = $1`

	var c Cart
	err := r.db.GetContext(ctx, &c, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find cart: %w", err)
	}

	lineQuery := `
		SELECT ` + lineColumns + `
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.added_at, ci.product_id`

	var rows []lineRow
	if err := r.db.SelectContext(ctx, &rows, lineQuery, c.ID); err != nil {
		return nil, fmt.Errorf("find cart lines: %w", err)
	}

	c.Lines = toLines(rows)

	return &c, nil
}

// AddItem merges qty into the cart in one statement: a new line is
// inserted, an existing one is incremented in place. Concurrent calls
// for the same line never lose an increment.
func (r *repository) AddItem(ctx context.Context, userID, productID string, qty int) error {
	query := `
		INSERT INTO cart_items (cart_id, product_id, quantity)
		SELECT c.id, $2, $3
		FROM carts c
		WHERE c.user_id = $1
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING cart_id`

	var cartID string
	err := r.db.QueryRowxContext(ctx, query, userID, productID, qty).Scan(&cartID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrCartNotFound
	case core.IsForeignKeyError(err):
		return ErrProductNotFound
	case core.IsCheckViolation(err):
		return fmt.Errorf("add cart item: %w", core.ErrInvalidInput)
	case core.IsOutOfRange(err):
		return ErrQuantityRange
	case err != nil:
		return fmt.Errorf("add cart item: %w", err)
	}

	return nil
}

func (r *repository) RemoveItem(ctx context.Context, userID, productID string) error {
	query := `
		DELETE FROM cart_items ci
		USING carts c
		WHERE ci.cart_id = c.id AND c.user_id = $1 AND ci.product_id = $2`

	if _, err := r.db.ExecContext(ctx, query, userID, productID); err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}

	return nil
}

func (r *repository) ListAll(ctx context.Context) ([]Cart, error) {
	carts := []Cart{}
	err := r.db.SelectContext(ctx, &carts, `
		SELECT id, user_id, created_at, updated_at
		FROM carts
		ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list carts: %w", err)
	}

	var rows []lineRow
	err = r.db.SelectContext(ctx, &rows, `
		SELECT `+lineColumns+`
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		ORDER BY ci.cart_id, ci.added_at, ci.product_id`)
	if err != nil {
		return nil, fmt.Errorf("list cart lines: %w", err)
	}

	byCart := make(map[string][]lineRow, len(carts))
	for _, row := range rows {
		byCart[row.CartID] = append(byCart[row.CartID], row)
	}

	for i := range carts {
		carts[i].Lines = toLines(byCart[carts[i].ID])
	}

	return carts, nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM carts`); err != nil {
		return 0, fmt.Errorf("count carts: %w", err)
	}
	return total, nil
}

func toLines(rows []lineRow) []Line {
	lines := make([]Line, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, Line{Product: row.Product, Quantity: row.Quantity})
	}
	return lines
}
