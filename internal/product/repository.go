// AngelaMos | 2026
// repository.go

package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/storefront/internal/core"
)

type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
	Update(ctx context.Context, p *Product) error
	SetMediaURL(ctx context.Context, id, mediaURL string) (*Product, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, filter Filter) (int, error)
	Page(ctx context.Context, filter Filter, limit, offset int) ([]Product, error)
	All(ctx context.Context) ([]Product, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const productColumns = `id, name, description, categories, variant, size, price,
		       count_in_stock, media_url, created_at, updated_at`

func (r *repository) Create(ctx context.Context, p *Product) error {
	query := `
		INSERT INTO products (id, name, description, categories, variant, size,
		                      price, count_in_stock, media_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		p.Categories,
		p.Variant,
		p.Size,
		p.Price,
		p.CountInStock,
		p.MediaURL,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if core.IsCheckViolation(err) {
			return fmt.Errorf("create product: %w", core.ErrInvalidInput)
		}
		return fmt.Errorf("create product: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE id = $1"

	var p Product
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	return &p, nil
}

// GetByIDs returns the products in the order of ids, skipping unknown ids.
func (r *repository) GetByIDs(ctx context.Context, ids []string) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}

	query, args, err := sqlx.In(
		"SELECT "+productColumns+" FROM products WHERE id IN (?)",
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	var found []Product
	if err := r.db.SelectContext(ctx, &found, query, args...); err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}

	byID := make(map[string]Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	ordered := make([]Product, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}

	return ordered, nil
}

func (r *repository) Update(ctx context.Context, p *Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, categories = $4, variant = $5,
		    size = $6, price = $7, count_in_stock = $8, media_url = $9,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &p.UpdatedAt, query,
		p.ID,
		p.Name,
		p.Description,
		p.Categories,
		p.Variant,
		p.Size,
		p.Price,
		p.CountInStock,
		p.MediaURL,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update product: %w", core.ErrNotFound)
	}
	if err != nil {
		if core.IsCheckViolation(err) {
			return fmt.Errorf("update product: %w", core.ErrInvalidInput)
		}
		return fmt.Errorf("update product: %w", err)
	}

	return nil
}

func (r *repository) SetMediaURL(
	ctx context.Context,
	id, mediaURL string,
) (*Product, error) {
	query := `
		UPDATE products
		SET media_url = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + productColumns

	var p Product
	err := r.db.GetContext(ctx, &p, query, id, mediaURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("set media url: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("set media url: %w", err)
	}

	return &p, nil
}

// Delete removes the product; cart line items referencing it cascade.
func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete product: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Count(ctx context.Context, filter Filter) (int, error) {
	where, args := buildFilter(filter)

	var total int
	query := "SELECT COUNT(*) FROM products WHERE " + where
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}

	return total, nil
}

func (r *repository) Page(
	ctx context.Context,
	filter Filter,
	limit, offset int,
) ([]Product, error) {
	where, args := buildFilter(filter)
	argIdx := len(args) + 1

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE %s
		ORDER BY name, id
		LIMIT $%d OFFSET $%d`,
		productColumns, where, argIdx, argIdx+1)

	args = append(args, limit, offset)

	products := []Product{}
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return products, nil
}

func (r *repository) All(ctx context.Context) ([]Product, error) {
	query := "SELECT " + productColumns + " FROM products ORDER BY name, id"

	products := []Product{}
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, fmt.Errorf("list all products: %w", err)
	}

	return products, nil
}

func buildFilter(f Filter) (string, []any) {
	conditions := []string{"TRUE"}
	var args []any

	add := func(template, value string) {
		if value == "" {
			return
		}
		args = append(args, "%"+core.EscapeLike(value)+"%")
		conditions = append(conditions, fmt.Sprintf(template, len(args)))
	}

	add("(name ILIKE $%[1]d OR description ILIKE $%[1]d)", f.Text)
	add("name ILIKE $%d", f.Name)
	add("variant ILIKE $%d", f.Variant)
	add("size ILIKE $%d", f.Size)
	add("EXISTS (SELECT 1 FROM unnest(categories) AS c WHERE c ILIKE $%d)", f.Category)

	return strings.Join(conditions, " AND "), args
}
