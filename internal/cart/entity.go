// AngelaMos | 2026
// entity.go

package cart

import (
	"time"

	"github.com/carterperez-dev/storefront/internal/product"
)

type Cart struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
	Lines     []Line    `db:"-"`
}

// Line is one product in a cart. A cart holds at most one line per
// product; adding the same product again grows Quantity.
type Line struct {
	Product  product.Product
	Quantity int
}

type lineRow struct {
	CartID   string `db:"cart_id"`
	Quantity int    `db:"quantity"`
	product.Product
}

func (c *Cart) TotalItems() int {
	total := 0
	for _, l := range c.Lines {
		total += l.Quantity
	}
	return total
}
