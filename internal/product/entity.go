// AngelaMos | 2026
// entity.go

package product

import (
	"time"

	"github.com/lib/pq"
)

type Product struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Description  string         `db:"description"`
	Categories   pq.StringArray `db:"categories"`
	Variant      string         `db:"variant"`
	Size         string         `db:"size"`
	Price        float64        `db:"price"`
	CountInStock int            `db:"count_in_stock"`
	MediaURL     string         `db:"media_url"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

// Filter is a conjunction of case-insensitive substring matches. Empty
// fields match everything.
type Filter struct {
	// Text matches name or description.
	Text     string
	Name     string
	Variant  string
	Size     string
	Category string
}
