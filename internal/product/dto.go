// AngelaMos | 2026
// dto.go

package product

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

const PageSize = 3

type CreateProductRequest struct {
	Name         string   `json:"name"         validate:"required,max=200"`
	Description  string   `json:"description"  validate:"required,max=5000"`
	Categories   []string `json:"categories"   validate:"max=20,dive,required,max=50"`
	Variant      string   `json:"variant"      validate:"max=100"`
	Size         string   `json:"size"         validate:"max=50"`
	Price        *float64 `json:"price"        validate:"required,gte=0"`
	CountInStock *int     `json:"countInStock" validate:"omitempty,gte=0"`
	MediaURL     string   `json:"mediaUrl"     validate:"required,url,max=2048"`
}

type UpdateProductRequest struct {
	Name         *string  `json:"name,omitempty"         validate:"omitempty,min=1,max=200"`
	Description  *string  `json:"description,omitempty"  validate:"omitempty,min=1,max=5000"`
	Categories   []string `json:"categories,omitempty"   validate:"omitempty,max=20,dive,required,max=50"`
	Variant      *string  `json:"variant,omitempty"      validate:"omitempty,max=100"`
	Size         *string  `json:"size,omitempty"         validate:"omitempty,max=50"`
	Price        *float64 `json:"price,omitempty"        validate:"omitempty,gte=0"`
	CountInStock *int     `json:"countInStock,omitempty" validate:"omitempty,gte=0"`
	MediaURL     *string  `json:"mediaUrl,omitempty"     validate:"omitempty,url,max=2048"`
}

func (r *UpdateProductRequest) Apply(p *Product) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.Categories != nil {
		p.Categories = r.Categories
	}
	if r.Variant != nil {
		p.Variant = *r.Variant
	}
	if r.Size != nil {
		p.Size = *r.Size
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	if r.CountInStock != nil {
		p.CountInStock = *r.CountInStock
	}
	if r.MediaURL != nil {
		p.MediaURL = *r.MediaURL
	}
}

type ProductResponse struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Categories   []string  `json:"categories"`
	Variant      string    `json:"variant"`
	Size         string    `json:"size"`
	Price        float64   `json:"price"`
	CountInStock int       `json:"countInStock"`
	MediaURL     string    `json:"mediaUrl"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CatalogQuery is the parsed query string of GET /products.
type CatalogQuery struct {
	Filter
	Page int
}

// ParseCatalogQuery reads the filters and page. A missing, zero or
// unparsable page means page 1.
func ParseCatalogQuery(values url.Values) CatalogQuery {
	q := CatalogQuery{
		Filter: Filter{
			Name:     strings.TrimSpace(values.Get("name")),
			Variant:  strings.TrimSpace(values.Get("variant")),
			Size:     strings.TrimSpace(values.Get("size")),
			Category: strings.TrimSpace(values.Get("category")),
		},
		Page: 1,
	}

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 0 {
		q.Page = page
	}

	return q
}

type CatalogPage struct {
	Items      []ProductResponse `json:"items"`
	TotalPages int               `json:"totalPages"`
	Page       int               `json:"page"`
	Total      int               `json:"total"`
}

func ToProductResponse(p *Product) ProductResponse {
	categories := []string(p.Categories)
	if categories == nil {
		categories = []string{}
	}

	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Categories:   categories,
		Variant:      p.Variant,
		Size:         p.Size,
		Price:        p.Price,
		CountInStock: p.CountInStock,
		MediaURL:     p.MediaURL,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func ToProductResponseList(products []Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ToProductResponse(&products[i]))
	}
	return responses
}

func (r *UpdateProductRequest) Empty() bool {
	return r.Name == nil && r.Description == nil && r.Categories == nil &&
		r.Variant == nil && r.Size == nil && r.Price == nil &&
		r.CountInStock == nil && r.MediaURL == nil
}
