// AngelaMos | 2026
// dto.go

package cart

import (
	"github.com/carterperez-dev/storefront/internal/product"
)

type UpdateCartRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Qty       int    `json:"qty"       validate:"gte=1,lte=10000"`
}

type RemoveFromCartRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

type LineResponse struct {
	Product  product.ProductResponse `json:"product"`
	Quantity int                     `json:"quantity"`
}

type CartResponse struct {
	ID       string         `json:"_id"`
	User     string         `json:"user"`
	Products []LineResponse `json:"products"`
}

func ToCartResponse(c *Cart) CartResponse {
	lines := make([]LineResponse, 0, len(c.Lines))
	for i := range c.Lines {
		lines = append(lines, LineResponse{
			Product:  product.ToProductResponse(&c.Lines[i].Product),
			Quantity: c.Lines[i].Quantity,
		})
	}

	return CartResponse{
		ID:       c.ID,
		User:     c.UserID,
		Products: lines,
	}
}

func ToCartResponseList(carts []Cart) []CartResponse {
	responses := make([]CartResponse, 0, len(carts))
	for i := range carts {
		responses = append(responses, ToCartResponse(&carts[i]))
	}
	return responses
}
