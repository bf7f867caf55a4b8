package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lockwise/lockshop-backend/pkg/db/models"
)

// CartItemDTO is one cart line joined with current product display data.
type CartItemDTO struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
	Product   *CartProductDTO `json:"product,omitempty"`
}

// CartProductDTO carries the live product fields shown next to a cart line.
// It is a read-time join, never persisted on the cart.
type CartProductDTO struct {
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	IsSelling bool            `json:"is_selling"`
	ImageURLs []string        `json:"image_urls"`
}

// CartDTO is the transport shape for a cart.
type CartDTO struct {
	ID          uuid.UUID       `json:"id"`
	Items       []CartItemDTO   `json:"items"`
	TotalItems  int             `json:"total_items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// FromModel converts a persisted cart to its transport shape.
func FromModel(c *models.Cart) *CartDTO {
	if c == nil {
		return nil
	}
	dto := &CartDTO{
		ID:          c.ID,
		Items:       make([]CartItemDTO, 0, len(c.Items)),
		TotalItems:  c.TotalItems,
		TotalAmount: c.TotalAmount,
		UpdatedAt:   c.UpdatedAt,
	}
	for _, item := range c.Items {
		line := CartItemDTO{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
		}
		if item.Product != nil {
			line.Product = &CartProductDTO{
				Name:      item.Product.Name,
				Slug:      item.Product.Slug,
				Price:     item.Product.Price,
				Stock:     item.Product.Stock,
				IsSelling: item.Product.IsSelling,
				ImageURLs: append([]string(nil), item.Product.ImageURLs...),
			}
		}
		dto.Items = append(dto.Items, line)
	}
	return dto
}
