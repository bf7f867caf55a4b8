package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lockwise/lockshop-backend/pkg/db/models"
	"github.com/lockwise/lockshop-backend/pkg/enums"
	"github.com/lockwise/lockshop-backend/pkg/pagination"
	"github.com/lockwise/lockshop-backend/pkg/types"
)

// CreateOrderInput is the checkout payload submitted by the cart owner.
type CreateOrderInput struct {
	CustomerInfo types.CustomerInfo `json:"customer_info" validate:"required"`
	PaymentType  enums.PaymentType  `json:"payment_type" validate:"required"`
	OrderType    enums.OrderType    `json:"order_type" validate:"required"`
}

// UpdateStatusInput overwrites both status columns of an order.
type UpdateStatusInput struct {
	OrderStatus   enums.OrderStatus   `json:"order_status" validate:"required"`
	PaymentStatus enums.PaymentStatus `json:"payment_status" validate:"required"`
}

// OrderItemDTO is the product snapshot captured for one order line.
type OrderItemDTO struct {
	ProductID  uuid.UUID       `json:"product_id"`
	Name       string          `json:"name"`
	ImageURLs  []string        `json:"image_urls,omitempty"`
	Color      *string         `json:"color,omitempty"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// OrderDTO is the API projection of an order.
type OrderDTO struct {
	ID            uuid.UUID           `json:"id"`
	OrderNumber   string              `json:"order_number"`
	CustomerInfo  types.CustomerInfo  `json:"customer_info"`
	OrderType     enums.OrderType     `json:"order_type"`
	PaymentType   enums.PaymentType   `json:"payment_type"`
	OrderStatus   enums.OrderStatus   `json:"order_status"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	SubTotal      decimal.Decimal     `json:"sub_total"`
	Items         []OrderItemDTO      `json:"items"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// ListFilters narrows back-office order listings.
type ListFilters struct {
	OrderStatus   *enums.OrderStatus
	PaymentStatus *enums.PaymentStatus
	OrderType     *enums.OrderType
}

// ListInput bundles filters with cursor pagination.
type ListInput struct {
	Filters    ListFilters
	Pagination pagination.Params
}

// OrderList is one page of orders plus the cursor for the next page.
type OrderList struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// FromModel maps a stored order onto its DTO.
func FromModel(order *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		CustomerInfo:  order.CustomerInfo,
		OrderType:     order.OrderType,
		PaymentType:   order.PaymentType,
		OrderStatus:   order.OrderStatus,
		PaymentStatus: order.PaymentStatus,
		SubTotal:      order.SubTotal,
		Items:         make([]OrderItemDTO, 0, len(order.Items)),
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
	for _, item := range order.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			ProductID:  item.ProductID,
			Name:       item.Name,
			ImageURLs:  append([]string(nil), item.ImageURLs...),
			Color:      item.Color,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
			TotalPrice: item.TotalPrice,
		})
	}
	return dto
}
