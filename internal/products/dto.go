package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lockwise/lockshop-backend/pkg/db/models"
	"github.com/lockwise/lockshop-backend/pkg/enums"
	"github.com/lockwise/lockshop-backend/pkg/pagination"
)

// ProductDTO is the transport shape returned by catalog endpoints.
type ProductDTO struct {
	ID          uuid.UUID             `json:"id"`
	Name        string                `json:"name"`
	Slug        string                `json:"slug"`
	Description *string               `json:"description,omitempty"`
	Category    enums.ProductCategory `json:"category"`
	Tags        []string              `json:"tags"`
	Properties  []string              `json:"properties"`
	ImageURLs   []string              `json:"image_urls"`
	Color       *string               `json:"color,omitempty"`
	Price       decimal.Decimal       `json:"price"`
	Stock       int                   `json:"stock"`
	IsSelling   bool                  `json:"is_selling"`
	IsDeleted   bool                  `json:"is_deleted,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name        string
	Description *string
	Category    enums.ProductCategory
	Tags        []string
	Properties  []string
	ImageURLs   []string
	Color       *string
	Price       decimal.Decimal
	Stock       int
	IsSelling   bool
}

// UpdateProductInput holds optional mutation values for a product. Nil
// fields are left unchanged.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Category    *enums.ProductCategory
	Tags        *[]string
	Properties  *[]string
	ImageURLs   *[]string
	Color       *string
	Price       *decimal.Decimal
	Stock       *int
	IsSelling   *bool
}

// ListFilters describe the supported filter knobs for the browse endpoint.
type ListFilters struct {
	Category       *enums.ProductCategory
	Tag            *enums.ProductTag
	Query          string
	IncludeHidden  bool
	IncludeDeleted bool
}

// ListInput captures the inputs needed to paginate and filter listings.
type ListInput struct {
	Filters    ListFilters
	Pagination pagination.Params
}

// ProductList wraps the paginated products plus the next page cursor.
type ProductList struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// FromModel converts the persisted product to its transport shape.
func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Category:    p.Category,
		Tags:        append([]string(nil), p.Tags...),
		Properties:  append([]string(nil), p.Properties...),
		ImageURLs:   append([]string(nil), p.ImageURLs...),
		Color:       p.Color,
		Price:       p.Price,
		Stock:       p.Stock,
		IsSelling:   p.IsSelling,
		IsDeleted:   p.IsDeleted,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
