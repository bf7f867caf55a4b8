package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/lockwise/lockshop-backend/pkg/enums"
)

// Product represents a catalog listing.
type Product struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string                `gorm:"column:name;not null"`
	Slug        string                `gorm:"column:slug;type:text;not null;uniqueIndex"`
	Description *string               `gorm:"column:description"`
	Category    enums.ProductCategory `gorm:"column:category;type:text;not null"`
	Tags        pq.StringArray        `gorm:"column:tags;type:text[]"`
	Properties  pq.StringArray        `gorm:"column:properties;type:text[];not null"`
	ImageURLs   pq.StringArray        `gorm:"column:image_urls;type:text[]"`
	Color       *string               `gorm:"column:color"`
	Price       decimal.Decimal       `gorm:"column:price;type:numeric(12,2);not null"`
	Stock       int                   `gorm:"column:stock;not null;default:0"`
	IsSelling   bool                  `gorm:"column:is_selling;not null;default:true"`
	IsDeleted   bool                  `gorm:"column:is_deleted;not null;default:false"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// Purchasable reports whether the product can currently be added to a cart.
func (p Product) Purchasable() bool {
	return !p.IsDeleted && p.IsSelling && p.Stock > 0
}

// Visible reports whether the product may appear in public catalog listings.
func (p Product) Visible() bool {
	return !p.IsDeleted
}
