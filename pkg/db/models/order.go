package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/lockwise/lockshop-backend/pkg/enums"
	"github.com/lockwise/lockshop-backend/pkg/types"
)

// Order is the immutable snapshot produced from a cart at checkout. Only the
// two status columns change after creation.
type Order struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber   string              `gorm:"column:order_number;type:text;not null;uniqueIndex"`
	UserID        *uuid.UUID          `gorm:"column:user_id;type:uuid"`
	SessionID     *string             `gorm:"column:session_id;type:text"`
	CustomerInfo  types.CustomerInfo  `gorm:"column:customer_info;type:jsonb;serializer:json"`
	OrderType     enums.OrderType     `gorm:"column:order_type;type:text;not null"`
	PaymentType   enums.PaymentType   `gorm:"column:payment_type;type:text;not null"`
	OrderStatus   enums.OrderStatus   `gorm:"column:order_status;type:text;not null;default:'pending'"`
	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	SubTotal      decimal.Decimal     `gorm:"column:sub_total;type:numeric(12,2);not null"`
	Items         []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem is the product snapshot for one order line, decoupled from any
// later product mutation.
type OrderItem struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID  uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Name       string          `gorm:"column:name;not null"`
	ImageURLs  pq.StringArray  `gorm:"column:image_urls;type:text[]"`
	Color      *string         `gorm:"column:color"`
	UnitPrice  decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Quantity   int             `gorm:"column:quantity;not null"`
	TotalPrice decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
