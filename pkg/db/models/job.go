package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lockwise/lockshop-backend/pkg/enums"
	"github.com/lockwise/lockshop-backend/pkg/types"
)

// Job is an on-site service ticket, independent of the shopping flow.
type Job struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	JobNumber        string              `gorm:"column:job_number;type:text;not null;uniqueIndex"`
	Name             string              `gorm:"column:name;not null"`
	Address          string              `gorm:"column:address;not null"`
	City             string              `gorm:"column:city;not null"`
	District         string              `gorm:"column:district;not null"`
	Customer         types.JobCustomer   `gorm:"column:customer;type:jsonb;serializer:json"`
	Price            decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null;default:0"`
	PaymentType      enums.PaymentType   `gorm:"column:payment_type;type:text;not null"`
	JobStatus        enums.JobStatus     `gorm:"column:job_status;type:text;not null;default:'pending'"`
	JobPaymentStatus enums.PaymentStatus `gorm:"column:job_payment_status;type:text;not null;default:'pending'"`
	AdminNote        *string             `gorm:"column:admin_note"`
	PersonelNote     *string             `gorm:"column:personel_note"`
	CreatedBy        uuid.UUID           `gorm:"column:created_by;type:uuid;not null"`
	// UpdatedBy is a display-name snapshot of the last editor, not a
	// user reference. Renaming a user does not rewrite past jobs.
	UpdatedBy *string   `gorm:"column:updated_by"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
