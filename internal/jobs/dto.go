package jobs

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lockwise/lockshop-backend/pkg/db/models"
	"github.com/lockwise/lockshop-backend/pkg/enums"
	"github.com/lockwise/lockshop-backend/pkg/pagination"
	"github.com/lockwise/lockshop-backend/pkg/types"
)

// CreateJobInput opens a new service ticket.
type CreateJobInput struct {
	Name        string            `json:"name" validate:"required,min=6"`
	Address     string            `json:"address" validate:"required"`
	City        string            `json:"city" validate:"required"`
	District    string            `json:"district" validate:"required"`
	Customer    types.JobCustomer `json:"customer" validate:"required"`
	Price       decimal.Decimal   `json:"price"`
	PaymentType enums.PaymentType `json:"payment_type" validate:"required"`
	AdminNote   *string           `json:"admin_note,omitempty"`
}

// UpdateJobInput advances a ticket. Both statuses are mandatory on every
// update; the optional fields are merged only when supplied.
type UpdateJobInput struct {
	JobStatus        enums.JobStatus     `json:"job_status" validate:"required"`
	JobPaymentStatus enums.PaymentStatus `json:"job_payment_status" validate:"required"`
	Price            *decimal.Decimal    `json:"price,omitempty"`
	PersonelNote     *string             `json:"personel_note,omitempty"`
}

// JobDTO is the API projection of a service ticket.
type JobDTO struct {
	ID               uuid.UUID           `json:"id"`
	JobNumber        string              `json:"job_number"`
	Name             string              `json:"name"`
	Address          string              `json:"address"`
	City             string              `json:"city"`
	District         string              `json:"district"`
	Customer         types.JobCustomer   `json:"customer"`
	Price            decimal.Decimal     `json:"price"`
	PaymentType      enums.PaymentType   `json:"payment_type"`
	JobStatus        enums.JobStatus     `json:"job_status"`
	JobPaymentStatus enums.PaymentStatus `json:"job_payment_status"`
	AdminNote        *string             `json:"admin_note,omitempty"`
	PersonelNote     *string             `json:"personel_note,omitempty"`
	CreatedBy        uuid.UUID           `json:"created_by"`
	UpdatedBy        *string             `json:"updated_by,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// ListFilters narrows job listings.
type ListFilters struct {
	JobStatus        *enums.JobStatus
	JobPaymentStatus *enums.PaymentStatus
	City             string
}

// ListInput bundles filters with cursor pagination.
type ListInput struct {
	Filters    ListFilters
	Pagination pagination.Params
}

// JobList is one page of jobs plus the cursor for the next page.
type JobList struct {
	Jobs       []JobDTO `json:"jobs"`
	NextCursor string   `json:"next_cursor,omitempty"`
}

// FromModel maps a stored job onto its DTO.
func FromModel(job *models.Job) *JobDTO {
	return &JobDTO{
		ID:               job.ID,
		JobNumber:        job.JobNumber,
		Name:             job.Name,
		Address:          job.Address,
		City:             job.City,
		District:         job.District,
		Customer:         job.Customer,
		Price:            job.Price,
		PaymentType:      job.PaymentType,
		JobStatus:        job.JobStatus,
		JobPaymentStatus: job.JobPaymentStatus,
		AdminNote:        job.AdminNote,
		PersonelNote:     job.PersonelNote,
		CreatedBy:        job.CreatedBy,
		UpdatedBy:        job.UpdatedBy,
		CreatedAt:        job.CreatedAt,
		UpdatedAt:        job.UpdatedAt,
	}
}
