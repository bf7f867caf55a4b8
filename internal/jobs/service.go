package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lockwise/lockshop-backend/internal/identity"
	"github.com/lockwise/lockshop-backend/pkg/db/models"
	"github.com/lockwise/lockshop-backend/pkg/enums"
	pkgerrors "github.com/lockwise/lockshop-backend/pkg/errors"
	"github.com/lockwise/lockshop-backend/pkg/refcode"
)

const (
	jobNumberPrefix = "JOB"
	jobNumberLength = 10

	minJobNameLength = 6
)

// Service exposes service-ticket operations for the back office.
type Service interface {
	Create(ctx context.Context, actor identity.Actor, input CreateJobInput) (*JobDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*JobDTO, error)
	List(ctx context.Context, input ListInput) (*JobList, error)
	Update(ctx context.Context, actor identity.Actor, id uuid.UUID, input UpdateJobInput) (*JobDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService builds a job ticket service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("jobs repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, actor identity.Actor, input CreateJobInput) (*JobDTO, error) {
	if !actor.IsUser() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated user required")
	}
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	jobNumber, err := refcode.Generate(ctx, jobNumberPrefix, jobNumberLength, s.repo.JobNumberExists)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "generate job number")
	}

	job := &models.Job{
		JobNumber:        jobNumber,
		Name:             strings.TrimSpace(input.Name),
		Address:          strings.TrimSpace(input.Address),
		City:             strings.TrimSpace(input.City),
		District:         strings.TrimSpace(input.District),
		Customer:         input.Customer,
		Price:            input.Price,
		PaymentType:      input.PaymentType,
		JobStatus:        enums.JobStatusPending,
		JobPaymentStatus: enums.PaymentStatusPending,
		AdminNote:        input.AdminNote,
		CreatedBy:        actor.UserID,
	}
	created, err := s.repo.Create(ctx, job)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist job")
	}
	return FromModel(created), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*JobDTO, error) {
	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "job not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load job")
	}
	return FromModel(job), nil
}

func (s *service) List(ctx context.Context, input ListInput) (*JobList, error) {
	list, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list jobs")
	}
	return list, nil
}

// Update overwrites both status columns and merges the optional fields.
// UpdatedBy records the editor's first name as it reads right now.
func (s *service) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, input UpdateJobInput) (*JobDTO, error) {
	if !actor.IsUser() || actor.User == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated user required")
	}
	if !input.JobStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid job status %q", input.JobStatus))
	}
	if !input.JobPaymentStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment status %q", input.JobPaymentStatus))
	}
	if input.Price != nil && input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	updates := map[string]any{
		"job_status":         input.JobStatus,
		"job_payment_status": input.JobPaymentStatus,
		"updated_by":         actor.User.FirstName,
	}
	if input.Price != nil {
		updates["price"] = *input.Price
	}
	if input.PersonelNote != nil {
		updates["personel_note"] = *input.PersonelNote
	}

	err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "job not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update job")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "job not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete job")
	}
	return nil
}

func validateCreateInput(input CreateJobInput) error {
	if len(strings.TrimSpace(input.Name)) < minJobNameLength {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("job name must be at least %d characters", minJobNameLength))
	}
	if strings.TrimSpace(input.Address) == "" ||
		strings.TrimSpace(input.City) == "" ||
		strings.TrimSpace(input.District) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "address, city and district are required")
	}
	if strings.TrimSpace(input.Customer.FullName) == "" || strings.TrimSpace(input.Customer.Phone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer full name and phone are required")
	}
	if !input.PaymentType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment type %q", input.PaymentType))
	}
	if input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	return nil
}
