package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lockwise/lockshop-backend/pkg/db/models"
	pkgerrors "github.com/lockwise/lockshop-backend/pkg/errors"
)

const maxMessageLength = 5000

// Service handles storefront contact-form intake and its back-office inbox.
type Service interface {
	Create(ctx context.Context, input CreateMessageInput) (*MessageDTO, error)
	List(ctx context.Context, input ListInput) (*MessageList, error)
	MarkRead(ctx context.Context, id uuid.UUID) (*MessageDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService builds a contact service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("contact repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateMessageInput) (*MessageDTO, error) {
	fullName := strings.TrimSpace(input.FullName)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	subject := strings.TrimSpace(input.Subject)
	message := strings.TrimSpace(input.Message)

	if fullName == "" || subject == "" || message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name, subject and message are required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid email address is required")
	}
	if len(message) > maxMessageLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("message cannot exceed %d characters", maxMessageLength))
	}

	created, err := s.repo.Create(ctx, &models.ContactMessage{
		FullName: fullName,
		Email:    email,
		Phone:    input.Phone,
		Subject:  subject,
		Message:  message,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist contact message")
	}
	return FromModel(created), nil
}

func (s *service) List(ctx context.Context, input ListInput) (*MessageList, error) {
	list, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list contact messages")
	}
	return list, nil
}

func (s *service) MarkRead(ctx context.Context, id uuid.UUID) (*MessageDTO, error) {
	err := s.repo.MarkRead(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "contact message not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark contact message read")
	}

	msg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load contact message")
	}
	return FromModel(msg), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "contact message not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete contact message")
	}
	return nil
}
