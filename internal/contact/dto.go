package contact

import (
	"time"

	"github.com/google/uuid"

	"github.com/lockwise/lockshop-backend/pkg/db/models"
	"github.com/lockwise/lockshop-backend/pkg/pagination"
)

// CreateMessageInput is the public contact-form payload.
type CreateMessageInput struct {
	FullName string  `json:"full_name" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Phone    *string `json:"phone,omitempty"`
	Subject  string  `json:"subject" validate:"required"`
	Message  string  `json:"message" validate:"required"`
}

// MessageDTO is the API projection of a contact message.
type MessageDTO struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// ListInput pages contact messages, optionally only unread ones.
type ListInput struct {
	UnreadOnly bool
	Pagination pagination.Params
}

// MessageList is one page of messages plus the cursor for the next page.
type MessageList struct {
	Messages   []MessageDTO `json:"messages"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// FromModel maps a stored message onto its DTO.
func FromModel(msg *models.ContactMessage) *MessageDTO {
	return &MessageDTO{
		ID:        msg.ID,
		FullName:  msg.FullName,
		Email:     msg.Email,
		Phone:     msg.Phone,
		Subject:   msg.Subject,
		Message:   msg.Message,
		IsRead:    msg.IsRead,
		CreatedAt: msg.CreatedAt,
	}
}
