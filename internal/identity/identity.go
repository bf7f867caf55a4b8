// Package identity models the resolved caller of a request: either an
// authenticated user or a guest shopping session.
package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/lockwise/lockshop-backend/pkg/db/models"
	"github.com/lockwise/lockshop-backend/pkg/enums"
)

// Kind discriminates the two actor variants.
type Kind string

const (
	KindUser  Kind = "user"
	KindGuest Kind = "guest"
)

// Actor is the resolved identity driving a request. Exactly one of UserID
// and SessionID is set, matching the kind.
type Actor struct {
	Kind      Kind
	UserID    uuid.UUID
	SessionID string
	User      *models.User
}

// NewUserActor builds an actor for an authenticated user.
func NewUserActor(user *models.User) Actor {
	return Actor{Kind: KindUser, UserID: user.ID, User: user}
}

// NewGuestActor builds an actor for an anonymous shopping session.
func NewGuestActor(sessionID string) Actor {
	return Actor{Kind: KindGuest, SessionID: sessionID}
}

// IsUser reports whether the actor is an authenticated user.
func (a Actor) IsUser() bool {
	return a.Kind == KindUser
}

// IsGuest reports whether the actor is a guest session.
func (a Actor) IsGuest() bool {
	return a.Kind == KindGuest
}

// Role returns the actor's role, or empty for guests.
func (a Actor) Role() enums.UserRole {
	if a.User == nil {
		return ""
	}
	return a.User.Role
}

// IsAdmin reports whether the actor passes the strictest admin gate: the
// admin role and the is_admin flag are checked independently.
func (a Actor) IsAdmin() bool {
	return a.User != nil && a.User.Role == enums.UserRoleAdmin && a.User.IsAdmin
}

// CartOwnerKey returns the pointer pair used as the cart owning key. For a
// user actor the session id is nil, and vice versa.
func (a Actor) CartOwnerKey() (*uuid.UUID, *string) {
	if a.IsUser() {
		id := a.UserID
		return &id, nil
	}
	sid := a.SessionID
	return nil, &sid
}

type contextKey string

const ctxActor contextKey = "actor"

// WithActor injects the resolved actor into the context.
func WithActor(ctx context.Context, actor Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxActor, actor)
}

// FromContext returns the actor attached to the context, if any.
func FromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(ctxActor).(Actor)
	return actor, ok
}
