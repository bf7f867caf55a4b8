package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lockwise/lockshop-backend/api/responses"
	"github.com/lockwise/lockshop-backend/internal/identity"
	pkgauth "github.com/lockwise/lockshop-backend/pkg/auth"
	"github.com/lockwise/lockshop-backend/pkg/config"
	"github.com/lockwise/lockshop-backend/pkg/db/models"
	pkgerrors "github.com/lockwise/lockshop-backend/pkg/errors"
	"github.com/lockwise/lockshop-backend/pkg/logger"
)

const sessionIDHeader = "X-Session-Id"

const maxSessionIDLength = 128

type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Actor resolves the request's identity. A valid auth cookie wins and maps
// to a user actor; failing that, a session header maps to a guest actor.
// Requests without either proceed unresolved so public routes still work;
// gates that need an actor reject them later.
func Actor(cfg config.JWTConfig, users userFinder, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if token := tokenFromCookie(r, cfg.CookieName); token != "" {
				claims, err := pkgauth.ParseAccessToken(cfg, token)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
					return
				}

				user, err := users.FindByID(ctx, claims.UserID)
				if err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "user not found"))
						return
					}
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user"))
					return
				}

				actor := identity.NewUserActor(user)
				ctx = identity.WithActor(ctx, actor)
				if logg != nil {
					ctx = logg.WithUserID(ctx, user.ID.String())
					ctx = logg.WithActorRole(ctx, user.Role.String())
				}
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if sessionID := strings.TrimSpace(r.Header.Get(sessionIDHeader)); sessionID != "" {
				// Truncating would let two distinct long ids share a cart.
				if len(sessionID) > maxSessionIDLength {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session id too long"))
					return
				}
				actor := identity.NewGuestActor(sessionID)
				ctx = identity.WithActor(ctx, actor)
				if logg != nil {
					ctx = logg.WithSessionID(ctx, sessionID)
				}
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func tokenFromCookie(r *http.Request, cookieName string) string {
	if cookieName == "" {
		return ""
	}
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cookie.Value)
}
