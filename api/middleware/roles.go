package middleware

import (
	"net/http"

	"github.com/lockwise/lockshop-backend/api/responses"
	"github.com/lockwise/lockshop-backend/internal/identity"
	"github.com/lockwise/lockshop-backend/pkg/enums"
	pkgerrors "github.com/lockwise/lockshop-backend/pkg/errors"
	"github.com/lockwise/lockshop-backend/pkg/logger"
)

// RequireActor admits any resolved identity, user or guest. Cart and
// checkout routes sit behind this so anonymous requests carry a session id.
func RequireActor(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := identity.FromContext(r.Context()); !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "guest session id required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuthenticated admits only logged-in users.
func RequireAuthenticated(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := identity.FromContext(r.Context())
			if !ok || !actor.IsUser() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin admits users whose role is admin and whose admin flag is set.
// Both must hold; a stale flag without the role is not enough.
func RequireAdmin(logg *logger.Logger) func(http.Handler) http.Handler {
	return requireRoles(logg, func(actor identity.Actor) bool {
		return actor.IsAdmin()
	})
}

// RequireAdminOrManager gates management routes such as order status
// updates. Membership is by role alone; the is_admin flag only matters
// to RequireAdmin.
func RequireAdminOrManager(logg *logger.Logger) func(http.Handler) http.Handler {
	return requireRoles(logg, func(actor identity.Actor) bool {
		switch actor.Role() {
		case enums.UserRoleAdmin, enums.UserRoleManager:
			return true
		}
		return false
	})
}

// RequireStaff admits the admin, manager and personel roles. Job tickets
// are worked by field personel, so this is the widest staff gate.
func RequireStaff(logg *logger.Logger) func(http.Handler) http.Handler {
	return requireRoles(logg, func(actor identity.Actor) bool {
		switch actor.Role() {
		case enums.UserRoleAdmin, enums.UserRoleManager, enums.UserRolePersonel:
			return true
		}
		return false
	})
}

func requireRoles(logg *logger.Logger, allowed func(identity.Actor) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := identity.FromContext(r.Context())
			if !ok || !actor.IsUser() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}
			if !allowed(actor) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient permissions"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
