package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/lockwise/lockshop-backend/internal/identity"
	"github.com/lockwise/lockshop-backend/pkg/db/models"
	"github.com/lockwise/lockshop-backend/pkg/enums"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestWithActor(actor *identity.Actor) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil)
	if actor != nil {
		req = req.WithContext(identity.WithActor(req.Context(), *actor))
	}
	return req
}

func userActor(role enums.UserRole, isAdmin bool) identity.Actor {
	return identity.NewUserActor(&models.User{
		ID:      uuid.New(),
		Role:    role,
		IsAdmin: isAdmin,
	})
}

func TestRequireActor(t *testing.T) {
	handler := RequireActor(nil)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithActor(nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without actor, got %d", rec.Code)
	}

	guest := identity.NewGuestActor("guest-1")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithActor(&guest))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for guest, got %d", rec.Code)
	}

	user := userActor(enums.UserRoleCustomer, false)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithActor(&user))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for user, got %d", rec.Code)
	}
}

func TestRequireAuthenticated(t *testing.T) {
	handler := RequireAuthenticated(nil)(okHandler())

	guest := identity.NewGuestActor("guest-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithActor(&guest))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for guest, got %d", rec.Code)
	}

	user := userActor(enums.UserRoleCustomer, false)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithActor(&user))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for user, got %d", rec.Code)
	}
}

func TestRoleGates(t *testing.T) {
	tests := []struct {
		name    string
		gate    func(http.Handler) http.Handler
		actor   identity.Actor
		wantOK  bool
		wantErr int
	}{
		{"admin gate admits flagged admin", RequireAdmin(nil), userActor(enums.UserRoleAdmin, true), true, 0},
		{"admin gate rejects unflagged admin role", RequireAdmin(nil), userActor(enums.UserRoleAdmin, false), false, http.StatusForbidden},
		{"admin gate rejects flagged non-admin role", RequireAdmin(nil), userActor(enums.UserRoleManager, true), false, http.StatusForbidden},
		{"admin gate rejects customer", RequireAdmin(nil), userActor(enums.UserRoleCustomer, false), false, http.StatusForbidden},
		{"manager gate admits manager", RequireAdminOrManager(nil), userActor(enums.UserRoleManager, false), true, 0},
		{"manager gate admits admin", RequireAdminOrManager(nil), userActor(enums.UserRoleAdmin, true), true, 0},
		{"manager gate admits unflagged admin role", RequireAdminOrManager(nil), userActor(enums.UserRoleAdmin, false), true, 0},
		{"manager gate rejects personel", RequireAdminOrManager(nil), userActor(enums.UserRolePersonel, false), false, http.StatusForbidden},
		{"staff gate admits personel", RequireStaff(nil), userActor(enums.UserRolePersonel, false), true, 0},
		{"staff gate admits manager", RequireStaff(nil), userActor(enums.UserRoleManager, false), true, 0},
		{"staff gate admits unflagged admin role", RequireStaff(nil), userActor(enums.UserRoleAdmin, false), true, 0},
		{"staff gate rejects customer", RequireStaff(nil), userActor(enums.UserRoleCustomer, false), false, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := tt.gate(okHandler())
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, requestWithActor(&tt.actor))

			if tt.wantOK && rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if !tt.wantOK && rec.Code != tt.wantErr {
				t.Fatalf("expected %d, got %d", tt.wantErr, rec.Code)
			}
		})
	}
}

func TestRoleGatesRejectGuestsAndAnonymous(t *testing.T) {
	gates := []func(http.Handler) http.Handler{
		RequireAuthenticated(nil),
		RequireAdmin(nil),
		RequireAdminOrManager(nil),
		RequireStaff(nil),
	}
	guest := identity.NewGuestActor("guest-1")

	for _, gate := range gates {
		handler := gate(okHandler())

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestWithActor(nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for anonymous, got %d", rec.Code)
		}

		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, requestWithActor(&guest))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for guest, got %d", rec.Code)
		}
	}
}
