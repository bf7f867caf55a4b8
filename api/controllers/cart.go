package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/lockwise/lockshop-backend/api/responses"
	"github.com/lockwise/lockshop-backend/api/validators"
	cartsvc "github.com/lockwise/lockshop-backend/internal/cart"
	"github.com/lockwise/lockshop-backend/internal/identity"
	pkgerrors "github.com/lockwise/lockshop-backend/pkg/errors"
	"github.com/lockwise/lockshop-backend/pkg/logger"
)

// GetCart returns the caller's cart, creating an empty one on first touch.
func GetCart(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := cartActor(w, r, svc, logg)
		if !ok {
			return
		}

		cart, err := svc.GetOrCreate(r.Context(), actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "cart fetched", cart)
	}
}

// AddCartItem adds a product to the cart or bumps its quantity.
func AddCartItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := cartActor(w, r, svc, logg)
		if !ok {
			return
		}

		var payload cartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.Add(r.Context(), actor, payload.ProductID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "item added", cart)
	}
}

// UpdateCartItem sets the exact quantity for a cart line. Zero removes it.
func UpdateCartItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := cartActor(w, r, svc, logg)
		if !ok {
			return
		}

		productID, err := parseIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.Update(r.Context(), actor, productID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "cart updated", cart)
	}
}

// RemoveCartItem drops a cart line. Removing an absent line is a no-op.
func RemoveCartItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := cartActor(w, r, svc, logg)
		if !ok {
			return
		}

		productID, err := parseIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.Remove(r.Context(), actor, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "item removed", cart)
	}
}

// ClearCart empties the cart in one call.
func ClearCart(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := cartActor(w, r, svc, logg)
		if !ok {
			return
		}

		cart, err := svc.Clear(r.Context(), actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "cart cleared", cart)
	}
}

func cartActor(w http.ResponseWriter, r *http.Request, svc cartsvc.Service, logg *logger.Logger) (identity.Actor, bool) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
		return identity.Actor{}, false
	}
	actor, ok := identity.FromContext(r.Context())
	if !ok {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "guest session id required"))
		return identity.Actor{}, false
	}
	return actor, true
}

type cartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}
