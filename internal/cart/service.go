package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lockwise/lockshop-backend/internal/identity"
	"github.com/lockwise/lockshop-backend/pkg/db/models"
	pkgerrors "github.com/lockwise/lockshop-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes the per-actor cart operations.
type Service interface {
	GetOrCreate(ctx context.Context, actor identity.Actor) (*CartDTO, error)
	Add(ctx context.Context, actor identity.Actor, productID uuid.UUID, quantity int) (*CartDTO, error)
	Update(ctx context.Context, actor identity.Actor, productID uuid.UUID, quantity int) (*CartDTO, error)
	Remove(ctx context.Context, actor identity.Actor, productID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, actor identity.Actor) (*CartDTO, error)
}

type service struct {
	repo     *Repository
	tx       txRunner
	products productLoader
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo *Repository, tx txRunner, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, tx: tx, products: products}, nil
}

func (s *service) GetOrCreate(ctx context.Context, actor identity.Actor) (*CartDTO, error) {
	userID, sessionID := actor.CartOwnerKey()
	cart, err := s.repo.FindOrCreate(ctx, userID, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return FromModel(cart), nil
}

func (s *service) Add(ctx context.Context, actor identity.Actor, productID uuid.UUID, quantity int) (*CartDTO, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be less than 1")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product.IsDeleted || !product.IsSelling {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product is not available for sale")
	}

	userID, sessionID := actor.CartOwnerKey()
	var result *models.Cart
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := repo.FindOrCreate(ctx, userID, sessionID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}

		item, err := repo.FindItem(ctx, cart.ID, productID)
		switch {
		case err == nil:
			// Quantities accumulate on repeat adds.
			if err := repo.UpdateItemQuantity(ctx, item.ID, item.Quantity+quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			newItem := &models.CartItem{
				CartID:    cart.ID,
				ProductID: productID,
				Quantity:  quantity,
				UnitPrice: product.Price,
			}
			if err := repo.CreateItem(ctx, newItem); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert cart item")
			}
		default:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
		}

		result, err = s.recomputeTotals(ctx, repo, cart.ID, userID, sessionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return FromModel(result), nil
}

func (s *service) Update(ctx context.Context, actor identity.Actor, productID uuid.UUID, quantity int) (*CartDTO, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	userID, sessionID := actor.CartOwnerKey()
	var result *models.Cart
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := repo.FindByOwner(ctx, userID, sessionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}

		item, err := repo.FindItem(ctx, cart.ID, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product is not in the cart")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
		}

		if quantity == 0 {
			// Quantity zero removes the line entirely.
			if err := repo.DeleteItem(ctx, cart.ID, productID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart item")
			}
		} else {
			if err := repo.UpdateItemQuantity(ctx, item.ID, quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
			}
		}

		result, err = s.recomputeTotals(ctx, repo, cart.ID, userID, sessionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return FromModel(result), nil
}

func (s *service) Remove(ctx context.Context, actor identity.Actor, productID uuid.UUID) (*CartDTO, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	userID, sessionID := actor.CartOwnerKey()
	var result *models.Cart
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := repo.FindByOwner(ctx, userID, sessionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}

		// Removing an absent line is a no-op, not an error.
		if err := repo.DeleteItem(ctx, cart.ID, productID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart item")
		}

		result, err = s.recomputeTotals(ctx, repo, cart.ID, userID, sessionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return FromModel(result), nil
}

func (s *service) Clear(ctx context.Context, actor identity.Actor) (*CartDTO, error) {
	userID, sessionID := actor.CartOwnerKey()
	var result *models.Cart
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := repo.FindByOwner(ctx, userID, sessionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}

		if err := repo.ClearItems(ctx, cart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart items")
		}

		result, err = s.recomputeTotals(ctx, repo, cart.ID, userID, sessionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return FromModel(result), nil
}

// recomputeTotals derives the cart totals from the stored line items and
// persists them. Totals are never trusted as caller input.
func (s *service) recomputeTotals(ctx context.Context, repo *Repository, cartID uuid.UUID, userID *uuid.UUID, sessionID *string) (*models.Cart, error) {
	cart, err := repo.FindByOwner(ctx, userID, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload cart")
	}

	totalItems := 0
	totalAmount := decimal.Zero
	for _, item := range cart.Items {
		totalItems += item.Quantity
		totalAmount = totalAmount.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	if err := repo.UpdateTotals(ctx, cartID, totalItems, totalAmount); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart totals")
	}
	cart.TotalItems = totalItems
	cart.TotalAmount = totalAmount
	return cart, nil
}
