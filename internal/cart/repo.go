package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lockwise/lockshop-backend/pkg/db/models"
)

// Repository exposes cart persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByOwner loads the cart for the owning key, with items and their
// current product rows for display.
func (r *Repository) FindByOwner(ctx context.Context, userID *uuid.UUID, sessionID *string) (*models.Cart, error) {
	var cart models.Cart
	query := r.db.WithContext(ctx).Preload("Items.Product")
	query = scopeOwner(query, userID, sessionID)
	if err := query.First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindOrCreate returns the owner's cart, creating an empty one when absent.
// The insert is a no-op on conflict so concurrent first-time creation
// against the partial unique owner indexes cannot produce two carts.
func (r *Repository) FindOrCreate(ctx context.Context, userID *uuid.UUID, sessionID *string) (*models.Cart, error) {
	cart, err := r.FindByOwner(ctx, userID, sessionID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := &models.Cart{
		ID:          uuid.New(),
		UserID:      userID,
		SessionID:   sessionID,
		TotalAmount: decimal.Zero,
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(fresh).Error
	if err != nil {
		return nil, err
	}

	return r.FindByOwner(ctx, userID, sessionID)
}

// FindItem loads the line item for the product within the cart.
func (r *Repository) FindItem(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateItem inserts a new line item.
func (r *Repository) CreateItem(ctx context.Context, item *models.CartItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(item).Error
}

// UpdateItemQuantity sets the line item quantity to the exact value.
func (r *Repository) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", itemID).
		UpdateColumn("quantity", quantity).Error
}

// DeleteItem removes the line item for the product, if present.
func (r *Repository) DeleteItem(ctx context.Context, cartID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&models.CartItem{}).Error
}

// ClearItems removes every line item from the cart.
func (r *Repository) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).Error
}

// UpdateTotals persists the recomputed cart totals.
func (r *Repository) UpdateTotals(ctx context.Context, cartID uuid.UUID, totalItems int, totalAmount decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ?", cartID).
		UpdateColumns(map[string]any{
			"total_items":  totalItems,
			"total_amount": totalAmount,
		}).Error
}

// StaleGuestCart identifies an abandoned guest cart picked up by the
// cleanup sweep.
type StaleGuestCart struct {
	ID        uuid.UUID
	SessionID string
}

// FindStaleGuestCartIDs returns guest carts whose last mutation predates the
// cutoff. Carts owned by users are excluded.
func (r *Repository) FindStaleGuestCartIDs(ctx context.Context, cutoff time.Time) ([]StaleGuestCart, error) {
	var stale []StaleGuestCart
	err := r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Select("id", "session_id").
		Where("session_id IS NOT NULL").
		Where("updated_at < ?", cutoff).
		Find(&stale).Error
	if err != nil {
		return nil, err
	}
	return stale, nil
}

// DeleteCart removes a cart and its items.
func (r *Repository) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	if err := r.ClearItems(ctx, cartID); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&models.Cart{}, "id = ?", cartID).Error
}

func scopeOwner(query *gorm.DB, userID *uuid.UUID, sessionID *string) *gorm.DB {
	if userID != nil {
		return query.Where("user_id = ?", *userID)
	}
	return query.Where("session_id = ?", *sessionID)
}
