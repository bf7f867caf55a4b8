package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lockwise/lockshop-backend/internal/identity"
	"github.com/lockwise/lockshop-backend/internal/products"
	"github.com/lockwise/lockshop-backend/pkg/db/models"
	pkgerrors "github.com/lockwise/lockshop-backend/pkg/errors"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			description TEXT,
			category TEXT NOT NULL,
			tags TEXT,
			properties TEXT NOT NULL,
			image_urls TEXT,
			color TEXT,
			price TEXT NOT NULL,
			stock INTEGER NOT NULL DEFAULT 0,
			is_selling INTEGER NOT NULL DEFAULT 1,
			is_deleted INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS carts (
			id TEXT PRIMARY KEY,
			user_id TEXT,
			session_id TEXT,
			total_items INTEGER NOT NULL DEFAULT 0,
			total_amount TEXT NOT NULL DEFAULT '0',
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_carts_user_id ON carts (user_id) WHERE user_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_carts_session_id ON carts (session_id) WHERE session_id IS NOT NULL`,
		`CREATE TABLE IF NOT EXISTS cart_items (
			id TEXT PRIMARY KEY,
			cart_id TEXT NOT NULL,
			product_id TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			unit_price TEXT NOT NULL,
			created_at DATETIME,
			updated_at DATETIME,
			UNIQUE (cart_id, product_id)
		)`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newCartService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := setupCartTestDB(t)
	svc, err := NewService(NewRepository(db), gormTxRunner{db: db}, products.NewRepository(db))
	require.NoError(t, err)
	return svc, db
}

func seedProduct(t *testing.T, db *gorm.DB, price string, selling bool) *models.Product {
	t.Helper()
	p := &models.Product{
		ID:         uuid.New(),
		Name:       "Deadbolt " + uuid.NewString()[:8],
		Slug:       "deadbolt-" + uuid.NewString()[:8],
		Category:   "door_lock",
		Properties: pq.StringArray{"steel body"},
		Price:      decimal.RequireFromString(price),
		Stock:      10,
		IsSelling:  selling,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestAddComputesTotalsFromItems(t *testing.T) {
	svc, db := newCartService(t)
	ctx := context.Background()
	actor := identity.NewGuestActor("sess-add-1")

	product := seedProduct(t, db, "100.00", true)

	cart, err := svc.Add(ctx, actor, product.ID, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.TotalItems)
	assert.True(t, cart.TotalAmount.Equal(decimal.RequireFromString("200.00")),
		"total amount = %s", cart.TotalAmount)
	assert.True(t, cart.Items[0].UnitPrice.Equal(decimal.RequireFromString("100.00")))
}

func TestAddAccumulatesQuantityOnRepeat(t *testing.T) {
	svc, db := newCartService(t)
	ctx := context.Background()
	actor := identity.NewGuestActor("sess-add-2")

	product := seedProduct(t, db, "100.00", true)

	_, err := svc.Add(ctx, actor, product.ID, 2)
	require.NoError(t, err)

	cart, err := svc.Add(ctx, actor, product.ID, 3)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, 5, cart.TotalItems)
	assert.True(t, cart.TotalAmount.Equal(decimal.RequireFromString("500.00")))
}

func TestAddRejectsBadQuantityAndUnavailableProducts(t *testing.T) {
	svc, db := newCartService(t)
	ctx := context.Background()
	actor := identity.NewGuestActor("sess-add-3")

	product := seedProduct(t, db, "50.00", true)
	hidden := seedProduct(t, db, "50.00", false)

	_, err := svc.Add(ctx, actor, product.ID, 0)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.Contains(t, err.Error(), "quantity cannot be less than 1")

	_, err = svc.Add(ctx, actor, uuid.New(), 1)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	_, err = svc.Add(ctx, actor, hidden.ID, 1)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestAddKeepsUnitPriceSnapshot(t *testing.T) {
	svc, db := newCartService(t)
	ctx := context.Background()
	actor := identity.NewGuestActor("sess-add-4")

	product := seedProduct(t, db, "100.00", true)

	_, err := svc.Add(ctx, actor, product.ID, 1)
	require.NoError(t, err)

	// Raising the catalog price must not move existing lines.
	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("price", decimal.RequireFromString("150.00")).Error)

	cart, err := svc.Add(ctx, actor, product.ID, 1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.True(t, cart.Items[0].UnitPrice.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, cart.TotalAmount.Equal(decimal.RequireFromString("200.00")))
}

func TestUpdateZeroRemovesLine(t *testing.T) {
	svc, db := newCartService(t)
	ctx := context.Background()
	actor := identity.NewGuestActor("sess-upd-1")

	product := seedProduct(t, db, "100.00", true)

	_, err := svc.Add(ctx, actor, product.ID, 2)
	require.NoError(t, err)

	cart, err := svc.Update(ctx, actor, product.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.TotalItems)
	assert.True(t, cart.TotalAmount.IsZero())
}

func TestUpdateSetsExactQuantity(t *testing.T) {
	svc, db := newCartService(t)
	ctx := context.Background()
	actor := identity.NewGuestActor("sess-upd-2")

	product := seedProduct(t, db, "25.00", true)

	_, err := svc.Add(ctx, actor, product.ID, 2)
	require.NoError(t, err)

	cart, err := svc.Update(ctx, actor, product.ID, 7)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 7, cart.Items[0].Quantity)
	assert.Equal(t, 7, cart.TotalItems)
	assert.True(t, cart.TotalAmount.Equal(decimal.RequireFromString("175.00")))
}

func TestUpdateErrors(t *testing.T) {
	svc, db := newCartService(t)
	ctx := context.Background()
	actor := identity.NewGuestActor("sess-upd-3")

	product := seedProduct(t, db, "25.00", true)

	_, err := svc.Update(ctx, actor, product.ID, 1)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code(), "no cart yet")

	_, err = svc.Add(ctx, actor, product.ID, 1)
	require.NoError(t, err)

	_, err = svc.Update(ctx, actor, uuid.New(), 1)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code(), "line not in cart")

	_, err = svc.Update(ctx, actor, product.ID, -1)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestRemoveIsIdempotent(t *testing.T) {
	svc, db := newCartService(t)
	ctx := context.Background()
	actor := identity.NewGuestActor("sess-rem-1")

	product := seedProduct(t, db, "30.00", true)
	other := seedProduct(t, db, "10.00", true)

	_, err := svc.Add(ctx, actor, product.ID, 1)
	require.NoError(t, err)
	_, err = svc.Add(ctx, actor, other.ID, 2)
	require.NoError(t, err)

	cart, err := svc.Remove(ctx, actor, product.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.TotalItems)
	assert.True(t, cart.TotalAmount.Equal(decimal.RequireFromString("20.00")))

	// Removing the same line again is not an error.
	cart, err = svc.Remove(ctx, actor, product.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestClearEmptiesCart(t *testing.T) {
	svc, db := newCartService(t)
	ctx := context.Background()
	actor := identity.NewGuestActor("sess-clr-1")

	product := seedProduct(t, db, "30.00", true)
	_, err := svc.Add(ctx, actor, product.ID, 4)
	require.NoError(t, err)

	cart, err := svc.Clear(ctx, actor)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.TotalItems)
	assert.True(t, cart.TotalAmount.IsZero())
}

func TestGetOrCreateIsStablePerOwner(t *testing.T) {
	svc, _ := newCartService(t)
	ctx := context.Background()

	guest := identity.NewGuestActor("sess-own-1")
	first, err := svc.GetOrCreate(ctx, guest)
	require.NoError(t, err)
	second, err := svc.GetOrCreate(ctx, guest)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	user := identity.NewUserActor(&models.User{ID: uuid.New(), Role: "customer"})
	userCart, err := svc.GetOrCreate(ctx, user)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, userCart.ID)
}
