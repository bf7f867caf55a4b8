package orders

import (
	"context"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lockwise/lockshop-backend/internal/cart"
	"github.com/lockwise/lockshop-backend/internal/identity"
	"github.com/lockwise/lockshop-backend/pkg/db/models"
	"github.com/lockwise/lockshop-backend/pkg/enums"
	pkgerrors "github.com/lockwise/lockshop-backend/pkg/errors"
	"github.com/lockwise/lockshop-backend/pkg/types"
)

var orderNumberPattern = regexp.MustCompile(`^ORD[A-Z0-9]{9,}$`)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func setupOrdersTestDB(t *testing.T) *gorm.DB {
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
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			order_number TEXT NOT NULL UNIQUE,
			user_id TEXT,
			session_id TEXT,
			customer_info TEXT NOT NULL,
			order_type TEXT NOT NULL,
			payment_type TEXT NOT NULL,
			order_status TEXT NOT NULL DEFAULT 'pending',
			payment_status TEXT NOT NULL DEFAULT 'pending',
			sub_total TEXT NOT NULL,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id TEXT PRIMARY KEY,
			order_id TEXT NOT NULL,
			product_id TEXT NOT NULL,
			name TEXT NOT NULL,
			image_urls TEXT,
			color TEXT,
			unit_price TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			total_price TEXT NOT NULL,
			created_at DATETIME,
			updated_at DATETIME
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

type ordersTestEnv struct {
	db       *gorm.DB
	svc      Service
	cartRepo *cart.Repository
}

func newOrdersEnv(t *testing.T) ordersTestEnv {
	t.Helper()
	db := setupOrdersTestDB(t)
	svc, err := NewService(NewRepository(db), cart.NewRepository(db), gormTxRunner{db: db})
	require.NoError(t, err)
	return ordersTestEnv{db: db, svc: svc, cartRepo: cart.NewRepository(db)}
}

func (e ordersTestEnv) seedProduct(t *testing.T, name, price string) *models.Product {
	t.Helper()
	p := &models.Product{
		ID:         uuid.New(),
		Name:       name,
		Slug:       "p-" + uuid.NewString()[:8],
		Category:   "door_lock",
		Properties: pq.StringArray{"steel body"},
		ImageURLs:  pq.StringArray{"https://cdn.example.com/" + name + ".jpg"},
		Price:      decimal.RequireFromString(price),
		Stock:      5,
		IsSelling:  true,
	}
	require.NoError(t, e.db.Create(p).Error)
	return p
}

func (e ordersTestEnv) seedCart(t *testing.T, actor identity.Actor, lines map[uuid.UUID]cartLine) *models.Cart {
	t.Helper()
	ctx := context.Background()
	userID, sessionID := actor.CartOwnerKey()
	c, err := e.cartRepo.FindOrCreate(ctx, userID, sessionID)
	require.NoError(t, err)

	totalItems := 0
	totalAmount := decimal.Zero
	for productID, line := range lines {
		require.NoError(t, e.cartRepo.CreateItem(ctx, &models.CartItem{
			CartID:    c.ID,
			ProductID: productID,
			Quantity:  line.qty,
			UnitPrice: line.unitPrice,
		}))
		totalItems += line.qty
		totalAmount = totalAmount.Add(line.unitPrice.Mul(decimal.NewFromInt(int64(line.qty))))
	}
	require.NoError(t, e.cartRepo.UpdateTotals(ctx, c.ID, totalItems, totalAmount))
	return c
}

type cartLine struct {
	qty       int
	unitPrice decimal.Decimal
}

func validCustomerInfo() types.CustomerInfo {
	return types.CustomerInfo{
		FullName: "Mehmet Yilmaz",
		Email:    "mehmet@example.com",
		Phone:    "+90 555 000 0000",
		DeliveryAddress: types.Address{
			Line1: "Istiklal Caddesi 1",
			City:  "Istanbul",
		},
	}
}

func validCheckoutInput() CreateOrderInput {
	return CreateOrderInput{
		CustomerInfo: validCustomerInfo(),
		PaymentType:  enums.PaymentTypeCreditCard,
		OrderType:    enums.OrderTypeOnline,
	}
}

func TestCreateOrderFromCart(t *testing.T) {
	env := newOrdersEnv(t)
	ctx := context.Background()
	actor := identity.NewGuestActor("sess-ord-1")

	product := env.seedProduct(t, "Smart Deadbolt", "100.00")
	env.seedCart(t, actor, map[uuid.UUID]cartLine{
		product.ID: {qty: 2, unitPrice: decimal.RequireFromString("100.00")},
	})

	order, err := env.svc.Create(ctx, actor, validCheckoutInput())
	require.NoError(t, err)

	assert.Regexp(t, orderNumberPattern, order.OrderNumber)
	assert.Equal(t, enums.OrderStatusPending, order.OrderStatus)
	assert.Equal(t, enums.PaymentStatusPending, order.PaymentStatus)
	assert.True(t, order.SubTotal.Equal(decimal.RequireFromString("200.00")))
	require.Len(t, order.Items, 1)
	assert.Equal(t, product.ID, order.Items[0].ProductID)
	assert.Equal(t, "Smart Deadbolt", order.Items[0].Name)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.True(t, order.Items[0].TotalPrice.Equal(decimal.RequireFromString("200.00")))
	assert.Equal(t, "Mehmet Yilmaz", order.CustomerInfo.FullName)

	// Checkout empties the cart in the same transaction.
	userID, sessionID := actor.CartOwnerKey()
	c, err := env.cartRepo.FindByOwner(ctx, userID, sessionID)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
	assert.Equal(t, 0, c.TotalItems)
	assert.True(t, c.TotalAmount.IsZero())
}

func TestCreateOrderFailsOnEmptyCart(t *testing.T) {
	env := newOrdersEnv(t)
	ctx := context.Background()
	actor := identity.NewGuestActor("sess-ord-2")

	// No cart at all.
	_, err := env.svc.Create(ctx, actor, validCheckoutInput())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.Contains(t, err.Error(), "cart is empty")

	// A cart with zero items fails the same way.
	env.seedCart(t, actor, nil)
	_, err = env.svc.Create(ctx, actor, validCheckoutInput())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreateOrderValidation(t *testing.T) {
	env := newOrdersEnv(t)
	ctx := context.Background()
	actor := identity.NewGuestActor("sess-ord-3")

	missingInfo := validCheckoutInput()
	missingInfo.CustomerInfo.Phone = " "
	_, err := env.svc.Create(ctx, actor, missingInfo)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	badPayment := validCheckoutInput()
	badPayment.PaymentType = "barter"
	_, err = env.svc.Create(ctx, actor, badPayment)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	badType := validCheckoutInput()
	badType.OrderType = "wholesale"
	_, err = env.svc.Create(ctx, actor, badType)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreateOrderRejectsDanglingCartLine(t *testing.T) {
	env := newOrdersEnv(t)
	ctx := context.Background()
	actor := identity.NewGuestActor("sess-ord-4")

	product := env.seedProduct(t, "Padlock", "40.00")
	env.seedCart(t, actor, map[uuid.UUID]cartLine{
		product.ID: {qty: 1, unitPrice: decimal.RequireFromString("40.00")},
	})
	require.NoError(t, env.db.Delete(&models.Product{}, "id = ?", product.ID).Error)

	_, err := env.svc.Create(ctx, actor, validCheckoutInput())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.Contains(t, err.Error(), "missing product")
}

func TestOrderSnapshotSurvivesProductEdits(t *testing.T) {
	env := newOrdersEnv(t)
	ctx := context.Background()
	actor := identity.NewGuestActor("sess-ord-5")

	product := env.seedProduct(t, "Cylinder Lock", "75.00")
	env.seedCart(t, actor, map[uuid.UUID]cartLine{
		product.ID: {qty: 1, unitPrice: decimal.RequireFromString("75.00")},
	})

	order, err := env.svc.Create(ctx, actor, validCheckoutInput())
	require.NoError(t, err)

	require.NoError(t, env.db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"name":  "Renamed Lock",
			"price": decimal.RequireFromString("999.00"),
		}).Error)

	reloaded, err := env.svc.Get(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.Equal(t, "Cylinder Lock", reloaded.Items[0].Name)
	assert.True(t, reloaded.Items[0].UnitPrice.Equal(decimal.RequireFromString("75.00")))
}

func TestUpdateStatusOverwritesBothColumns(t *testing.T) {
	env := newOrdersEnv(t)
	ctx := context.Background()
	actor := identity.NewGuestActor("sess-ord-6")

	product := env.seedProduct(t, "Mortise Lock", "60.00")
	env.seedCart(t, actor, map[uuid.UUID]cartLine{
		product.ID: {qty: 1, unitPrice: decimal.RequireFromString("60.00")},
	})
	order, err := env.svc.Create(ctx, actor, validCheckoutInput())
	require.NoError(t, err)

	updated, err := env.svc.UpdateStatus(ctx, order.ID, UpdateStatusInput{
		OrderStatus:   enums.OrderStatusShipped,
		PaymentStatus: enums.PaymentStatusSuccess,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, updated.OrderStatus)
	assert.Equal(t, enums.PaymentStatusSuccess, updated.PaymentStatus)

	// No transition table: moving back to pending is allowed.
	updated, err = env.svc.UpdateStatus(ctx, order.ID, UpdateStatusInput{
		OrderStatus:   enums.OrderStatusPending,
		PaymentStatus: enums.PaymentStatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPending, updated.OrderStatus)
}

func TestUpdateStatusErrors(t *testing.T) {
	env := newOrdersEnv(t)
	ctx := context.Background()

	_, err := env.svc.UpdateStatus(ctx, uuid.New(), UpdateStatusInput{
		OrderStatus:   "archived",
		PaymentStatus: enums.PaymentStatusPending,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = env.svc.UpdateStatus(ctx, uuid.New(), UpdateStatusInput{
		OrderStatus:   enums.OrderStatusReady,
		PaymentStatus: enums.PaymentStatusPending,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestGetByNumber(t *testing.T) {
	env := newOrdersEnv(t)
	ctx := context.Background()
	actor := identity.NewGuestActor("sess-ord-7")

	product := env.seedProduct(t, "Rim Lock", "35.00")
	env.seedCart(t, actor, map[uuid.UUID]cartLine{
		product.ID: {qty: 1, unitPrice: decimal.RequireFromString("35.00")},
	})
	order, err := env.svc.Create(ctx, actor, validCheckoutInput())
	require.NoError(t, err)

	found, err := env.svc.GetByNumber(ctx, order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	_, err = env.svc.GetByNumber(ctx, "ORDAAAAAAAAA")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	_, err = env.svc.GetByNumber(ctx, "  ")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestListOrdersFiltersAndPaginates(t *testing.T) {
	env := newOrdersEnv(t)
	ctx := context.Background()

	product := env.seedProduct(t, "Door Closer", "20.00")
	for i := 0; i < 3; i++ {
		actor := identity.NewGuestActor("sess-ord-list-" + uuid.NewString()[:8])
		env.seedCart(t, actor, map[uuid.UUID]cartLine{
			product.ID: {qty: 1, unitPrice: decimal.RequireFromString("20.00")},
		})
		_, err := env.svc.Create(ctx, actor, validCheckoutInput())
		require.NoError(t, err)
	}

	list, err := env.svc.List(ctx, ListInput{})
	require.NoError(t, err)
	assert.Len(t, list.Orders, 3)
	assert.Empty(t, list.NextCursor)

	pending := enums.OrderStatusPending
	shipped := enums.OrderStatusShipped
	filtered, err := env.svc.List(ctx, ListInput{Filters: ListFilters{OrderStatus: &pending}})
	require.NoError(t, err)
	assert.Len(t, filtered.Orders, 3)

	filtered, err = env.svc.List(ctx, ListInput{Filters: ListFilters{OrderStatus: &shipped}})
	require.NoError(t, err)
	assert.Empty(t, filtered.Orders)
}
