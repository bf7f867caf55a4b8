package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lockwise/lockshop-backend/internal/cart"
	"github.com/lockwise/lockshop-backend/internal/identity"
	"github.com/lockwise/lockshop-backend/pkg/db/models"
	"github.com/lockwise/lockshop-backend/pkg/enums"
	pkgerrors "github.com/lockwise/lockshop-backend/pkg/errors"
	"github.com/lockwise/lockshop-backend/pkg/refcode"
)

const (
	orderNumberPrefix = "ORD"
	orderNumberLength = 9
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes checkout and back-office order operations.
type Service interface {
	Create(ctx context.Context, actor identity.Actor, input CreateOrderInput) (*OrderDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	GetByNumber(ctx context.Context, orderNumber string) (*OrderDTO, error)
	List(ctx context.Context, input ListInput) (*OrderList, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, input UpdateStatusInput) (*OrderDTO, error)
}

type service struct {
	repo  *Repository
	carts *cart.Repository
	tx    txRunner
}

// NewService builds an order service backed by the provided stack.
func NewService(repo *Repository, carts *cart.Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, carts: carts, tx: tx}, nil
}

// Create turns the actor's cart into an order. The order insert and the cart
// clear commit together, so a failed checkout never leaves a half-emptied
// cart next to a persisted order.
func (s *service) Create(ctx context.Context, actor identity.Actor, input CreateOrderInput) (*OrderDTO, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	userID, sessionID := actor.CartOwnerKey()
	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		orderRepo := s.repo.WithTx(tx)
		cartRepo := s.carts.WithTx(tx)

		ownerCart, err := cartRepo.FindByOwner(ctx, userID, sessionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		if len(ownerCart.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		items, err := buildItemSnapshots(ownerCart.Items)
		if err != nil {
			return err
		}

		orderNumber, err := refcode.Generate(ctx, orderNumberPrefix, orderNumberLength, orderRepo.OrderNumberExists)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "generate order number")
		}

		order := &models.Order{
			OrderNumber:   orderNumber,
			UserID:        userID,
			SessionID:     sessionID,
			CustomerInfo:  input.CustomerInfo,
			OrderType:     input.OrderType,
			PaymentType:   input.PaymentType,
			OrderStatus:   enums.OrderStatusPending,
			PaymentStatus: enums.PaymentStatusPending,
			SubTotal:      subTotal(ownerCart, items),
			Items:         items,
		}
		created, err = orderRepo.Create(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
		}

		if err := cartRepo.ClearItems(ctx, ownerCart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}
		if err := cartRepo.UpdateTotals(ctx, ownerCart.ID, 0, decimal.Zero); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reset cart totals")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(created), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return FromModel(order), nil
}

func (s *service) GetByNumber(ctx context.Context, orderNumber string) (*OrderDTO, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number required")
	}
	order, err := s.repo.FindByNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return FromModel(order), nil
}

func (s *service) List(ctx context.Context, input ListInput) (*OrderList, error) {
	list, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

// UpdateStatus overwrites both status columns. Any status is reachable from
// any other, there is no transition table.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, input UpdateStatusInput) (*OrderDTO, error) {
	if !input.OrderStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", input.OrderStatus))
	}
	if !input.PaymentStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment status %q", input.PaymentStatus))
	}

	err := s.repo.UpdateStatuses(ctx, id, input.OrderStatus.String(), input.PaymentStatus.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	return s.Get(ctx, id)
}

func validateCreateInput(input CreateOrderInput) error {
	info := input.CustomerInfo
	if strings.TrimSpace(info.FullName) == "" ||
		strings.TrimSpace(info.Email) == "" ||
		strings.TrimSpace(info.Phone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer info is incomplete")
	}
	if !input.PaymentType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment type %q", input.PaymentType))
	}
	if !input.OrderType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order type %q", input.OrderType))
	}
	return nil
}

// buildItemSnapshots copies the live product fields onto immutable order
// lines. Later product edits must not reach past orders.
func buildItemSnapshots(items []models.CartItem) ([]models.OrderItem, error) {
	snapshots := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		if item.Product == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart references a missing product")
		}
		snapshots = append(snapshots, models.OrderItem{
			ProductID:  item.ProductID,
			Name:       item.Product.Name,
			ImageURLs:  append(pq.StringArray(nil), item.Product.ImageURLs...),
			Color:      item.Product.Color,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
			TotalPrice: item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}
	return snapshots, nil
}

// subTotal prefers the cart's stored total and falls back to summing the
// snapshot lines when the stored total is zero but lines exist.
func subTotal(ownerCart *models.Cart, items []models.OrderItem) decimal.Decimal {
	if ownerCart.TotalAmount.IsPositive() {
		return ownerCart.TotalAmount
	}
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.TotalPrice)
	}
	return total
}
